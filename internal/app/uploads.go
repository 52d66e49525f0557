package app

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/rogerbox/rogerbox/internal/ports"
)

const defaultUploadTTL = 15 * time.Minute

// UploadService délivre des URLs d'upload direct pour les médias du back office.
// Sans signer configuré, chaque demande renvoie ErrUploadsDisabled.
type UploadService struct {
	signer ports.UploadSigner
	ttl    time.Duration
}

func NewUploadService(signer ports.UploadSigner, ttl time.Duration) *UploadService {
	if ttl <= 0 {
		ttl = defaultUploadTTL
	}
	return &UploadService{signer: signer, ttl: ttl}
}

type UploadInput struct {
	Kind        string `json:"kind" validate:"required,oneof=banner complement course avatar"`
	FileName    string `json:"fileName" validate:"required,max=200"`
	ContentType string `json:"contentType" validate:"required,oneof=image/jpeg image/png image/webp video/mp4"`
}

type UploadDTO struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"uploadUrl"`
	PublicURL string    `json:"publicUrl"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *UploadService) Enabled() bool { return s.signer != nil }

func (s *UploadService) Presign(ctx context.Context, in UploadInput) (UploadDTO, error) {
	if s.signer == nil {
		return UploadDTO{}, ErrUploadsDisabled
	}
	in.FileName = strings.TrimSpace(in.FileName)
	if err := validateInput(in); err != nil {
		return UploadDTO{}, err
	}

	key := objectKey(in.Kind, in.FileName)
	uploadURL, publicURL, err := s.signer.PresignPut(ctx, key, in.ContentType, s.ttl)
	if err != nil {
		return UploadDTO{}, err
	}
	return UploadDTO{
		Key:       key,
		UploadURL: uploadURL,
		PublicURL: publicURL,
		Method:    "PUT",
		ExpiresAt: time.Now().UTC().Add(s.ttl),
	}, nil
}

// objectKey : "<kind>s/<xid>-<nom nettoyé>.<ext>".
func objectKey(kind, fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	ext := strings.ToLower(path.Ext(base))
	name := slugify(strings.TrimSuffix(base, path.Ext(base)))
	if name == "" {
		name = "file"
	}
	return kind + "s/" + xid.New().String() + "-" + name + ext
}
