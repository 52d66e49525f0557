package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rogerbox/rogerbox/internal/auth"
	"github.com/rogerbox/rogerbox/internal/domain"
	"github.com/rogerbox/rogerbox/internal/ports"
)

// TokenIssuer signe les sessions (auth.Issuer).
type TokenIssuer interface {
	Issue(id domain.Identity) (string, time.Time, error)
}

type AuthService struct {
	users  ports.UserRepository
	tokens TokenIssuer
	policy AuthorizationPolicy
	// hashing borne les bcrypt concurrents ; nil = pas de limite.
	hashing *Limiter
	now     func() time.Time
}

func NewAuthService(users ports.UserRepository, tokens TokenIssuer, policy AuthorizationPolicy, hashing *Limiter) *AuthService {
	return &AuthService{users: users, tokens: tokens, policy: policy, hashing: hashing, now: time.Now}
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"fullName" validate:"max=120"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

type SessionDTO struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      UserDTO   `json:"user"`
}

func (s *AuthService) toUserDTO(u domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		IsAdmin:   s.policy != nil && s.policy.IsAdmin(identityOf(u)),
		CreatedAt: u.CreatedAt,
	}
}

func identityOf(u domain.User) domain.Identity {
	return domain.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (SessionDTO, error) {
	in.Email = domain.NormalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if err := validateInput(in); err != nil {
		return SessionDTO{}, err
	}

	var hash string
	err := s.hashing.Do(ctx, func() error {
		var err error
		hash, err = auth.HashPassword(in.Password)
		return err
	})
	if err != nil {
		return SessionDTO{}, err
	}
	now := s.now().UTC()
	u := domain.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	p := domain.Profile{UserID: u.ID, FullName: in.FullName, UpdatedAt: now}

	created, err := s.users.Create(ctx, u, p)
	if err != nil {
		return SessionDTO{}, err
	}
	return s.session(created)
}

// Login renvoie ErrInvalidCredentials sans distinguer email inconnu et mauvais mot de passe.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (SessionDTO, error) {
	in.Email = domain.NormalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return SessionDTO{}, err
	}
	u, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return SessionDTO{}, ErrInvalidCredentials
		}
		return SessionDTO{}, err
	}
	err = s.hashing.Do(ctx, func() error {
		return auth.CheckPassword(u.PasswordHash, in.Password)
	})
	if errors.Is(err, auth.ErrPasswordMismatch) {
		return SessionDTO{}, ErrInvalidCredentials
	}
	if err != nil {
		return SessionDTO{}, err
	}
	return s.session(u)
}

func (s *AuthService) session(u domain.User) (SessionDTO, error) {
	token, exp, err := s.tokens.Issue(identityOf(u))
	if err != nil {
		return SessionDTO{}, err
	}
	return SessionDTO{Token: token, ExpiresAt: exp, User: s.toUserDTO(u)}, nil
}

// PromoteAdmins donne le rôle admin aux comptes existants dont l'email est listé.
// Appelé une fois au démarrage : un compte créé ensuite avec un de ces emails
// reste simple membre jusqu'au prochain démarrage.
func (s *AuthService) PromoteAdmins(ctx context.Context, emails []string) ([]UserDTO, error) {
	promoted := []UserDTO{}
	for _, email := range emails {
		email = domain.NormalizeEmail(email)
		if email == "" {
			continue
		}
		u, err := s.users.GetByEmail(ctx, email)
		if errors.Is(err, ports.ErrNotFound) {
			continue
		}
		if err != nil {
			return promoted, err
		}
		if u.Role == domain.RoleAdmin {
			continue
		}
		now := s.now().UTC()
		if err := s.users.SetRole(ctx, u.ID, domain.RoleAdmin, now); err != nil {
			return promoted, err
		}
		u.Role = domain.RoleAdmin
		u.UpdatedAt = now
		promoted = append(promoted, s.toUserDTO(u))
	}
	return promoted, nil
}
