package app

import (
	"errors"
	"sort"
	"strings"

	"github.com/rogerbox/rogerbox/internal/domain"
	"github.com/rogerbox/rogerbox/internal/ports"
)

var (
	ErrNotFound = ports.ErrNotFound
	ErrConflict = ports.ErrConflict

	ErrInvalidSlot = domain.ErrInvalidSlot

	ErrStoreFailure       = errors.New("content store failure")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrUploadsDisabled    = errors.New("object storage not configured")
)

// InputError porte le détail d'une entrée refusée (champ JSON -> règle violée).
// errors.Is(err, ErrInvalidInput) est vrai.
type InputError struct {
	Fields  map[string]string
	Message string
	Err     error
}

func (e *InputError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" {
		msg = ErrInvalidInput.Error()
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+e.Fields[k])
		}
		msg += " (" + strings.Join(parts, ", ") + ")"
	}
	return msg
}

func (e *InputError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidInput}
	}
	return []error{ErrInvalidInput, e.Err}
}

func invalidInput(message string) error {
	return &InputError{Message: message}
}
