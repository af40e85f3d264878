package translate

import (
	"context"

	"github.com/heartmarshall/lingua-cards/internal/domain"
)

// Stub is used when no translation service is configured.
type Stub struct{}

// NewStub creates a new no-op translation provider.
func NewStub() *Stub { return &Stub{} }

// Translate always returns "" with no error: nothing to offer.
func (s *Stub) Translate(ctx context.Context, text string, from, to domain.Language) (string, error) {
	return "", nil
}
