package progress

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/lingua-cards/internal/domain"
)

type progressRepo interface {
	Upsert(ctx context.Context, p domain.Progress) error
	ListLearned(ctx context.Context, learnerID uuid.UUID, set domain.SetKey) ([]string, error)
	CountLearned(ctx context.Context, learnerID uuid.UUID, set domain.SetKey, family domain.CardFamily) (int, error)
	DeleteSet(ctx context.Context, learnerID uuid.UUID, set domain.SetKey) (int, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// setSizer reports how many cards a vocabulary set has.
type setSizer interface {
	SetSize(ctx context.Context, lang domain.Language, level domain.Level) (int, domain.CardFamily, error)
}

// Service tracks which cards a learner has marked as learned.
type Service struct {
	repo progressRepo
	tx   txManager
	sets setSizer
	now  func() time.Time
	log  *slog.Logger
}

// NewService creates a new progress service.
func NewService(log *slog.Logger, repo progressRepo, tx txManager, sets setSizer) *Service {
	return &Service{
		repo: repo,
		tx:   tx,
		sets: sets,
		now:  func() time.Time { return time.Now().UTC() },
		log:  log.With("service", "progress"),
	}
}
