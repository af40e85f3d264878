package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/lingua-cards/internal/domain"
)

// SeedProgress inserts one learned card for a fresh learner and returns it.
func SeedProgress(t *testing.T, pool *pgxpool.Pool, set domain.SetKey, cardID string) domain.Progress {
	t.Helper()

	p := domain.Progress{
		LearnerID: uuid.New(),
		CardID:    cardID,
		Lang:      set.Lang,
		Level:     set.Level,
		Learned:   true,
		UpdatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO card_progress (learner_id, card_id, lang, level, learned, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.LearnerID, p.CardID, string(p.Lang), string(p.Level), p.Learned, p.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedProgress: %v", err)
	}
	return p
}
