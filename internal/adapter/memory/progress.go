// Package memory implements in-process repositories for demo mode and tests.
// Data is lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/lingua-cards/internal/domain"
)

type progressKey struct {
	learner uuid.UUID
	cardID  string
}

// ProgressRepo stores card progress in a map.
type ProgressRepo struct {
	mu   sync.RWMutex
	rows map[progressKey]domain.Progress
}

// NewProgressRepo creates an empty ProgressRepo.
func NewProgressRepo() *ProgressRepo {
	return &ProgressRepo{rows: make(map[progressKey]domain.Progress)}
}

// Upsert inserts or replaces the progress of one card. A write older than
// the stored one is ignored.
func (r *ProgressRepo) Upsert(ctx context.Context, p domain.Progress) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := progressKey{p.LearnerID, p.CardID}
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.rows[key]; ok && old.UpdatedAt.After(p.UpdatedAt) {
		return nil
	}
	r.rows[key] = p
	return nil
}

// ListLearned returns learned card ids of the set, sorted.
func (r *ProgressRepo) ListLearned(ctx context.Context, learnerID uuid.UUID, set domain.SetKey) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	ids := []string{}
	for k, p := range r.rows {
		if k.learner == learnerID && p.Learned && p.Lang == set.Lang && p.Level == set.Level {
			ids = append(ids, k.cardID)
		}
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids, nil
}

// CountLearned returns the number of learned cards of one id family in the set.
func (r *ProgressRepo) CountLearned(ctx context.Context, learnerID uuid.UUID, set domain.SetKey, family domain.CardFamily) (int, error) {
	ids, err := r.ListLearned(ctx, learnerID, set)
	n := 0
	for _, id := range ids {
		if family.Contains(set, id) {
			n++
		}
	}
	return n, err
}

// DeleteSet removes every record of the learner in the set.
func (r *ProgressRepo) DeleteSet(ctx context.Context, learnerID uuid.UUID, set domain.SetKey) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k, p := range r.rows {
		if k.learner == learnerID && p.Lang == set.Lang && p.Level == set.Level {
			delete(r.rows, k)
			n++
		}
	}
	return n, nil
}

// Ping always succeeds.
func (r *ProgressRepo) Ping(ctx context.Context) error { return nil }
