package progress

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/lingua-cards/internal/domain"
)

// SyncResult reports what a Sync changed.
type SyncResult struct {
	Removed int `json:"removed"`
	Learned int `json:"learned"`
}

// Sync makes the stored learned set of the current learner equal to
// in.Learned, in one transaction. Duplicate ids count once.
func (s *Service) Sync(ctx context.Context, in SyncInput) (*SyncResult, error) {
	learnerID, err := learnerFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	set := domain.SetKey{Lang: in.Lang, Level: in.Level}
	ids := dedupe(in.Learned)
	now := s.now()

	var result SyncResult
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		removed, err := s.repo.DeleteSet(ctx, learnerID, set)
		if err != nil {
			return fmt.Errorf("clear set: %w", err)
		}
		result.Removed = removed

		for _, id := range ids {
			p := domain.Progress{
				LearnerID: learnerID,
				CardID:    id,
				Lang:      in.Lang,
				Level:     in.Level,
				Learned:   true,
				UpdatedAt: now,
			}
			if err := s.repo.Upsert(ctx, p); err != nil {
				return fmt.Errorf("upsert progress: %w", err)
			}
		}
		result.Learned = len(ids)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "progress synced",
		slog.String("learner_id", learnerID.String()),
		slog.String("set", set.String()),
		slog.Int("removed", result.Removed),
		slog.Int("learned", result.Learned),
	)
	return &result, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
