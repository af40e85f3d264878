package vocabulary

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/lingua-cards/internal/domain"
)

const refreshConcurrency = 4

// Refresh re-fetches every cached outline. A pair whose fetch fails keeps
// its previous map; the first such error is returned after all pairs ran.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.RLock()
	keys := make([]domain.SetKey, 0, len(s.topical))
	for k := range s.topical {
		keys = append(keys, k)
	}
	s.mu.RUnlock()

	if len(keys) == 0 {
		return nil
	}

	var g errgroup.Group
	g.SetLimit(refreshConcurrency)
	for _, key := range keys {
		g.Go(func() error {
			m, err := s.fetchTopical(ctx, key)
			if err != nil {
				s.log.WarnContext(ctx, "outline refresh failed, keeping previous",
					slog.String("set", key.String()),
					slog.String("error", err.Error()),
				)
				return err
			}
			s.mu.Lock()
			s.topical[key] = m
			s.mu.Unlock()
			return nil
		})
	}
	err := g.Wait()

	s.log.InfoContext(ctx, "outlines refreshed", slog.Int("sets", len(keys)))
	return err
}

// Cached lists the pairs whose outline is currently cached.
func (s *Service) Cached() []domain.SetKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SetKey, 0, len(s.topical))
	for k := range s.topical {
		out = append(out, k)
	}
	return out
}
