package progress

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/lingua-cards/internal/domain"
	"github.com/heartmarshall/lingua-cards/pkg/ctxutil"
)

func learnerFromCtx(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return id, nil
}

// SetLearned records the learned state of one card for the current learner.
func (s *Service) SetLearned(ctx context.Context, in SetLearnedInput) (*domain.Progress, error) {
	learnerID, err := learnerFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p := domain.Progress{
		LearnerID: learnerID,
		CardID:    strings.TrimSpace(in.CardID),
		Lang:      in.Lang,
		Level:     in.Level,
		Learned:   in.Learned,
		UpdatedAt: s.now(),
	}
	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}

	s.log.DebugContext(ctx, "card progress set",
		slog.String("learner_id", learnerID.String()),
		slog.String("card_id", p.CardID),
		slog.Bool("learned", p.Learned),
	)
	return &p, nil
}

// MarkLearned marks a card as learned.
func (s *Service) MarkLearned(ctx context.Context, lang domain.Language, level domain.Level, cardID string) (*domain.Progress, error) {
	return s.SetLearned(ctx, SetLearnedInput{Lang: lang, Level: level, CardID: cardID, Learned: true})
}

// MarkUnlearned marks a card as not learned.
func (s *Service) MarkUnlearned(ctx context.Context, lang domain.Language, level domain.Level, cardID string) (*domain.Progress, error) {
	return s.SetLearned(ctx, SetLearnedInput{Lang: lang, Level: level, CardID: cardID, Learned: false})
}

// ListLearned returns the ids of learned cards in the set, sorted.
// Returns an empty slice (not nil) when nothing is learned yet.
func (s *Service) ListLearned(ctx context.Context, lang domain.Language, level domain.Level) ([]string, error) {
	learnerID, err := learnerFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	set := domain.SetKey{Lang: lang, Level: level}
	if err := set.Validate(); err != nil {
		return nil, err
	}

	ids, err := s.repo.ListLearned(ctx, learnerID, set)
	if err != nil {
		return nil, fmt.Errorf("list learned: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Summary counts learned cards against the size of the set.
func (s *Service) Summary(ctx context.Context, lang domain.Language, level domain.Level) (*domain.ProgressSummary, error) {
	learnerID, err := learnerFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	set := domain.SetKey{Lang: lang, Level: level}
	if err := set.Validate(); err != nil {
		return nil, err
	}

	total, family, err := s.sets.SetSize(ctx, lang, level)
	if err != nil {
		return nil, fmt.Errorf("set size: %w", err)
	}
	// Only cards of the family the total was taken from count.
	learned, err := s.repo.CountLearned(ctx, learnerID, set, family)
	if err != nil {
		return nil, fmt.Errorf("count learned: %w", err)
	}
	if learned > total {
		learned = total
	}

	return &domain.ProgressSummary{Lang: lang, Level: level, Total: total, Learned: learned}, nil
}

// Reset forgets all progress of the current learner in the set and returns
// how many records were removed.
func (s *Service) Reset(ctx context.Context, lang domain.Language, level domain.Level) (int, error) {
	learnerID, err := learnerFromCtx(ctx)
	if err != nil {
		return 0, err
	}
	set := domain.SetKey{Lang: lang, Level: level}
	if err := set.Validate(); err != nil {
		return 0, err
	}

	n, err := s.repo.DeleteSet(ctx, learnerID, set)
	if err != nil {
		return 0, fmt.Errorf("reset progress: %w", err)
	}

	s.log.InfoContext(ctx, "progress reset",
		slog.String("learner_id", learnerID.String()),
		slog.String("set", set.String()),
		slog.Int("removed", n),
	)
	return n, nil
}
