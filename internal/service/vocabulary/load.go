package vocabulary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/lingua-cards/internal/domain"
	"github.com/heartmarshall/lingua-cards/internal/outline"
	"github.com/heartmarshall/lingua-cards/internal/service/resolver"
)

// Load returns the static set for (lang, level) verbatim.
func (s *Service) Load(ctx context.Context, lang domain.Language, level domain.Level) ([]domain.VocabularyEntry, error) {
	key := domain.SetKey{Lang: lang, Level: level}
	if err := key.Validate(); err != nil {
		return nil, err
	}

	entries, ok := s.catalog.Entries(lang, level)
	if !ok {
		return nil, fmt.Errorf("vocabulary set %s: %w", key, domain.ErrNotFound)
	}
	return entries, nil
}

// LoadTopical returns the parsed outline of (lang, level). The first call
// per pair fetches and parses the document; later calls are served from
// cache until Refresh replaces it. The returned map must not be modified.
func (s *Service) LoadTopical(ctx context.Context, lang domain.Language, level domain.Level) (*domain.TopicMap, error) {
	key := domain.SetKey{Lang: lang, Level: level}
	if err := key.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	cached, ok := s.topical[key]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	// The shared fetch outlives any single caller: a cancelled request must
	// not fail the others waiting on the same first load.
	ch := s.fetches.DoChan(key.String(), func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()

		m, err := s.fetchTopical(fetchCtx, key)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.topical[key] = m
		s.mu.Unlock()
		return m, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.TopicMap), nil
	}
}

func (s *Service) fetchTopical(ctx context.Context, key domain.SetKey) (*domain.TopicMap, error) {
	if s.docs == nil {
		return nil, fmt.Errorf("topical vocabulary: no document source: %w", domain.ErrUnavailable)
	}

	text, err := s.docs.Fetch(ctx, key.Lang, key.Level)
	if err != nil {
		return nil, fmt.Errorf("fetch outline %s: %w", key, err)
	}

	m, stats := outline.New(key.Lang, key.Level).ParseWithStats(text)
	s.log.InfoContext(ctx, "outline parsed",
		slog.String("set", key.String()),
		slog.Int("topics", stats.Topics),
		slog.Int("words", stats.Words),
		slog.Int("dropped", stats.Dropped),
		slog.Int("empty_headings", stats.EmptyHeadings),
	)
	return m, nil
}

// Deck is a flashcard deck built from an outline.
type Deck struct {
	Cards []domain.VocabularyEntry
	Stats resolver.DeckStats
}

// Flashcards builds the flashcard deck for the outline of (lang, level).
func (s *Service) Flashcards(ctx context.Context, lang domain.Language, level domain.Level) (*Deck, error) {
	topics, err := s.LoadTopical(ctx, lang, level)
	if err != nil {
		return nil, err
	}

	cards, stats := s.resolverFor(lang).BuildDeck(topics)
	if stats.Unresolved > 0 {
		s.log.DebugContext(ctx, "deck has unresolved words",
			slog.String("set", domain.SetKey{Lang: lang, Level: level}.String()),
			slog.Int("unresolved", stats.Unresolved),
		)
	}
	return &Deck{Cards: cards, Stats: stats}, nil
}

// SetSize returns the number of cards in (lang, level) and the id family
// they belong to: the static set when one exists, otherwise the words of
// its outline.
func (s *Service) SetSize(ctx context.Context, lang domain.Language, level domain.Level) (int, domain.CardFamily, error) {
	key := domain.SetKey{Lang: lang, Level: level}
	if err := key.Validate(); err != nil {
		return 0, domain.FamilyStatic, err
	}
	if _, ok := s.catalog.Entries(lang, level); ok {
		return s.catalog.Size(key), domain.FamilyStatic, nil
	}

	topics, err := s.LoadTopical(ctx, lang, level)
	if err != nil {
		return 0, domain.FamilyTopic, err
	}
	return topics.WordCount(), domain.FamilyTopic, nil
}
