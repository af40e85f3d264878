package vocabulary

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/heartmarshall/lingua-cards/internal/domain"
	"github.com/heartmarshall/lingua-cards/internal/service/resolver"
)

type catalogReader interface {
	Entries(lang domain.Language, level domain.Level) ([]domain.VocabularyEntry, bool)
	Tables(lang domain.Language) *resolver.Tables
	Sets() []domain.SetKey
	Size(key domain.SetKey) int
}

// documentSource retrieves the raw outline of a (language, level) pair.
type documentSource interface {
	Fetch(ctx context.Context, lang domain.Language, level domain.Level) (string, error)
}

// defaultFetchTimeout bounds a shared first load of an outline.
const defaultFetchTimeout = 30 * time.Second

// Service serves static vocabulary sets and topic outlines, and builds
// flashcard decks from the latter.
type Service struct {
	catalog      catalogReader
	docs         documentSource
	resolverOpts []resolver.Option
	log          *slog.Logger
	fetchTimeout time.Duration

	mu        sync.RWMutex
	topical   map[domain.SetKey]*domain.TopicMap
	resolvers map[domain.Language]*resolver.Resolver
	fetches   singleflight.Group
}

// NewService creates a new vocabulary service. docs may be nil, in which
// case topical operations report domain.ErrUnavailable.
func NewService(
	log *slog.Logger,
	catalog catalogReader,
	docs documentSource,
	resolverOpts ...resolver.Option,
) *Service {
	return &Service{
		catalog:      catalog,
		docs:         docs,
		resolverOpts: resolverOpts,
		log:          log.With("service", "vocabulary"),
		fetchTimeout: defaultFetchTimeout,
		topical:      make(map[domain.SetKey]*domain.TopicMap),
		resolvers:    make(map[domain.Language]*resolver.Resolver),
	}
}

// SetInfo describes one available static set.
type SetInfo struct {
	Lang  domain.Language `json:"lang"`
	Level domain.Level    `json:"level"`
	Cards int             `json:"cards"`
}

// Levels lists the static sets, sorted by language then level.
func (s *Service) Levels() []SetInfo {
	keys := s.catalog.Sets()
	out := make([]SetInfo, 0, len(keys))
	for _, k := range keys {
		out = append(out, SetInfo{Lang: k.Lang, Level: k.Level, Cards: s.catalog.Size(k)})
	}
	return out
}

// resolverFor returns the shared resolver of lang, building it on first use.
func (s *Service) resolverFor(lang domain.Language) *resolver.Resolver {
	s.mu.RLock()
	r, ok := s.resolvers[lang]
	s.mu.RUnlock()
	if ok {
		return r
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.resolvers[lang]; ok {
		return r
	}
	r = resolver.New(s.catalog.Tables(lang), s.resolverOpts...)
	s.resolvers[lang] = r
	return r
}
