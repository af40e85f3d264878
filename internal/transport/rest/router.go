package rest

import (
	"net/http"

	"github.com/heartmarshall/lingua-cards/internal/transport/middleware"
)

// Handlers groups everything NewRouter mounts.
type Handlers struct {
	Health     *HealthHandler
	Vocabulary *VocabularyHandler
	Progress   *ProgressHandler
	Chat       *ChatHandler
}

// NewRouter registers all routes. api wraps every /api route; chatLimit
// additionally wraps POST /api/chat and may be nil. Health checks bypass
// the API middleware.
func NewRouter(h Handlers, api, chatLimit middleware.Middleware) http.Handler {
	if api == nil {
		api = middleware.Chain()
	}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	handle := func(pattern string, fn http.HandlerFunc, extra ...middleware.Middleware) {
		mux.Handle(pattern, middleware.Chain(extra...)(fn))
	}

	handle("GET /api/levels", h.Vocabulary.Levels)
	handle("GET /api/vocabulary/{lang}/{level}", h.Vocabulary.Vocabulary)
	handle("GET /api/topics/{lang}/{level}", h.Vocabulary.Topics)
	handle("GET /api/flashcards/{lang}/{level}", h.Vocabulary.Flashcards)

	handle("GET /api/progress/{lang}/{level}", h.Progress.List)
	handle("PUT /api/progress/{lang}/{level}", h.Progress.Sync)
	handle("DELETE /api/progress/{lang}/{level}", h.Progress.Reset)
	handle("POST /api/progress/{lang}/{level}/{cardID}", h.Progress.SetLearned)

	handle("GET /api/chat/{lang}/scenarios", h.Chat.Scenarios)
	handle("POST /api/chat", h.Chat.Reply, chatLimit)

	root := http.NewServeMux()
	root.Handle("/api/", api(mux))
	root.Handle("/", mux)
	return root
}
