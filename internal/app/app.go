package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/lingua-cards/internal/adapter/provider/claude"
	"github.com/heartmarshall/lingua-cards/internal/adapter/source"
	"github.com/heartmarshall/lingua-cards/internal/catalog"
	"github.com/heartmarshall/lingua-cards/internal/config"
	"github.com/heartmarshall/lingua-cards/internal/domain"
	"github.com/heartmarshall/lingua-cards/internal/scheduler"
	"github.com/heartmarshall/lingua-cards/internal/service/chat"
	"github.com/heartmarshall/lingua-cards/internal/service/progress"
	"github.com/heartmarshall/lingua-cards/internal/service/resolver"
	"github.com/heartmarshall/lingua-cards/internal/service/vocabulary"
	"github.com/heartmarshall/lingua-cards/internal/transport/middleware"
	"github.com/heartmarshall/lingua-cards/internal/transport/rest"
)

// Run is the server entry point. It loads configuration, wires storage,
// services and HTTP handlers, and serves until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("storage", cfg.Storage.Driver),
	)

	// 1. Storage.
	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.close()

	// 2. Vocabulary data and outline source.
	cat, err := catalog.Open(cfg.Vocabulary.DataDir)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("vocabulary catalog loaded", slog.Int("sets", len(cat.Sets())))

	docs := outlineSource(cfg.Vocabulary, logger)

	// 3. Services.
	vocabService := vocabulary.NewService(logger, cat, docs,
		resolver.WithOrder(resolver.ParseOrder(cfg.Vocabulary.CrossTopicOrder)),
	)
	progressService := progress.NewService(logger, store.repo, store.tx, vocabService)

	var chatService *chat.Service
	if cfg.Chat.LLMEnabled() {
		chatService = chat.NewService(logger, claude.New(cfg.Chat, logger))
		logger.Info("chat replies use the language model", slog.String("model", cfg.Chat.Model))
	} else {
		chatService = chat.NewService(logger, nil)
		logger.Info("chat replies are scripted")
	}

	// 4. Background outline refresh.
	if cfg.Vocabulary.RefreshInterval > 0 && docs != nil {
		sched := scheduler.New(logger, vocabService, cfg.Vocabulary.RefreshInterval, 0)
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()
	}

	// 5. HTTP.
	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	router := rest.NewRouter(rest.Handlers{
		Health:     rest.NewHealthHandler(Version, rest.Component{Name: "storage", Check: store.repo}),
		Vocabulary: rest.NewVocabularyHandler(vocabService, logger),
		Progress:   rest.NewProgressHandler(progressService, logger),
		Chat:       rest.NewChatHandler(chatService, logger),
	}, middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		middleware.Learner(),
	), limiter.Limit(cfg.Chat.RatePerMinute, cfg.Chat.Burst))

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      middleware.Recovery(logger)(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	return serve(ctx, srv, cfg.Server.ShutdownTimeout, logger)
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

type outlineFetcher interface {
	Fetch(ctx context.Context, lang domain.Language, level domain.Level) (string, error)
}

// outlineSource picks the outline document source. A nil result disables
// topical vocabulary.
func outlineSource(cfg config.VocabularyConfig, logger *slog.Logger) outlineFetcher {
	switch {
	case cfg.OutlineURL != "":
		return source.NewHTTP(cfg.OutlineURL, cfg.OutlineTimeout, logger)
	case cfg.OutlineDir != "":
		return source.NewDir(cfg.OutlineDir, logger)
	default:
		logger.Warn("no outline source configured, topical vocabulary is disabled")
		return nil
	}
}
