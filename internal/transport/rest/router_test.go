package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/lingua-cards/internal/domain"
	"github.com/heartmarshall/lingua-cards/internal/service/chat"
	"github.com/heartmarshall/lingua-cards/internal/service/progress"
	"github.com/heartmarshall/lingua-cards/internal/service/resolver"
	"github.com/heartmarshall/lingua-cards/internal/service/vocabulary"
	"github.com/heartmarshall/lingua-cards/internal/transport/middleware"
	"github.com/heartmarshall/lingua-cards/pkg/ctxutil"
)

type testDeps struct {
	vocab    *vocabularyServiceMock
	progress *progressServiceMock
	chat     *chatServiceMock
	limit    middleware.Middleware
}

func newTestRouter(t *testing.T, d testDeps) http.Handler {
	t.Helper()
	if d.vocab == nil {
		d.vocab = &vocabularyServiceMock{}
	}
	if d.progress == nil {
		d.progress = &progressServiceMock{}
	}
	if d.chat == nil {
		d.chat = &chatServiceMock{}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(Handlers{
		Health:     NewHealthHandler("test"),
		Vocabulary: NewVocabularyHandler(d.vocab, logger),
		Progress:   NewProgressHandler(d.progress, logger),
		Chat:       NewChatHandler(d.chat, logger),
	}, middleware.Chain(middleware.RequestID(), middleware.Learner()), d.limit)
}

func do(t *testing.T, h http.Handler, method, path, body string, learner uuid.UUID) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if learner != uuid.Nil {
		req.Header.Set(middleware.LearnerIDHeader, learner.String())
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

// ---------------------------------------------------------------------------
// Vocabulary
// ---------------------------------------------------------------------------

func TestLevels(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, testDeps{vocab: &vocabularyServiceMock{
		LevelsFunc: func() []vocabulary.SetInfo {
			return []vocabulary.SetInfo{{Lang: "es", Level: domain.LevelB1, Cards: 12}}
		},
	}})

	rec, body := do(t, h, http.MethodGet, "/api/levels", "", uuid.Nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, []any{map[string]any{"lang": "es", "level": "b1", "cards": float64(12)}}, body["levels"])
}

func TestVocabulary(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, testDeps{vocab: &vocabularyServiceMock{
		LoadFunc: func(ctx context.Context, lang domain.Language, level domain.Level) ([]domain.VocabularyEntry, error) {
			assert.Equal(t, domain.Language("es"), lang)
			assert.Equal(t, domain.LevelB2, level)
			return []domain.VocabularyEntry{{ID: "es_b2_1", SourceWord: "zweifeln", TargetWord: "dudar"}}, nil
		},
	}})

	rec, body := do(t, h, http.MethodGet, "/api/vocabulary/es/b2", "", uuid.Nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := body["entries"].([]any)
	require.Len(t, entries, 1)
	assert.Equal(t, "dudar", entries[0].(map[string]any)["targetWord"])
}

func TestVocabulary_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", fmt.Errorf("set es/c2: %w", domain.ErrNotFound), http.StatusNotFound},
		{"validation", domain.NewValidationError("level", "invalid level"), http.StatusBadRequest},
		{"unavailable", domain.ErrUnavailable, http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newTestRouter(t, testDeps{vocab: &vocabularyServiceMock{
				LoadFunc: func(ctx context.Context, lang domain.Language, level domain.Level) ([]domain.VocabularyEntry, error) {
					return nil, tt.err
				},
			}})

			rec, body := do(t, h, http.MethodGet, "/api/vocabulary/es/c2", "", uuid.Nil)
			assert.Equal(t, tt.code, rec.Code)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestVocabulary_ValidationFields(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, testDeps{vocab: &vocabularyServiceMock{
		LoadFunc: func(ctx context.Context, lang domain.Language, level domain.Level) ([]domain.VocabularyEntry, error) {
			return nil, domain.NewValidationError("level", "invalid level")
		},
	}})

	rec, body := do(t, h, http.MethodGet, "/api/vocabulary/es/z9", "", uuid.Nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{map[string]any{"field": "level", "message": "invalid level"}}, body["fields"])
}

func TestTopics(t *testing.T) {
	t.Parallel()

	m := domain.NewTopicMap()
	work, _ := m.Ensure("trabajo")
	work.Words = append(work.Words, domain.TopicWord{ID: "es_b1_topic_1", Text: "abogado"})

	h := newTestRouter(t, testDeps{vocab: &vocabularyServiceMock{
		LoadTopicalFunc: func(ctx context.Context, lang domain.Language, level domain.Level) (*domain.TopicMap, error) {
			return m, nil
		},
	}})

	rec, body := do(t, h, http.MethodGet, "/api/topics/es/b1", "", uuid.Nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["words"])
	topics := body["topics"].([]any)
	require.Len(t, topics, 1)
	assert.Equal(t, "trabajo", topics[0].(map[string]any)["key"])
}

func TestFlashcards(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, testDeps{vocab: &vocabularyServiceMock{
		FlashcardsFunc: func(ctx context.Context, lang domain.Language, level domain.Level) (*vocabulary.Deck, error) {
			return &vocabulary.Deck{
				Cards: []domain.VocabularyEntry{{ID: "es_b1_topic_1", SourceWord: "der Anwalt", TargetWord: "abogado"}},
				Stats: resolver.DeckStats{Cards: 1, Resolved: 1},
			}, nil
		},
	}})

	rec, body := do(t, h, http.MethodGet, "/api/flashcards/es/b1", "", uuid.Nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body["cards"], 1)
	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(1), stats["resolved"])
}

// ---------------------------------------------------------------------------
// Progress
// ---------------------------------------------------------------------------

func TestSetLearned(t *testing.T) {
	t.Parallel()

	learner := uuid.New()
	updated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := &progressServiceMock{
		SetLearnedFunc: func(ctx context.Context, in progress.SetLearnedInput) (*domain.Progress, error) {
			id, ok := ctxutil.LearnerIDFromCtx(ctx)
			assert.True(t, ok)
			assert.Equal(t, learner, id)
			return &domain.Progress{LearnerID: id, CardID: in.CardID, Lang: in.Lang, Level: in.Level, Learned: in.Learned, UpdatedAt: updated}, nil
		},
	}
	h := newTestRouter(t, testDeps{progress: svc})

	rec, body := do(t, h, http.MethodPost, "/api/progress/es/b1/es_b1_3", `{"learned": true}`, learner)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "es_b1_3", body["cardId"])
	assert.Equal(t, true, body["learned"])
	assert.Equal(t, "2026-03-01T12:00:00Z", body["updatedAt"])

	require.Len(t, svc.SetLearnedCalls(), 1)
	assert.Equal(t, progress.SetLearnedInput{Lang: "es", Level: domain.LevelB1, CardID: "es_b1_3", Learned: true}, svc.SetLearnedCalls()[0])
}

func TestSetLearned_BadBody(t *testing.T) {
	t.Parallel()

	svc := &progressServiceMock{}
	h := newTestRouter(t, testDeps{progress: svc})

	rec, _ := do(t, h, http.MethodPost, "/api/progress/es/b1/es_b1_3", `{"learned":`, uuid.New())
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body := do(t, h, http.MethodPost, "/api/progress/es/b1/es_b1_3", `{}`, uuid.New())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{map[string]any{"field": "learned", "message": "required"}}, body["fields"])

	assert.Empty(t, svc.SetLearnedCalls())
}

func TestSetLearned_Anonymous(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, testDeps{progress: &progressServiceMock{
		SetLearnedFunc: func(ctx context.Context, in progress.SetLearnedInput) (*domain.Progress, error) {
			return nil, domain.ErrUnauthorized
		},
	}})

	rec, _ := do(t, h, http.MethodPost, "/api/progress/es/b1/es_b1_3", `{"learned": false}`, uuid.Nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSetLearned_MalformedLearnerHeader(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, testDeps{progress: &progressServiceMock{}})

	req := httptest.NewRequest(http.MethodPost, "/api/progress/es/b1/es_b1_3", strings.NewReader(`{"learned": true}`))
	req.Header.Set(middleware.LearnerIDHeader, "nope")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListProgress(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, testDeps{progress: &progressServiceMock{
		ListLearnedFunc: func(ctx context.Context, lang domain.Language, level domain.Level) ([]string, error) {
			return []string{"es_b1_1", "es_b1_2"}, nil
		},
		SummaryFunc: func(ctx context.Context, lang domain.Language, level domain.Level) (*domain.ProgressSummary, error) {
			return &domain.ProgressSummary{Lang: lang, Level: level, Total: 10, Learned: 2}, nil
		},
	}})

	rec, body := do(t, h, http.MethodGet, "/api/progress/es/b1", "", uuid.New())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"es_b1_1", "es_b1_2"}, body["learned"])
	assert.Equal(t, float64(10), body["total"])
	assert.Equal(t, float64(8), body["remaining"])
}

func TestResetProgress(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, testDeps{progress: &progressServiceMock{
		ResetFunc: func(ctx context.Context, lang domain.Language, level domain.Level) (int, error) { return 4, nil },
	}})

	rec, body := do(t, h, http.MethodDelete, "/api/progress/es/b1", "", uuid.New())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(4), body["removed"])
}

func TestSyncProgress(t *testing.T) {
	t.Parallel()

	svc := &progressServiceMock{
		SyncFunc: func(ctx context.Context, in progress.SyncInput) (*progress.SyncResult, error) {
			return &progress.SyncResult{Removed: 1, Learned: len(in.Learned)}, nil
		},
	}
	h := newTestRouter(t, testDeps{progress: svc})

	rec, body := do(t, h, http.MethodPut, "/api/progress/es/b1", `{"learned":["es_b1_1","es_b1_4"]}`, uuid.New())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["learned"])
	require.Len(t, svc.SyncCalls(), 1)
	assert.Equal(t, []string{"es_b1_1", "es_b1_4"}, svc.SyncCalls()[0].Learned)
}

func TestSyncProgress_BodyTooLarge(t *testing.T) {
	t.Parallel()

	svc := &progressServiceMock{}
	h := newTestRouter(t, testDeps{progress: svc})

	big := `{"learned":["` + strings.Repeat("x", maxBodyBytes) + `"]}`
	rec, _ := do(t, h, http.MethodPut, "/api/progress/es/b1", big, uuid.New())
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Empty(t, svc.SyncCalls())
}

// ---------------------------------------------------------------------------
// Chat
// ---------------------------------------------------------------------------

func TestChatScenarios(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, testDeps{chat: &chatServiceMock{
		ScenariosFunc: func(lang domain.Language) ([]chat.ScenarioInfo, error) {
			if lang != "es" {
				return nil, domain.ErrNotFound
			}
			return []chat.ScenarioInfo{{Scenario: chat.ScenarioGreeting, Title: "Saludos", Opening: "¡Hola!"}}, nil
		},
	}})

	rec, body := do(t, h, http.MethodGet, "/api/chat/es/scenarios", "", uuid.Nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body["scenarios"], 1)

	rec, _ = do(t, h, http.MethodGet, "/api/chat/xx/scenarios", "", uuid.Nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatReply(t *testing.T) {
	t.Parallel()

	svc := &chatServiceMock{
		ReplyFunc: func(ctx context.Context, in chat.ReplyInput) (*chat.Reply, error) {
			return &chat.Reply{Text: "¿Qué tal?", Source: domain.ReplySourceScript}, nil
		},
	}
	h := newTestRouter(t, testDeps{chat: svc})

	rec, body := do(t, h, http.MethodPost, "/api/chat",
		`{"lang":"es","scenario":"greeting","history":[{"role":"tutor","text":"¡Hola!"}],"message":"Hola"}`, uuid.Nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "¿Qué tal?", body["text"])
	assert.Equal(t, "script", body["source"])

	require.Len(t, svc.ReplyCalls(), 1)
	got := svc.ReplyCalls()[0]
	assert.Equal(t, chat.ScenarioGreeting, got.Scenario)
	assert.Equal(t, []domain.ChatTurn{{Role: domain.ChatRoleTutor, Text: "¡Hola!"}}, got.History)
}

func TestChatReply_RateLimitedUpstream(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, testDeps{chat: &chatServiceMock{
		ReplyFunc: func(ctx context.Context, in chat.ReplyInput) (*chat.Reply, error) {
			return nil, fmt.Errorf("chat completion: %w", domain.ErrRateLimited)
		},
	}})

	rec, _ := do(t, h, http.MethodPost, "/api/chat", `{"lang":"es","scenario":"greeting","message":"Hola"}`, uuid.Nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestChatReply_RouteLimit(t *testing.T) {
	t.Parallel()

	rl := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(rl.Stop)

	svc := &chatServiceMock{
		ReplyFunc: func(ctx context.Context, in chat.ReplyInput) (*chat.Reply, error) {
			return &chat.Reply{Text: "ok", Source: domain.ReplySourceScript}, nil
		},
	}
	h := newTestRouter(t, testDeps{chat: svc, limit: rl.Limit(1, 1)})

	body := `{"lang":"es","scenario":"greeting","message":"Hola"}`
	rec, _ := do(t, h, http.MethodPost, "/api/chat", body, uuid.Nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(t, h, http.MethodPost, "/api/chat", body, uuid.Nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Len(t, svc.ReplyCalls(), 1)

	// Other routes are not limited.
	h2 := newTestRouter(t, testDeps{vocab: &vocabularyServiceMock{LevelsFunc: func() []vocabulary.SetInfo { return nil }}, limit: rl.Limit(1, 1)})
	for i := 0; i < 3; i++ {
		rec, body := do(t, h2, http.MethodGet, "/api/levels", "", uuid.Nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []any{}, body["levels"])
	}
}

// ---------------------------------------------------------------------------
// Routing
// ---------------------------------------------------------------------------

func TestRouter_HealthBypassesAPIMiddleware(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, testDeps{})

	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	req.Header.Set(middleware.LearnerIDHeader, "not-a-uuid")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, testDeps{})
	rec, _ := do(t, h, http.MethodPatch, "/api/progress/es/b1", "", uuid.Nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
