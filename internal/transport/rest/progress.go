package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/lingua-cards/internal/domain"
	"github.com/heartmarshall/lingua-cards/internal/service/progress"
)

type progressService interface {
	SetLearned(ctx context.Context, in progress.SetLearnedInput) (*domain.Progress, error)
	ListLearned(ctx context.Context, lang domain.Language, level domain.Level) ([]string, error)
	Summary(ctx context.Context, lang domain.Language, level domain.Level) (*domain.ProgressSummary, error)
	Reset(ctx context.Context, lang domain.Language, level domain.Level) (int, error)
	Sync(ctx context.Context, in progress.SyncInput) (*progress.SyncResult, error)
}

// ProgressHandler serves the learned state of the current learner.
type ProgressHandler struct {
	svc progressService
	log *slog.Logger
}

// NewProgressHandler creates a ProgressHandler.
func NewProgressHandler(svc progressService, logger *slog.Logger) *ProgressHandler {
	return &ProgressHandler{svc: svc, log: logger.With("handler", "progress")}
}

type setLearnedRequest struct {
	Learned *bool `json:"learned"`
}

type syncRequest struct {
	Learned []string `json:"learned"`
}

type progressResponse struct {
	CardID    string          `json:"cardId"`
	Lang      domain.Language `json:"lang"`
	Level     domain.Level    `json:"level"`
	Learned   bool            `json:"learned"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type learnedResponse struct {
	Learned   []string `json:"learned"`
	Total     int      `json:"total"`
	Remaining int      `json:"remaining"`
}

// SetLearned handles POST /api/progress/{lang}/{level}/{cardID}.
func (h *ProgressHandler) SetLearned(w http.ResponseWriter, r *http.Request) {
	var req setLearnedRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Learned == nil {
		handleError(h.log, w, r, domain.NewValidationError("learned", "required"))
		return
	}

	lang, level := setKey(r)
	p, err := h.svc.SetLearned(r.Context(), progress.SetLearnedInput{
		Lang:    lang,
		Level:   level,
		CardID:  r.PathValue("cardID"),
		Learned: *req.Learned,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, progressResponse{
		CardID:    p.CardID,
		Lang:      p.Lang,
		Level:     p.Level,
		Learned:   p.Learned,
		UpdatedAt: p.UpdatedAt,
	})
}

// List handles GET /api/progress/{lang}/{level}: the learned card ids plus
// how many of the set remain.
func (h *ProgressHandler) List(w http.ResponseWriter, r *http.Request) {
	lang, level := setKey(r)
	ids, err := h.svc.ListLearned(r.Context(), lang, level)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	summary, err := h.svc.Summary(r.Context(), lang, level)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, learnedResponse{
		Learned:   ids,
		Total:     summary.Total,
		Remaining: summary.Remaining(),
	})
}

// Reset handles DELETE /api/progress/{lang}/{level}.
func (h *ProgressHandler) Reset(w http.ResponseWriter, r *http.Request) {
	lang, level := setKey(r)
	n, err := h.svc.Reset(r.Context(), lang, level)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": n})
}

// Sync handles PUT /api/progress/{lang}/{level}: the body replaces the
// learned set.
func (h *ProgressHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lang, level := setKey(r)
	res, err := h.svc.Sync(r.Context(), progress.SyncInput{Lang: lang, Level: level, Learned: req.Learned})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
