package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/lingua-cards/internal/domain"
	"github.com/heartmarshall/lingua-cards/internal/service/resolver"
	"github.com/heartmarshall/lingua-cards/internal/service/vocabulary"
)

type vocabularyService interface {
	Levels() []vocabulary.SetInfo
	Load(ctx context.Context, lang domain.Language, level domain.Level) ([]domain.VocabularyEntry, error)
	LoadTopical(ctx context.Context, lang domain.Language, level domain.Level) (*domain.TopicMap, error)
	Flashcards(ctx context.Context, lang domain.Language, level domain.Level) (*vocabulary.Deck, error)
}

// VocabularyHandler serves the static sets, outlines and flashcard decks.
type VocabularyHandler struct {
	svc vocabularyService
	log *slog.Logger
}

// NewVocabularyHandler creates a VocabularyHandler.
func NewVocabularyHandler(svc vocabularyService, logger *slog.Logger) *VocabularyHandler {
	return &VocabularyHandler{svc: svc, log: logger.With("handler", "vocabulary")}
}

type entriesResponse struct {
	Lang    domain.Language          `json:"lang"`
	Level   domain.Level             `json:"level"`
	Entries []domain.VocabularyEntry `json:"entries"`
}

type topicsResponse struct {
	Lang   domain.Language `json:"lang"`
	Level  domain.Level    `json:"level"`
	Words  int             `json:"words"`
	Topics []*domain.Topic `json:"topics"`
}

type deckResponse struct {
	Lang  domain.Language          `json:"lang"`
	Level domain.Level             `json:"level"`
	Cards []domain.VocabularyEntry `json:"cards"`
	Stats resolver.DeckStats       `json:"stats"`
}

// Levels handles GET /api/levels.
func (h *VocabularyHandler) Levels(w http.ResponseWriter, r *http.Request) {
	levels := h.svc.Levels()
	if levels == nil {
		levels = []vocabulary.SetInfo{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"levels": levels})
}

// Vocabulary handles GET /api/vocabulary/{lang}/{level}.
func (h *VocabularyHandler) Vocabulary(w http.ResponseWriter, r *http.Request) {
	lang, level := setKey(r)
	entries, err := h.svc.Load(r.Context(), lang, level)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entriesResponse{Lang: lang, Level: level, Entries: entries})
}

// Topics handles GET /api/topics/{lang}/{level}.
func (h *VocabularyHandler) Topics(w http.ResponseWriter, r *http.Request) {
	lang, level := setKey(r)
	m, err := h.svc.LoadTopical(r.Context(), lang, level)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, topicsResponse{Lang: lang, Level: level, Words: m.WordCount(), Topics: m.Topics()})
}

// Flashcards handles GET /api/flashcards/{lang}/{level}.
func (h *VocabularyHandler) Flashcards(w http.ResponseWriter, r *http.Request) {
	lang, level := setKey(r)
	deck, err := h.svc.Flashcards(r.Context(), lang, level)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	cards := deck.Cards
	if cards == nil {
		cards = []domain.VocabularyEntry{}
	}
	writeJSON(w, http.StatusOK, deckResponse{Lang: lang, Level: level, Cards: cards, Stats: deck.Stats})
}
