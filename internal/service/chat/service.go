package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/heartmarshall/lingua-cards/internal/domain"
)

// completer generates the next tutor turn of a conversation.
type completer interface {
	Complete(ctx context.Context, system string, turns []domain.ChatTurn) (string, error)
}

// Service drives practice conversations. Without a completer, or when the
// completer is unavailable, replies follow the scenario script.
type Service struct {
	llm completer
	log *slog.Logger
}

// NewService creates a new chat service. llm may be nil.
func NewService(log *slog.Logger, llm completer) *Service {
	return &Service{
		llm: llm,
		log: log.With("service", "chat"),
	}
}

// ScenarioInfo describes one available conversation.
type ScenarioInfo struct {
	Scenario domain.Scenario `json:"scenario"`
	Title    string          `json:"title"`
	Opening  string          `json:"opening"`
}

// Reply is the tutor's answer.
type Reply struct {
	Text   string             `json:"text"`
	Source domain.ReplySource `json:"source"`
	Done   bool               `json:"done"`
}

// Scenarios lists the conversations available in lang, sorted by name.
func (s *Service) Scenarios(lang domain.Language) ([]ScenarioInfo, error) {
	byScenario, ok := scripts[lang]
	if !ok {
		return nil, fmt.Errorf("chat scenarios for %q: %w", lang, domain.ErrNotFound)
	}

	out := make([]ScenarioInfo, 0, len(byScenario))
	for name, sc := range byScenario {
		out = append(out, ScenarioInfo{Scenario: name, Title: sc.title, Opening: sc.lines[0]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Scenario < out[j].Scenario })
	return out, nil
}

// Reply answers the learner's message within the scenario.
func (s *Service) Reply(ctx context.Context, in ReplyInput) (*Reply, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	sc, ok := lookupScript(in.Lang, in.Scenario)
	if !ok {
		return nil, fmt.Errorf("chat scenario %s/%s: %w", in.Lang, in.Scenario, domain.ErrNotFound)
	}

	if s.llm != nil {
		turns := make([]domain.ChatTurn, 0, len(in.History)+1)
		turns = append(turns, in.History...)
		turns = append(turns, domain.ChatTurn{Role: domain.ChatRoleLearner, Text: strings.TrimSpace(in.Message)})

		text, err := s.llm.Complete(ctx, systemPrompt(in.Lang, sc), turns)
		switch {
		case err == nil:
			return &Reply{Text: text, Source: domain.ReplySourceLLM}, nil
		case errors.Is(err, domain.ErrRateLimited):
			return nil, err
		case errors.Is(err, domain.ErrUnavailable):
			s.log.WarnContext(ctx, "llm unavailable, falling back to script",
				slog.String("scenario", string(in.Scenario)),
				slog.String("error", err.Error()),
			)
		default:
			return nil, fmt.Errorf("chat completion: %w", err)
		}
	}

	return scriptedReply(sc, in.History), nil
}

// scriptedReply picks the line after the tutor turns already in history.
// The opening line counts as a tutor turn when the client sent it back.
func scriptedReply(sc script, history []domain.ChatTurn) *Reply {
	tutorTurns := 0
	for _, t := range history {
		if t.Role == domain.ChatRoleTutor {
			tutorTurns++
		}
	}

	next := tutorTurns
	if next == 0 {
		next = 1
	}
	last := len(sc.lines) - 1
	if next > last {
		next = last
	}
	return &Reply{Text: sc.lines[next], Source: domain.ReplySourceScript, Done: next == last}
}

func systemPrompt(lang domain.Language, sc script) string {
	return fmt.Sprintf(`You are %s, practicing a conversation ("%s") with a language learner.
Answer only in the language with code %q. Keep every reply to one or two short sentences
at a beginner-friendly level. Stay in character and ask a follow-up question when natural.
If the learner makes a mistake, gently repeat the corrected phrase inside your answer.`,
		sc.persona, sc.title, string(lang))
}
