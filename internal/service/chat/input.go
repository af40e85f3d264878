package chat

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/lingua-cards/internal/domain"
)

const (
	maxMessageLength = 500
	maxHistoryTurns  = 20
)

// ReplyInput is one learner message plus the conversation so far.
type ReplyInput struct {
	Lang     domain.Language
	Scenario domain.Scenario
	History  []domain.ChatTurn
	Message  string
}

// Validate checks all fields and collects all errors.
func (i ReplyInput) Validate() error {
	var errs domain.FieldErrors

	if !i.Lang.IsValid() {
		errs.Add("lang", "invalid language code")
	}
	if strings.TrimSpace(string(i.Scenario)) == "" {
		errs.Add("scenario", "required")
	}

	msg := strings.TrimSpace(i.Message)
	if msg == "" {
		errs.Add("message", "required")
	} else if utf8.RuneCountInString(msg) > maxMessageLength {
		errs.Add("message", "max 500 characters")
	}

	if len(i.History) > maxHistoryTurns {
		errs.Add("history", "max 20 turns")
	}
	for idx, turn := range i.History {
		field := fmt.Sprintf("history[%d]", idx)
		if !turn.Role.IsValid() {
			errs.Add(field+".role", "must be learner or tutor")
		}
		if utf8.RuneCountInString(turn.Text) > maxMessageLength {
			errs.Add(field+".text", "max 500 characters")
		}
	}

	return errs.Err()
}
