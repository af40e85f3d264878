package domain

import (
	"time"

	"github.com/google/uuid"
)

// Progress is the learned/unlearned state of one card for one learner.
type Progress struct {
	LearnerID uuid.UUID
	CardID    string
	Lang      Language
	Level     Level
	Learned   bool
	UpdatedAt time.Time
}

// ProgressSummary aggregates a learner's progress over a vocabulary set.
type ProgressSummary struct {
	Lang    Language `json:"lang"`
	Level   Level    `json:"level"`
	Total   int      `json:"total"`
	Learned int      `json:"learned"`
}

// Remaining returns the number of cards not yet learned.
func (s ProgressSummary) Remaining() int {
	if s.Learned >= s.Total {
		return 0
	}
	return s.Total - s.Learned
}
