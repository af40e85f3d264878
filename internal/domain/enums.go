package domain

import "regexp"

// Language is a short language code of the language being learned
// (e.g. "es", "de", "en").
type Language string

var languagePattern = regexp.MustCompile(`^[a-z]{2,3}$`)

func (l Language) String() string { return string(l) }

func (l Language) IsValid() bool {
	return languagePattern.MatchString(string(l))
}

// Level identifies a vocabulary set within a language: a fixed CEFR-style
// level ("b1", "b2", "c1") or "beginner".
type Level string

const (
	LevelBeginner Level = "beginner"
	LevelA1       Level = "a1"
	LevelA2       Level = "a2"
	LevelB1       Level = "b1"
	LevelB2       Level = "b2"
	LevelC1       Level = "c1"
	LevelC2       Level = "c2"
)

func (l Level) String() string { return string(l) }

func (l Level) IsValid() bool {
	switch l {
	case LevelBeginner, LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2:
		return true
	}
	return false
}

// Direction selects which side of a flashcard an example sentence is for.
type Direction string

const (
	// DirectionToBase asks for an example in the base language.
	DirectionToBase Direction = "toBase"
	// DirectionInTarget asks for an example in the language being learned.
	DirectionInTarget Direction = "inTarget"
)

func (d Direction) String() string { return string(d) }

func (d Direction) IsValid() bool {
	switch d {
	case DirectionToBase, DirectionInTarget:
		return true
	}
	return false
}

// ResolutionTier records which lookup tier produced a translation.
type ResolutionTier string

const (
	TierTopic      ResolutionTier = "topic"
	TierCrossTopic ResolutionTier = "cross_topic"
	TierLegacy     ResolutionTier = "legacy"
	TierTemplate   ResolutionTier = "template"
	TierNone       ResolutionTier = "none"
)

func (t ResolutionTier) String() string { return string(t) }
