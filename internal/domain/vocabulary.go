package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// VocabularyEntry is a displayable flashcard: a word in the language being
// learned paired with its base-language form and example sentences.
// Entries are immutable once handed out; a reload replaces them.
type VocabularyEntry struct {
	ID            string `json:"id"`
	SourceWord    string `json:"sourceWord"`
	TargetWord    string `json:"targetWord"`
	SourceExample string `json:"sourceExample"`
	TargetExample string `json:"targetExample"`
	Topic         string `json:"topic,omitempty"`
}

// Validate checks the fields a loaded entry must always carry.
// SourceWord may be empty only before resolution, so it is not checked here.
func (e VocabularyEntry) Validate() error {
	var errs FieldErrors
	if strings.TrimSpace(e.ID) == "" {
		errs.Add("id", "required")
	}
	if strings.TrimSpace(e.TargetWord) == "" {
		errs.Add("target_word", "required")
	}
	return errs.Err()
}

// EntryID formats the id of the seq-th (1-based) entry of a static set.
func EntryID(lang Language, level Level, seq int) string {
	return fmt.Sprintf("%s_%s_%d", lang, level, seq)
}

// TopicEntryID formats the id of the n-th (1-based) word of a parsed outline.
func TopicEntryID(lang Language, level Level, n int) string {
	return TopicIDPrefix(SetKey{Lang: lang, Level: level}) + strconv.Itoa(n)
}

// SetIDPrefix is the prefix every card id of set starts with.
func SetIDPrefix(set SetKey) string { return string(set.Lang) + "_" + string(set.Level) + "_" }

// TopicIDPrefix is the prefix of the outline card ids of set.
func TopicIDPrefix(set SetKey) string { return SetIDPrefix(set) + "topic_" }

// CardFamily separates the card ids of a static set from those of the
// outline of the same (lang, level) pair.
type CardFamily int

const (
	FamilyStatic CardFamily = iota
	FamilyTopic
)

func (f CardFamily) String() string {
	if f == FamilyTopic {
		return "topic"
	}
	return "static"
}

// Contains reports whether cardID is a card of family f in set.
func (f CardFamily) Contains(set SetKey, cardID string) bool {
	topic := strings.HasPrefix(cardID, TopicIDPrefix(set))
	if f == FamilyTopic {
		return topic
	}
	return !topic && strings.HasPrefix(cardID, SetIDPrefix(set))
}

// SetKey identifies a vocabulary set.
type SetKey struct {
	Lang  Language
	Level Level
}

func (k SetKey) String() string { return string(k.Lang) + "/" + string(k.Level) }

// Validate checks that both parts are well-formed.
func (k SetKey) Validate() error {
	var errs FieldErrors
	if !k.Lang.IsValid() {
		errs.Add("lang", "invalid language code")
	}
	if !k.Level.IsValid() {
		errs.Add("level", "invalid level")
	}
	return errs.Err()
}
