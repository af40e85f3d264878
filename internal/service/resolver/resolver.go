// Package resolver turns raw target-language words into flashcards by
// looking up their base-language form and example sentences in static
// tables.
//
// Lookup tiers, first hit wins:
//
//  1. the table of the word's own topic
//  2. every other topic table, in scan order
//  3. the flat legacy table (base forms only)
//
// Keys match exactly; no case or accent folding is done. A miss in every
// tier yields an Unresolved result for base forms and a template sentence
// for examples.
package resolver

import (
	"math/rand/v2"
	"strings"

	"github.com/heartmarshall/lingua-cards/internal/domain"
)

// RandSource picks template indexes. *rand.Rand from math/rand/v2
// satisfies it.
type RandSource interface {
	IntN(n int) int
}

// Order selects the cross-topic scan order.
type Order int

const (
	// OrderInsertion scans topics in table declaration order.
	OrderInsertion Order = iota
	// OrderLexicographic scans topics sorted by name.
	OrderLexicographic
)

// ParseOrder maps a config value to an Order. Unknown values mean insertion.
func ParseOrder(s string) Order {
	if strings.EqualFold(strings.TrimSpace(s), "lexicographic") {
		return OrderLexicographic
	}
	return OrderInsertion
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Option configures a Resolver.
type Option func(*Resolver)

// WithRand sets the random source used for template selection.
func WithRand(src RandSource) Option {
	return func(r *Resolver) { r.rnd = src }
}

// WithOrder sets the cross-topic scan order.
func WithOrder(o Order) Option {
	return func(r *Resolver) { r.order = o }
}

// Resolver resolves words against one language's tables. It never mutates
// its inputs and is safe for concurrent use when its RandSource is.
type Resolver struct {
	tables *Tables
	rnd    RandSource
	order  Order
	scan   []int
}

// New creates a Resolver over tables.
func New(tables *Tables, opts ...Option) *Resolver {
	if tables == nil {
		tables = EmptyTables()
	}
	r := &Resolver{
		tables: tables,
		rnd:    globalRand{},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.scan = tables.scanOrder(r.order)
	return r
}

// ResolveBaseForm returns the base-language form of word.
// topic may be empty.
func (r *Resolver) ResolveBaseForm(word, topic string) domain.TranslationResult {
	if v, tier, ok := r.lookup(word, topic, baseForm); ok {
		return domain.Resolved(v, tier)
	}
	if v, ok := r.tables.legacy[word]; ok && v != "" {
		return domain.Resolved(v, domain.TierLegacy)
	}
	return domain.Unresolved(word)
}

// ResolveExample returns an example sentence for word. DirectionInTarget
// asks for a sentence in the language being learned, DirectionToBase for
// one in the base language. When no table has one, a template of the
// requested direction is filled with the resolved base form of word.
func (r *Resolver) ResolveExample(word, topic string, dir domain.Direction) domain.TranslationResult {
	if v, tier, ok := r.tableExample(word, topic, dir); ok {
		return domain.Resolved(v, tier)
	}
	return r.SynthesizeExample(r.ResolveBaseForm(word, topic).Value(), dir)
}

// TableExample reports the example sentence the tables hold for word,
// without falling back to a template.
func (r *Resolver) TableExample(word, topic string, dir domain.Direction) (string, bool) {
	v, _, ok := r.tableExample(word, topic, dir)
	return v, ok
}

// SynthesizeExample fills a template of dir with base. Callers that learn
// a base form outside the tables use it to rebuild fallback sentences.
func (r *Resolver) SynthesizeExample(base string, dir domain.Direction) domain.TranslationResult {
	templates := r.tables.templates.InTarget
	if dir == domain.DirectionToBase {
		templates = r.tables.templates.ToBase
	}
	return domain.Synthesized(r.template(templates, base))
}

func (r *Resolver) tableExample(word, topic string, dir domain.Direction) (string, domain.ResolutionTier, bool) {
	field := targetExample
	if dir == domain.DirectionToBase {
		field = baseExample
	}
	return r.lookup(word, topic, field)
}

// BuildFlashcard assembles a flashcard for one parsed word. The second
// return value is the base-form resolution, so callers can tell real
// translations from echoes.
func (r *Resolver) BuildFlashcard(w domain.TopicWord, topic string) (domain.VocabularyEntry, domain.TranslationResult) {
	base := r.ResolveBaseForm(w.Text, topic)
	entry := domain.VocabularyEntry{
		ID:            w.ID,
		SourceWord:    base.Value(),
		TargetWord:    w.Text,
		SourceExample: r.ResolveExample(w.Text, topic, domain.DirectionToBase).Value(),
		TargetExample: r.ResolveExample(w.Text, topic, domain.DirectionInTarget).Value(),
		Topic:         topic,
	}
	return entry, base
}

// DeckStats counts how a deck's base forms were resolved.
type DeckStats struct {
	Cards      int                           `json:"cards"`
	Resolved   int                           `json:"resolved"`
	Unresolved int                           `json:"unresolved"`
	ByTier     map[domain.ResolutionTier]int `json:"byTier"`
	// UnresolvedWords lists echoed words in deck order.
	UnresolvedWords []string `json:"unresolvedWords,omitempty"`
}

// BuildDeck builds one flashcard per topic word, in topic then word order.
func (r *Resolver) BuildDeck(topics *domain.TopicMap) ([]domain.VocabularyEntry, DeckStats) {
	stats := DeckStats{ByTier: make(map[domain.ResolutionTier]int)}
	if topics == nil {
		return []domain.VocabularyEntry{}, stats
	}

	cards := make([]domain.VocabularyEntry, 0, topics.WordCount())
	for _, t := range topics.Topics() {
		for _, w := range t.Words {
			card, base := r.BuildFlashcard(w, t.Key)
			cards = append(cards, card)
			stats.ByTier[base.Tier()]++
			if base.IsResolved() {
				stats.Resolved++
			} else {
				stats.Unresolved++
				stats.UnresolvedWords = append(stats.UnresolvedWords, w.Text)
			}
		}
	}
	stats.Cards = len(cards)
	return cards, stats
}

type entryField func(domain.TranslationTableEntry) string

func baseForm(e domain.TranslationTableEntry) string      { return e.BaseForm }
func targetExample(e domain.TranslationTableEntry) string { return e.Example }
func baseExample(e domain.TranslationTableEntry) string   { return e.BaseExample }

// lookup runs the topic and cross-topic tiers. Entries whose field is
// empty do not count as hits.
func (r *Resolver) lookup(word, topic string, field entryField) (string, domain.ResolutionTier, bool) {
	if topic != "" {
		if tt, ok := r.tables.topic(topic); ok {
			if e, ok := tt.Entries[word]; ok && field(e) != "" {
				return field(e), domain.TierTopic, true
			}
		}
	}

	for _, i := range r.scan {
		tt := r.tables.topics[i]
		if tt.Topic == topic {
			continue
		}
		if e, ok := tt.Entries[word]; ok && field(e) != "" {
			return field(e), domain.TierCrossTopic, true
		}
	}
	return "", domain.TierNone, false
}

func (r *Resolver) template(templates []string, word string) string {
	if len(templates) == 0 {
		return word
	}
	tpl := templates[r.rnd.IntN(len(templates))]
	return strings.ReplaceAll(tpl, "{word}", word)
}
