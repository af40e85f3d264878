package resolver

import (
	"maps"
	"sort"

	"github.com/heartmarshall/lingua-cards/internal/domain"
)

// TopicTable is the static dictionary of one topic.
type TopicTable struct {
	Topic   string
	Entries map[string]domain.TranslationTableEntry
}

// Templates are sentence patterns used when no table holds an example.
// "{word}" is replaced by the word.
type Templates struct {
	ToBase   []string
	InTarget []string
}

// DefaultTemplates are used when a language defines none.
var DefaultTemplates = Templates{
	ToBase: []string{
		"Ich lerne das Wort „{word}“.",
		"Heute übe ich „{word}“.",
		"Kannst du „{word}“ in einem Satz benutzen?",
	},
	InTarget: []string{
		"Hoy aprendo la palabra «{word}».",
		"¿Puedes usar «{word}» en una frase?",
		"«{word}» es una palabra útil.",
	},
}

// Tables is the immutable set of lookup tables for one language.
// Build it once with NewTables; it is safe for concurrent reads.
type Tables struct {
	topics    []TopicTable
	index     map[string]int
	legacy    map[string]string
	templates Templates
}

// NewTables copies the given tables. Topic order is kept as given and is
// the order of the cross-topic scan. A topic listed twice keeps its first
// position; later entries for it are merged in without overriding.
func NewTables(topics []TopicTable, legacy map[string]string, templates Templates) *Tables {
	t := &Tables{
		index:     make(map[string]int, len(topics)),
		legacy:    maps.Clone(legacy),
		templates: templates,
	}
	if t.legacy == nil {
		t.legacy = map[string]string{}
	}
	if len(t.templates.ToBase) == 0 {
		t.templates.ToBase = DefaultTemplates.ToBase
	}
	if len(t.templates.InTarget) == 0 {
		t.templates.InTarget = DefaultTemplates.InTarget
	}

	for _, tt := range topics {
		if i, ok := t.index[tt.Topic]; ok {
			for k, v := range tt.Entries {
				if _, exists := t.topics[i].Entries[k]; !exists {
					t.topics[i].Entries[k] = v
				}
			}
			continue
		}
		entries := maps.Clone(tt.Entries)
		if entries == nil {
			entries = map[string]domain.TranslationTableEntry{}
		}
		t.index[tt.Topic] = len(t.topics)
		t.topics = append(t.topics, TopicTable{Topic: tt.Topic, Entries: entries})
	}
	return t
}

// EmptyTables returns tables with no entries.
func EmptyTables() *Tables {
	return NewTables(nil, nil, Templates{})
}

// TopicNames returns topic names in table order.
func (t *Tables) TopicNames() []string {
	out := make([]string, len(t.topics))
	for i, tt := range t.topics {
		out[i] = tt.Topic
	}
	return out
}

// Size returns the number of topic-table rows and legacy rows.
func (t *Tables) Size() (topicRows, legacyRows int) {
	for _, tt := range t.topics {
		topicRows += len(tt.Entries)
	}
	return topicRows, len(t.legacy)
}

func (t *Tables) topic(name string) (TopicTable, bool) {
	i, ok := t.index[name]
	if !ok {
		return TopicTable{}, false
	}
	return t.topics[i], true
}

// scanOrder returns table indexes in the order the cross-topic tier visits them.
func (t *Tables) scanOrder(order Order) []int {
	idx := make([]int, len(t.topics))
	for i := range idx {
		idx[i] = i
	}
	if order == OrderLexicographic {
		sort.SliceStable(idx, func(a, b int) bool {
			return t.topics[idx[a]].Topic < t.topics[idx[b]].Topic
		})
	}
	return idx
}
