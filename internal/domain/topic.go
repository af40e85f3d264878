package domain

// TopicWord is one raw vocabulary line of an outline, tagged with its
// synthetic id.
type TopicWord struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Topic is a thematic group of words taken from an outline heading.
// Words keep document order and are not deduplicated.
type Topic struct {
	Key       string            `json:"key"`
	Words     []TopicWord       `json:"words"`
	Subtopics map[string]*Topic `json:"subtopics"`
}

// NewTopic creates an empty topic.
func NewTopic(key string) *Topic {
	return &Topic{
		Key:       key,
		Words:     []TopicWord{},
		Subtopics: map[string]*Topic{},
	}
}

// TopicMap maps topic keys to topics and remembers the order in which keys
// were first seen. The zero value is not usable; call NewTopicMap.
type TopicMap struct {
	keys   []string
	topics map[string]*Topic
}

// NewTopicMap creates an empty TopicMap.
func NewTopicMap() *TopicMap {
	return &TopicMap{topics: make(map[string]*Topic)}
}

// Ensure returns the topic for key, creating it on first use.
// The second return value reports whether the topic was created.
func (m *TopicMap) Ensure(key string) (*Topic, bool) {
	if t, ok := m.topics[key]; ok {
		return t, false
	}
	t := NewTopic(key)
	m.topics[key] = t
	m.keys = append(m.keys, key)
	return t, true
}

// Get returns the topic for key.
func (m *TopicMap) Get(key string) (*Topic, bool) {
	t, ok := m.topics[key]
	return t, ok
}

// Keys returns topic keys in first-seen order.
func (m *TopicMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of topics.
func (m *TopicMap) Len() int { return len(m.keys) }

// WordCount returns the total number of words across all topics.
func (m *TopicMap) WordCount() int {
	n := 0
	for _, t := range m.topics {
		n += len(t.Words)
	}
	return n
}

// Topics returns the topics in first-seen order.
func (m *TopicMap) Topics() []*Topic {
	out := make([]*Topic, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.topics[k])
	}
	return out
}
