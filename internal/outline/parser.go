package outline

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/heartmarshall/lingua-cards/internal/domain"
)

// maxLineSize bounds a single outline line read by ParseReader.
const maxLineSize = 1 << 20

// Stats describes what a parse consumed.
type Stats struct {
	Lines         int
	Headings      int
	EmptyHeadings int
	Comments      int
	Topics        int
	Words         int
	// Dropped counts content lines seen outside any topic.
	Dropped int
}

// Parser turns an outline into topics for one (language, level) pair.
// A Parser holds no state between calls and is safe for concurrent use.
type Parser struct {
	Lang  domain.Language
	Level domain.Level
}

// New creates a Parser.
func New(lang domain.Language, level domain.Level) *Parser {
	return &Parser{Lang: lang, Level: level}
}

// Parse converts outline text into a topic map. It never fails.
func (p *Parser) Parse(text string) *domain.TopicMap {
	topics, _ := p.ParseWithStats(text)
	return topics
}

// ParseWithStats is Parse plus counters for logging.
func (p *Parser) ParseWithStats(text string) (*domain.TopicMap, Stats) {
	st := p.newState()
	for _, line := range strings.Split(text, "\n") {
		st.consume(line)
	}
	return st.finish()
}

// ParseReader parses an outline read line by line from r.
// Only I/O errors are returned.
func (p *Parser) ParseReader(r io.Reader) (*domain.TopicMap, Stats, error) {
	st := p.newState()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		st.consume(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, Stats{}, fmt.Errorf("read outline: %w", err)
	}

	topics, stats := st.finish()
	return topics, stats, nil
}

type parseState struct {
	p       *Parser
	topics  *domain.TopicMap
	current *domain.Topic
	seq     int
	stats   Stats
}

func (p *Parser) newState() *parseState {
	return &parseState{p: p, topics: domain.NewTopicMap()}
}

func (s *parseState) consume(line string) {
	s.stats.Lines++

	tok := Tokenize(line)
	switch tok.Kind {
	case TokenBlank:
		return

	case TokenComment:
		s.stats.Comments++
		return

	case TokenHeading:
		s.stats.Headings++
		key := HeadingKey(tok.Text, s.p.Lang)
		if key == "" {
			// A heading without a usable key closes the current topic so its
			// words are not attributed to the previous one.
			s.stats.EmptyHeadings++
			s.current = nil
			return
		}
		s.current, _ = s.topics.Ensure(key)
		return

	case TokenContent:
		if s.current == nil {
			s.stats.Dropped++
			return
		}
		s.seq++
		s.current.Words = append(s.current.Words, domain.TopicWord{
			ID:   domain.TopicEntryID(s.p.Lang, s.p.Level, s.seq),
			Text: tok.Text,
		})
		s.stats.Words++
	}
}

func (s *parseState) finish() (*domain.TopicMap, Stats) {
	s.stats.Topics = s.topics.Len()
	return s.topics, s.stats
}
