// Package outline parses plain-text vocabulary outlines into topics.
// Pure functions: text in, domain structs out. No I/O beyond an io.Reader.
//
// Parsing runs in two phases. Tokenize classifies a line by its prefix only;
// HeadingKey then extracts a topic key from a heading token.
package outline

import (
	"regexp"
	"strings"

	"github.com/heartmarshall/lingua-cards/internal/domain"
)

// TokenKind classifies an outline line.
type TokenKind int

const (
	TokenBlank TokenKind = iota
	TokenHeading
	TokenComment
	TokenContent
)

func (k TokenKind) String() string {
	switch k {
	case TokenBlank:
		return "blank"
	case TokenHeading:
		return "heading"
	case TokenComment:
		return "comment"
	case TokenContent:
		return "content"
	}
	return "unknown"
}

// Token is one classified line.
type Token struct {
	Kind TokenKind
	// Level is the number of leading '#' markers (headings and comments).
	Level int
	// Text is the trimmed line for content, the text after the markers for
	// headings and comments.
	Text string
}

// Tokenize classifies a single line. A trimmed line starting with "##" is a
// heading, one starting with a single "#" is a comment, anything else
// non-blank is content.
func Tokenize(line string) Token {
	line = strings.TrimSpace(line)
	if line == "" {
		return Token{Kind: TokenBlank}
	}
	if !strings.HasPrefix(line, "#") {
		return Token{Kind: TokenContent, Text: line}
	}

	level := len(line) - len(strings.TrimLeft(line, "#"))
	rest := strings.TrimSpace(line[level:])
	if level >= 2 {
		return Token{Kind: TokenHeading, Level: level, Text: rest}
	}
	return Token{Kind: TokenComment, Level: level, Text: rest}
}

var numeralPrefix = regexp.MustCompile(`^\d+\.\s*`)

// HeadingKey extracts the topic key from heading text:
//
//	"3. Comida y bebida: alimentación" → "alimentación"
//	"Ocio"                             → "ocio"
//
// An optional "<digits>." prefix is dropped, the text is lowercased with the
// casing rules of lang, and when it contains ':' only the part after the
// first colon is kept. Internal whitespace collapses to single spaces.
// The result may be empty.
func HeadingKey(text string, lang domain.Language) string {
	text = strings.TrimSpace(text)
	text = numeralPrefix.ReplaceAllString(text, "")
	text = domain.NormalizeTopicKey(text, lang)
	if _, after, found := strings.Cut(text, ":"); found {
		text = after
	}
	return strings.TrimSpace(text)
}
