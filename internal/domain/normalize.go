package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeText prepares text for storage and comparison:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - compresses runs of whitespace into one space
//
// Diacritics, hyphens, and apostrophes are preserved.
func NormalizeText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	return CollapseSpaces(strings.ToLower(text))
}

// NormalizeTopicKey lowercases a heading using the casing rules of the
// document language, trims it and collapses internal whitespace.
// An unknown or empty lang falls back to language-neutral casing.
func NormalizeTopicKey(text string, lang Language) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	tag := language.Und
	if lang != "" {
		if t, err := language.Parse(string(lang)); err == nil {
			tag = t
		}
	}
	return CollapseSpaces(cases.Lower(tag).String(text))
}

// CollapseSpaces replaces every run of whitespace with a single space.
// Leading and trailing whitespace is removed.
func CollapseSpaces(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	prevSpace := true
	for _, r := range text {
		if unicode.IsSpace(r) {
			if prevSpace {
				continue
			}
			prevSpace = true
			b.WriteRune(' ')
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}
