// Package importer reads vocabulary spreadsheets (xlsx or csv) into rows
// that the flashcard builder can consume.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/heartmarshall/lingua-cards/internal/domain"
	"github.com/heartmarshall/lingua-cards/internal/outline"
)

// Config selects where the data lives in a sheet. Columns are letters.
type Config struct {
	Sheet             string // empty: first sheet
	StartRow          int    // 1-based; rows before it are headers
	WordColumn        string
	TranslationColumn string
	ExampleColumn     string
	TopicColumn       string
	DefaultTopic      string // topic of rows before any topic is known
}

// DefaultConfig returns the layout word | translation | example | topic,
// with one header row.
func DefaultConfig() Config {
	return Config{
		StartRow:          2,
		WordColumn:        "A",
		TranslationColumn: "B",
		ExampleColumn:     "C",
		TopicColumn:       "D",
		DefaultTopic:      "general",
	}
}

// Row is one vocabulary line of a sheet.
type Row struct {
	Line        int
	Word        string
	Translation string
	Example     string
	Topic       string
}

// Result holds the rows read and what was skipped.
type Result struct {
	Rows    []Row
	Skipped int
	Errors  []string
}

// ReadXLSX reads the configured sheet of an Excel workbook.
func ReadXLSX(r io.Reader, cfg Config) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := cfg.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return readRows(rows, cfg)
}

// ReadCSV reads comma-separated rows in the same column layout. A row with
// only its first cell set is a topic header for the rows below it.
func ReadCSV(r io.Reader, cfg Config) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return readRows(rows, cfg)
}

func readRows(rows [][]string, cfg Config) (*Result, error) {
	idx := struct{ word, translation, example, topic int }{}
	var err error
	if idx.word, err = columnIndex(cfg.WordColumn); err != nil {
		return nil, fmt.Errorf("word column: %w", err)
	}
	if idx.translation, err = columnIndex(cfg.TranslationColumn); err != nil {
		return nil, fmt.Errorf("translation column: %w", err)
	}
	if idx.example, err = columnIndex(cfg.ExampleColumn); err != nil {
		return nil, fmt.Errorf("example column: %w", err)
	}
	if idx.topic, err = columnIndex(cfg.TopicColumn); err != nil {
		return nil, fmt.Errorf("topic column: %w", err)
	}

	res := &Result{Rows: []Row{}, Errors: []string{}}
	currentTopic := cfg.DefaultTopic

	for i, cells := range rows {
		line := i + 1
		if line < cfg.StartRow {
			continue
		}
		if isBlank(cells) {
			continue
		}

		if isTopicHeader(cells) {
			currentTopic = strings.Trim(strings.TrimSpace(cells[0]), `"`)
			continue
		}

		row := Row{
			Line:        line,
			Word:        cell(cells, idx.word),
			Translation: cell(cells, idx.translation),
			Example:     cell(cells, idx.example),
			Topic:       cell(cells, idx.topic),
		}
		if row.Word == "" {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: empty word", line))
			continue
		}
		if row.Topic == "" {
			row.Topic = currentTopic
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

// TopicMap groups the rows by topic the way the outline parser would,
// numbering words with one counter across all topics.
func (res *Result) TopicMap(lang domain.Language, level domain.Level) *domain.TopicMap {
	m := domain.NewTopicMap()
	for i, row := range res.Rows {
		key := outline.HeadingKey(row.Topic, lang)
		if key == "" {
			key = "general"
		}
		t, _ := m.Ensure(key)
		t.Words = append(t.Words, domain.TopicWord{
			ID:   domain.TopicEntryID(lang, level, i+1),
			Text: row.Word,
		})
	}
	return m
}

// Translations maps each word, normalized with domain.NormalizeText, to the
// first translation given for it in the sheet.
func (res *Result) Translations() map[string]Row {
	out := make(map[string]Row, len(res.Rows))
	for _, row := range res.Rows {
		if row.Translation == "" {
			continue
		}
		key := domain.NormalizeText(row.Word)
		if _, ok := out[key]; !ok {
			out[key] = row
		}
	}
	return out
}

func columnIndex(col string) (int, error) {
	n, err := excelize.ColumnNameToNumber(strings.TrimSpace(col))
	if err != nil {
		return 0, err
	}
	return n - 1, nil
}

func cell(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func isTopicHeader(cells []string) bool {
	if len(cells) < 2 || strings.TrimSpace(cells[0]) == "" {
		return false
	}
	for _, c := range cells[1:] {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
