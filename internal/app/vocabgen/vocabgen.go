// Package vocabgen builds a resolved vocabulary file from an outline or a
// spreadsheet: every word gets a base form from the translation tables, the
// sheet itself, or a machine translation, in that order.
package vocabgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/lingua-cards/internal/domain"
	"github.com/heartmarshall/lingua-cards/internal/importer"
	"github.com/heartmarshall/lingua-cards/internal/outline"
	"github.com/heartmarshall/lingua-cards/internal/service/resolver"
)

const translateConcurrency = 4

type tablesSource interface {
	Tables(lang domain.Language) *resolver.Tables
}

type translator interface {
	Translate(ctx context.Context, text string, from, to domain.Language) (string, error)
}

// Options describe one generation run.
type Options struct {
	In       string
	Out      string // "-" writes to stdout
	Lang     domain.Language
	Level    domain.Level
	BaseLang domain.Language
	Order    resolver.Order
}

// Validate checks the options.
func (o Options) Validate() error {
	var errs domain.FieldErrors
	if strings.TrimSpace(o.In) == "" {
		errs.Add("in", "required")
	}
	if strings.TrimSpace(o.Out) == "" {
		errs.Add("out", "required")
	}
	if !o.Lang.IsValid() {
		errs.Add("lang", "invalid language code")
	}
	if !o.Level.IsValid() {
		errs.Add("level", "invalid level")
	}
	if o.BaseLang != "" && !o.BaseLang.IsValid() {
		errs.Add("base_lang", "invalid language code")
	}
	return errs.Err()
}

// Result counts where the base forms came from.
type Result struct {
	Cards      int
	Resolved   int
	FromSheet  int
	Translated int
	Unresolved int
}

// Generator runs the pipeline. translator may be nil.
type Generator struct {
	tables     tablesSource
	translator translator
	log        *slog.Logger
}

// New creates a Generator.
func New(log *slog.Logger, tables tablesSource, tr translator) *Generator {
	return &Generator{tables: tables, translator: tr, log: log.With("service", "vocabgen")}
}

// Run reads opts.In, builds the deck and writes it as JSON to opts.Out.
func (g *Generator) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	in, err := os.Open(opts.In)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	cards, res, err := g.Build(ctx, in, filepath.Ext(opts.In), opts)
	if err != nil {
		return nil, err
	}

	if err := writeJSON(opts.Out, cards); err != nil {
		return nil, err
	}

	g.log.InfoContext(ctx, "vocabulary generated",
		slog.String("out", opts.Out),
		slog.Int("cards", res.Cards),
		slog.Int("resolved", res.Resolved),
		slog.Int("from_sheet", res.FromSheet),
		slog.Int("translated", res.Translated),
		slog.Int("unresolved", res.Unresolved),
	)
	return res, nil
}

// Build reads one document of the given extension and returns the cards.
func (g *Generator) Build(ctx context.Context, r io.Reader, ext string, opts Options) ([]domain.VocabularyEntry, *Result, error) {
	var (
		topics *domain.TopicMap
		sheet  map[string]importer.Row
	)

	switch strings.ToLower(ext) {
	case ".xlsx", ".csv":
		read := importer.ReadXLSX
		if strings.EqualFold(ext, ".csv") {
			read = importer.ReadCSV
		}
		rows, err := read(r, importer.DefaultConfig())
		if err != nil {
			return nil, nil, fmt.Errorf("read spreadsheet: %w", err)
		}
		for _, msg := range rows.Errors {
			g.log.WarnContext(ctx, "spreadsheet row skipped", slog.String("reason", msg))
		}
		topics = rows.TopicMap(opts.Lang, opts.Level)
		sheet = rows.Translations()
	default:
		m, stats, err := outline.New(opts.Lang, opts.Level).ParseReader(r)
		if err != nil {
			return nil, nil, err
		}
		g.log.DebugContext(ctx, "outline parsed",
			slog.Int("topics", stats.Topics),
			slog.Int("words", stats.Words),
			slog.Int("dropped", stats.Dropped),
		)
		topics = m
	}

	rv := resolver.New(g.tables.Tables(opts.Lang), resolver.WithOrder(opts.Order))

	res := &Result{}
	cards := make([]domain.VocabularyEntry, 0, topics.WordCount())
	var pending []int
	for _, t := range topics.Topics() {
		for _, w := range t.Words {
			card, base := rv.BuildFlashcard(w, t.Key)
			switch {
			case base.IsResolved():
				res.Resolved++
			case sheet[domain.NormalizeText(w.Text)].Translation != "":
				row := sheet[domain.NormalizeText(w.Text)]
				rebase(rv, &card, row.Translation)
				if row.Example != "" {
					card.TargetExample = row.Example
				}
				res.FromSheet++
			default:
				pending = append(pending, len(cards))
			}
			cards = append(cards, card)
		}
	}

	translated, err := g.translate(ctx, cards, pending, opts)
	if err != nil {
		return nil, nil, err
	}
	for i, base := range translated {
		rebase(rv, &cards[i], base)
	}
	res.Translated = len(translated)
	res.Unresolved = len(pending) - len(translated)
	res.Cards = len(cards)
	return cards, res, nil
}

// rebase sets a base form found outside the tables and rebuilds the
// template examples that were filled with the echoed word.
func rebase(rv *resolver.Resolver, card *domain.VocabularyEntry, base string) {
	card.SourceWord = base
	if _, ok := rv.TableExample(card.TargetWord, card.Topic, domain.DirectionToBase); !ok {
		card.SourceExample = rv.SynthesizeExample(base, domain.DirectionToBase).Value()
	}
	if _, ok := rv.TableExample(card.TargetWord, card.Topic, domain.DirectionInTarget); !ok {
		card.TargetExample = rv.SynthesizeExample(base, domain.DirectionInTarget).Value()
	}
}

// translate machine-translates the word of cards[i] for every pending i and
// returns the base forms found, keyed by card index. Failures leave the
// card out; only cancellation aborts the run.
func (g *Generator) translate(ctx context.Context, cards []domain.VocabularyEntry, pending []int, opts Options) (map[int]string, error) {
	found := make(map[int]string)
	if g.translator == nil || opts.BaseLang == "" || len(pending) == 0 {
		return found, nil
	}

	var mu sync.Mutex
	g2, gctx := errgroup.WithContext(ctx)
	g2.SetLimit(translateConcurrency)
	for _, i := range pending {
		word := cards[i].TargetWord
		g2.Go(func() error {
			text, err := g.translator.Translate(gctx, word, opts.Lang, opts.BaseLang)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				g.log.WarnContext(gctx, "translation failed",
					slog.String("word", word),
					slog.String("error", err.Error()),
				)
				return nil
			}
			if text == "" {
				return nil
			}
			mu.Lock()
			found[i] = text
			mu.Unlock()
			return nil
		})
	}
	if err := g2.Wait(); err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}
	return found, nil
}

func writeJSON(path string, cards []domain.VocabularyEntry) error {
	data, err := json.MarshalIndent(cards, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cards: %w", err)
	}
	data = append(data, '\n')

	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
