// Command vocabgen turns an outline (.md, .txt) or a spreadsheet (.xlsx,
// .csv) into a resolved vocabulary JSON file.
//
// Base forms come from the translation tables first, then from the
// spreadsheet's translation column, then (with -translate) from the
// configured machine translation service.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/lingua-cards/internal/adapter/provider/translate"
	"github.com/heartmarshall/lingua-cards/internal/app"
	"github.com/heartmarshall/lingua-cards/internal/app/vocabgen"
	"github.com/heartmarshall/lingua-cards/internal/catalog"
	"github.com/heartmarshall/lingua-cards/internal/config"
	"github.com/heartmarshall/lingua-cards/internal/domain"
	"github.com/heartmarshall/lingua-cards/internal/service/resolver"
)

type translator interface {
	Translate(ctx context.Context, text string, from, to domain.Language) (string, error)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		log.Printf("vocabgen: %v", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("vocabgen", flag.ContinueOnError)
	in := fs.String("in", "", "input outline or spreadsheet")
	out := fs.String("out", "-", "output JSON path, - for stdout")
	lang := fs.String("lang", "es", "language being learned")
	level := fs.String("level", "b1", "level of the generated set")
	useTranslate := fs.Bool("translate", false, "machine-translate words the tables cannot resolve")
	configPath := fs.String("config", "", "path to YAML config")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := app.NewLogger(cfg.Log)

	cat, err := catalog.Open(cfg.Vocabulary.DataDir)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	var tr translator
	if *useTranslate {
		if cfg.Translate.URL == "" {
			logger.Warn("-translate set but translate.url is empty, unresolved words stay as they are")
			tr = translate.NewStub()
		} else {
			tr = translate.NewHTTP(cfg.Translate.URL, cfg.Translate.APIKey, cfg.Translate.Timeout, logger)
		}
	}

	_, err = vocabgen.New(logger, cat, tr).Run(ctx, vocabgen.Options{
		In:       *in,
		Out:      *out,
		Lang:     domain.Language(*lang),
		Level:    domain.Level(*level),
		BaseLang: domain.Language(cfg.Translate.BaseLang),
		Order:    resolver.ParseOrder(cfg.Vocabulary.CrossTopicOrder),
	})
	return err
}
