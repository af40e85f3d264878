package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/lingua-cards/internal/domain"
)

func TestRun_UsesConfiguredLoggerAndWritesDeck(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  level: error\n  format: text\n"), 0o644))
	in := filepath.Join(dir, "b1.md")
	require.NoError(t, os.WriteFile(in, []byte("## trabajo\nabogado\n"), 0o644))
	out := filepath.Join(dir, "es_b1.json")

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	err := run(context.Background(), []string{"-config", cfgPath, "-in", in, "-out", out, "-lang", "es", "-level", "b1"})
	require.NoError(t, err)

	assert.False(t, slog.Default().Enabled(context.Background(), slog.LevelWarn), "log.level from config applies")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var cards []domain.VocabularyEntry
	require.NoError(t, json.Unmarshal(data, &cards))
	require.Len(t, cards, 1)
	assert.Equal(t, "abogado", cards[0].TargetWord)
}

func TestRun_BadConfigPath(t *testing.T) {
	err := run(context.Background(), []string{"-config", filepath.Join(t.TempDir(), "missing.yaml"), "-in", "x.md"})
	assert.ErrorContains(t, err, "load config")
}
