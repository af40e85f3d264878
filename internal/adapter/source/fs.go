// Package source retrieves topic outline documents.
package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"

	"github.com/heartmarshall/lingua-cards/internal/domain"
)

// FS reads outlines laid out as <lang>/<level>.md in a file system.
type FS struct {
	fsys fs.FS
	log  *slog.Logger
}

// NewFS creates an FS source over fsys.
func NewFS(fsys fs.FS, logger *slog.Logger) *FS {
	return &FS{
		fsys: fsys,
		log:  logger.With("adapter", "source_fs"),
	}
}

// NewDir creates an FS source rooted at dir on disk.
func NewDir(dir string, logger *slog.Logger) *FS {
	return NewFS(os.DirFS(dir), logger)
}

// Fetch returns the outline of (lang, level). A missing file is domain.ErrNotFound.
func (s *FS) Fetch(ctx context.Context, lang domain.Language, level domain.Level) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := documentPath(lang, level)
	raw, err := fs.ReadFile(s.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("outline %s: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("source_fs: read %s: %w", name, err)
	}

	s.log.DebugContext(ctx, "outline read", slog.String("path", name), slog.Int("bytes", len(raw)))
	return string(raw), nil
}

func documentPath(lang domain.Language, level domain.Level) string {
	return path.Join(string(lang), string(level)+".md")
}
