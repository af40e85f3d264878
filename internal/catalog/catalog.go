// Package catalog holds the static vocabulary data: fixed-level word sets
// and the per-language translation tables the resolver reads.
//
// Data lives in two directories of a file system:
//
//	sets/<lang>_<level>.json    {"lang", "level", "entries": [VocabularyEntry...]}
//	tables/<lang>.json          {"lang", "topics": [{"topic", "entries"}...], "legacy", "templates"}
//
// The production data is embedded in the binary; Load accepts any fs.FS so
// a deployment can override it with a directory.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"sort"
	"strings"

	"github.com/heartmarshall/lingua-cards/internal/domain"
	"github.com/heartmarshall/lingua-cards/internal/service/resolver"
)

//go:embed data/sets/*.json data/tables/*.json
var embedded embed.FS

// Embedded returns the file system with the built-in data.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded data: %v", err))
	}
	return sub
}

// Open loads the data in dir, or the embedded data when dir is empty.
func Open(dir string) (*Catalog, error) {
	if dir == "" {
		return Load(Embedded())
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("catalog: data dir: %w", err)
	}
	return Load(os.DirFS(dir))
}

// Catalog is the loaded static data. It is immutable after Load.
type Catalog struct {
	sets   map[domain.SetKey][]domain.VocabularyEntry
	tables map[domain.Language]*resolver.Tables
}

type setFile struct {
	Lang    domain.Language          `json:"lang"`
	Level   domain.Level             `json:"level"`
	Entries []domain.VocabularyEntry `json:"entries"`
}

type topicTableFile struct {
	Topic   string                                  `json:"topic"`
	Entries map[string]domain.TranslationTableEntry `json:"entries"`
}

type templatesFile struct {
	ToBase   []string `json:"toBase"`
	InTarget []string `json:"inTarget"`
}

type tablesFile struct {
	Lang      domain.Language   `json:"lang"`
	Topics    []topicTableFile  `json:"topics"`
	Legacy    map[string]string `json:"legacy"`
	Templates templatesFile     `json:"templates"`
}

// Load reads and validates every set and table file in fsys.
// Invalid data fails the whole load with an error wrapping domain.ErrValidation.
func Load(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{
		sets:   make(map[domain.SetKey][]domain.VocabularyEntry),
		tables: make(map[domain.Language]*resolver.Tables),
	}

	setPaths, err := fs.Glob(fsys, "sets/*.json")
	if err != nil {
		return nil, fmt.Errorf("catalog: glob sets: %w", err)
	}
	for _, p := range setPaths {
		if err := c.loadSet(fsys, p); err != nil {
			return nil, err
		}
	}

	tablePaths, err := fs.Glob(fsys, "tables/*.json")
	if err != nil {
		return nil, fmt.Errorf("catalog: glob tables: %w", err)
	}
	for _, p := range tablePaths {
		if err := c.loadTables(fsys, p); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Catalog) loadSet(fsys fs.FS, p string) error {
	var f setFile
	if err := decodeFile(fsys, p, &f); err != nil {
		return err
	}

	key := domain.SetKey{Lang: f.Lang, Level: f.Level}
	if err := key.Validate(); err != nil {
		return fmt.Errorf("catalog: %s: %w", p, err)
	}
	if _, dup := c.sets[key]; dup {
		return fmt.Errorf("catalog: %s: set %s defined twice: %w", p, key, domain.ErrValidation)
	}

	seen := make(map[string]struct{}, len(f.Entries))
	for i, e := range f.Entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("catalog: %s: entry %d: %w", p, i, err)
		}
		if strings.TrimSpace(e.SourceWord) == "" {
			return fmt.Errorf("catalog: %s: entry %q: %w", p, e.ID,
				domain.NewValidationError("source_word", "required"))
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("catalog: %s: duplicate id %q: %w", p, e.ID, domain.ErrValidation)
		}
		seen[e.ID] = struct{}{}
	}

	c.sets[key] = f.Entries
	return nil
}

func (c *Catalog) loadTables(fsys fs.FS, p string) error {
	var f tablesFile
	if err := decodeFile(fsys, p, &f); err != nil {
		return err
	}
	if !f.Lang.IsValid() {
		return fmt.Errorf("catalog: %s: %w", p, domain.NewValidationError("lang", "invalid language code"))
	}
	if _, dup := c.tables[f.Lang]; dup {
		return fmt.Errorf("catalog: %s: tables for %s defined twice: %w", p, f.Lang, domain.ErrValidation)
	}

	topics := make([]resolver.TopicTable, 0, len(f.Topics))
	for i, t := range f.Topics {
		if strings.TrimSpace(t.Topic) == "" {
			return fmt.Errorf("catalog: %s: topic %d: %w", p, i, domain.NewValidationError("topic", "required"))
		}
		topics = append(topics, resolver.TopicTable{Topic: t.Topic, Entries: t.Entries})
	}

	c.tables[f.Lang] = resolver.NewTables(topics, f.Legacy, resolver.Templates{
		ToBase:   f.Templates.ToBase,
		InTarget: f.Templates.InTarget,
	})
	return nil
}

func decodeFile(fsys fs.FS, p string, v any) error {
	file, err := fsys.Open(p)
	if err != nil {
		return fmt.Errorf("catalog: open %s: %w", p, err)
	}
	defer file.Close()

	dec := json.NewDecoder(file)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("catalog: decode %s: %w", path.Base(p), err)
	}
	return nil
}

// Entries returns a copy of the static set for (lang, level).
func (c *Catalog) Entries(lang domain.Language, level domain.Level) ([]domain.VocabularyEntry, bool) {
	entries, ok := c.sets[domain.SetKey{Lang: lang, Level: level}]
	if !ok {
		return nil, false
	}
	return slices.Clone(entries), true
}

// Tables returns the translation tables of lang. Languages without tables
// get empty tables, so every word falls back to identity.
func (c *Catalog) Tables(lang domain.Language) *resolver.Tables {
	if t, ok := c.tables[lang]; ok {
		return t
	}
	return resolver.EmptyTables()
}

// HasTables reports whether lang has its own translation tables.
func (c *Catalog) HasTables(lang domain.Language) bool {
	_, ok := c.tables[lang]
	return ok
}

// Sets returns the keys of all static sets, sorted by language then level.
func (c *Catalog) Sets() []domain.SetKey {
	keys := make([]domain.SetKey, 0, len(c.sets))
	for k := range c.sets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Lang != keys[j].Lang {
			return keys[i].Lang < keys[j].Lang
		}
		return keys[i].Level < keys[j].Level
	})
	return keys
}

// Size returns the number of cards in the set, or 0 when it does not exist.
func (c *Catalog) Size(key domain.SetKey) int {
	return len(c.sets[key])
}
