package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Storage.validate(c.Database, c.SQLite); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Vocabulary.validate(); err != nil {
		return fmt.Errorf("vocabulary: %w", err)
	}
	if err := c.Chat.validate(); err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	if c.Translate.URL != "" {
		if err := validateURL(c.Translate.URL); err != nil {
			return fmt.Errorf("translate.url: %w", err)
		}
	}
	return nil
}

func (s *StorageConfig) validate(db DatabaseConfig, lite SQLiteConfig) error {
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))
	if s.RetentionDays < 1 {
		return fmt.Errorf("retention_days must be >= 1 (got %d)", s.RetentionDays)
	}
	switch s.Driver {
	case DriverPostgres:
		if db.DSN == "" {
			return fmt.Errorf("database.dsn is required for driver %q", DriverPostgres)
		}
		if db.MinConns > db.MaxConns {
			return fmt.Errorf("database.min_conns (%d) exceeds max_conns (%d)", db.MinConns, db.MaxConns)
		}
	case DriverSQLite:
		if strings.TrimSpace(lite.Path) == "" {
			return fmt.Errorf("sqlite.path is required for driver %q", DriverSQLite)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown driver %q (want postgres, sqlite or memory)", s.Driver)
	}
	return nil
}

func (v *VocabularyConfig) validate() error {
	if v.OutlineDir != "" && v.OutlineURL != "" {
		return fmt.Errorf("outline_dir and outline_url are mutually exclusive")
	}
	if v.OutlineURL != "" {
		if err := validateURL(v.OutlineURL); err != nil {
			return fmt.Errorf("outline_url: %w", err)
		}
	}
	if v.RefreshInterval < 0 {
		return fmt.Errorf("refresh_interval must be >= 0 (got %v)", v.RefreshInterval)
	}
	switch strings.ToLower(v.CrossTopicOrder) {
	case "insertion", "lexicographic":
	default:
		return fmt.Errorf("cross_topic_order must be insertion or lexicographic (got %q)", v.CrossTopicOrder)
	}
	return nil
}

func (c *ChatConfig) validate() error {
	if c.RatePerMinute <= 0 {
		return fmt.Errorf("rate_per_minute must be > 0 (got %v)", c.RatePerMinute)
	}
	if c.Burst <= 0 {
		return fmt.Errorf("burst must be > 0 (got %d)", c.Burst)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be > 0 (got %d)", c.MaxTokens)
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https (got %q)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}
