package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

const (
	FileName   = "edutech.config.json"
	EnvPrefix  = "EDUTECH"
	minPool    = 5
	defaultEnv = "DATABASE_URL"
)

type Config struct {
	SchemaPath   string       `json:"schema_path" mapstructure:"schema_path" yaml:"schema_path"`
	ExportPath   string       `json:"export_path" mapstructure:"export_path" yaml:"export_path"`
	Database     Database     `json:"database" mapstructure:"database" yaml:"database"`
	Seed         Seed         `json:"seed" mapstructure:"seed" yaml:"seed"`
	Distribution Distribution `json:"distribution" mapstructure:"distribution" yaml:"distribution"`
	Categories   Categories   `json:"categories" mapstructure:"categories" yaml:"categories"`
}

type Database struct {
	DSN    string `json:"dsn,omitempty" mapstructure:"dsn" yaml:"dsn,omitempty"`
	URLEnv string `json:"url_env" mapstructure:"url_env" yaml:"url_env"`
	Schema string `json:"schema" mapstructure:"schema" yaml:"schema"`
}

type Seed struct {
	Categories  int    `json:"categories" mapstructure:"categories" yaml:"categories"`
	Instructors int    `json:"instructors" mapstructure:"instructors" yaml:"instructors"`
	Courses     int    `json:"courses" mapstructure:"courses" yaml:"courses"`
	Students    int    `json:"students" mapstructure:"students" yaml:"students"`
	Enrollments int    `json:"enrollments" mapstructure:"enrollments" yaml:"enrollments"`
	MinModules  int    `json:"min_modules" mapstructure:"min_modules" yaml:"min_modules"`
	MaxModules  int    `json:"max_modules" mapstructure:"max_modules" yaml:"max_modules"`
	MinLessons  int    `json:"min_lessons" mapstructure:"min_lessons" yaml:"min_lessons"`
	MaxLessons  int    `json:"max_lessons" mapstructure:"max_lessons" yaml:"max_lessons"`
	Reset       bool   `json:"reset" mapstructure:"reset" yaml:"reset"`
	RandomSeed  int64  `json:"random_seed" mapstructure:"random_seed" yaml:"random_seed"`
	Report      string `json:"report,omitempty" mapstructure:"report" yaml:"report,omitempty"`
}

// Distribution holds cumulative status thresholds: a draw below Completed is
// a completed enrollment, below Active an active one, the rest cancelled.
type Distribution struct {
	Completed   float64 `json:"completed" mapstructure:"completed" yaml:"completed"`
	Active      float64 `json:"active" mapstructure:"active" yaml:"active"`
	MaxDiscount float64 `json:"max_discount" mapstructure:"max_discount" yaml:"max_discount"`
}

type Categories struct {
	Pool []CategoryEntry `json:"pool,omitempty" mapstructure:"pool" yaml:"pool,omitempty"`
}

type CategoryEntry struct {
	Name        string `json:"name" mapstructure:"name" yaml:"name"`
	Description string `json:"description" mapstructure:"description" yaml:"description"`
}

var defaults = map[string]any{
	"schema_path":               "db/schema/edutech.sql",
	"export_path":               "db/export",
	"database.url_env":          defaultEnv,
	"database.schema":           "edutech",
	"seed.categories":           6,
	"seed.instructors":          10,
	"seed.courses":              20,
	"seed.students":             30,
	"seed.enrollments":          80,
	"seed.min_modules":          3,
	"seed.max_modules":          5,
	"seed.min_lessons":          3,
	"seed.max_lessons":          6,
	"seed.reset":                false,
	"seed.random_seed":          0,
	"distribution.completed":    0.45,
	"distribution.active":       0.80,
	"distribution.max_discount": 0.20,
}

// SetDefaults registers every key so environment overrides reach Unmarshal
// even when the config file does not mention them.
func SetDefaults(v *viper.Viper) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetDefault("database.dsn", "")
	v.SetDefault("seed.report", "")
}

func DefaultConfig() *Config {
	return &Config{
		SchemaPath: "db/schema/edutech.sql",
		ExportPath: "db/export",
		Database: Database{
			URLEnv: defaultEnv,
			Schema: "edutech",
		},
		Seed: Seed{
			Categories:  6,
			Instructors: 10,
			Courses:     20,
			Students:    30,
			Enrollments: 80,
			MinModules:  3,
			MaxModules:  5,
			MinLessons:  3,
			MaxLessons:  6,
		},
		Distribution: Distribution{
			Completed:   0.45,
			Active:      0.80,
			MaxDiscount: 0.20,
		},
	}
}

func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Database.URLEnv == "" {
		cfg.Database.URLEnv = defaultEnv
	}
	cfg.Database.Schema = strings.TrimSpace(cfg.Database.Schema)

	return &cfg, nil
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func (c *Config) Validate() error {
	if c.Database.Schema != "" && !identifier.MatchString(c.Database.Schema) {
		return fmt.Errorf("invalid schema name %q", c.Database.Schema)
	}

	counts := []struct {
		name string
		n    int
	}{
		{"categories", c.Seed.Categories},
		{"instructors", c.Seed.Instructors},
		{"courses", c.Seed.Courses},
		{"students", c.Seed.Students},
		{"enrollments", c.Seed.Enrollments},
	}
	for _, cnt := range counts {
		if cnt.n < 0 {
			return fmt.Errorf("seed.%s cannot be negative: %d", cnt.name, cnt.n)
		}
	}

	if c.Seed.MinModules < 0 || c.Seed.MinLessons < 0 {
		return fmt.Errorf("module and lesson minimums cannot be negative")
	}
	if c.Seed.MinModules > c.Seed.MaxModules {
		return fmt.Errorf("seed.min_modules (%d) is greater than seed.max_modules (%d)", c.Seed.MinModules, c.Seed.MaxModules)
	}
	if c.Seed.MinLessons > c.Seed.MaxLessons {
		return fmt.Errorf("seed.min_lessons (%d) is greater than seed.max_lessons (%d)", c.Seed.MinLessons, c.Seed.MaxLessons)
	}

	d := c.Distribution
	if d.Completed < 0 || d.Active > 1 || d.Completed > d.Active {
		return fmt.Errorf("distribution thresholds must satisfy 0 <= completed <= active <= 1")
	}
	if d.MaxDiscount < 0 || d.MaxDiscount > 1 {
		return fmt.Errorf("distribution.max_discount must be within [0, 1]")
	}

	if n := len(c.Categories.Pool); n > 0 {
		if n < minPool {
			return fmt.Errorf("categories.pool needs at least %d entries, got %d", minPool, n)
		}
		seen := make(map[string]bool, n)
		for _, entry := range c.Categories.Pool {
			name := strings.TrimSpace(entry.Name)
			if name == "" {
				return fmt.Errorf("categories.pool entries need a name")
			}
			if seen[name] {
				return fmt.Errorf("duplicate category %q in categories.pool", name)
			}
			seen[name] = true
		}
	}

	if c.ExportPath == "" {
		return fmt.Errorf("export_path cannot be empty")
	}

	return nil
}

// GetDatabaseURL prefers an explicit DSN and falls back to the environment
// variable named by url_env.
func (c *Config) GetDatabaseURL() (string, error) {
	if c.Database.DSN != "" {
		return c.Database.DSN, nil
	}
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}

var kvPassword = regexp.MustCompile(`(?i)(password\s*=\s*)('[^']*'|\S+)`)

// MaskDSN hides the password of a URL or key/value connection string.
func MaskDSN(dsn string) string {
	if dsn == "" {
		return ""
	}
	if strings.Contains(dsn, "://") {
		if u, err := url.Parse(dsn); err == nil {
			return u.Redacted()
		}
	}
	return kvPassword.ReplaceAllString(dsn, "${1}xxxxx")
}

// Masked returns a copy that is safe to print.
func (c *Config) Masked() *Config {
	out := *c
	out.Database.DSN = MaskDSN(c.Database.DSN)
	out.Categories.Pool = append([]CategoryEntry(nil), c.Categories.Pool...)
	return &out
}

// EnsureDirectories creates the directories the init and export commands write to.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.ExportPath, filepath.Dir(c.SchemaPath)}
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
