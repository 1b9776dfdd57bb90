// Package config loads the forgebreaker TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ramonehamilton/forgebreaker/internal/meta"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/assumptions"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/stress"
	"github.com/ramonehamilton/forgebreaker/internal/storage"
)

// EnvConfigPath names the environment variable that overrides the
// config file location.
const EnvConfigPath = "FORGEBREAKER_CONFIG"

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Cards    CardsConfig    `toml:"cards"`
	Meta     MetaConfig     `toml:"meta"`
	Engine   EngineConfig   `toml:"engine"`
	Log      LogConfig      `toml:"log"`
	MCP      MCPConfig      `toml:"mcp"`
}

// ServerConfig contains REST API settings.
type ServerConfig struct {
	Port           int      `toml:"port"`
	ReadTimeout    string   `toml:"read_timeout"`    // e.g. "15s"
	WriteTimeout   string   `toml:"write_timeout"`   // e.g. "60s"
	RequestTimeout string   `toml:"request_timeout"` // per-request handler timeout
	CORSOrigins    []string `toml:"cors_origins"`
}

// DatabaseConfig contains SQLite settings.
type DatabaseConfig struct {
	Path        string `toml:"path"`
	AutoMigrate bool   `toml:"auto_migrate"`
	JournalMode string `toml:"journal_mode"`
}

// CardsConfig contains card database settings.
type CardsConfig struct {
	BulkDataPath string `toml:"bulk_data_path"` // Scryfall bulk JSON on disk
	BulkType     string `toml:"bulk_type"`      // Scryfall bulk type to download
	Watch        bool   `toml:"watch"`          // Reload when the file changes
	ScryfallURL  string `toml:"scryfall_url"`
}

// MetaConfig contains meta deck scraping settings.
type MetaConfig struct {
	BaseURL        string   `toml:"base_url"`
	RateLimit      string   `toml:"rate_limit"` // minimum time between requests
	RequestTimeout string   `toml:"request_timeout"`
	CacheTTL       string   `toml:"cache_ttl"`
	Formats        []string `toml:"formats"`
	Limit          int      `toml:"limit"` // decks per format
}

// EngineConfig contains the assumption and stress constants.
type EngineConfig struct {
	ToleranceBand          float64        `toml:"tolerance_band"`
	WarningWeight          float64        `toml:"warning_weight"`
	CriticalWeight         float64        `toml:"critical_weight"`
	ViolationThreshold     float64        `toml:"violation_threshold"`
	BreakingPointIntensity float64        `toml:"breaking_point_intensity"`
	AnchorRemovalPenalty   float64        `toml:"anchor_removal_penalty"` // fragility added per unit intensity when an anchor is lost
	MustDrawLimit          int            `toml:"must_draw_limit"`
	Factors                stress.Factors `toml:"factors"`
	ProfilesFile           string         `toml:"profiles_file"` // optional YAML override
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // json or console
}

// MCPConfig contains assistant tool server settings.
type MCPConfig struct {
	HTTPEnabled bool   `toml:"http_enabled"` // Serve MCP over HTTP next to the API
	Path        string `toml:"path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	dataDir := defaultDataDir()
	scoring := assumptions.DefaultScoring()
	sim := stress.DefaultConfig()

	return &Config{
		Server: ServerConfig{
			Port:           8080,
			ReadTimeout:    "15s",
			WriteTimeout:   "60s",
			RequestTimeout: "60s",
			CORSOrigins:    []string{"http://localhost:5173", "http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Path:        filepath.Join(dataDir, "forgebreaker.db"),
			AutoMigrate: true,
			JournalMode: "WAL",
		},
		Cards: CardsConfig{
			BulkDataPath: filepath.Join(dataDir, "cards", "default-cards.json"),
			BulkType:     "default_cards",
			Watch:        true,
		},
		Meta: MetaConfig{
			BaseURL:        "https://www.mtggoldfish.com",
			RateLimit:      "1s",
			RequestTimeout: "30s",
			CacheTTL:       "4h",
			Formats:        []string{"standard"},
			Limit:          meta.DefaultDecksPerFormat,
		},
		Engine: EngineConfig{
			ToleranceBand:          scoring.Tolerance,
			WarningWeight:          scoring.WarningWeight,
			CriticalWeight:         scoring.CriticalWeight,
			ViolationThreshold:     sim.ViolationThreshold,
			BreakingPointIntensity: sim.BreakingPointIntensity,
			AnchorRemovalPenalty:   sim.AnchorRemovalPenalty,
			MustDrawLimit:          assumptions.DefaultMustDrawLimit,
			Factors:                sim.Factors,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		MCP: MCPConfig{
			HTTPEnabled: false,
			Path:        "/mcp",
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".forgebreaker"
	}
	return filepath.Join(home, ".forgebreaker")
}

// Path resolves the config file location: the explicit path, then
// $FORGEBREAKER_CONFIG, then ~/.forgebreaker/config.toml.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	return filepath.Join(defaultDataDir(), "config.toml")
}

// Load reads the configuration file at Path(path). A missing file yields
// the defaults; keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	path = Path(path)
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	path = Path(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}
	for name, value := range map[string]string{
		"server.read_timeout":    c.Server.ReadTimeout,
		"server.write_timeout":   c.Server.WriteTimeout,
		"server.request_timeout": c.Server.RequestTimeout,
		"meta.rate_limit":        c.Meta.RateLimit,
		"meta.request_timeout":   c.Meta.RequestTimeout,
		"meta.cache_ttl":         c.Meta.CacheTTL,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, value, err)
		}
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Meta.Limit <= 0 {
		return fmt.Errorf("meta limit must be positive: %d", c.Meta.Limit)
	}
	for _, f := range c.Meta.Formats {
		if _, err := meta.NormalizeFormat(f); err != nil {
			return err
		}
	}

	if err := c.Scoring().Validate(); err != nil {
		return err
	}
	e := c.Engine
	if e.ViolationThreshold <= 0 || e.ViolationThreshold > 1 {
		return fmt.Errorf("violation threshold must be in (0, 1], got %v", e.ViolationThreshold)
	}
	if e.BreakingPointIntensity <= 0 || e.BreakingPointIntensity > 1 {
		return fmt.Errorf("breaking point intensity must be in (0, 1], got %v", e.BreakingPointIntensity)
	}
	if e.AnchorRemovalPenalty <= 0 || e.AnchorRemovalPenalty > 1 {
		return fmt.Errorf("anchor removal penalty must be in (0, 1], got %v", e.AnchorRemovalPenalty)
	}
	if e.MustDrawLimit <= 0 {
		return fmt.Errorf("must draw limit must be positive: %d", e.MustDrawLimit)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}
	return nil
}

// Scoring returns the health and fragility constants.
func (c *Config) Scoring() assumptions.Scoring {
	return assumptions.Scoring{
		Tolerance:      c.Engine.ToleranceBand,
		WarningWeight:  c.Engine.WarningWeight,
		CriticalWeight: c.Engine.CriticalWeight,
	}
}

// AssumptionConfig returns the engine configuration, merging the
// profiles file over the built-in profiles when one is set.
func (c *Config) AssumptionConfig() (assumptions.Config, error) {
	cfg := assumptions.Config{
		Scoring:       c.Scoring(),
		MustDrawLimit: c.Engine.MustDrawLimit,
		Profiles:      assumptions.DefaultProfiles(),
	}
	if c.Engine.ProfilesFile != "" {
		profiles, err := assumptions.LoadProfilesFile(c.Engine.ProfilesFile)
		if err != nil {
			return cfg, err
		}
		cfg.Profiles = profiles
	}
	return cfg, nil
}

// StressConfig returns the simulator configuration.
func (c *Config) StressConfig() stress.Config {
	return stress.Config{
		ViolationThreshold:     c.Engine.ViolationThreshold,
		BreakingPointIntensity: c.Engine.BreakingPointIntensity,
		AnchorRemovalPenalty:   c.Engine.AnchorRemovalPenalty,
		Factors:                c.Engine.Factors,
	}
}

// StorageConfig returns the database configuration.
func (c *Config) StorageConfig() *storage.Config {
	cfg := storage.DefaultConfig(c.Database.Path)
	cfg.AutoMigrate = c.Database.AutoMigrate
	if c.Database.JournalMode != "" {
		cfg.JournalMode = c.Database.JournalMode
	}
	return cfg
}

// GoldfishConfig returns the scraper configuration. Durations are
// checked by Validate.
func (c *Config) GoldfishConfig() *meta.GoldfishConfig {
	return &meta.GoldfishConfig{
		BaseURL:        c.Meta.BaseURL,
		CacheTTL:       duration(c.Meta.CacheTTL),
		RequestTimeout: duration(c.Meta.RequestTimeout),
		RateLimit:      duration(c.Meta.RateLimit),
	}
}

// ReadTimeout returns the server read timeout.
func (c *Config) ReadTimeout() time.Duration { return duration(c.Server.ReadTimeout) }

// WriteTimeout returns the server write timeout.
func (c *Config) WriteTimeout() time.Duration { return duration(c.Server.WriteTimeout) }

// RequestTimeout returns the per-request handler timeout.
func (c *Config) RequestTimeout() time.Duration { return duration(c.Server.RequestTimeout) }

func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
