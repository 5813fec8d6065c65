package contract

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/bountyviz/schema"
)

// Default values for configuration.
const (
	DefaultListenAddr      = ":8080"
	DefaultAvatarThreshold = 40
	DefaultAvatarBaseURL   = "https://gitcoin.co/funding/avatar"
	DefaultDraggableLimit  = 50
	DefaultDraggableDays   = 180
	DefaultSteamgraphDays  = 30
	DefaultHeatmapWeeks    = 2
	DefaultPrecision       = 1
	DefaultLogLevel        = "info"
	MaxWindowDays          = 3650
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration of the server, renderer and store.
// This struct is the "final, validated" config.
type Config struct {
	DBBackend schema.DatabaseBackend
	DBConnect string // Please use env var as this is plaintext

	Network     string
	ListenAddr  string
	StaffTokens []string

	HidePII         bool
	AvatarThreshold float64
	AvatarBaseURL   string

	DraggableLimit int
	DraggableDays  int
	SteamgraphDays int
	HeatmapWeeks   int

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	LogLevel  string
	LogFormat string

	// Seed drives the synthetic edges of the future graph. Zero means time based.
	Seed uint64
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	DBBackend  string `mapstructure:"db-backend"`
	DBConnect  string `mapstructure:"db-connect"`
	Network    string `mapstructure:"network"`
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Precision  int    `mapstructure:"precision"`
	Width      int    `mapstructure:"width"`
	Color      string `mapstructure:"color"`
	LogLevel   string `mapstructure:"log-level"`
	LogFormat  string `mapstructure:"log-format"`

	// --- Visualization tuning ---
	HidePII         string  `mapstructure:"hide-pii"`
	AvatarThreshold float64 `mapstructure:"avatar-threshold"`
	AvatarBaseURL   string  `mapstructure:"avatar-base-url"`
	DraggableLimit  int     `mapstructure:"draggable-limit"`
	DraggableDays   int     `mapstructure:"draggable-days"`
	SteamgraphDays  int     `mapstructure:"steamgraph-days"`
	HeatmapWeeks    int     `mapstructure:"heatmap-weeks"`
	Seed            uint64  `mapstructure:"seed"`

	// --- Fields from serveCmd.Flags() ---
	ListenAddr  string `mapstructure:"listen-addr"`
	StaffTokens string `mapstructure:"staff-tokens"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.StaffTokens != nil {
		clone.StaffTokens = slices.Clone(c.StaffTokens)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processVisualTuning(cfg, input); err != nil {
		return err
	}
	return validateBackendConfig(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfig validates the store backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	backend := input.DBBackend
	if backend == "" {
		backend = string(schema.SQLiteBackend)
	}
	cfg.DBBackend = schema.DatabaseBackend(strings.ToLower(backend))
	if _, ok := schema.ValidDatabaseBackends[cfg.DBBackend]; !ok {
		return fmt.Errorf("invalid db backend '%s'. must be sqlite, mysql, postgresql, none", input.DBBackend)
	}
	cfg.DBConnect = input.DBConnect
	return ValidateDatabaseConnectionString(cfg.DBBackend, cfg.DBConnect)
}

// validateSimpleInputs processes and validates the output and logging fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.ListenAddr = input.ListenAddr
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	cfg.StaffTokens = SplitList(input.StaffTokens)
	cfg.Network = strings.TrimSpace(input.Network)
	if cfg.Network == "" {
		cfg.Network = schema.DefaultNetwork
	}

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 2. Logging ---
	cfg.LogLevel = strings.ToLower(input.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	cfg.LogFormat = strings.ToLower(input.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = ConsoleLogFormat
	}
	if cfg.LogFormat != ConsoleLogFormat && cfg.LogFormat != JSONLogFormat {
		return fmt.Errorf("invalid log format '%s'. must be console or json", input.LogFormat)
	}

	return nil
}

// processVisualTuning validates the knobs of the individual visualizations.
func processVisualTuning(cfg *Config, input *ConfigRawInput) error {
	hidePII, err := ParseBoolString(input.HidePII)
	if err != nil {
		return fmt.Errorf("invalid --hide-pii value: %w", err)
	}
	cfg.HidePII = hidePII

	if input.AvatarThreshold < 0 {
		return fmt.Errorf("avatar-threshold cannot be negative (received %.2f)", input.AvatarThreshold)
	}
	cfg.AvatarThreshold = input.AvatarThreshold
	cfg.AvatarBaseURL = strings.TrimRight(strings.TrimSpace(input.AvatarBaseURL), "?")
	if cfg.AvatarBaseURL == "" {
		cfg.AvatarBaseURL = DefaultAvatarBaseURL
	}

	if input.DraggableLimit <= 0 {
		return fmt.Errorf("draggable-limit must be greater than 0 (received %d)", input.DraggableLimit)
	}
	cfg.DraggableLimit = input.DraggableLimit

	windows := []struct {
		name  string
		value int
		dest  *int
	}{
		{"draggable-days", input.DraggableDays, &cfg.DraggableDays},
		{"steamgraph-days", input.SteamgraphDays, &cfg.SteamgraphDays},
		{"heatmap-weeks", input.HeatmapWeeks, &cfg.HeatmapWeeks},
	}
	for _, w := range windows {
		if w.value <= 0 || w.value > MaxWindowDays {
			return fmt.Errorf("%s must be between 1 and %d (received %d)", w.name, MaxWindowDays, w.value)
		}
		*w.dest = w.value
	}

	cfg.Seed = input.Seed
	return nil
}

// DefaultConfig returns a validated config with every default applied.
// It is the baseline for tests and for library use outside the CLI.
func DefaultConfig() *Config {
	return &Config{
		DBBackend:       schema.SQLiteBackend,
		Network:         schema.DefaultNetwork,
		ListenAddr:      DefaultListenAddr,
		HidePII:         true,
		AvatarThreshold: DefaultAvatarThreshold,
		AvatarBaseURL:   DefaultAvatarBaseURL,
		DraggableLimit:  DefaultDraggableLimit,
		DraggableDays:   DefaultDraggableDays,
		SteamgraphDays:  DefaultSteamgraphDays,
		HeatmapWeeks:    DefaultHeatmapWeeks,
		Precision:       DefaultPrecision,
		Output:          schema.TextOut,
		UseColors:       true,
		LogLevel:        DefaultLogLevel,
		LogFormat:       ConsoleLogFormat,
	}
}
