package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ConfigFileName is the JSON file Load looks for in the config directory.
const ConfigFileName = "campaign.cfg.json"

// MemoryConfig holds in-memory/JSON journal backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds settings for the in-memory SQLite journal.
type SQLiteConfig struct {
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"`
	DumpPath     string        `json:"dumpPath" mapstructure:"dumpPath"`
}

// StorageConfig selects and configures the event journal backend.
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	Memory MemoryConfig `json:"memory" mapstructure:"memory"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
}

// PlannerConfig holds the tunables of the campaign planners.
type PlannerConfig struct {
	Seed              int64
	TickSeconds       int64
	Formula           string
	Weights           map[string]float64
	EventInterval     int64
	EventLockout      int64
	MissionLead       int64
	MissionWindow     int64
	MissionMaxPending int
	MovementDrift     float64
}

// InfluxConfig holds telemetry settings.
type InfluxConfig struct {
	Enabled    bool
	URL        string
	Token      string
	Org        string
	Bucket     string
	BackupPath string
}

// OTelConfig holds metric export settings.
type OTelConfig struct {
	Enabled        bool
	ServiceName    string
	ExportInterval time.Duration
}

// DefaultWeights is the strategic weight of each group type when the
// campaign configuration does not provide one.
var DefaultWeights = map[string]any{
	"carrier_group":      1.5,
	"battle_group":       1.4,
	"destroyer_squadron": 1.1,
	"starbase":           1.6,
	"station":            1.3,
	"c3i":                1.4,
	"comm_relay":         1.0,
	"early_warning":      1.0,
	"fwd_control_ctr":    1.2,
	"factory":            1.2,
	"refinery":           1.1,
	"war_production":     1.3,
	"battery":            0.8,
	"missile":            0.9,
	"minefield":          0.5,
	"fighter_squadron":   0.9,
	"intercept_squadron": 0.9,
	"attack_squadron":    1.0,
	"lca_squadron":       0.6,
}

// SetDefaults registers every default value. Load calls it; tests that do
// not read a file may call it directly.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./campaignlogs")

	viper.SetDefault("campaign.tickSeconds", 300)
	viper.SetDefault("campaign.seed", 0)
	viper.SetDefault("campaign.contentDir", ".")

	viper.SetDefault("strategy.formula", "value * weight + intel * 10")
	viper.SetDefault("strategy.weights", DefaultWeights)

	viper.SetDefault("event.interval", 300)
	viper.SetDefault("event.lockout", 1800)

	viper.SetDefault("mission.lead", 1800)
	viper.SetDefault("mission.window", 3600)
	viper.SetDefault("mission.maxPending", 3)

	viper.SetDefault("movement.drift", 5000.0)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./journal")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.dumpInterval", "3m")
	viper.SetDefault("storage.sqlite.dumpPath", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "campaign")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "campaign-metrics")
	viper.SetDefault("influx.bucket", "campaign")
	viper.SetDefault("influx.backupPath", "./campaignlogs/telemetry.lp.gz")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "campaign-sim")
	viper.SetDefault("otel.exportInterval", "30s")

	viper.SetDefault("monitor.interval", "1m")
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(ConfigFileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetStorageConfig returns the journal backend configuration.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
			DumpPath:     viper.GetString("storage.sqlite.dumpPath"),
		},
	}
}

// GetPlannerConfig returns the planner tunables.
func GetPlannerConfig() PlannerConfig {
	weights := make(map[string]float64)
	for k, v := range viper.GetStringMap("strategy.weights") {
		switch n := v.(type) {
		case float64:
			weights[k] = n
		case int:
			weights[k] = float64(n)
		case int64:
			weights[k] = float64(n)
		}
	}

	return PlannerConfig{
		Seed:              viper.GetInt64("campaign.seed"),
		TickSeconds:       viper.GetInt64("campaign.tickSeconds"),
		Formula:           viper.GetString("strategy.formula"),
		Weights:           weights,
		EventInterval:     viper.GetInt64("event.interval"),
		EventLockout:      viper.GetInt64("event.lockout"),
		MissionLead:       viper.GetInt64("mission.lead"),
		MissionWindow:     viper.GetInt64("mission.window"),
		MissionMaxPending: viper.GetInt("mission.maxPending"),
		MovementDrift:     viper.GetFloat64("movement.drift"),
	}
}

// GetInfluxConfig returns the telemetry configuration.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled: viper.GetBool("influx.enabled"),
		URL: fmt.Sprintf("%s://%s:%s",
			viper.GetString("influx.protocol"),
			viper.GetString("influx.host"),
			viper.GetString("influx.port"),
		),
		Token:      viper.GetString("influx.token"),
		Org:        viper.GetString("influx.org"),
		Bucket:     viper.GetString("influx.bucket"),
		BackupPath: viper.GetString("influx.backupPath"),
	}
}

// GetOTelConfig returns the metric export configuration.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:        viper.GetBool("otel.enabled"),
		ServiceName:    viper.GetString("otel.serviceName"),
		ExportInterval: viper.GetDuration("otel.exportInterval"),
	}
}
