package contract

import (
	"fmt"
	"strings"

	"github.com/provscope/provscope/schema"
)

// Default values for configuration. The summarizer defaults mirror the
// documented strategy defaults.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultPrecision   = 4

	DefaultExtensionThreshold = 4
	DefaultUniqueThreshold    = 4
	DefaultClusterMin         = 5
	DefaultClusterMax         = 60
	DefaultSmallNodes         = 200
	DefaultSmallEdges         = 300
	DefaultRankIterations     = 200
)

// Config holds the validated runtime configuration.
type Config struct {
	GraphPath  string
	Strategies []string

	ResultLimit int
	Precision   int
	Output      schema.OutputFormat
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool
	Cleanup     bool // Run orphan-assignment and singleton-collapse after summarize

	RunBackend   schema.DatabaseBackend
	RunDBConnect string // Please use env var as this is plaintext

	// Strategy tuning.
	ExtensionThreshold int
	ExtensionSameIO    bool
	UniqueThreshold    int
	ClusterMin         int
	ClusterMax         int
	ClusterUseRawTime  bool
	ClusterVersions    bool
	ClusterUntimedLate bool
	ClusterBreakTimes  bool
	SmallNodes         int
	SmallEdges         int
	RankIterations     int
}

// Clone returns a deep copy of the configuration, safe for per-request
// overrides.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Strategies = append([]string(nil), c.Strategies...)
	return &clone
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// Set manually from positional args, so no tag
	GraphPathStr string

	Strategy     string `mapstructure:"strategy"`
	Limit        int    `mapstructure:"limit"`
	Precision    int    `mapstructure:"precision"`
	Output       string `mapstructure:"output"`
	OutputFile   string `mapstructure:"output-file"`
	Width        int    `mapstructure:"width"`
	Color        string `mapstructure:"color"`
	Cleanup      bool   `mapstructure:"cleanup"`
	RunBackend   string `mapstructure:"run-backend"`
	RunDBConnect string `mapstructure:"run-db-connect"`

	ExtensionThreshold int  `mapstructure:"ext-threshold"`
	ExtensionSameIO    bool `mapstructure:"ext-same-io"`
	UniqueThreshold    int  `mapstructure:"unique-threshold"`
	ClusterMin         int  `mapstructure:"cluster-min"`
	ClusterMax         int  `mapstructure:"cluster-max"`
	ClusterUseRawTime  bool `mapstructure:"cluster-raw-time"`
	ClusterVersions    bool `mapstructure:"cluster-versions"`
	ClusterUntimedLate bool `mapstructure:"cluster-untimed-late"`
	ClusterBreakTimes  bool `mapstructure:"cluster-break-times"`
	SmallNodes         int  `mapstructure:"small-nodes"`
	SmallEdges         int  `mapstructure:"small-edges"`
	RankIterations     int  `mapstructure:"iterations"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and populates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// --- 1. Result limit and precision ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Precision < 1 || input.Precision > 8 {
		return fmt.Errorf("precision must be between 1 and 8 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	// --- 2. Output format ---
	cfg.Output = schema.OutputFormat(strings.ToLower(input.Output))
	switch cfg.Output {
	case schema.TextOut, schema.CSVOut, schema.JSONOut:
	default:
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	// --- 3. Colors ---
	switch strings.ToLower(input.Color) {
	case "yes", "true", "1", "":
		cfg.UseColors = true
	case "no", "false", "0":
		cfg.UseColors = false
	default:
		return fmt.Errorf("invalid color value '%s'. must be yes/no/true/false/1/0", input.Color)
	}

	// --- 4. Strategies ---
	cfg.Strategies = nil
	for part := range strings.SplitSeq(input.Strategy, ",") {
		if s := strings.TrimSpace(part); s != "" {
			cfg.Strategies = append(cfg.Strategies, strings.ToLower(s))
		}
	}
	cfg.Cleanup = input.Cleanup

	// --- 5. Run store backend ---
	cfg.RunBackend = schema.DatabaseBackend(strings.ToLower(input.RunBackend))
	switch cfg.RunBackend {
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend, schema.NoneBackend:
	default:
		return fmt.Errorf("unsupported run backend: %s. Must be sqlite, mysql, postgresql, or none", input.RunBackend)
	}
	cfg.RunDBConnect = input.RunDBConnect

	// --- 6. Strategy tuning ---
	if input.ExtensionThreshold < 1 {
		return fmt.Errorf("ext-threshold must be at least 1 (received %d)", input.ExtensionThreshold)
	}
	if input.UniqueThreshold < 1 {
		return fmt.Errorf("unique-threshold must be at least 1 (received %d)", input.UniqueThreshold)
	}
	if input.ClusterMin < 1 || input.ClusterMax < input.ClusterMin {
		return fmt.Errorf("cluster bounds must satisfy 1 <= min <= max (received %d/%d)", input.ClusterMin, input.ClusterMax)
	}
	if input.SmallNodes < 1 || input.SmallEdges < 1 {
		return fmt.Errorf("small-group thresholds must be at least 1 (received %d/%d)", input.SmallNodes, input.SmallEdges)
	}
	if input.RankIterations < 1 {
		return fmt.Errorf("iterations must be at least 1 (received %d)", input.RankIterations)
	}
	cfg.ExtensionThreshold = input.ExtensionThreshold
	cfg.ExtensionSameIO = input.ExtensionSameIO
	cfg.UniqueThreshold = input.UniqueThreshold
	cfg.ClusterMin = input.ClusterMin
	cfg.ClusterMax = input.ClusterMax
	cfg.ClusterUseRawTime = input.ClusterUseRawTime
	cfg.ClusterVersions = input.ClusterVersions
	cfg.ClusterUntimedLate = input.ClusterUntimedLate
	cfg.ClusterBreakTimes = input.ClusterBreakTimes
	cfg.SmallNodes = input.SmallNodes
	cfg.SmallEdges = input.SmallEdges
	cfg.RankIterations = input.RankIterations

	// --- 7. Graph path ---
	cfg.GraphPath = input.GraphPathStr

	return nil
}
