// Package config holds the pipeline configuration and the deployment
// constants of the analyzed fronthaul segment.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"fronthaul-lab/internal/domain"
)

// Config is the full application configuration. Zero values are filled
// from Default; a YAML file overrides individual fields.
type Config struct {
	// Input/output locations.
	ThroughputDir  string `yaml:"throughput_dir"`
	PacketStatsDir string `yaml:"packet_stats_dir"`
	OutputDir      string `yaml:"output_dir"`

	// Deployment cardinalities. 24 cells over 3 links with one RU per
	// link describes the captured segment; other deployments may differ.
	NumCells int `yaml:"num_cells"`
	NumLinks int `yaml:"num_links"`

	// Slot grid.
	SymbolsPerSlot int     `yaml:"symbols_per_slot"`
	SlotDurationUS float64 `yaml:"slot_duration_us"`

	// Capacity estimation.
	BufferSymbols     int     `yaml:"buffer_symbols"`
	BufferDurationUS  float64 `yaml:"buffer_duration_us"`
	LossBudgetPercent float64 `yaml:"loss_budget_percent"`

	// Reporting cadence: one traffic point every DownsampleStride slots
	// (2000 slots of 500 μs ≈ one real-time second).
	DownsampleStride int64 `yaml:"downsample_stride"`

	// Upper bound on the correlation window length, in slots.
	MaxCorrelationSlots int64 `yaml:"max_correlation_slots"`

	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
}

// LogConfig controls logrus setup.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// ServerConfig controls the API server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration of the captured deployment.
func Default() Config {
	return Config{
		ThroughputDir:       "data/throughput",
		PacketStatsDir:      "data/packet_stats",
		OutputDir:           "output",
		NumCells:            domain.DefaultNumCells,
		NumLinks:            domain.DefaultNumLinks,
		SymbolsPerSlot:      domain.DefaultSymbolsPerSlot,
		SlotDurationUS:      domain.DefaultSlotDurationUS,
		BufferSymbols:       domain.DefaultBufferSymbols,
		BufferDurationUS:    domain.DefaultBufferDurationUS,
		LossBudgetPercent:   1.0,
		DownsampleStride:    2000,
		MaxCorrelationSlots: 120000,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: ":8000",
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if c.NumCells <= 0 {
		return fmt.Errorf("config: num_cells must be positive, got %d", c.NumCells)
	}
	if c.NumLinks <= 0 || c.NumLinks > c.NumCells {
		return fmt.Errorf("config: num_links must be in [1, num_cells], got %d", c.NumLinks)
	}
	if c.SymbolsPerSlot <= 0 {
		return fmt.Errorf("config: symbols_per_slot must be positive, got %d", c.SymbolsPerSlot)
	}
	if c.SlotDurationUS <= 0 {
		return fmt.Errorf("config: slot_duration_us must be positive, got %v", c.SlotDurationUS)
	}
	if c.LossBudgetPercent < 0 || c.LossBudgetPercent >= 100 {
		return fmt.Errorf("config: loss_budget_percent must be in [0, 100), got %v", c.LossBudgetPercent)
	}
	if c.DownsampleStride <= 0 {
		return fmt.Errorf("config: downsample_stride must be positive, got %d", c.DownsampleStride)
	}
	return nil
}

// SlotsPerSecond derives the slot rate from the slot duration.
func (c Config) SlotsPerSecond() float64 {
	return 1e6 / c.SlotDurationUS
}

// BufferSlots is the number of whole slots a full buffer can absorb,
// rounded up with a minimum of one slot while any buffer is configured.
// The sub-slot buffer (4 symbols ≈ 0.286 slots) therefore counts as a
// full slot, a known modeling approximation.
func (c Config) BufferSlots() int {
	if c.BufferSymbols <= 0 {
		return 0
	}
	slots := (c.BufferSymbols + c.SymbolsPerSlot - 1) / c.SymbolsPerSlot
	if slots < 1 {
		slots = 1
	}
	return slots
}
