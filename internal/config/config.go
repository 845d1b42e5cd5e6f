package config

import (
	"fmt"
	"math"
)

// Environment variable names.
const (
	EnvLogLevel      = "PALETTE_MCP_LOG_LEVEL"
	EnvPaletteFile   = "PALETTE_MCP_PALETTE_FILE"
	EnvDefaultAmount = "PALETTE_MCP_DEFAULT_AMOUNT"
	EnvStripHeight   = "PALETTE_MCP_STRIP_HEIGHT"
	EnvParallel      = "PALETTE_MCP_PARALLEL"
	EnvShareCache    = "PALETTE_MCP_SHARE_CACHE"
)

// DefaultAmount is the dithering strength used when a request gives none.
const DefaultAmount = 0.3

// Config holds the server settings.
type Config struct {
	LogLevel    string
	PaletteFile string

	// Defaults for image_map_to_palette requests that omit them.
	Amount      float64
	StripHeight int
	Parallel    bool
	ShareCache  bool
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	cfg := Config{
		LogLevel:    Get(EnvLogLevel, "info"),
		PaletteFile: Get(EnvPaletteFile, ""),
		Amount:      GetFloat(EnvDefaultAmount, DefaultAmount),
		StripHeight: GetInt(EnvStripHeight, 0),
		Parallel:    GetBool(EnvParallel, false),
		ShareCache:  GetBool(EnvShareCache, false),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if math.IsNaN(c.Amount) || c.Amount < 0 || c.Amount > 1 {
		return fmt.Errorf("%s must be between 0 and 1, got %v", EnvDefaultAmount, c.Amount)
	}
	if c.StripHeight < 0 {
		return fmt.Errorf("%s must not be negative, got %d", EnvStripHeight, c.StripHeight)
	}
	return nil
}
