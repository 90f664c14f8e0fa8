package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/cardroom/holdem/internal/game"
)

// Config is the complete server configuration.
type Config struct {
	Server   ServerSettings `hcl:"server,block"`
	Defaults TableDefaults  `hcl:"defaults,block"`
}

// ServerSettings contains server-level configuration.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableDefaults are the settings fresh rooms start with, plus the idle-room
// grace period.
type TableDefaults struct {
	StartingChips int  `hcl:"starting_chips,optional"`
	SmallBlind    int  `hcl:"small_blind,optional"`
	BigBlind      int  `hcl:"big_blind,optional"`
	TurnTimerSecs int  `hcl:"turn_timer_secs,optional"`
	RebuyEnabled  bool `hcl:"rebuy_enabled,optional"`
	RebuyAmount   int  `hcl:"rebuy_amount,optional"`
	RoomGraceSecs int  `hcl:"room_grace_secs,optional"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	s := game.DefaultSettings()
	return &Config{
		Server: ServerSettings{
			Address:  "0.0.0.0",
			Port:     3000,
			LogLevel: "info",
		},
		Defaults: TableDefaults{
			StartingChips: s.StartingChips,
			SmallBlind:    s.SmallBlind,
			BigBlind:      s.BigBlind,
			TurnTimerSecs: s.TurnTimer,
			RebuyEnabled:  s.RebuyEnabled,
			RebuyAmount:   s.RebuyAmount,
			RoomGraceSecs: 300,
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to defaults
// when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	def := DefaultConfig()
	if config.Server.Address == "" {
		config.Server.Address = def.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = def.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = def.Server.LogLevel
	}
	if config.Defaults.StartingChips == 0 {
		config.Defaults.StartingChips = def.Defaults.StartingChips
	}
	if config.Defaults.SmallBlind == 0 {
		config.Defaults.SmallBlind = def.Defaults.SmallBlind
	}
	if config.Defaults.BigBlind == 0 {
		config.Defaults.BigBlind = def.Defaults.BigBlind
	}
	if config.Defaults.TurnTimerSecs == 0 {
		config.Defaults.TurnTimerSecs = def.Defaults.TurnTimerSecs
	}
	if config.Defaults.RebuyAmount == 0 {
		config.Defaults.RebuyAmount = def.Defaults.RebuyAmount
	}
	if config.Defaults.RoomGraceSecs == 0 {
		config.Defaults.RoomGraceSecs = def.Defaults.RoomGraceSecs
	}

	return &config, nil
}

// Validate checks the configuration invariants.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if err := c.TableSettings().Validate(); err != nil {
		return fmt.Errorf("invalid table defaults: %w", err)
	}
	if c.Defaults.RoomGraceSecs < 0 {
		return fmt.Errorf("room grace period must not be negative")
	}
	return nil
}

// Addr returns the full listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// TableSettings converts the defaults block to game settings.
func (c *Config) TableSettings() game.Settings {
	return game.Settings{
		StartingChips: c.Defaults.StartingChips,
		SmallBlind:    c.Defaults.SmallBlind,
		BigBlind:      c.Defaults.BigBlind,
		TurnTimer:     c.Defaults.TurnTimerSecs,
		RebuyEnabled:  c.Defaults.RebuyEnabled,
		RebuyAmount:   c.Defaults.RebuyAmount,
	}
}

// GracePeriod returns the idle-room retention duration.
func (c *Config) GracePeriod() time.Duration {
	return time.Duration(c.Defaults.RoomGraceSecs) * time.Second
}
