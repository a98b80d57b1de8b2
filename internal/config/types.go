// Package config loads schemasync configuration.
//
// Values are layered with koanf: built-in defaults, then schemasync.yaml,
// then SCHEMASYNC_* environment variables, then explicitly set CLI flags.
package config

import "github.com/leapstack-labs/schemasync/pkg/core"

// TargetConfig is an alias for the shared target configuration.
type TargetConfig = core.TargetConfig

// Config holds all configuration options.
type Config struct {
	Models       string               `koanf:"models"`
	StatePath    string               `koanf:"state_path"`
	Verbose      bool                 `koanf:"verbose"`
	OutputFormat string               `koanf:"output"`
	Target       *TargetConfig        `koanf:"target"`
	Sync         SyncConfig           `koanf:"sync"`
	Environments map[string]EnvConfig `koanf:"environments"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
	// TargetName is the environment selected with --target, if any.
	TargetName string `koanf:"-"`
}

// SyncConfig holds defaults for the sync command.
type SyncConfig struct {
	Ordered           bool `koanf:"ordered"`
	RestoreInboundFKs bool `koanf:"restore_inbound_fks"`
}

// EnvConfig holds environment-specific overrides.
type EnvConfig struct {
	Models string        `koanf:"models"`
	Target *TargetConfig `koanf:"target"`
}

// File names searched for in the project root.
const (
	ConfigFileName    = "schemasync.yaml"
	ConfigFileNameAlt = "schemasync.yml"
)

// Default configuration values.
const (
	DefaultModelsFile = "models.yaml"
	DefaultStateFile  = ".schemasync/state.db"
	DefaultOutput     = "auto" // TTY=text, non-TTY=markdown
	DefaultTargetType = "sqlserver"
	DefaultPort       = 1433
)

// JournalEnabled reports whether runs should be journaled.
func (c *Config) JournalEnabled() bool {
	return c.StatePath != ""
}
