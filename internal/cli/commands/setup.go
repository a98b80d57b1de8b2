// Package commands implements the schemasync subcommands.
package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/schemasync/internal/cli/output"
	"github.com/leapstack-labs/schemasync/internal/config"
	"github.com/leapstack-labs/schemasync/internal/engine"
	"github.com/leapstack-labs/schemasync/internal/state"
	"github.com/leapstack-labs/schemasync/pkg/core"
	"github.com/leapstack-labs/schemasync/pkg/schema"
)

// dialer overrides how the engine reaches the database; nil uses the adapter registry.
var dialer engine.Connector

// CommandContext holds common dependencies for command execution.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	// Journal is nil when state_path is empty
	Journal *state.SQLiteStore
}

// NewCommandContext builds the context for a command and opens the run journal.
// The returned cleanup closes the journal.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cc := NewCommandContextWithoutJournal(cmd)

	if !cc.Cfg.JournalEnabled() {
		return cc, func() {}, nil
	}

	store := state.NewSQLiteStore(cc.Logger)
	if err := store.Open(cc.Cfg.StatePath); err != nil {
		return nil, nil, fmt.Errorf("failed to open state database: %w", err)
	}
	cc.Journal = store

	return cc, func() { _ = store.Close() }, nil
}

// NewCommandContextWithoutJournal creates a CommandContext without opening the journal.
// Useful for commands that never touch the database.
func NewCommandContextWithoutJournal(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the loaded configuration, or defaults when none was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		Models:       config.DefaultModelsFile,
		StatePath:    config.DefaultStateFile,
		OutputFormat: config.DefaultOutput,
		Target:       &config.TargetConfig{Type: config.DefaultTargetType, Port: config.DefaultPort},
		Sync:         config.SyncConfig{RestoreInboundFKs: true},
	}
}

// engineOptions are the per-command engine switches.
type engineOptions struct {
	dryRun  bool
	ordered bool
}

// NewEngine creates an engine for the configured target.
func (cc *CommandContext) NewEngine(opts engineOptions) (*engine.Engine, error) {
	engCfg := engine.Config{
		AdapterConfig:           cc.Cfg.Target.AdapterConfig(),
		Connector:               dialer,
		Logger:                  cc.Logger,
		DryRun:                  opts.dryRun,
		OrderByDependency:       opts.ordered || cc.Cfg.Sync.Ordered,
		DisableInboundFKRestore: !cc.Cfg.Sync.RestoreInboundFKs,
	}
	if cc.Journal != nil {
		engCfg.Journal = cc.Journal
	}
	return engine.New(engCfg)
}

// LoadEntities reads the model file, falling back to entities compiled in with `schemasync gen`.
func (cc *CommandContext) LoadEntities() ([]core.EntityDescriptor, error) {
	path := cc.Cfg.Models
	if _, err := os.Stat(path); err == nil {
		cc.Logger.Debug("loading model file", "path", path)
		return schema.LoadFile(path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	if names := schema.RegisteredNames(); len(names) > 0 {
		cc.Logger.Debug("using registered entities", "entities", strings.Join(names, ","))
		return schema.Registered()
	}

	return nil, fmt.Errorf("model file does not exist: %s\nHint: create it or use --models to specify a different path", path)
}

// findEntity returns the entity named name.
func findEntity(entities []core.EntityDescriptor, name string) (core.EntityDescriptor, error) {
	names := make([]string, 0, len(entities))
	for _, e := range entities {
		if e.Name == name {
			return e, nil
		}
		names = append(names, e.Name)
	}
	return core.EntityDescriptor{}, fmt.Errorf("unknown entity %q (available: %s)", name, strings.Join(names, ", "))
}
