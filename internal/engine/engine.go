// Package engine reconciles a SQL Server database with a set of entity descriptors.
// It creates tables, synchronizes columns and constraints of existing tables,
// and inserts records, issuing every statement through the database gateway.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/schemasync/pkg/adapter"
	"github.com/leapstack-labs/schemasync/pkg/core"
)

// Connector opens a connected gateway. The engine closes it when the call returns.
type Connector func(ctx context.Context) (core.Adapter, error)

// Config holds engine configuration.
type Config struct {
	// AdapterConfig is used by the default connector
	AdapterConfig core.AdapterConfig
	// Connector overrides how gateway connections are opened (optional)
	Connector Connector
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
	// Journal records every issued statement (optional)
	Journal core.Journal
	// DryRun records mutating statements without executing them
	DryRun bool
	// OrderByDependency sorts entities so referenced tables sync first
	OrderByDependency bool
	// DisableInboundFKRestore leaves foreign keys of other tables alone when
	// a primary key is dropped; the drop then fails if any reference it
	DisableInboundFKRestore bool
}

// Engine runs schema operations. It holds no connection between calls.
type Engine struct {
	connect           Connector
	logger            *slog.Logger
	journal           core.Journal
	dryRun            bool
	orderByDependency bool
	restoreInbound    bool
}

// New creates an engine. Without an explicit Connector the adapter type must be registered.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	connect := cfg.Connector
	if connect == nil {
		if !adapter.IsRegistered(cfg.AdapterConfig.Type) {
			return nil, &adapter.UnknownAdapterError{Type: cfg.AdapterConfig.Type, Available: adapter.Types()}
		}
		connect = registryConnector(cfg.AdapterConfig, logger)
	}

	logger.Debug("initializing engine", "adapter_type", cfg.AdapterConfig.Type, "dry_run", cfg.DryRun)

	return &Engine{
		connect:           connect,
		logger:            logger,
		journal:           cfg.Journal,
		dryRun:            cfg.DryRun,
		orderByDependency: cfg.OrderByDependency,
		restoreInbound:    !cfg.DisableInboundFKRestore,
	}, nil
}

func registryConnector(cfg core.AdapterConfig, logger *slog.Logger) Connector {
	return func(ctx context.Context) (core.Adapter, error) {
		db, err := adapter.New(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create database adapter: %w", err)
		}
		if err := db.Connect(ctx, cfg); err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return db, nil
	}
}

// session is one top-level call: one connection, one journal run, one result.
type session struct {
	e      *Engine
	db     core.Adapter
	runID  string
	result *Result
}

// begin connects (unless the operation needs no reads and runs dry) and opens a journal run.
func (e *Engine) begin(ctx context.Context, op string, needsReads bool) (*session, error) {
	s := &session{e: e, result: &Result{Operation: op, DryRun: e.dryRun}}

	if needsReads || !e.dryRun {
		db, err := e.connect(ctx)
		if err != nil {
			return s, err
		}
		s.db = db
	}

	if e.journal != nil {
		runID, err := e.journal.BeginRun(ctx, op, e.dryRun)
		if err != nil {
			e.logger.Warn("failed to start journal run", "operation", op, "error", err)
		} else {
			s.runID = runID
			s.result.RunID = runID
		}
	}

	e.logger.Info("starting "+op, "run_id", s.runID, "dry_run", e.dryRun)
	return s, nil
}

// end closes the connection and the journal run. It is called on every exit path.
func (s *session) end(ctx context.Context, err error) {
	if s.db != nil {
		if cerr := s.db.Close(); cerr != nil {
			s.e.logger.Warn("failed to close database connection", "error", cerr)
		}
		s.db = nil
	}
	if s.e.journal != nil && s.runID != "" {
		if jerr := s.e.journal.FinishRun(context.WithoutCancel(ctx), s.runID, err); jerr != nil {
			s.e.logger.Warn("failed to finish journal run", "run_id", s.runID, "error", jerr)
		}
	}
	if err != nil {
		s.e.logger.Info(s.result.Operation+" failed", "run_id", s.runID, "statements", len(s.result.Statements), "error", err.Error())
		return
	}
	s.e.logger.Info(s.result.Operation+" completed", "run_id", s.runID, "statements", len(s.result.Statements))
}

// exec issues one statement. A gateway failure is returned as *core.StatementError.
func (s *session) exec(ctx context.Context, stmt core.Statement) error {
	s.e.logger.Debug("executing statement", "table", stmt.Table, "kind", string(stmt.Kind), "sql", stmt.SQL)

	if !s.e.dryRun {
		if err := s.db.Exec(ctx, stmt.SQL, stmt.Args...); err != nil {
			return &core.StatementError{Table: stmt.Table, SQL: stmt.SQL, Err: err}
		}
	}

	s.result.Statements = append(s.result.Statements, stmt)

	if s.e.journal != nil && s.runID != "" {
		if err := s.e.journal.RecordStatement(ctx, s.runID, stmt); err != nil {
			s.e.logger.Warn("failed to journal statement", "run_id", s.runID, "error", err)
		}
	}
	return nil
}
