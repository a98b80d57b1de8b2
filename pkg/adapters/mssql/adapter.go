package mssql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"

	mssqldb "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"github.com/leapstack-labs/schemasync/pkg/adapter"
)

const (
	driverName  = "sqlserver"
	defaultHost = "localhost"
	defaultPort = 1433
)

// Adapter implements the adapter.Adapter interface for SQL Server.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQL Server adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// DriverName returns the database/sql driver name registered by go-mssqldb.
func (a *Adapter) DriverName() string {
	return driverName
}

// Connect establishes a connection to SQL Server.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	if a.IsConnected() {
		return fmt.Errorf("sqlserver adapter is already connected")
	}

	dsn, err := BuildDSN(cfg)
	if err != nil {
		return err
	}

	if _, err := msdsn.Parse(dsn); err != nil {
		return fmt.Errorf("invalid sqlserver dsn: %w", err)
	}

	a.Logger.Debug("connecting to sqlserver", slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlserver connection: %w", err)
	}
	// Every statement runs sequentially on one session.
	db.SetMaxOpenConns(1)

	a.DB = db
	if err := a.Ping(ctx); err != nil {
		_ = a.Close()
		return fmt.Errorf("failed to connect to sqlserver: %w", err)
	}
	a.Cfg = cfg
	return nil
}

// BuildDSN constructs a sqlserver:// connection URL from the adapter config.
// Options are appended verbatim as query parameters.
func BuildDSN(cfg adapter.Config) (string, error) {
	params, err := ParseParams(cfg.Params)
	if err != nil {
		return "", err
	}

	host := cfg.Host
	if host == "" {
		host = defaultHost
	}
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}

	query := url.Values{}
	for k, v := range cfg.Options {
		query.Set(k, v)
	}
	if cfg.Database != "" {
		query.Set("database", cfg.Database)
	}
	if params.AppName != "" {
		query.Set("app name", params.AppName)
	}
	if params.Encrypt != "" {
		query.Set("encrypt", params.Encrypt)
	}
	if params.TrustServerCertificate {
		query.Set("TrustServerCertificate", "true")
	}
	if params.ConnectionTimeout > 0 {
		query.Set("connection timeout", strconv.Itoa(params.ConnectionTimeout))
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		Host:     net.JoinHostPort(host, strconv.Itoa(port)),
		RawQuery: query.Encode(),
	}
	if cfg.Username != "" {
		u.User = url.UserPassword(cfg.Username, cfg.Password)
	}
	return u.String(), nil
}

// ErrorNumber extracts the SQL Server error number from a gateway error chain.
func ErrorNumber(err error) (int32, bool) {
	var sqlErr mssqldb.Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Number, true
	}
	var sqlErrPtr *mssqldb.Error
	if errors.As(err, &sqlErrPtr) && sqlErrPtr != nil {
		return sqlErrPtr.Number, true
	}
	return 0, false
}
