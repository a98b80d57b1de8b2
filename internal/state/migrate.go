package state

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

// migrationFS holds the journal schema, one goose file per version.
//
//go:embed migrations/*.sql
var migrationFS embed.FS

var errNotOpened = errors.New("database not opened")

// provider binds the embedded journal migrations to the open connection.
func (s *SQLiteStore) provider() (*goose.Provider, error) {
	if s.db == nil {
		return nil, errNotOpened
	}
	files, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		return nil, err
	}
	p, err := goose.NewProvider(goose.DialectSQLite3, s.db, files)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal migrations: %w", err)
	}
	return p, nil
}

// Migrate brings the journal schema up to the latest version. Applied
// versions are skipped, so calling it on every Open is safe.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	p, err := s.provider()
	if err != nil {
		return err
	}
	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to migrate journal: %w", err)
	}
	for _, r := range results {
		s.logger.Debug("applied journal migration", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}

// MigrationVersion returns the journal schema version.
func (s *SQLiteStore) MigrationVersion(ctx context.Context) (int64, error) {
	p, err := s.provider()
	if err != nil {
		return 0, err
	}
	return p.GetDBVersion(ctx)
}
