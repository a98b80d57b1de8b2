package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/schemasync/internal/testutil"
	"github.com/leapstack-labs/schemasync/pkg/core"
	"github.com/leapstack-labs/schemasync/pkg/schema"
)

func courseEntity() *schema.EntityBuilder {
	return schema.Entity("Course",
		schema.Int("Id").PrimaryKey(),
		schema.String("CourseName"),
	)
}

func studentEntity() *schema.EntityBuilder {
	return schema.Entity("Student",
		schema.Int("Id").PrimaryKey(),
		schema.Int("Email").Unique(),
		schema.String("Name").Nullable(),
		schema.Int("CourseId").References("Course", "Id"),
	)
}

func build(t *testing.T, builders ...*schema.EntityBuilder) []core.EntityDescriptor {
	t.Helper()
	entities, err := schema.Build(builders...)
	require.NoError(t, err)
	return entities
}

func university(t *testing.T) []core.EntityDescriptor {
	t.Helper()
	return build(t, courseEntity(), studentEntity())
}

type engineOption func(*Config)

func dryRun() engineOption { return func(c *Config) { c.DryRun = true } }

func ordered() engineOption { return func(c *Config) { c.OrderByDependency = true } }

func withJournal(j core.Journal) engineOption { return func(c *Config) { c.Journal = j } }

func newTestEngine(t *testing.T, db *memDB, opts ...engineOption) *Engine {
	t.Helper()
	cfg := Config{
		Connector: db.connector(),
		Logger:    testutil.NewTestLogger(t),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	e, err := New(cfg)
	require.NoError(t, err)
	return e
}
