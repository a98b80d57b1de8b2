package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/schemasync/internal/engine"
	"github.com/leapstack-labs/schemasync/pkg/core"
	"github.com/leapstack-labs/schemasync/pkg/schema"
)

func studentEntity(t *testing.T) core.EntityDescriptor {
	t.Helper()
	e, err := schema.Entity("Student",
		schema.Int("Id").PrimaryKey(),
		schema.String("Name").Nullable(),
		schema.DateTime("EnrolledAt").Nullable(),
		schema.Bool("Active"),
	).Descriptor()
	require.NoError(t, err)
	return e
}

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name    string
		sets    []string
		want    engine.Record
		wantErr string
	}{
		{
			name: "typed values",
			sets: []string{"Id=7", "Name=Ada Lovelace", "EnrolledAt=2024-09-01T09:00:00Z", "Active=true"},
			want: engine.Record{
				"Id":         7,
				"Name":       "Ada Lovelace",
				"EnrolledAt": time.Date(2024, 9, 1, 9, 0, 0, 0, time.UTC),
				"Active":     true,
			},
		},
		{
			name: "null and empty string",
			sets: []string{"Name=null", "Id=1", "Active=false"},
			want: engine.Record{"Name": nil, "Id": 1, "Active": false},
		},
		{
			name: "value containing equals",
			sets: []string{"Name=a=b"},
			want: engine.Record{"Name": "a=b"},
		},
		{
			name: "unknown field kept as text",
			sets: []string{"Title=x"},
			want: engine.Record{"Title": "x"},
		},
		{
			name: "last value wins",
			sets: []string{"Id=1", "Id=2"},
			want: engine.Record{"Id": 2},
		},
		{
			name:    "missing equals",
			sets:    []string{"Id"},
			wantErr: "expected field=value",
		},
		{
			name:    "empty name",
			sets:    []string{"=1"},
			wantErr: "expected field=value",
		},
		{
			name:    "bad int",
			sets:    []string{"Id=seven"},
			wantErr: "invalid value for Student.Id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRecord(studentEntity(t), tt.sets)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindEntity(t *testing.T) {
	entities := []core.EntityDescriptor{{Name: "Course"}, {Name: "Student"}}

	e, err := findEntity(entities, "Student")
	require.NoError(t, err)
	assert.Equal(t, "Student", e.Name)

	_, err = findEntity(entities, "Instructor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown entity "Instructor" (available: Course, Student)`)
}
