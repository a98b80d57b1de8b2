package schema

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/schemasync/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func studentBuilder() *EntityBuilder {
	return Entity("Student",
		Int("Id").PrimaryKey(),
		Int("Email").Unique(),
		String("Name").Nullable(),
		Int("CourseId").References("Course", "Id"),
	)
}

func TestEntity_Descriptor(t *testing.T) {
	e, err := studentBuilder().Descriptor()
	require.NoError(t, err)

	assert.Equal(t, "Student", e.Name)
	require.Len(t, e.Fields, 4)
	assert.Equal(t, []string{"Id", "Email", "Name", "CourseId"}, fieldNames(e))
	assert.True(t, e.Fields[0].PrimaryKey)
	assert.True(t, e.Fields[1].Unique)
	assert.True(t, e.Fields[2].Nullable)
	assert.Equal(t, &core.ForeignKeyRef{Table: "Course", Column: "Id"}, e.Fields[3].ForeignKey)
}

func TestEntity_DescriptorIsACopy(t *testing.T) {
	fb := Int("CourseId").References("Course", "Id")
	e, err := Entity("Student", fb).Descriptor()
	require.NoError(t, err)

	fb.References("Other", "Key")
	assert.Equal(t, "Course", e.Fields[0].ForeignKey.Table)
}

func TestEntity_Validation(t *testing.T) {
	tests := []struct {
		name    string
		builder *EntityBuilder
		wantErr error
	}{
		{
			name:    "empty entity name",
			builder: Entity(" ", Int("Id")),
			wantErr: ErrEmptyName,
		},
		{
			name:    "empty field name",
			builder: Entity("Course", Int("")),
			wantErr: ErrEmptyName,
		},
		{
			name:    "duplicate field",
			builder: Entity("Course", Int("Id"), String("Id")),
			wantErr: ErrDuplicateField,
		},
		{
			name:    "reference without column",
			builder: Entity("Student", Int("CourseId").References("Course", "")),
			wantErr: ErrInvalidReference,
		},
		{
			name: "two references to one table",
			builder: Entity("Transfer",
				Int("FromCourseId").References("Course", "Id"),
				Int("ToCourseId").References("Course", "Id"),
			),
			wantErr: ErrForeignKeyCollision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Descriptor()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEntity_UnsupportedType(t *testing.T) {
	_, err := Entity("Student", Int("Id"), Field("Gpa", core.SemanticType(99))).Descriptor()

	var typeErr *core.UnsupportedFieldTypeError
	require.True(t, errors.As(err, &typeErr))
	assert.Equal(t, "Student", typeErr.Entity)
	assert.Equal(t, "Gpa", typeErr.Field)
}

func TestBuild(t *testing.T) {
	t.Run("preserves order", func(t *testing.T) {
		entities, err := Build(Entity("Course", Int("Id").PrimaryKey()), studentBuilder())
		require.NoError(t, err)
		require.Len(t, entities, 2)
		assert.Equal(t, "Course", entities[0].Name)
		assert.Equal(t, "Student", entities[1].Name)
	})

	t.Run("rejects duplicate entity", func(t *testing.T) {
		_, err := Build(Entity("Course", Int("Id")), Entity("Course", Int("Id")))
		assert.ErrorIs(t, err, ErrDuplicateEntity)
	})
}

func TestRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register(Entity("Course", Int("Id").PrimaryKey(), String("CourseName")))
	Register(studentBuilder())

	assert.Equal(t, []string{"Course", "Student"}, RegisteredNames())

	entities, err := Registered()
	require.NoError(t, err)
	require.Len(t, entities, 2)
	assert.Equal(t, "Student", entities[1].Name)
}

func fieldNames(e core.EntityDescriptor) []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Name)
	}
	return names
}
