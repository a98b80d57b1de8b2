package ddl

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/schemasync/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	course = core.EntityDescriptor{
		Name: "Course",
		Fields: []core.FieldDescriptor{
			{Name: "Id", Type: core.TypeInt, PrimaryKey: true},
			{Name: "CourseName", Type: core.TypeString},
		},
	}
	student = core.EntityDescriptor{
		Name: "Student",
		Fields: []core.FieldDescriptor{
			{Name: "Id", Type: core.TypeInt, PrimaryKey: true},
			{Name: "Email", Type: core.TypeInt, Unique: true},
			{Name: "Name", Type: core.TypeString, Nullable: true},
			{Name: "CourseId", Type: core.TypeInt, ForeignKey: &core.ForeignKeyRef{Table: "Course", Column: "Id"}},
		},
	}
)

func TestMapType(t *testing.T) {
	tests := []struct {
		typ         core.SemanticType
		constrained bool
		want        string
	}{
		{core.TypeInt, false, "INT"},
		{core.TypeInt, true, "INT"},
		{core.TypeString, true, "NVARCHAR(255)"},
		{core.TypeString, false, "NVARCHAR(MAX)"},
		{core.TypeDateTime, false, "DATETIME"},
		{core.TypeBool, true, "BIT"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := MapType(tt.typ, tt.constrained)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := MapType(tt.typ, tt.constrained)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestMapType_Unsupported(t *testing.T) {
	for _, typ := range []core.SemanticType{core.TypeInvalid, core.SemanticType(17)} {
		_, err := MapType(typ, false)
		var typeErr *core.UnsupportedFieldTypeError
		assert.True(t, errors.As(err, &typeErr))
	}
}

func TestCreateTable(t *testing.T) {
	got, err := CreateTable(student)
	require.NoError(t, err)
	assert.Equal(t,
		"CREATE TABLE Student (Id INT PRIMARY KEY NOT NULL, Email INT UNIQUE NOT NULL, Name NVARCHAR(MAX), CourseId INT NOT NULL);",
		got)

	got, err = CreateTable(course)
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE Course (Id INT PRIMARY KEY NOT NULL, CourseName NVARCHAR(MAX) NOT NULL);", got)
}

func TestCreateTable_UnsupportedField(t *testing.T) {
	bad := core.EntityDescriptor{Name: "Student", Fields: []core.FieldDescriptor{{Name: "Gpa"}}}
	_, err := CreateTable(bad)

	var typeErr *core.UnsupportedFieldTypeError
	require.True(t, errors.As(err, &typeErr))
	assert.Equal(t, "Student", typeErr.Entity)
	assert.Equal(t, "Gpa", typeErr.Field)
}

func TestForeignKeys(t *testing.T) {
	assert.Empty(t, ForeignKeys(course))
	assert.Equal(t,
		[]string{"ALTER TABLE Student ADD CONSTRAINT FK_Student_Course FOREIGN KEY (CourseId) REFERENCES Course(Id)"},
		ForeignKeys(student))
}

func TestConstraintNames(t *testing.T) {
	assert.Equal(t, "FK_Student_Course", ForeignKeyName("Student", "Course"))
	assert.Equal(t, "UQ_Student_Email", UniqueName("Student", "Email"))
	assert.Equal(t, "CK_Student_Age", CheckName("Student", "Age"))
}

func TestColumnStatements(t *testing.T) {
	name := core.FieldDescriptor{Name: "Name", Type: core.TypeString, Nullable: true}
	email := core.FieldDescriptor{Name: "Email", Type: core.TypeString, Unique: true}

	tests := []struct {
		name string
		fn   func() (string, error)
		want string
	}{
		{"add nullable", func() (string, error) { return AddColumn("Student", name) }, "ALTER TABLE Student ADD Name NVARCHAR(MAX) NULL"},
		{"add unique", func() (string, error) { return AddColumn("Student", email) }, "ALTER TABLE Student ADD Email NVARCHAR(255) NOT NULL"},
		{"alter nullable", func() (string, error) { return AlterColumn("Student", name) }, "ALTER TABLE Student ALTER COLUMN Name NVARCHAR(MAX) NULL"},
		{"alter unique", func() (string, error) { return AlterColumn("Student", email) }, "ALTER TABLE Student ALTER COLUMN Email NVARCHAR(255) NOT NULL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConstraintStatements(t *testing.T) {
	assert.Equal(t, "ALTER TABLE Student DROP CONSTRAINT PK__Student__3214EC07", DropConstraint("Student", "PK__Student__3214EC07"))
	assert.Equal(t, "ALTER TABLE Student ADD CONSTRAINT PK_Student PRIMARY KEY (Id)", PrimaryKeyConstraint("Student", "PK_Student", "Id"))
	assert.Equal(t, "ALTER TABLE Student ADD CONSTRAINT UQ_Student_Email UNIQUE (Email)", UniqueConstraint("Student", "Email"))
	assert.Equal(t, "ALTER TABLE Student ADD CONSTRAINT CK_Student_Age CHECK (Age >= 0)", CheckConstraint("Student", "Age", "Age >= 0"))
	assert.Equal(t,
		"ALTER TABLE Enrollment ADD CONSTRAINT FK_Enrollment_Student FOREIGN KEY (StudentId) REFERENCES Student(Id)",
		RestoreForeignKey("Enrollment", "FK_Enrollment_Student", []string{"StudentId"}, "Student", []string{"Id"}))
}

func TestInsert(t *testing.T) {
	sql, params := Insert(student)
	assert.Equal(t, "INSERT INTO Student (Id, Email, Name, CourseId) VALUES (@Id, @Email, @Name, @CourseId)", sql)
	assert.Equal(t, []string{"Id", "Email", "Name", "CourseId"}, params)
}
