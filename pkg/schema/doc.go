// Package schema builds entity descriptors explicitly, without reflection.
//
// Descriptors come from three places: fluent builders in Go code, YAML model
// files, and generated code that registers builders from an init function.
//
//	student := schema.Entity("Student",
//		schema.Int("Id").PrimaryKey(),
//		schema.Int("Email").Unique(),
//		schema.String("Name").Nullable(),
//		schema.Int("CourseId").References("Course", "Id"),
//	)
package schema
