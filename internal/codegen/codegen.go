// Package codegen renders entity descriptors as Go source that registers them
// with pkg/schema at init time, so a binary can carry its model without a model file.
package codegen

import (
	"fmt"
	"go/token"
	"io"

	"github.com/dave/jennifer/jen"

	"github.com/leapstack-labs/schemasync/pkg/core"
)

const schemaPkg = "github.com/leapstack-labs/schemasync/pkg/schema"

// Header is the first line of every generated file.
const Header = "Code generated by schemasync gen. DO NOT EDIT."

var constructors = map[core.SemanticType]string{
	core.TypeInt:      "Int",
	core.TypeString:   "String",
	core.TypeDateTime: "DateTime",
	core.TypeBool:     "Bool",
}

// Generate writes a Go file in package pkg whose init function registers every entity.
func Generate(w io.Writer, pkg string, entities []core.EntityDescriptor) error {
	f, err := File(pkg, entities)
	if err != nil {
		return err
	}
	if err := f.Render(w); err != nil {
		return fmt.Errorf("failed to render generated code: %w", err)
	}
	return nil
}

// File builds the generated file without rendering it.
func File(pkg string, entities []core.EntityDescriptor) (*jen.File, error) {
	if !token.IsIdentifier(pkg) {
		return nil, fmt.Errorf("invalid package name %q", pkg)
	}
	if len(entities) == 0 {
		return nil, fmt.Errorf("no entities to generate")
	}

	f := jen.NewFile(pkg)
	f.HeaderComment(Header)
	f.ImportName(schemaPkg, "schema")

	registrations := make([]jen.Code, 0, len(entities))
	for _, e := range entities {
		stmt, err := entity(e)
		if err != nil {
			return nil, err
		}
		registrations = append(registrations, jen.Qual(schemaPkg, "Register").Call(stmt))
	}

	f.Func().Id("init").Params().Block(registrations...)
	return f, nil
}

func entity(e core.EntityDescriptor) (*jen.Statement, error) {
	args := make([]jen.Code, 0, len(e.Fields)+1)
	args = append(args, jen.Lit(e.Name))
	for _, fd := range e.Fields {
		expr, err := field(e.Name, fd)
		if err != nil {
			return nil, err
		}
		args = append(args, expr)
	}
	return jen.Qual(schemaPkg, "Entity").Custom(jen.Options{
		Open:      "(",
		Close:     ")",
		Separator: ",",
		Multi:     true,
	}, args...), nil
}

func field(entity string, fd core.FieldDescriptor) (*jen.Statement, error) {
	ctor, ok := constructors[fd.Type]
	if !ok {
		return nil, &core.UnsupportedFieldTypeError{Entity: entity, Field: fd.Name, Type: fd.Type}
	}

	s := jen.Qual(schemaPkg, ctor).Call(jen.Lit(fd.Name))
	if fd.PrimaryKey {
		s = s.Dot("PrimaryKey").Call()
	}
	if fd.Unique {
		s = s.Dot("Unique").Call()
	}
	if fd.Nullable {
		s = s.Dot("Nullable").Call()
	}
	if fd.ForeignKey != nil {
		s = s.Dot("References").Call(jen.Lit(fd.ForeignKey.Table), jen.Lit(fd.ForeignKey.Column))
	}
	if fd.Check != "" {
		s = s.Dot("Check").Call(jen.Lit(fd.Check))
	}
	return s, nil
}
