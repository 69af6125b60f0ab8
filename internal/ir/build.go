package ir

import (
	"context"
	"errors"
	"fmt"

	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/hanpama/shapegen/internal/introspection"
	language "github.com/hanpama/shapegen/internal/language"
	"github.com/hanpama/shapegen/internal/schema"
)

// Build loads the schema and documents listed by disc and transforms them.
// Documents are validated against SDL schemas before the transform; an
// introspection schema carries no AST to validate against.
func Build(ctx context.Context, disc Discovery, cfg Config) (*Project, error) {
	schemaSources, err := disc.ListSchemaSources(ctx)
	if err != nil {
		return nil, err
	}
	src, loaded, err := loadSchema(schemaSources)
	if err != nil {
		return nil, err
	}
	sc, err := BuildSchema(ctx, src, cfg)
	if err != nil {
		return nil, err
	}

	documentSources, err := disc.ListDocumentSources(ctx)
	if err != nil {
		return nil, err
	}
	if len(documentSources) == 0 {
		return &Project{Schema: sc}, nil
	}

	var violations []*Violation
	docs := make([]*Document, 0, len(documentSources))
	queries := make([]*language.QueryDocument, 0, len(documentSources))
	for _, s := range documentSources {
		doc, err := language.ParseQuery(s.Name, s.Content)
		if err != nil {
			violations = append(violations, invalidDocument(s.Name, err)...)
			continue
		}
		docs = append(docs, &Document{Name: s.Name, Query: doc})
		queries = append(queries, doc)
	}
	if len(violations) == 0 && loaded != nil {
		if err := language.ValidateQuery(loaded, queries...); err != nil {
			violations = append(violations, invalidDocument("", err)...)
		}
	}
	if len(violations) > 0 {
		return nil, ValidationError(violations)
	}

	dc, err := BuildDocuments(ctx, sc, docs)
	if err != nil {
		return nil, err
	}
	return &Project{Schema: sc, Documents: dc}, nil
}

// loadSchema builds the schema model from either SDL sources or a single
// introspection result. For SDL it also returns the validated AST schema.
func loadSchema(sources []*Source) (*schema.Schema, *language.Schema, error) {
	var sdl []*language.Source
	var introspected []*Source
	for _, s := range sources {
		switch s.Kind {
		case SourceKindSDL:
			sdl = append(sdl, &language.Source{Name: s.Name, Input: s.Content})
		case SourceKindIntrospection:
			introspected = append(introspected, s)
		default:
			return nil, nil, fmt.Errorf("source %q is not a schema source", s.Name)
		}
	}

	switch {
	case len(introspected) > 0 && len(sdl) > 0:
		return nil, nil, fmt.Errorf("introspection and SDL schema sources cannot be mixed")
	case len(introspected) > 1:
		return nil, nil, fmt.Errorf("expected a single introspection result, got %d", len(introspected))
	case len(introspected) == 1:
		s, err := introspection.Decode([]byte(introspected[0].Content))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to decode %q: %w", introspected[0].Name, err)
		}
		return s, nil, nil
	case len(sdl) == 0:
		return nil, nil, fmt.Errorf("no schema sources")
	}

	loaded, err := language.LoadSchema(sdl...)
	if err != nil {
		return nil, nil, err
	}
	return schema.BuildFromAST(loaded), loaded, nil
}

// invalidDocument converts parser and validator errors into violations.
func invalidDocument(file string, err error) []*Violation {
	var list gqlerror.List
	var single *gqlerror.Error
	switch {
	case errors.As(err, &list):
	case errors.As(err, &single):
		list = gqlerror.List{single}
	default:
		return []*Violation{violationInvalidDocument(err.Error(), nil)}
	}
	out := make([]*Violation, 0, len(list))
	for _, e := range list {
		v := violationInvalidDocument(e.Message, nil)
		v.File = file
		if f, ok := e.Extensions["file"].(string); ok {
			v.File = f
		}
		if len(e.Locations) > 0 {
			v.Line = e.Locations[0].Line
			v.Column = e.Locations[0].Column
		}
		out = append(out, v)
	}
	return out
}
