package ir

import (
	"context"
)

type SourceKind string

const (
	SourceKindSDL           SourceKind = "sdl"
	SourceKindIntrospection SourceKind = "introspection"
	SourceKindDocument      SourceKind = "document"
)

type Source struct {
	Name    string
	Kind    SourceKind
	Content string
}

type Discovery interface {
	ListSchemaSources(ctx context.Context) ([]*Source, error)
	ListDocumentSources(ctx context.Context) ([]*Source, error)
}
