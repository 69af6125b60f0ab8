package ir

import (
	"context"
)

// InMemoryDiscovery is a Discovery over sources held in memory, mostly for tests
type InMemoryDiscovery struct {
	schemas   []*Source
	documents []*Source
}

// NewInMemoryDiscovery creates a new InMemoryDiscovery instance. Sources
// without a kind are taken as SDL and documents respectively.
func NewInMemoryDiscovery(schemas, documents []Source) *InMemoryDiscovery {
	d := &InMemoryDiscovery{}
	for _, s := range schemas {
		if s.Kind == "" {
			s.Kind = SourceKindSDL
		}
		d.schemas = append(d.schemas, &s)
	}
	for _, s := range documents {
		s.Kind = SourceKindDocument
		d.documents = append(d.documents, &s)
	}
	return d
}

// ListSchemaSources implements Discovery interface
func (d *InMemoryDiscovery) ListSchemaSources(ctx context.Context) ([]*Source, error) {
	return d.schemas, nil
}

// ListDocumentSources implements Discovery interface
func (d *InMemoryDiscovery) ListDocumentSources(ctx context.Context) ([]*Source, error) {
	return d.documents, nil
}
