package ir

import (
	"context"
	"sort"
	"strings"
	"time"

	eventbus "github.com/hanpama/shapegen/internal/eventbus"
	events "github.com/hanpama/shapegen/internal/events"
	"github.com/hanpama/shapegen/internal/schema"
)

type schemaBuilder struct {
	src        *schema.Schema
	cfg        Config
	entities   []*Entity
	index      map[string]*Entity
	violations []*Violation
}

// BuildSchema builds the rendering context of src. Every declared type becomes
// one entity, ordered by name, followed by the arguments entities synthesized
// for fields with arguments.
func BuildSchema(ctx context.Context, src *schema.Schema, cfg Config) (sc *SchemaContext, err error) {
	start := time.Now()
	eventbus.Publish(ctx, events.SchemaBuildStart{QueryType: src.QueryType, TypeCount: len(src.Types)})
	defer func() {
		finish := events.SchemaBuildFinish{Err: err, Duration: time.Since(start)}
		if sc != nil {
			finish.EntityCount = len(sc.Entities)
		}
		eventbus.Publish(ctx, finish)
	}()

	b := &schemaBuilder{
		src:   src,
		cfg:   cfg,
		index: make(map[string]*Entity, len(src.Types)),
	}
	b.populateEntities()
	b.populateArguments()

	if len(b.violations) > 0 {
		return nil, ValidationError(b.violations)
	}
	return &SchemaContext{
		QueryType:        src.QueryType,
		MutationType:     src.MutationType,
		SubscriptionType: src.SubscriptionType,
		Description:      src.Description,
		Entities:         b.entities,
		Uses:             src.Uses,
		Config:           cfg,
		source:           src,
		index:            b.index,
	}, nil
}

func (b *schemaBuilder) populateEntities() {
	names := make([]string, 0, len(b.src.Types))
	for name := range b.src.Types {
		if strings.HasPrefix(name, "__") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		e := b.buildEntity(b.src.Types[name])
		b.entities = append(b.entities, e)
		b.index[e.Name] = e
	}
}

func (b *schemaBuilder) addViolation(v ...*Violation) {
	b.violations = append(b.violations, v...)
}
