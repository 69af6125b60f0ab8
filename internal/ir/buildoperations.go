package ir

import (
	"context"
	"time"

	eventbus "github.com/hanpama/shapegen/internal/eventbus"
	events "github.com/hanpama/shapegen/internal/events"
	language "github.com/hanpama/shapegen/internal/language"
	"github.com/hanpama/shapegen/internal/schema"
)

// documentsBuilder holds the state of one batch transform. Nothing in it
// outlives the BuildDocuments call.
type documentsBuilder struct {
	sc  *SchemaContext
	src *schema.Schema
	cfg Config

	anonymous    int
	fragmentDefs map[string]*language.FragmentDefinition
	fragments    map[string]*Namespace
	resolving    map[string]bool
	namespaces   map[string]bool
	violations   []*Violation
}

// BuildDocuments transforms a batch of documents against sc. Each operation
// and each fragment yields one namespace. The batch fails as a whole: on any
// violation no context is returned.
func BuildDocuments(ctx context.Context, sc *SchemaContext, docs []*Document) (dc *DocumentsContext, err error) {
	names := make([]string, len(docs))
	for i, doc := range docs {
		names[i] = doc.Name
	}
	start := time.Now()
	eventbus.Publish(ctx, events.DocumentsBuildStart{Documents: names})
	defer func() {
		finish := events.DocumentsBuildFinish{Documents: names, Err: err, Duration: time.Since(start)}
		if dc != nil {
			finish.NamespaceCount = len(dc.fragments)
			for _, d := range dc.Documents {
				finish.NamespaceCount += len(d.Operations)
			}
		}
		eventbus.Publish(ctx, finish)
	}()

	b := &documentsBuilder{
		sc:           sc,
		src:          sc.source,
		cfg:          sc.Config,
		fragmentDefs: make(map[string]*language.FragmentDefinition),
		fragments:    make(map[string]*Namespace),
		resolving:    make(map[string]bool),
		namespaces:   make(map[string]bool),
	}
	b.collectFragments(docs)

	out := &DocumentsContext{fragments: b.fragments}
	for _, doc := range docs {
		dctx := &DocumentContext{Name: doc.Name}
		for _, frag := range doc.Query.Fragments {
			if b.fragmentDefs[frag.Name] != frag {
				continue // duplicate, already reported
			}
			if ns := b.resolveFragment(frag.Name, frag.Position); ns != nil {
				dctx.Fragments = append(dctx.Fragments, ns)
			}
		}
		for _, op := range doc.Query.Operations {
			if ns := b.buildOperation(op); ns != nil {
				dctx.Operations = append(dctx.Operations, ns)
			}
		}
		out.Documents = append(out.Documents, dctx)
	}

	if len(b.violations) > 0 {
		return nil, ValidationError(b.violations)
	}
	return out, nil
}

func (b *documentsBuilder) collectFragments(docs []*Document) {
	for _, doc := range docs {
		for _, frag := range doc.Query.Fragments {
			if _, ok := b.fragmentDefs[frag.Name]; ok {
				b.addViolation(violationDuplicateFragment(frag.Name, frag.Position))
				continue
			}
			b.fragmentDefs[frag.Name] = frag
			b.claimNamespace(frag.Name, frag.Position)
		}
	}
}

// claimNamespace reserves a namespace name for the batch. It reports false
// when the name is taken or shadows a schema entity.
func (b *documentsBuilder) claimNamespace(name string, pos *language.Position) bool {
	if b.namespaces[name] {
		b.addViolation(violationDuplicateNamespace(name, pos))
		return false
	}
	if b.sc.Entity(name) != nil {
		b.addViolation(violationNamespaceShadowsEntity(name, pos))
		return false
	}
	b.namespaces[name] = true
	return true
}

func (b *documentsBuilder) buildOperation(op *language.OperationDefinition) *Namespace {
	name := op.Name
	if name == "" {
		b.anonymous++
		name = anonymousOperationName(b.anonymous)
	}
	if !b.claimNamespace(name, op.Position) {
		return nil
	}

	var rootName string
	switch op.Operation {
	case language.Query:
		rootName = b.src.QueryType
	case language.Mutation:
		rootName = b.src.MutationType
	case language.Subscription:
		rootName = b.src.SubscriptionType
	}
	root := b.src.Types[rootName]
	if rootName == "" || root == nil {
		b.addViolation(violationRootTypeNotDefined(string(op.Operation), op.Position))
		return nil
	}

	ns := &Namespace{
		Name:          name,
		Kind:          NamespaceKindOperation,
		OperationType: string(op.Operation),
		OnType:        root.Name,
		Source:        language.FormatOperation(op),
		Uses:          schema.DirectiveUsesFromAST(op.Directives),
	}
	ns.Variables = b.buildVariables(op.VariableDefinitions)

	w := &selectionWalker{b: b, ns: ns, names: b.shapeNames("Variables", root.Name)}
	ns.Root = w.buildShape(root.Name, root, op.SelectionSet)
	return ns
}

// shapeNames returns the name table of a new namespace. Enums, scalars and
// inputs are referenced by bare name from inside a namespace, so their names
// are never handed out to shapes.
func (b *documentsBuilder) shapeNames(reserved ...string) *nameTable {
	t := newNameTable(reserved...)
	for _, e := range b.sc.Entities {
		switch e.Kind {
		case EntityKindEnum, EntityKindScalar, EntityKindInputObject:
			t.used[e.Name] = true
		}
	}
	return t
}

func (b *documentsBuilder) buildVariables(defs language.VariableDefinitionList) *Shape {
	shape := &Shape{Name: "Variables", Fields: []*ShapeField{}}
	for _, def := range defs {
		desc := ResolveType(schema.TypeRefFromAST(def.Type))
		shape.Fields = append(shape.Fields, &ShapeField{
			Name:      def.Variable,
			FieldName: def.Variable,
			Type:      desc,
			Optional:  desc.Nullable && !b.cfg.AvoidOptionals,
			Readonly:  b.cfg.ImmutableTypes,
			Uses:      schema.DirectiveUsesFromAST(def.Directives),
		})
	}
	return shape
}

func (b *documentsBuilder) addViolation(v ...*Violation) {
	b.violations = append(b.violations, v...)
}
