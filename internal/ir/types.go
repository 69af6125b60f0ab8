package ir

import (
	language "github.com/hanpama/shapegen/internal/language"
	"github.com/hanpama/shapegen/internal/schema"
)

type Project struct {
	Schema    *SchemaContext    `json:"schema"`
	Documents *DocumentsContext `json:"documents,omitempty"`
}

// SchemaContext is the rendering context for a whole schema. It is read-only
// once BuildSchema returns.
type SchemaContext struct {
	QueryType        string               `json:"queryType,omitempty"`
	MutationType     string               `json:"mutationType,omitempty"`
	SubscriptionType string               `json:"subscriptionType,omitempty"`
	Description      string               `json:"description,omitempty"`
	Entities         []*Entity            `json:"entities"`
	Uses             schema.DirectiveList `json:"uses,omitempty"`
	Config           Config               `json:"config"`

	source *schema.Schema
	index  map[string]*Entity
}

// Entity returns the top-level entity with the given name, or nil.
func (s *SchemaContext) Entity(name string) *Entity { return s.index[name] }

// Source returns the schema the context was built from.
func (s *SchemaContext) Source() *schema.Schema { return s.source }

func (s *SchemaContext) Directives() schema.DirectiveList {
	if s == nil {
		return nil
	}
	return s.Uses
}

func (s *SchemaContext) Objects() []*Entity    { return s.ofKind(EntityKindObject) }
func (s *SchemaContext) Interfaces() []*Entity { return s.ofKind(EntityKindInterface) }
func (s *SchemaContext) Unions() []*Entity     { return s.ofKind(EntityKindUnion) }
func (s *SchemaContext) Enums() []*Entity      { return s.ofKind(EntityKindEnum) }
func (s *SchemaContext) Scalars() []*Entity    { return s.ofKind(EntityKindScalar) }
func (s *SchemaContext) Inputs() []*Entity     { return s.ofKind(EntityKindInputObject) }
func (s *SchemaContext) Arguments() []*Entity  { return s.ofKind(EntityKindArguments) }

func (s *SchemaContext) ofKind(kind EntityKind) []*Entity {
	var out []*Entity
	for _, e := range s.Entities {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

type EntityKind string

const (
	EntityKindObject      EntityKind = "OBJECT"
	EntityKindInterface   EntityKind = "INTERFACE"
	EntityKindUnion       EntityKind = "UNION"
	EntityKindEnum        EntityKind = "ENUM"
	EntityKindScalar      EntityKind = "SCALAR"
	EntityKindInputObject EntityKind = "INPUT_OBJECT"
	// EntityKindArguments is an entity synthesized for the arguments of a field.
	EntityKindArguments EntityKind = "ARGUMENTS"
)

// Entity is one top-level named type of the schema context.
type Entity struct {
	Kind        EntityKind `json:"kind"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	BuiltIn     bool       `json:"builtIn,omitempty"`

	// OBJECT, INTERFACE, INPUT_OBJECT and ARGUMENTS
	Properties []*Property `json:"properties,omitempty"`
	// OBJECT and INTERFACE
	Interfaces []string `json:"interfaces,omitempty"`
	// UNION and INTERFACE
	PossibleTypes []string `json:"possibleTypes,omitempty"`

	// ENUM
	Values  []*EnumValue `json:"values,omitempty"`
	AsUnion bool         `json:"asUnion,omitempty"`

	// SCALAR; empty when the scalar has no primitive mapping
	Primitive string `json:"primitive,omitempty"`

	// ARGUMENTS: the type and field the arguments belong to
	Parent string `json:"parent,omitempty"`
	Field  string `json:"field,omitempty"`

	Uses schema.DirectiveList `json:"uses,omitempty"`
}

func (e *Entity) Directives() schema.DirectiveList {
	if e == nil {
		return nil
	}
	return e.Uses
}

// Property returns the property with the given name, or nil.
func (e *Entity) Property(name string) *Property {
	for _, p := range e.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

type EnumValue struct {
	Name              string               `json:"name"`
	Value             string               `json:"value"`
	Description       string               `json:"description,omitempty"`
	Deprecated        bool                 `json:"deprecated,omitempty"`
	DeprecationReason string               `json:"deprecationReason,omitempty"`
	Uses              schema.DirectiveList `json:"uses,omitempty"`
}

func (v *EnumValue) Directives() schema.DirectiveList {
	if v == nil {
		return nil
	}
	return v.Uses
}

// Property is a field, input field or argument of an entity with its
// rendering decisions already made.
type Property struct {
	Name              string               `json:"name"`
	Description       string               `json:"description,omitempty"`
	Type              TypeDescriptor       `json:"type"`
	Optional          bool                 `json:"optional,omitempty"`
	Readonly          bool                 `json:"readonly,omitempty"`
	ArgsType          string               `json:"argsType,omitempty"`
	DefaultValue      any                  `json:"defaultValue,omitempty"`
	Deprecated        bool                 `json:"deprecated,omitempty"`
	DeprecationReason string               `json:"deprecationReason,omitempty"`
	Uses              schema.DirectiveList `json:"uses,omitempty"`
}

func (p *Property) Directives() schema.DirectiveList {
	if p == nil {
		return nil
	}
	return p.Uses
}

// Document is one parsed operation document of a batch.
type Document struct {
	Name  string
	Query *language.QueryDocument
}

// DocumentsContext is the result of transforming one batch of documents.
type DocumentsContext struct {
	Documents []*DocumentContext `json:"documents"`

	fragments map[string]*Namespace
}

// Fragment returns the resolved namespace of the named fragment, or nil.
func (d *DocumentsContext) Fragment(name string) *Namespace { return d.fragments[name] }

// Namespaces returns every namespace of the batch in document order.
func (d *DocumentsContext) Namespaces() []*Namespace {
	var out []*Namespace
	for _, doc := range d.Documents {
		out = append(out, doc.Fragments...)
		out = append(out, doc.Operations...)
	}
	return out
}

type DocumentContext struct {
	Name       string       `json:"name"`
	Operations []*Namespace `json:"operations"`
	Fragments  []*Namespace `json:"fragments"`
}

type NamespaceKind string

const (
	NamespaceKindOperation NamespaceKind = "operation"
	NamespaceKindFragment  NamespaceKind = "fragment"
)

// Namespace groups the shapes produced for one operation or fragment.
type Namespace struct {
	Name          string        `json:"name"`
	Kind          NamespaceKind `json:"kind"`
	OperationType string        `json:"operationType,omitempty"`
	OnType        string        `json:"onType"`
	Source        string        `json:"source,omitempty"`
	// Variables is nil for fragments and an empty shape for operations
	// without variables.
	Variables *Shape   `json:"variables,omitempty"`
	Root      *Shape   `json:"root"`
	Shapes    []*Shape `json:"shapes"`
	// Fragments lists every fragment spread anywhere in the namespace.
	Fragments []string             `json:"fragments,omitempty"`
	Uses      schema.DirectiveList `json:"uses,omitempty"`
}

func (n *Namespace) Directives() schema.DirectiveList {
	if n == nil {
		return nil
	}
	return n.Uses
}

// Shape returns the shape of the namespace with the given name, or nil.
func (n *Namespace) Shape(name string) *Shape {
	if n.Variables != nil && n.Variables.Name == name {
		return n.Variables
	}
	for _, s := range n.Shapes {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Shape is a named object shape inside a namespace.
type Shape struct {
	Name     string        `json:"name"`
	OnType   string        `json:"onType,omitempty"`
	Typename *Typename     `json:"typename,omitempty"`
	Fields   []*ShapeField `json:"fields"`
	// Fragments are intersected with the shape by reference.
	Fragments []string `json:"fragments,omitempty"`
	// InlineFragments are sibling shapes the shape is a union of.
	InlineFragments []string             `json:"inlineFragments,omitempty"`
	Uses            schema.DirectiveList `json:"uses,omitempty"`
}

func (s *Shape) Directives() schema.DirectiveList {
	if s == nil {
		return nil
	}
	return s.Uses
}

// Field returns the field with the given response key, or nil.
func (s *Shape) Field(name string) *ShapeField {
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Typename describes the __typename discriminator of a shape: either a union
// of literal type names, or the union of the __typename of sibling shapes.
type Typename struct {
	Literals []string `json:"literals,omitempty"`
	Shapes   []string `json:"shapes,omitempty"`
}

type ShapeField struct {
	// Name is the response key, the alias when one is given.
	Name        string         `json:"name"`
	FieldName   string         `json:"fieldName"`
	Description string         `json:"description,omitempty"`
	Type        TypeDescriptor `json:"type"`
	// Shape names the nested shape for fields with a selection set.
	Shape             string               `json:"shape,omitempty"`
	Inline            bool                 `json:"inline,omitempty"`
	Optional          bool                 `json:"optional,omitempty"`
	Readonly          bool                 `json:"readonly,omitempty"`
	Conditional       bool                 `json:"conditional,omitempty"`
	Deprecated        bool                 `json:"deprecated,omitempty"`
	DeprecationReason string               `json:"deprecationReason,omitempty"`
	Uses              schema.DirectiveList `json:"uses,omitempty"`
}

func (f *ShapeField) Directives() schema.DirectiveList {
	if f == nil {
		return nil
	}
	return f.Uses
}
