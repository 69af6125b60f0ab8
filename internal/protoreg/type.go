package protoreg

import (
	"fmt"

	"github.com/hanpama/shapegen/internal/ir"
	"github.com/iancoleman/strcase"
	"github.com/jhump/protoreflect/v2/protobuilder"
	"google.golang.org/protobuf/reflect/protoreflect"
)

type resolvedType struct {
	isRepeated bool
	isOptional bool
	fieldType  *protobuilder.FieldType
}

// leafType is the proto type of the named type at the bottom of a
// descriptor together with the name used for list wrappers around it.
type leafType struct {
	name      string
	fieldType *protobuilder.FieldType
	scalar    bool
}

// resolveDescriptor maps a type descriptor to a field. Nullable singular
// scalars and enums become proto3 optional fields; messages carry presence on
// their own. Lists lose their nullability, and every list dimension below
// the outermost one is wrapped in a ListOf message.
func (b *builder) resolveDescriptor(d ir.TypeDescriptor, leaf leafType) resolvedType {
	if d.List == nil {
		return resolvedType{isOptional: d.Nullable && leaf.scalar, fieldType: leaf.fieldType}
	}
	item := *d.List.Item
	if item.List == nil {
		return resolvedType{isRepeated: true, fieldType: leaf.fieldType}
	}
	return resolvedType{isRepeated: true, fieldType: protobuilder.FieldTypeMessage(b.listWrapper(item, leaf))}
}

// listWrapper returns the message holding the items of the list d, creating
// it on first use.
func (b *builder) listWrapper(d ir.TypeDescriptor, leaf leafType) *protobuilder.MessageBuilder {
	name := nameListWrapper(wrapperElemName(d.List.Item, leaf.name))
	if mb, ok := b.listWrappers[name]; ok {
		return mb
	}
	mb := protobuilder.NewMessage(name)
	rt := b.resolveDescriptor(d, leaf)
	fb := protobuilder.NewField(listItems, rt.fieldType)
	fb.SetRepeated()
	fb.SetNumber(1)
	mb.AddField(fb)
	b.listWrappers[name] = mb
	b.file.AddMessage(mb)
	return mb
}

func wrapperElemName(item *ir.TypeDescriptor, leaf string) string {
	if item.List == nil {
		return leaf
	}
	return string(nameListWrapper(wrapperElemName(item.List.Item, leaf)))
}

// namedLeaf resolves a schema type name to its scalar kind, enum or message.
func (b *builder) namedLeaf(typeName string) (leafType, error) {
	if eb, ok := b.enumBuilders[typeName]; ok {
		return leafType{name: typeName, fieldType: protobuilder.FieldTypeEnum(eb), scalar: true}, nil
	}
	if mb, ok := b.messageBuilders[typeName]; ok {
		return leafType{name: typeName, fieldType: protobuilder.FieldTypeMessage(mb)}, nil
	}
	e := b.schema.Entity(typeName)
	if e == nil || e.Kind != ir.EntityKindScalar {
		return leafType{}, fmt.Errorf("type %q has no proto mapping", typeName)
	}
	kind, err := b.scalarKind(typeName)
	if err != nil {
		return leafType{}, err
	}
	return leafType{name: strcase.ToCamel(kind.String()), fieldType: protobuilder.FieldTypeScalar(kind), scalar: true}, nil
}

// scalarKind maps a scalar through Options.Scalars, then DefaultScalars.
// Unmapped custom scalars are strings.
func (b *builder) scalarKind(scalar string) (protoreflect.Kind, error) {
	name, ok := b.opts.Scalars[scalar]
	if !ok {
		name, ok = DefaultScalars[scalar]
	}
	if !ok {
		return protoreflect.StringKind, nil
	}
	kind, ok := scalars[name]
	if !ok {
		return 0, fmt.Errorf("scalar %q maps to unknown proto type %q", scalar, name)
	}
	return kind, nil
}

// DefaultScalars maps the built-in scalars to proto scalar type names.
var DefaultScalars = map[string]string{
	"String":  "string",
	"ID":      "string",
	"Int":     "int32",
	"Float":   "double",
	"Boolean": "bool",
}

var scalars = map[string]protoreflect.Kind{
	protoreflect.BoolKind.String():     protoreflect.BoolKind,
	protoreflect.Int32Kind.String():    protoreflect.Int32Kind,
	protoreflect.Sint32Kind.String():   protoreflect.Sint32Kind,
	protoreflect.Uint32Kind.String():   protoreflect.Uint32Kind,
	protoreflect.Int64Kind.String():    protoreflect.Int64Kind,
	protoreflect.Sint64Kind.String():   protoreflect.Sint64Kind,
	protoreflect.Uint64Kind.String():   protoreflect.Uint64Kind,
	protoreflect.Sfixed32Kind.String(): protoreflect.Sfixed32Kind,
	protoreflect.Fixed32Kind.String():  protoreflect.Fixed32Kind,
	protoreflect.FloatKind.String():    protoreflect.FloatKind,
	protoreflect.Sfixed64Kind.String(): protoreflect.Sfixed64Kind,
	protoreflect.Fixed64Kind.String():  protoreflect.Fixed64Kind,
	protoreflect.DoubleKind.String():   protoreflect.DoubleKind,
	protoreflect.StringKind.String():   protoreflect.StringKind,
	protoreflect.BytesKind.String():    protoreflect.BytesKind,
}
