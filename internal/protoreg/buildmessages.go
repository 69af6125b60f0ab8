package protoreg

import (
	"fmt"
	"strings"

	"github.com/hanpama/shapegen/internal/ir"
	"github.com/jhump/protoreflect/v2/protobuilder"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

func (b *builder) declareEntity(e *ir.Entity) error {
	switch e.Kind {
	case ir.EntityKindScalar:
		return nil
	case ir.EntityKindEnum:
		return b.addEnum(e)
	}
	mb := protobuilder.NewMessage(nameMessage(e.Name))
	mb.SetComments(comment(e.Description))
	b.messageBuilders[e.Name] = mb
	b.file.AddMessage(mb)
	return nil
}

func (b *builder) addEnum(e *ir.Entity) error {
	eb := protobuilder.NewEnum(nameMessage(e.Name))
	eb.SetComments(comment(e.Description))

	zero := protobuilder.NewEnumValue(nameProtoEnumValue(e.Name, "UNSPECIFIED"))
	zero.SetNumber(0)
	eb.AddValue(zero)

	evbs := make([]*protobuilder.EnumValueBuilder, 0, len(e.Values))
	for _, v := range e.Values {
		if strings.ToUpper(v.Name) == "UNSPECIFIED" {
			continue
		}
		evb := protobuilder.NewEnumValue(nameProtoEnumValue(e.Name, v.Name))
		if v.Deprecated {
			evb.SetComments(deprecatedComment(v.Description, v.DeprecationReason))
			evb.SetOptions(&descriptorpb.EnumValueOptions{Deprecated: proto.Bool(true)})
		} else {
			evb.SetComments(comment(v.Description))
		}
		eb.AddValue(evb)
		evbs = append(evbs, evb)
	}
	if err := allocateEnumValueNumbers(evbs); err != nil {
		return fmt.Errorf("enum %s: %w", e.Name, err)
	}

	b.enumBuilders[e.Name] = eb
	b.file.AddEnum(eb)
	return nil
}

func (b *builder) addEntityFields(e *ir.Entity) error {
	mb, ok := b.messageBuilders[e.Name]
	if !ok {
		return nil
	}
	var fieldBuilders []*protobuilder.FieldBuilder
	switch e.Kind {
	case ir.EntityKindInterface, ir.EntityKindUnion:
		oneOfBuilder := protobuilder.NewOneof(oneofValue)
		mb.AddOneOf(oneOfBuilder)
		for _, typ := range e.PossibleTypes {
			member, ok := b.messageBuilders[typ]
			if !ok {
				return fmt.Errorf("%s: possible type %q has no message", e.Name, typ)
			}
			fb := protobuilder.NewField(nameProtoField(typ), protobuilder.FieldTypeMessage(member))
			oneOfBuilder.AddChoice(fb)
			fieldBuilders = append(fieldBuilders, fb)
		}
	default:
		for _, p := range e.Properties {
			fb, err := b.newPropertyField(p)
			if err != nil {
				return fmt.Errorf("%s.%s: %w", e.Name, p.Name, err)
			}
			mb.AddField(fb)
			fieldBuilders = append(fieldBuilders, fb)
			b.propertyFields[[2]string{e.Name, p.Name}] = fb
		}
	}
	if err := allocateFieldNumbers(fieldBuilders); err != nil {
		return fmt.Errorf("%s: %w", e.Name, err)
	}
	return nil
}

func (b *builder) newPropertyField(p *ir.Property) (*protobuilder.FieldBuilder, error) {
	leaf, err := b.namedLeaf(p.Type.Leaf().Name)
	if err != nil {
		return nil, err
	}
	fb := b.newField(nameProtoField(p.Name), b.resolveDescriptor(p.Type, leaf))
	setDocs(fb, p.Description, p.Deprecated, p.DeprecationReason)
	return fb, nil
}

func (b *builder) newField(name protoreflect.Name, rt resolvedType) *protobuilder.FieldBuilder {
	fb := protobuilder.NewField(name, rt.fieldType)
	if rt.isOptional {
		fb.SetOptional()
	}
	if rt.isRepeated {
		fb.SetRepeated()
	}
	return fb
}

func setDocs(fb *protobuilder.FieldBuilder, desc string, deprecated bool, reason string) {
	if !deprecated {
		fb.SetComments(comment(desc))
		return
	}
	fb.SetComments(deprecatedComment(desc, reason))
	fb.SetOptions(&descriptorpb.FieldOptions{Deprecated: proto.Bool(true)})
}
