package protoreg

import (
	"fmt"

	"github.com/hanpama/shapegen/internal/ir"
	"github.com/jhump/protoreflect/v2/protobuilder"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// declareNamespace adds a top-level message for ns that nests one message per
// shape, so shape names only need to be unique within their namespace.
func (b *builder) declareNamespace(ns *ir.Namespace) {
	mb := protobuilder.NewMessage(nameMessage(ns.Name))
	mb.SetComments(comment(ns.Source))
	b.file.AddMessage(mb)

	shapes := ns.Shapes
	if ns.Variables != nil {
		shapes = append([]*ir.Shape{ns.Variables}, shapes...)
	}
	for _, s := range shapes {
		nested := protobuilder.NewMessage(nameMessage(s.Name))
		mb.AddNestedMessage(nested)
		b.shapeBuilders[[2]string{ns.Name, s.Name}] = nested
	}
}

func (b *builder) addNamespaceFields(ns *ir.Namespace) error {
	if ns.Variables != nil {
		if err := b.addShapeFields(ns, ns.Variables); err != nil {
			return err
		}
	}
	for _, s := range ns.Shapes {
		if err := b.addShapeFields(ns, s); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) addShapeFields(ns *ir.Namespace, s *ir.Shape) error {
	mb := b.shapeBuilders[[2]string{ns.Name, s.Name}]
	var fieldBuilders []*protobuilder.FieldBuilder
	add := func(fb *protobuilder.FieldBuilder) {
		mb.AddField(fb)
		fieldBuilders = append(fieldBuilders, fb)
	}

	if s.Typename != nil {
		add(protobuilder.NewField(typenameField, protobuilder.FieldTypeScalar(protoreflect.StringKind)))
	}

	for _, f := range s.Fields {
		leaf, err := b.shapeFieldLeaf(ns, f)
		if err != nil {
			return fmt.Errorf("%s.%s.%s: %w", ns.Name, s.Name, f.Name, err)
		}
		rt := b.resolveDescriptor(f.Type, leaf)
		if f.Conditional && leaf.scalar && !rt.isRepeated {
			rt.isOptional = true
		}
		fb := b.newField(nameProtoField(f.Name), rt)
		setDocs(fb, f.Description, f.Deprecated, f.DeprecationReason)
		add(fb)
	}

	for _, frag := range s.Fragments {
		target, ok := b.shapeBuilders[[2]string{frag, "Fragment"}]
		if !ok {
			return fmt.Errorf("%s.%s: fragment %q has no message", ns.Name, s.Name, frag)
		}
		add(protobuilder.NewField(nameFragmentField(frag), protobuilder.FieldTypeMessage(target)))
	}

	if len(s.InlineFragments) > 0 {
		oneOfBuilder := protobuilder.NewOneof(oneofOn)
		mb.AddOneOf(oneOfBuilder)
		for _, inline := range s.InlineFragments {
			target := b.shapeBuilders[[2]string{ns.Name, inline}]
			fb := protobuilder.NewField(nameProtoField(inline), protobuilder.FieldTypeMessage(target))
			oneOfBuilder.AddChoice(fb)
			fieldBuilders = append(fieldBuilders, fb)
		}
	}

	if err := allocateFieldNumbers(fieldBuilders); err != nil {
		return fmt.Errorf("%s.%s: %w", ns.Name, s.Name, err)
	}
	return nil
}

func (b *builder) shapeFieldLeaf(ns *ir.Namespace, f *ir.ShapeField) (leafType, error) {
	if f.Shape == "" {
		return b.namedLeaf(f.Type.Leaf().Name)
	}
	mb, ok := b.shapeBuilders[[2]string{ns.Name, f.Shape}]
	if !ok {
		return leafType{}, fmt.Errorf("shape %q not found", f.Shape)
	}
	return leafType{name: ns.Name + f.Shape, fieldType: protobuilder.FieldTypeMessage(mb)}, nil
}
