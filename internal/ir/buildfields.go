package ir

import "github.com/hanpama/shapegen/internal/schema"

func (b *schemaBuilder) buildFieldProperties(t *schema.Type) []*Property {
	props := make([]*Property, 0, len(t.Fields))
	for _, f := range t.Fields {
		p := b.newProperty(f.Name, f.Type)
		p.Description = f.Description
		p.Deprecated = f.IsDeprecated
		p.DeprecationReason = f.DeprecationReason
		p.Uses = f.Uses
		if len(f.Arguments) > 0 {
			p.ArgsType = argumentsTypeName(t.Name, f.Name)
		}
		props = append(props, p)
	}
	return props
}

func (b *schemaBuilder) buildInputProperty(in *schema.InputValue) *Property {
	p := b.newProperty(in.Name, in.Type)
	p.Description = in.Description
	p.DefaultValue = in.DefaultValue
	p.Deprecated = in.IsDeprecated
	p.DeprecationReason = in.DeprecationReason
	p.Uses = in.Uses
	return p
}

func (b *schemaBuilder) newProperty(name string, ref *schema.TypeRef) *Property {
	desc := ResolveType(ref)
	return &Property{
		Name:     name,
		Type:     desc,
		Optional: desc.Nullable && !b.cfg.AvoidOptionals,
		Readonly: b.cfg.ImmutableTypes,
	}
}
