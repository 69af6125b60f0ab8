package ir

import "github.com/hanpama/shapegen/internal/schema"

func (b *schemaBuilder) buildEntity(t *schema.Type) *Entity {
	e := &Entity{
		Name:        t.Name,
		Description: t.Description,
		BuiltIn:     t.BuiltIn,
		Uses:        t.Uses,
	}
	switch t.Kind {
	case schema.TypeKindObject:
		e.Kind = EntityKindObject
		e.Properties = b.buildFieldProperties(t)
		e.Interfaces = append(e.Interfaces, t.Interfaces...)
	case schema.TypeKindInterface:
		e.Kind = EntityKindInterface
		e.Properties = b.buildFieldProperties(t)
		e.Interfaces = append(e.Interfaces, t.Interfaces...)
		e.PossibleTypes = append(e.PossibleTypes, t.PossibleTypes...)
	case schema.TypeKindUnion:
		e.Kind = EntityKindUnion
		e.PossibleTypes = append(e.PossibleTypes, t.PossibleTypes...)
	case schema.TypeKindEnum:
		e.Kind = EntityKindEnum
		e.AsUnion = b.cfg.EnumsAsTypes
		for _, v := range t.EnumValues {
			e.Values = append(e.Values, &EnumValue{
				Name:              v.Name,
				Value:             v.Name,
				Description:       v.Description,
				Deprecated:        v.IsDeprecated,
				DeprecationReason: v.DeprecationReason,
				Uses:              v.Uses,
			})
		}
	case schema.TypeKindScalar:
		e.Kind = EntityKindScalar
		e.Primitive = b.cfg.primitive(t.Name)
	case schema.TypeKindInputObject:
		e.Kind = EntityKindInputObject
		for _, in := range t.InputFields {
			e.Properties = append(e.Properties, b.buildInputProperty(in))
		}
	default:
		panic("unreachable")
	}
	return e
}
