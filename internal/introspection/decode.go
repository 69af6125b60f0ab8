package introspection

import (
	"encoding/json"
	"fmt"
	"strings"

	schema "github.com/hanpama/shapegen/internal/schema"
)

// Result is the JSON result of the standard introspection query. Both the
// full response ({"data": {"__schema": ...}}) and the bare data object
// ({"__schema": ...}) are accepted.
type Result struct {
	Data *struct {
		Schema *Schema `json:"__schema"`
	} `json:"data,omitempty"`
	Schema *Schema `json:"__schema,omitempty"`
}

type Schema struct {
	Description      *string     `json:"description"`
	QueryType        *NamedRef   `json:"queryType"`
	MutationType     *NamedRef   `json:"mutationType"`
	SubscriptionType *NamedRef   `json:"subscriptionType"`
	Types            []FullType  `json:"types"`
	Directives       []Directive `json:"directives"`
}

type NamedRef struct {
	Name string `json:"name"`
}

type FullType struct {
	Kind          string       `json:"kind"`
	Name          string       `json:"name"`
	Description   *string      `json:"description"`
	Fields        []Field      `json:"fields"`
	InputFields   []InputValue `json:"inputFields"`
	Interfaces    []TypeRef    `json:"interfaces"`
	EnumValues    []EnumValue  `json:"enumValues"`
	PossibleTypes []TypeRef    `json:"possibleTypes"`
}

type Field struct {
	Name              string       `json:"name"`
	Description       *string      `json:"description"`
	Args              []InputValue `json:"args"`
	Type              TypeRef      `json:"type"`
	IsDeprecated      bool         `json:"isDeprecated"`
	DeprecationReason *string      `json:"deprecationReason"`
}

type InputValue struct {
	Name              string  `json:"name"`
	Description       *string `json:"description"`
	Type              TypeRef `json:"type"`
	DefaultValue      *string `json:"defaultValue"`
	IsDeprecated      bool    `json:"isDeprecated"`
	DeprecationReason *string `json:"deprecationReason"`
}

type TypeRef struct {
	Kind   string   `json:"kind"`
	Name   *string  `json:"name"`
	OfType *TypeRef `json:"ofType"`
}

type EnumValue struct {
	Name              string  `json:"name"`
	Description       *string `json:"description"`
	IsDeprecated      bool    `json:"isDeprecated"`
	DeprecationReason *string `json:"deprecationReason"`
}

type Directive struct {
	Name         string       `json:"name"`
	Description  *string      `json:"description"`
	Locations    []string     `json:"locations"`
	Args         []InputValue `json:"args"`
	IsRepeatable bool         `json:"isRepeatable"`
}

var builtInScalars = map[string]bool{"String": true, "Int": true, "Float": true, "Boolean": true, "ID": true}

var builtInDirectives = map[string]bool{"include": true, "skip": true, "deprecated": true, "specifiedBy": true, "oneOf": true}

// Decode reads an introspection result into the structural schema model.
// Introspection does not carry applied directives, so only deprecations are
// reconstructed as @deprecated uses.
func Decode(data []byte) (*schema.Schema, error) {
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode introspection result: %w", err)
	}
	in := res.Schema
	if res.Data != nil && res.Data.Schema != nil {
		in = res.Data.Schema
	}
	if in == nil {
		return nil, fmt.Errorf("decode introspection result: missing __schema")
	}
	return convertSchema(in)
}

func convertSchema(in *Schema) (*schema.Schema, error) {
	s := &schema.Schema{
		Types:       make(map[string]*schema.Type, len(in.Types)),
		Directives:  make(map[string]*schema.Directive, len(in.Directives)),
		Description: str(in.Description),
	}
	if in.QueryType != nil {
		s.QueryType = in.QueryType.Name
	}
	if in.MutationType != nil {
		s.MutationType = in.MutationType.Name
	}
	if in.SubscriptionType != nil {
		s.SubscriptionType = in.SubscriptionType.Name
	}

	for i := range in.Types {
		ft := &in.Types[i]
		if strings.HasPrefix(ft.Name, "__") {
			continue
		}
		if _, dup := s.Types[ft.Name]; dup {
			return nil, fmt.Errorf("decode introspection result: duplicate type %q", ft.Name)
		}
		t, err := convertType(ft)
		if err != nil {
			return nil, err
		}
		s.Types[t.Name] = t
	}
	for i := range in.Directives {
		d := &in.Directives[i]
		out := &schema.Directive{
			Name:         d.Name,
			Description:  str(d.Description),
			Locations:    append([]string(nil), d.Locations...),
			IsRepeatable: d.IsRepeatable,
			BuiltIn:      builtInDirectives[d.Name],
		}
		for j := range d.Args {
			arg, err := convertInputValue(&d.Args[j])
			if err != nil {
				return nil, err
			}
			out.Arguments = append(out.Arguments, arg)
		}
		s.Directives[d.Name] = out
	}
	return s, nil
}

func convertType(ft *FullType) (*schema.Type, error) {
	t := &schema.Type{
		Name:        ft.Name,
		Kind:        schema.TypeKind(ft.Kind),
		Description: str(ft.Description),
	}
	switch t.Kind {
	case schema.TypeKindScalar:
		t.BuiltIn = builtInScalars[t.Name]
	case schema.TypeKindObject, schema.TypeKindInterface:
		for i := range ft.Fields {
			f := &ft.Fields[i]
			if strings.HasPrefix(f.Name, "__") {
				continue
			}
			ref, err := convertTypeRef(&f.Type)
			if err != nil {
				return nil, fmt.Errorf("field %s.%s: %w", ft.Name, f.Name, err)
			}
			out := &schema.Field{
				Name:        f.Name,
				Description: str(f.Description),
				Type:        ref,
			}
			out.IsDeprecated, out.DeprecationReason, out.Uses = deprecation(f.IsDeprecated, f.DeprecationReason)
			for j := range f.Args {
				arg, err := convertInputValue(&f.Args[j])
				if err != nil {
					return nil, fmt.Errorf("field %s.%s: %w", ft.Name, f.Name, err)
				}
				out.Arguments = append(out.Arguments, arg)
			}
			t.Fields = append(t.Fields, out)
		}
		for _, iface := range ft.Interfaces {
			t.Interfaces = append(t.Interfaces, str(iface.Name))
		}
		for _, possible := range ft.PossibleTypes {
			t.PossibleTypes = append(t.PossibleTypes, str(possible.Name))
		}
	case schema.TypeKindUnion:
		for _, possible := range ft.PossibleTypes {
			t.PossibleTypes = append(t.PossibleTypes, str(possible.Name))
		}
	case schema.TypeKindEnum:
		for _, v := range ft.EnumValues {
			ev := &schema.EnumValue{Name: v.Name, Description: str(v.Description)}
			ev.IsDeprecated, ev.DeprecationReason, ev.Uses = deprecation(v.IsDeprecated, v.DeprecationReason)
			t.EnumValues = append(t.EnumValues, ev)
		}
	case schema.TypeKindInputObject:
		for i := range ft.InputFields {
			in, err := convertInputValue(&ft.InputFields[i])
			if err != nil {
				return nil, fmt.Errorf("input %s: %w", ft.Name, err)
			}
			t.InputFields = append(t.InputFields, in)
		}
	default:
		return nil, fmt.Errorf("type %q: unknown kind %q", ft.Name, ft.Kind)
	}
	return t, nil
}

func convertInputValue(v *InputValue) (*schema.InputValue, error) {
	ref, err := convertTypeRef(&v.Type)
	if err != nil {
		return nil, fmt.Errorf("input value %q: %w", v.Name, err)
	}
	out := &schema.InputValue{
		Name:        v.Name,
		Description: str(v.Description),
		Type:        ref,
	}
	if v.DefaultValue != nil {
		out.DefaultValue = schema.RawLiteral(*v.DefaultValue)
	}
	out.IsDeprecated, out.DeprecationReason, out.Uses = deprecation(v.IsDeprecated, v.DeprecationReason)
	return out, nil
}

func convertTypeRef(ref *TypeRef) (*schema.TypeRef, error) {
	if ref == nil {
		return nil, fmt.Errorf("missing type reference")
	}
	switch schema.TypeRefKind(ref.Kind) {
	case schema.TypeRefKindNonNull:
		inner, err := convertTypeRef(ref.OfType)
		if err != nil {
			return nil, err
		}
		if inner.Kind == schema.TypeRefKindNonNull {
			return nil, fmt.Errorf("non-null type reference wraps another non-null type")
		}
		return schema.NonNullType(inner), nil
	case schema.TypeRefKindList:
		inner, err := convertTypeRef(ref.OfType)
		if err != nil {
			return nil, err
		}
		return schema.ListType(inner), nil
	default:
		if ref.Name == nil || *ref.Name == "" {
			return nil, fmt.Errorf("named type reference of kind %q has no name", ref.Kind)
		}
		return schema.NamedType(*ref.Name), nil
	}
}

func deprecation(deprecated bool, reason *string) (bool, string, schema.DirectiveList) {
	if !deprecated {
		return false, "", nil
	}
	r := str(reason)
	use := &schema.DirectiveUse{Name: "deprecated"}
	if r != "" {
		use.Arguments = []*schema.DirectiveArgument{{Name: "reason", Value: r}}
	}
	return true, r, schema.DirectiveList{use}
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
