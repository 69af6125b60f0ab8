package schema

import (
	"sort"
	"strings"

	language "github.com/hanpama/shapegen/internal/language"
)

// BuildFromAST converts a validated gqlparser schema into the structural
// schema model. Introspection types and fields are left out. Directives
// applied to schema definitions and extensions are collected onto Uses.
func BuildFromAST(src *language.Schema) *Schema {
	s := &Schema{
		Types:       make(map[string]*Type, len(src.Types)),
		Directives:  make(map[string]*Directive, len(src.Directives)),
		Description: src.Description,
		Uses:        DirectiveUsesFromAST(src.SchemaDirectives),
	}
	if src.Query != nil {
		s.QueryType = src.Query.Name
	}
	if src.Mutation != nil {
		s.MutationType = src.Mutation.Name
	}
	if src.Subscription != nil {
		s.SubscriptionType = src.Subscription.Name
	}

	for name, def := range src.Types {
		if strings.HasPrefix(name, "__") {
			continue
		}
		switch def.Kind {
		case language.Object:
			s.Types[name] = buildObject(def)
		case language.Interface:
			t := buildObject(def)
			t.Kind = TypeKindInterface
			for _, possible := range src.GetPossibleTypes(def) {
				t.PossibleTypes = append(t.PossibleTypes, possible.Name)
			}
			sort.Strings(t.PossibleTypes)
			s.Types[name] = t
		case language.Union:
			s.Types[name] = buildUnion(def)
		case language.Enum:
			s.Types[name] = buildEnum(def)
		case language.InputObject:
			s.Types[name] = buildInput(def)
		case language.Scalar:
			s.Types[name] = buildScalar(def)
		}
	}
	for name, dir := range src.Directives {
		s.Directives[name] = buildDirective(dir)
	}
	return s
}

func buildObject(def *language.Definition) *Type {
	t := newType(def, TypeKindObject)
	t.Interfaces = append(t.Interfaces, def.Interfaces...)
	for _, fieldDef := range def.Fields {
		if strings.HasPrefix(fieldDef.Name, "__") {
			continue
		}
		t.Fields = append(t.Fields, buildField(fieldDef))
	}
	return t
}

func buildField(def *language.FieldDefinition) *Field {
	f := &Field{
		Name:        def.Name,
		Description: def.Description,
		Type:        TypeRefFromAST(def.Type),
		Uses:        DirectiveUsesFromAST(def.Directives),
	}
	f.IsDeprecated, f.DeprecationReason = deprecation(def.Directives)
	for _, arg := range def.Arguments {
		f.Arguments = append(f.Arguments, buildArgument(arg))
	}
	return f
}

func buildArgument(def *language.ArgumentDefinition) *InputValue {
	in := &InputValue{
		Name:         def.Name,
		Description:  def.Description,
		Type:         TypeRefFromAST(def.Type),
		DefaultValue: literal(def.DefaultValue),
		Uses:         DirectiveUsesFromAST(def.Directives),
	}
	in.IsDeprecated, in.DeprecationReason = deprecation(def.Directives)
	return in
}

func buildEnum(def *language.Definition) *Type {
	t := newType(def, TypeKindEnum)
	for _, v := range def.EnumValues {
		e := &EnumValue{
			Name:        v.Name,
			Description: v.Description,
			Uses:        DirectiveUsesFromAST(v.Directives),
		}
		e.IsDeprecated, e.DeprecationReason = deprecation(v.Directives)
		t.EnumValues = append(t.EnumValues, e)
	}
	return t
}

func buildInput(def *language.Definition) *Type {
	t := newType(def, TypeKindInputObject)
	for _, fieldDef := range def.Fields {
		in := &InputValue{
			Name:         fieldDef.Name,
			Description:  fieldDef.Description,
			Type:         TypeRefFromAST(fieldDef.Type),
			DefaultValue: literal(fieldDef.DefaultValue),
			Uses:         DirectiveUsesFromAST(fieldDef.Directives),
		}
		in.IsDeprecated, in.DeprecationReason = deprecation(fieldDef.Directives)
		t.InputFields = append(t.InputFields, in)
	}
	return t
}

func buildUnion(def *language.Definition) *Type {
	t := newType(def, TypeKindUnion)
	t.PossibleTypes = append(t.PossibleTypes, def.Types...)
	return t
}

func buildScalar(def *language.Definition) *Type {
	return newType(def, TypeKindScalar)
}

func buildDirective(def *language.DirectiveDefinition) *Directive {
	d := &Directive{
		Name:         def.Name,
		Description:  def.Description,
		IsRepeatable: def.IsRepeatable,
		BuiltIn:      isBuiltIn(def.Position),
	}
	for _, loc := range def.Locations {
		d.Locations = append(d.Locations, string(loc))
	}
	for _, arg := range def.Arguments {
		d.Arguments = append(d.Arguments, buildArgument(arg))
	}
	return d
}

func newType(def *language.Definition, kind TypeKind) *Type {
	return &Type{
		Name:        def.Name,
		Kind:        kind,
		Description: def.Description,
		BuiltIn:     isBuiltIn(def.Position),
		Uses:        DirectiveUsesFromAST(def.Directives),
	}
}

// DirectiveUsesFromAST converts parsed directive applications, evaluating
// argument literals. Variable arguments evaluate to nil.
func DirectiveUsesFromAST(list language.DirectiveList) DirectiveList {
	if len(list) == 0 {
		return nil
	}
	uses := make(DirectiveList, 0, len(list))
	for _, dir := range list {
		use := &DirectiveUse{Name: dir.Name}
		for _, arg := range dir.Arguments {
			use.Arguments = append(use.Arguments, &DirectiveArgument{Name: arg.Name, Value: literal(arg.Value)})
		}
		uses = append(uses, use)
	}
	return uses
}

// TypeRefFromAST converts a parsed type reference (field, argument or variable
// type) into the closed TypeRef variant.
func TypeRefFromAST(t *language.Type) *TypeRef {
	if t == nil {
		return nil
	}
	if t.NonNull {
		return NonNullType(TypeRefFromAST(&language.Type{
			NamedType: t.NamedType,
			Elem:      t.Elem,
			Position:  t.Position,
		}))
	}
	if t.Elem != nil {
		return ListType(TypeRefFromAST(t.Elem))
	}
	return NamedType(t.NamedType)
}

func deprecation(list language.DirectiveList) (bool, string) {
	dir := list.ForName("deprecated")
	if dir == nil {
		return false, ""
	}
	reason := "No longer supported"
	if arg := dir.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
		reason = arg.Value.Raw
	}
	return true, reason
}

// literal evaluates a constant value. Enum values are kept as RawLiteral so
// that they render unquoted.
func literal(v *language.Value) any {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case language.EnumValue:
		return RawLiteral(v.Raw)
	case language.ListValue:
		out := make([]any, 0, len(v.Children))
		for _, child := range v.Children {
			out = append(out, literal(child.Value))
		}
		return out
	case language.ObjectValue:
		out := make(map[string]any, len(v.Children))
		for _, child := range v.Children {
			out[child.Name] = literal(child.Value)
		}
		return out
	case language.Variable:
		return nil
	}
	out, err := v.Value(nil)
	if err != nil {
		return v.Raw
	}
	return out
}

func isBuiltIn(pos *language.Position) bool {
	return pos != nil && pos.Src != nil && pos.Src.BuiltIn
}

// BuildFromSDL loads SDL sources into a Schema.
func BuildFromSDL(sources ...*language.Source) (*Schema, error) {
	loaded, err := language.LoadSchema(sources...)
	if err != nil {
		return nil, err
	}
	return BuildFromAST(loaded), nil
}
