package ir

import (
	"sort"

	language "github.com/hanpama/shapegen/internal/language"
	"github.com/hanpama/shapegen/internal/schema"
)

// selectionWalker builds the shapes of one namespace. Its name table is
// shared by every selection set of the namespace and by nothing else.
type selectionWalker struct {
	b     *documentsBuilder
	ns    *Namespace
	names *nameTable
}

// fieldGroup collects the selections of one response key at one position.
type fieldGroup struct {
	key         string
	field       *language.Field
	selections  language.SelectionSet
	conditional bool

	def    *schema.Field
	target *schema.Type
	shape  string
}

func (w *selectionWalker) buildShape(name string, on *schema.Type, set language.SelectionSet) *Shape {
	shape := &Shape{Name: name, OnType: on.Name, Fields: []*ShapeField{}}
	w.ns.Shapes = append(w.ns.Shapes, shape)

	var groups []*fieldGroup
	byKey := make(map[string]*fieldGroup)
	var inlines []*language.InlineFragment
	for _, sel := range set {
		switch sel := sel.(type) {
		case *language.Field:
			if sel.Name == "__typename" {
				continue
			}
			key := sel.Alias
			if key == "" {
				key = sel.Name
			}
			conditional := isConditional(sel.Directives)
			if g, ok := byKey[key]; ok {
				g.selections = append(g.selections, sel.SelectionSet...)
				g.conditional = g.conditional && conditional
				continue
			}
			g := &fieldGroup{
				key:         key,
				field:       sel,
				selections:  append(language.SelectionSet(nil), sel.SelectionSet...),
				conditional: conditional,
			}
			byKey[key] = g
			groups = append(groups, g)
		case *language.FragmentSpread:
			if w.b.resolveFragment(sel.Name, sel.Position) != nil {
				shape.Fragments = appendUnique(shape.Fragments, sel.Name)
				w.ns.Fragments = appendUnique(w.ns.Fragments, sel.Name)
			}
		case *language.InlineFragment:
			inlines = append(inlines, sel)
		default:
			panic("unreachable")
		}
	}

	// Every name at this position is claimed before any nested walk, so
	// siblings are numbered in selection order.
	inlineNames := make([]string, len(inlines))
	for i := range inlines {
		inlineNames[i] = w.names.claim(name + "InlineFragment")
	}
	for _, g := range groups {
		w.resolveGroup(on, g)
	}

	for _, g := range groups {
		if g.def == nil {
			continue
		}
		desc := ResolveType(g.def.Type)
		uses := append(schema.DirectiveList(nil), g.def.Uses...)
		uses = append(uses, schema.DirectiveUsesFromAST(g.field.Directives)...)
		f := &ShapeField{
			Name:              g.key,
			FieldName:         g.def.Name,
			Description:       g.def.Description,
			Type:              desc,
			Optional:          g.conditional || (desc.Nullable && !w.b.cfg.AvoidOptionals),
			Readonly:          w.b.cfg.ImmutableTypes,
			Conditional:       g.conditional,
			Deprecated:        g.def.IsDeprecated,
			DeprecationReason: g.def.DeprecationReason,
			Uses:              uses,
		}
		if g.shape != "" {
			f.Shape = g.shape
			f.Inline = w.b.cfg.FlattenTypes
			w.buildShape(g.shape, g.target, g.selections)
		}
		shape.Fields = append(shape.Fields, f)
	}

	for i, inline := range inlines {
		target := on
		if inline.TypeCondition != "" {
			target = w.b.src.Types[inline.TypeCondition]
			if target == nil {
				w.b.addViolation(violationUnknownType(inline.TypeCondition, inline.Position))
				continue
			}
			if !isComposite(target) {
				w.b.addViolation(violationTypeNotComposite(inline.TypeCondition, inline.Position))
				continue
			}
		}
		child := w.buildShape(inlineNames[i], target, inline.SelectionSet)
		child.Uses = schema.DirectiveUsesFromAST(inline.Directives)
		shape.InlineFragments = append(shape.InlineFragments, child.Name)
	}

	if len(shape.InlineFragments) > 0 {
		shape.Typename = &Typename{Shapes: shape.InlineFragments}
	} else {
		shape.Typename = &Typename{Literals: possibleTypeNames(on)}
	}
	return shape
}

// resolveGroup looks up the schema field of g and claims a nested shape name
// when the field is selected with a selection set.
func (w *selectionWalker) resolveGroup(on *schema.Type, g *fieldGroup) {
	def := on.Field(g.field.Name)
	if def == nil {
		w.b.addViolation(violationUnknownField(g.field.Name, on.Name, g.field.Position))
		return
	}
	named := def.Type.GetNamedType()
	target := w.b.src.Types[named]
	if target == nil {
		w.b.addViolation(violationUnknownType(named, g.field.Position))
		return
	}
	switch {
	case isComposite(target) && len(g.selections) == 0:
		w.b.addViolation(violationMissingSelection(g.key, named, g.field.Position))
		return
	case !isComposite(target) && len(g.selections) > 0:
		w.b.addViolation(violationSelectionOnLeaf(g.key, named, g.field.Position))
		return
	}
	g.def = def
	g.target = target
	if isComposite(target) {
		g.shape = w.names.claim(capitalize(g.key))
	}
}

func isComposite(t *schema.Type) bool {
	switch t.Kind {
	case schema.TypeKindObject, schema.TypeKindInterface, schema.TypeKindUnion:
		return true
	}
	return false
}

func isConditional(dirs language.DirectiveList) bool {
	return dirs.ForName("include") != nil || dirs.ForName("skip") != nil
}

// possibleTypeNames returns the object types a value of t may have at
// runtime, sorted by name.
func possibleTypeNames(t *schema.Type) []string {
	if !t.IsAbstract() {
		return []string{t.Name}
	}
	names := append([]string(nil), t.PossibleTypes...)
	sort.Strings(names)
	return names
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
