package tsrender

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/hanpama/shapegen/internal/ir"
)

type helpers struct {
	schema *ir.SchemaContext
	config ir.Config
	tmpl   *template.Template
}

func (h *helpers) funcMap() template.FuncMap {
	return template.FuncMap{
		"include":          h.include,
		"typeExpr":         h.typeExpr,
		"fieldType":        h.fieldType,
		"typename":         typename,
		"standaloneShapes": h.standaloneShapes,
		"directive":        directive,
		"deprecate":        deprecate,
		"jsdoc":            jsdoc,
		"indent":           indent,
		"quote":            quote,
		"join":             strings.Join,
		"dict":             dict,
	}
}

// include executes a named template into a string so that its output can be
// piped, e.g. through indent.
func (h *helpers) include(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// typeExpr renders a descriptor. Scalars resolve to their primitive when one
// is mapped and to their alias otherwise.
func (h *helpers) typeExpr(d ir.TypeDescriptor) string {
	named := d.Leaf().Name
	if e := h.schema.Entity(named); e != nil && e.Kind == ir.EntityKindScalar && e.Primitive != "" {
		named = e.Primitive
	}
	return h.wrap(d, named)
}

// fieldType renders the type of a shape field, referencing or inlining its
// nested shape.
func (h *helpers) fieldType(ns *ir.Namespace, f *ir.ShapeField) (string, error) {
	if f.Shape == "" {
		return h.typeExpr(f.Type), nil
	}
	if !f.Inline {
		return h.wrap(f.Type, f.Shape), nil
	}
	shape := ns.Shape(f.Shape)
	if shape == nil {
		return "", fmt.Errorf("shape %q not found in namespace %q", f.Shape, ns.Name)
	}
	body, err := h.include("shapeBody", map[string]any{"Namespace": ns, "Shape": shape})
	if err != nil {
		return "", err
	}
	for _, frag := range shape.Fragments {
		body += " & " + frag + ".Fragment"
	}
	if len(shape.InlineFragments) > 0 {
		body += " & (" + strings.Join(shape.InlineFragments, " | ") + ")"
	}
	if len(shape.Fragments) > 0 || len(shape.InlineFragments) > 0 {
		body = "(" + body + ")"
	}
	return h.wrap(f.Type, body), nil
}

func (h *helpers) wrap(d ir.TypeDescriptor, named string) string {
	s := named
	if d.List != nil {
		item := h.wrap(*d.List.Item, named)
		if h.config.ImmutableTypes {
			s = "ReadonlyArray<" + item + ">"
		} else {
			s = "Array<" + item + ">"
		}
	}
	if d.Nullable {
		s = "Maybe<" + s + ">"
	}
	return s
}

// standaloneShapes lists the shapes of ns that are declared on their own:
// all of them unless nested shapes are inlined into their fields.
func (h *helpers) standaloneShapes(ns *ir.Namespace) []*ir.Shape {
	if !h.config.FlattenTypes {
		return ns.Shapes
	}
	inlined := make(map[string]bool)
	for _, s := range ns.Shapes {
		for _, f := range s.Fields {
			if f.Inline && f.Shape != "" {
				inlined[f.Shape] = true
			}
		}
	}
	var out []*ir.Shape
	for _, s := range ns.Shapes {
		if !inlined[s.Name] {
			out = append(out, s)
		}
	}
	return out
}

func typename(t *ir.Typename) string {
	if len(t.Shapes) > 0 {
		parts := make([]string, len(t.Shapes))
		for i, s := range t.Shapes {
			parts[i] = s + "['__typename']"
		}
		return strings.Join(parts, " | ")
	}
	parts := make([]string, len(t.Literals))
	for i, l := range t.Literals {
		parts[i] = quote(l)
	}
	return strings.Join(parts, " | ")
}

// directiveScope exposes the arguments of a directive to a template block.
type directiveScope struct {
	Name string
	Args map[string]any
}

func (s *directiveScope) Arg(name string) any { return s.Args[name] }

// directive returns the scope of the named directive on node, or nil when it
// is not attached. Use as {{ with directive . "name" }}...{{ end }}.
func directive(node ir.Directable, name string) *directiveScope {
	args, ok := ir.DirectiveScope(node, name)
	if !ok {
		return nil
	}
	return &directiveScope{Name: name, Args: args}
}

func deprecate(doc string, reason any) string {
	line := "@deprecated"
	if reason != nil && reason != "" {
		line += " " + fmt.Sprint(reason)
	}
	if doc == "" {
		return line
	}
	return doc + "\n" + line
}

func jsdoc(doc string) string {
	if doc == "" {
		return ""
	}
	lines := strings.Split(strings.ReplaceAll(doc, "*/", "*\\/"), "\n")
	if len(lines) == 1 {
		return "/** " + lines[0] + " */\n"
	}
	var b strings.Builder
	b.WriteString("/**\n")
	for _, l := range lines {
		if l == "" {
			b.WriteString(" *\n")
			continue
		}
		b.WriteString(" * " + l + "\n")
	}
	b.WriteString(" */\n")
	return b.String()
}

func indent(n int, s string) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n")
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "\\'") + "'"
}

func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}
