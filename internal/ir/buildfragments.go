package ir

import (
	language "github.com/hanpama/shapegen/internal/language"
	"github.com/hanpama/shapegen/internal/schema"
)

// resolveFragment returns the namespace of the named fragment, building it on
// first use. Every fragment is built at most once per batch.
func (b *documentsBuilder) resolveFragment(name string, pos *language.Position) *Namespace {
	if ns, ok := b.fragments[name]; ok {
		return ns
	}
	def, ok := b.fragmentDefs[name]
	if !ok {
		b.addViolation(violationUnknownFragment(name, pos))
		return nil
	}
	if b.resolving[name] {
		b.addViolation(violationFragmentCycle(name, pos))
		return nil
	}
	b.resolving[name] = true
	defer delete(b.resolving, name)

	on := b.src.Types[def.TypeCondition]
	if on == nil {
		b.addViolation(violationUnknownType(def.TypeCondition, def.Position))
		b.fragments[name] = nil
		return nil
	}
	if !isComposite(on) {
		b.addViolation(violationTypeNotComposite(def.TypeCondition, def.Position))
		b.fragments[name] = nil
		return nil
	}

	ns := &Namespace{
		Name:   name,
		Kind:   NamespaceKindFragment,
		OnType: on.Name,
		Source: language.FormatFragment(def),
		Uses:   schema.DirectiveUsesFromAST(def.Directives),
	}
	w := &selectionWalker{b: b, ns: ns, names: b.shapeNames("Fragment")}
	ns.Root = w.buildShape("Fragment", on, def.SelectionSet)
	b.fragments[name] = ns
	return ns
}
