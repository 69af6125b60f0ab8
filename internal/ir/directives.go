package ir

import "github.com/hanpama/shapegen/internal/schema"

// Directable is any context node that carries directive usages.
type Directable interface {
	Directives() schema.DirectiveList
}

// DirectiveScope reports whether the named directive is attached to node and
// returns its argument values keyed by argument name.
func DirectiveScope(node Directable, name string) (map[string]any, bool) {
	if node == nil {
		return nil, false
	}
	use := node.Directives().ForName(name)
	if use == nil {
		return nil, false
	}
	return use.Args(), true
}

// HasDirective reports whether the named directive is attached to node.
func HasDirective(node Directable, name string) bool {
	_, ok := DirectiveScope(node, name)
	return ok
}
