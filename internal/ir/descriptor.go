package ir

import "github.com/hanpama/shapegen/internal/schema"

// TypeDescriptor is a type reference normalized into its named type, its own
// nullability and, for lists, the descriptor of its items.
type TypeDescriptor struct {
	Name     string          `json:"name"`
	Nullable bool            `json:"nullable"`
	List     *ListDescriptor `json:"list,omitempty"`
}

type ListDescriptor struct {
	Nullable     bool            `json:"nullable"`
	ItemNullable bool            `json:"itemNullable"`
	Item         *TypeDescriptor `json:"item"`
}

// IsList reports whether the descriptor is a list.
func (d TypeDescriptor) IsList() bool { return d.List != nil }

// Leaf returns the innermost non-list descriptor.
func (d TypeDescriptor) Leaf() TypeDescriptor {
	for d.List != nil {
		d = *d.List.Item
	}
	return d
}

// ResolveType peels the wrappers of ref from the outside in. A bare named type
// is nullable, NonNull marks the position it wraps as non-null, and List
// recurses for its item.
func ResolveType(ref *schema.TypeRef) TypeDescriptor {
	nullable := true
	if ref.Kind == schema.TypeRefKindNonNull {
		nullable = false
		ref = ref.OfType
	}
	switch ref.Kind {
	case schema.TypeRefKindList:
		item := ResolveType(ref.OfType)
		return TypeDescriptor{
			Name:     item.Name,
			Nullable: nullable,
			List: &ListDescriptor{
				Nullable:     nullable,
				ItemNullable: item.Nullable,
				Item:         &item,
			},
		}
	case schema.TypeRefKindNamed:
		return TypeDescriptor{Name: ref.Named, Nullable: nullable}
	default:
		panic("unreachable: nested non-null type reference")
	}
}
