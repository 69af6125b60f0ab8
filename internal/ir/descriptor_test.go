package ir_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hanpama/shapegen/internal/ir"
	"github.com/hanpama/shapegen/internal/schema"
)

func TestResolveType(t *testing.T) {
	str := func(nullable bool) *ir.TypeDescriptor {
		return &ir.TypeDescriptor{Name: "String", Nullable: nullable}
	}
	tests := []struct {
		name string
		ref  *schema.TypeRef
		want ir.TypeDescriptor
	}{
		{
			name: "String",
			ref:  schema.NamedType("String"),
			want: ir.TypeDescriptor{Name: "String", Nullable: true},
		},
		{
			name: "String!",
			ref:  schema.NonNullType(schema.NamedType("String")),
			want: ir.TypeDescriptor{Name: "String"},
		},
		{
			name: "[String]",
			ref:  schema.ListType(schema.NamedType("String")),
			want: ir.TypeDescriptor{Name: "String", Nullable: true, List: &ir.ListDescriptor{
				Nullable: true, ItemNullable: true, Item: str(true),
			}},
		},
		{
			name: "[String]!",
			ref:  schema.NonNullType(schema.ListType(schema.NamedType("String"))),
			want: ir.TypeDescriptor{Name: "String", List: &ir.ListDescriptor{
				ItemNullable: true, Item: str(true),
			}},
		},
		{
			name: "[String!]!",
			ref:  schema.NonNullType(schema.ListType(schema.NonNullType(schema.NamedType("String")))),
			want: ir.TypeDescriptor{Name: "String", List: &ir.ListDescriptor{
				Item: str(false),
			}},
		},
		{
			name: "[String!]",
			ref:  schema.ListType(schema.NonNullType(schema.NamedType("String"))),
			want: ir.TypeDescriptor{Name: "String", Nullable: true, List: &ir.ListDescriptor{
				Nullable: true, Item: str(false),
			}},
		},
		{
			name: "[[Int!]]!",
			ref: schema.NonNullType(schema.ListType(schema.ListType(
				schema.NonNullType(schema.NamedType("Int"))))),
			want: ir.TypeDescriptor{Name: "Int", List: &ir.ListDescriptor{
				ItemNullable: true,
				Item: &ir.TypeDescriptor{Name: "Int", Nullable: true, List: &ir.ListDescriptor{
					Nullable: true, Item: &ir.TypeDescriptor{Name: "Int"},
				}},
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ir.ResolveType(tt.ref)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ResolveType(%s) mismatch (-want +got):\n%s", tt.name, diff)
			}
		})
	}
}

func TestTypeDescriptorLeaf(t *testing.T) {
	d := ir.ResolveType(schema.ListType(schema.ListType(schema.NonNullType(schema.NamedType("ID")))))
	if diff := cmp.Diff(ir.TypeDescriptor{Name: "ID"}, d.Leaf()); diff != "" {
		t.Errorf("Leaf mismatch (-want +got):\n%s", diff)
	}
}
