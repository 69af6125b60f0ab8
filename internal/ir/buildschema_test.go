package ir_test

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/shapegen/internal/ir"
	language "github.com/hanpama/shapegen/internal/language"
	"github.com/hanpama/shapegen/internal/schema"
)

func entityNames(entities []*ir.Entity) []string {
	var names []string
	for _, e := range entities {
		names = append(names, e.Name)
	}
	return names
}

func TestBuildSchemaEntities(t *testing.T) {
	sc := buildTestSchema(t, ir.Config{})

	var declared []string
	for _, e := range sc.Entities {
		if e.Kind != ir.EntityKindArguments {
			declared = append(declared, e.Name)
		}
	}
	assert.True(t, sort.StringsAreSorted(declared), "entities must be ordered by name: %v", declared)
	assert.Equal(t, []string{"Comment", "Entry", "Mutation", "Query", "Repository", "User"}, entityNames(sc.Objects()))
	assert.Equal(t, []string{"SearchResult"}, entityNames(sc.Unions()))
	assert.Equal(t, []string{"Node"}, entityNames(sc.Interfaces()))
	assert.Equal(t, []string{"A", "VoteType"}, entityNames(sc.Enums()))
	for _, e := range declared {
		assert.NotContains(t, e, "__")
	}

	user := sc.Entity("User")
	require.NotNil(t, user)
	assert.Equal(t, []string{"Node"}, user.Interfaces)
	assert.Equal(t, []string{"Comment", "Entry", "Repository", "User"}, sc.Entity("Node").PossibleTypes)
	assert.Equal(t, []string{"User", "Repository"}, sc.Entity("SearchResult").PossibleTypes)

	owner := sc.Entity("Repository").Property("owner")
	require.NotNil(t, owner)
	assert.Equal(t, "The owner", owner.Description)
	assert.Equal(t, "Root query", sc.Entity("Query").Description)
}

func TestBuildSchemaListNullability(t *testing.T) {
	sc := buildTestSchema(t, ir.Config{})
	query := sc.Entity("Query")

	tests := []struct {
		field        string
		optional     bool
		listNullable bool
		itemNullable bool
	}{
		{field: "list1", optional: true, listNullable: true, itemNullable: true},
		{field: "list2", optional: false, listNullable: false, itemNullable: true},
		{field: "list3", optional: false, listNullable: false, itemNullable: false},
		{field: "list4", optional: true, listNullable: true, itemNullable: false},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			p := query.Property(tt.field)
			require.NotNil(t, p)
			require.True(t, p.Type.IsList())
			assert.Equal(t, tt.optional, p.Optional)
			assert.Equal(t, tt.listNullable, p.Type.List.Nullable)
			assert.Equal(t, tt.itemNullable, p.Type.List.ItemNullable)
		})
	}
}

func TestBuildSchemaEnums(t *testing.T) {
	sc := buildTestSchema(t, ir.Config{})
	a := sc.Entity("A")
	require.NotNil(t, a)
	assert.False(t, a.AsUnion)
	require.Len(t, a.Values, 2)
	assert.Equal(t, "ONE", a.Values[0].Value)
	assert.Equal(t, "TWO", a.Values[1].Value)

	sc = buildTestSchema(t, ir.Config{EnumsAsTypes: true})
	assert.True(t, sc.Entity("A").AsUnion)
	assert.True(t, sc.Entity("VoteType").AsUnion)
}

func TestBuildSchemaScalars(t *testing.T) {
	sc := buildTestSchema(t, ir.Config{})
	assert.Equal(t, "string", sc.Entity("ID").Primitive)
	assert.Equal(t, "number", sc.Entity("Float").Primitive)
	assert.True(t, sc.Entity("Boolean").BuiltIn)
	assert.Empty(t, sc.Entity("DateTime").Primitive)
	assert.Equal(t, "An ISO-8601 timestamp", sc.Entity("DateTime").Description)

	sc = buildTestSchema(t, ir.Config{Primitives: map[string]string{"DateTime": "string", "Int": "bigint"}})
	assert.Equal(t, "string", sc.Entity("DateTime").Primitive)
	assert.Equal(t, "bigint", sc.Entity("Int").Primitive)
	assert.Equal(t, "boolean", sc.Entity("Boolean").Primitive)
}

func TestBuildSchemaAvoidOptionals(t *testing.T) {
	sc := buildTestSchema(t, ir.Config{AvoidOptionals: true, ImmutableTypes: true})
	for _, e := range sc.Entities {
		for _, p := range e.Properties {
			assert.False(t, p.Optional, "%s.%s", e.Name, p.Name)
			assert.True(t, p.Readonly, "%s.%s", e.Name, p.Name)
		}
	}
	p := sc.Entity("Query").Property("fieldTest")
	assert.True(t, p.Type.Nullable)
}

func TestBuildSchemaArguments(t *testing.T) {
	sc := buildTestSchema(t, ir.Config{})

	assert.Equal(t, []string{
		"CommentsEntryArgs",
		"VoteMutationArgs",
		"FieldTestQueryArgs",
		"RepositoryQueryArgs",
		"NodeQueryArgs",
		"EntryQueryArgs",
		"SearchQueryArgs",
	}, entityNames(sc.Arguments()))

	args := sc.Entity("FieldTestQueryArgs")
	require.NotNil(t, args)
	assert.Equal(t, ir.EntityKindArguments, args.Kind)
	assert.Equal(t, "Query", args.Parent)
	assert.Equal(t, "fieldTest", args.Field)
	require.Len(t, args.Properties, 1)
	arg1 := args.Properties[0]
	assert.Equal(t, "arg1", arg1.Name)
	assert.True(t, arg1.Optional)
	assert.Equal(t, ir.TypeDescriptor{Name: "String", Nullable: true}, arg1.Type)
	assert.Equal(t, "FieldTestQueryArgs", sc.Entity("Query").Property("fieldTest").ArgsType)
	assert.Empty(t, sc.Entity("Query").Property("now").ArgsType)

	comments := sc.Entity("CommentsEntryArgs")
	require.NotNil(t, comments)
	assert.Equal(t, int64(10), comments.Property("limit").DefaultValue)
	assert.Nil(t, comments.Property("offset").DefaultValue)

	vote := sc.Entity("VoteMutationArgs")
	require.NotNil(t, vote)
	assert.False(t, vote.Property("type").Optional)
	assert.Equal(t, "VoteType", vote.Property("type").Type.Name)
}

func TestBuildSchemaArgumentsCollision(t *testing.T) {
	s, err := schema.BuildFromSDL(&language.Source{Name: "schema.graphql", Input: `
type Query {
  fieldTest(arg1: String): String
}
type FieldTestQueryArgs {
  arg1: String
}
`})
	require.NoError(t, err)

	sc, err := ir.BuildSchema(t.Context(), s, ir.Config{})
	require.Error(t, err)
	assert.Nil(t, sc)
	assert.True(t, errors.Is(err, ir.ErrNameCollision))
	assert.Contains(t, err.Error(), `Arguments type "FieldTestQueryArgs" for field Query.fieldTest`)
}

func TestDirectiveScope(t *testing.T) {
	sc := buildTestSchema(t, ir.Config{})
	description := sc.Entity("Repository").Property("description")
	require.NotNil(t, description)
	assert.True(t, description.Deprecated)

	scope, ok := ir.DirectiveScope(description, "deprecated")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"reason": "use summary"}, scope)

	assert.False(t, ir.HasDirective(description, "specifiedBy"))
	assert.False(t, ir.HasDirective(sc.Entity("Repository").Property("summary"), "deprecated"))
	assert.False(t, ir.HasDirective(sc, "link"))

	// Lookups that miss return typed nils, which templates pass straight in.
	nodes := []ir.Directable{
		sc.Entity("Missing"),
		sc.Entity("Repository").Property("missing"),
		(*ir.SchemaContext)(nil),
		(*ir.EnumValue)(nil),
		(*ir.Namespace)(nil),
		(*ir.Shape)(nil),
		(*ir.ShapeField)(nil),
	}
	for _, node := range nodes {
		scope, ok := ir.DirectiveScope(node, "deprecated")
		assert.False(t, ok, "%T", node)
		assert.Nil(t, scope)
	}
}

func TestDirectiveScopeSchemaUses(t *testing.T) {
	s, err := schema.BuildFromSDL(&language.Source{Name: "schema.graphql", Input: `
directive @codegen(prefix: String, strict: Boolean) on SCHEMA | OBJECT

schema @codegen(prefix: "Gql", strict: true) {
  query: Root
}

type Root @codegen(prefix: "R") {
  ok: Boolean
}
`})
	require.NoError(t, err)
	sc, err := ir.BuildSchema(t.Context(), s, ir.Config{})
	require.NoError(t, err)

	scope, ok := ir.DirectiveScope(sc, "codegen")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"prefix": "Gql", "strict": true}, scope)

	scope, ok = ir.DirectiveScope(sc.Entity("Root"), "codegen")
	require.True(t, ok)
	assert.Equal(t, "R", scope["prefix"])
	assert.Equal(t, "Root", sc.QueryType)
}
