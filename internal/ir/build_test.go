package ir_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/shapegen/internal/ir"
)

func TestLoadProjectSnapshot(t *testing.T) {
	proj, err := ir.Load(t.Context(),
		[]string{filepath.Join("testdata", "schema")},
		[]string{filepath.Join("testdata", "documents")},
		ir.Config{},
	)
	require.NoError(t, err)
	require.NotNil(t, proj.Documents)

	assert.Equal(t, []string{"Feed", "Vote", "AnonymousQuery_1", "Search"}, operationNames(proj.Documents))
	require.NotNil(t, proj.Documents.Fragment("RepoFields"))

	actual, err := json.MarshalIndent(proj, "", "  ")
	require.NoError(t, err)

	snapshotPath := filepath.Join("testdata", "project_snapshot.json")

	// If snapshot doesn't exist, create it
	if _, err := os.Stat(snapshotPath); os.IsNotExist(err) {
		err := os.WriteFile(snapshotPath, actual, 0644)
		require.NoError(t, err, "failed to write snapshot file")
		t.Logf("Created snapshot file: %s", snapshotPath)
		return
	}

	expected, err := os.ReadFile(snapshotPath)
	require.NoError(t, err, "failed to read snapshot file")

	if diff := cmp.Diff(string(expected), string(actual)); diff != "" {
		t.Errorf("Project snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestFileSystemDiscovery(t *testing.T) {
	disc, err := ir.NewFileSystemDiscovery(t.Context(),
		[]string{filepath.Join("testdata", "schema", "schema.graphql")},
		[]string{filepath.Join("testdata", "documents")},
	)
	require.NoError(t, err)

	schemas, err := disc.ListSchemaSources(t.Context())
	require.NoError(t, err)
	require.Len(t, schemas, 1)
	assert.Equal(t, ir.SourceKindSDL, schemas[0].Kind)

	docs, err := disc.ListDocumentSources(t.Context())
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, filepath.Join("testdata", "documents", "feed.graphql"), docs[0].Name)
	assert.Equal(t, filepath.Join("testdata", "documents", "misc.graphql"), docs[1].Name)
	assert.Equal(t, filepath.Join("testdata", "documents", "search.graphql"), docs[2].Name)

	_, err = ir.NewFileSystemDiscovery(t.Context(), nil, nil)
	assert.Error(t, err)

	_, err = ir.NewFileSystemDiscovery(t.Context(), []string{filepath.Join("testdata", "missing")}, nil)
	assert.Error(t, err)
}

func TestBuildInMemory(t *testing.T) {
	sdl := mustReadFile(t, filepath.Join("testdata", "schema", "schema.graphql"))

	t.Run("valid", func(t *testing.T) {
		disc := ir.NewInMemoryDiscovery(
			[]ir.Source{{Name: "schema.graphql", Content: sdl}},
			[]ir.Source{{Name: "q.graphql", Content: `query Q { fieldTest(arg1: "x") }`}},
		)
		proj, err := ir.Build(t.Context(), disc, ir.Config{})
		require.NoError(t, err)
		assert.Equal(t, []string{"Q"}, operationNames(proj.Documents))
	})

	t.Run("schema only", func(t *testing.T) {
		disc := ir.NewInMemoryDiscovery([]ir.Source{{Name: "schema.graphql", Content: sdl}}, nil)
		proj, err := ir.Build(t.Context(), disc, ir.Config{})
		require.NoError(t, err)
		assert.Nil(t, proj.Documents)
		assert.NotNil(t, proj.Schema.Entity("Query"))
	})

	t.Run("validation error", func(t *testing.T) {
		disc := ir.NewInMemoryDiscovery(
			[]ir.Source{{Name: "schema.graphql", Content: sdl}},
			[]ir.Source{{Name: "q.graphql", Content: `query Q { nope }`}},
		)
		_, err := ir.Build(t.Context(), disc, ir.Config{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ir.ErrInvalidDocument))
		assert.Contains(t, err.Error(), `nope`)
	})

	t.Run("syntax error", func(t *testing.T) {
		disc := ir.NewInMemoryDiscovery(
			[]ir.Source{{Name: "schema.graphql", Content: sdl}},
			[]ir.Source{{Name: "broken.graphql", Content: `query Q {`}},
		)
		_, err := ir.Build(t.Context(), disc, ir.Config{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ir.ErrInvalidDocument))
		assert.Contains(t, err.Error(), "broken.graphql")
	})

	t.Run("introspection", func(t *testing.T) {
		disc := ir.NewInMemoryDiscovery(
			[]ir.Source{{Name: "schema.json", Kind: ir.SourceKindIntrospection, Content: `{
  "data": {"__schema": {
    "queryType": {"name": "Query"},
    "types": [
      {"kind": "OBJECT", "name": "Query", "fields": [
        {"name": "hello", "args": [], "type": {"kind": "SCALAR", "name": "String"}}
      ], "interfaces": []},
      {"kind": "SCALAR", "name": "String"}
    ],
    "directives": []
  }}
}`}},
			[]ir.Source{{Name: "q.graphql", Content: `{ hello }`}},
		)
		proj, err := ir.Build(t.Context(), disc, ir.Config{})
		require.NoError(t, err)
		ns := proj.Documents.Documents[0].Operations[0]
		assert.Equal(t, "AnonymousQuery_1", ns.Name)
		assert.True(t, ns.Root.Field("hello").Optional)
	})

	t.Run("introspection with nested non-null", func(t *testing.T) {
		disc := ir.NewInMemoryDiscovery(
			[]ir.Source{{Name: "schema.json", Kind: ir.SourceKindIntrospection, Content: `{
  "__schema": {
    "queryType": {"name": "Query"},
    "types": [
      {"kind": "OBJECT", "name": "Query", "fields": [
        {"name": "hello", "args": [], "type": {"kind": "NON_NULL", "ofType": {"kind": "NON_NULL", "ofType": {"kind": "SCALAR", "name": "String"}}}}
      ], "interfaces": []},
      {"kind": "SCALAR", "name": "String"}
    ],
    "directives": []
  }
}`}},
			nil,
		)
		proj, err := ir.Build(t.Context(), disc, ir.Config{})
		require.Error(t, err)
		assert.Nil(t, proj)
		assert.Contains(t, err.Error(), `failed to decode "schema.json": field Query.hello`)
	})

	t.Run("schema directives", func(t *testing.T) {
		disc := ir.NewInMemoryDiscovery([]ir.Source{
			{Name: "schema.graphql", Content: `
directive @codegen(url: String) on SCHEMA
schema @codegen(url: "https://example.com/a") { query: Query }
type Query { hello: String }`},
			{Name: "extension.graphql", Content: `extend schema @codegen(url: "https://example.com/b")`},
		}, nil)
		proj, err := ir.Build(t.Context(), disc, ir.Config{})
		require.NoError(t, err)
		uses := proj.Schema.Directives()
		require.Len(t, uses, 2)
		assert.Equal(t, "https://example.com/a", uses[0].Args()["url"])
		assert.Equal(t, "https://example.com/b", uses[1].Args()["url"])
	})

	t.Run("mixed schema sources", func(t *testing.T) {
		disc := ir.NewInMemoryDiscovery([]ir.Source{
			{Name: "schema.graphql", Content: sdl},
			{Name: "schema.json", Kind: ir.SourceKindIntrospection, Content: `{}`},
		}, nil)
		_, err := ir.Build(t.Context(), disc, ir.Config{})
		assert.Error(t, err)
	})
}
