package ir_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hanpama/shapegen/internal/ir"
	language "github.com/hanpama/shapegen/internal/language"
	"github.com/hanpama/shapegen/internal/schema"
)

func mustReadFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func buildTestSchema(t *testing.T, cfg ir.Config) *ir.SchemaContext {
	t.Helper()
	s, err := schema.BuildFromSDL(&language.Source{
		Name:  "schema.graphql",
		Input: mustReadFile(t, "testdata/schema/schema.graphql"),
	})
	require.NoError(t, err)
	sc, err := ir.BuildSchema(t.Context(), s, cfg)
	require.NoError(t, err)
	return sc
}

func parseDocuments(t *testing.T, sources ...string) []*ir.Document {
	t.Helper()
	docs := make([]*ir.Document, 0, len(sources))
	for i, src := range sources {
		name := "doc" + string(rune('0'+i)) + ".graphql"
		doc, err := language.ParseQuery(name, src)
		require.NoError(t, err)
		docs = append(docs, &ir.Document{Name: name, Query: doc})
	}
	return docs
}

func buildTestDocuments(t *testing.T, sc *ir.SchemaContext, sources ...string) *ir.DocumentsContext {
	t.Helper()
	dc, err := ir.BuildDocuments(t.Context(), sc, parseDocuments(t, sources...))
	require.NoError(t, err)
	return dc
}

func shapeNames(ns *ir.Namespace) []string {
	var names []string
	for _, s := range ns.Shapes {
		names = append(names, s.Name)
	}
	return names
}
