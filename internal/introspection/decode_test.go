package introspection

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schema "github.com/hanpama/shapegen/internal/schema"
)

func TestDecode(t *testing.T) {
	data, err := os.ReadFile("testdata/introspection.json")
	require.NoError(t, err)

	s, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, "Query", s.QueryType)
	assert.Empty(t, s.MutationType)
	assert.NotContains(t, s.Types, "__Schema")

	query := s.Types["Query"]
	require.NotNil(t, query)
	assert.Equal(t, "The root", query.Description)
	require.Len(t, query.Fields, 1, "introspection fields are skipped")

	repos := query.Fields[0]
	assert.Equal(t, "[Repository!]!", repos.Type.String())
	require.Len(t, repos.Arguments, 2)
	assert.Equal(t, "Page size", repos.Arguments[0].Description)
	assert.Equal(t, schema.RawLiteral("10"), repos.Arguments[0].DefaultValue)
	assert.Equal(t, schema.RawLiteral("NEWEST"), repos.Arguments[1].DefaultValue)

	stars := s.Types["Repository"].Field("stars")
	assert.True(t, stars.IsDeprecated)
	assert.Equal(t, "Use stargazers", stars.DeprecationReason)
	require.NotNil(t, stars.Uses.ForName("deprecated"))
	assert.Equal(t, map[string]any{"reason": "Use stargazers"}, stars.Uses.ForName("deprecated").Args())
	assert.Equal(t, []string{"Node"}, s.Types["Repository"].Interfaces)
	assert.Equal(t, []string{"Repository"}, s.Types["Node"].PossibleTypes)

	hot := s.Types["Sort"].EnumValues[1]
	assert.True(t, hot.IsDeprecated)
	assert.Empty(t, hot.DeprecationReason)
	require.NotNil(t, hot.Uses.ForName("deprecated"))
	assert.Empty(t, hot.Uses.ForName("deprecated").Arguments)

	assert.True(t, s.Types["Int"].BuiltIn)
	assert.False(t, s.Types["Upload"].BuiltIn)
	assert.True(t, s.Directives["include"].BuiltIn)
	assert.False(t, s.Directives["cached"].BuiltIn)
	assert.True(t, s.Directives["cached"].IsRepeatable)
}

func TestDecodeBareSchema(t *testing.T) {
	s, err := Decode([]byte(`{"__schema": {"queryType": {"name": "Q"}, "types": [
		{"kind": "OBJECT", "name": "Q", "fields": [{"name": "ok", "args": [], "type": {"kind": "SCALAR", "name": "Boolean"}}]}
	], "directives": []}}`))
	require.NoError(t, err)
	assert.Equal(t, "Q", s.QueryType)
	assert.Equal(t, "Boolean", s.Types["Q"].Field("ok").Type.String())
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{name: "not json", input: `{`, message: "decode introspection result"},
		{name: "missing schema", input: `{"data": {}}`, message: "missing __schema"},
		{
			name:    "unknown kind",
			input:   `{"__schema": {"types": [{"kind": "THING", "name": "X"}]}}`,
			message: `unknown kind "THING"`,
		},
		{
			name:    "unnamed type reference",
			input:   `{"__schema": {"types": [{"kind": "OBJECT", "name": "X", "fields": [{"name": "f", "type": {"kind": "SCALAR"}}]}]}}`,
			message: "has no name",
		},
		{
			name:    "nested non-null",
			input:   `{"__schema": {"types": [{"kind": "OBJECT", "name": "X", "fields": [{"name": "f", "type": {"kind": "NON_NULL", "ofType": {"kind": "NON_NULL", "ofType": {"kind": "SCALAR", "name": "String"}}}}]}]}}`,
			message: "field X.f: non-null type reference wraps another non-null type",
		},
		{
			name:    "nested non-null argument",
			input:   `{"__schema": {"types": [{"kind": "OBJECT", "name": "X", "fields": [{"name": "f", "args": [{"name": "a", "type": {"kind": "LIST", "ofType": {"kind": "NON_NULL", "ofType": {"kind": "NON_NULL", "ofType": {"kind": "SCALAR", "name": "ID"}}}}}], "type": {"kind": "SCALAR", "name": "String"}}]}]}}`,
			message: `input value "a": non-null type reference wraps another non-null type`,
		},
		{
			name:    "duplicate type",
			input:   `{"__schema": {"types": [{"kind": "SCALAR", "name": "X"}, {"kind": "SCALAR", "name": "X"}]}}`,
			message: `duplicate type "X"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}
