package language

import (
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
)

func ParseQuery(name, source string) (*QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: name, Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadSchema parses and validates SDL sources into a single schema, with the
// built-in scalars and directives included.
func LoadSchema(sources ...*Source) (*Schema, error) {
	s, err := gqlparser.LoadSchema(sources...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ValidateQuery validates each document against the schema. Fragments of the
// whole batch are visible to every document, so a fragment may be spread from
// another document than the one defining it.
func ValidateQuery(s *Schema, docs ...*QueryDocument) error {
	var fragments FragmentDefinitionList
	for _, doc := range docs {
		fragments = append(fragments, doc.Fragments...)
	}
	var errs gqlerror.List
	seen := make(map[string]bool)
	for _, doc := range docs {
		merged := &QueryDocument{Operations: doc.Operations, Fragments: fragments}
		for _, err := range validator.Validate(s, merged) {
			if isUnusedFragment(err) {
				continue
			}
			key := err.Error()
			if seen[key] {
				continue
			}
			seen[key] = true
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// isUnusedFragment reports errors of the NoUnusedFragments rule, which does
// not apply to fragments shared across documents.
func isUnusedFragment(err *gqlerror.Error) bool {
	return strings.HasPrefix(err.Message, "Fragment ") && strings.HasSuffix(err.Message, " is never used.")
}

// FormatOperation prints a single operation back to GraphQL text.
func FormatOperation(op *OperationDefinition) string {
	var b strings.Builder
	formatter.NewFormatter(&b).FormatQueryDocument(&QueryDocument{Operations: OperationList{op}})
	return b.String()
}

// FormatFragment prints a single fragment definition back to GraphQL text.
func FormatFragment(frag *FragmentDefinition) string {
	var b strings.Builder
	formatter.NewFormatter(&b).FormatQueryDocument(&QueryDocument{Fragments: FragmentDefinitionList{frag}})
	return b.String()
}
