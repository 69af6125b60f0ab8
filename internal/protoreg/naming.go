package protoreg

import (
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
	"google.golang.org/protobuf/reflect/protoreflect"
)

const (
	typenameField = protoreflect.Name("typename")
	oneofValue    = protoreflect.Name("value")
	oneofOn       = protoreflect.Name("on")
	listItems     = protoreflect.Name("items")
)

func nameMessage(graphQLName string) protoreflect.Name {
	return protoreflect.Name(graphQLName)
}

// nameProtoField converts a GraphQL field or shape name to a snake_case
// field name. Leading underscores used to disambiguate shape names become a
// numeric suffix so that both names stay distinct and valid.
func nameProtoField(graphQLName string) protoreflect.Name {
	trimmed := strings.TrimLeft(graphQLName, "_")
	name := strcase.ToSnake(trimmed)
	if n := len(graphQLName) - len(trimmed); n > 0 {
		name += "_" + strconv.Itoa(n+1)
	}
	return protoreflect.Name(name)
}

func nameFragmentField(fragment string) protoreflect.Name {
	return protoreflect.Name(string(nameProtoField(fragment)) + "_fragment")
}

func nameProtoEnumValue(graphQLEnumName string, graphQLEnumValueName string) protoreflect.Name {
	return protoreflect.Name(strcase.ToScreamingSnake(graphQLEnumName) + "_" + strings.ToUpper(graphQLEnumValueName))
}

// nameListWrapper names the message holding one dimension of a nested list,
// e.g. ListOfString for [[String]].
func nameListWrapper(elem string) protoreflect.Name {
	return protoreflect.Name("ListOf" + elem)
}
