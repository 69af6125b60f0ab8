package ir

// Config holds the options that change how schema and documents are shaped.
type Config struct {
	// ImmutableTypes marks every property and list as read-only.
	ImmutableTypes bool `json:"immutableTypes" yaml:"immutableTypes"`
	// AvoidOptionals drops the optional marker of nullable properties. The
	// null member of their type is kept.
	AvoidOptionals bool `json:"avoidOptionals" yaml:"avoidOptionals"`
	// EnumsAsTypes renders enums as unions of string literals.
	EnumsAsTypes bool `json:"enumsAsTypes" yaml:"enumsAsTypes"`
	// FlattenTypes inlines nested shapes into their parent field.
	FlattenTypes bool `json:"flattenTypes" yaml:"flattenTypes"`
	// Primitives maps scalar names to target primitive type names. It is
	// merged over DefaultPrimitives.
	Primitives map[string]string `json:"primitives,omitempty" yaml:"primitives"`
}

// DefaultPrimitives maps the built-in scalars.
var DefaultPrimitives = map[string]string{
	"String":  "string",
	"ID":      "string",
	"Int":     "number",
	"Float":   "number",
	"Boolean": "boolean",
}

func (c Config) primitive(scalar string) string {
	if p, ok := c.Primitives[scalar]; ok {
		return p
	}
	return DefaultPrimitives[scalar]
}
