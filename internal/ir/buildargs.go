package ir

// populateArguments appends one ARGUMENTS entity for every field of an object
// or interface that declares arguments.
func (b *schemaBuilder) populateArguments() {
	var synthesized []*Entity
	for _, owner := range b.entities {
		if owner.Kind != EntityKindObject && owner.Kind != EntityKindInterface {
			continue
		}
		t := b.src.Types[owner.Name]
		for _, f := range t.Fields {
			if len(f.Arguments) == 0 {
				continue
			}
			name := argumentsTypeName(t.Name, f.Name)
			if _, exists := b.index[name]; exists {
				b.addViolation(violationArgumentsNameCollision(name, t.Name, f.Name))
				continue
			}
			e := &Entity{
				Kind:   EntityKindArguments,
				Name:   name,
				Parent: t.Name,
				Field:  f.Name,
			}
			for _, arg := range f.Arguments {
				e.Properties = append(e.Properties, b.buildInputProperty(arg))
			}
			b.index[name] = e
			synthesized = append(synthesized, e)
		}
	}
	b.entities = append(b.entities, synthesized...)
}

func argumentsTypeName(typeName, fieldName string) string {
	return capitalize(fieldName) + capitalize(typeName) + "Args"
}
