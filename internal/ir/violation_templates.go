package ir

import (
	"fmt"

	language "github.com/hanpama/shapegen/internal/language"
)

// Common reusable violation constructors (template helpers)
// NOTE: Keep messages stable to avoid breaking snapshot tests.

func violationUnknownFragment(name string, pos *language.Position) *Violation {
	return violationWithPosition(KindMissingFragment,
		fmt.Sprintf("Unknown fragment %q", name),
		pos,
	)
}

func violationFragmentCycle(name string, pos *language.Position) *Violation {
	return violationWithPosition(KindFragmentCycle,
		fmt.Sprintf("Fragment %q spreads itself", name),
		pos,
	)
}

func violationUnknownField(fieldName, typeName string, pos *language.Position) *Violation {
	return violationWithPosition(KindSelectionMismatch,
		fmt.Sprintf("Cannot query field %q on type %q", fieldName, typeName),
		pos,
	)
}

func violationSelectionOnLeaf(fieldName, typeName string, pos *language.Position) *Violation {
	return violationWithPosition(KindSelectionMismatch,
		fmt.Sprintf("Field %q of type %q must not have a selection set", fieldName, typeName),
		pos,
	)
}

func violationMissingSelection(fieldName, typeName string, pos *language.Position) *Violation {
	return violationWithPosition(KindSelectionMismatch,
		fmt.Sprintf("Field %q of type %q must have a selection set", fieldName, typeName),
		pos,
	)
}

func violationUnknownType(typeName string, pos *language.Position) *Violation {
	return violationWithPosition(KindSelectionMismatch,
		fmt.Sprintf("Type %q not found in schema", typeName),
		pos,
	)
}

func violationTypeNotComposite(typeName string, pos *language.Position) *Violation {
	return violationWithPosition(KindSelectionMismatch,
		fmt.Sprintf("Type %q cannot be used as a fragment type condition", typeName),
		pos,
	)
}

func violationRootTypeNotDefined(operation string, pos *language.Position) *Violation {
	return violationWithPosition(KindSelectionMismatch,
		fmt.Sprintf("Schema does not define a %s root type", operation),
		pos,
	)
}

func violationDuplicateFragment(name string, pos *language.Position) *Violation {
	return violationWithPosition(KindNameCollision,
		fmt.Sprintf("Fragment %q is defined more than once", name),
		pos,
	)
}

func violationDuplicateNamespace(name string, pos *language.Position) *Violation {
	return violationWithPosition(KindNameCollision,
		fmt.Sprintf("Namespace %q is defined more than once", name),
		pos,
	)
}

func violationNamespaceShadowsEntity(name string, pos *language.Position) *Violation {
	return violationWithPosition(KindNameCollision,
		fmt.Sprintf("Namespace %q collides with schema type %q", name, name),
		pos,
	)
}

func violationArgumentsNameCollision(name, typeName, fieldName string) *Violation {
	return violationWithPosition(KindNameCollision,
		fmt.Sprintf("Arguments type %q for field %s.%s collides with an existing type", name, typeName, fieldName),
		nil,
	)
}

func violationInvalidDocument(message string, pos *language.Position) *Violation {
	return violationWithPosition(KindInvalidDocument, message, pos)
}
