package protoreg

import (
	"strings"

	"github.com/jhump/protoreflect/v2/protobuilder"
)

func comment(desc string) protobuilder.Comments {
	if desc == "" {
		return protobuilder.Comments{}
	}
	lines := strings.Split(desc, "\n")
	for i, line := range lines {
		lines[i] = " " + line
	}
	return protobuilder.Comments{LeadingComment: strings.Join(lines, "\n") + "\n"}
}

// deprecatedComment appends the deprecation reason to desc.
func deprecatedComment(desc, reason string) protobuilder.Comments {
	note := "Deprecated"
	if reason != "" {
		note += ": " + reason
	}
	if desc == "" {
		return comment(note)
	}
	return comment(desc + "\n" + note)
}
