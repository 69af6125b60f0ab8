package ir

import (
	"errors"
	"fmt"

	language "github.com/hanpama/shapegen/internal/language"
)

type ViolationKind string

const (
	KindMissingFragment   ViolationKind = "MISSING_FRAGMENT"
	KindSelectionMismatch ViolationKind = "SELECTION_MISMATCH"
	KindNameCollision     ViolationKind = "NAME_COLLISION"
	KindFragmentCycle     ViolationKind = "FRAGMENT_CYCLE"
	KindInvalidDocument   ViolationKind = "INVALID_DOCUMENT"
)

var (
	ErrMissingFragment   = errors.New("missing fragment")
	ErrSelectionMismatch = errors.New("selection does not match schema")
	ErrNameCollision     = errors.New("name collision")
	ErrFragmentCycle     = errors.New("fragment cycle")
	ErrInvalidDocument   = errors.New("invalid document")
)

var kindErrors = map[ViolationKind]error{
	KindMissingFragment:   ErrMissingFragment,
	KindSelectionMismatch: ErrSelectionMismatch,
	KindNameCollision:     ErrNameCollision,
	KindFragmentCycle:     ErrFragmentCycle,
	KindInvalidDocument:   ErrInvalidDocument,
}

type Violation struct {
	Kind    ViolationKind `json:"kind"`
	Message string        `json:"message"`
	File    string        `json:"file,omitempty"`
	Line    int           `json:"line,omitempty"`
	Column  int           `json:"column,omitempty"`
}

type ValidationError []*Violation

func (e ValidationError) Error() string {
	msg := "violations found:\n"
	for _, v := range e {
		line := "- " + v.Message
		if v.File != "" {
			line += fmt.Sprintf(" %s:%d:%d", v.File, v.Line, v.Column)
		}
		msg += line + "\n"
	}
	return msg
}

// Is reports whether any violation is of the kind identified by target, so
// that errors.Is(err, ErrMissingFragment) works on an aggregated error.
func (e ValidationError) Is(target error) bool {
	for _, v := range e {
		if kindErrors[v.Kind] == target {
			return true
		}
	}
	return false
}

// Core primitive used by all template helpers.
func violationWithPosition(kind ViolationKind, message string, pos *language.Position) *Violation {
	v := &Violation{Kind: kind, Message: message}
	if pos != nil {
		v.Line = pos.Line
		v.Column = pos.Column
		if pos.Src != nil {
			v.File = pos.Src.Name
		}
	}
	return v
}
