package ir

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// anonymousOperationName names the n-th anonymous operation of a batch,
// counting from 1.
func anonymousOperationName(n int) string {
	return fmt.Sprintf("AnonymousQuery_%d", n)
}

// nameTable hands out shape names within one namespace. A name already taken
// is prefixed with underscores until it is free.
type nameTable struct {
	used map[string]bool
}

func newNameTable(reserved ...string) *nameTable {
	t := &nameTable{used: make(map[string]bool)}
	for _, name := range reserved {
		t.used[name] = true
	}
	return t
}

func (t *nameTable) claim(base string) string {
	name := base
	for t.used[name] {
		name = "_" + name
	}
	t.used[name] = true
	return name
}
