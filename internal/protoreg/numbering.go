package protoreg

import (
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/jhump/protoreflect/v2/protobuilder"
	"google.golang.org/protobuf/reflect/protoreflect"
)

const (
	maxTag           = 31767
	reservedTagStart = 19000
	reservedTagEnd   = 19999
)

// allocateFieldNumbers numbers every field of one message, oneof choices
// included, so that a tag depends only on the field name and the names of
// its siblings.
func allocateFieldNumbers(fieldBuilders []*protobuilder.FieldBuilder) error {
	names := make([]string, len(fieldBuilders))
	for i, fb := range fieldBuilders {
		names[i] = string(fb.Name())
	}
	tags, err := hashTags(names)
	if err != nil {
		return err
	}
	for i, fb := range fieldBuilders {
		fb.SetNumber(protoreflect.FieldNumber(tags[i]))
	}
	return nil
}

func allocateEnumValueNumbers(enumValueBuilders []*protobuilder.EnumValueBuilder) error {
	names := make([]string, len(enumValueBuilders))
	for i, evb := range enumValueBuilders {
		names[i] = string(evb.Name())
	}
	tags, err := hashTags(names)
	if err != nil {
		return err
	}
	for i, evb := range enumValueBuilders {
		evb.SetNumber(protoreflect.EnumNumber(tags[i]))
	}
	return nil
}

// hashTags assigns each name (FNV-32a(name) % maxTag) + 1, probing linearly
// past collisions and the reserved block. Names are probed in sorted order.
func hashTags(names []string) ([]int, error) {
	order := make([]int, len(names))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return names[order[i]] < names[order[j]] })

	tags := make([]int, len(names))
	used := make(map[int]bool, len(names))
	for _, idx := range order {
		start := int(fnv32(names[idx])%maxTag) + 1
		tag := start
		for {
			if tag >= reservedTagStart && tag <= reservedTagEnd {
				tag = reservedTagEnd + 1
			}
			if !used[tag] {
				break
			}
			tag++
			if tag > maxTag {
				tag = 1
			}
			if tag == start {
				return nil, fmt.Errorf("tag space exhausted while numbering %q", names[idx])
			}
		}
		used[tag] = true
		tags[idx] = tag
	}
	return tags, nil
}

func fnv32(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}
