package protoreg

import (
	"fmt"

	"github.com/hanpama/shapegen/internal/ir"
	"github.com/jhump/protoreflect/v2/protobuilder"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Options configures the generated file.
type Options struct {
	// Path is the file path recorded in the descriptor and used by RenderDir.
	Path string `yaml:"path"`
	// Package is the proto package name.
	Package string `yaml:"package"`
	// Scalars maps scalar names to proto scalar type names such as "int64".
	// It is merged over DefaultScalars.
	Scalars map[string]string `yaml:"scalars"`
}

const (
	defaultPath    = "schema.proto"
	defaultPackage = "graphql"
)

// Build converts a schema context and, when dc is not nil, the namespaces of
// a document batch into a single proto3 file.
func Build(sc *ir.SchemaContext, dc *ir.DocumentsContext, opts Options) (*Registry, error) {
	if opts.Path == "" {
		opts.Path = defaultPath
	}
	if opts.Package == "" {
		opts.Package = defaultPackage
	}

	fb := protobuilder.NewFile(opts.Path)
	fb.SetPackageName(protoreflect.FullName(opts.Package))
	fb.SetSyntax(protoreflect.Proto3)

	b := &builder{
		schema:          sc,
		opts:            opts,
		file:            fb,
		messageBuilders: make(map[string]*protobuilder.MessageBuilder),
		enumBuilders:    make(map[string]*protobuilder.EnumBuilder),
		shapeBuilders:   make(map[[2]string]*protobuilder.MessageBuilder),
		listWrappers:    make(map[protoreflect.Name]*protobuilder.MessageBuilder),
		propertyFields:  make(map[[2]string]*protobuilder.FieldBuilder),
	}

	// Pass 1: declare a message or enum per entity so that fields can refer
	// to any of them.
	for _, e := range sc.Entities {
		if err := b.declareEntity(e); err != nil {
			return nil, err
		}
	}

	// Pass 2: declare a message per namespace with one nested message per
	// shape.
	var namespaces []*ir.Namespace
	if dc != nil {
		namespaces = dc.Namespaces()
	}
	for _, ns := range namespaces {
		b.declareNamespace(ns)
	}

	// Pass 3: fields.
	for _, e := range sc.Entities {
		if err := b.addEntityFields(e); err != nil {
			return nil, err
		}
	}
	for _, ns := range namespaces {
		if err := b.addNamespaceFields(ns); err != nil {
			return nil, err
		}
	}

	fd, err := fb.Build()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", opts.Path, err)
	}
	return b.registry(fd), nil
}

type builder struct {
	schema *ir.SchemaContext
	opts   Options
	file   *protobuilder.FileBuilder

	messageBuilders map[string]*protobuilder.MessageBuilder
	enumBuilders    map[string]*protobuilder.EnumBuilder
	// [namespace, shape] -> nested message
	shapeBuilders map[[2]string]*protobuilder.MessageBuilder
	listWrappers  map[protoreflect.Name]*protobuilder.MessageBuilder
	// [entity, property] -> field
	propertyFields map[[2]string]*protobuilder.FieldBuilder
}

// registry resolves the built descriptors of every builder by name.
func (b *builder) registry(fd protoreflect.FileDescriptor) *Registry {
	reg := &Registry{
		file:          fd,
		messages:      make(map[string]protoreflect.MessageDescriptor),
		enums:         make(map[string]protoreflect.EnumDescriptor),
		shapes:        make(map[[2]string]protoreflect.MessageDescriptor),
		propertyField: make(map[[2]string]protoreflect.FieldDescriptor),
	}
	for name, mb := range b.messageBuilders {
		reg.messages[name] = fd.Messages().ByName(mb.Name())
	}
	for name, eb := range b.enumBuilders {
		reg.enums[name] = fd.Enums().ByName(eb.Name())
	}
	for key, mb := range b.shapeBuilders {
		parent := fd.Messages().ByName(nameMessage(key[0]))
		if parent == nil {
			continue
		}
		reg.shapes[key] = parent.Messages().ByName(mb.Name())
	}
	for key, fb := range b.propertyFields {
		if md := reg.messages[key[0]]; md != nil {
			reg.propertyField[key] = md.Fields().ByName(fb.Name())
		}
	}
	return reg
}
