package protoreg

import (
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Registry maps schema entities and document shapes to the descriptors of
// the generated proto file.
type Registry struct {
	file          protoreflect.FileDescriptor
	messages      map[string]protoreflect.MessageDescriptor
	enums         map[string]protoreflect.EnumDescriptor
	shapes        map[[2]string]protoreflect.MessageDescriptor
	propertyField map[[2]string]protoreflect.FieldDescriptor
}

// File returns the generated file.
func (r *Registry) File() protoreflect.FileDescriptor {
	return r.file
}

// Message returns the message of an object, interface, union, input or
// arguments entity.
func (r *Registry) Message(entity string) protoreflect.MessageDescriptor {
	return r.messages[entity]
}

// Enum returns the enum of an enum entity.
func (r *Registry) Enum(entity string) protoreflect.EnumDescriptor {
	return r.enums[entity]
}

// ShapeMessage returns the message nested under the namespace message for
// one shape, including the Variables shape of an operation.
func (r *Registry) ShapeMessage(namespace, shape string) protoreflect.MessageDescriptor {
	return r.shapes[[2]string{namespace, shape}]
}

// PropertyField returns the message field generated for a property of an
// entity.
func (r *Registry) PropertyField(entity, property string) protoreflect.FieldDescriptor {
	return r.propertyField[[2]string{entity, property}]
}
