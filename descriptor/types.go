// Package descriptor holds the immutable value types produced once from a
// CodeGeneratorRequest: files, messages, enums, services, fields, and the
// type names that identify them. Beyond building that tree from a request
// (NewFileSet), nothing in this package has behavior other than accessors,
// equality, and the doc-comment resolution described in spec.md §4.2.
package descriptor

import (
	"strings"

	"google.golang.org/protobuf/types/descriptorpb"
)

// DefaultTypeURLPrefix mirrors the type-URL convention google.protobuf.Any
// uses for message type names.
const DefaultTypeURLPrefix = "type.googleapis.com"

// TypeName identifies a message, enum, or service type. The qualified name
// invariant is package_name + "." + simple_name, where simple_name for a
// nested type is the nesting chain joined with ".", e.g. "Outer.Inner".
type TypeName struct {
	SimpleName       string
	PackageName      string
	NestingTypeNames []string
	TypeURLPrefix    string
}

// QualifiedName returns the fully qualified proto name of this type.
func (n TypeName) QualifiedName() string {
	leaf := n.SimpleName
	if len(n.NestingTypeNames) > 0 {
		parts := make([]string, 0, len(n.NestingTypeNames)+1)
		parts = append(parts, n.NestingTypeNames...)
		parts = append(parts, n.SimpleName)
		leaf = strings.Join(parts, ".")
	}
	if n.PackageName == "" {
		return leaf
	}
	return n.PackageName + "." + leaf
}

// TypeURL returns the type.googleapis.com/-style URL for this type name.
func (n TypeName) TypeURL() string {
	prefix := n.TypeURLPrefix
	if prefix == "" {
		prefix = DefaultTypeURLPrefix
	}
	return prefix + "/" + n.QualifiedName()
}

func (n TypeName) String() string { return n.QualifiedName() }

// Option is a name/value pair discovered on a file, type, or field. Only
// uninterpreted options are modeled: the core treats options as opaque
// data for plugins to query, never interprets them semantically.
type Option struct {
	Name  string
	Value string
}

// Cardinality mirrors descriptorpb's field label.
type Cardinality descriptorpb.FieldDescriptorProto_Label

const (
	Optional = Cardinality(descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL)
	Required = Cardinality(descriptorpb.FieldDescriptorProto_LABEL_REQUIRED)
	Repeated = Cardinality(descriptorpb.FieldDescriptorProto_LABEL_REPEATED)
)

// FieldTypeKind discriminates the FieldType tagged union.
type FieldTypeKind int

const (
	PrimitiveKind FieldTypeKind = iota
	MessageKind
	EnumKind
	MapKind
	ListKind
)

// FieldType is the tagged variant { Primitive(kind) | Message(TypeName) |
// Enum(TypeName) | Map(key,value) | List(element) } from spec.md §3.
type FieldType struct {
	Kind FieldTypeKind

	Primitive descriptorpb.FieldDescriptorProto_Type // valid when Kind == PrimitiveKind

	Message TypeName // valid when Kind == MessageKind
	Enum    TypeName // valid when Kind == EnumKind

	MapKeyType   *FieldType // valid when Kind == MapKind
	MapValueType *FieldType // valid when Kind == MapKind

	ListElement *FieldType // valid when Kind == ListKind
}

// File is an immutable value type for a .proto source file.
type File struct {
	Path     string
	Package  string
	Syntax   string
	Options  []Option
	Doc      string
	Messages []*MessageType
	Enums    []*EnumType
	Services []*Service

	// Proto is the raw descriptor this File was built from, kept around
	// for renderers/plugins that need access it wasn't worth modeling.
	Proto *descriptorpb.FileDescriptorProto
}

// MessageType is an immutable value type for a message declaration.
type MessageType struct {
	Name        TypeName
	Fields      []*Field
	Oneofs      []*Oneof
	NestedTypes []*MessageType
	NestedEnums []*EnumType
	Options     []Option
	Doc         string

	File   *File
	Parent *MessageType // nil for a top-level message
}

// EnumType is an immutable value type for an enum declaration.
type EnumType struct {
	Name      TypeName
	Constants []*EnumConstant
	Options   []Option
	Doc       string

	File   *File
	Parent *MessageType // nil for a top-level enum
}

// EnumConstant is an immutable value type for one enum value.
type EnumConstant struct {
	Name    string
	Number  int32
	Options []Option
	Doc     string

	Enum *EnumType
}

// Service is an immutable value type for an RPC service declaration.
type Service struct {
	Name    TypeName
	RPCs    []*RPC
	Options []Option
	Doc     string

	File *File
}

// RPC is an immutable value type for one method on a Service.
type RPC struct {
	Name            string
	InputType       TypeName
	OutputType      TypeName
	ClientStreaming bool
	ServerStreaming bool
	Options         []Option
	Doc             string

	Service *Service
}

// Oneof is an immutable value type for a oneof group.
type Oneof struct {
	Name   string
	Fields []*Field

	DeclaringType *MessageType
}

// Field is an immutable value type for a message field. Identity for
// projection keying is the pair (DeclaringType.Name, Name).
type Field struct {
	Name          string
	Number        int32
	Type          FieldType
	Cardinality   Cardinality
	OneofName     string // empty if the field is not part of a oneof
	Options       []Option
	Doc           string

	DeclaringType *MessageType
	Oneof         *Oneof // nil if not part of a oneof
}

// QualifiedName returns "<declaring type qualified name>.<field name>",
// a stable identity for this field.
func (f *Field) QualifiedName() string {
	return f.DeclaringType.Name.QualifiedName() + "." + f.Name
}
