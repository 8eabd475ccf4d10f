// Package event defines the tagged event variants the compiler-event
// producer (package eventstream) yields while walking a descriptor set.
// Events are plain immutable records: no behavior beyond accessors and
// equality, per spec.md §4.1.
package event

import "github.com/sae3023/ProtoData/descriptor"

// Kind discriminates the Event tagged union.
type Kind int

const (
	FileEntered Kind = iota
	FileOptionDiscovered
	TypeEntered
	TypeOptionDiscovered
	FieldEntered
	FieldOptionDiscovered
	FieldExited
	OneofGroupEntered
	OneofGroupExited
	TypeExited
	EnumEntered
	EnumConstantDiscovered
	EnumExited
	ServiceEntered
	RpcDiscovered
	ServiceExited
	FileExited
)

func (k Kind) String() string {
	switch k {
	case FileEntered:
		return "FileEntered"
	case FileOptionDiscovered:
		return "FileOptionDiscovered"
	case TypeEntered:
		return "TypeEntered"
	case TypeOptionDiscovered:
		return "TypeOptionDiscovered"
	case FieldEntered:
		return "FieldEntered"
	case FieldOptionDiscovered:
		return "FieldOptionDiscovered"
	case FieldExited:
		return "FieldExited"
	case OneofGroupEntered:
		return "OneofGroupEntered"
	case OneofGroupExited:
		return "OneofGroupExited"
	case TypeExited:
		return "TypeExited"
	case EnumEntered:
		return "EnumEntered"
	case EnumConstantDiscovered:
		return "EnumConstantDiscovered"
	case EnumExited:
		return "EnumExited"
	case ServiceEntered:
		return "ServiceEntered"
	case RpcDiscovered:
		return "RpcDiscovered"
	case ServiceExited:
		return "ServiceExited"
	case FileExited:
		return "FileExited"
	default:
		return "Kind(?)"
	}
}

// Event is the tagged union of everything the producer can yield. Kind
// discriminates which concrete *...Event struct a value is; a caller can
// switch on Kind alone, or type-assert the concrete struct to reach its
// descriptor fields.
type Event interface {
	Kind() Kind
	// Identity returns the key a projection would route this event by —
	// a TypeName, a field's qualified name, or a file path, per
	// spec.md §4.1's "identity fields ... must implement stable equality".
	Identity() interface{}

	isEvent()
}

type base struct{ kind Kind }

func (b base) Kind() Kind { return b.kind }
func (base) isEvent()     {}

// FileEnteredEvent marks the start of a generated file's sub-stream.
type FileEnteredEvent struct {
	base
	File *descriptor.File
}

func NewFileEntered(f *descriptor.File) *FileEnteredEvent {
	return &FileEnteredEvent{base{FileEntered}, f}
}
func (e *FileEnteredEvent) Identity() interface{} { return e.File.Path }

// FileOptionDiscoveredEvent reports one option on a file.
type FileOptionDiscoveredEvent struct {
	base
	File   *descriptor.File
	Option descriptor.Option
}

func NewFileOptionDiscovered(f *descriptor.File, o descriptor.Option) *FileOptionDiscoveredEvent {
	return &FileOptionDiscoveredEvent{base{FileOptionDiscovered}, f, o}
}
func (e *FileOptionDiscoveredEvent) Identity() interface{} { return e.File.Path }

// TypeEnteredEvent marks the start of a message type's sub-stream. Type
// covers both top-level and nested message declarations.
type TypeEnteredEvent struct {
	base
	Type *descriptor.MessageType
}

func NewTypeEntered(t *descriptor.MessageType) *TypeEnteredEvent {
	return &TypeEnteredEvent{base{TypeEntered}, t}
}
func (e *TypeEnteredEvent) Identity() interface{} { return e.Type.Name }

// TypeOptionDiscoveredEvent reports one option on a message type.
type TypeOptionDiscoveredEvent struct {
	base
	Type   *descriptor.MessageType
	Option descriptor.Option
}

func NewTypeOptionDiscovered(t *descriptor.MessageType, o descriptor.Option) *TypeOptionDiscoveredEvent {
	return &TypeOptionDiscoveredEvent{base{TypeOptionDiscovered}, t, o}
}
func (e *TypeOptionDiscoveredEvent) Identity() interface{} { return e.Type.Name }

// FieldEnteredEvent marks the start of a field's sub-stream.
type FieldEnteredEvent struct {
	base
	Field *descriptor.Field
}

func NewFieldEntered(f *descriptor.Field) *FieldEnteredEvent {
	return &FieldEnteredEvent{base{FieldEntered}, f}
}
func (e *FieldEnteredEvent) Identity() interface{} { return e.Field.QualifiedName() }

// FieldOptionDiscoveredEvent reports one option on a field.
type FieldOptionDiscoveredEvent struct {
	base
	Field  *descriptor.Field
	Option descriptor.Option
}

func NewFieldOptionDiscovered(f *descriptor.Field, o descriptor.Option) *FieldOptionDiscoveredEvent {
	return &FieldOptionDiscoveredEvent{base{FieldOptionDiscovered}, f, o}
}
func (e *FieldOptionDiscoveredEvent) Identity() interface{} { return e.Field.QualifiedName() }

// FieldExitedEvent closes a field's sub-stream.
type FieldExitedEvent struct {
	base
	Field *descriptor.Field
}

func NewFieldExited(f *descriptor.Field) *FieldExitedEvent {
	return &FieldExitedEvent{base{FieldExited}, f}
}
func (e *FieldExitedEvent) Identity() interface{} { return e.Field.QualifiedName() }

// OneofGroupEnteredEvent brackets the fields belonging to one oneof.
type OneofGroupEnteredEvent struct {
	base
	Oneof *descriptor.Oneof
}

func NewOneofGroupEntered(o *descriptor.Oneof) *OneofGroupEnteredEvent {
	return &OneofGroupEnteredEvent{base{OneofGroupEntered}, o}
}
func (e *OneofGroupEnteredEvent) Identity() interface{} {
	return e.Oneof.DeclaringType.Name.QualifiedName() + "." + e.Oneof.Name
}

// OneofGroupExitedEvent closes a oneof bracket.
type OneofGroupExitedEvent struct {
	base
	Oneof *descriptor.Oneof
}

func NewOneofGroupExited(o *descriptor.Oneof) *OneofGroupExitedEvent {
	return &OneofGroupExitedEvent{base{OneofGroupExited}, o}
}
func (e *OneofGroupExitedEvent) Identity() interface{} {
	return e.Oneof.DeclaringType.Name.QualifiedName() + "." + e.Oneof.Name
}

// TypeExitedEvent closes a message type's sub-stream.
type TypeExitedEvent struct {
	base
	Type *descriptor.MessageType
}

func NewTypeExited(t *descriptor.MessageType) *TypeExitedEvent {
	return &TypeExitedEvent{base{TypeExited}, t}
}
func (e *TypeExitedEvent) Identity() interface{} { return e.Type.Name }

// EnumEnteredEvent marks the start of an enum's sub-stream.
type EnumEnteredEvent struct {
	base
	Enum *descriptor.EnumType
}

func NewEnumEntered(en *descriptor.EnumType) *EnumEnteredEvent {
	return &EnumEnteredEvent{base{EnumEntered}, en}
}
func (e *EnumEnteredEvent) Identity() interface{} { return e.Enum.Name }

// EnumConstantDiscoveredEvent reports one enum value in declaration order.
type EnumConstantDiscoveredEvent struct {
	base
	Constant *descriptor.EnumConstant
}

func NewEnumConstantDiscovered(c *descriptor.EnumConstant) *EnumConstantDiscoveredEvent {
	return &EnumConstantDiscoveredEvent{base{EnumConstantDiscovered}, c}
}
func (e *EnumConstantDiscoveredEvent) Identity() interface{} {
	return e.Constant.Enum.Name.QualifiedName() + "." + e.Constant.Name
}

// EnumExitedEvent closes an enum's sub-stream.
type EnumExitedEvent struct {
	base
	Enum *descriptor.EnumType
}

func NewEnumExited(en *descriptor.EnumType) *EnumExitedEvent {
	return &EnumExitedEvent{base{EnumExited}, en}
}
func (e *EnumExitedEvent) Identity() interface{} { return e.Enum.Name }

// ServiceEnteredEvent marks the start of a service's sub-stream.
type ServiceEnteredEvent struct {
	base
	Service *descriptor.Service
}

func NewServiceEntered(s *descriptor.Service) *ServiceEnteredEvent {
	return &ServiceEnteredEvent{base{ServiceEntered}, s}
}
func (e *ServiceEnteredEvent) Identity() interface{} { return e.Service.Name }

// RpcDiscoveredEvent reports one method on a service, in declaration order.
type RpcDiscoveredEvent struct {
	base
	Rpc *descriptor.RPC
}

func NewRpcDiscovered(r *descriptor.RPC) *RpcDiscoveredEvent {
	return &RpcDiscoveredEvent{base{RpcDiscovered}, r}
}
func (e *RpcDiscoveredEvent) Identity() interface{} {
	return e.Rpc.Service.Name.QualifiedName() + "." + e.Rpc.Name
}

// ServiceExitedEvent closes a service's sub-stream.
type ServiceExitedEvent struct {
	base
	Service *descriptor.Service
}

func NewServiceExited(s *descriptor.Service) *ServiceExitedEvent {
	return &ServiceExitedEvent{base{ServiceExited}, s}
}
func (e *ServiceExitedEvent) Identity() interface{} { return e.Service.Name }

// FileExitedEvent closes a file's sub-stream. Identity is the file path,
// matching spec.md §8's well-formedness property ("FileExited(f.path)").
type FileExitedEvent struct {
	base
	Path string
}

func NewFileExited(path string) *FileExitedEvent {
	return &FileExitedEvent{base{FileExited}, path}
}
func (e *FileExitedEvent) Identity() interface{} { return e.Path }
