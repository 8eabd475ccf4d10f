package descriptor

import (
	"strconv"
	"strings"

	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/pluginpb"

	"github.com/sae3023/ProtoData/protoerr"
)

// FileSet is the result of walking a CodeGeneratorRequest: every file in
// files_to_generate, fully built, plus enough of the rest of the
// descriptor set (imported-but-not-generated files) to resolve field type
// references against. Building a FileSet is the "Parse" half of
// spec.md §4.7 phase 2, run once before the lazy event stream is drained.
type FileSet struct {
	// Files holds only the files named in files_to_generate, in request
	// order — this is what the event producer (component C) walks.
	Files []*File

	filesByPath map[string]*File
}

// FileByPath returns the generated file with the given descriptor path,
// if any.
func (fs *FileSet) FileByPath(path string) (*File, bool) {
	f, ok := fs.filesByPath[path]
	return f, ok
}

// registry indexes every message and enum across the whole descriptor set
// (not just files_to_generate), so that field type references into
// imported-but-not-generated files still resolve, per spec.md §4.2.
type registry struct {
	rawMessages map[string]*descriptorpb.DescriptorProto
	typeNames   map[string]TypeName
}

// NewFileSet builds the descriptor model for req. It returns a
// protoerr.DescriptorResolution error naming the offending type on any
// unresolvable field type reference.
func NewFileSet(req *pluginpb.CodeGeneratorRequest) (*FileSet, error) {
	reg := &registry{
		rawMessages: make(map[string]*descriptorpb.DescriptorProto),
		typeNames:   make(map[string]TypeName),
	}

	// Pass 1: index every message/enum across the entire descriptor set,
	// and build the File/MessageType/EnumType/Service tree for every file.
	builtByPath := make(map[string]*File, len(req.GetProtoFile()))
	for _, fdp := range req.GetProtoFile() {
		f := buildFile(fdp, reg)
		builtByPath[fdp.GetName()] = f
	}

	// Pass 2: resolve field types, now that every type in the descriptor
	// set is registered.
	for _, fdp := range req.GetProtoFile() {
		f := builtByPath[fdp.GetName()]
		if err := resolveFile(f, fdp, reg); err != nil {
			return nil, err
		}
	}

	fs := &FileSet{filesByPath: make(map[string]*File)}
	for _, name := range req.GetFileToGenerate() {
		f, ok := builtByPath[name]
		if !ok {
			return nil, protoerr.Newf(protoerr.RequestParse, "no descriptor for generated file %q", name)
		}
		fs.Files = append(fs.Files, f)
		fs.filesByPath[name] = f
	}
	return fs, nil
}

func buildFile(fdp *descriptorpb.FileDescriptorProto, reg *registry) *File {
	idx := newDocIndex(fdp)
	f := &File{
		Path:    fdp.GetName(),
		Package: fdp.GetPackage(),
		Syntax:  fdp.GetSyntax(),
		Options: extractOptions(fdp.GetOptions().GetUninterpretedOption()),
		Doc:     idx.doc(nil),
		Proto:   fdp,
	}
	for i, mdp := range fdp.GetMessageType() {
		path := appendPath(nil, fileMessageTypeField, int32(i))
		f.Messages = append(f.Messages, buildMessage(mdp, f, nil, nil, path, idx, reg))
	}
	for i, edp := range fdp.GetEnumType() {
		path := appendPath(nil, fileEnumTypeField, int32(i))
		f.Enums = append(f.Enums, buildEnum(edp, f, nil, nil, path, idx, reg))
	}
	for i, sdp := range fdp.GetService() {
		path := appendPath(nil, fileServiceField, int32(i))
		f.Services = append(f.Services, buildService(sdp, f, path, idx))
	}
	return f
}

func buildMessage(mdp *descriptorpb.DescriptorProto, f *File, parent *MessageType, nesting []string, path []int32, idx *docIndex, reg *registry) *MessageType {
	name := TypeName{
		SimpleName:       mdp.GetName(),
		PackageName:      f.Package,
		NestingTypeNames: append([]string{}, nesting...),
	}
	m := &MessageType{
		Name:    name,
		Options: extractOptions(mdp.GetOptions().GetUninterpretedOption()),
		Doc:     idx.doc(path),
		File:    f,
		Parent:  parent,
	}
	reg.rawMessages[name.QualifiedName()] = mdp
	reg.typeNames[name.QualifiedName()] = name

	childNesting := append(append([]string{}, nesting...), mdp.GetName())

	for i, fdp := range mdp.GetField() {
		fieldPath := appendPath(path, messageFieldField, int32(i))
		m.Fields = append(m.Fields, &Field{
			Name:          fdp.GetName(),
			Number:        fdp.GetNumber(),
			Cardinality:   Cardinality(fdp.GetLabel()),
			OneofName:     oneofNameFor(mdp, fdp),
			Options:       extractOptions(fdp.GetOptions().GetUninterpretedOption()),
			Doc:           idx.doc(fieldPath),
			DeclaringType: m,
		})
	}
	for i, odp := range mdp.GetOneofDecl() {
		_ = appendPath(path, messageOneofDeclField, int32(i)) // reserved for future doc resolution on oneofs
		oneof := &Oneof{Name: odp.GetName(), DeclaringType: m}
		m.Oneofs = append(m.Oneofs, oneof)
		for _, field := range m.Fields {
			if field.OneofName == odp.GetName() {
				field.Oneof = oneof
				oneof.Fields = append(oneof.Fields, field)
			}
		}
	}
	for i, ndp := range mdp.GetNestedType() {
		nestedPath := appendPath(path, messageNestedTypeField, int32(i))
		m.NestedTypes = append(m.NestedTypes, buildMessage(ndp, f, m, childNesting, nestedPath, idx, reg))
	}
	for i, edp := range mdp.GetEnumType() {
		nestedPath := appendPath(path, messageEnumTypeField, int32(i))
		m.NestedEnums = append(m.NestedEnums, buildEnum(edp, f, m, childNesting, nestedPath, idx, reg))
	}
	return m
}

func buildEnum(edp *descriptorpb.EnumDescriptorProto, f *File, parent *MessageType, nesting []string, path []int32, idx *docIndex, reg *registry) *EnumType {
	name := TypeName{
		SimpleName:       edp.GetName(),
		PackageName:      f.Package,
		NestingTypeNames: append([]string{}, nesting...),
	}
	e := &EnumType{
		Name:    name,
		Options: extractOptions(edp.GetOptions().GetUninterpretedOption()),
		Doc:     idx.doc(path),
		File:    f,
		Parent:  parent,
	}
	reg.typeNames[name.QualifiedName()] = name
	for i, vdp := range edp.GetValue() {
		valuePath := appendPath(path, enumValueField, int32(i))
		e.Constants = append(e.Constants, &EnumConstant{
			Name:    vdp.GetName(),
			Number:  vdp.GetNumber(),
			Options: extractOptions(vdp.GetOptions().GetUninterpretedOption()),
			Doc:     idx.doc(valuePath),
			Enum:    e,
		})
	}
	return e
}

func buildService(sdp *descriptorpb.ServiceDescriptorProto, f *File, path []int32, idx *docIndex) *Service {
	s := &Service{
		Name:    TypeName{SimpleName: sdp.GetName(), PackageName: f.Package},
		Options: extractOptions(sdp.GetOptions().GetUninterpretedOption()),
		Doc:     idx.doc(path),
		File:    f,
	}
	for i, mdp := range sdp.GetMethod() {
		methodPath := appendPath(path, serviceMethodField, int32(i))
		s.RPCs = append(s.RPCs, &RPC{
			Name:            mdp.GetName(),
			InputType:       TypeName{}, // filled in resolveFile
			OutputType:      TypeName{},
			ClientStreaming: mdp.GetClientStreaming(),
			ServerStreaming: mdp.GetServerStreaming(),
			Options:         extractOptions(mdp.GetOptions().GetUninterpretedOption()),
			Doc:             idx.doc(methodPath),
			Service:         s,
		})
	}
	return s
}

func oneofNameFor(mdp *descriptorpb.DescriptorProto, fdp *descriptorpb.FieldDescriptorProto) string {
	if fdp.OneofIndex == nil {
		return ""
	}
	idx := fdp.GetOneofIndex()
	if int(idx) < 0 || int(idx) >= len(mdp.GetOneofDecl()) {
		return ""
	}
	return mdp.GetOneofDecl()[idx].GetName()
}

// resolveFile fills in every Field.Type and RPC input/output TypeName in f,
// now that reg knows about every type in the descriptor set.
func resolveFile(f *File, fdp *descriptorpb.FileDescriptorProto, reg *registry) error {
	for i, mdp := range fdp.GetMessageType() {
		if err := resolveMessage(f.Messages[i], mdp, reg); err != nil {
			return err
		}
	}
	for i, sdp := range fdp.GetService() {
		if err := resolveService(f.Services[i], sdp, reg); err != nil {
			return err
		}
	}
	return nil
}

func resolveMessage(m *MessageType, mdp *descriptorpb.DescriptorProto, reg *registry) error {
	for i, fdp := range mdp.GetField() {
		ft, err := resolveFieldType(fdp, reg)
		if err != nil {
			return err
		}
		m.Fields[i].Type = ft
	}
	for i, ndp := range mdp.GetNestedType() {
		if err := resolveMessage(m.NestedTypes[i], ndp, reg); err != nil {
			return err
		}
	}
	return nil
}

func resolveService(s *Service, sdp *descriptorpb.ServiceDescriptorProto, reg *registry) error {
	for i, mdp := range sdp.GetMethod() {
		in, err := resolveTypeName(mdp.GetInputType(), reg)
		if err != nil {
			return err
		}
		out, err := resolveTypeName(mdp.GetOutputType(), reg)
		if err != nil {
			return err
		}
		s.RPCs[i].InputType = in
		s.RPCs[i].OutputType = out
	}
	return nil
}

func resolveTypeName(protoTypeName string, reg *registry) (TypeName, error) {
	qname := strings.TrimPrefix(protoTypeName, ".")
	tn, ok := reg.typeNames[qname]
	if !ok {
		return TypeName{}, protoerr.Newf(protoerr.DescriptorResolution, "unknown type %q", qname)
	}
	return tn, nil
}

// resolveFieldType resolves the FieldType tagged union for fdp, recursing
// into a map entry's synthetic key/value fields when fdp describes a map.
func resolveFieldType(fdp *descriptorpb.FieldDescriptorProto, reg *registry) (FieldType, error) {
	repeated := fdp.GetLabel() == descriptorpb.FieldDescriptorProto_LABEL_REPEATED

	switch fdp.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, descriptorpb.FieldDescriptorProto_TYPE_GROUP:
		qname := strings.TrimPrefix(fdp.GetTypeName(), ".")
		raw, ok := reg.rawMessages[qname]
		if !ok {
			return FieldType{}, protoerr.Newf(protoerr.DescriptorResolution, "unknown message type %q", qname)
		}
		if raw.GetOptions().GetMapEntry() {
			keyField := fieldByNumber(raw, 1)
			valueField := fieldByNumber(raw, 2)
			if keyField == nil || valueField == nil {
				return FieldType{}, protoerr.Newf(protoerr.DescriptorResolution, "malformed map entry %q", qname)
			}
			keyType, err := resolveFieldType(keyField, reg)
			if err != nil {
				return FieldType{}, err
			}
			valueType, err := resolveFieldType(valueField, reg)
			if err != nil {
				return FieldType{}, err
			}
			kt, vt := keyType, valueType
			return FieldType{Kind: MapKind, MapKeyType: &kt, MapValueType: &vt}, nil
		}
		tn, ok := reg.typeNames[qname]
		if !ok {
			return FieldType{}, protoerr.Newf(protoerr.DescriptorResolution, "unknown message type %q", qname)
		}
		base := FieldType{Kind: MessageKind, Message: tn}
		return wrapIfRepeated(base, repeated), nil

	case descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		tn, err := resolveTypeName(fdp.GetTypeName(), reg)
		if err != nil {
			return FieldType{}, err
		}
		base := FieldType{Kind: EnumKind, Enum: tn}
		return wrapIfRepeated(base, repeated), nil

	default:
		base := FieldType{Kind: PrimitiveKind, Primitive: fdp.GetType()}
		return wrapIfRepeated(base, repeated), nil
	}
}

func wrapIfRepeated(base FieldType, repeated bool) FieldType {
	if !repeated {
		return base
	}
	elem := base
	return FieldType{Kind: ListKind, ListElement: &elem}
}

func fieldByNumber(mdp *descriptorpb.DescriptorProto, number int32) *descriptorpb.FieldDescriptorProto {
	for _, fdp := range mdp.GetField() {
		if fdp.GetNumber() == number {
			return fdp
		}
	}
	return nil
}

// extractOptions converts the uninterpreted option list attached to a
// descriptor into the core's opaque Option value type. The core never
// interprets options semantically (spec.md §1 non-goals); this is enough
// for plugins to query option presence and raw values.
func extractOptions(opts []*descriptorpb.UninterpretedOption) []Option {
	out := make([]Option, 0, len(opts))
	for _, o := range opts {
		out = append(out, Option{
			Name:  optionName(o),
			Value: optionValue(o),
		})
	}
	return out
}

func optionName(o *descriptorpb.UninterpretedOption) string {
	parts := make([]string, 0, len(o.GetName()))
	for _, p := range o.GetName() {
		n := p.GetNamePart()
		if p.GetIsExtension() {
			n = "(" + n + ")"
		}
		parts = append(parts, n)
	}
	return strings.Join(parts, ".")
}

func optionValue(o *descriptorpb.UninterpretedOption) string {
	switch {
	case o.IdentifierValue != nil:
		return o.GetIdentifierValue()
	case o.PositiveIntValue != nil:
		return strconv.FormatUint(o.GetPositiveIntValue(), 10)
	case o.NegativeIntValue != nil:
		return strconv.FormatInt(o.GetNegativeIntValue(), 10)
	case o.DoubleValue != nil:
		return strconv.FormatFloat(o.GetDoubleValue(), 'g', -1, 64)
	case o.StringValue != nil:
		return string(o.GetStringValue())
	case o.AggregateValue != nil:
		return o.GetAggregateValue()
	default:
		return ""
	}
}
