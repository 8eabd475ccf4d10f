package descriptor_test

import (
	"context"
	"testing"

	"github.com/bufbuild/protocompile"
	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/pluginpb"

	"github.com/sae3023/ProtoData/descriptor"
)

func compile(t *testing.T, sources map[string]string, files ...string) []*descriptorpb.FileDescriptorProto {
	t.Helper()
	compiler := protocompile.Compiler{
		Resolver: &protocompile.SourceResolver{
			Accessor: protocompile.SourceAccessorFromMap(sources),
		},
		SourceInfoMode: protocompile.SourceInfoStandard,
	}
	compiled, err := compiler.Compile(context.Background(), files...)
	if err != nil {
		t.Fatalf("compiling fixtures: %v", err)
	}
	out := make([]*descriptorpb.FileDescriptorProto, len(compiled))
	for i, fd := range compiled {
		out[i] = protodesc.ToFileDescriptorProto(fd)
	}
	return out
}

const journeySource = `
syntax = "proto3";
package spine.test;

// A Journey is a trip worth taking.
message Journey {
  string destination = 1;
  repeated string waypoints = 2;

  oneof transport {
    bool on_foot = 3;
    bool by_car = 4;
  }

  map<string, int32> distances = 5;

  enum Mood {
    UNKNOWN = 0;
    EXCITED = 1;
  }
  Mood mood = 6;
}

service Planner {
  rpc Plan(Journey) returns (Journey);
}
`

func TestNewFileSet_BuildsMessageTree(t *testing.T) {
	protos := compile(t, map[string]string{"journey.proto": journeySource}, "journey.proto")
	req := &pluginpb.CodeGeneratorRequest{
		FileToGenerate: []string{"journey.proto"},
		ProtoFile:      protos,
	}

	fs, err := descriptor.NewFileSet(req)
	if err != nil {
		t.Fatalf("NewFileSet: %v", err)
	}
	if len(fs.Files) != 1 {
		t.Fatalf("want 1 file, got %d", len(fs.Files))
	}
	f := fs.Files[0]
	if f.Package != "spine.test" {
		t.Errorf("package = %q", f.Package)
	}
	if len(f.Messages) != 1 {
		t.Fatalf("want 1 top-level message, got %d", len(f.Messages))
	}
	journey := f.Messages[0]
	if journey.Name.QualifiedName() != "spine.test.Journey" {
		t.Errorf("qualified name = %q", journey.Name.QualifiedName())
	}
	if diff := cmp.Diff("A Journey is a trip worth taking.", journey.Doc); diff != "" {
		t.Errorf("doc mismatch (-want +got):\n%s", diff)
	}
	if len(journey.NestedEnums) != 1 || journey.NestedEnums[0].Name.SimpleName != "Mood" {
		t.Fatalf("nested enum Mood not found: %+v", journey.NestedEnums)
	}

	var oneofFields int
	for _, field := range journey.Fields {
		if field.OneofName == "transport" {
			oneofFields++
		}
	}
	if oneofFields != 2 {
		t.Errorf("want 2 oneof fields, got %d", oneofFields)
	}

	var mapField *descriptor.Field
	for _, field := range journey.Fields {
		if field.Name == "distances" {
			mapField = field
		}
	}
	if mapField == nil {
		t.Fatalf("distances field not found")
	}
	if mapField.Type.Kind != descriptor.MapKind {
		t.Fatalf("distances field kind = %v, want MapKind", mapField.Type.Kind)
	}
	if mapField.Type.MapKeyType.Primitive != descriptorpb.FieldDescriptorProto_TYPE_STRING {
		t.Errorf("map key type = %v", mapField.Type.MapKeyType.Primitive)
	}
	if mapField.Type.MapValueType.Primitive != descriptorpb.FieldDescriptorProto_TYPE_INT32 {
		t.Errorf("map value type = %v", mapField.Type.MapValueType.Primitive)
	}

	var waypoints *descriptor.Field
	for _, field := range journey.Fields {
		if field.Name == "waypoints" {
			waypoints = field
		}
	}
	if waypoints == nil || waypoints.Type.Kind != descriptor.ListKind {
		t.Fatalf("waypoints field not modeled as a repeated list: %+v", waypoints)
	}

	if len(f.Services) != 1 || len(f.Services[0].RPCs) != 1 {
		t.Fatalf("service Planner/Plan not found")
	}
	rpc := f.Services[0].RPCs[0]
	if diff := cmp.Diff("spine.test.Journey", rpc.InputType.QualifiedName()); diff != "" {
		t.Errorf("rpc input type mismatch (-want +got):\n%s", diff)
	}
}

func TestNewFileSet_UnresolvableFieldType(t *testing.T) {
	// A message referencing a type that was stripped out of the request
	// entirely (simulating a malformed descriptor set) must surface a
	// DescriptorResolution error, not panic.
	broken := &descriptorpb.FileDescriptorProto{
		Name:    proto("broken.proto"),
		Package: proto("broken"),
		Syntax:  proto("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto("Holder"),
				Field: []*descriptorpb.FieldDescriptorProto{
					{
						Name:     proto("missing"),
						Number:   proto32(1),
						Label:    labelPtr(descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL),
						Type:     typePtr(descriptorpb.FieldDescriptorProto_TYPE_MESSAGE),
						TypeName: proto(".broken.Nonexistent"),
					},
				},
			},
		},
	}
	req := &pluginpb.CodeGeneratorRequest{
		FileToGenerate: []string{"broken.proto"},
		ProtoFile:      []*descriptorpb.FileDescriptorProto{broken},
	}
	_, err := descriptor.NewFileSet(req)
	if err == nil {
		t.Fatal("want error, got nil")
	}
}

func proto(s string) *string                                                     { return &s }
func proto32(n int32) *int32                                                     { return &n }
func labelPtr(l descriptorpb.FieldDescriptorProto_Label) *descriptorpb.FieldDescriptorProto_Label { return &l }
func typePtr(t descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto_Type     { return &t }
