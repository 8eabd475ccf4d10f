package eventstream_test

import (
	"context"
	"testing"

	"github.com/bufbuild/protocompile"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/pluginpb"

	"github.com/sae3023/ProtoData/descriptor"
	"github.com/sae3023/ProtoData/event"
	"github.com/sae3023/ProtoData/eventstream"
)

const fixtureSource = `
syntax = "proto3";
package spine.test;

message Outer {
  string name = 1;

  message Inner {
    int32 value = 1;
  }
  Inner inner = 2;

  enum Status {
    UNKNOWN = 0;
    ACTIVE = 1;
  }
  Status status = 3;

  oneof choice {
    string a = 4;
    string b = 5;
  }
}

enum TopLevel {
  TOP_UNKNOWN = 0;
}

service Greeter {
  rpc Greet(Outer) returns (Outer);
}
`

func buildFileSet(t *testing.T) *descriptor.FileSet {
	t.Helper()
	compiler := protocompile.Compiler{
		Resolver: &protocompile.SourceResolver{
			Accessor: protocompile.SourceAccessorFromMap(map[string]string{"fixture.proto": fixtureSource}),
		},
	}
	compiled, err := compiler.Compile(context.Background(), "fixture.proto")
	if err != nil {
		t.Fatalf("compiling fixture: %v", err)
	}
	protos := make([]*descriptorpb.FileDescriptorProto, len(compiled))
	for i, fd := range compiled {
		protos[i] = protodesc.ToFileDescriptorProto(fd)
	}
	req := &pluginpb.CodeGeneratorRequest{
		FileToGenerate: []string{"fixture.proto"},
		ProtoFile:      protos,
	}
	fs, err := descriptor.NewFileSet(req)
	if err != nil {
		t.Fatalf("NewFileSet: %v", err)
	}
	return fs
}

func drainAll(s *eventstream.Stream) []event.Event {
	var out []event.Event
	eventstream.Drain(s, func(ev event.Event) { out = append(out, ev) })
	return out
}

// TestWellFormedness checks part of spec.md §8's event well-formedness
// property: FileEntered/FileExited bracket the stream, and Entered/Exited
// events (types, enums, services, and separately oneof groups) balance
// without ever closing more than were opened. The relative order of
// options and fields is not checked here.
func TestWellFormedness(t *testing.T) {
	fs := buildFileSet(t)
	events := drainAll(eventstream.New(fs))

	if len(events) == 0 {
		t.Fatal("expected events, got none")
	}
	first, ok := events[0].(*event.FileEnteredEvent)
	if !ok {
		t.Fatalf("first event = %T, want FileEnteredEvent", events[0])
	}
	if first.File.Path != "fixture.proto" {
		t.Errorf("FileEntered path = %q", first.File.Path)
	}
	last, ok := events[len(events)-1].(*event.FileExitedEvent)
	if !ok {
		t.Fatalf("last event = %T, want FileExitedEvent", events[len(events)-1])
	}
	if last.Path != "fixture.proto" {
		t.Errorf("FileExited path = %q", last.Path)
	}

	var depth int
	var oneofDepth int
	for _, ev := range events {
		switch ev.(type) {
		case *event.TypeEnteredEvent, *event.EnumEnteredEvent, *event.ServiceEnteredEvent:
			depth++
		case *event.TypeExitedEvent, *event.EnumExitedEvent, *event.ServiceExitedEvent:
			depth--
			if depth < 0 {
				t.Fatal("more Exited than Entered events")
			}
		case *event.OneofGroupEnteredEvent:
			oneofDepth++
		case *event.OneofGroupExitedEvent:
			oneofDepth--
			if oneofDepth < 0 {
				t.Fatal("OneofGroupExited without matching Entered")
			}
		}
	}
	if depth != 0 {
		t.Errorf("unbalanced Entered/Exited events, depth = %d", depth)
	}
	if oneofDepth != 0 {
		t.Errorf("unbalanced oneof group events, depth = %d", oneofDepth)
	}
}

// TestOneofBracketing checks that the two fields of the "choice" oneof
// are bracketed by a single OneofGroupEntered/Exited pair, and that no
// other field sits inside that bracket.
func TestOneofBracketing(t *testing.T) {
	fs := buildFileSet(t)
	events := drainAll(eventstream.New(fs))

	var insideOneof bool
	var sawA, sawB bool
	var fieldsInsideOneof int
	for _, ev := range events {
		switch e := ev.(type) {
		case *event.OneofGroupEnteredEvent:
			insideOneof = true
		case *event.OneofGroupExitedEvent:
			insideOneof = false
		case *event.FieldEnteredEvent:
			if insideOneof {
				fieldsInsideOneof++
				switch e.Field.Name {
				case "a":
					sawA = true
				case "b":
					sawB = true
				}
			}
		}
	}
	if fieldsInsideOneof != 2 || !sawA || !sawB {
		t.Errorf("want exactly fields a,b bracketed by the oneof group, got %d fields (a=%v b=%v)", fieldsInsideOneof, sawA, sawB)
	}
}

// TestLaziness checks the visible side of laziness: the stream yields
// FileEntered on the first Next call and a further event, with an
// identity, on the second. It does not inspect the stream's internal
// stack.
func TestLaziness(t *testing.T) {
	fs := buildFileSet(t)
	s := eventstream.New(fs)

	ev, ok := s.Next()
	if !ok {
		t.Fatal("expected at least one event")
	}
	if _, ok := ev.(*event.FileEnteredEvent); !ok {
		t.Fatalf("first event = %T, want FileEnteredEvent", ev)
	}

	// The stream must still be able to produce many more events; if the
	// whole file had been eagerly flattened into a slice up front, this
	// would be indistinguishable from the lazy case by count alone, so
	// the real assertion is architectural: Next only ever computes one
	// event per call (see Stream.Next), not a property a black-box count
	// can witness. This test instead pins the visible contract: a second
	// event follows FileEntered and carries an identity.
	second, ok := s.Next()
	if !ok {
		t.Fatal("expected a second event")
	}
	if _, ok := second.(*event.FileOptionDiscoveredEvent); ok {
		// no file-level options in the fixture; fall through
	}
	if second.Identity() == nil {
		t.Fatal("second event has no identity")
	}
}
