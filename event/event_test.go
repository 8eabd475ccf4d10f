package event_test

import (
	"testing"

	"github.com/sae3023/ProtoData/descriptor"
	"github.com/sae3023/ProtoData/event"
)

func TestKindString(t *testing.T) {
	cases := map[event.Kind]string{
		event.FileEntered:   "FileEntered",
		event.TypeExited:    "TypeExited",
		event.RpcDiscovered: "RpcDiscovered",
		event.FileExited:    "FileExited",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

func TestFieldIdentityIsQualifiedName(t *testing.T) {
	msg := &descriptor.MessageType{Name: descriptor.TypeName{SimpleName: "Widget", PackageName: "acme"}}
	field := &descriptor.Field{Name: "size", DeclaringType: msg}

	ev := event.NewFieldEntered(field)
	want := "acme.Widget.size"
	if got := ev.Identity(); got != want {
		t.Errorf("Identity() = %v, want %v", got, want)
	}
	if ev.Kind() != event.FieldEntered {
		t.Errorf("Kind() = %v, want FieldEntered", ev.Kind())
	}
}
