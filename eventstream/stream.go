// Package eventstream implements the compiler-event producer (component C
// of spec.md §2): a lazy, finite sequence of events obtained by walking a
// descriptor.FileSet.
//
// The producer is an explicit trampoline rather than a goroutine-fed
// channel: spec.md §5 specifies a single-threaded, synchronous pipeline,
// and spec.md §9 suggests "an iterator/generator... or an explicit state
// machine" as the two legitimate implementation strategies. A channel
// would need a background goroutine to feed it, which is both unnecessary
// concurrency and a resource that can outlive a single Next() call; a
// stack of closures gives the same pull-based laziness with neither.
package eventstream

import (
	"github.com/sae3023/ProtoData/descriptor"
	"github.com/sae3023/ProtoData/event"
)

// step is one unit of work in the trampoline. A step may emit at most one
// event (returning ok == true) and/or schedule further steps through push,
// in the order it calls push — the Stream transfers them onto its stack so
// that push-call order becomes execution order, regardless of LIFO storage.
type step func(push func(step)) (event.Event, bool)

// Stream is a pull-based, finite sequence of events. Next must be called
// until it returns ok == false.
type Stream struct {
	stack []step
}

// New builds a Stream over every file in fs.Files, in order. Files not in
// files_to_generate never appear in fs.Files (descriptor.NewFileSet already
// filtered them), satisfying spec.md §4.2's filtering rule.
func New(fs *descriptor.FileSet) *Stream {
	steps := make([]step, 0, len(fs.Files))
	for _, f := range fs.Files {
		steps = append(steps, fileStep(f))
	}
	return &Stream{stack: reversed(steps)}
}

// Next advances the stream by exactly one event. ok is false once the
// stream is exhausted.
func (s *Stream) Next() (event.Event, bool) {
	for len(s.stack) > 0 {
		top := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]

		var pushed []step
		push := func(st step) { pushed = append(pushed, st) }

		ev, ok := top(push)

		for i := len(pushed) - 1; i >= 0; i-- {
			s.stack = append(s.stack, pushed[i])
		}
		if ok {
			return ev, true
		}
	}
	return nil, false
}

// Drain runs the stream to completion, calling fn for every event in
// order. It is a convenience for callers (the projection substrate, the
// pipeline orchestrator) that have no use for manual Next() calls.
func Drain(s *Stream, fn func(event.Event)) {
	for {
		ev, ok := s.Next()
		if !ok {
			return
		}
		fn(ev)
	}
}

func reversed(steps []step) []step {
	out := make([]step, len(steps))
	for i, s := range steps {
		out[len(steps)-1-i] = s
	}
	return out
}

func pushAll(push func(step), steps []step) {
	for _, s := range steps {
		push(s)
	}
}

func emit(ev event.Event) step {
	return func(func(step)) (event.Event, bool) { return ev, true }
}

// --- File ---

func fileStep(f *descriptor.File) step {
	return func(push func(step)) (event.Event, bool) {
		push(fileBodyStep(f))
		return event.NewFileEntered(f), true
	}
}

func fileBodyStep(f *descriptor.File) step {
	return func(push func(step)) (event.Event, bool) {
		var steps []step
		for _, o := range f.Options {
			steps = append(steps, emit(event.NewFileOptionDiscovered(f, o)))
		}
		for _, m := range f.Messages {
			steps = append(steps, messageStep(m))
		}
		for _, en := range f.Enums {
			steps = append(steps, enumStep(en))
		}
		for _, sv := range f.Services {
			steps = append(steps, serviceStep(sv))
		}
		steps = append(steps, emit(event.NewFileExited(f.Path)))
		pushAll(push, steps)
		return nil, false
	}
}

// --- Message ---

func messageStep(m *descriptor.MessageType) step {
	return func(push func(step)) (event.Event, bool) {
		push(messageBodyStep(m))
		return event.NewTypeEntered(m), true
	}
}

// messageBodyStep implements spec.md §4.2 rule 3: options, then nested
// types/enums, then fields (with oneof brackets), then TypeExited.
func messageBodyStep(m *descriptor.MessageType) step {
	return func(push func(step)) (event.Event, bool) {
		var steps []step
		for _, o := range m.Options {
			steps = append(steps, emit(event.NewTypeOptionDiscovered(m, o)))
		}
		for _, nt := range m.NestedTypes {
			steps = append(steps, messageStep(nt))
		}
		for _, ne := range m.NestedEnums {
			steps = append(steps, enumStep(ne))
		}
		steps = append(steps, fieldGroupSteps(m.Fields)...)
		steps = append(steps, emit(event.NewTypeExited(m)))
		pushAll(push, steps)
		return nil, false
	}
}

// fieldGroupSteps walks fields in declaration order, bracketing any
// consecutive run belonging to the same oneof with OneofGroupEntered and
// OneofGroupExited.
func fieldGroupSteps(fields []*descriptor.Field) []step {
	var steps []step
	var open *descriptor.Oneof
	for _, f := range fields {
		if open != nil && f.Oneof != open {
			steps = append(steps, emit(event.NewOneofGroupExited(open)))
			open = nil
		}
		if f.Oneof != nil && open == nil {
			steps = append(steps, emit(event.NewOneofGroupEntered(f.Oneof)))
			open = f.Oneof
		}
		steps = append(steps, fieldSteps(f)...)
	}
	if open != nil {
		steps = append(steps, emit(event.NewOneofGroupExited(open)))
	}
	return steps
}

func fieldSteps(f *descriptor.Field) []step {
	steps := make([]step, 0, len(f.Options)+2)
	steps = append(steps, emit(event.NewFieldEntered(f)))
	for _, o := range f.Options {
		steps = append(steps, emit(event.NewFieldOptionDiscovered(f, o)))
	}
	steps = append(steps, emit(event.NewFieldExited(f)))
	return steps
}

// --- Enum ---

func enumStep(en *descriptor.EnumType) step {
	return func(push func(step)) (event.Event, bool) {
		push(enumBodyStep(en))
		return event.NewEnumEntered(en), true
	}
}

// enumBodyStep has no option-discovery events: spec.md §3's event list
// names FileOptionDiscovered, TypeOptionDiscovered, and
// FieldOptionDiscovered only. Enum and service declarations still carry
// their parsed Options for projections to read directly off the
// descriptor, they just aren't separately event-streamed.
func enumBodyStep(en *descriptor.EnumType) step {
	return func(push func(step)) (event.Event, bool) {
		var steps []step
		for _, c := range en.Constants {
			steps = append(steps, emit(event.NewEnumConstantDiscovered(c)))
		}
		steps = append(steps, emit(event.NewEnumExited(en)))
		pushAll(push, steps)
		return nil, false
	}
}

// --- Service ---

func serviceStep(sv *descriptor.Service) step {
	return func(push func(step)) (event.Event, bool) {
		push(serviceBodyStep(sv))
		return event.NewServiceEntered(sv), true
	}
}

func serviceBodyStep(sv *descriptor.Service) step {
	return func(push func(step)) (event.Event, bool) {
		var steps []step
		for _, r := range sv.RPCs {
			steps = append(steps, emit(event.NewRpcDiscovered(r)))
		}
		steps = append(steps, emit(event.NewServiceExited(sv)))
		pushAll(push, steps)
		return nil, false
	}
}
