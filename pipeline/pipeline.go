package pipeline

import (
	"google.golang.org/protobuf/types/pluginpb"

	"github.com/sae3023/ProtoData/descriptor"
	"github.com/sae3023/ProtoData/event"
	"github.com/sae3023/ProtoData/eventstream"
	"github.com/sae3023/ProtoData/projection"
	"github.com/sae3023/ProtoData/sourceset"
)

// Orchestrator wires plugins, the event stream, renderers, and the
// source set together in the fixed order spec.md §4.7 specifies. The
// zero value is ready to use; Metrics is optional and nil-safe.
type Orchestrator struct {
	Plugins   []Plugin
	Renderers []Renderer
	Metrics   *Metrics
}

// Run executes one pipeline invocation: build context, drain events,
// render, flush, close — in that order, aborting the remaining phases on
// the first failure, per spec.md §4.7 and the happens-before order in
// §5.
func (o *Orchestrator) Run(req *pluginpb.CodeGeneratorRequest, rootDir string) error {
	m := o.Metrics.orDisabled()

	// 1. Build context.
	stop := m.phase("build_context")
	builder := projection.NewBuilder()
	for _, p := range o.Plugins {
		p.FillIn(builder)
	}
	ctx := builder.Build()
	stop()

	// 2. Drain events.
	stop = m.phase("drain_events")
	fileSet, err := descriptor.NewFileSet(req)
	if err != nil {
		stop()
		return err
	}
	stream := eventstream.New(fileSet)
	eventstream.Drain(stream, func(ev event.Event) {
		m.event(ev)
		ctx.Dispatch(ev)
	})
	ctx.Freeze()
	stop()

	// 3. Render.
	stop = m.phase("render")
	set, err := sourceset.FromDirectory(rootDir)
	if err != nil {
		stop()
		return err
	}
	for _, r := range o.Renderers {
		if err := r.Render(ctx, set); err != nil {
			stop()
			return err
		}
	}
	stop()

	// 4. Flush.
	stop = m.phase("flush")
	if err := set.Write(); err != nil {
		stop()
		return err
	}
	stop()
	m.recordFlush(set)

	// 5. Close: nothing in this implementation outlives Run — the
	// projection context and source set are plain in-memory values with
	// no descriptors to release.
	return nil
}
