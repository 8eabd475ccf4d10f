// Package pipeline implements the orchestrator (component G) and the
// Plugin/Renderer contracts (component H) from spec.md §2.
package pipeline

import (
	"github.com/sae3023/ProtoData/projection"
	"github.com/sae3023/ProtoData/sourceset"
)

// Plugin registers projection repositories against a fresh substrate.
// Plugins are stateless between runs: FillIn must not retain b or any
// repository it registers beyond the call (spec.md §4.6).
type Plugin interface {
	FillIn(b *projection.Builder)
}

// Renderer reads projection state populated during the drain phase and
// mutates the source set. A Renderer must tolerate an empty or unrelated
// source set (spec.md §4.6) — querying a projection nobody populated
// should yield no records, not a panic.
type Renderer interface {
	Render(ctx *projection.Context, set *sourceset.SourceSet) error
}

// PluginFunc adapts a plain function to Plugin, for the common case of a
// plugin that registers exactly one repository and needs no other state.
type PluginFunc func(b *projection.Builder)

func (f PluginFunc) FillIn(b *projection.Builder) { f(b) }

// RendererFunc adapts a plain function to Renderer.
type RendererFunc func(ctx *projection.Context, set *sourceset.SourceSet) error

func (f RendererFunc) Render(ctx *projection.Context, set *sourceset.SourceSet) error {
	return f(ctx, set)
}
