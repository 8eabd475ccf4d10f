package projection

import (
	"reflect"

	"github.com/sae3023/ProtoData/event"
)

// dispatcher is the type-erased half of Repository[K,S] the Builder and
// Context need: something that can receive events and be frozen, without
// knowing K or S.
type dispatcher interface {
	dispatch(event.Event)
	freeze()
}

// Builder is the "fresh projection substrate" of spec.md §4.6 step 1:
// plugins call Register against it during fill_in.
type Builder struct {
	repos []dispatcher
	byKey map[reflect.Type]dispatcher
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{byKey: make(map[reflect.Type]dispatcher)}
}

// Register adds repo to the substrate, keyed for later retrieval by
// Select[K, S]. Registering two repositories with the same (K, S) pair
// is a programming error in the plugin and panics, mirroring the "no
// public zero-arg constructor" class of misuse spec.md §7 reserves a
// Kind for.
func Register[K comparable, S any](b *Builder, repo *Repository[K, S]) {
	key := repoType[K, S]()
	if _, exists := b.byKey[key]; exists {
		panic("projection: repository for this (key, record) type already registered")
	}
	b.byKey[key] = repo
	b.repos = append(b.repos, repo)
}

// Build freezes registration and returns the read/dispatch Context. Once
// built, no further Register calls against b take effect on the result.
func (b *Builder) Build() *Context {
	byKey := make(map[reflect.Type]dispatcher, len(b.byKey))
	for k, v := range b.byKey {
		byKey[k] = v
	}
	return &Context{repos: append([]dispatcher(nil), b.repos...), byKey: byKey}
}

// Context is the substrate after Build: every registered repository,
// reachable either for dispatch (by the orchestrator, while draining
// events) or for typed Select (by renderers, after freeze).
type Context struct {
	repos []dispatcher
	byKey map[reflect.Type]dispatcher

	frozen bool
}

// Dispatch feeds ev to every registered repository, in registration
// order. Plugin ordering across independent projections is not
// significant (spec.md §4.6), but dispatch itself always happens in a
// fixed order for determinism.
func (c *Context) Dispatch(ev event.Event) {
	for _, r := range c.repos {
		r.dispatch(ev)
	}
}

// Freeze marks the context read-only, after the last FileExited has been
// dispatched (spec.md §4.2, §4.6 step 2). Further Dispatch calls are
// no-ops.
func (c *Context) Freeze() {
	if c.frozen {
		return
	}
	c.frozen = true
	for _, r := range c.repos {
		r.freeze()
	}
}

// Select retrieves the repository registered for (K, S), if any. A
// renderer or plugin that queries a (K, S) pair nobody registered gets
// ok == false rather than a zero-value repository, so callers can
// distinguish "no records yet" from "nobody is tracking this".
func Select[K comparable, S any](c *Context) (*Repository[K, S], bool) {
	r, ok := c.byKey[repoType[K, S]()]
	if !ok {
		return nil, false
	}
	repo, ok := r.(*Repository[K, S])
	return repo, ok
}

func repoType[K comparable, S any]() reflect.Type {
	return reflect.TypeOf((*Repository[K, S])(nil))
}
