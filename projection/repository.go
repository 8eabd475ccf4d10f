// Package projection implements the indexed state substrate (component D
// of spec.md §2): plugins register repositories that route events to a
// key and fold them into per-key state; after the event stream drains,
// repositories expose a read-only typed query.
//
// The substrate is modeled the way spec.md §9 suggests: "a small registry
// keyed by event variant; no cross-process messaging or bounded-context
// machinery is required in the core". Go has no runtime-covariant generic
// container, so the registry is keyed by reflect.Type of the repository
// type *Repository[K, S] (key and record type together), with Select[K, S]
// doing the type-safe unwrap — the same
// trick protoregistry.Files/Types use internally to index heterogeneous
// descriptor kinds by name.
package projection

import (
	"github.com/sae3023/ProtoData/event"
)

// Repository accumulates S-shaped records keyed by K, built up from a
// subset of event variants. It implements spec.md §4.3's three parts:
// route (the route func), apply (the apply func), and the post-drain query
// (Get, All, Query).
type Repository[K comparable, S any] struct {
	route func(event.Event) (K, bool)
	apply func(S, event.Event) S

	order []K
	state map[K]S

	frozen bool
}

// NewRepository builds an empty repository. route reports whether an
// event belongs to this repository's key space and, if so, which key it
// routes to; apply folds one event into the current state for that key
// (the zero value of S on first touch).
func NewRepository[K comparable, S any](route func(event.Event) (K, bool), apply func(S, event.Event) S) *Repository[K, S] {
	return &Repository[K, S]{
		route: route,
		apply: apply,
		state: make(map[K]S),
	}
}

// dispatch feeds one event to the repository if route claims it. Per
// spec.md §4.3, "for a given key, subscription is serial": Go maps give
// us that for free since dispatch is called once per event, in event
// order, from a single goroutine.
func (r *Repository[K, S]) dispatch(ev event.Event) {
	if r.frozen {
		return
	}
	key, ok := r.route(ev)
	if !ok {
		return
	}
	if _, seen := r.state[key]; !seen {
		r.order = append(r.order, key)
	}
	r.state[key] = r.apply(r.state[key], ev)
}

func (r *Repository[K, S]) freeze() { r.frozen = true }

// Get returns the record for key, if any was ever routed to it.
func (r *Repository[K, S]) Get(key K) (S, bool) {
	s, ok := r.state[key]
	return s, ok
}

// All returns every record in the repository, in first-touch order —
// the order keys were first routed to, which is the event stream's
// order and therefore deterministic.
func (r *Repository[K, S]) All() []S {
	out := make([]S, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.state[k])
	}
	return out
}

// Query returns every record matching pred, preserving All's order. This
// is the "query(type) → [record] with optional predicate filters" query
// shape from spec.md §4.3.
func (r *Repository[K, S]) Query(pred func(S) bool) []S {
	var out []S
	for _, k := range r.order {
		s := r.state[k]
		if pred == nil || pred(s) {
			out = append(out, s)
		}
	}
	return out
}
