/* Copyright 2018 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package guard implements the reactive discriminant matcher.
//
// A Typeguard watches exactly the field paths named in a pattern and
// maintains a boolean "the record currently has this shape" signal.
// That signal is what licenses trusting a narrowed store.View.
package guard

import (
	"reflect"

	"github.com/Comcast/varshape/pattern"
	"github.com/Comcast/varshape/store"
)

// Typeguard is a live match of one pattern against the shared state
// record.
//
// A Typeguard subscribes to the pattern's paths and nothing else, so
// changes to fields the pattern never names don't cost anything.  The
// subscription lives until Close, which the owner must call on every
// exit path.
//
// Not thread-safe.  Use and the container's notification pass are
// expected to share one goroutine.
type Typeguard struct {
	h *store.Handle

	// memo is the canonical form of the currently-subscribed
	// pattern.  Use compares against it so that a fresh but
	// value-equal pattern doesn't re-derive the subscription.
	memo   string
	pairs  []pattern.Pair
	cancel func()

	matches bool
	closed  bool
}

// New makes a Typeguard over the given shared handle.
//
// When the caller statically holds several handles (one per
// variant), any of them will do: they all share one underlying
// container.
//
// No subscription exists until the first Use.
func New(h *store.Handle) *Typeguard {
	return &Typeguard{h: h}
}

// Use evaluates the pattern against the live record and returns the
// current match signal.
//
// The first Use (and any Use with a pattern that differs by value
// from the previous one) flattens the pattern, subscribes to exactly
// its paths, and computes the signal from current values.  A Use with
// a value-equal pattern, even a freshly-constructed one, reuses the
// existing subscription untouched.
//
// The pattern must name at least one path; that's a caller error, not
// a runtime condition, and an empty pattern silently degrades to a
// guard that always matches.
func (g *Typeguard) Use(p pattern.Pattern) bool {
	if g.closed {
		return false
	}

	key := pattern.Canonical(p)
	if g.cancel != nil && key == g.memo {
		return g.matches
	}

	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}

	g.memo = key
	g.pairs = pattern.Flatten(p)

	values := make(store.Values, len(g.pairs))
	for _, pair := range g.pairs {
		values[pair.Path] = g.h.GetFieldValue(pair.Path)
	}
	g.recompute(values)

	g.cancel = g.h.Subscribe(pattern.Paths(g.pairs), func(vs store.Values) {
		if g.closed {
			return
		}
		g.recompute(vs)
	})

	return g.matches
}

// Matches returns the current signal without re-supplying a pattern.
//
// Before the first Use, and after Close, Matches is false.
func (g *Typeguard) Matches() bool {
	return g.matches
}

// Close releases the subscription.
//
// Idempotent.  A closed Typeguard reports false forever and ignores
// any further notifications.
func (g *Typeguard) Close() {
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.closed = true
	g.matches = false
}

func (g *Typeguard) recompute(vs store.Values) {
	m := true
	for _, pair := range g.pairs {
		if !equal(vs[pair.Path], pair.Value) {
			m = false
			break
		}
	}
	g.matches = m
}

// Narrow evaluates the pattern via Use and returns the shared handle
// relabeled as variant V, tagged with the match signal.
//
// The View is only meaningful when the boolean is true; when it's
// false the View still resolves (same underlying handle) but its
// static promise is a lie.
func Narrow[V any](g *Typeguard, p pattern.Pattern) (store.View[V], bool) {
	ok := g.Use(p)
	return store.UnsafeNarrow[V](g.h), ok
}

// Eval matches a pattern against a snapshot once, with no
// subscription and no handle.
func Eval(snapshot map[string]interface{}, p pattern.Pattern) bool {
	for _, pair := range pattern.Flatten(p) {
		v, _ := pattern.Lookup(snapshot, pair.Path)
		if !equal(v, pair.Value) {
			return false
		}
	}
	return true
}

// fudge is a hack to cast numbers to float64s.
func fudge(x interface{}) interface{} {
	switch vv := x.(type) {
	case float64:
		return vv
	case float32:
		return float64(vv)
	case int64:
		return float64(vv)
	case int32:
		return float64(vv)
	case int:
		return float64(vv)
	default:
		return x
	}
}

// equal compares a current value against an expected leaf: identity
// for primitives (with numbers fudged), structural for maps and
// arrays.
func equal(have, want interface{}) bool {
	have = fudge(have)
	want = fudge(want)
	switch vv := want.(type) {
	case nil:
		return have == nil
	case bool:
		return have == vv
	case float64:
		return have == vv
	case string:
		return have == vv
	default:
		return reflect.DeepEqual(have, want)
	}
}
