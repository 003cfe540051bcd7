package store

import "encoding/json"

// View is a Handle relabeled with the static promise that the record
// currently holds variant V.
//
// The relabeling is free and unchecked: the underlying Handle is
// identical for every V, and nothing verifies that the record
// actually holds V right now.  Pair a View with a guard.Typeguard
// before trusting it.
type View[V any] struct {
	h *Handle
}

// UnsafeNarrow relabels the given Handle as a View of variant V.
//
// "Unsafe" because there is no runtime check at all: the record may
// well hold some other variant, in which case fields V promises are
// simply absent.
func UnsafeNarrow[V any](h *Handle) View[V] {
	return View[V]{h: h}
}

// Handle returns the underlying shared Handle.
//
// Every View over one record returns the identical *Handle.
func (v View[V]) Handle() *Handle {
	return v.h
}

// GetFieldValue reads the current value at the given path.
func (v View[V]) GetFieldValue(path Path) interface{} {
	return v.h.GetFieldValue(path)
}

// Decode materializes the given snapshot of the record as a V.
//
// A JSON round-trip does the work, so V's fields should carry the
// usual json tags.  Decode is a convenience, not a check: fields of V
// absent from the snapshot just end up zero.
func (v View[V]) Decode(snapshot map[string]interface{}) (V, error) {
	var acc V
	js, err := json.Marshal(snapshot)
	if err != nil {
		return acc, err
	}
	if err = json.Unmarshal(js, &acc); err != nil {
		return acc, err
	}
	return acc, nil
}
