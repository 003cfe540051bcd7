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

// Package variant provides the per-variant accessor family and the
// discriminant dispatcher for a tagged-union state record.
package variant

import (
	"context"

	"github.com/Comcast/varshape/store"
)

// Family is stage one of the accessor factory for a union record
// type S.
//
// S and the discriminant are fixed when the Family is made; variant
// keys are chosen later, per call site, via As.  A Family holds no
// state beyond the discriminant's name, so one Family can serve any
// number of call sites.
type Family[S any] struct {
	discriminant string
}

// NewFamily makes the accessor family for union type S whose
// discriminant is the given field.
func NewFamily[S any](discriminant string) *Family[S] {
	return &Family[S]{discriminant: discriminant}
}

// Discriminant returns the name of the discriminant field.
func (f *Family[S]) Discriminant() string {
	return f.discriminant
}

// Union returns the shared handle from ctx typed to the full union.
//
// This is the "no variant key" accessor: no narrowing at all.
func (f *Family[S]) Union(ctx context.Context) (*store.Handle, error) {
	return store.FromContext(ctx)
}

// As is stage two: it returns the shared handle from ctx relabeled as
// variant V of family f.
//
// There is no branching and no validation here at all — the
// underlying handle is identical for every V, and requesting a
// variant the record does not currently hold is not an error.  The
// caller gets a View whose promised fields may be runtime-absent;
// pair it with a guard.Typeguard before trusting them.
func As[V any, S any](f *Family[S], ctx context.Context) (store.View[V], error) {
	h, err := store.FromContext(ctx)
	if err != nil {
		var zero store.View[V]
		return zero, err
	}
	return store.UnsafeNarrow[V](h), nil
}
