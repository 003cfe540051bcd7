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

// Package storetest provides an in-memory store.Container for tests.
//
// Not a production container.  It exists so that guards, accessors,
// and dispatchers can be exercised (and probed) without a real
// reactive state container.
package storetest

import (
	"strings"
	"sync"

	"github.com/Comcast/varshape/pattern"
	"github.com/Comcast/varshape/store"
	"github.com/Comcast/varshape/util"
)

// Store is an in-memory store.Container.
//
// Set is the only way to change the record, and Set notifies, on the
// calling goroutine, every subscription watching an affected path.
type Store struct {
	sync.Mutex

	record map[string]interface{}
	subs   map[int]*sub
	nextId int

	// SubscribeCalls counts calls to Subscribe.  Tests use this
	// probe to verify that re-evaluating a value-equal pattern
	// doesn't churn subscriptions.
	SubscribeCalls int
}

type sub struct {
	paths    []store.Path
	onChange func(store.Values)
}

// NewStore makes a Store holding the given initial record.
//
// The record is used as-is, not copied.
func NewStore(record map[string]interface{}) *Store {
	if record == nil {
		record = make(map[string]interface{})
	}
	return &Store{
		record: record,
		subs:   make(map[int]*sub),
	}
}

// GetFieldValue reads the current value at the given path.
//
// An absent path reads as nil.
func (s *Store) GetFieldValue(path store.Path) interface{} {
	s.Lock()
	v, _ := pattern.Lookup(s.record, path)
	s.Unlock()
	return v
}

// Subscribe registers onChange for the given paths.
//
// The returned cancel is idempotent.
func (s *Store) Subscribe(paths []store.Path, onChange func(store.Values)) func() {
	s.Lock()
	s.SubscribeCalls++
	id := s.nextId
	s.nextId++
	s.subs[id] = &sub{
		paths:    paths,
		onChange: onChange,
	}
	s.Unlock()

	return func() {
		s.Lock()
		delete(s.subs, id)
		s.Unlock()
	}
}

// Set writes value at path, creating interior maps as needed, and
// then notifies every subscription watching an affected path.
//
// Callbacks run synchronously on the calling goroutine, after the
// write, with the current values at their subscribed paths.  A
// callback may cancel its own subscription.
func (s *Store) Set(path store.Path, value interface{}) {
	s.Lock()
	put(s.record, path, value)

	type firing struct {
		onChange func(store.Values)
		values   store.Values
	}
	var fs []firing
	for _, sb := range s.subs {
		if !watching(sb.paths, path) {
			continue
		}
		values := make(store.Values, len(sb.paths))
		for _, p := range sb.paths {
			values[p], _ = pattern.Lookup(s.record, p)
		}
		fs = append(fs, firing{sb.onChange, values})
	}
	s.Unlock()

	util.Logf("storetest.Set %s (notifying %d)", path, len(fs))

	for _, f := range fs {
		f.onChange(f.values)
	}
}

// Snapshot returns a copy of the current record.
//
// Interior maps are copied; other interior values (including arrays)
// are shared.
func (s *Store) Snapshot() map[string]interface{} {
	s.Lock()
	acc := copyMap(s.record)
	s.Unlock()
	return acc
}

// watching reports whether a change at 'changed' affects any of the
// given subscribed paths.  A path is affected by a change at itself,
// at an ancestor, or at a descendant.
func watching(paths []store.Path, changed store.Path) bool {
	for _, p := range paths {
		a, b := string(p), string(changed)
		if a == b || strings.HasPrefix(a, b+".") || strings.HasPrefix(b, a+".") {
			return true
		}
	}
	return false
}

func put(record map[string]interface{}, path store.Path, value interface{}) {
	keys := strings.Split(string(path), ".")
	at := record
	for _, k := range keys[:len(keys)-1] {
		m, is := at[k].(map[string]interface{})
		if !is {
			m = make(map[string]interface{})
			at[k] = m
		}
		at = m
	}
	at[keys[len(keys)-1]] = value
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	acc := make(map[string]interface{}, len(m))
	for k, v := range m {
		if vv, is := v.(map[string]interface{}); is {
			acc[k] = copyMap(vv)
			continue
		}
		acc[k] = v
	}
	return acc
}
