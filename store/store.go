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

// Package store declares the reactive state container interface that
// this module consumes, along with the single shared Handle that all
// variant views relabel.
//
// This package does not implement a container.  A reference
// implementation for tests lives in package 'storetest'.
package store

import (
	"github.com/Comcast/varshape/pattern"
)

// Path is a dot-delimited field path.  See package pattern.
type Path = pattern.Path

// Values maps subscribed Paths to their current values.
type Values map[Path]interface{}

// Container is the external reactive state container.
//
// The container owns the one mutable state record.  This module only
// reads from it: Subscribe to watch a fixed set of Paths, and
// GetFieldValue to read one.
type Container interface {
	// Subscribe registers onChange to fire, with the current
	// values at the given paths, whenever any of those paths
	// changes.  onChange runs synchronously inside the
	// container's own notification pass, so it must not block.
	//
	// The returned cancel is idempotent.
	Subscribe(paths []Path, onChange func(Values)) (cancel func())

	// GetFieldValue reads the current value at the given path.
	// An absent path reads as nil.
	GetFieldValue(path Path) interface{}
}

// Handle is the single shared control handle for one state record.
//
// A caller creates exactly one Handle per record and passes it, by
// reference, to every guard, accessor, and view.  All of those see
// the same underlying Container no matter how their static types
// differ.
type Handle struct {
	container Container
}

// NewHandle wraps the given container in a Handle.
func NewHandle(c Container) *Handle {
	return &Handle{container: c}
}

// Container returns the underlying container.
func (h *Handle) Container() Container {
	return h.container
}

// GetFieldValue reads the current value at the given path.
func (h *Handle) GetFieldValue(path Path) interface{} {
	return h.container.GetFieldValue(path)
}

// Subscribe forwards to the underlying container.
func (h *Handle) Subscribe(paths []Path, onChange func(Values)) func() {
	return h.container.Subscribe(paths, onChange)
}
