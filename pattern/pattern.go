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

// Package pattern flattens partial record patterns into dotted field
// paths and provides the sibling record utilities.
package pattern

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Path is a dot-delimited sequence of keys addressing a (possibly
// nested) leaf in a record.
type Path string

// Pattern is a partial, possibly nested record of expected leaf
// values.
//
// A leaf is any value that is not itself a map[string]interface{}.
// In particular an array is a leaf: it is compared whole and never
// descended into.
type Pattern map[string]interface{}

// Pair is one flattened pattern leaf: a Path and the value expected
// at that Path.
type Pair struct {
	Path  Path        `json:"path"`
	Value interface{} `json:"value"`
}

// Flatten returns every leaf of the given pattern paired with its
// Path.
//
// The result is sorted by Path so that two patterns that are equal by
// value always flatten identically.  An empty pattern flattens to an
// empty slice; whether that's acceptable is the caller's problem (a
// Typeguard wants at least one pair).
func Flatten(p Pattern) []Pair {
	acc := flatten(make([]Pair, 0, len(p)), "", map[string]interface{}(p))
	sort.Slice(acc, func(i, j int) bool {
		return acc[i].Path < acc[j].Path
	})
	return acc
}

func flatten(acc []Pair, prefix string, m map[string]interface{}) []Pair {
	for k, v := range m {
		at := k
		if prefix != "" {
			at = prefix + "." + k
		}
		switch vv := v.(type) {
		case map[string]interface{}:
			acc = flatten(acc, at, vv)
		case Pattern:
			acc = flatten(acc, at, map[string]interface{}(vv))
		default:
			acc = append(acc, Pair{Path: Path(at), Value: v})
		}
	}
	return acc
}

// Paths returns just the Paths of the given Pairs (in the same
// order).
func Paths(pairs []Pair) []Path {
	acc := make([]Path, len(pairs))
	for i, pair := range pairs {
		acc[i] = pair.Path
	}
	return acc
}

// Omit returns a shallow copy of the record without the given key.
//
// The given record is not modified.
func Omit(record map[string]interface{}, key string) map[string]interface{} {
	acc := make(map[string]interface{}, len(record))
	for k, v := range record {
		if k == key {
			continue
		}
		acc[k] = v
	}
	return acc
}

// Lookup resolves a Path against a (possibly nested) record.
//
// A missing key or a non-map interior value resolves to (nil, false).
func Lookup(record map[string]interface{}, p Path) (interface{}, bool) {
	keys := strings.Split(string(p), ".")
	at := record
	for i, k := range keys {
		v, have := at[k]
		if !have {
			return nil, false
		}
		if i == len(keys)-1 {
			return v, true
		}
		m, is := v.(map[string]interface{})
		if !is {
			return nil, false
		}
		at = m
	}
	// Unreachable: strings.Split never returns an empty slice.
	return nil, false
}

// Canonical renders the pattern canonically so that patterns that are
// equal by value render identically regardless of construction order.
//
// JSON serves as the canonical form since encoding/json sorts map
// keys.  If the pattern contains something JSON can't express, fall
// back to %#v, which is good enough for a memo key.
func Canonical(p Pattern) string {
	js, err := json.Marshal(map[string]interface{}(p))
	if err != nil {
		return fmt.Sprintf("%#v", p)
	}
	return string(js)
}
