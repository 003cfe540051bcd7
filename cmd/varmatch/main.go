/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
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

// Package main is a little command-line utility to flatten patterns
// and match them against record snapshots.
//
//	varmatch -p '{"kind":"a"}' -s '{"kind":"a","value":"x"}' -w true
//	varmatch -flatten -p '{"a":{"b":1},"c":2}'
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/Comcast/varshape/guard"
	"github.com/Comcast/varshape/pattern"
	"github.com/Comcast/varshape/util"
)

func main() {
	var (
		patternS  = flag.String("p", "", "pattern in JSON (or YAML with -yaml)")
		snapshotS = flag.String("s", "", "record snapshot in JSON (or YAML with -yaml)")
		useYAML   = flag.Bool("yaml", false, "parse inputs as YAML instead of JSON")
		flat      = flag.Bool("flatten", false, "just print the flattened pattern")
		wantS     = flag.String("w", "", "wanted result (true or false); exit 1 on mismatch")

		bench = flag.Int("bench", 0, "number of times to run (and report time)")

		verbose = flag.Bool("v", false, "verbosity")
	)

	flag.Parse()
	util.Logging = *verbose

	p, err := parseRecord(*patternS, *useYAML)
	if err != nil {
		log.Fatalf("bad pattern (-p): %s", err)
	}

	if *flat {
		js, err := json.Marshal(pattern.Flatten(pattern.Pattern(p)))
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s\n", js)
		return
	}

	snapshot, err := parseRecord(*snapshotS, *useYAML)
	if err != nil {
		log.Fatalf("bad snapshot (-s): %s", err)
	}

	if 0 < *bench {
		var stats runtime.MemStats
		runtime.ReadMemStats(&stats)
		allocs := stats.TotalAlloc
		then := time.Now()
		for i := 0; i < *bench; i++ {
			guard.Eval(snapshot, pattern.Pattern(p))
		}
		elapsed := time.Now().Sub(then)
		meanNanos := elapsed.Nanoseconds() / int64(*bench)

		runtime.ReadMemStats(&stats)
		allocated := (stats.TotalAlloc - allocs) / uint64(*bench)

		log.Printf("%d iterations, %d mean ns/Eval, %d mean bytes allocated per Eval", *bench, meanNanos, allocated)
	}

	matches := guard.Eval(snapshot, pattern.Pattern(p))

	if *verbose {
		js, _ := json.Marshal(pattern.Flatten(pattern.Pattern(p)))
		util.Logf("flattened %s", js)
	}

	fmt.Printf("%v\n", matches)

	if *wantS != "" {
		if matches != (*wantS == "true") {
			os.Exit(1)
		}
	}
}

// parseRecord parses JSON (or, on request, YAML) into a string-keyed
// record.
func parseRecord(s string, useYAML bool) (map[string]interface{}, error) {
	if s == "" {
		return nil, errors.New("no input given")
	}

	if useYAML {
		var y map[interface{}]interface{}
		if err := yaml.Unmarshal([]byte(s), &y); err != nil {
			return nil, err
		}
		x, err := stringMaps(y)
		if err != nil {
			return nil, err
		}
		m, is := x.(map[string]interface{})
		if !is {
			return nil, errors.New("YAML input isn't a map")
		}
		return m, nil
	}

	var m map[string]interface{}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	return m, nil
}

// stringMaps recursively converts map[interface{}]interface{} to
// map[string]interface{}.
//
// Recursively processes values.
//
// Had to go to this trouble because the YAML deserializer likes to
// make map[interface{}] instead of map[string].
func stringMaps(x interface{}) (interface{}, error) {
	switch vv := x.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(vv))
		for thing, val := range vv {
			s, is := thing.(string)
			if !is {
				return nil, errors.New("stringMaps encountered a non-string key")
			}
			val, err := stringMaps(val)
			if err != nil {
				return nil, err
			}
			m[s] = val
		}
		return m, nil
	case map[string]interface{}:
		for s, val := range vv {
			val, err := stringMaps(val)
			if err != nil {
				return nil, err
			}
			vv[s] = val
		}
		return vv, nil
	case []interface{}:
		for i, y := range vv {
			y, err := stringMaps(y)
			if err != nil {
				return nil, err
			}
			vv[i] = y
		}
		return vv, nil
	default:
		return x, nil
	}
}
