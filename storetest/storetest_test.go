package storetest

import (
	"reflect"
	"testing"

	"github.com/Comcast/varshape/store"
)

func TestSetAndGet(t *testing.T) {
	s := NewStore(nil)

	s.Set("kind", "a")
	s.Set("meta.owner.name", "homer")

	if got := s.GetFieldValue("kind"); got != "a" {
		t.Fatalf("got %#v", got)
	}
	if got := s.GetFieldValue("meta.owner.name"); got != "homer" {
		t.Fatalf("got %#v", got)
	}
	if got := s.GetFieldValue("meta.missing"); got != nil {
		t.Fatalf("got %#v", got)
	}

	// Writing through a non-map interior value replaces it.
	s.Set("kind.extra", true)
	if got := s.GetFieldValue("kind.extra"); got != true {
		t.Fatalf("got %#v", got)
	}
}

func TestNotifyAffectedPaths(t *testing.T) {
	s := NewStore(map[string]interface{}{
		"meta": map[string]interface{}{"owner": "homer"},
	})

	var got []store.Values
	cancel := s.Subscribe([]store.Path{"meta.owner"}, func(vs store.Values) {
		got = append(got, vs)
	})
	defer cancel()

	// Subscribed path itself.
	s.Set("meta.owner", "marge")
	// An ancestor of the subscribed path.
	s.Set("meta", map[string]interface{}{"owner": "lisa"})
	// A descendant of the subscribed path.
	s.Set("meta.owner.name", "bart")
	// An unrelated path.
	s.Set("other", 1)

	if len(got) != 3 {
		t.Fatalf("fired %d times", len(got))
	}
	if got[0]["meta.owner"] != "marge" || got[1]["meta.owner"] != "lisa" {
		t.Fatalf("got %#v", got)
	}
}

func TestCancelIdempotent(t *testing.T) {
	s := NewStore(nil)

	fired := 0
	cancel := s.Subscribe([]store.Path{"kind"}, func(vs store.Values) {
		fired++
	})

	cancel()
	cancel() // must not panic

	s.Set("kind", "a")
	if fired != 0 {
		t.Fatal("canceled subscription still fired")
	}
}

func TestCancelFromInsideCallback(t *testing.T) {
	s := NewStore(nil)

	fired := 0
	var cancel func()
	cancel = s.Subscribe([]store.Path{"kind"}, func(vs store.Values) {
		fired++
		cancel()
	})

	s.Set("kind", "a")
	s.Set("kind", "b")
	if fired != 1 {
		t.Fatalf("fired %d times", fired)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore(map[string]interface{}{
		"kind": "a",
		"meta": map[string]interface{}{"owner": "homer"},
	})

	snap := s.Snapshot()
	s.Set("meta.owner", "marge")

	want := map[string]interface{}{
		"kind": "a",
		"meta": map[string]interface{}{"owner": "homer"},
	}
	if !reflect.DeepEqual(want, snap) {
		t.Fatalf("snapshot %#v", snap)
	}
}
