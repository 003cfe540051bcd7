package variant

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestDispatchRouting(t *testing.T) {
	var (
		h1Calls = 0
		h2Got   map[string]interface{}
	)

	d := NewDispatcher("kind", Handlers{
		"a": func(fields map[string]interface{}) (interface{}, error) {
			h1Calls++
			return nil, nil
		},
		"b": func(fields map[string]interface{}) (interface{}, error) {
			h2Got = fields
			return "handled", nil
		},
	})

	snapshot := map[string]interface{}{
		"kind":  "b",
		"value": 5,
	}

	got, err := d.Dispatch(snapshot)
	if err != nil {
		t.Fatal(err)
	}
	if got != "handled" {
		t.Fatalf("got %#v", got)
	}
	if h1Calls != 0 {
		t.Fatal("wrong handler invoked")
	}

	// The handler sees the snapshot minus the discriminant field.
	want := map[string]interface{}{"value": 5}
	if !reflect.DeepEqual(want, h2Got) {
		t.Fatalf("handler got %#v", h2Got)
	}

	// The snapshot itself is untouched.
	if _, have := snapshot["kind"]; !have {
		t.Fatal("Dispatch mutated the snapshot")
	}
}

func TestDispatchMissingHandler(t *testing.T) {
	d := NewDispatcher("kind", Handlers{
		"a": func(fields map[string]interface{}) (interface{}, error) {
			t.Fatal("shouldn't be invoked")
			return nil, nil
		},
	})

	_, err := d.Dispatch(map[string]interface{}{
		"kind":  "b",
		"value": 5,
	})
	if err == nil {
		t.Fatal("expected an error")
	}

	var missing *MissingHandlerError
	if !errors.As(err, &missing) {
		t.Fatalf("got %T", err)
	}
	// The message names the unmatched value.
	if !strings.Contains(err.Error(), "b") {
		t.Fatalf("message %q doesn't name the value", err.Error())
	}
}

func TestDispatchAbsentDiscriminant(t *testing.T) {
	d := NewDispatcher("kind", Handlers{})

	_, err := d.Dispatch(map[string]interface{}{"value": 5})

	var missing *MissingHandlerError
	if !errors.As(err, &missing) {
		t.Fatalf("got %#v", err)
	}
	if missing.Value != nil {
		t.Fatalf("value %#v", missing.Value)
	}
}

func TestDispatchHandlerError(t *testing.T) {
	boom := errors.New("boom")
	d := NewDispatcher("kind", Handlers{
		"a": func(fields map[string]interface{}) (interface{}, error) {
			return nil, boom
		},
	})

	// A handler's error propagates unchanged.
	if _, err := d.Dispatch(map[string]interface{}{"kind": "a"}); err != boom {
		t.Fatalf("got %v", err)
	}
}
