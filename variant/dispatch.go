package variant

import (
	"fmt"

	"github.com/Comcast/varshape/pattern"
)

// Handler consumes one variant's fields: the record restricted to
// that variant, minus the discriminant field.
type Handler func(fields map[string]interface{}) (interface{}, error)

// Handlers maps a discriminant value to its Handler.
type Handlers map[string]Handler

// MissingHandlerError occurs when a snapshot's discriminant value has
// no entry in the Handlers table.
type MissingHandlerError struct {
	// Value is the unmatched discriminant value.
	Value interface{}
}

func (e *MissingHandlerError) Error() string {
	return fmt.Sprintf(`no handler for discriminant value "%v"`, e.Value)
}

// Dispatcher routes a whole-record snapshot to the Handler registered
// for the snapshot's discriminant value.
type Dispatcher struct {
	discriminant string
	handlers     Handlers
}

// NewDispatcher makes a Dispatcher over the given handler table.
//
// The table is consumed read-only and is not copied.
func NewDispatcher(discriminant string, handlers Handlers) *Dispatcher {
	return &Dispatcher{
		discriminant: discriminant,
		handlers:     handlers,
	}
}

// Dispatch reads the snapshot's discriminant value, strips the
// discriminant field, and invokes the matching Handler, returning its
// result unchanged.
//
// An unregistered (or non-string) discriminant value is a
// *MissingHandlerError, which is fatal to this dispatch: nothing is
// retried or swallowed.  The snapshot itself is never mutated; the
// Handler sees a copy without the discriminant.
func (d *Dispatcher) Dispatch(snapshot map[string]interface{}) (interface{}, error) {
	value := snapshot[d.discriminant]

	key, is := value.(string)
	if !is {
		return nil, &MissingHandlerError{Value: value}
	}
	handler, have := d.handlers[key]
	if !have {
		return nil, &MissingHandlerError{Value: value}
	}

	return handler(pattern.Omit(snapshot, d.discriminant))
}
