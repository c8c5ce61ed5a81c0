package formbind

import (
	"errors"
	"fmt"

	"github.com/formbind/formbind/msg"
)

// Failure is the data-driven rejection signal returned by validators. It
// carries a deferred message template plus structured params; the final string
// is produced by the msg package only when an error message is actually read.
// Placeholders use "{key}" syntax; the validation pass injects "field.name"
// and "field.full_name" for the owning field before rendering.
type Failure struct {
	Template string
	Params   map[string]any
	Value    any // Offending raw value, as received by the validator.
}

// Error renders the template with the params attached so far. Messages read
// through Field.Error additionally carry the field placeholders.
func (f *Failure) Error() string {
	return msg.Render(f.Template, f.Params)
}

// Fail builds a Failure from a template and alternating key/value params.
func Fail(template string, kv ...any) *Failure {
	var m map[string]any
	if len(kv) > 0 {
		m = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			m[fmt.Sprint(kv[i])] = kv[i+1]
		}
	}
	return &Failure{Template: template, Params: m}
}

// WithValue returns a copy of the failure recording the offending raw value.
func (f *Failure) WithValue(v any) *Failure {
	c := *f
	c.Value = v
	return &c
}

// AsFailure extracts a *Failure from an error using errors.As internally.
func AsFailure(err error) (*Failure, bool) {
	if err == nil {
		return nil, false
	}
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// failureFromErr converts an arbitrary validator error into a *Failure. Plain
// errors get their text as a literal template, so a validator may return any
// error and still localize the failure to its node.
func failureFromErr(err error) *Failure {
	if f, ok := AsFailure(err); ok {
		return f
	}
	return &Failure{Template: err.Error()}
}
