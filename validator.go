package formbind

import "strconv"

// Validator transforms or rejects a candidate value. On acceptance it returns
// the cleaned (possibly retyped) value; on rejection it returns a *Failure.
// Validators must not reach into sibling state: everything they may consult
// beyond the value itself arrives through ctx.
type Validator func(v any, ctx *Context) (any, error)

// PreProcessor normalizes raw input at bind time, before any validation runs.
// It must tolerate ordinary bad input (nil, wrong type) without failing;
// panicking here is reserved for unrecoverable programmer errors.
type PreProcessor func(v any) any

// Identity accepts any value unchanged. It is the default Leaf validator and
// the default PreProcessor.
func Identity(v any, ctx *Context) (any, error) { return v, nil }

func identityPre(v any) any { return v }

// Chain pipes validators output-to-input, stopping at the first failure.
func Chain(vs ...Validator) Validator {
	return func(v any, ctx *Context) (any, error) {
		var err error
		for _, fn := range vs {
			v, err = fn(v, ctx)
			if err != nil {
				return nil, err
			}
		}
		return v, nil
	}
}

// AllChildren is the default Map/Seq validator: it succeeds iff every child
// validated cleanly, passing the assembled children value through. On failure
// it reports a generic template and leaves the per-child errors to the
// children themselves.
func AllChildren(v any, ctx *Context) (any, error) {
	if ctx != nil {
		if bad := ctx.Invalid(); len(bad) > 0 {
			return nil, Fail("{field.name} has invalid fields", "invalid", bad).WithValue(v)
		}
	}
	return v, nil
}

// Context is the explicit cross-field channel handed to every validator. It
// exposes the owning bound field and, for Map/Seq nodes, which children
// failed. Child clean data is already assembled into the validator's value
// argument, so a parent validator can perform cross-field checks (for
// example "password == password2") without touching the tree.
type Context struct {
	field *Field
}

// Field returns the bound field being validated, or nil outside a bind.
func (c *Context) Field() *Field {
	if c == nil {
		return nil
	}
	return c.field
}

// Name returns the owning field's local name, or "" outside a bind.
func (c *Context) Name() string {
	if c == nil || c.field == nil {
		return ""
	}
	return c.field.Name()
}

// FullName returns the owning field's full dotted/indexed path.
func (c *Context) FullName() string {
	if c == nil || c.field == nil {
		return ""
	}
	return c.field.FullName()
}

// Invalid lists the names (Map) or indexes (Seq) of children whose own
// validators failed, in declaration order. Empty for leaves.
func (c *Context) Invalid() []string {
	if c == nil || c.field == nil {
		return nil
	}
	var bad []string
	for i, ch := range c.field.children {
		if ch.failure == nil {
			continue
		}
		if c.field.schema.kind == KindSeq {
			bad = append(bad, strconv.Itoa(i))
		} else {
			bad = append(bad, ch.name)
		}
	}
	return bad
}
