package formbind

import (
	"fmt"
	"sort"
)

// Kind discriminates the three schema node shapes.
type Kind int

const (
	KindLeaf Kind = iota // scalar position
	KindMap              // string-keyed children
	KindSeq              // homogeneous variable-length elements
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindMap:
		return "map"
	case KindSeq:
		return "seq"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MapField pairs a child name with its schema; Map preserves declaration
// order for iteration and display.
type MapField struct {
	Name   string
	Schema *Schema
}

// F is shorthand for a MapField entry.
func F(name string, s *Schema) MapField { return MapField{Name: name, Schema: s} }

// Schema is the static blueprint for one tree position: its shape, one
// validator and one pre-processor. Trees are built once and shared across
// concurrent binds; mutation (SetValidator/SetPre) must complete before any
// bind that should observe it.
type Schema struct {
	kind      Kind
	name      string
	validator Validator
	pre       PreProcessor
	fields    []MapField
	byName    map[string]*Schema
	elem      *Schema
}

// Leaf builds a scalar schema node. A nil validator means Identity.
func Leaf(v Validator) *Schema {
	if v == nil {
		v = Identity
	}
	return &Schema{kind: KindLeaf, validator: v, pre: identityPre}
}

// Map builds a keyed schema node from ordered fields. Child schemas adopt
// their field name. The default validator is AllChildren.
func Map(fields ...MapField) *Schema {
	s := &Schema{kind: KindMap, validator: AllChildren, pre: identityPre,
		fields: fields, byName: make(map[string]*Schema, len(fields))}
	for _, f := range fields {
		f.Schema.name = f.Name
		s.byName[f.Name] = f.Schema
	}
	return s
}

// Seq builds a variable-length schema node; elem is the template every
// element is validated against. The default validator is AllChildren.
func Seq(elem *Schema) *Schema {
	return &Schema{kind: KindSeq, validator: AllChildren, pre: identityPre, elem: elem}
}

// Kind reports the node shape.
func (s *Schema) Kind() Kind { return s.kind }

// Name reports the node's key in its parent ("" for roots and seq elements).
func (s *Schema) Name() string { return s.name }

// Child looks up a Map child by name.
func (s *Schema) Child(name string) (*Schema, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// Elem returns the Seq element template, nil for other kinds.
func (s *Schema) Elem() *Schema { return s.elem }

// Fields returns Map children in declaration order. The slice is shared;
// callers must not mutate it.
func (s *Schema) Fields() []MapField { return s.fields }

// Validator returns the node's current validator.
func (s *Schema) Validator() Validator { return s.validator }

// SetValidator swaps the node's validator. Takes effect for every subsequent
// bind; the caller serializes this against concurrent binds.
func (s *Schema) SetValidator(v Validator) {
	if v == nil {
		v = Identity
	}
	s.validator = v
}

// Pre returns the node's current pre-processor.
func (s *Schema) Pre() PreProcessor { return s.pre }

// SetPre swaps the node's pre-processor, same rules as SetValidator.
func (s *Schema) SetPre(p PreProcessor) {
	if p == nil {
		p = identityPre
	}
	s.pre = p
}

// FromLiteral converts a nested literal into a schema tree: map[string]any
// becomes Map (key-sorted for determinism), a one-element []any becomes Seq
// with that element as the template, a Validator (or compatible func) becomes
// Leaf, and an existing *Schema is used as-is.
func FromLiteral(lit any) (*Schema, error) {
	switch t := lit.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]MapField, 0, len(keys))
		for _, k := range keys {
			child, err := FromLiteral(t[k])
			if err != nil {
				return nil, err
			}
			fields = append(fields, F(k, child))
		}
		return Map(fields...), nil
	case []any:
		if len(t) != 1 {
			return nil, fmt.Errorf("formbind: sequence literal must have exactly one element, got %d", len(t))
		}
		elem, err := FromLiteral(t[0])
		if err != nil {
			return nil, err
		}
		return Seq(elem), nil
	case *Schema:
		return t, nil
	case Validator:
		return Leaf(t), nil
	case func(any, *Context) (any, error):
		return Leaf(t), nil
	default:
		return nil, fmt.Errorf("formbind: literal must be a map, a one-element slice, a Validator or a *Schema, got %T", lit)
	}
}

// Resolve walks the schema along a flat dotted/indexed path ("a.b", "tags:0").
// Any index addresses the Seq element template.
func (s *Schema) Resolve(path string) (*Schema, error) {
	segs, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	cur := s
	for _, sg := range segs {
		if sg.isIndex {
			if cur.kind != KindSeq {
				return nil, fmt.Errorf("formbind: %q addresses an index under a %s schema", path, cur.kind)
			}
			cur = cur.elem
			continue
		}
		if cur.kind != KindMap {
			return nil, fmt.Errorf("formbind: %q addresses key %q under a %s schema", path, sg.key, cur.kind)
		}
		next, ok := cur.byName[sg.key]
		if !ok {
			return nil, fmt.Errorf("formbind: no field %q in schema at %q", sg.key, path)
		}
		cur = next
	}
	return cur, nil
}
