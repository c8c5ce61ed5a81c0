package formbind

import (
	"strconv"

	"github.com/formbind/formbind/msg"
)

// Field is one node of a bound form: a schema position paired with the raw
// input found there and, after validation, its clean value or failure. Trees
// are created per request by Bind/BindFlat, validated once, read, and
// discarded; they are not safe for concurrent use.
type Field struct {
	schema   *Schema
	parent   *Field // back-reference for name resolution only
	name     string
	fullName string

	raw       any
	clean     any
	failure   *Failure
	rendered  string
	validated bool

	children []*Field
	byName   map[string]*Field
}

// Bind reconciles a schema against nested raw data (string-keyed maps, []any
// slices, scalar leaves). It never fails: missing or wrong-shaped
// substructure yields fields with absent raw data, leaving the rejection to
// each node's own validator.
func Bind(schema *Schema, data any) *Field {
	return newField(schema, data, nil, schema.name, "")
}

func newField(schema *Schema, data any, parent *Field, name, fullName string) *Field {
	f := &Field{schema: schema, parent: parent, name: name, fullName: fullName}
	f.raw = schema.pre(data)
	switch schema.kind {
	case KindMap:
		src, ok := f.raw.(map[string]any)
		if !ok {
			// wrong shape is recorded as absent; declared children still
			// exist so templates can traverse the tree safely
			f.raw = nil
		}
		f.children = make([]*Field, 0, len(schema.fields))
		f.byName = make(map[string]*Field, len(schema.fields))
		for _, mf := range schema.fields {
			var cd any
			if ok {
				cd = src[mf.Name]
			}
			c := newField(mf.Schema, cd, f, mf.Name, joinKey(fullName, mf.Name))
			f.children = append(f.children, c)
			f.byName[mf.Name] = c
		}
	case KindSeq:
		src, ok := f.raw.([]any)
		if !ok {
			f.raw = nil
			break
		}
		f.children = make([]*Field, 0, len(src))
		for i, elem := range src {
			c := newField(schema.elem, elem, f, strconv.Itoa(i), joinIndex(fullName, i))
			f.children = append(f.children, c)
		}
	}
	return f
}

// Schema returns the blueprint this field was bound from.
func (f *Field) Schema() *Schema { return f.schema }

// Kind reports the schema shape at this position.
func (f *Field) Kind() Kind { return f.schema.kind }

// Name returns the field's local key (Map) or index (Seq) within its parent.
func (f *Field) Name() string { return f.name }

// FullName returns the dotted/indexed path from the root, "" for the root
// itself. Resolving it through Lookup on the root yields this field back.
func (f *Field) FullName() string { return f.fullName }

// Parent returns the enclosing field, nil at the root.
func (f *Field) Parent() *Field { return f.parent }

// Raw returns the pre-processed input bound at this position, nil when the
// input was missing or wrong-shaped.
func (f *Field) Raw() any { return f.raw }

// Clean returns the validator's output, nil until validation has run or when
// this node failed. Note the converse does not hold: a clean nil can simply
// mean the validator accepted an absent value.
func (f *Field) Clean() any { return f.clean }

// Validated reports whether the validation pass has reached this field.
func (f *Field) Validated() bool { return f.validated }

// Failure returns the deferred failure recorded for this node, nil when the
// node validated cleanly (children may still carry their own failures).
func (f *Field) Failure() *Failure { return f.failure }

// Error returns the rendered message for this node's failure, "" when there
// is none. Rendering happens on first read through the msg package, with the
// field placeholders injected; the result is cached.
func (f *Field) Error() string {
	if f.failure == nil {
		return ""
	}
	if f.rendered == "" {
		data := make(map[string]any, len(f.failure.Params)+2)
		for k, v := range f.failure.Params {
			data[k] = v
		}
		data["field.name"] = f.name
		data["field.full_name"] = f.fullName
		f.rendered = msg.Render(f.failure.Template, data)
	}
	return f.rendered
}

// Child looks up a Map-bound child by name.
func (f *Field) Child(name string) (*Field, bool) {
	c, ok := f.byName[name]
	return c, ok
}

// Index returns the i-th Seq-bound child.
func (f *Field) Index(i int) (*Field, bool) {
	if f.schema.kind != KindSeq || i < 0 || i >= len(f.children) {
		return nil, false
	}
	return f.children[i], true
}

// Len returns the number of bound children.
func (f *Field) Len() int { return len(f.children) }

// Fields returns the bound children in order (declaration order for Map,
// index order for Seq). The slice is shared; callers must not mutate it.
func (f *Field) Fields() []*Field { return f.children }

// Lookup resolves a flat dotted/indexed path relative to this field.
func (f *Field) Lookup(path string) (*Field, bool) {
	segs, err := parsePath(path)
	if err != nil {
		return nil, false
	}
	cur := f
	for _, sg := range segs {
		var next *Field
		if sg.isIndex {
			if cur.schema.kind != KindSeq || sg.index < 0 || sg.index >= len(cur.children) {
				return nil, false
			}
			next = cur.children[sg.index]
		} else {
			next = cur.byName[sg.key]
		}
		if next == nil {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// IsValid triggers the validation pass rooted at this field and reports
// whether its own validator accepted. With the default AllChildren aggregate
// on Map/Seq nodes this is equivalent to "no descendant failed"; a custom
// root validator decides validity on its own terms.
//
// The pass is memoized: repeat calls return the recorded outcome without
// re-running any validator.
func (f *Field) IsValid() bool {
	f.validate()
	return f.failure == nil
}

// validate runs children-before-parent, declaration order between siblings.
// Each node's outcome is independent: a failing child never stops a sibling,
// and a parent failure never overwrites a child's recorded failure.
func (f *Field) validate() {
	if f.validated {
		return
	}
	f.validated = true
	for _, c := range f.children {
		c.validate()
	}
	out, err := f.schema.validator(f.assemble(), &Context{field: f})
	if err != nil {
		f.failure = failureFromErr(err)
		return
	}
	f.clean = out
}

// assemble produces the value handed to this node's validator: the raw datum
// for leaves, or the children's clean data reassembled into the declared
// shape. Failed Map children are omitted; failed Seq elements stay as nil
// entries so indexes keep their meaning.
func (f *Field) assemble() any {
	switch f.schema.kind {
	case KindMap:
		out := make(map[string]any, len(f.children))
		for _, c := range f.children {
			if c.failure == nil {
				out[c.name] = c.clean
			}
		}
		return out
	case KindSeq:
		out := make([]any, len(f.children))
		for i, c := range f.children {
			if c.failure == nil {
				out[i] = c.clean
			}
		}
		return out
	default:
		return f.raw
	}
}
