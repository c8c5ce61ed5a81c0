package formbind

import (
	"fmt"
	"sort"
	"strconv"
)

// Flat path grammar, the sole external addressing scheme for nested fields:
//
//	path    = segment (('.' segment) | (':' index))*
//	segment = any run of characters excluding '.' and ':'
//	index   = decimal digits
//
// "address.street" addresses a Map child of a Map child; "tags:0.name"
// addresses the "name" child of element 0 of the "tags" sequence. The empty
// path addresses the root. A path may begin with ':' when the root itself is
// a sequence (":0.name").

type segment struct {
	key     string
	index   int
	isIndex bool
}

// parsePath splits a flat name into segments via a single left-to-right scan
// of the restricted grammar above. Malformed input (empty key segments,
// non-numeric indexes) is an error; callers that tolerate bad paths treat the
// error as "no such field".
func parsePath(path string) ([]segment, error) {
	if path == "" {
		return nil, nil
	}
	var segs []segment
	i := 0
	for i < len(path) {
		switch path[i] {
		case ':':
			i++
			j := i
			for j < len(path) && path[j] >= '0' && path[j] <= '9' {
				j++
			}
			if j == i {
				return nil, fmt.Errorf("formbind: path %q: index expected after ':'", path)
			}
			n, err := strconv.Atoi(path[i:j])
			if err != nil {
				return nil, fmt.Errorf("formbind: path %q: %w", path, err)
			}
			segs = append(segs, segment{index: n, isIndex: true})
			i = j
		case '.':
			if len(segs) == 0 {
				return nil, fmt.Errorf("formbind: path %q: leading '.'", path)
			}
			i++
			fallthrough
		default:
			j := i
			for j < len(path) && path[j] != '.' && path[j] != ':' {
				j++
			}
			if j == i {
				return nil, fmt.Errorf("formbind: path %q: empty key segment", path)
			}
			segs = append(segs, segment{key: path[i:j]})
			i = j
		}
	}
	return segs, nil
}

// joinKey extends a full name with a Map key.
func joinKey(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

// joinIndex extends a full name with a Seq index.
func joinIndex(parent string, i int) string {
	return parent + ":" + strconv.Itoa(i)
}

// flatNode is the intermediate tree built while expanding a flat mapping.
// A node carries either a scalar value, map children, or indexed children;
// mixing them is a conflict surfaced to the caller.
type flatNode struct {
	value    any
	hasValue bool
	byKey    map[string]*flatNode
	byIndex  map[int]*flatNode
	maxIndex int
}

func (n *flatNode) child(sg segment, path string) (*flatNode, error) {
	if n.hasValue {
		return nil, fmt.Errorf("formbind: %q specified as both naked and parent key", path)
	}
	if sg.isIndex {
		if n.byKey != nil {
			return nil, fmt.Errorf("formbind: %q specified as both map and list", path)
		}
		if n.byIndex == nil {
			n.byIndex = make(map[int]*flatNode)
		}
		c, ok := n.byIndex[sg.index]
		if !ok {
			c = &flatNode{}
			n.byIndex[sg.index] = c
		}
		if sg.index > n.maxIndex {
			n.maxIndex = sg.index
		}
		return c, nil
	}
	if n.byIndex != nil {
		return nil, fmt.Errorf("formbind: %q specified as both map and list", path)
	}
	if n.byKey == nil {
		n.byKey = make(map[string]*flatNode)
	}
	c, ok := n.byKey[sg.key]
	if !ok {
		c = &flatNode{}
		n.byKey[sg.key] = c
	}
	return c, nil
}

func (n *flatNode) setValue(v any, path string) error {
	if n.byKey != nil || n.byIndex != nil {
		return fmt.Errorf("formbind: %q specified as both naked and parent key", path)
	}
	if n.hasValue {
		return fmt.Errorf("formbind: duplicate flat key %q", path)
	}
	n.value = v
	n.hasValue = true
	return nil
}

func (n *flatNode) materialize() any {
	switch {
	case n.hasValue:
		return n.value
	case n.byIndex != nil:
		out := make([]any, n.maxIndex+1)
		for i, c := range n.byIndex {
			out[i] = c.materialize()
		}
		return out
	case n.byKey != nil:
		out := make(map[string]any, len(n.byKey))
		for k, c := range n.byKey {
			out[k] = c.materialize()
		}
		return out
	default:
		return nil
	}
}

// ExpandFlat converts a flat dotted/indexed mapping into the nested structure
// the Binder consumes. Indexed segments become slices sized to the highest
// index referenced; gaps stay nil so the bound sequence records them as
// absent entries. Keys whose path does not parse (for example a non-numeric
// index) are skipped as "no such field". Structural conflicts between keys
// ("a" vs "a.b", "a.b" vs "a:0") are configuration errors and abort the
// expansion.
func ExpandFlat(flat map[string]any) (any, error) {
	root := &flatNode{}
	// deterministic insertion order for stable conflict reporting
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		segs, err := parsePath(key)
		if err != nil || len(segs) == 0 {
			continue
		}
		cur := root
		walked := ""
		for _, sg := range segs {
			if sg.isIndex {
				walked = joinIndex(walked, sg.index)
			} else {
				walked = joinKey(walked, sg.key)
			}
			next, err := cur.child(sg, walked)
			if err != nil {
				return nil, err
			}
			cur = next
		}
		if err := cur.setValue(flat[key], key); err != nil {
			return nil, err
		}
	}
	return root.materialize(), nil
}
