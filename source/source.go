// Package source decodes raw payloads into the tree shapes the formbind
// Binder consumes: nested string-keyed maps, []any slices and scalars for
// Bind, or flat dotted/indexed mappings for BindFlat. It carries no
// validation of its own; decode errors are returned to the integrating
// application as-is.
package source

import (
	"io"
	"net/url"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// JSONBytes decodes a JSON document into a nested raw tree.
func JSONBytes(b []byte) (any, error) {
	var v any
	if err := j.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// JSONReader decodes a JSON document from r into a nested raw tree.
func JSONReader(r io.Reader) (any, error) {
	var v any
	if err := j.NewDecoder(r).Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// YAMLBytes decodes a YAML document into a nested raw tree. Mapping keys are
// normalized to strings; entries with non-string keys are dropped, matching
// the Binder's string-keyed contract.
func YAMLBytes(b []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return normalizeYAML(v), nil
}

func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalizeYAML(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = normalizeYAML(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = normalizeYAML(vv)
		}
		return out
	default:
		return v
	}
}

// FormValues flattens parsed form data (url.Values from a form post or query
// string) into the flat mapping BindFlat consumes. Multi-valued keys keep
// their first value; repeated inputs belong in the "name:0", "name:1"
// sequence syntax instead.
func FormValues(vals url.Values) map[string]any {
	out := make(map[string]any, len(vals))
	for k, vs := range vals {
		if len(vs) == 0 {
			continue
		}
		out[k] = vs[0]
	}
	return out
}
