package formbind

// BindFlat binds a flat dotted/indexed-path mapping (typically a parsed form
// post) against the schema. A secondary source (for example a parallel
// file-upload mapping keyed by the same paths) may be merged in; its entries
// win on overlap. Empty-string values are dropped before expansion so that
// untouched form inputs bind as absent rather than as "".
//
// Structural conflicts between keys ("a" vs "a.b") are configuration errors
// and are returned; malformed indexes ("a:x") are silently treated as no such
// field, per the binder's graceful-degradation contract.
func BindFlat(schema *Schema, data map[string]any, extra map[string]any) (*Field, error) {
	merged := make(map[string]any, len(data)+len(extra))
	for k, v := range data {
		if v == "" {
			continue
		}
		merged[k] = v
	}
	for k, v := range extra {
		if v == "" {
			continue
		}
		merged[k] = v
	}
	nested, err := ExpandFlat(merged)
	if err != nil {
		return nil, err
	}
	return Bind(schema, nested), nil
}
