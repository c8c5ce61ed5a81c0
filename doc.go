// Package formbind validates and coerces tree-shaped input, typically web
// form submissions. It provides:
//
//   - A Schema tree (Leaf/Map/Seq) carrying one Validator and one PreProcessor per node
//   - A Binder that reconciles nested or flat dotted/indexed raw data against a schema
//   - A Field tree mirroring the schema, holding raw/clean/error state per node
//   - Deferred message templates via Failure, rendered through a pluggable msg.Renderer
//   - Flat path addressing ("address.street", "tags:0.name") for template access
//
// Design policy:
//   - Keep only public APIs in the root package; put stock validators under
//     validators/, raw-input helpers under source/, message rendering under msg/.
//   - Schema trees are blueprints: build once, bind many times. Mutation after
//     setup must be serialized against binds by the caller.
//   - Data-driven rejections travel as *Failure values attached to fields; only
//     programmer errors surface as plain Go errors.
//
// Typical usage:
//
//	schema, err := formbind.FromLiteral(map[string]any{
//		"username": validators.Matches(`^[a-zA-Z]\w{0,25}$`),
//		"email":    validators.Email,
//	})
//	form, err := formbind.BindFlat(schema, postedValues, nil)
//	if !form.IsValid() {
//		f, _ := form.Child("email")
//		show(f.Error())
//	}
package formbind
