package formbind

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// ErrNotValidated is returned by DecodeClean when the field has not been
// through a validation pass yet.
var ErrNotValidated = errors.New("formbind: field not validated; call IsValid first")

// DecodeClean decodes a validated field's clean data into out, a pointer to a
// caller struct (or slice/map). Field names follow `form` struct tags with
// weakly-typed conversion, so "42" fills an int field the way a form post
// would expect.
func DecodeClean(f *Field, out any) error {
	if !f.Validated() {
		return ErrNotValidated
	}
	if f.Failure() != nil {
		return fmt.Errorf("formbind: cannot decode %q: %s", f.FullName(), f.Error())
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "form",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(f.Clean())
}
