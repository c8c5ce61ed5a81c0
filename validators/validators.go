// Package validators provides the stock validator set: type coercion, length
// and membership limits, regex matching, and cross-field checks. Every entry
// conforms to the formbind.Validator contract; compose them with
// formbind.Chain.
package validators

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	formbind "github.com/formbind/formbind"
)

// FromBool converts a predicate into a validator: data passes through
// unchanged when the predicate holds, otherwise the failure carries the given
// template and params.
func FromBool(pred func(any) bool, template string, kv ...any) formbind.Validator {
	return func(v any, ctx *formbind.Context) (any, error) {
		if pred(v) {
			return v, nil
		}
		return nil, formbind.Fail(template, kv...).WithValue(v)
	}
}

// WithMessage replaces the failure template of an existing validator, keeping
// its params. This is the override hook for caller-supplied messages.
func WithMessage(v formbind.Validator, template string) formbind.Validator {
	return func(val any, ctx *formbind.Context) (any, error) {
		out, err := v(val, ctx)
		if err == nil {
			return out, nil
		}
		if f, ok := formbind.AsFailure(err); ok {
			c := *f
			c.Template = template
			return nil, &c
		}
		return nil, err
	}
}

// Required rejects absent values.
var Required = FromBool(func(v any) bool { return v != nil }, "{field.name} is required.")

// EnsureString rejects anything but a string.
func EnsureString(v any, ctx *formbind.Context) (any, error) {
	if _, ok := v.(string); !ok {
		return nil, formbind.Fail("{field.name} must be a string").WithValue(v)
	}
	return v, nil
}

// LimitLength bounds the length of a string, slice or map. max < 0 means
// unbounded above.
func LimitLength(min, max int) formbind.Validator {
	return func(v any, ctx *formbind.Context) (any, error) {
		n, ok := lengthOf(v)
		if !ok {
			return nil, formbind.Fail("{field.name} must have a length").WithValue(v)
		}
		if n < min || (max >= 0 && n > max) {
			if max < 0 {
				return nil, formbind.Fail("The length of {field.name} must be at least {min}", "min", min).WithValue(v)
			}
			return nil, formbind.Fail("The length of {field.name} must be between {min} and {max}", "min", min, "max", max).WithValue(v)
		}
		return v, nil
	}
}

func lengthOf(v any) (int, bool) {
	switch t := v.(type) {
	case string:
		return len(t), true
	case []any:
		return len(t), true
	case map[string]any:
		return len(t), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

// OneOf accepts only the listed values.
func OneOf(values ...any) formbind.Validator {
	return func(v any, ctx *formbind.Context) (any, error) {
		for _, want := range values {
			if reflect.DeepEqual(v, want) {
				return v, nil
			}
		}
		return nil, formbind.Fail("{field.name} must be one of {values}.", "values", fmt.Sprintf("%v", values)).WithValue(v)
	}
}

// Matches ensures string data contains a match for pattern. The pattern is
// compiled once at construction; an invalid pattern is a programmer error and
// panics, like regexp.MustCompile.
func Matches(pattern string) formbind.Validator {
	re := regexp.MustCompile(pattern)
	match := FromBool(func(v any) bool {
		s, _ := v.(string)
		return re.MatchString(s)
	}, "{field.name} does not match {pattern}", "pattern", pattern)
	return formbind.Chain(EnsureString, match)
}

// LimitChars ensures string data only contains characters in the given
// character class (regexp class body, e.g. "a-z0-9_").
func LimitChars(class string) formbind.Validator {
	re := regexp.MustCompile("[^" + strings.ReplaceAll(class, "]", `\]`) + "]")
	limit := func(v any, ctx *formbind.Context) (any, error) {
		s := v.(string)
		bad := re.FindAllString(s, -1)
		if len(bad) == 0 {
			return v, nil
		}
		seen := map[string]struct{}{}
		uniq := make([]string, 0, len(bad))
		for _, c := range bad {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			uniq = append(uniq, c)
		}
		sort.Strings(uniq)
		return nil, formbind.Fail("Invalid characters: {invalid_chars}",
			"invalid_chars", strings.Join(uniq, ""), "char_class", class).WithValue(v)
	}
	return formbind.Chain(EnsureString, limit)
}

// AsInt coerces numeric input (string digits included) into int64.
func AsInt(v any, ctx *formbind.Context) (any, error) {
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int64:
		return t, nil
	case float64:
		if t == float64(int64(t)) {
			return int64(t), nil
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil {
			return n, nil
		}
	}
	return nil, formbind.Fail("{field.name} must be a whole number").WithValue(v)
}

// AsFloat coerces numeric input into float64.
func AsFloat(v any, ctx *formbind.Context) (any, error) {
	switch t := v.(type) {
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case float64:
		return t, nil
	case string:
		if x, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return x, nil
		}
	}
	return nil, formbind.Fail("{field.name} must be a decimal number").WithValue(v)
}

// AsDate parses string data with the given time layout into a time.Time.
func AsDate(layout string) formbind.Validator {
	return func(v any, ctx *formbind.Context) (any, error) {
		s, ok := v.(string)
		if ok {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return nil, formbind.Fail("Date must be in {layout} format", "layout", layout).WithValue(v)
	}
}

// KeyMatcher ensures two entries of a Map node's clean data are equal. Attach
// it to the parent (chained after formbind.AllChildren) so it sees the
// children's clean values through the aggregate.
func KeyMatcher(key1, key2 string) formbind.Validator {
	return func(v any, ctx *formbind.Context) (any, error) {
		m, ok := v.(map[string]any)
		if !ok || !reflect.DeepEqual(m[key1], m[key2]) {
			return nil, formbind.Fail("{field.name}[{key1}] does not equal {field.name}[{key2}]",
				"key1", key1, "key2", key2).WithValue(v)
		}
		return v, nil
	}
}
