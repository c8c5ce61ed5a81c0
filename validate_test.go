package formbind_test

import (
	"reflect"
	"strings"
	"testing"

	formbind "github.com/formbind/formbind"
	"github.com/formbind/formbind/validators"
)

func signupSchema(t *testing.T) *formbind.Schema {
	t.Helper()
	schema, err := formbind.FromLiteral(map[string]any{
		"username":  validators.Matches(`^[a-zA-Z]\w{0,25}$`),
		"password":  formbind.Chain(validators.LimitLength(8, -1), validators.Matches(`[a-z]`), validators.Matches(`[A-Z]`)),
		"password2": formbind.Validator(validators.EnsureString),
	})
	if err != nil {
		t.Fatalf("schema err: %v", err)
	}
	schema.SetValidator(formbind.Chain(formbind.AllChildren, validators.KeyMatcher("password", "password2")))
	return schema
}

func TestValidate_RootKeyMatcherScenario(t *testing.T) {
	schema := signupSchema(t)
	form := formbind.Bind(schema, map[string]any{
		"username":  "ab",
		"password":  "Abcdefgh",
		"password2": "Abcdefgx",
	})

	if form.IsValid() {
		t.Fatalf("mismatched passwords must fail at the root")
	}
	for _, name := range []string{"username", "password", "password2"} {
		f, _ := form.Child(name)
		if f.Failure() != nil {
			t.Fatalf("%s must validate cleanly on its own, got %q", name, f.Error())
		}
	}
	if !strings.Contains(form.Error(), "does not equal") {
		t.Fatalf("root error should come from the key matcher, got %q", form.Error())
	}
	if form.Clean() != nil {
		t.Fatalf("failed root must not expose clean data")
	}
}

func TestValidate_RootKeyMatcherAccepts(t *testing.T) {
	schema := signupSchema(t)
	form := formbind.Bind(schema, map[string]any{
		"username":  "ab",
		"password":  "Abcdefgh",
		"password2": "Abcdefgh",
	})
	if !form.IsValid() {
		t.Fatalf("unexpected failure: %s", form.Error())
	}
	clean, ok := form.Clean().(map[string]any)
	if !ok || clean["username"] != "ab" {
		t.Fatalf("clean data not assembled: %#v", form.Clean())
	}
}

func TestValidate_LeafFailureRendersFieldName(t *testing.T) {
	schema := formbind.Map(formbind.F("age", formbind.Leaf(validators.AsInt)))
	form := formbind.Bind(schema, map[string]any{"age": "not a number"})

	if form.IsValid() {
		t.Fatalf("expected failure")
	}
	age, _ := form.Child("age")
	if age.Clean() != nil {
		t.Fatalf("failed field must keep clean data nil")
	}
	if got := age.Error(); got != "age must be a whole number" {
		t.Fatalf("rendered error = %q", got)
	}
	if age.Failure() == nil || age.Failure().Value != "not a number" {
		t.Fatalf("failure must record the offending raw value")
	}
}

func TestValidate_DefaultAggregate(t *testing.T) {
	schema := formbind.Map(
		formbind.F("good", formbind.Leaf(nil)),
		formbind.F("bad", formbind.Leaf(validators.AsInt)),
	)
	form := formbind.Bind(schema, map[string]any{"good": "ok", "bad": "nope"})

	if form.IsValid() {
		t.Fatalf("aggregate must fail when a child failed")
	}
	if !strings.Contains(form.Error(), "has invalid fields") {
		t.Fatalf("aggregate error = %q", form.Error())
	}
	good, _ := form.Child("good")
	if good.Clean() != "ok" {
		t.Fatalf("sibling of a failed field must still validate, clean=%v", good.Clean())
	}
	bad, _ := form.Child("bad")
	if bad.Error() == "" {
		t.Fatalf("child failure must stay recorded alongside the parent's")
	}
}

func TestValidate_ChildrenBeforeParent_DeclarationOrder(t *testing.T) {
	var order []string
	rec := func(name string) formbind.Validator {
		return func(v any, ctx *formbind.Context) (any, error) {
			order = append(order, name)
			return v, nil
		}
	}
	inner := formbind.Map(formbind.F("x", formbind.Leaf(rec("x"))))
	inner.SetValidator(formbind.Chain(formbind.AllChildren, rec("inner")))
	schema := formbind.Map(
		formbind.F("a", formbind.Leaf(rec("a"))),
		formbind.F("b", inner),
		formbind.F("c", formbind.Leaf(rec("c"))),
	)
	schema.SetValidator(formbind.Chain(formbind.AllChildren, rec("root")))

	formbind.Bind(schema, map[string]any{"a": 1, "b": map[string]any{"x": 2}, "c": 3}).IsValid()

	want := []string{"a", "x", "inner", "c", "root"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("validation order = %v, want %v", order, want)
	}
}

func TestValidate_Memoized(t *testing.T) {
	runs := 0
	schema := formbind.Map(formbind.F("n", formbind.Leaf(func(v any, ctx *formbind.Context) (any, error) {
		runs++
		return v, nil
	})))
	form := formbind.Bind(schema, map[string]any{"n": 1})

	first := form.IsValid()
	for i := 0; i < 3; i++ {
		if form.IsValid() != first {
			t.Fatalf("IsValid must be idempotent")
		}
	}
	if runs != 1 {
		t.Fatalf("validator ran %d times, want 1", runs)
	}
}

func TestValidate_ChildPassTriggeredFromChild(t *testing.T) {
	schema := formbind.Map(formbind.F("n", formbind.Leaf(validators.AsInt)))
	form := formbind.Bind(schema, map[string]any{"n": "7"})

	n, _ := form.Child("n")
	if !n.IsValid() {
		t.Fatalf("child-first validation failed: %s", n.Error())
	}
	if n.Clean() != int64(7) {
		t.Fatalf("clean = %v", n.Clean())
	}
	// the later root pass must reuse the child's memoized result
	if !form.IsValid() {
		t.Fatalf("root pass failed: %s", form.Error())
	}
}

func TestValidate_CustomRootIgnoresChildren(t *testing.T) {
	schema := formbind.Map(formbind.F("bad", formbind.Leaf(validators.AsInt)))
	schema.SetValidator(func(v any, ctx *formbind.Context) (any, error) {
		return "forced", nil
	})
	form := formbind.Bind(schema, map[string]any{"bad": "x"})

	if !form.IsValid() {
		t.Fatalf("custom root validator decides validity on its own terms")
	}
	if form.Clean() != "forced" {
		t.Fatalf("clean = %v", form.Clean())
	}
	bad, _ := form.Child("bad")
	if bad.Failure() == nil {
		t.Fatalf("child failures must still be recorded")
	}
}

func TestValidate_ParentContextListsInvalidChildren(t *testing.T) {
	var invalid []string
	schema := formbind.Map(
		formbind.F("a", formbind.Leaf(validators.AsInt)),
		formbind.F("b", formbind.Leaf(nil)),
		formbind.F("c", formbind.Leaf(validators.AsInt)),
	)
	schema.SetValidator(func(v any, ctx *formbind.Context) (any, error) {
		invalid = ctx.Invalid()
		return v, nil
	})
	formbind.Bind(schema, map[string]any{"a": "x", "b": "ok", "c": "y"}).IsValid()

	if !reflect.DeepEqual(invalid, []string{"a", "c"}) {
		t.Fatalf("invalid children = %v", invalid)
	}
}

func TestValidate_SequenceAggregate(t *testing.T) {
	schema := formbind.Seq(formbind.Leaf(validators.AsInt))
	bound := formbind.Bind(schema, []any{"1", "x", "3"})

	if bound.IsValid() {
		t.Fatalf("sequence with a failing element must fail")
	}
	e0, _ := bound.Index(0)
	if e0.Clean() != int64(1) {
		t.Fatalf("element 0 clean = %v", e0.Clean())
	}
	e1, _ := bound.Index(1)
	if e1.Failure() == nil {
		t.Fatalf("element 1 must fail")
	}
	e2, _ := bound.Index(2)
	if e2.Clean() != int64(3) {
		t.Fatalf("element 2 must validate despite sibling failure")
	}
}

func TestValidate_SequenceLengthLimit(t *testing.T) {
	schema := formbind.Seq(formbind.Leaf(nil))
	schema.SetValidator(formbind.Chain(formbind.AllChildren, validators.LimitLength(0, 2)))

	ok := formbind.Bind(schema, []any{"a", "b"})
	if !ok.IsValid() {
		t.Fatalf("within limit: %s", ok.Error())
	}
	long := formbind.Bind(schema, []any{"a", "b", "c"})
	if long.IsValid() {
		t.Fatalf("length-limited sequence must reject 3 elements")
	}
}

func TestValidate_RequiredOnAbsent(t *testing.T) {
	schema := formbind.Map(formbind.F("name", formbind.Leaf(validators.Required)))
	form := formbind.Bind(schema, map[string]any{})

	if form.IsValid() {
		t.Fatalf("missing required field must fail")
	}
	name, _ := form.Child("name")
	if name.Error() != "name is required." {
		t.Fatalf("rendered error = %q", name.Error())
	}
}

func TestValidate_PlainErrorLocalizesToNode(t *testing.T) {
	schema := formbind.Map(formbind.F("x", formbind.Leaf(func(v any, ctx *formbind.Context) (any, error) {
		return nil, errAny{}
	})))
	form := formbind.Bind(schema, map[string]any{"x": 1})
	if form.IsValid() {
		t.Fatalf("expected failure")
	}
	x, _ := form.Child("x")
	if x.Error() != "boom" {
		t.Fatalf("plain errors should become literal messages, got %q", x.Error())
	}
}

type errAny struct{}

func (errAny) Error() string { return "boom" }
