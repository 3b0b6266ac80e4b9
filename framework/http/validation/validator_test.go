package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/km-arc/go-mvc/framework/http/validation"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func params(kv ...string) map[string][]string {
	out := make(map[string][]string)
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i]] = append(out[kv[i]], kv[i+1])
	}
	return out
}

func pass(t *testing.T, label string, p map[string][]string, rules validation.Rules) {
	t.Helper()
	t.Run(label, func(t *testing.T) {
		v := validation.Make(p, rules)
		assert.False(t, v.Fails(), "errors: %+v", v.Errors().Bag)
	})
}

func fail(t *testing.T, label, field string, p map[string][]string, rules validation.Rules) {
	t.Helper()
	t.Run(label, func(t *testing.T) {
		v := validation.Make(p, rules)
		assert.True(t, v.Fails())
		assert.NotEmpty(t, v.Errors().First(field))
	})
}

// ── rules ────────────────────────────────────────────────────────────────────

func TestValidation_Required(t *testing.T) {
	r := validation.Rules{"name": "required"}

	pass(t, "non-empty", params("name", "Bob"), r)
	fail(t, "empty", "name", params("name", ""), r)
	fail(t, "whitespace", "name", params("name", "  "), r)
	fail(t, "missing", "name", params(), r)

	v := validation.Make(params(), r)
	v.Fails()
	assert.Equal(t, "The name field is required.", v.Errors().First("name"))
}

func TestValidation_Numbers(t *testing.T) {
	pass(t, "integer", params("n", "-12"), validation.Rules{"n": "integer"})
	fail(t, "not integer", "n", params("n", "1.5"), validation.Rules{"n": "integer"})
	pass(t, "numeric", params("n", "1.5"), validation.Rules{"n": "numeric"})
	fail(t, "not numeric", "n", params("n", "x"), validation.Rules{"n": "numeric"})
	pass(t, "gte", params("n", "1"), validation.Rules{"n": "gte:1"})
	fail(t, "gt", "n", params("n", "1"), validation.Rules{"n": "gt:1"})
	pass(t, "lt", params("n", "0.5"), validation.Rules{"n": "lt:1"})
	fail(t, "lte", "n", params("n", "2"), validation.Rules{"n": "lte:1"})
}

func TestValidation_Strings(t *testing.T) {
	pass(t, "alpha_num", params("s", "Bob42"), validation.Rules{"s": "alpha_num"})
	fail(t, "alpha_num", "s", params("s", "Bob 42"), validation.Rules{"s": "alpha_num"})
	pass(t, "alpha_dash", params("s", "a-b_c"), validation.Rules{"s": "alpha_dash"})
	fail(t, "alpha", "s", params("s", "a1"), validation.Rules{"s": "alpha"})
	pass(t, "min runes", params("s", "héé"), validation.Rules{"s": "min:3"})
	fail(t, "max runes", "s", params("s", "abcd"), validation.Rules{"s": "max:3"})
	pass(t, "in", params("s", "b"), validation.Rules{"s": "in:a, b"})
	fail(t, "not_in", "s", params("s", "b"), validation.Rules{"s": "not_in:a,b"})
	pass(t, "regex", params("s", "ab12"), validation.Rules{"s": `regex:^[a-z]+\d+$`})
	fail(t, "email", "s", params("s", "nope"), validation.Rules{"s": "email"})
	pass(t, "url", params("s", "https://x.io"), validation.Rules{"s": "url"})
	pass(t, "boolean", params("s", "true"), validation.Rules{"s": "boolean"})
}

func TestValidation_Control(t *testing.T) {
	pass(t, "sometimes absent", params(), validation.Rules{"id": "sometimes|integer"})
	fail(t, "sometimes present", "id", params("id", "x"), validation.Rules{"id": "sometimes|integer"})
	pass(t, "nullable empty", params("id", ""), validation.Rules{"id": "nullable|integer"})
	fail(t, "unknown rule fails the field", "id", params("id", "1"), validation.Rules{"id": "bogus|integer"})
}

func TestRules_Check(t *testing.T) {
	assert.NoError(t, validation.Rules{"id": "sometimes|nullable|integer|gte:0", "name": " required | max:5 "}.Check())
	assert.NoError(t, validation.Rules(nil).Check())

	err := validation.Rules{"b": "integer", "a": "requird|integer"}.Check()
	assert.ErrorIs(t, err, validation.ErrUnknownRule)
	assert.ErrorContains(t, err, `"requird" on a`)
}

func TestValidation_BailsPerField(t *testing.T) {
	v := validation.Make(params(), validation.Rules{"name": "required|min:3", "n": "integer"})

	assert.True(t, v.Fails())
	assert.Len(t, v.Errors().Bag["name"], 1)
	assert.Equal(t, []string{"n", "name"}, v.Errors().Fields())
}

func TestValidation_FirstValueOnly(t *testing.T) {
	pass(t, "first wins", params("n", "1", "n", "x"), validation.Rules{"n": "integer"})
}
