package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ── Error bag ────────────────────────────────────────────────────────────────

// Errors is the bag of failed rules, keyed by parameter name.
// JSON output: {"errors": {"field": ["msg"]}}
type Errors struct {
	Bag map[string][]string `json:"errors"`
}

func (e *Errors) add(field, format string, args ...any) {
	if e.Bag == nil {
		e.Bag = make(map[string][]string)
	}
	e.Bag[field] = append(e.Bag[field], fmt.Sprintf(format, args...))
}

// Has returns true if there are any errors.
func (e *Errors) Has() bool { return len(e.Bag) > 0 }

// First returns the first error for a field.
func (e *Errors) First(field string) string {
	if msgs := e.Bag[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Fields returns the failing field names, sorted.
func (e *Errors) Fields() []string {
	out := make([]string, 0, len(e.Bag))
	for f := range e.Bag {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// ── Validator ────────────────────────────────────────────────────────────────

// Rules maps a parameter name to a pipe-separated rule string.
//
//	Rules{"name": "required|alpha_num|max:32", "n": "integer|gte:0"}
type Rules map[string]string

// ErrUnknownRule is returned by Check for a rule name with no check behind it.
var ErrUnknownRule = errors.New("unknown validation rule")

// Check returns an error for the first unknown rule name, fields in
// sorted order.
func (r Rules) Check() error {
	fields := make([]string, 0, len(r))
	for f := range r {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	for _, field := range fields {
		for _, rule := range strings.Split(r[field], "|") {
			name, _, _ := strings.Cut(strings.TrimSpace(rule), ":")
			if !known(name) {
				return fmt.Errorf("%w %q on %s", ErrUnknownRule, name, field)
			}
		}
	}
	return nil
}

func known(name string) bool {
	switch name {
	case "", "sometimes", "nullable":
		return true
	}
	_, ok := checks[name]
	return ok
}

// Validator checks request parameters against Rules. Only the first value
// of each parameter is validated.
type Validator struct {
	params map[string][]string
	rules  Rules
	errors *Errors
	ran    bool
}

// Make creates a Validator over a request's parameter map.
func Make(params map[string][]string, rules Rules) *Validator {
	return &Validator{params: params, rules: rules, errors: &Errors{}}
}

// Fails runs validation and returns true if any rule fails.
func (v *Validator) Fails() bool {
	if !v.ran {
		v.ran = true
		v.validate()
	}
	return v.errors.Has()
}

// Passes is the inverse of Fails.
func (v *Validator) Passes() bool { return !v.Fails() }

// Errors returns the error bag.
func (v *Validator) Errors() *Errors { return v.errors }

func (v *Validator) value(field string) (string, bool) {
	vals, ok := v.params[field]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

func (v *Validator) validate() {
fields:
	for field, ruleset := range v.rules {
		value, present := v.value(field)
		for _, rule := range strings.Split(ruleset, "|") {
			name, param, _ := strings.Cut(strings.TrimSpace(rule), ":")
			if name == "" {
				continue
			}
			switch name {
			case "sometimes":
				if !present {
					continue fields
				}
				continue
			case "nullable":
				if value == "" {
					continue fields
				}
				continue
			}
			check, ok := checks[name]
			if !ok {
				v.errors.add(field, "The %s field has an unknown rule %s.", field, name)
				break
			}
			if !check(v, field, value, param) {
				break // bail on the first failure per field
			}
		}
	}
}

// ── Rules ────────────────────────────────────────────────────────────────────

type check func(v *Validator, field, value, param string) bool

var (
	alphaRe     = regexp.MustCompile(`^[a-zA-Z]+$`)
	alphaNumRe  = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	alphaDashRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	urlRe       = regexp.MustCompile(`^https?://`)
)

var checks = map[string]check{
	"required": func(v *Validator, field, value, _ string) bool {
		return v.expect(strings.TrimSpace(value) != "", field, "The %s field is required.", field)
	},
	"numeric": func(v *Validator, field, value, _ string) bool {
		_, err := strconv.ParseFloat(value, 64)
		return v.expect(err == nil, field, "The %s must be a number.", field)
	},
	"integer": func(v *Validator, field, value, _ string) bool {
		_, err := strconv.ParseInt(value, 10, 64)
		return v.expect(err == nil, field, "The %s must be an integer.", field)
	},
	"boolean": func(v *Validator, field, value, _ string) bool {
		_, err := strconv.ParseBool(value)
		return v.expect(err == nil, field, "The %s field must be true or false.", field)
	},
	"email": func(v *Validator, field, value, _ string) bool {
		_, err := mail.ParseAddress(value)
		return v.expect(err == nil, field, "The %s must be a valid email address.", field)
	},
	"url": func(v *Validator, field, value, _ string) bool {
		return v.expect(urlRe.MatchString(value), field, "The %s must be a valid URL.", field)
	},
	"min": func(v *Validator, field, value, param string) bool {
		n, _ := strconv.Atoi(param)
		return v.expect(utf8.RuneCountInString(value) >= n, field, "The %s must be at least %d characters.", field, n)
	},
	"max": func(v *Validator, field, value, param string) bool {
		n, _ := strconv.Atoi(param)
		return v.expect(utf8.RuneCountInString(value) <= n, field, "The %s may not be greater than %d characters.", field, n)
	},
	"in": func(v *Validator, field, value, param string) bool {
		return v.expect(inList(param, value), field, "The selected %s is invalid.", field)
	},
	"not_in": func(v *Validator, field, value, param string) bool {
		return v.expect(!inList(param, value), field, "The selected %s is invalid.", field)
	},
	"alpha": func(v *Validator, field, value, _ string) bool {
		return v.expect(alphaRe.MatchString(value), field, "The %s may only contain letters.", field)
	},
	"alpha_num": func(v *Validator, field, value, _ string) bool {
		return v.expect(alphaNumRe.MatchString(value), field, "The %s may only contain letters and numbers.", field)
	},
	"alpha_dash": func(v *Validator, field, value, _ string) bool {
		return v.expect(alphaDashRe.MatchString(value), field, "The %s may only contain letters, numbers, dashes and underscores.", field)
	},
	"regex": func(v *Validator, field, value, param string) bool {
		re, err := regexp.Compile(param)
		return v.expect(err == nil && re.MatchString(value), field, "The %s format is invalid.", field)
	},
	"gt":  compare(func(a, b float64) bool { return a > b }, "greater than"),
	"gte": compare(func(a, b float64) bool { return a >= b }, "greater than or equal to"),
	"lt":  compare(func(a, b float64) bool { return a < b }, "less than"),
	"lte": compare(func(a, b float64) bool { return a <= b }, "less than or equal to"),
}

func (v *Validator) expect(ok bool, field, format string, args ...any) bool {
	if !ok {
		v.errors.add(field, format, args...)
	}
	return ok
}

func compare(op func(a, b float64) bool, words string) check {
	return func(v *Validator, field, value, param string) bool {
		a, errA := strconv.ParseFloat(value, 64)
		b, errB := strconv.ParseFloat(param, 64)
		return v.expect(errA == nil && errB == nil && op(a, b), field, "The %s must be %s %s.", field, words, param)
	}
}

func inList(list, value string) bool {
	for _, item := range strings.Split(list, ",") {
		if strings.TrimSpace(item) == value {
			return true
		}
	}
	return false
}
