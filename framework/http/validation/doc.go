// Package validation checks request parameters against pipe-separated rule
// strings, the way a mapped handler declares them in its Mapping.Rules.
//
//	v := validation.Make(req.Params(), validation.Rules{
//	    "name": "required|alpha_num|max:32",
//	    "id":   "sometimes|integer|gte:1",
//	})
//	if v.Fails() {
//	    // {"errors": {"name": ["The name field is required."]}}
//	}
//
// Rules: required, numeric, integer, boolean, email, url, min:n, max:n
// (rune counts), in:a,b, not_in:a,b, alpha, alpha_num, alpha_dash,
// regex:pattern, gt:n, gte:n, lt:n, lte:n.
//
// Control rules: sometimes skips the field when the parameter is absent;
// nullable skips it when the value is empty. Evaluation of a field stops at
// its first failing rule.
package validation
