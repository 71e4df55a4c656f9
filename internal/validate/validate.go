// Package validate checks request fields against declarative rule lists
// and collects per-field error messages for the API's validation-error
// envelope.
package validate

import (
	"fmt"
	"net/mail"
	"strings"
)

type kind int

const (
	kindRequired kind = iota
	kindMinLength
	kindMaxLength
	kindEmail
	kindInArray
	kindMin
	kindMax
)

// Rule is one validation constraint. Rules are plain data: each carries
// its kind plus the parameters that kind needs, and the validator
// interprets them with a single switch.
type Rule struct {
	kind    kind
	n       int
	allowed []string
}

// Required rejects empty strings. The literal "0" counts as present.
func Required() Rule { return Rule{kind: kindRequired} }

// MinLength requires at least n bytes.
func MinLength(n int) Rule { return Rule{kind: kindMinLength, n: n} }

// MaxLength allows at most n bytes.
func MaxLength(n int) Rule { return Rule{kind: kindMaxLength, n: n} }

// Email requires an RFC 5322 address.
func Email() Rule { return Rule{kind: kindEmail} }

// InArray requires the value to be one of the allowed strings.
func InArray(allowed ...string) Rule { return Rule{kind: kindInArray, allowed: allowed} }

// Min requires a numeric value of at least n.
func Min(n int) Rule { return Rule{kind: kindMin, n: n} }

// Max allows a numeric value of at most n.
func Max(n int) Rule { return Rule{kind: kindMax, n: n} }

// Validator accumulates field errors. The first failing rule per field
// wins; later rules for that field are skipped.
type Validator struct {
	errors map[string]string
}

func New() *Validator {
	return &Validator{errors: make(map[string]string)}
}

// String applies string rules to a field.
func (v *Validator) String(field, value string, rules ...Rule) *Validator {
	if _, done := v.errors[field]; done {
		return v
	}
	for _, r := range rules {
		var msg string
		switch r.kind {
		case kindRequired:
			if value == "" {
				msg = fmt.Sprintf("%s is required", field)
			}
		case kindMinLength:
			if len(value) < r.n {
				msg = fmt.Sprintf("%s must be at least %d characters", field, r.n)
			}
		case kindMaxLength:
			if len(value) > r.n {
				msg = fmt.Sprintf("%s must not exceed %d characters", field, r.n)
			}
		case kindEmail:
			if _, err := mail.ParseAddress(value); err != nil {
				msg = fmt.Sprintf("%s must be a valid email address", field)
			}
		case kindInArray:
			found := false
			for _, a := range r.allowed {
				if value == a {
					found = true
					break
				}
			}
			if !found {
				msg = fmt.Sprintf("%s must be one of: %s", field, strings.Join(r.allowed, ", "))
			}
		}
		if msg != "" {
			v.errors[field] = msg
			return v
		}
	}
	return v
}

// Int applies numeric rules to a field.
func (v *Validator) Int(field string, value int, rules ...Rule) *Validator {
	if _, done := v.errors[field]; done {
		return v
	}
	for _, r := range rules {
		var msg string
		switch r.kind {
		case kindMin:
			if value < r.n {
				msg = fmt.Sprintf("%s must be at least %d", field, r.n)
			}
		case kindMax:
			if value > r.n {
				msg = fmt.Sprintf("%s must not exceed %d", field, r.n)
			}
		}
		if msg != "" {
			v.errors[field] = msg
			return v
		}
	}
	return v
}

// Fail records an error directly, for checks the rule set cannot express.
func (v *Validator) Fail(field, message string) *Validator {
	if _, done := v.errors[field]; !done {
		v.errors[field] = message
	}
	return v
}

// Fails reports whether any field failed.
func (v *Validator) Fails() bool {
	return len(v.errors) > 0
}

// Errors returns the per-field messages.
func (v *Validator) Errors() map[string]string {
	return v.errors
}
