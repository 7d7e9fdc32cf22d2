// Package validation checks user input against declarative per-field
// rules and collects one human-readable message per failing field.
//
//	err := validation.Validate(ctx,
//		validation.Field{Name: "email", Value: email, Rules: []validation.Rule{validation.Required(), validation.Email()}},
//		validation.Field{Name: "password", Value: pw, Rules: []validation.Rule{validation.Required(), validation.Min(8)}},
//	)
//
// A non-nil result is always *Errors and matches common.ErrValidation.
package validation

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/dmitrijs2005/passkeeper/internal/common"
)

// Violation describes why a value was rejected. Cause, when set, is
// exposed through Errors.Unwrap so callers can match it with errors.Is.
type Violation struct {
	Message string
	Cause   error
}

// Rule checks a single value. A nil Violation means the value passed.
// The error return is reserved for failures of the check itself, such as
// a database lookup in Unique.
type Rule func(ctx context.Context, name, value string) (*Violation, error)

// Field binds a value to the rules it must satisfy.
type Field struct {
	Name  string
	Value string
	Rules []Rule
}

// Errors maps field names to their first violation.
type Errors map[string]Violation

func (e Errors) Error() string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)

	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, e[name].Message)
	}
	return strings.Join(msgs, " ")
}

func (e Errors) Unwrap() []error {
	errs := []error{common.ErrValidation}
	for _, v := range e {
		if v.Cause != nil {
			errs = append(errs, v.Cause)
		}
	}
	return errs
}

// First returns the message of the first violating field in fields order.
func (e Errors) First(fields ...string) string {
	for _, f := range fields {
		if v, ok := e[f]; ok {
			return v.Message
		}
	}
	return e.Error()
}

// Validate runs every field through its rules, stopping at the first
// violation of each field. It returns nil, an *Errors, or the error of a
// rule that could not complete.
func Validate(ctx context.Context, fields ...Field) error {
	errs := Errors{}
	for _, f := range fields {
		for _, rule := range f.Rules {
			v, err := rule(ctx, f.Name, f.Value)
			if err != nil {
				return err
			}
			if v != nil {
				errs[f.Name] = *v
				break
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// AsErrors extracts validation errors from err.
func AsErrors(err error) (Errors, bool) {
	var errs Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}

// Label turns a field name such as "new_password" into "New password".
func Label(name string) string {
	s := strings.ReplaceAll(name, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func violation(name, msg string) *Violation {
	return &Violation{Message: Label(name) + " " + msg}
}
