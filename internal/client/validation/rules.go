package validation

import (
	"context"
	"fmt"
	"net/mail"
	"slices"
	"unicode/utf8"
)

// Required rejects the empty string. The remaining rules accept an empty
// value so that optional fields can skip Required.
func Required() Rule {
	return func(_ context.Context, name, value string) (*Violation, error) {
		if value == "" {
			return violation(name, "is required."), nil
		}
		return nil, nil
	}
}

// Length requires exactly n characters.
func Length(n int) Rule {
	return func(_ context.Context, name, value string) (*Violation, error) {
		if value != "" && utf8.RuneCountInString(value) != n {
			return violation(name, fmt.Sprintf("must consist of %d characters.", n)), nil
		}
		return nil, nil
	}
}

// Min requires at least n characters.
func Min(n int) Rule {
	return func(_ context.Context, name, value string) (*Violation, error) {
		if value != "" && utf8.RuneCountInString(value) < n {
			return violation(name, fmt.Sprintf("must consist of at least %d characters.", n)), nil
		}
		return nil, nil
	}
}

// MaxBytes caps the encoded size of the value. Use it where a consumer
// limits bytes rather than characters, such as bcrypt.
func MaxBytes(n int) Rule {
	return func(_ context.Context, name, value string) (*Violation, error) {
		if len(value) > n {
			return violation(name, fmt.Sprintf("must not be longer than %d bytes.", n)), nil
		}
		return nil, nil
	}
}

// Numeric requires ASCII digits only.
func Numeric() Rule {
	return func(_ context.Context, name, value string) (*Violation, error) {
		for _, r := range value {
			if r < '0' || r > '9' {
				return violation(name, "must consist of digits only."), nil
			}
		}
		return nil, nil
	}
}

// Match requires the value to equal other, e.g. a password confirmation.
func Match(other string) Rule {
	return func(_ context.Context, _, value string) (*Violation, error) {
		if value != "" && value != other {
			return &Violation{Message: "Passwords do not match."}, nil
		}
		return nil, nil
	}
}

// Email requires a bare address such as "user@example.com".
func Email() Rule {
	return func(_ context.Context, name, value string) (*Violation, error) {
		if value == "" {
			return nil, nil
		}
		addr, err := mail.ParseAddress(value)
		if err != nil || addr.Address != value || addr.Name != "" {
			return violation(name, "is not a valid email address."), nil
		}
		return nil, nil
	}
}

// Unique rejects values for which exists reports true. cause is attached
// to the violation so callers can tell "taken" apart from other failures.
func Unique(exists func(ctx context.Context, value string) (bool, error), cause error) Rule {
	return func(ctx context.Context, name, value string) (*Violation, error) {
		if value == "" {
			return nil, nil
		}
		taken, err := exists(ctx, value)
		if err != nil {
			return nil, fmt.Errorf("uniqueness check for %s: %w", name, err)
		}
		if taken {
			v := violation(name, "is taken.")
			v.Cause = cause
			return v, nil
		}
		return nil, nil
	}
}

// In requires the value to be one of allowed.
func In(allowed ...string) Rule {
	return func(_ context.Context, name, value string) (*Violation, error) {
		if value != "" && !slices.Contains(allowed, value) {
			return violation(name, "has an unsupported value."), nil
		}
		return nil, nil
	}
}
