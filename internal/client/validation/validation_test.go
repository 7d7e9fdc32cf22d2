package validation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/passkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func check(t *testing.T, rule Rule, name, value string) string {
	t.Helper()
	v, err := rule(context.Background(), name, value)
	require.NoError(t, err)
	if v == nil {
		return ""
	}
	return v.Message
}

func TestRules(t *testing.T) {
	tests := []struct {
		name  string
		rule  Rule
		field string
		value string
		want  string
	}{
		{"required ok", Required(), "email", "a", ""},
		{"required empty", Required(), "email", "", "Email is required."},
		{"length ok", Length(4), "passcode", "1234", ""},
		{"length bad", Length(4), "passcode", "123", "Passcode must consist of 4 characters."},
		{"length skips empty", Length(4), "passcode", "", ""},
		{"min ok", Min(8), "password", "12345678", ""},
		{"min bad", Min(8), "new_password", "short", "New password must consist of at least 8 characters."},
		{"min counts runes", Min(3), "password", "äöü", ""},
		{"max bytes ok", MaxBytes(72), "password", strings.Repeat("a", 72), ""},
		{"max bytes bad", MaxBytes(72), "password", strings.Repeat("a", 73), "Password must not be longer than 72 bytes."},
		{"max bytes counts bytes", MaxBytes(4), "passcode", "äää", "Passcode must not be longer than 4 bytes."},
		{"numeric ok", Numeric(), "passcode", "0042", ""},
		{"numeric bad", Numeric(), "passcode", "12a4", "Passcode must consist of digits only."},
		{"match ok", Match("secret"), "password_confirmation", "secret", ""},
		{"match bad", Match("secret"), "password_confirmation", "Secret", "Passwords do not match."},
		{"email ok", Email(), "email", "user@example.com", ""},
		{"email bad", Email(), "email", "user", "Email is not a valid email address."},
		{"email with name", Email(), "email", "Bob <bob@example.com>", "Email is not a valid email address."},
		{"in ok", In("sqlite", "postgres"), "driver", "sqlite", ""},
		{"in bad", In("sqlite", "postgres"), "driver", "mysql", "Driver has an unsupported value."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, check(t, tt.rule, tt.field, tt.value))
		})
	}
}

func TestUnique(t *testing.T) {
	taken := errors.New("taken")
	rule := Unique(func(_ context.Context, v string) (bool, error) {
		return v == "a@b.com", nil
	}, taken)

	v, err := rule(context.Background(), "email", "a@b.com")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "Email is taken.", v.Message)
	assert.ErrorIs(t, v.Cause, taken)

	v, err = rule(context.Background(), "email", "c@d.com")
	require.NoError(t, err)
	assert.Nil(t, v)

	failing := Unique(func(context.Context, string) (bool, error) { return false, errors.New("db down") }, taken)
	_, err = failing(context.Background(), "email", "x@y.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	err := Validate(ctx,
		Field{Name: "email", Value: "a@b.com", Rules: []Rule{Required(), Email()}},
		Field{Name: "password", Value: "12345678", Rules: []Rule{Required(), Min(8)}},
	)
	require.NoError(t, err)

	err = Validate(ctx,
		Field{Name: "email", Value: "", Rules: []Rule{Required(), Email()}},
		Field{Name: "password", Value: "short", Rules: []Rule{Required(), Min(8)}},
		Field{Name: "password_confirmation", Value: "other", Rules: []Rule{Required(), Match("short")}},
	)
	require.Error(t, err)
	require.ErrorIs(t, err, common.ErrValidation)

	errs, ok := AsErrors(err)
	require.True(t, ok)
	assert.Len(t, errs, 3)
	assert.Equal(t, "Email is required.", errs["email"].Message, "first failing rule wins")
	assert.Equal(t, "Password must consist of at least 8 characters.", errs.First("password", "email"))
	assert.Equal(t, "Email is required. Password must consist of at least 8 characters. Passwords do not match.", errs.Error())
}

func TestValidate_CauseIsWrapped(t *testing.T) {
	rule := Unique(func(context.Context, string) (bool, error) { return true, nil }, common.ErrDuplicateAccount)

	err := Validate(context.Background(), Field{Name: "email", Value: "a@b.com", Rules: []Rule{rule}})
	require.ErrorIs(t, err, common.ErrDuplicateAccount)
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestValidate_RuleError(t *testing.T) {
	boom := errors.New("boom")
	rule := Unique(func(context.Context, string) (bool, error) { return false, boom }, nil)

	err := Validate(context.Background(), Field{Name: "email", Value: "a@b.com", Rules: []Rule{rule}})
	require.ErrorIs(t, err, boom)
	_, ok := AsErrors(err)
	assert.False(t, ok)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "New password confirmation", Label("new_password_confirmation"))
	assert.Equal(t, "Web/app", Label("web/app"))
	assert.Equal(t, "", Label(""))
}
