package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LockTimer is the auto-lock delay in milliseconds. LockTimerNever
// disables auto-lock.
type LockTimer int64

const (
	LockTimerNever   LockTimer = -1
	DefaultLockTimer LockTimer = 30_000

	second LockTimer = 1_000
	minute LockTimer = 60 * second
)

// LockTimerPresets are the values a user may pick from.
var LockTimerPresets = []LockTimer{
	15 * second,
	30 * second,
	45 * second,
	1 * minute,
	3 * minute,
	5 * minute,
	10 * minute,
	15 * minute,
	LockTimerNever,
}

var ErrInvalidLockTimer = errors.New("invalid lock timer")

func (t LockTimer) IsNever() bool {
	return t == LockTimerNever
}

// Duration converts t to a time.Duration. Never maps to 0.
func (t LockTimer) Duration() time.Duration {
	if t.IsNever() {
		return 0
	}
	return time.Duration(t) * time.Millisecond
}

// Valid reports whether t is one of LockTimerPresets.
func (t LockTimer) Valid() bool {
	for _, p := range LockTimerPresets {
		if p == t {
			return true
		}
	}
	return false
}

func (t LockTimer) String() string {
	switch {
	case t.IsNever():
		return "Never"
	case t >= minute && t%minute == 0:
		return plural(int64(t/minute), "minute")
	case t%second == 0:
		return plural(int64(t/second), "second")
	default:
		return t.Duration().String()
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.FormatInt(n, 10) + " " + unit + "s"
}

// ParseLockTimer accepts "never", a Go duration ("45s", "3m") or a label
// as printed by String ("15 seconds", "1 minute"). The result must be one
// of LockTimerPresets.
func ParseLockTimer(s string) (LockTimer, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "never" || s == "-1" {
		return LockTimerNever, nil
	}

	for _, p := range LockTimerPresets {
		if strings.ToLower(p.String()) == s {
			return p, nil
		}
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLockTimer, s)
	}
	t := LockTimer(d / time.Millisecond)
	if !t.Valid() {
		return 0, fmt.Errorf("%w: %s is not a preset", ErrInvalidLockTimer, d)
	}
	return t, nil
}
