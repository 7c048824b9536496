package utils

import (
	"regexp"
	"strings"
	"time"
)

var casPattern = regexp.MustCompile(`^\d{2,7}-\d{2}-\d$`)

// ValidCAS reports whether s looks like a CAS registry number.
// The check digit is not verified.
func ValidCAS(s string) bool {
	return casPattern.MatchString(s)
}

// TrimToNil trims s and maps empty strings to nil.
func TrimToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"}

// ParseDate accepts RFC3339 timestamps and plain form dates. Empty input is nil.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			t = t.UTC()
			return &t, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
