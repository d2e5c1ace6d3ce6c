package contract

import (
	"fmt"
	"strings"
)

// RequireKeys checks that the value is a string-keyed mapping containing
// every listed key.
func RequireKeys(keys ...string) Rule {
	return func(value any) []string {
		m, ok := value.(map[string]any)
		if !ok {
			return []string{fmt.Sprintf("expected object, got %T", value)}
		}
		var errs []string
		for _, key := range keys {
			if _, ok := m[key]; !ok {
				errs = append(errs, fmt.Sprintf("missing required key %q", key))
			}
		}
		return errs
	}
}

// NonEmptyString checks that the value is a non-blank string.
func NonEmptyString() Rule {
	return func(value any) []string {
		s, ok := value.(string)
		if !ok {
			return []string{fmt.Sprintf("expected string, got %T", value)}
		}
		if strings.TrimSpace(s) == "" {
			return []string{"string must not be empty"}
		}
		return nil
	}
}

// StringKey checks that the value is a mapping whose named key holds a
// non-blank string.
func StringKey(key string) Rule {
	return func(value any) []string {
		m, ok := value.(map[string]any)
		if !ok {
			return []string{fmt.Sprintf("expected object, got %T", value)}
		}
		raw, ok := m[key]
		if !ok {
			return []string{fmt.Sprintf("missing required key %q", key)}
		}
		s, ok := raw.(string)
		if !ok {
			return []string{fmt.Sprintf("key %q: expected string, got %T", key, raw)}
		}
		if strings.TrimSpace(s) == "" {
			return []string{fmt.Sprintf("key %q must not be empty", key)}
		}
		return nil
	}
}
