package common

import "strings"

// HasAny reports whether s contains any of subs, ignoring case.
func HasAny(s string, subs ...string) bool {
	s = strings.ToLower(s)
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// NormalizeKey folds a user-supplied name into a lookup key.
func NormalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
