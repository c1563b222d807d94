// Package policy implements the filtering policy model: the domain matcher,
// the application catalog, the per-user policy aggregate and the decision
// resolver whose contract the external DNS resolver consumes.
package policy

import "strings"

// Matches reports whether candidate matches pattern under the list-matching
// rule shared by the allow list, the deny list and blocked-app domain checks:
// the two are equal after case-folding, or candidate is a strict subdomain of
// pattern. No wildcard syntax and no partial-label matches;
// "evilgoogle.com" does not match "google.com".
func Matches(candidate, pattern string) bool {
	c := strings.ToLower(strings.TrimSpace(candidate))
	p := strings.ToLower(strings.TrimSpace(pattern))
	if c == "" || p == "" {
		return false
	}
	if c == p {
		return true
	}
	return strings.HasSuffix(c, "."+p)
}

// MatchesAny reports whether candidate matches any of the given patterns.
func MatchesAny(candidate string, patterns []string) bool {
	for _, p := range patterns {
		if Matches(candidate, p) {
			return true
		}
	}
	return false
}
