package util

import "strings"

// Normalize performs basic string normalization (lowercase + trim)
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CanonicalizeSlug folds a person identifier to the store's slug convention:
// lowercase, trimmed, separators collapsed to single hyphens.
func CanonicalizeSlug(s string) string {
	s = Normalize(s)
	if s == "" {
		return ""
	}

	var builder strings.Builder
	lastHyphen := false
	for _, r := range s {
		switch r {
		case ' ', '-', '_', '.':
			if !lastHyphen && builder.Len() > 0 {
				builder.WriteRune('-')
				lastHyphen = true
			}
		case '\'', '!', '‘', '’':
			continue
		default:
			builder.WriteRune(r)
			lastHyphen = false
		}
	}
	return strings.TrimSuffix(builder.String(), "-")
}

// SlugVariants returns the exact-match candidates tried before any partial
// matching: the normalized input itself, the hyphen form and the underscore
// form, deduplicated in order.
func SlugVariants(s string) []string {
	normalized := Normalize(s)
	canonical := CanonicalizeSlug(s)
	underscore := strings.ReplaceAll(canonical, "-", "_")

	variants := make([]string, 0, 3)
	seen := make(map[string]struct{}, 3)
	for _, v := range []string{normalized, canonical, underscore} {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		variants = append(variants, v)
	}
	return variants
}
