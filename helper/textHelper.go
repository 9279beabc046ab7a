package helper

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TitleCase upper-cases the first character of every space-separated word
// and lower-cases the rest. Runs of spaces collapse to one.
func TitleCase(s string) string {
	words := strings.Split(s, " ")
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		out = append(out, string(unicode.ToUpper(r))+strings.ToLower(w[size:]))
	}
	return strings.Join(out, " ")
}

func UpperAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToUpper(v)
	}
	return out
}

// NormalizeTags lower-cases and trims tags, dropping blanks and duplicates
// while keeping first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
