package diagnosis

import (
	"sort"
	"strings"
)

// normalize lowercases text, deletes every occurrence of each filler phrase
// and collapses whitespace. Fillers must already be lowercase and ordered
// longest first so that "don allah" goes before "allah".
func normalize(text string, fillers []string) string {
	text = strings.ToLower(text)
	for _, f := range fillers {
		if f == "" {
			continue
		}
		text = strings.ReplaceAll(text, f, "")
	}
	return strings.Join(strings.Fields(text), " ")
}

// prepareFillers lowercases fillers, drops blanks and orders them longest
// first, breaking ties lexically.
func prepareFillers(fillers []string) []string {
	out := make([]string, 0, len(fillers))
	seen := make(map[string]bool, len(fillers))
	for _, f := range fillers {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}
