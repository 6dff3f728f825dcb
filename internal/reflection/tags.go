package reflection

import (
	"regexp"
	"strings"
)

const maxTags = 20

var hashtagRe = regexp.MustCompile(`#([a-zA-Z0-9_]{1,32})`)

// Tags merges explicit tags with #hashtags found in text. Tags are trimmed,
// lowercased and de-duplicated in first-seen order, explicit ones first.
func Tags(explicit []string, text string) []string {
	candidates := make([]string, 0, len(explicit))
	for _, t := range explicit {
		candidates = append(candidates, strings.TrimPrefix(strings.TrimSpace(t), "#"))
	}
	for _, m := range hashtagRe.FindAllStringSubmatch(text, -1) {
		if len(m) < 2 {
			continue
		}
		candidates = append(candidates, m[1])
	}

	seen := map[string]struct{}{}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		t := strings.ToLower(c)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)

		if len(out) >= maxTags { // cap
			break
		}
	}
	return out
}
