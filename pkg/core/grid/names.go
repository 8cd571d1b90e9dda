package grid

import (
	"regexp"
	"strings"
	"unicode"
)

// EmptyMarker is written by hand in cells that are deliberately left blank
const EmptyMarker = "x"

var cellSeparators = regexp.MustCompile(`\r?\n|[,;/&+\t]| {2,}`)

// ExtractNames returns the known identifiers found in a cell, in order of
// appearance and without duplicates. Names are matched ignoring case and
// spaces and are returned in their canonical spelling. Unknown tokens are
// dropped. A nil known set keeps every token as written.
func ExtractNames(raw string, known map[string]bool) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, EmptyMarker) {
		return nil
	}

	canonical := make(map[string]string, len(known))
	for id := range known {
		canonical[nameKey(id)] = id
	}

	var names []string
	seen := make(map[string]bool)
	for _, token := range cellSeparators.Split(trimmed, -1) {
		token = strings.TrimSpace(token)
		if token == "" || strings.EqualFold(token, EmptyMarker) {
			continue
		}

		name := token
		if known != nil {
			id, ok := canonical[nameKey(token)]
			if !ok {
				continue
			}
			name = id
		}

		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

func nameKey(name string) string {
	return strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name))
}
