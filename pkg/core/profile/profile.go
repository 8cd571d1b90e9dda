package profile

import (
	"slices"
	"strings"
	"time"
)

// RawRow is one line of the external constraint table, as typed by the user.
// Every field is free text; parsing is lenient and never fails.
type RawRow struct {
	Identifier       string `yaml:"identifier"`
	Participation    string `yaml:"participation,omitempty"`
	PreferredPosts   string `yaml:"preferredPosts,omitempty"`
	ExcludedPosts    string `yaml:"excludedPosts,omitempty"`
	Absences         string `yaml:"absences,omitempty"`
	ExcludedWeekdays string `yaml:"excludedWeekdays,omitempty"`
	AssociatedPosts  string `yaml:"associatedPosts,omitempty"`
	Comment          string `yaml:"comment,omitempty"`
}

// ConstraintProfile is the parsed, read-only constraint record of one person
type ConstraintProfile struct {
	// ID is the identifier written into grid cells (usually initials)
	ID string

	// Participation is the expected share of slots, in [0, 1]
	Participation float64

	PreferredPosts   map[string]bool
	ExcludedPosts    map[string]bool
	AbsenceDays      map[int]bool
	ExcludedWeekdays map[time.Weekday]bool

	// Associations is an undirected adjacency over post indices: filling one
	// post of a pair for this person should also fill the other on the same day
	Associations map[int]map[int]bool
}

// Prefers reports whether post is one of the profile's preferred posts
func (p *ConstraintProfile) Prefers(post string) bool {
	return p.PreferredPosts[post]
}

// Excludes reports whether the profile never works post
func (p *ConstraintProfile) Excludes(post string) bool {
	return p.ExcludedPosts[post]
}

// IsAbsent reports whether the profile is absent on the given day of the month
func (p *ConstraintProfile) IsAbsent(day int) bool {
	return p.AbsenceDays[day]
}

// ExcludesWeekday reports whether the profile never works on weekday
func (p *ConstraintProfile) ExcludesWeekday(weekday time.Weekday) bool {
	return p.ExcludedWeekdays[weekday]
}

// AssociatedWith returns the posts linked to postIndex, in ascending order
func (p *ConstraintProfile) AssociatedWith(postIndex int) []int {
	linked := p.Associations[postIndex]
	if len(linked) == 0 {
		return nil
	}
	result := make([]int, 0, len(linked))
	for idx := range linked {
		result = append(result, idx)
	}
	slices.Sort(result)
	return result
}

// IsAssociated reports whether posts a and b are linked for this profile
func (p *ConstraintProfile) IsAssociated(a, b int) bool {
	return p.Associations[a][b]
}

// Parse converts one raw row into a profile. posts is the ordered list of
// post names of the grid, used to resolve associations to indices.
// Returns false if the row has no identifier.
func Parse(row RawRow, posts []string) (ConstraintProfile, bool) {
	id := strings.TrimSpace(row.Identifier)
	if id == "" {
		return ConstraintProfile{}, false
	}

	excluded := toSet(splitList(row.ExcludedPosts))

	// A post cannot be both preferred and excluded; exclusion wins
	preferred := make(map[string]bool)
	for _, post := range splitList(row.PreferredPosts) {
		if !excluded[post] {
			preferred[post] = true
		}
	}

	return ConstraintProfile{
		ID:               id,
		Participation:    ParseParticipation(row.Participation),
		PreferredPosts:   preferred,
		ExcludedPosts:    excluded,
		AbsenceDays:      ParseAbsences(row.Absences),
		ExcludedWeekdays: ParseExcludedWeekdays(row.ExcludedWeekdays),
		Associations:     ParseAssociations(row.AssociatedPosts, posts),
	}, true
}

// ParseAll parses every row, skipping rows without identifier. When an
// identifier appears more than once the first row wins.
func ParseAll(rows []RawRow, posts []string) []ConstraintProfile {
	profiles := make([]ConstraintProfile, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		p, ok := Parse(row, posts)
		if !ok || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		profiles = append(profiles, p)
	}
	return profiles
}

// IDs returns the identifiers of the profiles as a lookup set
func IDs(profiles []ConstraintProfile) map[string]bool {
	ids := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		ids[p.ID] = true
	}
	return ids
}

// splitList splits a comma or semicolon separated list, trimming blanks
func splitList(text string) []string {
	text = strings.ReplaceAll(text, ";", ",")
	parts := strings.Split(text, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
