package profile

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultParticipation applies when the participation field is empty or unreadable
const DefaultParticipation = 1.0

// ParseParticipation reads a percentage ("80", "80%", "80,5") and returns it
// as a ratio clamped to [0, 1]. Anything unreadable means full participation.
func ParseParticipation(text string) float64 {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimSuffix(cleaned, "%")
	cleaned = strings.ReplaceAll(strings.TrimSpace(cleaned), ",", ".")
	if cleaned == "" {
		return DefaultParticipation
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(value) {
		return DefaultParticipation
	}

	return math.Max(0, math.Min(100, value)) / 100
}

// ParseAbsences reads day numbers and inclusive ranges ("3, 10-12").
// Malformed, reversed or out-of-month tokens are dropped.
func ParseAbsences(text string) map[int]bool {
	days := make(map[int]bool)
	for _, token := range splitList(text) {
		start, end, ok := parseDayRange(token)
		if !ok {
			continue
		}
		for day := start; day <= end; day++ {
			days[day] = true
		}
	}
	return days
}

func parseDayRange(token string) (int, int, bool) {
	if from, to, isRange := strings.Cut(token, "-"); isRange {
		start, err := strconv.Atoi(strings.TrimSpace(from))
		if err != nil {
			return 0, 0, false
		}
		end, err := strconv.Atoi(strings.TrimSpace(to))
		if err != nil {
			return 0, 0, false
		}
		if start > end || !validDay(start) || !validDay(end) {
			return 0, 0, false
		}
		return start, end, true
	}

	day, err := strconv.Atoi(token)
	if err != nil || !validDay(day) {
		return 0, 0, false
	}
	return day, day, true
}

func validDay(day int) bool {
	return day >= 1 && day <= 31
}

var (
	weekdaysOnly = []time.Weekday{time.Friday, time.Saturday, time.Sunday}
	weekendsOnly = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday}
)

// compositeTokens are the legacy scope values of older constraint tables.
// "weekdays_only" means the person only works Monday-Thursday.
var compositeTokens = map[string][]time.Weekday{
	"weekdays_only": weekdaysOnly,
	"weekday_only":  weekdaysOnly,
	"weekdays":      weekdaysOnly,
	"weekends_only": weekendsOnly,
	"weekend_only":  weekendsOnly,
	"weekend":       weekendsOnly,
}

// weekdayTokens maps codes and English, French and Spanish names (full and
// abbreviated, lower case, without accents) to weekdays
var weekdayTokens = map[string]time.Weekday{
	"mon": time.Monday, "monday": time.Monday, "lun": time.Monday, "lundi": time.Monday, "lunes": time.Monday,
	"tue": time.Tuesday, "tues": time.Tuesday, "tuesday": time.Tuesday, "mar": time.Tuesday, "mardi": time.Tuesday, "martes": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday, "mer": time.Wednesday, "mercredi": time.Wednesday, "mie": time.Wednesday, "miercoles": time.Wednesday,
	"thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday, "thursday": time.Thursday, "jeu": time.Thursday, "jeudi": time.Thursday, "jue": time.Thursday, "jueves": time.Thursday,
	"fri": time.Friday, "friday": time.Friday, "ven": time.Friday, "vendredi": time.Friday, "vie": time.Friday, "viernes": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday, "sam": time.Saturday, "samedi": time.Saturday, "sab": time.Saturday, "sabado": time.Saturday,
	"sun": time.Sunday, "sunday": time.Sunday, "dim": time.Sunday, "dimanche": time.Sunday, "dom": time.Sunday, "domingo": time.Sunday,
}

// ParseExcludedWeekdays reads weekday codes, names and the legacy composite
// tokens. Unknown tokens are ignored.
func ParseExcludedWeekdays(text string) map[time.Weekday]bool {
	excluded := make(map[time.Weekday]bool)
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == '/' || unicode.IsSpace(r)
	})

	for _, raw := range tokens {
		token := foldToken(raw)
		if weekdays, ok := compositeTokens[token]; ok {
			for _, wd := range weekdays {
				excluded[wd] = true
			}
			continue
		}
		if wd, ok := weekdayTokens[token]; ok {
			excluded[wd] = true
		}
	}
	return excluded
}

// foldToken lower-cases a token, strips accents and a trailing dot
func foldToken(token string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, token)
	if err != nil {
		folded = token
	}
	folded = strings.ToLower(strings.TrimSpace(folded))
	return strings.TrimSuffix(folded, ".")
}

// ParseAssociations builds the complete undirected graph over the listed
// posts. Fewer than two known posts yield no associations.
func ParseAssociations(text string, posts []string) map[int]map[int]bool {
	index := make(map[string]int, len(posts))
	for i, name := range posts {
		index[name] = i
	}

	var listed []int
	for _, name := range splitList(text) {
		if idx, ok := index[name]; ok {
			listed = append(listed, idx)
		}
	}

	graph := make(map[int]map[int]bool)
	for i := 0; i < len(listed); i++ {
		for j := i + 1; j < len(listed); j++ {
			a, b := listed[i], listed[j]
			if a == b {
				continue
			}
			link(graph, a, b)
			link(graph, b, a)
		}
	}
	return graph
}

func link(graph map[int]map[int]bool, from, to int) {
	if graph[from] == nil {
		graph[from] = make(map[int]bool)
	}
	graph[from][to] = true
}
