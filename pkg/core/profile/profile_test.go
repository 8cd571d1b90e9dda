package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPosts = []string{"Garde", "Consult", "Bloc", "Astreinte"}

func TestParseParticipation(t *testing.T) {
	assert.Equal(t, 0.8, ParseParticipation("80"))
	assert.Equal(t, 0.8, ParseParticipation(" 80% "))
	assert.InDelta(t, 0.505, ParseParticipation("50,5"), 1e-9)
	assert.Equal(t, 1.0, ParseParticipation("150"))
	assert.Equal(t, 0.0, ParseParticipation("-20"))
	assert.Equal(t, DefaultParticipation, ParseParticipation(""))
	assert.Equal(t, DefaultParticipation, ParseParticipation("full time"))
	assert.Equal(t, DefaultParticipation, ParseParticipation("NaN"))
}

func TestParseAbsences(t *testing.T) {
	days := ParseAbsences("3, 10-12; 20-18, abc, 5-x, 40, 7")

	assert.Equal(t, map[int]bool{3: true, 7: true, 10: true, 11: true, 12: true}, days)
}

func TestParseAbsences_Empty(t *testing.T) {
	assert.Empty(t, ParseAbsences(""))
	assert.Empty(t, ParseAbsences(" , ;"))
}

func TestParseExcludedWeekdays_CodesAndNames(t *testing.T) {
	excluded := ParseExcludedWeekdays("mon, Mercredi; SÁBADO dom. blah")

	assert.Equal(t, map[time.Weekday]bool{
		time.Monday:    true,
		time.Wednesday: true,
		time.Saturday:  true,
		time.Sunday:    true,
	}, excluded)
}

func TestParseExcludedWeekdays_CompositeTokens(t *testing.T) {
	weekdays := ParseExcludedWeekdays("weekdays_only")
	assert.Equal(t, map[time.Weekday]bool{time.Friday: true, time.Saturday: true, time.Sunday: true}, weekdays)

	weekends := ParseExcludedWeekdays("weekends_only")
	assert.Equal(t, map[time.Weekday]bool{
		time.Monday: true, time.Tuesday: true, time.Wednesday: true, time.Thursday: true,
	}, weekends)
}

func TestParseAssociations_CompleteGraph(t *testing.T) {
	graph := ParseAssociations("Garde, Bloc, Astreinte, Unknown", testPosts)

	assert.True(t, graph[0][2])
	assert.True(t, graph[2][0])
	assert.True(t, graph[0][3])
	assert.True(t, graph[3][2])
	assert.False(t, graph[0][1])
	assert.Len(t, graph, 3)
}

func TestParseAssociations_SinglePostIgnored(t *testing.T) {
	assert.Empty(t, ParseAssociations("Garde", testPosts))
	assert.Empty(t, ParseAssociations("Garde, Garde", testPosts))
}

func TestParse_FullRow(t *testing.T) {
	row := RawRow{
		Identifier:       " AB ",
		Participation:    "60",
		PreferredPosts:   "Garde, Consult",
		ExcludedPosts:    "Consult",
		Absences:         "1-3",
		ExcludedWeekdays: "fri",
		AssociatedPosts:  "Garde, Astreinte",
	}

	p, ok := Parse(row, testPosts)
	require.True(t, ok)

	assert.Equal(t, "AB", p.ID)
	assert.Equal(t, 0.6, p.Participation)
	assert.True(t, p.Prefers("Garde"))
	assert.False(t, p.Prefers("Consult"), "excluded posts are never preferred")
	assert.True(t, p.Excludes("Consult"))
	assert.True(t, p.IsAbsent(2))
	assert.False(t, p.IsAbsent(4))
	assert.True(t, p.ExcludesWeekday(time.Friday))
	assert.Equal(t, []int{3}, p.AssociatedWith(0))
	assert.True(t, p.IsAssociated(3, 0))
	assert.Nil(t, p.AssociatedWith(1))
}

func TestParse_MissingIdentifier(t *testing.T) {
	_, ok := Parse(RawRow{Identifier: "   ", Participation: "50"}, testPosts)
	assert.False(t, ok)
}

func TestParse_PermissiveDefaults(t *testing.T) {
	p, ok := Parse(RawRow{Identifier: "CD", Participation: "??", Absences: "x-y", ExcludedWeekdays: "someday"}, testPosts)
	require.True(t, ok)

	assert.Equal(t, 1.0, p.Participation)
	assert.Empty(t, p.AbsenceDays)
	assert.Empty(t, p.ExcludedWeekdays)
	assert.Empty(t, p.ExcludedPosts)
	assert.Empty(t, p.Associations)
}

func TestParseAll_SkipsBlankAndDuplicateRows(t *testing.T) {
	rows := []RawRow{
		{Identifier: "AB", Participation: "100"},
		{Identifier: ""},
		{Identifier: "CD", Participation: "50"},
		{Identifier: "AB", Participation: "10"},
	}

	profiles := ParseAll(rows, testPosts)

	require.Len(t, profiles, 2)
	assert.Equal(t, "AB", profiles[0].ID)
	assert.Equal(t, 1.0, profiles[0].Participation)
	assert.Equal(t, "CD", profiles[1].ID)
	assert.Equal(t, map[string]bool{"AB": true, "CD": true}, IDs(profiles))
}
