package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMonthGrid(t *testing.T) {
	g := NewMonthGrid(2025, time.February, []string{"Garde", "Consult"})

	year, month := g.Period()
	assert.Equal(t, 2025, year)
	assert.Equal(t, time.February, month)
	assert.Equal(t, 28, g.RowCount())
	assert.Equal(t, []string{"Garde", "Consult"}, g.Posts())

	day, ok := g.DayNumber(27)
	require.True(t, ok)
	assert.Equal(t, 28, day)

	_, ok = g.DayNumber(28)
	assert.False(t, ok)
}

func TestMonthGrid_GetSet(t *testing.T) {
	g := NewMonthGrid(2025, time.March, []string{"Garde"})

	require.NoError(t, g.Set(4, 0, "AB"))
	value, err := g.Get(4, 0)
	require.NoError(t, err)
	assert.Equal(t, "AB", value)

	_, err = g.Get(32, 0)
	assert.ErrorIs(t, err, ErrNoSlot)
	assert.ErrorIs(t, g.Set(4, 1, "AB"), ErrNoSlot)
}

func TestMonthGrid_ShortRow(t *testing.T) {
	g := NewMonthGrid(2025, time.March, []string{"Garde", "Consult"})
	g.Rows[2].Cells = g.Rows[2].Cells[:1]

	_, err := g.Get(3, 1)
	assert.ErrorIs(t, err, ErrNoSlot)
	assert.False(t, g.IsAvailable(3, 1))
	assert.False(t, IsOpen(g, 3, 1))
	assert.True(t, IsOpen(g, 3, 0))
}

func TestIsOpen(t *testing.T) {
	g := NewMonthGrid(2025, time.March, []string{"Garde"})
	g.Rows[0].Cells[0].Unavailable = true
	g.Rows[1].Cells[0].ExcludedFromCount = true
	g.Rows[2].Cells[0].Value = "AB"
	g.Rows[3].Cells[0].Value = "  "

	assert.False(t, IsOpen(g, 1, 0))
	assert.False(t, IsOpen(g, 2, 0))
	assert.False(t, IsOpen(g, 3, 0))
	assert.True(t, IsOpen(g, 4, 0))
}

func TestClone_IsIndependent(t *testing.T) {
	g := NewMonthGrid(2025, time.March, []string{"Garde"})
	clone := g.Clone()

	require.NoError(t, clone.Set(1, 0, "AB"))

	value, _ := g.Get(1, 0)
	assert.Empty(t, value)
}

func TestPostIndex(t *testing.T) {
	g := NewMonthGrid(2025, time.March, []string{"Garde", "Consult"})
	assert.Equal(t, 1, PostIndex(g, "Consult"))
	assert.Equal(t, -1, PostIndex(g, "Bloc"))
}

func TestExtractNames(t *testing.T) {
	known := map[string]bool{"AB": true, "CD": true, "Jean Paul": true}

	assert.Equal(t, []string{"AB", "CD"}, ExtractNames("ab / CD", known))
	assert.Equal(t, []string{"AB", "CD"}, ExtractNames("AB\nCD", known))
	assert.Equal(t, []string{"AB", "CD"}, ExtractNames("AB  CD", known))
	assert.Equal(t, []string{"CD", "AB"}, ExtractNames("CD & AB + ab", known))
	assert.Equal(t, []string{"Jean Paul"}, ExtractNames("jeanpaul; ZZ", known))
	assert.Nil(t, ExtractNames(" x ", known))
	assert.Nil(t, ExtractNames("", known))
	assert.Empty(t, ExtractNames("ZZ", known))
}

func TestExtractNames_NoKnownSet(t *testing.T) {
	assert.Equal(t, []string{"AB", "ZZ"}, ExtractNames("AB, ZZ, x", nil))
}
