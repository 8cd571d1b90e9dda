package assigner

import (
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jakechorley/duty-rota/pkg/core/grid"
	"github.com/jakechorley/duty-rota/pkg/core/profile"
)

// monthGrid returns a grid where only openDays are available, on every post
func monthGrid(year int, month time.Month, posts []string, openDays ...int) *grid.MonthGrid {
	g := grid.NewMonthGrid(year, month, posts)
	for i := range g.Rows {
		if slices.Contains(openDays, g.Rows[i].Day) {
			continue
		}
		for j := range g.Rows[i].Cells {
			g.Rows[i].Cells[j].Unavailable = true
		}
	}
	return g
}

func profiles(posts []string, rows ...profile.RawRow) []profile.ConstraintProfile {
	return profile.ParseAll(rows, posts)
}

func seeded(seed int64) Options {
	return Options{Rand: rand.New(rand.NewSource(seed))}
}

func cellValue(t *testing.T, g grid.Grid, day, post int) string {
	t.Helper()
	value, err := g.Get(day, post)
	require.NoError(t, err)
	return value
}

// countCells counts the cells of g holding exactly id
func countCells(g *grid.MonthGrid, id string) int {
	count := 0
	for _, row := range g.Rows {
		for _, c := range row.Cells {
			if c.Value == id {
				count++
			}
		}
	}
	return count
}

// March 2025 starts on a Saturday: Mondays are 3, 10, 17, 24, 31 and
// Fridays are 7, 14, 21, 28
var (
	marchWeekdays = []int{3, 4, 5, 6, 10, 11, 12, 13, 17, 18}
	marchTrio     = []int{7, 8, 9}
)
