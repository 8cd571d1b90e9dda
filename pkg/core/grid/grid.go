package grid

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNoSlot is returned when a (day, post) pair does not address a cell,
// either because the day is not in the grid or because its row is short
var ErrNoSlot = errors.New("no such slot")

// Grid is the view the engine has of one month of duty slots.
// Days are calendar day numbers (1-based); posts are indices into Posts().
type Grid interface {
	// Period returns the year and month the grid covers
	Period() (int, time.Month)

	// Posts returns the ordered post names (the grid columns)
	Posts() []string

	// RowCount returns the number of day rows
	RowCount() int

	// DayNumber maps a row index to its calendar day number
	DayNumber(row int) (int, bool)

	Get(day, post int) (string, error)
	Set(day, post int, value string) error

	// IsAvailable reports whether the slot may hold a person at all
	IsAvailable(day, post int) bool

	// IsExcludedFromCount reports whether the slot is ignored for counting and filling
	IsExcludedFromCount(day, post int) bool
}

// Cell is one slot of the grid
type Cell struct {
	Value             string `yaml:"value,omitempty"`
	Unavailable       bool   `yaml:"unavailable,omitempty"`
	ExcludedFromCount bool   `yaml:"excludedFromCount,omitempty"`
}

// Row holds the cells of one calendar day, ordered by post
type Row struct {
	Day   int    `yaml:"day"`
	Cells []Cell `yaml:"cells"`
}

// MonthGrid is the in-memory Grid implementation
type MonthGrid struct {
	Year      int        `yaml:"year"`
	Month     time.Month `yaml:"month"`
	PostNames []string   `yaml:"posts"`
	Rows      []Row      `yaml:"rows"`
}

// NewMonthGrid creates an empty grid with one row per day of the month
func NewMonthGrid(year int, month time.Month, posts []string) *MonthGrid {
	days := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	g := &MonthGrid{
		Year:      year,
		Month:     month,
		PostNames: append([]string(nil), posts...),
		Rows:      make([]Row, days),
	}
	for i := range g.Rows {
		g.Rows[i] = Row{Day: i + 1, Cells: make([]Cell, len(posts))}
	}
	return g
}

func (g *MonthGrid) Period() (int, time.Month) {
	return g.Year, g.Month
}

func (g *MonthGrid) Posts() []string {
	return g.PostNames
}

func (g *MonthGrid) RowCount() int {
	return len(g.Rows)
}

func (g *MonthGrid) DayNumber(row int) (int, bool) {
	if row < 0 || row >= len(g.Rows) {
		return 0, false
	}
	return g.Rows[row].Day, true
}

func (g *MonthGrid) cell(day, post int) (*Cell, error) {
	if post < 0 {
		return nil, fmt.Errorf("day %d post %d: %w", day, post, ErrNoSlot)
	}
	for i := range g.Rows {
		if g.Rows[i].Day != day {
			continue
		}
		if post >= len(g.Rows[i].Cells) {
			return nil, fmt.Errorf("day %d post %d: %w", day, post, ErrNoSlot)
		}
		return &g.Rows[i].Cells[post], nil
	}
	return nil, fmt.Errorf("day %d post %d: %w", day, post, ErrNoSlot)
}

func (g *MonthGrid) Get(day, post int) (string, error) {
	c, err := g.cell(day, post)
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

func (g *MonthGrid) Set(day, post int, value string) error {
	c, err := g.cell(day, post)
	if err != nil {
		return err
	}
	c.Value = value
	return nil
}

func (g *MonthGrid) IsAvailable(day, post int) bool {
	c, err := g.cell(day, post)
	return err == nil && !c.Unavailable
}

func (g *MonthGrid) IsExcludedFromCount(day, post int) bool {
	c, err := g.cell(day, post)
	return err == nil && c.ExcludedFromCount
}

// Clone returns a deep copy of the grid
func (g *MonthGrid) Clone() *MonthGrid {
	clone := &MonthGrid{
		Year:      g.Year,
		Month:     g.Month,
		PostNames: append([]string(nil), g.PostNames...),
		Rows:      make([]Row, len(g.Rows)),
	}
	for i, row := range g.Rows {
		clone.Rows[i] = Row{Day: row.Day, Cells: append([]Cell(nil), row.Cells...)}
	}
	return clone
}

// IsOpen reports whether the engine may write into the slot: it exists, is
// available, is counted and holds nothing yet
func IsOpen(g Grid, day, post int) bool {
	if !g.IsAvailable(day, post) || g.IsExcludedFromCount(day, post) {
		return false
	}
	value, err := g.Get(day, post)
	return err == nil && strings.TrimSpace(value) == ""
}

// PostIndex returns the column of the named post, or -1
func PostIndex(g Grid, name string) int {
	for i, post := range g.Posts() {
		if post == name {
			return i
		}
	}
	return -1
}
