package workspace

import (
	"slices"
	"time"

	"github.com/jakechorley/duty-rota/pkg/core/grid"
	"github.com/jakechorley/duty-rota/pkg/core/profile"
)

// RunKind identifies which engine produced a run record
type RunKind string

const (
	RunAssign  RunKind = "assign"
	RunBalance RunKind = "balance"
)

// RunRecord is one entry of the workspace run log
type RunRecord struct {
	ID         string    `yaml:"id" validate:"required,uuid"`
	Kind       RunKind   `yaml:"kind" validate:"oneof=assign balance"`
	StartedAt  time.Time `yaml:"startedAt"`
	Seed       string    `yaml:"seed,omitempty"`
	Filled     int       `yaml:"filled,omitempty"`
	Unfilled   int       `yaml:"unfilled,omitempty"`
	Swaps      int       `yaml:"swaps,omitempty"`
	Violations int       `yaml:"violations,omitempty"`
}

// Workspace is the persisted state of one roster: the posts, the people,
// earlier months and the month being worked on
type Workspace struct {
	Year     int              `yaml:"year" validate:"min=1900,max=9999"`
	Month    time.Month       `yaml:"month" validate:"min=1,max=12"`
	Posts    []string         `yaml:"posts" validate:"required,min=1,dive,required"`
	Profiles []profile.RawRow `yaml:"profiles" validate:"dive"`

	// History holds the earlier months, oldest first
	History []grid.MonthGrid `yaml:"history,omitempty"`
	Current *grid.MonthGrid  `yaml:"current,omitempty"`

	Runs []RunRecord `yaml:"runs,omitempty" validate:"dive"`
}

// New creates a workspace for the given month with an empty grid
func New(year int, month time.Month, posts []string) *Workspace {
	return &Workspace{
		Year:    year,
		Month:   month,
		Posts:   slices.Clone(posts),
		Current: grid.NewMonthGrid(year, month, posts),
	}
}

// CurrentGrid returns the grid of the current month, creating an empty one
// when the workspace has none yet
func (w *Workspace) CurrentGrid() *grid.MonthGrid {
	if w.Current == nil || len(w.Current.Rows) == 0 {
		w.Current = grid.NewMonthGrid(w.Year, w.Month, w.Posts)
	}
	return w.Current
}

// Months returns the history followed by the current month
func (w *Workspace) Months() []grid.Grid {
	months := make([]grid.Grid, 0, len(w.History)+1)
	for i := range w.History {
		months = append(months, &w.History[i])
	}
	return append(months, w.CurrentGrid())
}

// ParsedProfiles parses the profile rows against the workspace posts
func (w *Workspace) ParsedProfiles() []profile.ConstraintProfile {
	return profile.ParseAll(w.Profiles, w.Posts)
}

// Advance moves the current month into the history and starts the next month
// with an empty grid
func (w *Workspace) Advance() {
	w.History = append(w.History, *w.CurrentGrid())
	next := time.Date(w.Year, w.Month+1, 1, 0, 0, 0, 0, time.UTC)
	w.Year, w.Month = next.Year(), next.Month()
	w.Current = grid.NewMonthGrid(w.Year, w.Month, w.Posts)
}

// AddRun appends a record to the run log
func (w *Workspace) AddRun(run RunRecord) {
	w.Runs = append(w.Runs, run)
}
