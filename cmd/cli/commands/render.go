package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/jakechorley/duty-rota/pkg/core/assigner"
	"github.com/jakechorley/duty-rota/pkg/core/calendar"
	"github.com/jakechorley/duty-rota/pkg/core/grid"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

const dayColWidth = 14

// renderGrid prints the month with one row per day and one column per post.
// Weekend days are highlighted, unavailable cells are dimmed.
func renderGrid(w io.Writer, g *grid.MonthGrid, days []calendar.DayInfo) {
	postColWidth := 10
	for _, post := range g.Posts() {
		postColWidth = max(postColWidth, len(post)+2)
	}
	for _, row := range g.Rows {
		for _, cell := range row.Cells {
			postColWidth = max(postColWidth, len(cell.Value)+2)
		}
	}

	fmt.Fprintf(w, "%-*s", dayColWidth, "")
	for _, post := range g.Posts() {
		fmt.Fprintf(w, "%-*s", postColWidth, post)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", dayColWidth+postColWidth*len(g.Posts())))

	for _, info := range days {
		label := fmt.Sprintf("%2d %s", info.Day, info.Weekday.String()[:3])
		if info.Type == calendar.Weekend {
			fmt.Fprintf(w, "%s%-*s%s", colorYellow, dayColWidth, label, colorReset)
		} else {
			fmt.Fprintf(w, "%-*s", dayColWidth, label)
		}

		for post := range g.Posts() {
			value, err := g.Get(info.Day, post)
			switch {
			case err != nil:
				fmt.Fprintf(w, "%-*s", postColWidth, "")
			case !g.IsAvailable(info.Day, post):
				fmt.Fprintf(w, "%s%-*s%s", colorDim, postColWidth, grid.EmptyMarker, colorReset)
			default:
				fmt.Fprintf(w, "%-*s", postColWidth, value)
			}
		}
		fmt.Fprintln(w)
	}
}

// renderTallies prints weekday and weekend counts for the month and in total,
// next to the cumulative targets when they are known
func renderTallies(w io.Writer, tallies []assigner.Tally, targets assigner.TargetMap) {
	nameColWidth := 12
	for _, tally := range tallies {
		nameColWidth = max(nameColWidth, len(tally.ID)+2)
	}

	fmt.Fprintf(w, "%-*s%10s%10s%12s%12s\n", nameColWidth, "", "Weekday", "Weekend", "Total WD", "Total WE")
	fmt.Fprintln(w, strings.Repeat("-", nameColWidth+44))

	for _, tally := range tallies {
		fmt.Fprintf(w, "%-*s%10d%10d", nameColWidth, tally.ID, tally.Month.Weekday, tally.Month.Weekend)
		fmt.Fprintf(w, "%12d%12d", tally.Cumulative.Weekday, tally.Cumulative.Weekend)
		if target, ok := targets[tally.ID]; ok {
			color := targetColor(tally.Cumulative, target, colorGreen, colorYellow, colorRed)
			fmt.Fprintf(w, "  %starget %.1f/%.1f%s", color, target.Weekday, target.Weekend, colorReset)
		}
		fmt.Fprintln(w)
	}
}

// targetColor grades how far counts are from target: within one day in both
// pools is good, within two is close, anything else is off
func targetColor(counts assigner.PoolCounts, target assigner.PoolTargets, good, near, off string) string {
	worst := 0.0
	for _, pool := range calendar.Pools {
		diff := float64(counts.Of(pool)) - target.Of(pool)
		if diff < 0 {
			diff = -diff
		}
		worst = max(worst, diff)
	}
	switch {
	case worst <= 1:
		return good
	case worst <= 2:
		return near
	default:
		return off
	}
}
