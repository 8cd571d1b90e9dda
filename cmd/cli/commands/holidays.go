package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakechorley/duty-rota/pkg/core/calendar"
	"github.com/jakechorley/duty-rota/pkg/core/services"
)

// HolidaysCmd creates the holidays command
func HolidaysCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "holidays <year> <month>",
		Short: "List the weekend-pool days of a month (Fri-Sun, holidays and holiday eves)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := parseYearMonth(args[0], args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n%s %d\n\n", month, year)
			for _, info := range services.MonthCalendar(year, month, app.Holidays, app.Logger) {
				if info.Type != calendar.Weekend {
					continue
				}
				note := ""
				switch info.Weekday {
				case time.Friday, time.Saturday, time.Sunday:
				default:
					note = "  (holiday or eve)"
				}
				fmt.Fprintf(out, "  %2d %s%s\n", info.Day, info.Weekday.String()[:3], note)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

// parseYearMonth parses command arguments such as "2025" "3"
func parseYearMonth(yearArg, monthArg string) (int, time.Month, error) {
	year, err := strconv.Atoi(yearArg)
	if err != nil || year < 1900 || year > 9999 {
		return 0, 0, fmt.Errorf("year must be a number between 1900 and 9999, got: %s", yearArg)
	}
	month, err := strconv.Atoi(monthArg)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month must be a number between 1 and 12, got: %s", monthArg)
	}
	return year, time.Month(month), nil
}
