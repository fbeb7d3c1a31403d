package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/verbenas-api/internal/calendar"
	"github.com/zapponejosh/verbenas-api/internal/continuity"
)

var (
	checkMonth     int
	checkYear      int
	checkMunicipio string
	checkOutput    string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check which of last year's events are booked again",
	Long: `Compare last year's events in a month with this year's bookings.

Each event from the same month a year earlier is matched with at most one
event this year, held within fifteen days of the month, in the same
municipality, on the same weekday. Carnival events are matched relative to
Easter instead of by a fixed 364-day shift.

Examples:
  # June of the current year
  verbenas check --month 6

  # February 2025 in Santa Cruz, as JSON
  verbenas check --month 2 --year 2025 --municipio "Santa Cruz" --output json`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().IntVar(&checkMonth, "month", 0, "month to check, 1-12 (required)")
	checkCmd.Flags().IntVar(&checkYear, "year", time.Now().Year(), "year to check")
	checkCmd.Flags().StringVar(&checkMunicipio, "municipio", "", "only events in this municipality")
	checkCmd.Flags().StringVarP(&checkOutput, "output", "o", "table", "output format: table, json")
	checkCmd.MarkFlagRequired("month")
}

func runCheck(cmd *cobra.Command, args []string) error {
	if checkMonth < 1 || checkMonth > 12 {
		return fmt.Errorf("--month must be 1-12, got %d", checkMonth)
	}
	if checkOutput != "table" && checkOutput != "json" {
		return fmt.Errorf("--output must be table or json, got %q", checkOutput)
	}

	ctx := cmd.Context()

	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	events, err := db.ListEventsForYears(ctx, checkYear-1, checkYear)
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}
	if checkMunicipio != "" {
		events = continuity.FilterMunicipality(events, checkMunicipio)
	}

	report := continuity.Check(events, checkYear, time.Month(checkMonth))

	if checkOutput == "json" {
		return printJSON(report)
	}
	printReport(&report)
	return nil
}

func printReport(report *continuity.Report) {
	printInfo("Continuity %s against %s", report.Period, report.ReferencePeriod)
	fmt.Println()

	if report.Total == 0 {
		printWarn("No events in %s to compare", report.ReferencePeriod)
		return
	}

	if len(report.Found) > 0 {
		t := newTable("LAST YEAR", "MUNICIPIO", "LUGAR", "THIS YEAR", "DIST", "CARNAVAL")
		for _, r := range report.Found {
			carnival := ""
			if r.IsCarnival {
				carnival = "yes"
			}
			t.addRow(
				calendar.FormatDay(r.Reference.Date),
				r.Reference.Municipality,
				r.Reference.Venue,
				calendar.FormatDay(r.Matched.Date),
				strconv.Itoa(r.Distance),
				carnival,
			)
		}
		t.render()
		fmt.Println()
	}

	for _, r := range report.Missing {
		printError("%s  %s  %s  %s",
			calendar.FormatDay(r.Reference.Date),
			r.Reference.Municipality,
			r.Reference.Venue,
			continuity.JoinPerformers(r.Reference.Performers),
		)
	}
	if len(report.Missing) > 0 {
		fmt.Println()
	}

	coverageColor(report.CoveragePercent).Printf("Coverage: %d%% (%d of %d booked again, %d missing)\n",
		report.CoveragePercent, report.FoundCount, report.Total, report.MissingCount)
}
