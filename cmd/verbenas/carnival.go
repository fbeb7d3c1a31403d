package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/verbenas-api/internal/calendar"
)

var (
	carnivalYear  int
	carnivalYears int
)

var carnivalCmd = &cobra.Command{
	Use:   "carnival",
	Short: "Show Carnival dates derived from Easter",
	Long: `Print Easter Sunday and the Carnival dates that follow from it.

Carnival Tuesday is 47 days before Easter Sunday.

Examples:
  verbenas carnival --year 2025
  verbenas carnival --year 2024 --years 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if carnivalYear < 1583 {
			return fmt.Errorf("--year must be 1583 or later, got %d", carnivalYear)
		}
		if carnivalYears < 1 {
			return fmt.Errorf("--years must be at least 1, got %d", carnivalYears)
		}

		t := newTable("YEAR", "CARNIVAL SAT", "CARNIVAL TUE", "ASH WED", "EASTER")
		for year := carnivalYear; year < carnivalYear+carnivalYears; year++ {
			t.addRow(
				strconv.Itoa(year),
				calendar.FormatDay(calendar.CarnivalSaturday(year)),
				calendar.FormatDay(calendar.CarnivalTuesday(year)),
				calendar.FormatDay(calendar.AshWednesday(year)),
				calendar.FormatDay(calendar.EasterSunday(year)),
			)
		}
		t.render()
		return nil
	},
}

func init() {
	carnivalCmd.Flags().IntVar(&carnivalYear, "year", time.Now().Year(), "first year")
	carnivalCmd.Flags().IntVar(&carnivalYears, "years", 1, "number of years to show")
}
