package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/salsa-ratings-service/internal/domain"
)

// requiredColumns must appear in the sheet header. Heat may come from either
// "salsa" or "heat".
var requiredColumns = []string{"restaurant", "location", "rating"}

// phase tracks pass/fail for a validation phase. Warnings are reported but
// do not fail the phase.
type phase struct {
	name     string
	errors   []string
	warnings []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) warnf(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func newValidateCmd(src *sourceFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a sheet for parse, rating, heat, and coordinate problems",
		Long: `Validate the sheet without falling back to the built-in list.

Examples:
  salsactl validate
  salsactl validate --file ratings.csv --coordinates coords.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			text, err := src.readCSV(ctx, src.logger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			coords, err := src.coordinateTable()
			if err != nil {
				return err
			}
			return runValidation(cmd.OutOrStdout(), text, coords)
		},
	}
}

func runValidation(w io.Writer, text string, coords *domain.CoordinateTable) error {
	fmt.Fprintln(w, "=== Salsa Sheet Validation ===")

	rows, err := domain.ParseCSV(text)
	parse := &phase{name: "CSV parses with data rows"}
	switch {
	case err != nil:
		parse.errorf("%v", err)
	case len(rows) == 0:
		parse.errorf("%v", domain.ErrEmptySheet)
	}

	phases := []*phase{parse}
	if parse.passed() {
		phases = append(phases,
			validateColumns(rows),
			validateRatings(rows),
			validateHeat(rows),
			validateCoordinates(rows, coords),
		)
	}

	fmt.Fprintln(w)
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		} else if len(p.warnings) > 0 {
			status = fmt.Sprintf("\033[33mPASS (%d warnings)\033[0m", len(p.warnings))
		}
		fmt.Fprintf(w, "  %-34s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Rows: %d\n", len(rows))

	for _, p := range phases {
		if len(p.errors)+len(p.warnings) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
		for _, warn := range p.warnings {
			fmt.Fprintf(w, "  [warn] %s\n", warn)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return nil
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return errValidationFailed
}

func validateColumns(rows []domain.Row) *phase {
	p := &phase{name: "Required columns present"}
	header := rows[0]
	for _, col := range requiredColumns {
		if _, ok := header[col]; !ok {
			p.errorf("missing column %q", col)
		}
	}
	_, hasSalsa := header["salsa"]
	_, hasHeat := header["heat"]
	if !hasSalsa && !hasHeat {
		p.errorf("missing column %q (or %q)", "salsa", "heat")
	}
	if _, ok := header["description"]; !ok {
		p.warnf("no %q column; popups will omit descriptions", "description")
	}

	seen := make(map[string]int, len(rows))
	for i, row := range rows {
		line := i + 1
		if strings.TrimSpace(row["restaurant"]) == "" {
			p.errorf("row %d: empty restaurant name", line)
			continue
		}
		id := domain.RestaurantFromRow(row).ID
		if prev, ok := seen[id]; ok {
			p.warnf("row %d: duplicates row %d (%s)", line, prev, row["restaurant"])
			continue
		}
		seen[id] = line
	}
	return p
}

func validateRatings(rows []domain.Row) *phase {
	p := &phase{name: "Ratings are numbers in 0-5"}
	for i, row := range rows {
		line := i + 1
		cell := strings.TrimSpace(row["rating"])
		rating, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			p.errorf("row %d (%s): rating %q is not a number, shown as %s",
				line, row["restaurant"], cell, domain.FormatRating(domain.ParseRating(cell)))
			continue
		}
		if rating < 0 || rating > domain.MaxRating {
			p.errorf("row %d (%s): rating %s outside 0-%d", line, row["restaurant"], cell, domain.MaxRating)
		}
	}
	return p
}

func validateHeat(rows []domain.Row) *phase {
	p := &phase{name: "Heat labels recognized"}
	for i, row := range rows {
		r := domain.RestaurantFromRow(row)
		if r.Heat() == domain.HeatUnknown {
			p.errorf("row %d (%s): unknown heat %q, shown as %s", i+1, r.Name, r.Salsa, domain.HeatUnknown.CSSClass())
		}
	}
	return p
}

func validateCoordinates(rows []domain.Row, coords *domain.CoordinateTable) *phase {
	p := &phase{name: "Restaurants placed on map"}
	for i, row := range rows {
		name := row["restaurant"]
		if _, ok := coords.Lookup(name); !ok {
			p.warnf("row %d: no coordinates for %q", i+1, name)
		}
	}
	return p
}
