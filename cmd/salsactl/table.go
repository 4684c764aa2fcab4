package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/salsa-ratings-service/internal/domain"
	"github.com/couchcryptid/salsa-ratings-service/internal/render"
)

func newTableCmd(src *sourceFlags) *cobra.Command {
	var (
		search  string
		sortKey string
		dir     string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the ratings table",
		Long: `Print the ratings table, optionally filtered and sorted.

Examples:
  salsactl table
  salsactl table --q tyler --sort rating --dir desc
  salsactl table --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := domain.ParseSortKey(sortKey)
			if err != nil {
				return err
			}
			snap, err := src.load(cmd)
			if err != nil {
				return err
			}
			q := render.TableQuery{Search: search, Sort: key, Dir: domain.ParseDirection(dir)}
			rows := render.TableRows(q.Apply(snap.Restaurants))

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			return writeTable(cmd.OutOrStdout(), rows)
		},
	}

	cmd.Flags().StringVarP(&search, "q", "q", "", "free-text filter")
	cmd.Flags().StringVar(&sortKey, "sort", "", "sort column: restaurant, location, salsa, rating")
	cmd.Flags().StringVar(&dir, "dir", string(domain.Asc), "sort direction: asc or desc")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print rows as JSON")
	return cmd
}

func writeTable(w io.Writer, rows []render.TableRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RESTAURANT\tLOCATION\tSALSA\tSTARS\tRATING")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Name, r.Location, r.Salsa, r.Stars, r.RatingText)
	}
	return tw.Flush()
}
