package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/salsa-ratings-service/internal/domain"
)

func newStarsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stars <rating>...",
		Short: "Render ratings as stars",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				rating, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return fmt.Errorf("invalid rating %q", arg)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n",
					domain.FormatRating(domain.ClampRating(rating)), domain.Stars(rating))
			}
			return nil
		},
	}
}
