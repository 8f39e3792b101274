package main

import (
	"fmt"
	"strconv"

	"albummai/internal/domain/catalog"

	"github.com/spf13/cobra"
)

func newCatalogCommand(cat *catalog.Catalog) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Show book formats, shipping options and page pricing",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			formats := cat.Formats()
			rows := make([][]string, 0, len(formats))
			for _, f := range formats {
				rows = append(rows, []string{
					f.ID,
					f.Title,
					f.Dimensions,
					formatOptionalMoney(f.SoftcoverPrice),
					formatOptionalMoney(f.HardcoverPrice),
					formatMoney(f.DutchPrice),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "Title", "Size", "Softcover", "Hardcover", "Dutch"}, rows, 4, 5, 6))

			options := cat.ShippingOptions()
			rows = rows[:0]
			for _, s := range options {
				rows = append(rows, []string{
					s.ID,
					s.Title,
					formatMoney(s.PromotionalPrice),
					formatMoney(s.RegularPrice),
					strconv.Itoa(s.EstimatedDays),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "Shipping", "Promo", "Regular", "Days"}, rows, 3, 4, 5))

			p := cat.Pages()
			fmt.Fprintf(out, "Pages: %d included, +%s per %d pages\n", p.BasePages, formatMoney(p.IncrementFee), p.Increment)
			return nil
		},
	}
}
