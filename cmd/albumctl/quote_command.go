package main

import (
	"errors"
	"fmt"
	"strconv"

	"albummai/internal/domain/catalog"

	"github.com/spf13/cobra"
)

func newQuoteCommand(cat *catalog.Catalog) *cobra.Command {
	var (
		format      string
		cover       string
		pages       int
		shipping    string
		quantity    int
		promotional bool
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Calculate the price of one cart line",
		RunE: func(cmd *cobra.Command, args []string) error {
			if quantity <= 0 {
				return errors.New("quantity must be greater than 0")
			}
			if pages <= 0 {
				return errors.New("invalid page count")
			}
			ct, ok := catalog.ParseCoverType(cover)
			if !ok || !cat.IsValidConfiguration(format, ct) {
				return fmt.Errorf("invalid book configuration: %s/%s", format, cover)
			}

			b, err := cat.CalculateTotalPrice(format, ct, pages, shipping, quantity, promotional)
			if err != nil {
				return fmt.Errorf("calculate price: %w", err)
			}

			rows := [][]string{
				{"Book (per copy)", formatMoney(b.BookPrice)},
				{"  of which pages", formatMoney(b.PageSurcharge)},
				{"Quantity", strconv.Itoa(quantity)},
				{"Subtotal", formatMoney(b.Subtotal)},
				{"Shipping", formatMoney(b.ShippingPrice)},
				{"Total", formatMoney(b.Total)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Item", "Amount"}, rows, 2))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Book format id (mini, square, classic, panorama)")
	cmd.Flags().StringVar(&cover, "cover", string(catalog.CoverHardcover), "Cover type (softcover, hardcover, dutch)")
	cmd.Flags().IntVarP(&pages, "pages", "p", catalog.DefaultPageCount, "Page count")
	cmd.Flags().StringVarP(&shipping, "shipping", "s", "standard", "Shipping option id")
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "Number of copies")
	cmd.Flags().BoolVar(&promotional, "promo", false, "Use promotional shipping price")
	_ = cmd.MarkFlagRequired("format")
	return cmd
}
