package catalog_test

import (
	"testing"

	"albummai/internal/domain/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fee = catalog.Money(500)

func TestCalculateBookPrice_PageSurcharge(t *testing.T) {
	c := catalog.Default()

	cases := []struct {
		pages int
		steps int64
	}{
		{pages: 24, steps: 0},
		{pages: 10, steps: 0},
		{pages: 25, steps: 1},
		{pages: 26, steps: 1},
		{pages: 27, steps: 2},
		{pages: 28, steps: 2},
		{pages: 30, steps: 3},
	}

	for _, f := range c.Formats() {
		for _, cover := range []catalog.CoverType{catalog.CoverSoftcover, catalog.CoverHardcover, catalog.CoverDutch} {
			if !c.IsValidConfiguration(f.ID, cover) {
				continue
			}
			base, err := c.BasePrice(f.ID, cover)
			require.NoError(t, err)

			for _, tc := range cases {
				got, err := c.CalculateBookPrice(f.ID, cover, tc.pages)
				require.NoError(t, err)
				assert.Equal(t, base+tc.steps*fee, got, "%s/%s/%d", f.ID, cover, tc.pages)
			}
		}
	}
}

func TestCalculateBookPrice_ClassicScenario(t *testing.T) {
	c := catalog.Default()

	_, err := c.CalculateBookPrice("classic", catalog.CoverSoftcover, 24)
	assert.ErrorIs(t, err, catalog.ErrUnsupportedCover)

	got, err := c.CalculateBookPrice("classic", catalog.CoverHardcover, 30)
	require.NoError(t, err)
	assert.Equal(t, catalog.Money(20000)+3*fee, got)
}

func TestCalculateBookPrice_UnknownFormat(t *testing.T) {
	_, err := catalog.Default().CalculateBookPrice("atlas", catalog.CoverHardcover, 24)
	assert.ErrorIs(t, err, catalog.ErrUnknownFormat)
}

func TestCalculateShippingPrice(t *testing.T) {
	c := catalog.Default()

	regular, err := c.CalculateShippingPrice("standard", false)
	require.NoError(t, err)
	assert.Equal(t, catalog.Money(1800), regular)

	promo, err := c.CalculateShippingPrice("standard", true)
	require.NoError(t, err)
	assert.Equal(t, catalog.Money(999), promo)

	_, err = c.CalculateShippingPrice("drone", false)
	assert.ErrorIs(t, err, catalog.ErrUnknownShippingOption)
}

func TestCalculateTotalPrice_LinearInQuantity(t *testing.T) {
	c := catalog.Default()

	for q := 1; q <= 5; q++ {
		b, err := c.CalculateTotalPrice("square", catalog.CoverHardcover, 26, "express", q, false)
		require.NoError(t, err)

		assert.Equal(t, catalog.Money(14000)+fee, b.BookPrice)
		assert.Equal(t, fee, b.PageSurcharge)
		assert.Equal(t, catalog.Money(2600), b.ShippingPrice)
		assert.Equal(t, b.BookPrice*int64(q), b.Subtotal)
		assert.Equal(t, b.BookPrice*int64(q)+b.ShippingPrice, b.Total)
	}
}

func TestCalculateTotalPrice_FailsFast(t *testing.T) {
	c := catalog.Default()

	b, err := c.CalculateTotalPrice("classic", catalog.CoverSoftcover, 24, "standard", 1, false)
	assert.ErrorIs(t, err, catalog.ErrUnsupportedCover)
	assert.Equal(t, catalog.PriceBreakdown{}, b)

	b, err = c.CalculateTotalPrice("classic", catalog.CoverHardcover, 24, "drone", 1, false)
	assert.ErrorIs(t, err, catalog.ErrUnknownShippingOption)
	assert.Equal(t, catalog.PriceBreakdown{}, b)
}

func TestCustomCatalog_Increment(t *testing.T) {
	c := catalog.New(
		[]catalog.BookFormat{{ID: "x", DutchPrice: 1000}},
		[]catalog.ShippingOption{{ID: "s", RegularPrice: 10}},
		catalog.PagePolicy{BasePages: 20, Increment: 4, IncrementFee: 100},
	)

	got, err := c.CalculateBookPrice("x", catalog.CoverDutch, 21)
	require.NoError(t, err)
	assert.Equal(t, catalog.Money(1100), got)

	got, err = c.CalculateBookPrice("x", catalog.CoverDutch, 28)
	require.NoError(t, err)
	assert.Equal(t, catalog.Money(1200), got)
}
