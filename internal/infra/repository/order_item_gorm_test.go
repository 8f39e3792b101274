package repository_test

import (
	"context"
	"testing"

	"albummai/internal/domain/model"
	infrarepo "albummai/internal/infra/repository"
	"albummai/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderItemGorm_CreateBulkAndList(t *testing.T) {
	gdb := testutil.NewSQLite(t)
	ctx := context.Background()
	orderID, err := infrarepo.NewOrderGormRepository(gdb).Create(ctx, newOrder(1, "AM-260101-EEEEEE"))
	require.NoError(t, err)

	r := infrarepo.NewOrderItemGormRepository(gdb)
	require.NoError(t, r.CreateBulk(ctx, orderID, []model.OrderItem{
		{AlbumID: 1, AlbumTitle: "Lato", BookFormat: "square", FormatTitle: "Square", FormatDimensions: "20 x 20 cm", CoverType: "hardcover", PageCount: 24, ShippingOption: "express", ShippingTitle: "Express", EstimatedDays: 2, Quantity: 2, UnitPrice: 14000, ShippingPrice: 2600, TotalPrice: 30600},
		{AlbumID: 2, AlbumTitle: "Zima", BookFormat: "classic", FormatTitle: "Classic", FormatDimensions: "30 x 30 cm", CoverType: "hardcover", PageCount: 24, ShippingOption: "standard", ShippingTitle: "Standard", EstimatedDays: 5, Quantity: 1, UnitPrice: 20000, ShippingPrice: 1800, TotalPrice: 21800},
	}))
	require.NoError(t, r.CreateBulk(ctx, orderID, nil))

	items, err := r.ListByOrderID(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, orderID, items[0].OrderID)
	assert.Equal(t, "Lato", items[0].AlbumTitle)
	assert.Equal(t, 5, items[1].EstimatedDays)
}
