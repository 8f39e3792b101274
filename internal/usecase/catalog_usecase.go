package usecase

import (
	"context"
	"net/http"
	"strings"

	"albummai/internal/domain/catalog"
)

type CatalogUsecase struct {
	catalog  *catalog.Catalog
	promo    PromotionPolicy
	currency string
}

func NewCatalogUsecase(cat *catalog.Catalog, promo PromotionPolicy, currency string) *CatalogUsecase {
	if promo == nil {
		promo = NoPromotion{}
	}
	return &CatalogUsecase{catalog: cat, promo: promo, currency: currency}
}

type PagePolicyOutput struct {
	BasePages    int   `json:"basePages"`
	Increment    int   `json:"increment"`
	IncrementFee int64 `json:"incrementFee"`
}

type CatalogOutput struct {
	Currency        string                   `json:"currency"`
	Formats         []catalog.BookFormat     `json:"formats"`
	ShippingOptions []catalog.ShippingOption `json:"shippingOptions"`
	Pages           PagePolicyOutput         `json:"pages"`
}

type QuoteInput struct {
	BookFormat     string
	CoverType      string
	PageCount      *int
	ShippingOption string
	Quantity       *int
}

type QuoteOutput struct {
	catalog.PriceBreakdown
	Quantity int    `json:"quantity"`
	Currency string `json:"currency"`
}

func (u *CatalogUsecase) Get() CatalogOutput {
	p := u.catalog.Pages()
	return CatalogOutput{
		Currency:        u.currency,
		Formats:         u.catalog.Formats(),
		ShippingOptions: u.catalog.ShippingOptions(),
		Pages:           PagePolicyOutput{BasePages: p.BasePages, Increment: p.Increment, IncrementFee: p.IncrementFee},
	}
}

// Quote はカートに入れずに価格だけ計算する（userIDは未ログインなら0）
func (u *CatalogUsecase) Quote(ctx context.Context, userID int64, in QuoteInput) (QuoteOutput, error) {
	format := strings.TrimSpace(in.BookFormat)
	shipping := strings.TrimSpace(in.ShippingOption)
	if format == "" || strings.TrimSpace(in.CoverType) == "" || shipping == "" {
		return QuoteOutput{}, NewHTTPError(http.StatusBadRequest, "missing required fields")
	}

	qty := 1
	if in.Quantity != nil {
		qty = *in.Quantity
	}
	if qty <= 0 {
		return QuoteOutput{}, NewHTTPError(http.StatusBadRequest, "quantity must be greater than 0")
	}
	pages := catalog.DefaultPageCount
	if in.PageCount != nil {
		pages = *in.PageCount
	}
	if pages <= 0 {
		return QuoteOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page count")
	}

	cover, ok := catalog.ParseCoverType(strings.TrimSpace(in.CoverType))
	if !ok {
		return QuoteOutput{}, NewHTTPError(http.StatusBadRequest, "invalid book configuration")
	}

	promotional := userID > 0 && u.promo.IsPromotional(ctx, userID)
	price, err := u.catalog.CalculateTotalPrice(format, cover, pages, shipping, qty, promotional)
	if err != nil {
		return QuoteOutput{}, pricingError(err)
	}
	return QuoteOutput{PriceBreakdown: price, Quantity: qty, Currency: u.currency}, nil
}
