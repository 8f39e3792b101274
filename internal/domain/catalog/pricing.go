package catalog

// PriceBreakdown は1明細分の計算結果
type PriceBreakdown struct {
	BookPrice     Money `json:"bookPrice"`
	PageSurcharge Money `json:"pageSurcharge"`
	ShippingPrice Money `json:"shippingPrice"`
	Subtotal      Money `json:"subtotal"`
	Total         Money `json:"total"`
}

// PageSurcharge は基準ページ数を超えた分の追加料金（端数は切り上げ）
func (c *Catalog) PageSurcharge(pageCount int) Money {
	extra := pageCount - c.pages.BasePages
	if extra <= 0 {
		return 0
	}
	steps := (extra + c.pages.Increment - 1) / c.pages.Increment
	return Money(steps) * c.pages.IncrementFee
}

// CalculateBookPrice は1冊の価格
func (c *Catalog) CalculateBookPrice(formatID string, cover CoverType, pageCount int) (Money, error) {
	base, err := c.BasePrice(formatID, cover)
	if err != nil {
		return 0, err
	}
	return base + c.PageSurcharge(pageCount), nil
}

// CalculateShippingPrice は配送料（数量には掛けない）
func (c *Catalog) CalculateShippingPrice(shippingID string, promotional bool) (Money, error) {
	s, ok := c.Shipping(shippingID)
	if !ok {
		return 0, ErrUnknownShippingOption
	}
	if promotional {
		return s.PromotionalPrice, nil
	}
	return s.RegularPrice, nil
}

// CalculateTotalPrice は明細の価格一式。どちらかが失敗したら途中結果は返さない
func (c *Catalog) CalculateTotalPrice(formatID string, cover CoverType, pageCount int, shippingID string, quantity int, promotional bool) (PriceBreakdown, error) {
	book, err := c.CalculateBookPrice(formatID, cover, pageCount)
	if err != nil {
		return PriceBreakdown{}, err
	}
	ship, err := c.CalculateShippingPrice(shippingID, promotional)
	if err != nil {
		return PriceBreakdown{}, err
	}

	subtotal := book * Money(quantity)
	return PriceBreakdown{
		BookPrice:     book,
		PageSurcharge: c.PageSurcharge(pageCount),
		ShippingPrice: ship,
		Subtotal:      subtotal,
		Total:         subtotal + ship,
	}, nil
}
