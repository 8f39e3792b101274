package catalog

import "errors"

// Money は最小通貨単位（グロシュ）で持つ金額
type Money = int64

// MinorDigits は Money の小数桁数。価格表は1/100単位で書いている
const MinorDigits = 2

// CoverType は製本タイプ
type CoverType string

const (
	CoverSoftcover CoverType = "softcover"
	CoverHardcover CoverType = "hardcover"
	CoverDutch     CoverType = "dutch"
)

var (
	ErrUnknownFormat         = errors.New("unknown format")
	ErrUnsupportedCover      = errors.New("unsupported cover type for format")
	ErrUnknownShippingOption = errors.New("unknown shipping option")
)

// ParseCoverType は文字列をCoverTypeにする（enum外はfalse）
func ParseCoverType(s string) (CoverType, bool) {
	switch CoverType(s) {
	case CoverSoftcover, CoverHardcover, CoverDutch:
		return CoverType(s), true
	default:
		return "", false
	}
}

// BookFormat は購入可能な判型
// ソフトカバー/ハードカバーが無い判型は nil
type BookFormat struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Dimensions     string `json:"dimensions"`
	SoftcoverPrice *Money `json:"softcoverPrice"`
	HardcoverPrice *Money `json:"hardcoverPrice"`
	DutchPrice     Money  `json:"dutchPrice"`
}

// ShippingOption は配送方法
type ShippingOption struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	PromotionalPrice Money  `json:"promotionalPrice"`
	RegularPrice     Money  `json:"regularPrice"`
	EstimatedDays    int    `json:"estimatedDays"`
}

// PagePolicy はページ追加料金の設定
type PagePolicy struct {
	BasePages    int
	Increment    int
	IncrementFee Money
}

const (
	DefaultPageCount = 24
	pageIncrement    = 2
	pageIncrementFee = 500
)

// Catalog は起動時に作る不変の価格表
type Catalog struct {
	formats   []BookFormat
	shipping  []ShippingOption
	formatIdx map[string]int
	shipIdx   map[string]int
	pages     PagePolicy
}

// New はCatalogを作る。並び順は表示順としてそのまま保持する
func New(formats []BookFormat, shipping []ShippingOption, pages PagePolicy) *Catalog {
	c := &Catalog{
		formats:   make([]BookFormat, len(formats)),
		shipping:  make([]ShippingOption, len(shipping)),
		formatIdx: make(map[string]int, len(formats)),
		shipIdx:   make(map[string]int, len(shipping)),
		pages:     pages,
	}
	copy(c.formats, formats)
	copy(c.shipping, shipping)
	for i, f := range c.formats {
		c.formatIdx[f.ID] = i
	}
	for i, s := range c.shipping {
		c.shipIdx[s.ID] = i
	}
	if c.pages.Increment <= 0 {
		c.pages.Increment = pageIncrement
	}
	return c
}

func zl(v int64) *Money {
	m := v * 100
	return &m
}

// Default は本番の価格表
func Default() *Catalog {
	return New(
		[]BookFormat{
			{ID: "mini", Title: "Mini", Dimensions: "15 x 15 cm", SoftcoverPrice: zl(89), HardcoverPrice: zl(119), DutchPrice: *zl(159)},
			{ID: "square", Title: "Square", Dimensions: "20 x 20 cm", SoftcoverPrice: zl(110), HardcoverPrice: zl(140), DutchPrice: *zl(189)},
			{ID: "classic", Title: "Classic", Dimensions: "30 x 30 cm", HardcoverPrice: zl(200), DutchPrice: *zl(259)},
			{ID: "panorama", Title: "Panorama", Dimensions: "30 x 20 cm", HardcoverPrice: zl(179), DutchPrice: *zl(229)},
		},
		[]ShippingOption{
			{ID: "standard", Title: "Standard courier", Description: "Tracked courier delivery", PromotionalPrice: 999, RegularPrice: *zl(18), EstimatedDays: 5},
			{ID: "express", Title: "Express courier", Description: "Priority printing and next-day courier", PromotionalPrice: *zl(15), RegularPrice: *zl(26), EstimatedDays: 2},
			{ID: "parcel_locker", Title: "Parcel locker", Description: "Delivery to a parcel locker of your choice", PromotionalPrice: 0, RegularPrice: *zl(14), EstimatedDays: 3},
		},
		PagePolicy{BasePages: DefaultPageCount, Increment: pageIncrement, IncrementFee: pageIncrementFee},
	)
}

func (c *Catalog) Format(id string) (BookFormat, bool) {
	i, ok := c.formatIdx[id]
	if !ok {
		return BookFormat{}, false
	}
	return c.formats[i], true
}

func (c *Catalog) Shipping(id string) (ShippingOption, bool) {
	i, ok := c.shipIdx[id]
	if !ok {
		return ShippingOption{}, false
	}
	return c.shipping[i], true
}

func (c *Catalog) Formats() []BookFormat {
	out := make([]BookFormat, len(c.formats))
	copy(out, c.formats)
	return out
}

func (c *Catalog) ShippingOptions() []ShippingOption {
	out := make([]ShippingOption, len(c.shipping))
	copy(out, c.shipping)
	return out
}

func (c *Catalog) Pages() PagePolicy {
	return c.pages
}

// BasePrice は判型×製本の基本価格
func (c *Catalog) BasePrice(formatID string, cover CoverType) (Money, error) {
	f, ok := c.Format(formatID)
	if !ok {
		return 0, ErrUnknownFormat
	}

	var p *Money
	switch cover {
	case CoverSoftcover:
		p = f.SoftcoverPrice
	case CoverHardcover:
		p = f.HardcoverPrice
	case CoverDutch:
		d := f.DutchPrice
		p = &d
	}
	if p == nil {
		return 0, ErrUnsupportedCover
	}
	return *p, nil
}

// IsValidConfiguration は判型×製本が購入可能か判定する
func (c *Catalog) IsValidConfiguration(formatID string, cover CoverType) bool {
	f, ok := c.Format(formatID)
	if !ok {
		return false
	}
	switch cover {
	case CoverSoftcover:
		return f.SoftcoverPrice != nil
	case CoverHardcover, CoverDutch:
		// ハードカバーとダッチは判型があれば常に可
		return true
	default:
		return false
	}
}
