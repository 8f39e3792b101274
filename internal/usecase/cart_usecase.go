package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"albummai/internal/domain/catalog"
	"albummai/internal/domain/model"
	repo "albummai/internal/repository"
)

// CartUsecase は /cart の業務ロジック
// 明細の価格はいつも価格表から計算し直して保存する。
type CartUsecase struct {
	tx        repo.TransactionManager
	cartItems repo.CartItemRepository
	albums    repo.AlbumRepository
	catalog   *catalog.Catalog
	promo     PromotionPolicy
}

func NewCartUsecase(
	tx repo.TransactionManager,
	cartItems repo.CartItemRepository,
	albums repo.AlbumRepository,
	cat *catalog.Catalog,
	promo PromotionPolicy,
) *CartUsecase {
	if promo == nil {
		promo = NoPromotion{}
	}
	return &CartUsecase{
		tx:        tx,
		cartItems: cartItems,
		albums:    albums,
		catalog:   cat,
		promo:     promo,
	}
}

type AlbumSummary struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// CartItemOutput は明細に価格表の表示データを付けたもの
type CartItemOutput struct {
	model.CartItem
	Format   *catalog.BookFormat     `json:"format,omitempty"`
	Shipping *catalog.ShippingOption `json:"shipping,omitempty"`
	Album    *AlbumSummary           `json:"album,omitempty"`
}

type CartOutput struct {
	Items       []CartItemOutput `json:"items"`
	TotalItems  int              `json:"totalItems"`
	TotalAmount int64            `json:"totalAmount"`
}

// nil は未指定
type AddCartItemInput struct {
	AlbumID        int64
	BookFormat     string
	CoverType      string
	PageCount      *int
	ShippingOption string
	Quantity       *int
	Customizations map[string]any
}

// 指定されたフィールドだけ反映する
type UpdateCartItemInput struct {
	Quantity       *int
	BookFormat     *string
	CoverType      *string
	PageCount      *int
	ShippingOption *string
	Customizations map[string]any
}

func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := u.cartItems.ListByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, dbError(err)
	}

	albums, err := u.albumSummaries(ctx, items)
	if err != nil {
		return CartOutput{}, dbError(err)
	}

	out := CartOutput{Items: make([]CartItemOutput, 0, len(items))}
	for _, it := range items {
		out.Items = append(out.Items, u.decorate(it, albums))
		out.TotalAmount += it.TotalPrice
	}
	out.TotalItems = len(items)
	return out, nil
}

// AddItem は同じ構成の明細があれば数量を足す
func (u *CartUsecase) AddItem(ctx context.Context, userID int64, in AddCartItemInput) (CartItemOutput, error) {
	if userID <= 0 {
		return CartItemOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	format := strings.TrimSpace(in.BookFormat)
	shipping := strings.TrimSpace(in.ShippingOption)
	if in.AlbumID <= 0 || format == "" || strings.TrimSpace(in.CoverType) == "" || shipping == "" {
		return CartItemOutput{}, NewHTTPError(http.StatusBadRequest, "missing required fields")
	}

	qty := 1
	if in.Quantity != nil {
		qty = *in.Quantity
	}
	if qty <= 0 {
		return CartItemOutput{}, NewHTTPError(http.StatusBadRequest, "quantity must be greater than 0")
	}
	pages := catalog.DefaultPageCount
	if in.PageCount != nil {
		pages = *in.PageCount
	}
	if pages <= 0 {
		return CartItemOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page count")
	}

	cover, ok := catalog.ParseCoverType(strings.TrimSpace(in.CoverType))
	if !ok || !u.catalog.IsValidConfiguration(format, cover) {
		return CartItemOutput{}, NewHTTPError(http.StatusBadRequest, "invalid book configuration")
	}
	if _, ok := u.catalog.Shipping(shipping); !ok {
		return CartItemOutput{}, NewHTTPError(http.StatusNotFound, "shipping option not found")
	}

	// 他人のアルバムは存在しない扱い
	album, err := u.albums.FindByID(ctx, in.AlbumID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && album.UserID != userID) {
		return CartItemOutput{}, NewHTTPError(http.StatusNotFound, "album not found")
	}
	if err != nil {
		return CartItemOutput{}, dbError(err)
	}

	price, err := u.catalog.CalculateTotalPrice(format, cover, pages, shipping, qty, u.promo.IsPromotional(ctx, userID))
	if err != nil {
		return CartItemOutput{}, pricingError(err)
	}

	saved, err := u.cartItems.UpsertAdd(ctx, model.CartItem{
		UserID:         userID,
		AlbumID:        album.ID,
		BookFormat:     format,
		CoverType:      cover,
		PageCount:      pages,
		ShippingOption: shipping,
		Quantity:       qty,
		UnitPrice:      price.BookPrice,
		ShippingPrice:  price.ShippingPrice,
		TotalPrice:     price.Total,
		Customizations: in.Customizations,
	})
	if err != nil {
		return CartItemOutput{}, dbError(err)
	}

	return u.decorate(saved, map[int64]AlbumSummary{album.ID: {ID: album.ID, Title: album.Title}}), nil
}

// UpdateItem は構成を変えた結果が別の明細と同じになったら1行にまとめる
func (u *CartUsecase) UpdateItem(ctx context.Context, userID int64, cartItemID int64, in UpdateCartItemInput) (CartItemOutput, error) {
	if userID <= 0 {
		return CartItemOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartItemOutput{}, NewHTTPError(http.StatusNotFound, "cart item not found")
	}
	if in.Quantity != nil && *in.Quantity <= 0 {
		return CartItemOutput{}, NewHTTPError(http.StatusBadRequest, "quantity must be greater than 0")
	}
	if in.PageCount != nil && *in.PageCount <= 0 {
		return CartItemOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page count")
	}

	promotional := u.promo.IsPromotional(ctx, userID)
	var result model.CartItem

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		item, err := r.CartItems().FindByID(ctx, userID, cartItemID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "cart item not found")
		}
		if err != nil {
			return dbError(err)
		}

		if in.Quantity != nil {
			item.Quantity = *in.Quantity
		}
		if in.BookFormat != nil {
			item.BookFormat = strings.TrimSpace(*in.BookFormat)
		}
		if in.CoverType != nil {
			cover, ok := catalog.ParseCoverType(strings.TrimSpace(*in.CoverType))
			if !ok {
				return NewHTTPError(http.StatusBadRequest, "invalid book configuration")
			}
			item.CoverType = cover
		}
		if in.PageCount != nil {
			item.PageCount = *in.PageCount
		}
		if in.ShippingOption != nil {
			item.ShippingOption = strings.TrimSpace(*in.ShippingOption)
		}
		if in.Customizations != nil {
			item.Customizations = in.Customizations
		}

		// 更新後の値で検証
		if !u.catalog.IsValidConfiguration(item.BookFormat, item.CoverType) {
			return NewHTTPError(http.StatusBadRequest, "invalid book configuration")
		}

		// 同じ構成の別明細があれば数量を寄せて、編集中の行は消す
		other, err := r.CartItems().FindByKey(ctx, item.Key())
		switch {
		case err == nil && other.ID != item.ID:
			other.Quantity += item.Quantity
			if in.Customizations != nil {
				other.Customizations = in.Customizations
			}
			if err := u.reprice(&other, promotional); err != nil {
				return err
			}
			if err := r.CartItems().Update(ctx, other); err != nil {
				return dbError(err)
			}
			if err := r.CartItems().DeleteByID(ctx, userID, item.ID); err != nil {
				return dbError(err)
			}
			result = other
			return nil
		case err != nil && !errors.Is(err, repo.ErrNotFound):
			return dbError(err)
		}

		if err := u.reprice(&item, promotional); err != nil {
			return err
		}
		if err := r.CartItems().Update(ctx, item); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "cart item not found")
			}
			return dbError(err)
		}
		result = item
		return nil
	})
	if err != nil {
		return CartItemOutput{}, err
	}

	albums, err := u.albumSummaries(ctx, []model.CartItem{result})
	if err != nil {
		return CartItemOutput{}, dbError(err)
	}
	return u.decorate(result, albums), nil
}

func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, cartItemID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	err := u.cartItems.DeleteByID(ctx, userID, cartItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "cart item not found")
	}
	if err != nil {
		return dbError(err)
	}
	return nil
}

// ClearCart は空でも成功
func (u *CartUsecase) ClearCart(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if _, err := u.cartItems.DeleteByUserID(ctx, userID); err != nil {
		return dbError(err)
	}
	return nil
}

// 現在の価格表で3項目を計算し直す
func (u *CartUsecase) reprice(item *model.CartItem, promotional bool) error {
	price, err := u.catalog.CalculateTotalPrice(
		item.BookFormat, item.CoverType, item.PageCount, item.ShippingOption, item.Quantity, promotional,
	)
	if err != nil {
		return pricingError(err)
	}
	item.UnitPrice = price.BookPrice
	item.ShippingPrice = price.ShippingPrice
	item.TotalPrice = price.Total
	return nil
}

func (u *CartUsecase) albumSummaries(ctx context.Context, items []model.CartItem) (map[int64]AlbumSummary, error) {
	ids := make([]int64, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	for _, it := range items {
		if _, ok := seen[it.AlbumID]; ok {
			continue
		}
		seen[it.AlbumID] = struct{}{}
		ids = append(ids, it.AlbumID)
	}

	albums, err := u.albums.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]AlbumSummary, len(albums))
	for _, a := range albums {
		out[a.ID] = AlbumSummary{ID: a.ID, Title: a.Title}
	}
	return out, nil
}

func (u *CartUsecase) decorate(it model.CartItem, albums map[int64]AlbumSummary) CartItemOutput {
	out := CartItemOutput{CartItem: it}
	if f, ok := u.catalog.Format(it.BookFormat); ok {
		out.Format = &f
	}
	if s, ok := u.catalog.Shipping(it.ShippingOption); ok {
		out.Shipping = &s
	}
	if a, ok := albums[it.AlbumID]; ok {
		out.Album = &a
	}
	return out
}
