package handler_test

import (
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_Unauthorized(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decode[ErrorResponse](t, rec).Error)
}

func TestCart_AddMergesIdenticalLines(t *testing.T) {
	env := newTestEnv(t)
	album := env.seedAlbum(t, 1, "Lato")
	tok := token(t, 1, "USER")

	rec := env.do(t, http.MethodPost, "/cart", tok, addToCart(album.ID, "square", "hardcover", "standard", 2))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[cartItemJSON](t, rec)
	assert.Equal(t, 24, first.PageCount)
	assert.Equal(t, int64(14000), first.UnitPrice)
	assert.Equal(t, int64(1800), first.ShippingPrice)
	assert.Equal(t, int64(29800), first.TotalPrice)

	rec = env.do(t, http.MethodPost, "/cart", tok, addToCart(album.ID, "square", "hardcover", "standard", 1))
	require.Equal(t, http.StatusCreated, rec.Code)
	merged := decode[cartItemJSON](t, rec)
	assert.Equal(t, first.ID, merged.ID)
	assert.Equal(t, 3, merged.Quantity)
	assert.Equal(t, int64(43800), merged.TotalPrice)

	rec = env.do(t, http.MethodGet, "/cart", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decode[cartJSON](t, rec)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.TotalItems)
	assert.Equal(t, int64(43800), cart.TotalAmount)
	require.NotNil(t, cart.Items[0].Format)
	assert.Equal(t, "Square", cart.Items[0].Format.Title)
	require.NotNil(t, cart.Items[0].Album)
	assert.Equal(t, "Lato", cart.Items[0].Album.Title)
}

func TestCart_ConcurrentAddsDoNotLoseUpdates(t *testing.T) {
	env := newTestEnv(t)
	album := env.seedAlbum(t, 1, "Lato")
	tok := token(t, 1, "USER")

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			env.do(t, http.MethodPost, "/cart", tok, addToCart(album.ID, "mini", "softcover", "express", 1))
		}()
	}
	wg.Wait()

	cart := decode[cartJSON](t, env.do(t, http.MethodGet, "/cart", tok, nil))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, int64(5*8900+2600), cart.Items[0].TotalPrice)
}

func TestCart_AddValidation(t *testing.T) {
	env := newTestEnv(t)
	album := env.seedAlbum(t, 1, "Lato")
	foreign := env.seedAlbum(t, 2, "Cudza")
	tok := token(t, 1, "USER")

	cases := []struct {
		name   string
		body   map[string]any
		status int
		msg    string
	}{
		{name: "missing format", body: map[string]any{"albumId": album.ID, "coverType": "hardcover", "shippingOption": "standard"}, status: http.StatusBadRequest, msg: "missing required fields"},
		{name: "classic softcover", body: addToCart(album.ID, "classic", "softcover", "standard", 1), status: http.StatusBadRequest, msg: "invalid book configuration"},
		{name: "unknown format", body: addToCart(album.ID, "poster", "hardcover", "standard", 1), status: http.StatusBadRequest, msg: "invalid book configuration"},
		{name: "unknown shipping", body: addToCart(album.ID, "mini", "hardcover", "drone", 1), status: http.StatusNotFound, msg: "shipping option not found"},
		{name: "negative quantity", body: addToCart(album.ID, "mini", "hardcover", "standard", -1), status: http.StatusBadRequest, msg: "quantity must be greater than 0"},
		{name: "unknown album", body: addToCart(999, "mini", "hardcover", "standard", 1), status: http.StatusNotFound, msg: "album not found"},
		{name: "foreign album", body: addToCart(foreign.ID, "mini", "hardcover", "standard", 1), status: http.StatusNotFound, msg: "album not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/cart", tok, tc.body)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.msg, decode[ErrorResponse](t, rec).Error)
		})
	}
}

func TestCart_UpdateRepricesAndMerges(t *testing.T) {
	env := newTestEnv(t)
	album := env.seedAlbum(t, 1, "Lato")
	tok := token(t, 1, "USER")

	a := decode[cartItemJSON](t, env.do(t, http.MethodPost, "/cart", tok, addToCart(album.ID, "square", "hardcover", "standard", 1)))
	b := decode[cartItemJSON](t, env.do(t, http.MethodPost, "/cart", tok, addToCart(album.ID, "square", "dutch", "standard", 2)))

	// ページ追加で再計算（28ページ = +2段）
	rec := env.do(t, http.MethodPut, "/cart/"+itoa(a.ID), tok, map[string]any{"pageCount": 28})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[cartItemJSON](t, rec)
	assert.Equal(t, int64(15000), updated.UnitPrice)
	assert.Equal(t, int64(16800), updated.TotalPrice)

	// bをaと同じ構成にすると1行にまとまる
	rec = env.do(t, http.MethodPut, "/cart/"+itoa(b.ID), tok, map[string]any{"coverType": "hardcover", "pageCount": 28})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	merged := decode[cartItemJSON](t, rec)
	assert.Equal(t, a.ID, merged.ID)
	assert.Equal(t, 3, merged.Quantity)
	assert.Equal(t, int64(3*15000+1800), merged.TotalPrice)

	cart := decode[cartJSON](t, env.do(t, http.MethodGet, "/cart", tok, nil))
	assert.Len(t, cart.Items, 1)

	rec = env.do(t, http.MethodPut, "/cart/"+itoa(a.ID), tok, map[string]any{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, "/cart/9999", tok, map[string]any{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "cart item not found", decode[ErrorResponse](t, rec).Error)

	// 他人の明細は見えない
	rec = env.do(t, http.MethodPut, "/cart/"+itoa(a.ID), token(t, 2, "USER"), map[string]any{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCart_DeleteAndClear(t *testing.T) {
	env := newTestEnv(t)
	album := env.seedAlbum(t, 1, "Lato")
	tok := token(t, 1, "USER")

	a := decode[cartItemJSON](t, env.do(t, http.MethodPost, "/cart", tok, addToCart(album.ID, "mini", "hardcover", "standard", 1)))
	env.do(t, http.MethodPost, "/cart", tok, addToCart(album.ID, "mini", "dutch", "standard", 1))

	rec := env.do(t, http.MethodDelete, "/cart/"+itoa(a.ID), tok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/cart/"+itoa(a.ID), tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/cart/clear", tok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[cartJSON](t, env.do(t, http.MethodGet, "/cart", tok, nil)).Items)

	// 空でも200
	rec = env.do(t, http.MethodDelete, "/cart", tok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
