// Package paypal はPayPal Orders v2 APIのクライアント
package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const (
	CaptureStatusCompleted = "COMPLETED"

	// 期限ぎりぎりのトークンは使わない
	tokenRefreshMargin = 60 * time.Second
)

// APIError はPayPalが2xx以外を返したとき
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("paypal error %d: %s", e.StatusCode, e.Body)
}

type Item struct {
	Name       string
	Quantity   int
	UnitAmount int64
}

// CreateOrderInput の金額はその通貨の最小単位（PLNならグロシュ、JPYなら円）
type CreateOrderInput struct {
	Currency  string
	ItemTotal int64
	Shipping  int64
	Items     []Item
}

type Order struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Capture はキャプチャ結果。Raw はレスポンスそのまま
type Capture struct {
	ID        string
	Status    string
	CaptureID string
	Raw       json.RawMessage
}

type Client struct {
	httpClient   *http.Client
	baseURL      string
	clientID     string
	clientSecret string
	now          func() time.Time

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

func NewClient(baseURL, clientID, clientSecret string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		httpClient:   httpClient,
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		now:          time.Now,
	}
}

// token はキャッシュがあればそれを返し、無ければclient_credentialsで取り直す
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && c.now().Before(c.expiresAt.Add(-tokenRefreshMargin)) {
		return c.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("new token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var res struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if _, err := c.do(req, &res); err != nil {
		return "", fmt.Errorf("get paypal access token: %w", err)
	}
	if res.AccessToken == "" {
		return "", fmt.Errorf("get paypal access token: empty token")
	}

	c.accessToken = res.AccessToken
	c.expiresAt = c.now().Add(time.Duration(res.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

// CreateOrder はintent=CAPTUREでプロバイダ側の注文を作る
// requestID は PayPal-Request-Id（同じIDの再送は同じ注文になる）
func (c *Client) CreateOrder(ctx context.Context, requestID string, in CreateOrderInput) (Order, error) {
	cur, err := currency.ParseISO(in.Currency)
	if err != nil {
		return Order{}, fmt.Errorf("invalid currency %q: %w", in.Currency, err)
	}
	in.Currency = cur.String()
	amount := func(minor int64) map[string]string {
		return map[string]string{"currency_code": in.Currency, "value": formatMinor(cur, minor)}
	}

	items := make([]map[string]any, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, map[string]any{
			"name":        it.Name,
			"quantity":    fmt.Sprint(it.Quantity),
			"unit_amount": amount(it.UnitAmount),
		})
	}

	unit := map[string]any{
		"amount": map[string]any{
			"currency_code": in.Currency,
			"value":         formatMinor(cur, in.ItemTotal+in.Shipping),
			"breakdown": map[string]any{
				"item_total": amount(in.ItemTotal),
				"shipping":   amount(in.Shipping),
			},
		},
	}
	if len(items) > 0 {
		unit["items"] = items
	}
	payload := map[string]any{
		"intent":         "CAPTURE",
		"purchase_units": []map[string]any{unit},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Order{}, fmt.Errorf("marshal create order payload: %w", err)
	}

	req, err := c.newAuthorizedRequest(ctx, http.MethodPost, "/v2/checkout/orders", requestID, body)
	if err != nil {
		return Order{}, err
	}

	var o Order
	if _, err := c.do(req, &o); err != nil {
		return Order{}, fmt.Errorf("create paypal order: %w", err)
	}
	return o, nil
}

// CaptureOrder は承認済みの注文をキャプチャする
func (c *Client) CaptureOrder(ctx context.Context, requestID string, orderID string) (Capture, error) {
	path := "/v2/checkout/orders/" + url.PathEscape(orderID) + "/capture"
	req, err := c.newAuthorizedRequest(ctx, http.MethodPost, path, requestID, nil)
	if err != nil {
		return Capture{}, err
	}

	var res struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		PurchaseUnits []struct {
			Payments struct {
				Captures []struct {
					ID string `json:"id"`
				} `json:"captures"`
			} `json:"payments"`
		} `json:"purchase_units"`
	}
	raw, err := c.do(req, &res)
	if err != nil {
		return Capture{}, fmt.Errorf("capture paypal order: %w", err)
	}

	out := Capture{ID: res.ID, Status: res.Status, Raw: raw}
	if len(res.PurchaseUnits) > 0 && len(res.PurchaseUnits[0].Payments.Captures) > 0 {
		out.CaptureID = res.PurchaseUnits[0].Payments.Captures[0].ID
	}
	return out, nil
}

func (c *Client) newAuthorizedRequest(ctx context.Context, method, path, requestID string, body []byte) (*http.Request, error) {
	tok, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	var r io.Reader = http.NoBody
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("new paypal request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		req.Header.Set("PayPal-Request-Id", requestID)
	}
	return req, nil
}

// do はレスポンスをdstにデコードし、生のボディも返す
func (c *Client) do(req *http.Request, dst any) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read paypal response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if dst != nil {
		if err := json.Unmarshal(b, dst); err != nil {
			return nil, fmt.Errorf("decode paypal response: %w", err)
		}
	}
	return b, nil
}

// 桁数は通貨ごと。PLN 52400 -> "524.00"、JPY 524 -> "524"
func formatMinor(cur currency.Unit, minor int64) string {
	scale, _ := currency.Standard.Rounding(cur)
	return decimal.New(minor, -int32(scale)).StringFixed(int32(scale))
}
