package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrGatewayRejected is a definitive refusal from the gateway (4xx).
	ErrGatewayRejected = errors.New("gateway rejected")
	// ErrGatewayUnavailable covers transport failures, timeouts and 5xx.
	ErrGatewayUnavailable = errors.New("gateway unavailable")
)

// LineItem is one priced entry shown and charged by the hosted checkout page.
// UnitAmount is in minor currency units.
type LineItem struct {
	Name        string
	Description string
	UnitAmount  int64
	Quantity    uint
}

type SessionParams struct {
	LineItems       []LineItem
	ClientReference string
	OrderID         uint
	SuccessURL      string
	CancelURL       string
}

type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Gateway is what the checkout flow needs from the payment provider.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params SessionParams) (*Session, error)
}

// Client talks to a Stripe-shaped hosted-checkout API over HTTPS.
type Client struct {
	SecretKey string
	BaseURL   string
	HTTP      *http.Client
}

func NewClient(secretKey, baseURL string) *Client {
	return &Client{
		SecretKey: secretKey,
		BaseURL:   strings.TrimRight(baseURL, "/"),
		HTTP:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) CreateCheckoutSession(ctx context.Context, params SessionParams) (*Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("client_reference_id", params.ClientReference)
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("metadata[order_id]", strconv.FormatUint(uint64(params.OrderID), 10))

	for i, li := range params.LineItems {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[price_data][currency]", "usd")
		form.Set(prefix+"[price_data][product_data][name]", li.Name)
		form.Set(prefix+"[price_data][product_data][description]", li.Description)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(li.UnitAmount, 10))
		form.Set(prefix+"[quantity]", strconv.FormatUint(uint64(li.Quantity), 10))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrGatewayUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrGatewayUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: status %d: %s", ErrGatewayRejected, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var sess Session
	if err := json.Unmarshal(body, &sess); err != nil {
		return nil, fmt.Errorf("%w: decode session: %v", ErrGatewayUnavailable, err)
	}
	if sess.URL == "" {
		return nil, fmt.Errorf("%w: session without url", ErrGatewayRejected)
	}

	return &sess, nil
}
