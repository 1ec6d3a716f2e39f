package payments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func sessionParams() SessionParams {
	return SessionParams{
		LineItems: []LineItem{
			{Name: "tomatoes", Description: "vine ripened", UnitAmount: 350, Quantity: 4},
			{Name: "honey", UnitAmount: 1200, Quantity: 1},
		},
		ClientReference: "7",
		OrderID:         12,
		SuccessURL:      "https://shop.example/success",
		CancelURL:       "https://shop.example/cancel",
	}
}

func TestCreateCheckoutSession(t *testing.T) {
	var form map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.Equal(t, "Bearer sk_test_1", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		form = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "cs_1", "url": "https://pay.example/cs_1"}`))
	}))
	defer srv.Close()

	client := NewClient("sk_test_1", srv.URL)
	sess, err := client.CreateCheckoutSession(context.Background(), sessionParams())
	require.NoError(t, err)
	require.Equal(t, "cs_1", sess.ID)
	require.Equal(t, "https://pay.example/cs_1", sess.URL)

	require.Equal(t, "payment", form["mode"][0])
	require.Equal(t, "7", form["client_reference_id"][0])
	require.Equal(t, "12", form["metadata[order_id]"][0])
	require.Equal(t, "tomatoes", form["line_items[0][price_data][product_data][name]"][0])
	require.Equal(t, "350", form["line_items[0][price_data][unit_amount]"][0])
	require.Equal(t, "4", form["line_items[0][quantity]"][0])
	require.Equal(t, "1200", form["line_items[1][price_data][unit_amount]"][0])
}

func TestCreateCheckoutSessionRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": "invalid request"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient("sk_test_1", srv.URL)
	_, err := client.CreateCheckoutSession(context.Background(), sessionParams())
	require.ErrorIs(t, err, ErrGatewayRejected)
}

func TestCreateCheckoutSessionUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient("sk_test_1", srv.URL)
	_, err := client.CreateCheckoutSession(context.Background(), sessionParams())
	require.ErrorIs(t, err, ErrGatewayUnavailable)

	// Transport failure maps the same way.
	srv.Close()
	_, err = client.CreateCheckoutSession(context.Background(), sessionParams())
	require.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestCreateCheckoutSessionMissingURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "cs_1"}`))
	}))
	defer srv.Close()

	client := NewClient("sk_test_1", srv.URL)
	_, err := client.CreateCheckoutSession(context.Background(), sessionParams())
	require.ErrorIs(t, err, ErrGatewayRejected)
}
