package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dimalbek/farmer-market/internal/models"
	"github.com/dimalbek/farmer-market/internal/payments"
	"github.com/dimalbek/farmer-market/internal/repo"
	"github.com/dimalbek/farmer-market/internal/service"
)

var webhookSecret = []byte("whsec_test")

func newWebhookHandler(t *testing.T) (*WebhookHTTP, *repo.GormRepo) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{}, &models.Order{}, &models.OrderItem{}, &models.CartItem{},
	))

	r := &repo.GormRepo{DB: db}
	return &WebhookHTTP{Svc: &service.WebhookService{Repo: r, WebhookSecret: webhookSecret}}, r
}

func postWebhook(t *testing.T, h *WebhookHTTP, payload, header string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", strings.NewReader(payload))
	req.Header.Set(payments.SignatureHeader, header)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.HandleWebhook(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestHandleWebhookBadSignature(t *testing.T) {
	h, _ := newWebhookHandler(t)

	payload := `{"id": "evt_1", "type": "checkout.session.completed"}`
	header := payments.SignatureHeaderValue(time.Now().Unix(), []byte(payload), []byte("wrong"))

	rec := postWebhook(t, h, payload, header)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleWebhookAcksPermanentFailure(t *testing.T) {
	h, _ := newWebhookHandler(t)

	// Unknown order: retrying can never succeed, so the delivery is acked.
	payload := `{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_1", "client_reference_id": "7", "metadata": {"order_id": "4242"}}}
	}`
	header := payments.SignatureHeaderValue(time.Now().Unix(), []byte(payload), webhookSecret)

	rec := postWebhook(t, h, payload, header)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status": "success"}`, rec.Body.String())
}

func TestHandleWebhookCompletesOrder(t *testing.T) {
	h, r := newWebhookHandler(t)

	product := models.Product{FarmerID: 1, Name: "tomatoes", Category: "Vegetables", Price: 3.50, Quantity: 10}
	require.NoError(t, r.DB.Create(&product).Error)
	order := models.Order{BuyerID: 7, Status: models.OrderStatusPending, TotalPrice: 7.00}
	require.NoError(t, r.DB.Create(&order).Error)

	payload := `{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_1", "client_reference_id": "7", "metadata": {"order_id": "1"}}}
	}`
	header := payments.SignatureHeaderValue(time.Now().Unix(), []byte(payload), webhookSecret)

	rec := postWebhook(t, h, payload, header)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Order
	require.NoError(t, r.DB.First(&got, order.ID).Error)
	require.Equal(t, models.OrderStatusProcessing, got.Status)
}
