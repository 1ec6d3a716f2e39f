package httpserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dimalbek/farmer-market/internal/logging"
	"github.com/dimalbek/farmer-market/internal/payments"
	"github.com/dimalbek/farmer-market/internal/service"
)

type WebhookHTTP struct {
	Svc *service.WebhookService
}

// HandleWebhook receives payment gateway deliveries. Signature and payload
// failures are 400s. Permanent processing errors (unknown order, missing
// references) are logged and acknowledged with 200 so the gateway stops
// retrying a delivery that can never succeed; transient errors return 500 to
// request a retry.
func (h *WebhookHTTP) HandleWebhook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payments.webhook")

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		l.Warn("webhook_body_read_error", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read body")
	}

	err = h.Svc.HandleEvent(ctx, payload, c.Request().Header.Get(payments.SignatureHeader))
	switch {
	case err == nil:
	case errors.Is(err, payments.ErrInvalidSignature), errors.Is(err, payments.ErrInvalidPayload):
		l.Warn("webhook_rejected", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrMissingReference), errors.Is(err, service.ErrNotFound):
		// Acknowledged on purpose; retrying cannot fix the event.
		l.Error("webhook_permanent_failure", "error", err)
	default:
		l.Error("webhook_transient_failure", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "success"})
}
