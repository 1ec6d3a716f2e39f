package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dimalbek/farmer-market/internal/logging"
	"github.com/dimalbek/farmer-market/internal/service"
)

type CheckoutHTTP struct {
	Svc *service.CheckoutService
}

// CreateSession reserves the buyer's cart as a Pending order and returns the
// gateway redirect URL.
func (h *CheckoutHTTP) CreateSession(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.create_session")

	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	url, err := h.Svc.CreateSession(ctx, userID)
	if err != nil {
		l.Warn("checkout_error", "buyer_id", userID, "error", err)
		return httpError(err)
	}

	l.Info("checkout_session_created", "buyer_id", userID)
	return c.JSON(http.StatusOK, echo.Map{"checkout_url": url})
}
