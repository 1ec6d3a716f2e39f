package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dimalbek/farmer-market/internal/logging"
	"github.com/dimalbek/farmer-market/internal/middleware"
	"github.com/dimalbek/farmer-market/internal/service"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	orders, err := h.Svc.ListOrders(ctx, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	orderID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	order, err := h.Svc.GetOrder(ctx, orderID, userID, middleware.Role(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	orderID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update_order_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.UpdateStatus(ctx, orderID, userID, middleware.Role(c), req.Status)
	if err != nil {
		l.Warn("update_order_error", "order_id", orderID, "error", err)
		return httpError(err)
	}

	l.Info("order_status_updated", "order_id", orderID, "new_status", order.Status)
	return c.JSON(http.StatusOK, order)
}
