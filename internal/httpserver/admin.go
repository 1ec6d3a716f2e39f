package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dimalbek/farmer-market/internal/logging"
	"github.com/dimalbek/farmer-market/internal/service"
)

type AdminHTTP struct {
	Svc *service.AdminService
}

func (h *AdminHTTP) ListFarmers(c echo.Context) error {
	ctx := c.Request().Context()

	profiles, err := h.Svc.ListFarmers(ctx, c.QueryParam("status"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profiles)
}

func (h *AdminHTTP) ApproveFarmer(c echo.Context) error {
	return h.review(c, true)
}

func (h *AdminHTTP) RejectFarmer(c echo.Context) error {
	return h.review(c, false)
}

func (h *AdminHTTP) review(c echo.Context, approve bool) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.review_farmer")

	profileID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	profile, err := h.Svc.ReviewFarmer(ctx, profileID, approve)
	if err != nil {
		l.Warn("review_farmer_error", "profile_id", profileID, "error", err)
		return httpError(err)
	}

	l.Info("farmer_reviewed", "profile_id", profileID, "approval_status", profile.ApprovalStatus)
	return c.JSON(http.StatusOK, profile)
}
