package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/dimalbek/farmer-market/internal/models"
	"github.com/dimalbek/farmer-market/internal/repo"
)

type OrderService struct {
	Repo *repo.GormRepo
}

func (s *OrderService) GetOrder(ctx context.Context, orderID, userID uint, role string) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, translateOrderErr(err)
	}
	if role != models.RoleAdmin && order.BuyerID != userID {
		return nil, fmt.Errorf("%w: not your order", ErrForbidden)
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, buyerID uint) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx, buyerID)
}

// UpdateStatus lets an admin set any status and a buyer cancel their own
// order while it is still Pending.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, userID uint, role, status string) (*models.Order, error) {
	switch status {
	case models.OrderStatusPending, models.OrderStatusProcessing,
		models.OrderStatusDelivered, models.OrderStatusCancelled:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, translateOrderErr(err)
	}

	if role != models.RoleAdmin {
		if order.BuyerID != userID {
			return nil, fmt.Errorf("%w: not your order", ErrForbidden)
		}
		if status != models.OrderStatusCancelled || order.Status != models.OrderStatusPending {
			return nil, fmt.Errorf("%w: buyers may only cancel pending orders", ErrForbidden)
		}
	}

	if err := s.Repo.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return nil, translateOrderErr(err)
	}
	order.Status = status
	return order, nil
}

func translateOrderErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, repo.ErrInsufficientStock):
		return fmt.Errorf("%w: %v", ErrInsufficientStock, err)
	default:
		return err
	}
}
