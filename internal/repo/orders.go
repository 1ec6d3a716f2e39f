package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/dimalbek/farmer-market/internal/models"
)

// OrderLine is one requested (product, quantity) pair for order creation.
type OrderLine struct {
	ProductID uint
	Quantity  uint
}

// CreateOrder reserves stock and creates the order with its items in one
// transaction. Each decrement is a conditional update guarded by
// quantity >= requested, so concurrent checkouts cannot oversell; any failed
// line rolls back every decrement and insert already done for this order.
// When total is nil the total price is computed from current unit prices.
func (r *GormRepo) CreateOrder(ctx context.Context, buyerID uint, lines []OrderLine, total *float64) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("order must have at least one item")
	}

	var order models.Order

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var (
			computed float64
			items    []models.OrderItem
		)

		for _, line := range lines {
			var product models.Product
			if err := tx.First(&product, line.ProductID).Error; err != nil {
				return err
			}

			res := tx.Model(&models.Product{}).
				Where("id = ? AND quantity >= ?", line.ProductID, line.Quantity).
				Update("quantity", gorm.Expr("quantity - ?", line.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
			}

			computed += product.Price * float64(line.Quantity)
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: product.Price,
			})
		}

		orderTotal := computed
		if total != nil {
			orderTotal = *total
		}

		order = models.Order{
			BuyerID:    buyerID,
			TotalPrice: orderTotal,
			Status:     models.OrderStatusPending,
			Items:      items,
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		First(&order, orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, buyerID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus is a pure field mutation; re-applying the current status
// is a no-op, not an error.
func (r *GormRepo) UpdateOrderStatus(ctx context.Context, orderID uint, status string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			return err
		}
		if order.Status == status {
			return nil
		}
		return tx.Model(&order).Update("status", status).Error
	})
}

// DeleteOrder compensates a failed payment-session creation: it returns the
// reserved stock, removes the items and removes the order, atomically.
func (r *GormRepo) DeleteOrder(ctx context.Context, orderID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		for _, item := range order.Items {
			if err := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				Update("quantity", gorm.Expr("quantity + ?", item.Quantity)).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
}
