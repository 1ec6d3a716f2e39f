package service

import (
	"context"
	"fmt"
	"math"

	"github.com/dimalbek/farmer-market/internal/logging"
	"github.com/dimalbek/farmer-market/internal/mykafka"
	"github.com/dimalbek/farmer-market/internal/payments"
	"github.com/dimalbek/farmer-market/internal/repo"
)

type CheckoutService struct {
	Repo       *repo.GormRepo
	Gateway    payments.Gateway
	SuccessURL string
	CancelURL  string
	Producer   *mykafka.Producer
}

// CreateSession turns the buyer's cart into a Pending order with reserved
// stock and returns the gateway's hosted-checkout redirect URL. If session
// creation fails after the order committed, the order is deleted so the
// reservation does not outlive the failed attempt. The cart is left intact;
// it is cleared only when the payment webhook confirms completion.
func (s *CheckoutService) CreateSession(ctx context.Context, buyerID uint) (string, error) {
	lines, err := s.Repo.GetCartLines(ctx, buyerID)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", ErrEmptyCart
	}

	var (
		total      float64
		orderLines []repo.OrderLine
		lineItems  []payments.LineItem
	)
	for _, line := range lines {
		if line.Item.Quantity == 0 {
			return "", fmt.Errorf("%w: zero quantity for %s", ErrValidation, line.Product.Name)
		}
		if line.Product.Quantity < line.Item.Quantity {
			return "", fmt.Errorf("%w: %s", ErrInsufficientStock, line.Product.Name)
		}

		total += line.Product.Price * float64(line.Item.Quantity)
		orderLines = append(orderLines, repo.OrderLine{
			ProductID: line.Product.ID,
			Quantity:  line.Item.Quantity,
		})
		lineItems = append(lineItems, payments.LineItem{
			Name:        line.Product.Name,
			Description: line.Product.Description,
			UnitAmount:  minorUnits(line.Product.Price),
			Quantity:    line.Item.Quantity,
		})
	}

	order, err := s.Repo.CreateOrder(ctx, buyerID, orderLines, &total)
	if err != nil {
		return "", translateOrderErr(err)
	}

	sess, err := s.Gateway.CreateCheckoutSession(ctx, payments.SessionParams{
		LineItems:       lineItems,
		ClientReference: fmt.Sprint(buyerID),
		OrderID:         order.ID,
		SuccessURL:      s.SuccessURL,
		CancelURL:       s.CancelURL,
	})
	if err != nil {
		// Compensate: the reservation happened in its own committed
		// transaction, so it has to be undone explicitly.
		if delErr := s.Repo.DeleteOrder(ctx, order.ID); delErr != nil {
			logging.FromContext(ctx).Error("checkout_compensation_failed",
				"order_id", order.ID, "error", delErr)
		}
		return "", err
	}

	event := map[string]interface{}{
		"type":    "order_created",
		"orderID": order.ID,
		"buyerID": buyerID,
		"total":   order.TotalPrice,
	}
	_ = s.Producer.PublishEvent(ctx, mykafka.TopicOrderEvents, fmt.Sprint(order.ID), event)

	return sess.URL, nil
}

// minorUnits converts a decimal price to integer cents for the gateway.
func minorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}
