package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/dimalbek/farmer-market/internal/logging"
	"github.com/dimalbek/farmer-market/internal/models"
	"github.com/dimalbek/farmer-market/internal/mykafka"
	"github.com/dimalbek/farmer-market/internal/payments"
	"github.com/dimalbek/farmer-market/internal/repo"
)

// Deduper records processed event ids so gateway re-deliveries are dropped
// early. Forget releases a claim when processing fails transiently, so the
// retry of that delivery is not mistaken for a replay. Optional; the
// Pending-only status transition below stays the base idempotency guard.
type Deduper interface {
	MarkSeen(ctx context.Context, eventID string) (seen bool, err error)
	Forget(ctx context.Context, eventID string) error
}

type WebhookService struct {
	Repo          *repo.GormRepo
	WebhookSecret []byte
	Dedup         Deduper
	Producer      *mykafka.Producer
}

// HandleEvent authenticates and processes one webhook delivery. Events other
// than checkout completion are acknowledged and ignored. Errors wrapping
// ErrMissingReference or ErrNotFound are permanent: the caller should log
// them and still acknowledge, so the gateway does not retry-storm a broken
// event. Anything else is transient and should surface as a 5xx to request a
// retry.
func (s *WebhookService) HandleEvent(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := payments.ConstructEvent(payload, sigHeader, s.WebhookSecret, payments.DefaultTolerance)
	if err != nil {
		return err
	}

	if event.Type != payments.EventCheckoutCompleted {
		logging.FromContext(ctx).Info("webhook_event_ignored", "type", event.Type)
		return nil
	}

	claimed := false
	if s.Dedup != nil && event.ID != "" {
		seen, err := s.Dedup.MarkSeen(ctx, event.ID)
		switch {
		case err != nil:
			// Dedup store being down must not block payment confirmation;
			// the status check below still keeps processing idempotent.
			logging.FromContext(ctx).Warn("webhook_dedup_unavailable", "error", err)
		case seen:
			logging.FromContext(ctx).Info("webhook_event_replayed", "event_id", event.ID)
			return nil
		default:
			claimed = true
		}
	}

	session := event.Data.Object
	buyerID, orderID, err := sessionReferences(session)
	if err != nil {
		return err
	}

	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Permanent: the delivery is acknowledged, so the claim can stay.
			return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		s.releaseClaim(ctx, event.ID, claimed)
		return err
	}

	switch order.Status {
	case models.OrderStatusPending:
	case models.OrderStatusProcessing:
		// Re-delivery after a completed run: nothing left to do.
		logging.FromContext(ctx).Info("webhook_order_already_processing", "order_id", orderID)
		return nil
	default:
		// Cancelled or Delivered orders are never moved back by a late
		// completion event.
		logging.FromContext(ctx).Warn("webhook_order_in_terminal_status",
			"order_id", orderID, "status", order.Status)
		return nil
	}

	if err := s.Repo.UpdateOrderStatus(ctx, orderID, models.OrderStatusProcessing); err != nil {
		s.releaseClaim(ctx, event.ID, claimed)
		return err
	}

	// The reservation is final from here on; the cart may no longer
	// redeliver the purchased items.
	if err := s.Repo.ClearCart(ctx, buyerID); err != nil {
		s.releaseClaim(ctx, event.ID, claimed)
		return err
	}

	payEvent := map[string]interface{}{
		"type":    "order_paid",
		"orderID": orderID,
		"buyerID": buyerID,
	}
	_ = s.Producer.PublishEvent(ctx, mykafka.TopicOrderEvents, fmt.Sprint(orderID), payEvent)

	logging.FromContext(ctx).Info("webhook_order_paid", "order_id", orderID, "buyer_id", buyerID)
	return nil
}

// releaseClaim drops the dedup record after a transient failure. The caller
// returns a 5xx for those, and the gateway's retry carries the same event id;
// a stale claim would drop that retry as a replay and leave the order Pending
// despite a completed payment.
func (s *WebhookService) releaseClaim(ctx context.Context, eventID string, claimed bool) {
	if !claimed {
		return
	}
	if err := s.Dedup.Forget(ctx, eventID); err != nil {
		logging.FromContext(ctx).Warn("webhook_dedup_release_failed", "event_id", eventID, "error", err)
	}
}

func sessionReferences(session payments.SessionObject) (buyerID, orderID uint, err error) {
	if session.ClientReferenceID == "" {
		return 0, 0, fmt.Errorf("%w: client_reference_id absent", ErrMissingReference)
	}
	buyer, err := strconv.ParseUint(session.ClientReferenceID, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad client_reference_id %q", ErrMissingReference, session.ClientReferenceID)
	}

	raw, ok := session.Metadata["order_id"]
	if !ok || raw == "" {
		return 0, 0, fmt.Errorf("%w: order_id metadata absent", ErrMissingReference)
	}
	order, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad order_id %q", ErrMissingReference, raw)
	}

	return uint(buyer), uint(order), nil
}
