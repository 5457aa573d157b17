// Package events publishes lifecycle notifications to the message broker.
// Publishing is best effort: a nil Notifier or a broker failure never fails
// the request that produced the event.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

type Publisher interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

const (
	TopicBookingCreated   = "booking.created"
	TopicBookingCancelled = "booking.cancelled"
	TopicReviewSubmitted  = "review.submitted"
)

type BookingEvent struct {
	BookingID  string    `json:"booking_id"`
	ListingID  string    `json:"listing_id"`
	UserID     string    `json:"user_id"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	TotalPrice int64     `json:"total_price"`
	Status     string    `json:"status"`
	At         time.Time `json:"at"`
}

type ReviewEvent struct {
	ReviewID  string    `json:"review_id"`
	ListingID string    `json:"listing_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	At        time.Time `json:"at"`
}

type Notifier struct {
	Producer Publisher
	Logger   *slog.Logger
}

func (n *Notifier) BookingCreated(ctx context.Context, ev BookingEvent) {
	n.publish(ctx, TopicBookingCreated, ev.BookingID, ev)
}

func (n *Notifier) BookingCancelled(ctx context.Context, ev BookingEvent) {
	n.publish(ctx, TopicBookingCancelled, ev.BookingID, ev)
}

func (n *Notifier) ReviewSubmitted(ctx context.Context, ev ReviewEvent) {
	n.publish(ctx, TopicReviewSubmitted, ev.ReviewID, ev)
}

func (n *Notifier) publish(ctx context.Context, topic, key string, event any) {
	if n == nil || n.Producer == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		if n.Logger != nil {
			n.Logger.Error("event encode failed", "topic", topic, "error", err)
		}
		return
	}
	if err := n.Producer.Publish(ctx, topic, key, payload, nil); err != nil && n.Logger != nil {
		n.Logger.Warn("event publish failed", "topic", topic, "key", key, "error", err)
	}
}
