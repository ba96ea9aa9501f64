// Package events publishes order lifecycle events to Kafka for downstream
// consumers (notifications, analytics). Publishing is optional.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sebkasanzew/comoi/internal/order/entity"
	"github.com/sebkasanzew/comoi/pkg/kafka"
)

const TypeOrderStatusChanged = "order.status_changed"

type StatusChanged struct {
	EventID    string        `json:"event_id"`
	Type       string        `json:"type"`
	OrderID    string        `json:"order_id"`
	VendorID   string        `json:"vendor_id"`
	CustomerID string        `json:"customer_id"`
	From       entity.Status `json:"from"`
	To         entity.Status `json:"to"`
	ChangedBy  string        `json:"changed_by"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// Publisher writes events keyed by order id so one order's events stay ordered
// within a partition.
type Publisher struct {
	writer kafka.MessageWriter
	logger *zap.SugaredLogger
}

func NewPublisher(w kafka.MessageWriter, logger *zap.SugaredLogger) *Publisher {
	return &Publisher{writer: w, logger: logger}
}

func (p *Publisher) OrderStatusChanged(ctx context.Context, evt StatusChanged) error {
	if evt.EventID == "" {
		evt.EventID = uuid.NewString()
	}
	evt.Type = TypeOrderStatusChanged
	if err := kafka.PublishJSON(ctx, p.writer, evt.OrderID, evt); err != nil {
		return err
	}
	p.logger.Debugw("event published", "type", evt.Type, "event_id", evt.EventID, "order_id", evt.OrderID)
	return nil
}
