package events

import (
	"context"
	"encoding/json"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sebkasanzew/comoi/internal/order/entity"
)

type recordingWriter struct {
	msgs []kafkago.Message
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func TestPublisher_OrderStatusChanged(t *testing.T) {
	w := &recordingWriter{}
	p := NewPublisher(w, zap.NewNop().Sugar())

	err := p.OrderStatusChanged(context.Background(), StatusChanged{
		OrderID: "o1", VendorID: "v1", From: entity.StatusPending, To: entity.StatusConfirmed,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "o1", string(w.msgs[0].Key))

	var got StatusChanged
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, TypeOrderStatusChanged, got.Type)
	assert.NotEmpty(t, got.EventID)
	assert.Equal(t, entity.StatusConfirmed, got.To)
}
