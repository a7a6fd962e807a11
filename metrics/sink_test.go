package metrics

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffhan/matchbook"
)

func TestSink_Publish(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewSink(reg)

	symbol, maker, taker := uuid.New(), uuid.New(), uuid.New()
	events := []matchbook.Event{
		{Type: matchbook.EventAccepted, Symbol: symbol, OrderID: taker},
		{Type: matchbook.EventFilled, Symbol: symbol, OrderID: maker, MakerID: maker, TakerID: taker, Qty: 3},
		{Type: matchbook.EventPartiallyFilled, Symbol: symbol, OrderID: taker, MakerID: maker, TakerID: taker, Qty: 3},
		{Type: matchbook.EventRejected, Symbol: symbol, OrderID: uuid.New()},
	}
	require.NoError(t, s.Publish(context.Background(), events))

	label := symbol.String()
	assert.Equal(t, 1.0, testutil.ToFloat64(s.events.WithLabelValues(label, "accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.events.WithLabelValues(label, "filled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.events.WithLabelValues(label, "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.trades.WithLabelValues(label)))
	assert.Equal(t, 3.0, testutil.ToFloat64(s.volume.WithLabelValues(label)))

	count, err := testutil.GatherAndCount(reg, "matchbook_events_total")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestNewSink_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewSink(reg)
	assert.Panics(t, func() {
		NewSink(reg)
	})
}
