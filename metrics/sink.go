// Package metrics exposes Prometheus counters computed from the order book event stream.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ffhan/matchbook"
)

const namespace = "matchbook"

// Sink counts events per instrument and type, and the traded volume per instrument.
type Sink struct {
	events *prometheus.CounterVec
	trades *prometheus.CounterVec
	volume *prometheus.CounterVec
}

var _ matchbook.EventSink = (*Sink)(nil)

// NewSink creates the collectors and registers them with reg.
func NewSink(reg prometheus.Registerer) *Sink {
	s := &Sink{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_total",
				Help:      "Order book events by instrument and type.",
			},
			[]string{"symbol", "type"},
		),
		trades: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trades_total",
				Help:      "Executed match steps by instrument.",
			},
			[]string{"symbol"},
		),
		volume: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "traded_quantity_total",
				Help:      "Executed quantity by instrument.",
			},
			[]string{"symbol"},
		),
	}
	reg.MustRegister(s.events, s.trades, s.volume)
	return s
}

func (s *Sink) Publish(_ context.Context, events []matchbook.Event) error {
	for _, e := range events {
		symbol := e.Symbol.String()
		s.events.WithLabelValues(symbol, e.Type.String()).Inc()
		// every match step yields a maker and a taker event, count it once
		if e.IsFill() && e.OrderID == e.TakerID {
			s.trades.WithLabelValues(symbol).Inc()
			s.volume.WithLabelValues(symbol).Add(float64(e.Qty))
		}
	}
	return nil
}
