package matchbook

import (
	"context"
	"errors"
)

// EventSink receives the events of one operation, in production order, after matching has finished.
type EventSink interface {
	Publish(ctx context.Context, events []Event) error
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(ctx context.Context, events []Event) error

func (f EventSinkFunc) Publish(ctx context.Context, events []Event) error {
	return f(ctx, events)
}

var NopEventSink EventSink = &nopEventSink{}

type nopEventSink struct {
}

func (n *nopEventSink) Publish(ctx context.Context, events []Event) error {
	return nil
}

// ChannelSink hands events to a subscriber draining C.
// Publish blocks while the channel is full until ctx is done.
type ChannelSink struct {
	C chan Event
}

func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{C: make(chan Event, buffer)}
}

func (c *ChannelSink) Publish(ctx context.Context, events []Event) error {
	for _, e := range events {
		select {
		case c.C <- e:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// MultiSink publishes to every sink in order and joins their errors.
type MultiSink []EventSink

func (m MultiSink) Publish(ctx context.Context, events []Event) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Publish(ctx, events); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
