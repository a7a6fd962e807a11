package matchbook

import (
	"fmt"

	"github.com/cockroachdb/apd"
	"github.com/google/uuid"
)

type EventType byte

const (
	EventAccepted EventType = iota + 1
	EventRejected
	EventPartiallyFilled
	EventFilled
	EventCancelled
	EventAmended
)

var eventTypeNames = map[EventType]string{
	EventAccepted:        "accepted",
	EventRejected:        "rejected",
	EventPartiallyFilled: "partially_filled",
	EventFilled:          "filled",
	EventCancelled:       "cancelled",
	EventAmended:         "amended",
}

func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("EventType(%d)", byte(t))
}

// Event is an immutable lifecycle notification produced by an order book.
//
// OrderID is the order the event reports on. For fill events it is either the maker or the taker,
// and MakerID/TakerID, Price, Qty and both remaining quantities describe the match step.
// Seq increases by one for every event a book produces.
type Event struct {
	Type   EventType
	Symbol uuid.UUID
	Seq    uint64

	OrderID uuid.UUID
	Reason  string

	MakerID        uuid.UUID
	TakerID        uuid.UUID
	Price          apd.Decimal
	Qty            int64
	MakerRemaining int64
	TakerRemaining int64

	NewPrice *apd.Decimal
	NewQty   *int64
}

func (e Event) IsFill() bool {
	return e.Type == EventFilled || e.Type == EventPartiallyFilled
}

func (e Event) String() string {
	switch e.Type {
	case EventRejected:
		return fmt.Sprintf("#%d %s %s: %s", e.Seq, e.Type, e.OrderID, e.Reason)
	case EventFilled, EventPartiallyFilled:
		return fmt.Sprintf("#%d %s %s maker=%s taker=%s %d@%s maker_remaining=%d taker_remaining=%d",
			e.Seq, e.Type, e.OrderID, e.MakerID, e.TakerID, e.Qty, e.Price.String(), e.MakerRemaining, e.TakerRemaining)
	case EventAmended:
		s := fmt.Sprintf("#%d %s %s", e.Seq, e.Type, e.OrderID)
		if e.NewPrice != nil {
			s += " price=" + e.NewPrice.String()
		}
		if e.NewQty != nil {
			s += fmt.Sprintf(" qty=%d", *e.NewQty)
		}
		return s
	}
	return fmt.Sprintf("#%d %s %s", e.Seq, e.Type, e.OrderID)
}
