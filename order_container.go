package matchbook

import (
	"container/list"

	"github.com/cockroachdb/apd"
	"github.com/google/uuid"
)

// orderTracker locates a resting order: side and price select the level, elem is its queue slot.
type orderTracker struct {
	Side  OrderSide
	Price apd.Decimal
	elem  *list.Element
}

type orderContainer struct {
	Bids, Asks *Ladder
	trackers   map[uuid.UUID]orderTracker
}

func newOrderContainer() *orderContainer {
	return &orderContainer{
		Bids:     NewLadder(SideBuy),
		Asks:     NewLadder(SideSell),
		trackers: make(map[uuid.UUID]orderTracker),
	}
}

func (o *orderContainer) Ladder(side OrderSide) *Ladder {
	if side == SideBuy {
		return o.Bids
	}
	return o.Asks
}

// Add rests an order at the tail of its price level and indexes it.
func (o *orderContainer) Add(order *Order) {
	level := o.Ladder(order.Side).upsert(order.Price)
	o.trackers[order.ID] = orderTracker{
		Side:  order.Side,
		Price: level.Price,
		elem:  level.enqueue(order),
	}
}

// Get returns the resting order with id.
func (o *orderContainer) Get(id uuid.UUID) (*Order, *PriceLevel, bool) {
	tracker, ok := o.trackers[id]
	if !ok {
		return nil, nil, false
	}
	level, ok := o.Ladder(tracker.Side).Level(tracker.Price)
	if !ok {
		panic("should NEVER happen - tracker exists but price level does not")
	}
	return tracker.elem.Value.(*Order), level, true
}

// Remove unlinks the order from its level and the index together, dropping the level once empty.
func (o *orderContainer) Remove(id uuid.UUID) (*Order, bool) {
	tracker, ok := o.trackers[id]
	if !ok {
		return nil, false
	}
	ladder := o.Ladder(tracker.Side)
	level, ok := ladder.Level(tracker.Price)
	if !ok {
		panic("should NEVER happen - tracker exists but price level does not")
	}
	delete(o.trackers, id)
	order := level.remove(tracker.elem)
	if level.Len() == 0 {
		ladder.delete(level.Price)
	}
	return order, true
}

func (o *orderContainer) Contains(id uuid.UUID) bool {
	_, ok := o.trackers[id]
	return ok
}

// Len returns the number of resting orders on a side.
func (o *orderContainer) Len(side OrderSide) int {
	count := 0
	o.Ladder(side).Scan(func(level *PriceLevel) bool {
		count += level.Len()
		return true
	})
	return count
}
