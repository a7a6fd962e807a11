package matchbook

import (
	"container/list"

	"github.com/cockroachdb/apd"
)

// PriceLevel is the FIFO queue of resting orders at one exact price.
// The queue owns the live order state; list elements act as stable handles for the book index.
type PriceLevel struct {
	Price  apd.Decimal
	orders *list.List
	qty    int64
}

func newPriceLevel(price apd.Decimal) *PriceLevel {
	return &PriceLevel{
		Price:  price,
		orders: list.New(),
	}
}

// Len returns the number of resting orders.
func (p *PriceLevel) Len() int {
	return p.orders.Len()
}

// Qty returns the aggregate remaining quantity of the level.
func (p *PriceLevel) Qty() int64 {
	return p.qty
}

// Front returns the earliest resting order or nil.
func (p *PriceLevel) Front() *Order {
	e := p.orders.Front()
	if e == nil {
		return nil
	}
	return e.Value.(*Order)
}

// Orders returns copies of the resting orders in queue order.
func (p *PriceLevel) Orders() []Order {
	orders := make([]Order, 0, p.orders.Len())
	for e := p.orders.Front(); e != nil; e = e.Next() {
		orders = append(orders, e.Value.(*Order).clone())
	}
	return orders
}

func (p *PriceLevel) enqueue(o *Order) *list.Element {
	p.qty += o.Remaining()
	return p.orders.PushBack(o)
}

func (p *PriceLevel) remove(e *list.Element) *Order {
	o := p.orders.Remove(e).(*Order)
	p.qty -= o.Remaining()
	return o
}

// fill decrements the order's remaining quantity in place, keeping its queue slot.
func (p *PriceLevel) fill(o *Order, qty int64) {
	o.FilledQty += qty
	p.qty -= qty
}

// reduce sets the order's remaining quantity to remaining, keeping its queue slot.
func (p *PriceLevel) reduce(o *Order, remaining int64) {
	p.qty -= o.Remaining() - remaining
	o.Qty = o.FilledQty + remaining
}
