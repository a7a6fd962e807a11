package matchbook

import (
	"fmt"

	"github.com/cockroachdb/apd"
	"github.com/google/uuid"
)

type OrderSide byte

const (
	SideBuy OrderSide = iota
	SideSell
)

func (s OrderSide) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	}
	return fmt.Sprintf("OrderSide(%d)", byte(s))
}

// Opposite returns the side an order of this side matches against.
func (s OrderSide) Opposite() OrderSide {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

type OrderType byte

const (
	TypeLimit OrderType = iota
	TypeMarket
)

func (t OrderType) String() string {
	switch t {
	case TypeLimit:
		return "LIMIT"
	case TypeMarket:
		return "MARKET"
	}
	return fmt.Sprintf("OrderType(%d)", byte(t))
}

// Order is a single submission to an order book.
//
// ID and Symbol are opaque caller-generated identifiers. Price is zero for market orders.
// Qty is the original quantity, FilledQty grows with every fill. Seq is assigned by the book
// when the order is accepted and orders resting orders at the same price.
type Order struct {
	ID         uuid.UUID
	Symbol     uuid.UUID
	CustomerID uuid.UUID
	Side       OrderSide
	Type       OrderType
	Price      apd.Decimal
	Qty        int64
	FilledQty  int64
	Seq        uint64
}

// Remaining returns the unfilled quantity.
func (o *Order) Remaining() int64 {
	return o.Qty - o.FilledQty
}

func (o *Order) IsFilled() bool {
	return o.Remaining() == 0
}

// clone returns a copy that shares no memory with o.
func (o *Order) clone() Order {
	c := *o
	c.Price = *copyDecimal(&o.Price)
	return c
}

func (o *Order) IsBid() bool {
	return o.Side == SideBuy
}

// crosses reports whether a limit order at this price would execute against a resting level at price.
func (o *Order) crosses(price *apd.Decimal) bool {
	if o.Type == TypeMarket {
		return true
	}
	if o.IsBid() {
		return o.Price.Cmp(price) >= 0
	}
	return o.Price.Cmp(price) <= 0
}

func (o Order) String() string {
	return fmt.Sprintf("%s %s %s %d@%s (filled %d)", o.ID, o.Side, o.Type, o.Qty, o.Price.String(), o.FilledQty)
}
