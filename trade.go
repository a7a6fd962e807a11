package matchbook

import (
	"github.com/cockroachdb/apd"
	"github.com/google/uuid"
)

// Trade represents two opposed matched orders.
type Trade struct {
	Seq           uint64
	Buyer, Seller uuid.UUID
	Symbol        uuid.UUID
	Qty           int64
	Price         apd.Decimal
	Total         apd.Decimal
	TakerSide     OrderSide

	BidOrderID uuid.UUID
	AskOrderID uuid.UUID
}

// clone returns a copy that shares no memory with t.
func (t Trade) clone() Trade {
	t.Price = *copyDecimal(&t.Price)
	t.Total = *copyDecimal(&t.Total)
	return t
}

func newTrade(seq uint64, symbol uuid.UUID, maker, taker *Order, price apd.Decimal, qty int64) Trade {
	trade := Trade{
		Seq:       seq,
		Symbol:    symbol,
		Qty:       qty,
		Price:     price,
		TakerSide: taker.Side,
	}
	bid, ask := taker, maker
	if !taker.IsBid() {
		bid, ask = maker, taker
	}
	trade.Buyer, trade.BidOrderID = bid.CustomerID, bid.ID
	trade.Seller, trade.AskOrderID = ask.CustomerID, ask.ID
	if _, err := BaseContext.Mul(&trade.Total, &trade.Price, apd.New(qty, 0)); err != nil {
		panic(err)
	}
	return trade
}
