package kafkasink

import (
	"github.com/ffhan/matchbook"
)

// Message is the JSON wire shape of an event.
type Message struct {
	Type    string `json:"type"`
	Symbol  string `json:"symbol"`
	Seq     uint64 `json:"seq"`
	OrderID string `json:"order_id"`
	Reason  string `json:"reason,omitempty"`

	MakerID        string `json:"maker_id,omitempty"`
	TakerID        string `json:"taker_id,omitempty"`
	Price          string `json:"price,omitempty"`
	Qty            int64  `json:"qty,omitempty"`
	MakerRemaining *int64 `json:"maker_remaining,omitempty"`
	TakerRemaining *int64 `json:"taker_remaining,omitempty"`

	NewPrice string `json:"new_price,omitempty"`
	NewQty   *int64 `json:"new_qty,omitempty"`
}

func NewMessage(e matchbook.Event) Message {
	m := Message{
		Type:    e.Type.String(),
		Symbol:  e.Symbol.String(),
		Seq:     e.Seq,
		OrderID: e.OrderID.String(),
		Reason:  e.Reason,
		Qty:     e.Qty,
	}
	if e.IsFill() {
		makerRemaining, takerRemaining := e.MakerRemaining, e.TakerRemaining
		m.MakerID = e.MakerID.String()
		m.TakerID = e.TakerID.String()
		m.Price = e.Price.String()
		m.MakerRemaining = &makerRemaining
		m.TakerRemaining = &takerRemaining
	}
	if e.NewPrice != nil {
		m.NewPrice = e.NewPrice.String()
	}
	if e.NewQty != nil {
		qty := *e.NewQty
		m.NewQty = &qty
	}
	return m
}
