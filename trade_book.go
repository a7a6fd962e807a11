package matchbook

import "github.com/google/uuid"

// TradeBook keeps the trades executed on one instrument, newest last.
// A positive limit bounds the history to the most recent trades.
type TradeBook struct {
	Symbol uuid.UUID

	trades []Trade
	limit  int
	total  uint64
}

func NewTradeBook(symbol uuid.UUID, limit int) *TradeBook {
	return &TradeBook{
		Symbol: symbol,
		trades: make([]Trade, 0, 1024),
		limit:  limit,
	}
}

func (t *TradeBook) Enter(trade Trade) {
	if t.limit > 0 && len(t.trades) == t.limit {
		copy(t.trades, t.trades[1:])
		t.trades = t.trades[:len(t.trades)-1]
	}
	t.trades = append(t.trades, trade)
	t.total++
}

// Last returns the most recent trade.
func (t *TradeBook) Last() (Trade, bool) {
	if len(t.trades) == 0 {
		return Trade{}, false
	}
	return t.trades[len(t.trades)-1].clone(), true
}

// Total returns the number of trades ever entered, including evicted ones.
func (t *TradeBook) Total() uint64 {
	return t.total
}

func (t *TradeBook) Trades() []Trade {
	tradesCopy := make([]Trade, len(t.trades))
	for i, trade := range t.trades {
		tradesCopy[i] = trade.clone()
	}
	return tradesCopy
}
