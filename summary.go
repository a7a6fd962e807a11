package matchbook

import (
	"github.com/cockroachdb/apd"
	"github.com/google/uuid"
)

// LevelSummary aggregates one price level.
// CumQty is the running quantity from the best level down to this one, QtyPercent the share of
// this level in the summarized side.
type LevelSummary struct {
	Price      apd.Decimal
	Qty        int64
	Orders     int
	CumQty     int64
	QtyPercent float64
}

// Summary is a read-only depth snapshot of a book.
type Summary struct {
	Symbol uuid.UUID
	Bids   []LevelSummary // best (highest) first
	Asks   []LevelSummary // best (lowest) first

	BestBid   *apd.Decimal
	BestAsk   *apd.Decimal
	MidPrice  *apd.Decimal // set when both sides have liquidity
	Spread    *apd.Decimal // set when both sides have liquidity
	LastPrice *apd.Decimal // set once a trade happened
}

var half = apd.New(5, -1)

// Summary returns up to depth best levels per side; depth <= 0 returns every level.
func (o *OrderBook) Summary(depth int) Summary {
	s := Summary{
		Symbol: o.Symbol,
		Bids:   summarizeLadder(o.orders.Bids, depth),
		Asks:   summarizeLadder(o.orders.Asks, depth),
	}
	if level, ok := o.BestBid(); ok {
		s.BestBid = copyDecimal(&level.Price)
	}
	if level, ok := o.BestAsk(); ok {
		s.BestAsk = copyDecimal(&level.Price)
	}
	if s.BestBid != nil && s.BestAsk != nil {
		s.MidPrice, s.Spread = new(apd.Decimal), new(apd.Decimal)
		if _, err := BaseContext.Add(s.MidPrice, s.BestBid, s.BestAsk); err != nil {
			panic(err)
		}
		if _, err := BaseContext.Mul(s.MidPrice, s.MidPrice, half); err != nil {
			panic(err)
		}
		if _, err := BaseContext.Sub(s.Spread, s.BestAsk, s.BestBid); err != nil {
			panic(err)
		}
	}
	if price, ok := o.LastPrice(); ok {
		s.LastPrice = copyDecimal(&price)
	}
	return s
}

func summarizeLadder(ladder *Ladder, depth int) []LevelSummary {
	capacity := ladder.Len()
	if depth > 0 && depth < capacity {
		capacity = depth
	}
	levels := make([]LevelSummary, 0, capacity)
	var cum int64
	ladder.Scan(func(level *PriceLevel) bool {
		if depth > 0 && len(levels) == depth {
			return false
		}
		cum += level.Qty()
		levels = append(levels, LevelSummary{
			Price:  *copyDecimal(&level.Price),
			Qty:    level.Qty(),
			Orders: level.Len(),
			CumQty: cum,
		})
		return true
	})
	if cum > 0 {
		for i := range levels {
			levels[i].QtyPercent = float64(levels[i].Qty) / float64(cum) * 100
		}
	}
	return levels
}

func copyDecimal(d *apd.Decimal) *apd.Decimal {
	return new(apd.Decimal).Set(d)
}
