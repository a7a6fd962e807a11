package matchbook

import (
	"github.com/cockroachdb/apd"
	"github.com/tidwall/btree"
)

const ladderDegree = 32

// Ladder holds the price levels of one side of a book.
// Bids are kept highest price first, asks lowest price first, so the best level is always the minimum item.
type Ladder struct {
	Side   OrderSide
	levels *btree.BTreeG[*PriceLevel]
	best   *PriceLevel
}

// lessFunc orders price levels best-first for a side.
func lessFunc(side OrderSide) func(a, b *PriceLevel) bool {
	if side == SideBuy {
		return func(a, b *PriceLevel) bool {
			return a.Price.Cmp(&b.Price) > 0
		}
	}
	return func(a, b *PriceLevel) bool {
		return a.Price.Cmp(&b.Price) < 0
	}
}

func NewLadder(side OrderSide) *Ladder {
	return &Ladder{
		Side: side,
		levels: btree.NewBTreeGOptions(lessFunc(side), btree.Options{
			Degree:  ladderDegree,
			NoLocks: true, // the book is single-writer
		}),
	}
}

// Len returns the number of price levels.
func (l *Ladder) Len() int {
	return l.levels.Len()
}

// Best returns the best price level.
func (l *Ladder) Best() (*PriceLevel, bool) {
	return l.best, l.best != nil
}

// Level returns the level at exactly price.
func (l *Ladder) Level(price apd.Decimal) (*PriceLevel, bool) {
	return l.levels.Get(&PriceLevel{Price: price})
}

// upsert returns the level at price, creating it when absent.
func (l *Ladder) upsert(price apd.Decimal) *PriceLevel {
	if level, ok := l.Level(price); ok {
		return level
	}
	level := newPriceLevel(price)
	l.levels.Set(level)
	if l.best == nil || l.levels.Less(level, l.best) {
		l.best = level
	}
	return level
}

// delete drops the level at price.
func (l *Ladder) delete(price apd.Decimal) {
	removed, ok := l.levels.Delete(&PriceLevel{Price: price})
	if !ok {
		return
	}
	if removed == l.best {
		l.best, _ = l.levels.Min()
	}
}

// Scan walks the levels best-first until fn returns false.
func (l *Ladder) Scan(fn func(level *PriceLevel) bool) {
	l.levels.Scan(fn)
}

// Orders returns copies of all resting orders in matching order.
func (l *Ladder) Orders() []Order {
	orders := make([]Order, 0)
	l.Scan(func(level *PriceLevel) bool {
		orders = append(orders, level.Orders()...)
		return true
	})
	return orders
}
