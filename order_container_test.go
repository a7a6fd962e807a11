package matchbook

import (
	"testing"

	"github.com/cockroachdb/apd"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tracked(side OrderSide, coeff int64, qty int64) *Order {
	return &Order{
		ID:     uuid.New(),
		Symbol: testSymbol,
		Side:   side,
		Type:   TypeLimit,
		Price:  *apd.New(coeff, -2),
		Qty:    qty,
	}
}

func TestOrderContainer_Add(t *testing.T) {
	c := newOrderContainer()

	orders := [...]*Order{
		tracked(SideBuy, 2025, 1),
		tracked(SideSell, 2025, 1),
		tracked(SideBuy, 2050, 1),
		tracked(SideSell, 2045, 1),
		tracked(SideBuy, 2010, 1),
		tracked(SideSell, 2018, 1),
		tracked(SideBuy, 2025, 1),
		tracked(SideSell, 2045, 1),
	}

	sortedBids := [...]int{2, 0, 6, 4}
	sortedAsks := [...]int{5, 1, 3, 7}

	for _, o := range orders {
		c.Add(o)
	}

	bids := c.Bids.Orders()
	require.Len(t, bids, len(sortedBids))
	for i, idx := range sortedBids {
		assert.Equal(t, orders[idx].ID, bids[i].ID)
	}
	asks := c.Asks.Orders()
	require.Len(t, asks, len(sortedAsks))
	for i, idx := range sortedAsks {
		assert.Equal(t, orders[idx].ID, asks[i].ID)
	}

	assert.Equal(t, 3, c.Bids.Len())
	assert.Equal(t, 3, c.Asks.Len())
	assert.Equal(t, 4, c.Len(SideBuy))
	assert.Equal(t, 4, c.Len(SideSell))
}

func TestOrderContainer_Get(t *testing.T) {
	c := newOrderContainer()
	o := tracked(SideSell, 2025, 7)
	c.Add(o)

	got, level, ok := c.Get(o.ID)
	require.True(t, ok)
	assert.Same(t, o, got)
	assert.Equal(t, int64(7), level.Qty())
	assert.True(t, c.Contains(o.ID))

	_, _, ok = c.Get(uuid.New())
	assert.False(t, ok)
}

func TestOrderContainer_Remove(t *testing.T) {
	c := newOrderContainer()

	first := tracked(SideBuy, 2025, 2)
	second := tracked(SideBuy, 2025, 3)
	other := tracked(SideBuy, 2010, 4)
	c.Add(first)
	c.Add(second)
	c.Add(other)

	removed, ok := c.Remove(first.ID)
	require.True(t, ok)
	assert.Same(t, first, removed)
	assert.False(t, c.Contains(first.ID))

	level, ok := c.Bids.Best()
	require.True(t, ok)
	assert.Equal(t, int64(3), level.Qty())
	assert.Same(t, second, level.Front())

	_, ok = c.Remove(second.ID)
	require.True(t, ok)
	assert.Equal(t, 1, c.Bids.Len(), "empty level must be dropped")
	level, ok = c.Bids.Best()
	require.True(t, ok)
	assert.Same(t, other, level.Front())

	_, ok = c.Remove(second.ID)
	assert.False(t, ok)
}

func TestOrderContainer_RemoveLast(t *testing.T) {
	c := newOrderContainer()
	o := tracked(SideSell, 2025, 2)
	c.Add(o)

	_, ok := c.Remove(o.ID)
	require.True(t, ok)
	_, ok = c.Asks.Best()
	assert.False(t, ok)
	assert.Zero(t, c.Asks.Len())
	assert.Empty(t, c.trackers)
}
