package matchbook

import (
	"fmt"
	"math"

	"github.com/cockroachdb/apd"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidFilledQty = fmt.Errorf("%w: filled quantity has to be zero on submission", ErrInvalidOrder)

	BaseContext = apd.Context{
		Precision:   0, // no rounding
		MaxExponent: apd.MaxExponent,
		MinExponent: apd.MinExponent,
		Traps:       apd.DefaultTraps,
	}
)

// OrderBook contains all resting orders for an instrument and matches incoming orders against them.
//
// OrderBook does no locking. Add, Cancel and Amend need exclusive access to the book,
// Summary and the other getters may run concurrently with each other but not with a mutation.
type OrderBook struct {
	Symbol uuid.UUID

	tradeBook *TradeBook
	orders    *orderContainer // resting orders, both sides, indexed by ID

	seq      uint64 // last assigned order sequence
	eventSeq uint64 // last emitted event sequence

	logger *zap.Logger
}

// Amendment describes a change to a resting order. Nil fields are left unchanged.
// Qty is the new remaining (open) quantity of the order.
type Amendment struct {
	Price *apd.Decimal
	Qty   *int64
}

func NewOrderBook(symbol uuid.UUID, tradeBook *TradeBook, logger *zap.Logger) *OrderBook {
	if tradeBook == nil {
		tradeBook = NewTradeBook(symbol, 0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderBook{
		Symbol:    symbol,
		tradeBook: tradeBook,
		orders:    newOrderContainer(),
		logger:    logger.With(zap.Stringer("symbol", symbol)),
	}
}

// Bids returns resting bids ordered the same way they are matched.
func (o *OrderBook) Bids() []Order {
	return o.orders.Bids.Orders()
}

// Asks returns resting asks ordered the same way they are matched.
func (o *OrderBook) Asks() []Order {
	return o.orders.Asks.Orders()
}

// Len returns the number of resting orders on a side.
func (o *OrderBook) Len(side OrderSide) int {
	return o.orders.Len(side)
}

// Order returns a copy of a resting order.
func (o *OrderBook) Order(id uuid.UUID) (Order, bool) {
	order, _, ok := o.orders.Get(id)
	if !ok {
		return Order{}, false
	}
	return order.clone(), true
}

// BestBid returns the highest bid price level.
func (o *OrderBook) BestBid() (*PriceLevel, bool) {
	return o.orders.Bids.Best()
}

// BestAsk returns the lowest ask price level.
func (o *OrderBook) BestAsk() (*PriceLevel, bool) {
	return o.orders.Asks.Best()
}

// LastPrice returns the price of the most recent trade.
func (o *OrderBook) LastPrice() (apd.Decimal, bool) {
	trade, ok := o.tradeBook.Last()
	return trade.Price, ok // Last returns an independent copy
}

func (o *OrderBook) TradeBook() *TradeBook {
	return o.tradeBook
}

// event stamps an event with the book symbol and the next event sequence.
func (o *OrderBook) event(e Event) Event {
	o.eventSeq++
	e.Symbol = o.Symbol
	e.Seq = o.eventSeq
	return e
}

func (o *OrderBook) validate(order *Order) error {
	if order.Symbol != o.Symbol {
		return ErrSymbolMismatch
	}
	if order.Side != SideBuy && order.Side != SideSell {
		return ErrInvalidSide
	}
	if order.Qty <= 0 {
		return ErrInvalidQty
	}
	if order.FilledQty != 0 {
		return ErrInvalidFilledQty
	}
	switch order.Type {
	case TypeMarket:
		if !order.Price.IsZero() {
			return ErrInvalidMarketPrice
		}
	case TypeLimit:
		if order.Price.Sign() <= 0 {
			return ErrInvalidLimitPrice
		}
	default:
		return ErrInvalidOrderType
	}
	if o.orders.Contains(order.ID) {
		return ErrDuplicateOrder
	}
	if order.Type == TypeLimit && !o.fitsLevel(order.Side, &order.Price, order.Qty, 0) {
		return ErrLevelOverflow
	}
	return nil
}

// fitsLevel reports whether qty more can rest at price without overflowing the level aggregate.
// released is quantity leaving the same level in the same step.
func (o *OrderBook) fitsLevel(side OrderSide, price *apd.Decimal, qty, released int64) bool {
	level, ok := o.orders.Ladder(side).Level(*price)
	if !ok {
		return true
	}
	return qty <= math.MaxInt64-(level.Qty()-released)
}

// Add submits a new order. The order is matched immediately as far as the opposite side allows;
// a limit order's remainder rests in the book, a market order's remainder is dropped.
//
// An invalid order produces a single Rejected event and an error matching ErrInvalidOrder,
// and leaves the book untouched.
func (o *OrderBook) Add(order Order) ([]Event, error) {
	if err := o.validate(&order); err != nil {
		o.logger.Debug("order rejected", zap.Stringer("order_id", order.ID), zap.Error(err))
		return []Event{o.event(Event{Type: EventRejected, OrderID: order.ID, Reason: err.Error()})}, err
	}
	// the book owns its prices, the caller may reuse its decimal
	order.Price = *copyDecimal(&order.Price)
	o.seq++
	order.Seq = o.seq

	events := make([]Event, 0, 4)
	events = append(events, o.event(Event{Type: EventAccepted, OrderID: order.ID}))
	return o.submit(&order, events), nil
}

// submit matches an accepted order and rests what is left of a limit order.
func (o *OrderBook) submit(order *Order, events []Event) []Event {
	events, matched := o.matchOrder(order, events)
	if order.IsFilled() {
		return events
	}

	switch order.Type {
	case TypeMarket:
		if !matched {
			events = append(events, o.event(Event{Type: EventRejected, OrderID: order.ID, Reason: reasonNoLiquidity}))
		}
		// market orders never rest, the unfilled tail is dropped
		return events
	case TypeLimit:
		o.orders.Add(order)
		o.logger.Debug("order resting",
			zap.Stringer("order_id", order.ID),
			zap.Stringer("side", order.Side),
			zap.String("price", order.Price.String()),
			zap.Int64("remaining", order.Remaining()),
			zap.Uint64("seq", order.Seq))
		return events
	default:
		panicOnOrderType(*order)
	}
	return events
}

// matchOrder matches order against the opposite ladder, best price first and FIFO within a level.
// Every step executes at the resting order's price. Returns whether anything was matched.
func (o *OrderBook) matchOrder(order *Order, events []Event) ([]Event, bool) {
	var matched bool
	offers := o.orders.Ladder(order.Side.Opposite())

	for !order.IsFilled() {
		level, ok := offers.Best()
		if !ok || !order.crosses(&level.Price) {
			break
		}
		maker := level.Front()
		if maker == nil {
			panic("should NEVER happen - empty price level left in the ladder")
		}

		qty := min(order.Remaining(), maker.Remaining())
		price := *copyDecimal(&level.Price)
		level.fill(maker, qty)
		order.FilledQty += qty
		matched = true

		o.tradeBook.Enter(newTrade(o.tradeBook.Total()+1, o.Symbol, maker, order, price, qty))
		events = append(events,
			o.fillEvent(maker, maker, order, price, qty),
			o.fillEvent(order, maker, order, price, qty),
		)

		if maker.IsFilled() {
			if _, ok := o.orders.Remove(maker.ID); !ok {
				panic("should NEVER happen - filled maker is not indexed")
			}
		}
	}
	return events, matched
}

// fillEvent reports one match step from the point of view of subject, which is either the maker or the taker.
func (o *OrderBook) fillEvent(subject, maker, taker *Order, price apd.Decimal, qty int64) Event {
	eventType := EventPartiallyFilled
	if subject.IsFilled() {
		eventType = EventFilled
	}
	return o.event(Event{
		Type:           eventType,
		OrderID:        subject.ID,
		MakerID:        maker.ID,
		TakerID:        taker.ID,
		Price:          *copyDecimal(&price),
		Qty:            qty,
		MakerRemaining: maker.Remaining(),
		TakerRemaining: taker.Remaining(),
	})
}

// Cancel removes a resting order. Unknown, filled and already cancelled orders fail with ErrNotFound.
// The Cancelled event carries the withdrawn remaining quantity in Qty.
func (o *OrderBook) Cancel(id uuid.UUID) ([]Event, error) {
	order, ok := o.orders.Remove(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	o.logger.Debug("order cancelled", zap.Stringer("order_id", id), zap.Int64("remaining", order.Remaining()))
	return []Event{o.event(Event{Type: EventCancelled, OrderID: id, Qty: order.Remaining()})}, nil
}

func validateAmend(amend Amendment) error {
	if amend.Price == nil && amend.Qty == nil {
		return ErrEmptyAmend
	}
	if amend.Qty != nil && *amend.Qty <= 0 {
		return ErrInvalidAmendQty
	}
	if amend.Price != nil && amend.Price.Sign() <= 0 {
		return ErrInvalidAmendPrice
	}
	return nil
}

// Amend changes the price and/or remaining quantity of a resting order.
//
// Decreasing the quantity at an unchanged price keeps the order's place in the queue.
// Any price change or quantity increase loses priority: the order gets a new sequence number,
// is matched again at its new price and rests at the tail of its level. The Amended event
// comes first, followed by any fill events the re-submission produced.
func (o *OrderBook) Amend(id uuid.UUID, amend Amendment) ([]Event, error) {
	order, level, ok := o.orders.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := validateAmend(amend); err != nil {
		return nil, err
	}
	if amend.Qty != nil && *amend.Qty > math.MaxInt64-order.FilledQty {
		return nil, ErrInvalidAmendQty
	}

	price := order.Price
	if amend.Price != nil {
		price = *copyDecimal(amend.Price)
	}
	remaining := order.Remaining()
	if amend.Qty != nil {
		remaining = *amend.Qty
	}
	var released int64
	if price.Cmp(&order.Price) == 0 {
		released = order.Remaining()
	}
	if !o.fitsLevel(order.Side, &price, remaining, released) {
		return nil, ErrAmendLevelOverflow
	}

	amended := Event{Type: EventAmended, OrderID: id}
	if amend.Price != nil {
		amended.NewPrice = copyDecimal(&price)
	}
	if amend.Qty != nil {
		amended.NewQty = &remaining
	}

	if price.Cmp(&order.Price) == 0 && remaining <= order.Remaining() {
		level.reduce(order, remaining)
		o.logger.Debug("order reduced", zap.Stringer("order_id", id), zap.Int64("remaining", remaining))
		return []Event{o.event(amended)}, nil
	}

	if _, ok := o.orders.Remove(id); !ok {
		panic("should NEVER happen - amended order vanished from the index")
	}
	order.Price = price
	order.Qty = order.FilledQty + remaining
	o.seq++
	order.Seq = o.seq

	events := make([]Event, 0, 4)
	events = append(events, o.event(amended))
	return o.submit(order, events), nil
}

func panicOnOrderType(order Order) {
	panic(fmt.Errorf("order type \"%d\" not implemented", order.Type))
}
