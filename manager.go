package matchbook

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Option configures a manager.
type Option func(*options)

type options struct {
	logger     *zap.Logger
	tradeLimit int
	sink       EventSink
}

func defaultOptions() options {
	return options{
		logger: zap.NewNop(),
		sink:   NopEventSink,
	}
}

// WithLogger sets the logger used by the manager and its books.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTradeHistory bounds each book's trade history to the most recent limit trades. Zero keeps everything.
func WithTradeHistory(limit int) Option {
	return func(o *options) {
		o.tradeLimit = limit
	}
}

// WithEventSink sets where SyncManager delivers produced events.
func WithEventSink(sink EventSink) Option {
	return func(o *options) {
		if sink != nil {
			o.sink = sink
		}
	}
}

// OrderbooksManager routes operations to the book of an instrument.
//
// It does no locking: the whole manager is single-writer. Use SyncManager for concurrent access.
type OrderbooksManager struct {
	books map[uuid.UUID]*OrderBook
	opts  options
}

func NewOrderbooksManager(opts ...Option) *OrderbooksManager {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &OrderbooksManager{
		books: make(map[uuid.UUID]*OrderBook),
		opts:  o,
	}
}

func newBook(symbol uuid.UUID, o options) *OrderBook {
	return NewOrderBook(symbol, NewTradeBook(symbol, o.tradeLimit), o.logger)
}

// NewOrderbook registers an empty book for symbol.
func (m *OrderbooksManager) NewOrderbook(symbol uuid.UUID) error {
	if _, ok := m.books[symbol]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, symbol)
	}
	m.books[symbol] = newBook(symbol, m.opts)
	m.opts.logger.Info("orderbook created", zap.Stringer("symbol", symbol))
	return nil
}

// RemoveOrderbook drops the book of symbol together with its resting orders.
func (m *OrderbooksManager) RemoveOrderbook(symbol uuid.UUID) error {
	if _, ok := m.books[symbol]; !ok {
		return unknownSymbol(symbol)
	}
	delete(m.books, symbol)
	m.opts.logger.Info("orderbook removed", zap.Stringer("symbol", symbol))
	return nil
}

// Orderbook returns the book of symbol.
func (m *OrderbooksManager) Orderbook(symbol uuid.UUID) (*OrderBook, error) {
	book, ok := m.books[symbol]
	if !ok {
		return nil, unknownSymbol(symbol)
	}
	return book, nil
}

// Symbols returns the registered symbols in a stable order.
func (m *OrderbooksManager) Symbols() []uuid.UUID {
	return sortedSymbols(m.books)
}

// AddOrder routes the order to the book of order.Symbol.
func (m *OrderbooksManager) AddOrder(order Order) ([]Event, error) {
	book, err := m.Orderbook(order.Symbol)
	if err != nil {
		return nil, err
	}
	return book.Add(order)
}

func (m *OrderbooksManager) CancelOrder(symbol, orderID uuid.UUID) ([]Event, error) {
	book, err := m.Orderbook(symbol)
	if err != nil {
		return nil, err
	}
	return book.Cancel(orderID)
}

func (m *OrderbooksManager) AmendOrder(symbol, orderID uuid.UUID, amend Amendment) ([]Event, error) {
	book, err := m.Orderbook(symbol)
	if err != nil {
		return nil, err
	}
	return book.Amend(orderID, amend)
}

func (m *OrderbooksManager) Summary(symbol uuid.UUID, depth int) (Summary, error) {
	book, err := m.Orderbook(symbol)
	if err != nil {
		return Summary{}, err
	}
	return book.Summary(depth), nil
}

// Trades returns the retained trade history of symbol, oldest first.
func (m *OrderbooksManager) Trades(symbol uuid.UUID) ([]Trade, error) {
	book, err := m.Orderbook(symbol)
	if err != nil {
		return nil, err
	}
	return book.TradeBook().Trades(), nil
}

func unknownSymbol(symbol uuid.UUID) error {
	return fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
}

func sortedSymbols[V any](books map[uuid.UUID]V) []uuid.UUID {
	symbols := make([]uuid.UUID, 0, len(books))
	for symbol := range books {
		symbols = append(symbols, symbol)
	}
	sort.Slice(symbols, func(i, j int) bool {
		return symbols[i].String() < symbols[j].String()
	})
	return symbols
}
