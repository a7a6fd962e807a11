package matchbook

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SyncManager is a concurrency-safe registry of books sharded by instrument.
//
// The registry has its own lock and every book has an exclusive/shared lock, so operations on
// different instruments never wait for each other. Events of a mutation are published to the
// configured sink before the book's lock is released, which keeps delivery order per instrument
// equal to production order.
type SyncManager struct {
	mu    sync.RWMutex // guards books only
	books map[uuid.UUID]*guardedBook
	opts  options
}

type guardedBook struct {
	mu      sync.RWMutex
	book    *OrderBook
	removed bool // set under mu once unregistered

	watchers map[*summaryWatcher]struct{} // guarded by mu
}

// summaryWatcher receives a fresh Summary after every change of its book.
// The channel holds the latest snapshots only; a slow reader skips stale ones.
type summaryWatcher struct {
	c     chan Summary
	depth int
	once  sync.Once
}

func (w *summaryWatcher) offer(s Summary) {
	select {
	case w.c <- s:
		return
	default:
	}
	// full, drop the oldest snapshot
	select {
	case <-w.c:
	default:
	}
	select {
	case w.c <- s:
	default:
	}
}

func (w *summaryWatcher) close() {
	w.once.Do(func() {
		close(w.c)
	})
}

// notify pushes a snapshot to every watcher. Callers hold the exclusive guard.
func (g *guardedBook) notify() {
	for w := range g.watchers {
		w.offer(g.book.Summary(w.depth))
	}
}

// bookGuard is held for the duration of one operation on a book.
type bookGuard struct {
	book    *OrderBook
	owner   *guardedBook
	release func()
}

func (g *guardedBook) exclusive() bookGuard {
	g.mu.Lock()
	return bookGuard{book: g.book, owner: g, release: g.mu.Unlock}
}

func (g *guardedBook) shared() bookGuard {
	g.mu.RLock()
	return bookGuard{book: g.book, owner: g, release: g.mu.RUnlock}
}

func NewSyncManager(opts ...Option) *SyncManager {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &SyncManager{
		books: make(map[uuid.UUID]*guardedBook),
		opts:  o,
	}
}

func (m *SyncManager) NewOrderbook(symbol uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[symbol]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, symbol)
	}
	m.books[symbol] = &guardedBook{book: newBook(symbol, m.opts)}
	m.opts.logger.Info("orderbook created", zap.Stringer("symbol", symbol))
	return nil
}

// RemoveOrderbook unregisters symbol. Operations already holding the book finish first.
func (m *SyncManager) RemoveOrderbook(symbol uuid.UUID) error {
	m.mu.Lock()
	g, ok := m.books[symbol]
	if ok {
		delete(m.books, symbol)
	}
	m.mu.Unlock()
	if !ok {
		return unknownSymbol(symbol)
	}
	guard := g.exclusive()
	g.removed = true
	for w := range g.watchers {
		w.close()
	}
	g.watchers = nil
	guard.release()
	m.opts.logger.Info("orderbook removed", zap.Stringer("symbol", symbol))
	return nil
}

func (m *SyncManager) Symbols() []uuid.UUID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedSymbols(m.books)
}

// acquire looks symbol up and takes the exclusive or shared guard of its book.
// A book removed while the caller waited for the guard is reported as unknown.
func (m *SyncManager) acquire(symbol uuid.UUID, exclusive bool) (bookGuard, error) {
	m.mu.RLock()
	g, ok := m.books[symbol]
	m.mu.RUnlock()
	if !ok {
		return bookGuard{}, unknownSymbol(symbol)
	}
	var guard bookGuard
	if exclusive {
		guard = g.exclusive()
	} else {
		guard = g.shared()
	}
	if g.removed {
		guard.release()
		return bookGuard{}, unknownSymbol(symbol)
	}
	return guard, nil
}

// mutate runs op under the book's exclusive guard and publishes the produced events before releasing it.
func (m *SyncManager) mutate(ctx context.Context, symbol uuid.UUID, op func(book *OrderBook) ([]Event, error)) ([]Event, error) {
	guard, err := m.acquire(symbol, true)
	if err != nil {
		return nil, err
	}
	defer guard.release()

	events, opErr := op(guard.book)
	if len(events) == 0 {
		return events, opErr
	}
	if opErr == nil {
		guard.owner.notify()
	}
	if err := m.opts.sink.Publish(ctx, events); err != nil {
		m.opts.logger.Error("event delivery failed",
			zap.Stringer("symbol", symbol),
			zap.Int("events", len(events)),
			zap.Error(err))
		if opErr == nil {
			opErr = fmt.Errorf("publish events: %w", err)
		}
	}
	return events, opErr
}

func (m *SyncManager) AddOrder(ctx context.Context, order Order) ([]Event, error) {
	return m.mutate(ctx, order.Symbol, func(book *OrderBook) ([]Event, error) {
		return book.Add(order)
	})
}

func (m *SyncManager) CancelOrder(ctx context.Context, symbol, orderID uuid.UUID) ([]Event, error) {
	return m.mutate(ctx, symbol, func(book *OrderBook) ([]Event, error) {
		return book.Cancel(orderID)
	})
}

func (m *SyncManager) AmendOrder(ctx context.Context, symbol, orderID uuid.UUID, amend Amendment) ([]Event, error) {
	return m.mutate(ctx, symbol, func(book *OrderBook) ([]Event, error) {
		return book.Amend(orderID, amend)
	})
}

func (m *SyncManager) Summary(symbol uuid.UUID, depth int) (Summary, error) {
	guard, err := m.acquire(symbol, false)
	if err != nil {
		return Summary{}, err
	}
	defer guard.release()
	return guard.book.Summary(depth), nil
}

func (m *SyncManager) Trades(symbol uuid.UUID) ([]Trade, error) {
	guard, err := m.acquire(symbol, false)
	if err != nil {
		return nil, err
	}
	defer guard.release()
	return guard.book.TradeBook().Trades(), nil
}

// WatchSummary streams Summary(depth) snapshots of symbol: the current one first, then one after
// every operation that changed the book. buffer bounds the snapshots kept for a slow reader, older
// ones are dropped. The channel is closed by stop or when the book is removed.
func (m *SyncManager) WatchSummary(symbol uuid.UUID, depth, buffer int) (<-chan Summary, func(), error) {
	if buffer < 1 {
		buffer = 1
	}
	guard, err := m.acquire(symbol, true)
	if err != nil {
		return nil, nil, err
	}
	defer guard.release()

	g := guard.owner
	w := &summaryWatcher{c: make(chan Summary, buffer), depth: depth}
	if g.watchers == nil {
		g.watchers = make(map[*summaryWatcher]struct{})
	}
	g.watchers[w] = struct{}{}
	w.offer(guard.book.Summary(depth))

	stop := func() {
		g.mu.Lock()
		delete(g.watchers, w)
		g.mu.Unlock()
		w.close()
	}
	return w.c, stop, nil
}
