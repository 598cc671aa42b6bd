package store

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/etnz/stockgains"
)

// Memory is an in-memory Store.
//
// Update works on a copy of the state, the copy replaces the state only when the
// transaction succeeds.
type Memory struct {
	mu    sync.RWMutex
	state *memState
}

type memState struct {
	lastID    int64
	trades    []stockgains.TradeEvent
	dividends []stockgains.DividendEvent
	positions map[string]stockgains.Position
	targets   stockgains.Targets
}

func (s *memState) clone() *memState {
	return &memState{
		lastID:    s.lastID,
		trades:    slices.Clone(s.trades),
		dividends: slices.Clone(s.dividends),
		positions: maps.Clone(s.positions),
		targets:   s.targets,
	}
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{state: &memState{positions: make(map[string]stockgains.Position)}}
}

// Update implements stockgains.Store.
func (m *Memory) Update(ctx context.Context, fn func(tx stockgains.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.state.clone()
	if err := fn(next); err != nil {
		return err
	}
	m.state = next
	return nil
}

// View implements stockgains.Store.
func (m *Memory) View(ctx context.Context, fn func(tx stockgains.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(readOnly{m.state})
}

// Close implements stockgains.Store.
func (m *Memory) Close() error { return nil }

func (s *memState) Trades(ticker string) ([]stockgains.TradeEvent, error) {
	var res []stockgains.TradeEvent
	for _, t := range s.trades {
		if ticker == "" || t.Ticker == ticker {
			res = append(res, t)
		}
	}
	slices.SortFunc(res, compareTrades)
	return res, nil
}

func (s *memState) Dividends(ticker string) ([]stockgains.DividendEvent, error) {
	var res []stockgains.DividendEvent
	for _, d := range s.dividends {
		if ticker == "" || d.Ticker == ticker {
			res = append(res, d)
		}
	}
	slices.SortFunc(res, compareDividends)
	return res, nil
}

func (s *memState) InsertTrade(t stockgains.TradeEvent) (stockgains.TradeEvent, error) {
	s.lastID++
	t.ID = s.lastID
	s.trades = append(s.trades, t)
	return t, nil
}

func (s *memState) InsertDividend(d stockgains.DividendEvent) (stockgains.DividendEvent, error) {
	s.lastID++
	d.ID = s.lastID
	s.dividends = append(s.dividends, d)
	return d, nil
}

func (s *memState) Position(ticker string) (stockgains.Position, bool, error) {
	p, ok := s.positions[ticker]
	return p, ok, nil
}

func (s *memState) Positions() ([]stockgains.Position, error) {
	res := make([]stockgains.Position, 0, len(s.positions))
	for _, ticker := range slices.Sorted(maps.Keys(s.positions)) {
		res = append(res, s.positions[ticker])
	}
	return res, nil
}

func (s *memState) PutPosition(p stockgains.Position) error {
	s.positions[p.Ticker] = p
	return nil
}

func (s *memState) Targets() (stockgains.Targets, error) { return s.targets, nil }

func (s *memState) ReplaceTargets(t stockgains.Targets) error {
	s.targets = t
	return nil
}

// readOnly rejects writes made in a View.
type readOnly struct{ *memState }

func (readOnly) InsertTrade(stockgains.TradeEvent) (stockgains.TradeEvent, error) {
	return stockgains.TradeEvent{}, ErrReadOnly
}

func (readOnly) InsertDividend(stockgains.DividendEvent) (stockgains.DividendEvent, error) {
	return stockgains.DividendEvent{}, ErrReadOnly
}

func (readOnly) PutPosition(stockgains.Position) error { return ErrReadOnly }

func (readOnly) ReplaceTargets(stockgains.Targets) error { return ErrReadOnly }
