package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/etnz/stockgains"
	"github.com/etnz/stockgains/date"
	"github.com/shopspring/decimal"
	"github.com/ternarybob/arbor"
	_ "modernc.org/sqlite"
)

// SQLite is a Store persisted in a SQLite database.
//
// Amounts and volumes are stored as decimal TEXT, dates as YYYY-MM-DD TEXT. Trades
// and dividends share one table so that their ids come from a single sequence.
type SQLite struct {
	db       *sql.DB
	mu       sync.Mutex // serialises writers
	logger   arbor.ILogger
	currency string
}

// Option configures a SQLite store.
type Option func(*SQLite)

// WithLogger sets the logger.
func WithLogger(logger arbor.ILogger) Option {
	return func(s *SQLite) { s.logger = logger }
}

// WithCurrency sets the currency of the amounts read from the database.
func WithCurrency(currency string) Option {
	return func(s *SQLite) { s.currency = currency }
}

// OpenSQLite opens (or creates) the database at path and runs migrations.
func OpenSQLite(path string, opts ...Option) (*SQLite, error) {
	s := &SQLite{
		logger:   arbor.NewLogger(),
		currency: stockgains.DefaultCurrency,
	}
	for _, opt := range opts {
		opt(s)
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single connection: an in-memory database lives in its connection
	db.SetMaxOpenConns(1)
	s.db = db

	if err := s.configure(); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	s.logger.Debug().Str("path", path).Msg("sqlite store opened")
	return s, nil
}

func (s *SQLite) configure() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}
	return nil
}

func (s *SQLite) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			kind      TEXT NOT NULL,
			date      TEXT NOT NULL,
			ticker    TEXT NOT NULL,
			price     TEXT,
			volume    TEXT,
			brokerage TEXT,
			value     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_ticker ON events(ticker, date)`,

		`CREATE TABLE IF NOT EXISTS positions (
			ticker          TEXT PRIMARY KEY,
			volume          TEXT NOT NULL,
			cost_basis      TEXT NOT NULL,
			buy_brokerage   TEXT NOT NULL,
			sell_brokerage  TEXT NOT NULL,
			dividends       TEXT NOT NULL,
			realized_profit TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS targets (
			seq     INTEGER PRIMARY KEY,
			tickers TEXT NOT NULL,
			target  TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// Update implements stockgains.Store.
func (s *SQLite) Update(ctx context.Context, fn func(tx stockgains.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&sqliteTx{ctx: ctx, tx: tx, currency: s.currency}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// View implements stockgains.Store.
func (s *SQLite) View(ctx context.Context, fn func(tx stockgains.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	return fn(&sqliteTx{ctx: ctx, tx: tx, currency: s.currency, readOnly: true})
}

// Close implements stockgains.Store.
func (s *SQLite) Close() error { return s.db.Close() }

const (
	kindBuy      = "BUY"
	kindSell     = "SELL"
	kindDividend = "DIVIDEND"
)

type sqliteTx struct {
	ctx      context.Context
	tx       *sql.Tx
	currency string
	readOnly bool
}

func (t *sqliteTx) Trades(ticker string) ([]stockgains.TradeEvent, error) {
	query := `SELECT id, kind, date, ticker, price, volume, brokerage FROM events
		WHERE kind IN ('BUY', 'SELL') AND (? = '' OR ticker = ?)
		ORDER BY date, id`
	rows, err := t.tx.QueryContext(t.ctx, query, ticker, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var res []stockgains.TradeEvent
	for rows.Next() {
		var tr stockgains.TradeEvent
		var kind, on, price, volume, brokerage string
		if err := rows.Scan(&tr.ID, &kind, &on, &tr.Ticker, &price, &volume, &brokerage); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		tr.Side = stockgains.Side(kind)
		var d decimals
		tr.Date = d.date(on)
		tr.Price = stockgains.M(d.parse(price), t.currency)
		tr.Volume = stockgains.Q(d.parse(volume))
		tr.Brokerage = stockgains.M(d.parse(brokerage), t.currency)
		if d.err != nil {
			return nil, fmt.Errorf("trade %d: %w", tr.ID, d.err)
		}
		res = append(res, tr)
	}
	return res, rows.Err()
}

func (t *sqliteTx) Dividends(ticker string) ([]stockgains.DividendEvent, error) {
	query := `SELECT id, date, ticker, value FROM events
		WHERE kind = 'DIVIDEND' AND (? = '' OR ticker = ?)
		ORDER BY date, id`
	rows, err := t.tx.QueryContext(t.ctx, query, ticker, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to query dividends: %w", err)
	}
	defer rows.Close()

	var res []stockgains.DividendEvent
	for rows.Next() {
		var div stockgains.DividendEvent
		var on, value string
		if err := rows.Scan(&div.ID, &on, &div.Ticker, &value); err != nil {
			return nil, fmt.Errorf("failed to scan dividend: %w", err)
		}
		var d decimals
		div.Date = d.date(on)
		div.Value = stockgains.M(d.parse(value), t.currency)
		if d.err != nil {
			return nil, fmt.Errorf("dividend %d: %w", div.ID, d.err)
		}
		res = append(res, div)
	}
	return res, rows.Err()
}

func (t *sqliteTx) InsertTrade(tr stockgains.TradeEvent) (stockgains.TradeEvent, error) {
	if t.readOnly {
		return stockgains.TradeEvent{}, ErrReadOnly
	}
	kind := kindBuy
	if tr.Side == stockgains.Sell {
		kind = kindSell
	}
	res, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO events (kind, date, ticker, price, volume, brokerage) VALUES (?, ?, ?, ?, ?, ?)`,
		kind, tr.Date.String(), tr.Ticker, tr.Price.Decimal().String(), tr.Volume.Decimal().String(), tr.Brokerage.Decimal().String())
	if err != nil {
		return stockgains.TradeEvent{}, fmt.Errorf("failed to insert trade: %w", err)
	}
	if tr.ID, err = res.LastInsertId(); err != nil {
		return stockgains.TradeEvent{}, err
	}
	return tr, nil
}

func (t *sqliteTx) InsertDividend(div stockgains.DividendEvent) (stockgains.DividendEvent, error) {
	if t.readOnly {
		return stockgains.DividendEvent{}, ErrReadOnly
	}
	res, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO events (kind, date, ticker, value) VALUES (?, ?, ?, ?)`,
		kindDividend, div.Date.String(), div.Ticker, div.Value.Decimal().String())
	if err != nil {
		return stockgains.DividendEvent{}, fmt.Errorf("failed to insert dividend: %w", err)
	}
	if div.ID, err = res.LastInsertId(); err != nil {
		return stockgains.DividendEvent{}, err
	}
	return div, nil
}

const positionColumns = `ticker, volume, cost_basis, buy_brokerage, sell_brokerage, dividends, realized_profit`

func (t *sqliteTx) scanPosition(row interface{ Scan(...any) error }) (stockgains.Position, error) {
	var p stockgains.Position
	var volume, cost, buy, sell, dividends, realized string
	if err := row.Scan(&p.Ticker, &volume, &cost, &buy, &sell, &dividends, &realized); err != nil {
		return p, err
	}
	var d decimals
	p.Volume = stockgains.Q(d.parse(volume))
	p.CostBasis = stockgains.M(d.parse(cost), t.currency)
	p.BuyBrokerage = stockgains.M(d.parse(buy), t.currency)
	p.SellBrokerage = stockgains.M(d.parse(sell), t.currency)
	p.Dividends = stockgains.M(d.parse(dividends), t.currency)
	p.RealizedProfit = stockgains.M(d.parse(realized), t.currency)
	if d.err != nil {
		return p, fmt.Errorf("position %s: %w", p.Ticker, d.err)
	}
	return p, nil
}

func (t *sqliteTx) Position(ticker string) (stockgains.Position, bool, error) {
	row := t.tx.QueryRowContext(t.ctx, `SELECT `+positionColumns+` FROM positions WHERE ticker = ?`, ticker)
	p, err := t.scanPosition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return stockgains.Position{}, false, nil
	}
	if err != nil {
		return stockgains.Position{}, false, err
	}
	return p, true, nil
}

func (t *sqliteTx) Positions() ([]stockgains.Position, error) {
	rows, err := t.tx.QueryContext(t.ctx, `SELECT `+positionColumns+` FROM positions ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var res []stockgains.Position
	for rows.Next() {
		p, err := t.scanPosition(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (t *sqliteTx) PutPosition(p stockgains.Position) error {
	if t.readOnly {
		return ErrReadOnly
	}
	query := `INSERT INTO positions (` + positionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(ticker) DO UPDATE SET
			volume = excluded.volume,
			cost_basis = excluded.cost_basis,
			buy_brokerage = excluded.buy_brokerage,
			sell_brokerage = excluded.sell_brokerage,
			dividends = excluded.dividends,
			realized_profit = excluded.realized_profit`
	_, err := t.tx.ExecContext(t.ctx, query,
		p.Ticker,
		p.Volume.Decimal().String(),
		p.CostBasis.Decimal().String(),
		p.BuyBrokerage.Decimal().String(),
		p.SellBrokerage.Decimal().String(),
		p.Dividends.Decimal().String(),
		p.RealizedProfit.Decimal().String(),
	)
	if err != nil {
		return fmt.Errorf("failed to store position %s: %w", p.Ticker, err)
	}
	return nil
}

func (t *sqliteTx) Targets() (stockgains.Targets, error) {
	rows, err := t.tx.QueryContext(t.ctx, `SELECT tickers, target FROM targets ORDER BY seq`)
	if err != nil {
		return stockgains.Targets{}, fmt.Errorf("failed to query targets: %w", err)
	}
	defer rows.Close()

	var buckets []stockgains.Bucket
	for rows.Next() {
		var tickers, target string
		if err := rows.Scan(&tickers, &target); err != nil {
			return stockgains.Targets{}, fmt.Errorf("failed to scan target: %w", err)
		}
		var d decimals
		buckets = append(buckets, stockgains.NewBucket(d.parse(target), strings.Split(tickers, "+")...))
		if d.err != nil {
			return stockgains.Targets{}, fmt.Errorf("target %s: %w", tickers, d.err)
		}
	}
	if err := rows.Err(); err != nil {
		return stockgains.Targets{}, err
	}
	if len(buckets) == 0 {
		return stockgains.Targets{}, nil
	}
	return stockgains.NewTargets(buckets...)
}

func (t *sqliteTx) ReplaceTargets(targets stockgains.Targets) error {
	if t.readOnly {
		return ErrReadOnly
	}
	if _, err := t.tx.ExecContext(t.ctx, `DELETE FROM targets`); err != nil {
		return fmt.Errorf("failed to clear targets: %w", err)
	}
	for i, b := range targets.Buckets() {
		_, err := t.tx.ExecContext(t.ctx, `INSERT INTO targets (seq, tickers, target) VALUES (?, ?, ?)`,
			i, b.Name(), b.Target.String())
		if err != nil {
			return fmt.Errorf("failed to store target %s: %w", b.Name(), err)
		}
	}
	return nil
}

// decimals parses columns, keeping the first error.
type decimals struct{ err error }

func (d *decimals) parse(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil && d.err == nil {
		d.err = err
	}
	return v
}

func (d *decimals) date(s string) date.Date {
	v, err := date.Parse(s)
	if err != nil && d.err == nil {
		d.err = err
	}
	return v
}
