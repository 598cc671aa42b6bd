// Package stockgains keeps the books of a personal share portfolio and suggests
// how to rebalance it.
//
// The core functionalities include:
//   - Ledger: an append-only, chronological record of trades (buy, sell) and
//     dividends. Events are never updated nor deleted.
//   - Positions: the volume, cost basis, brokerage, dividends and realized profit
//     of each ticker, derived from its events with the weighted average cost
//     method and recomputed on every write.
//   - Valuation: open positions valued at market price, with closed positions
//     summarized on their own line.
//   - Allocation: target buckets of tickers, summing to at most 100%, and a solver
//     that sizes every bucket so that the most overweight one needs no sale.
//
// A Book ties them to a Store, so that an event and the position it changes are
// always recorded together. Market prices come from a MarketData provider.
//
// This package serves as the foundational logic for the `sg` command-line tool.
package stockgains
