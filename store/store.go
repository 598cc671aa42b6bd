// Package store provides the persistence of a stockgains.Book.
//
// Memory keeps everything in memory and is meant for tests and dry runs, SQLite
// persists to a single database file.
package store

import (
	"cmp"
	"errors"

	"github.com/etnz/stockgains"
)

func compareTrades(a, b stockgains.TradeEvent) int {
	return cmp.Or(a.Date.Compare(b.Date), cmp.Compare(a.ID, b.ID))
}

func compareDividends(a, b stockgains.DividendEvent) int {
	return cmp.Or(a.Date.Compare(b.Date), cmp.Compare(a.ID, b.ID))
}

// ErrReadOnly is returned by writes attempted in a View transaction.
var ErrReadOnly = errors.New("read-only transaction")
