package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the only accepted shape for command dates.
const DateLayout = "2006-01-02"

// Direction tells whether money entered or left an account.
type Direction int

const (
	Inbound Direction = iota + 1
	Outbound
)

// Label returns the text written to the ledger table. Spreadsheet formulas
// match on these exact strings.
func (d Direction) Label() string {
	switch d {
	case Inbound:
		return "Masuk"
	case Outbound:
		return "Keluar"
	default:
		return ""
	}
}

func (d Direction) String() string {
	switch d {
	case Inbound:
		return "inbound"
	case Outbound:
		return "outbound"
	default:
		return "unknown"
	}
}

// LedgerEntry represents a single money movement row in the ledger table
type LedgerEntry struct {
	Date          time.Time
	Direction     Direction
	Category      string
	SourceAccount string          // empty for plain inbound entries
	DestAccount   string          // empty for plain outbound entries
	Amount        decimal.Decimal // may be negative, nothing rejects it
	Note          string
}

// LedgerColumns is the column order of the ledger table.
var LedgerColumns = []string{"date", "direction", "category", "source_account", "dest_account", "amount", "note"}

// Row returns the entry as ordered ledger table values.
func (e LedgerEntry) Row() []any {
	return []any{
		e.Date.Format(DateLayout),
		e.Direction.Label(),
		e.Category,
		e.SourceAccount,
		e.DestAccount,
		e.Amount,
		e.Note,
	}
}
