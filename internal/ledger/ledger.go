package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	interfaces "github.com/sheikh-saqib/telegram-ledger-recorder/internal/interfaces"
	"github.com/sheikh-saqib/telegram-ledger-recorder/internal/logger"
	"github.com/sheikh-saqib/telegram-ledger-recorder/internal/models"
	"github.com/sheikh-saqib/telegram-ledger-recorder/internal/models/events"
	"go.uber.org/zap"
)

// Tables names the two tables rows are appended to.
type Tables struct {
	Ledger string
	Sales  string
}

// DefaultTables matches the worksheet names of the finance template.
var DefaultTables = Tables{Ledger: "Transaksi", Sales: "Penjualan Bisnis"}

// Ledger writes validated entries to the table store. It holds no state
// between calls; concurrent commands are not coordinated.
type Ledger struct {
	store     interfaces.TableStore
	publisher interfaces.EventPublisher // optional
	tables    Tables
	now       func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithPublisher emits an EntriesRecorded event after every successful post.
func WithPublisher(p interfaces.EventPublisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func NewLedger(store interfaces.TableStore, tables Tables, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		tables: tables,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// PostEntry appends one row to the ledger table.
func (l *Ledger) PostEntry(ctx context.Context, entry models.LedgerEntry) error {
	rows := []events.RecordedRow{{Table: l.tables.Ledger, Values: entry.Row()}}
	if err := l.append(ctx, rows); err != nil {
		return err
	}

	command := "in"
	if entry.Direction == models.Outbound {
		command = "out"
	}
	l.publish(ctx, command, rows)
	return nil
}

// PostSale appends the sale to the sales table, then its inbound and
// outbound entries (as returned by RecordSale) to the ledger table, in that
// order. It stops at the first failure and leaves earlier rows in place.
func (l *Ledger) PostSale(ctx context.Context, sale models.SaleRecord, entries [2]models.LedgerEntry) error {
	rows := []events.RecordedRow{
		{Table: l.tables.Sales, Values: sale.Row()},
		{Table: l.tables.Ledger, Values: entries[0].Row()},
		{Table: l.tables.Ledger, Values: entries[1].Row()},
	}
	if err := l.append(ctx, rows); err != nil {
		return err
	}

	l.publish(ctx, "sale", rows)
	return nil
}

func (l *Ledger) append(ctx context.Context, rows []events.RecordedRow) error {
	for i, row := range rows {
		if err := l.store.AppendRow(ctx, row.Table, row.Values); err != nil {
			return &PersistenceError{Table: row.Table, Written: i, Err: err}
		}
	}
	return nil
}

func (l *Ledger) publish(ctx context.Context, command string, rows []events.RecordedRow) {
	if l.publisher == nil {
		return
	}

	event := events.EntriesRecorded{
		EventID:    uuid.New().String(),
		RequestID:  logger.GetRequestID(ctx),
		Command:    command,
		Rows:       rows,
		OccurredAt: l.now().UTC(),
	}
	if err := l.publisher.Publish(ctx, event.EventID, event); err != nil {
		logger.FromContext(ctx).Warn("failed to publish entries recorded event",
			zap.String("event_id", event.EventID),
			zap.Error(err),
		)
	}
}
