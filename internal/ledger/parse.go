package ledger

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/sheikh-saqib/telegram-ledger-recorder/internal/models"
	"github.com/shopspring/decimal"
)

const (
	EntryFieldCount = 5
	SaleFieldCount  = 8
)

// Bounds on parsed numbers. Exponent notation such as 1e2000000000 parses
// fine but overflows multiplication and is slow to render.
const (
	maxIntegerDigits  = 20
	maxFractionDigits = 10
)

var errOutOfRange = errors.New("number out of range")

// ParseArgs drops the command token (everything up to the first whitespace)
// and splits the rest on '|'. Segments are trimmed. Any count other than
// expected returns ErrUsage.
func ParseArgs(line string, expected int) ([]string, error) {
	idx := strings.IndexFunc(line, unicode.IsSpace)
	if idx < 0 {
		return nil, ErrUsage
	}

	segs := strings.Split(line[idx:], "|")
	if len(segs) != expected {
		return nil, ErrUsage
	}
	for i, s := range segs {
		segs[i] = strings.TrimSpace(s)
	}
	return segs, nil
}

// ParseDate accepts a zero-padded YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, &ValidationError{Kind: InvalidDate, Field: "date", Value: s, Err: err}
	}
	return t, nil
}

func parseDecimal(kind ValidationKind, field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ValidationError{Kind: kind, Field: field, Value: s, Err: err}
	}
	exp := int(d.Exponent())
	if d.NumDigits()+exp > maxIntegerDigits || -exp > maxFractionDigits {
		return decimal.Zero, &ValidationError{Kind: kind, Field: field, Value: s, Err: errOutOfRange}
	}
	return d, nil
}

// RecordInbound builds the ledger entry for an /in command from
// date, category, destination account, amount and note.
func RecordInbound(fields []string) (models.LedgerEntry, error) {
	entry, err := recordEntry(fields)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	entry.Direction = models.Inbound
	entry.DestAccount = fields[2]
	return entry, nil
}

// RecordOutbound builds the ledger entry for an /out command from
// date, category, source account, amount and note.
func RecordOutbound(fields []string) (models.LedgerEntry, error) {
	entry, err := recordEntry(fields)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	entry.Direction = models.Outbound
	entry.SourceAccount = fields[2]
	return entry, nil
}

func recordEntry(fields []string) (models.LedgerEntry, error) {
	if len(fields) != EntryFieldCount {
		return models.LedgerEntry{}, ErrUsage
	}

	date, err := ParseDate(fields[0])
	if err != nil {
		return models.LedgerEntry{}, err
	}
	amount, err := parseDecimal(InvalidAmount, "amount", fields[3])
	if err != nil {
		return models.LedgerEntry{}, err
	}

	return models.LedgerEntry{
		Date:     date,
		Category: fields[1],
		Amount:   amount,
		Note:     fields[4],
	}, nil
}

// RecordSale validates every field of a /sale command before returning,
// so a caller that gets a nil error can persist without further checks.
func RecordSale(fields []string) (models.SaleRecord, [2]models.LedgerEntry, error) {
	if len(fields) != SaleFieldCount {
		return models.SaleRecord{}, [2]models.LedgerEntry{}, ErrUsage
	}

	date, err := ParseDate(fields[0])
	if err != nil {
		return models.SaleRecord{}, [2]models.LedgerEntry{}, err
	}

	var nums [3]decimal.Decimal
	for i, name := range []string{"quantity", "unit_sale_price", "unit_cost"} {
		nums[i], err = parseDecimal(InvalidNumber, name, fields[2+i])
		if err != nil {
			return models.SaleRecord{}, [2]models.LedgerEntry{}, err
		}
	}

	sale := models.SaleRecord{
		Date:             date,
		Product:          fields[1],
		Quantity:         nums[0],
		UnitSalePrice:    nums[1],
		UnitCost:         nums[2],
		ReceivingAccount: fields[5],
		PayingAccount:    fields[6],
		Note:             fields[7],
	}
	return sale, sale.Entries(), nil
}
