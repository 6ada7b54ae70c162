package bot

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/sheikh-saqib/telegram-ledger-recorder/internal/ledger"
	"github.com/sheikh-saqib/telegram-ledger-recorder/internal/logger"
	"github.com/sheikh-saqib/telegram-ledger-recorder/internal/models"
	"go.uber.org/zap"
)

// Kind identifies one of the supported chat commands.
type Kind int

const (
	KindStart Kind = iota + 1
	KindHelp
	KindIn
	KindOut
	KindSale
)

func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindHelp:
		return "help"
	case KindIn:
		return "in"
	case KindOut:
		return "out"
	case KindSale:
		return "sale"
	default:
		return "unknown"
	}
}

// Command is a parsed chat command. The concrete types below are the only
// implementations.
type Command interface {
	Kind() Kind
}

// HelpCommand asks for the usage text.
type HelpCommand struct{ kind Kind }

// EntryCommand records one ledger entry (/in or /out).
type EntryCommand struct {
	Entry models.LedgerEntry
}

// SaleCommand records a business sale and its two ledger entries.
type SaleCommand struct {
	Sale    models.SaleRecord
	Entries [2]models.LedgerEntry
}

func (c HelpCommand) Kind() Kind { return c.kind }

func (c EntryCommand) Kind() Kind {
	if c.Entry.Direction == models.Outbound {
		return KindOut
	}
	return KindIn
}

func (SaleCommand) Kind() Kind { return KindSale }

// Poster persists validated commands.
type Poster interface {
	PostEntry(ctx context.Context, entry models.LedgerEntry) error
	PostSale(ctx context.Context, sale models.SaleRecord, entries [2]models.LedgerEntry) error
}

// route describes how a command name is parsed and how its failures are
// worded.
type route struct {
	kind        Kind
	fields      int // 0 means the command takes no arguments
	parse       func(fields []string) (Command, error)
	example     string
	dateExample string
	amountHint  string
}

func entryParser(record func([]string) (models.LedgerEntry, error)) func([]string) (Command, error) {
	return func(fields []string) (Command, error) {
		entry, err := record(fields)
		if err != nil {
			return nil, err
		}
		return EntryCommand{Entry: entry}, nil
	}
}

func parseSale(fields []string) (Command, error) {
	sale, entries, err := ledger.RecordSale(fields)
	if err != nil {
		return nil, err
	}
	return SaleCommand{Sale: sale, Entries: entries}, nil
}

func newRoutes() map[string]route {
	return map[string]route{
		"start": {kind: KindStart},
		"help":  {kind: KindHelp},
		"in": {
			kind:        KindIn,
			fields:      ledger.EntryFieldCount,
			parse:       entryParser(ledger.RecordInbound),
			example:     inExample,
			dateExample: "2025-11-17",
			amountHint:  "150000",
		},
		"out": {
			kind:        KindOut,
			fields:      ledger.EntryFieldCount,
			parse:       entryParser(ledger.RecordOutbound),
			example:     outExample,
			dateExample: "2025-11-18",
			amountHint:  "15000",
		},
		"sale": {
			kind:        KindSale,
			fields:      ledger.SaleFieldCount,
			parse:       parseSale,
			example:     saleExample,
			dateExample: "2025-11-19",
		},
	}
}

// Processor turns one command line into a reply, appending rows through
// the Poster when the command is valid.
type Processor struct {
	poster Poster
	routes map[string]route
}

func NewProcessor(poster Poster) *Processor {
	return &Processor{
		poster: poster,
		routes: newRoutes(),
	}
}

// CommandName returns the command token of text without the leading slash
// and any @botname suffix. ok is false when text is not a command.
func CommandName(text string) (name string, ok bool) {
	token := text
	if idx := strings.IndexFunc(text, unicode.IsSpace); idx >= 0 {
		token = text[:idx]
	}
	if !strings.HasPrefix(token, "/") {
		return "", false
	}
	token = strings.TrimPrefix(token, "/")
	if at := strings.IndexByte(token, '@'); at >= 0 {
		token = token[:at]
	}
	return token, token != ""
}

func (p *Processor) lookup(text string) (route, bool) {
	name, ok := CommandName(text)
	if !ok {
		return route{}, false
	}
	r, ok := p.routes[name]
	return r, ok
}

func (r route) command(text string) (Command, error) {
	if r.fields == 0 {
		return HelpCommand{kind: r.kind}, nil
	}
	fields, err := ledger.ParseArgs(text, r.fields)
	if err != nil {
		return nil, err
	}
	return r.parse(fields)
}

// Handle processes text and returns the reply. The bool is false when text
// is not a known command and nothing should be sent back.
func (p *Processor) Handle(ctx context.Context, text string) (string, bool) {
	r, ok := p.lookup(text)
	if !ok {
		return "", false
	}

	cmd, err := r.command(text)
	if err != nil {
		return r.rejection(err), true
	}

	log := logger.FromContext(ctx)
	switch c := cmd.(type) {
	case HelpCommand:
		return helpText, true
	case EntryCommand:
		if err := p.poster.PostEntry(ctx, c.Entry); err != nil {
			log.Error("failed to record entry", zap.Stringer("command", c.Kind()), zap.Error(err))
			return persistFailedText, true
		}
		if c.Entry.Direction == models.Outbound {
			return outboundRecordedText(c.Entry), true
		}
		return inboundRecordedText(c.Entry), true
	case SaleCommand:
		if err := p.poster.PostSale(ctx, c.Sale, c.Entries); err != nil {
			log.Error("failed to record sale", zap.Error(err))
			return persistFailedText, true
		}
		return saleRecordedText(c.Sale), true
	default:
		return "", false
	}
}

func (r route) rejection(err error) string {
	var verr *ledger.ValidationError
	if !errors.As(err, &verr) {
		return usageText(r.example)
	}
	switch verr.Kind {
	case ledger.InvalidDate:
		return invalidDateText(r.dateExample)
	case ledger.InvalidAmount:
		return invalidAmountText(r.amountHint)
	default:
		return saleNumbersText
	}
}
