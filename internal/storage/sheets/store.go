package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	interfaces "github.com/sheikh-saqib/telegram-ledger-recorder/internal/interfaces"
	"github.com/sheikh-saqib/telegram-ledger-recorder/internal/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// Config selects the spreadsheet and how to authenticate against it.
type Config struct {
	// SpreadsheetID wins over SpreadsheetName when both are set.
	SpreadsheetID   string
	SpreadsheetName string
	// Credentials is a service account JSON key.
	Credentials []byte
	// ValueInputOption is RAW or USER_ENTERED.
	ValueInputOption string
}

// SheetsTableStore appends rows to worksheets of one spreadsheet. Each
// table name is a worksheet title.
type SheetsTableStore struct {
	svc              *gsheet.Service
	spreadsheetID    string
	valueInputOption string
}

// New builds the Sheets service once and resolves the spreadsheet. When
// opts is empty, cfg.Credentials is used; otherwise opts are passed to the
// API clients as is.
func New(ctx context.Context, cfg Config, opts ...option.ClientOption) (*SheetsTableStore, error) {
	if len(opts) == 0 {
		if len(cfg.Credentials) == 0 {
			return nil, errors.New("missing service account credentials")
		}
		creds, err := google.CredentialsFromJSON(ctx, cfg.Credentials,
			gsheet.SpreadsheetsScope,
			drive.DriveMetadataReadonlyScope,
		)
		if err != nil {
			return nil, fmt.Errorf("parse service account credentials: %w", err)
		}
		opts = []option.ClientOption{option.WithCredentials(creds)}
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	id := strings.TrimSpace(cfg.SpreadsheetID)
	if id == "" {
		id, err = resolveByName(ctx, cfg.SpreadsheetName, opts...)
		if err != nil {
			return nil, err
		}
	}

	inputOption := strings.ToUpper(strings.TrimSpace(cfg.ValueInputOption))
	if inputOption == "" {
		inputOption = "RAW"
	}

	return &SheetsTableStore{
		svc:              svc,
		spreadsheetID:    id,
		valueInputOption: inputOption,
	}, nil
}

// SpreadsheetID returns the resolved document ID.
func (s *SheetsTableStore) SpreadsheetID() string { return s.spreadsheetID }

func resolveByName(ctx context.Context, name string, opts ...option.ClientOption) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("spreadsheet id or name required")
	}

	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("drive service: %w", err)
	}

	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", escapeQuery(name), spreadsheetMimeType)
	resp, err := driveSvc.Files.List().
		Q(q).
		Fields("files(id, name)").
		PageSize(1).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("look up spreadsheet %q: %w", name, err)
	}
	if len(resp.Files) == 0 {
		return "", fmt.Errorf("spreadsheet %q not found or not shared with the service account", name)
	}
	return resp.Files[0].Id, nil
}

func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

// AppendRow appends values as a single row below the last row of the
// worksheet named table.
func (s *SheetsTableStore) AppendRow(ctx context.Context, table string, values []any) error {
	if s.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if len(values) == 0 {
		return errors.New("empty row")
	}

	vr := &gsheet.ValueRange{Values: [][]any{cellValues(values)}}
	rng := a1Range(table, len(values))

	resp, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, rng, vr).
		ValueInputOption(s.valueInputOption).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", table, err)
	}

	if resp.Updates != nil {
		logger.FromContext(ctx).Debug("row appended",
			zap.String("table", table),
			zap.String("range", resp.Updates.UpdatedRange),
		)
	}
	return nil
}

// cellValues sends decimals as JSON numbers so the cells stay numeric.
func cellValues(values []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		if d, ok := v.(decimal.Decimal); ok {
			out[i] = json.Number(d.String())
			continue
		}
		out[i] = v
	}
	return out
}

func a1Range(sheet string, columns int) string {
	return fmt.Sprintf("'%s'!A:%s", strings.ReplaceAll(sheet, "'", "''"), columnName(columns))
}

// columnName converts a 1-based column index to its letter form (1 -> A, 27 -> AA).
func columnName(n int) string {
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

var _ interfaces.TableStore = (*SheetsTableStore)(nil)
