package interfaces

import (
	"context"
)

// TableStore appends rows to named tables. Values arrive in the table's
// column order; a store must not reorder them.
type TableStore interface {
	AppendRow(ctx context.Context, table string, values []any) error
}
