package memory

import (
	"context"
	"sync"

	interfaces "github.com/sheikh-saqib/telegram-ledger-recorder/internal/interfaces"
)

// MemoryTableStore keeps appended rows in process memory. It is safe for
// concurrent use. Rows are lost on restart.
type MemoryTableStore struct {
	mu     sync.Mutex
	tables map[string][][]any
	failOn map[string]error
}

func NewMemoryTableStore() *MemoryTableStore {
	return &MemoryTableStore{
		tables: make(map[string][][]any),
		failOn: make(map[string]error),
	}
}

// AppendRow stores a copy of values under table.
func (m *MemoryTableStore) AppendRow(ctx context.Context, table string, values []any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.failOn[table]; ok {
		return err
	}

	row := make([]any, len(values))
	copy(row, values)
	m.tables[table] = append(m.tables[table], row)
	return nil
}

// FailOn makes every later append to table return err. A nil err clears it.
func (m *MemoryTableStore) FailOn(table string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err == nil {
		delete(m.failOn, table)
		return
	}
	m.failOn[table] = err
}

// Rows returns a copy of the rows appended to table, oldest first.
func (m *MemoryTableStore) Rows(table string) [][]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([][]any, len(m.tables[table]))
	copy(copied, m.tables[table])
	return copied
}

// Compile-time check: ensure MemoryTableStore implements TableStore interface
var _ interfaces.TableStore = (*MemoryTableStore)(nil)
