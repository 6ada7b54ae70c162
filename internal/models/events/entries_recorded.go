package events

import (
	"time"
)

// EntriesRecorded is emitted once per command after all of its rows were
// appended.
type EntriesRecorded struct {
	EventID    string        `json:"event_id"`
	RequestID  string        `json:"request_id,omitempty"`
	Command    string        `json:"command"`
	Rows       []RecordedRow `json:"rows"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// RecordedRow is one appended row. Values keep the table's column order.
type RecordedRow struct {
	Table  string `json:"table"`
	Values []any  `json:"values"`
}
