package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sheikh-saqib/telegram-ledger-recorder/internal/models/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w}

	event := events.EntriesRecorded{
		EventID: "evt-1",
		Command: "in",
		Rows: []events.RecordedRow{
			{Table: "Transaksi", Values: []any{"2025-11-17", "Masuk", "gaji", "", "BCA", 5000000, "gaji november"}},
		},
		OccurredAt: time.Date(2025, 11, 17, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.Publish(context.Background(), "evt-1", event))

	require.Len(t, w.messages, 1)
	assert.Equal(t, []byte("evt-1"), w.messages[0].Key)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &decoded))
	assert.Equal(t, "evt-1", decoded["event_id"])
	assert.Equal(t, "in", decoded["command"])
	assert.Equal(t, "2025-11-17T09:00:00Z", decoded["occurred_at"])
	assert.Len(t, decoded["rows"], 1)
}

func TestPublisher_PublishErrors(t *testing.T) {
	boom := errors.New("leader not available")
	p := &Publisher{writer: &fakeWriter{err: boom}}
	assert.ErrorIs(t, p.Publish(context.Background(), "k", map[string]string{"a": "b"}), boom)

	p = &Publisher{writer: &fakeWriter{}}
	assert.Error(t, p.Publish(context.Background(), "k", make(chan int)))
}

func TestPublisher_Close(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w}
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNewPublisher(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "ledger.recorded")
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "ledger.recorded", w.Topic)
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
	assert.True(t, w.BatchTimeout > 0 && w.BatchTimeout <= 50*time.Millisecond, "batch timeout %s", w.BatchTimeout)
	assert.Equal(t, 3, w.MaxAttempts)
}
