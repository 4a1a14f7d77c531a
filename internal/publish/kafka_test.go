package publish

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/rhythm-forecast/internal/weather"
)

type fakeWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func testReport() weather.RhythmReport {
	return weather.RhythmReport{
		ID:          "rep-1",
		City:        "Seoul",
		GeneratedAt: time.Date(2025, 7, 15, 9, 0, 0, 0, time.UTC),
		MeanS:       0.7,
		Narrative:   "Equilibrium: cloudy periods",
	}
}

func TestSerializeReport(t *testing.T) {
	msg, err := serializeReport(testReport())
	require.NoError(t, err)

	assert.Equal(t, []byte("Seoul"), msg.Key)
	assert.Contains(t, string(msg.Value), `"meanS":0.7`)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "report_id", msg.Headers[0].Key)
	assert.Equal(t, []byte("rep-1"), msg.Headers[0].Value)
	assert.Equal(t, "narrative", msg.Headers[1].Key)
	assert.Equal(t, "generated_at", msg.Headers[2].Key)
	assert.Equal(t, []byte("2025-07-15T09:00:00Z"), msg.Headers[2].Value)
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	require.NoError(t, p.Publish(context.Background(), testReport()))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, []byte("Seoul"), w.msgs[0].Key)

	w.err = errors.New("broker unavailable")
	err := p.Publish(context.Background(), testReport())
	assert.ErrorIs(t, err, w.err)
	assert.Contains(t, err.Error(), "rep-1")

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNewKafkaPublisher_Validation(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "rhythm-reports", slog.Default())
	assert.Error(t, err)

	_, err = NewKafkaPublisher([]string{"localhost:9092"}, "", slog.Default())
	assert.Error(t, err)

	p, err := NewKafkaPublisher([]string{"localhost:9092"}, "rhythm-reports", slog.Default())
	require.NoError(t, err)
	assert.NotNil(t, p.writer)
}
