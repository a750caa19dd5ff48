package accesslog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

type fakeProducer struct {
	mu      sync.Mutex
	records []*kgo.Record
	err     error
	closed  bool
}

func (p *fakeProducer) Produce(_ context.Context, r *kgo.Record, promise func(*kgo.Record, error)) {
	p.mu.Lock()
	p.records = append(p.records, r)
	p.mu.Unlock()
	promise(r, p.err)
}

func (p *fakeProducer) Close() { p.closed = true }

func TestKafkaSinkProducesJSONKeyedByDevice(t *testing.T) {
	prod := &fakeProducer{}
	sink := newKafkaSink(prod, "sovereign.access")
	sink.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	sink.LogAccessAttempt(context.Background(), "verification failed", map[string]any{"reason": "GPS_ANCHOR_FAILED"}, "dev-1")

	require.Len(t, prod.records, 1)
	rec := prod.records[0]
	assert.Equal(t, "sovereign.access", rec.Topic)
	assert.Equal(t, []byte("dev-1"), rec.Key)

	var entry Entry
	require.NoError(t, json.Unmarshal(rec.Value, &entry))
	assert.Equal(t, KindAccessAttempt, entry.Kind)
	assert.Equal(t, "GPS_ANCHOR_FAILED", entry.Metadata["reason"])
	assert.Equal(t, 2026, entry.Timestamp.Year())

	sink.Close()
	assert.True(t, prod.closed)
}

func TestKafkaSinkSwallowsProduceErrors(t *testing.T) {
	var buf bytes.Buffer
	prod := &fakeProducer{err: errors.New("broker down")}
	sink := newKafkaSink(prod, "t", WithKafkaLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	assert.NotPanics(t, func() {
		sink.LogConsent(context.Background(), "consent", nil, "dev-1")
	})
	assert.Contains(t, buf.String(), "broker down")
}

func TestSlogSinkAndMulti(t *testing.T) {
	var a, b bytes.Buffer
	sink := Multi{
		NewSlogSink(slog.New(slog.NewJSONHandler(&a, nil))),
		NewSlogSink(slog.New(slog.NewJSONHandler(&b, nil))),
		Nop{},
	}

	sink.LogConsent(context.Background(), "biometric consent", map[string]any{"anchor": "face"}, "dev-9")

	for _, out := range []string{a.String(), b.String()} {
		assert.Contains(t, out, `"log_type":"consent"`)
		assert.Contains(t, out, `"device_id":"dev-9"`)
	}
}
