package accesslog

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

type producer interface {
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
	Close()
}

// KafkaSink publishes entries as JSON records keyed by device id. Produce is
// asynchronous; failures are reported to the logger from the promise.
type KafkaSink struct {
	client producer
	topic  string
	logger *slog.Logger
	now    func() time.Time
}

type KafkaOption func(*KafkaSink)

func WithKafkaLogger(logger *slog.Logger) KafkaOption {
	return func(s *KafkaSink) {
		s.logger = logger
	}
}

// NewKafkaSink connects a franz-go client to brokers.
func NewKafkaSink(brokers []string, topic string, opts ...KafkaOption) (*KafkaSink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerLinger(50*time.Millisecond),
	)
	if err != nil {
		return nil, err
	}
	return newKafkaSink(client, topic, opts...), nil
}

func newKafkaSink(client producer, topic string, opts ...KafkaOption) *KafkaSink {
	s := &KafkaSink{client: client, topic: topic, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *KafkaSink) LogConsent(ctx context.Context, message string, metadata map[string]any, deviceID string) {
	s.produce(ctx, KindConsent, message, metadata, deviceID)
}

func (s *KafkaSink) LogAccessAttempt(ctx context.Context, message string, metadata map[string]any, deviceID string) {
	s.produce(ctx, KindAccessAttempt, message, metadata, deviceID)
}

func (s *KafkaSink) Close() {
	s.client.Close()
}

func (s *KafkaSink) produce(ctx context.Context, kind Kind, message string, metadata map[string]any, deviceID string) {
	value, err := json.Marshal(Entry{
		Kind:      kind,
		Message:   message,
		Metadata:  metadata,
		DeviceID:  deviceID,
		Timestamp: s.now().UTC(),
	})
	if err != nil {
		s.warn(ctx, "failed to encode access log entry", err)
		return
	}
	// The record must outlive a request-scoped ctx.
	s.client.Produce(context.WithoutCancel(ctx), &kgo.Record{
		Topic: s.topic,
		Key:   []byte(deviceID),
		Value: value,
	}, func(_ *kgo.Record, err error) {
		if err != nil {
			s.warn(ctx, "failed to publish access log entry", err)
		}
	})
}

func (s *KafkaSink) warn(ctx context.Context, msg string, err error) {
	if s.logger != nil {
		s.logger.WarnContext(ctx, msg, "error", err, "topic", s.topic)
	}
}
