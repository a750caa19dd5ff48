package command

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Bus is the same-origin broadcast. Every guard process sharing the bus sees
// every published message, including its own.
type Bus interface {
	Publish(ctx context.Context, msg Message) error
	// Listen delivers messages until ctx is done.
	Listen(ctx context.Context, deliver func(Message)) error
}

// MemoryBus broadcasts within one process.
type MemoryBus struct {
	mu        sync.RWMutex
	next      int
	listeners map[int]func(Message)
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{listeners: make(map[int]func(Message))}
}

func (b *MemoryBus) Publish(_ context.Context, msg Message) error {
	b.mu.RLock()
	listeners := make([]func(Message), 0, len(b.listeners))
	for _, l := range b.listeners {
		listeners = append(listeners, l)
	}
	b.mu.RUnlock()
	for _, l := range listeners {
		l(msg)
	}
	return nil
}

func (b *MemoryBus) Listen(ctx context.Context, deliver func(Message)) error {
	b.mu.Lock()
	id := b.next
	b.next++
	b.listeners[id] = deliver
	b.mu.Unlock()

	<-ctx.Done()

	b.mu.Lock()
	delete(b.listeners, id)
	b.mu.Unlock()
	return nil
}

// RedisBus broadcasts over Redis pub/sub so guard processes on one host (or
// one user's devices) share lock commands.
type RedisBus struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

func NewRedisBus(client *redis.Client, channel string, logger *slog.Logger) *RedisBus {
	if channel == "" {
		channel = DefaultChannel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisBus{client: client, channel: channel, logger: logger}
}

func (b *RedisBus) Publish(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode command: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish command: %w", err)
	}
	return nil
}

func (b *RedisBus) Listen(ctx context.Context, deliver func(Message)) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	// Wait for the subscription to be confirmed before reporting ready.
	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			msg, err := decode([]byte(m.Payload))
			if err != nil {
				b.logger.WarnContext(ctx, "dropping malformed broadcast", "error", err)
				continue
			}
			deliver(msg)
		}
	}
}
