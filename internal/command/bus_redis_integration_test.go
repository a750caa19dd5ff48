//go:build integration

package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sovereign/pkg/testutil/containers"
)

type RedisBusSuite struct {
	suite.Suite
	redis *containers.RedisContainer
}

func TestRedisBusSuite(t *testing.T) {
	suite.Run(t, new(RedisBusSuite))
}

func (s *RedisBusSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *RedisBusSuite) TestPublishReachesEveryListener() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := NewRedisBus(s.redis.Client, "test:lock", nil)
	second := NewRedisBus(s.redis.Client, "test:lock", nil)

	got := make(chan Message, 4)
	for _, bus := range []*RedisBus{first, second} {
		go func() {
			_ = bus.Listen(ctx, func(m Message) { got <- m })
		}()
	}

	// Subscriptions are confirmed asynchronously; publish until both see one.
	msg := NewLock(time.Now())
	s.Eventually(func() bool {
		n, err := s.redis.Client.PubSubNumSub(ctx, "test:lock").Result()
		return err == nil && n["test:lock"] == 2
	}, 5*time.Second, 50*time.Millisecond)
	s.Require().NoError(first.Publish(ctx, msg))

	for range 2 {
		select {
		case m := <-got:
			s.Equal(msg.ID, m.ID)
		case <-time.After(5 * time.Second):
			s.FailNow("broadcast not received")
		}
	}
}
