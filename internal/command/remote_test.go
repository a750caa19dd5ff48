package command

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sovereign/internal/command/metrics"
)

type delivered struct {
	mu   sync.Mutex
	msgs []Message
	via  []Transport
}

func (d *delivered) deliver(m Message, t Transport) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.msgs = append(d.msgs, m)
	d.via = append(d.via, t)
}

func (d *delivered) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.msgs)
}

func wsURL(httpURL string) string {
	return "ws" + strings.TrimPrefix(httpURL, "http")
}

func TestRemotePushDelivers(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		payload, _ := json.Marshal(Message{Command: TypeDeVitalize, AuthToken: testToken})
		_ = conn.WriteMessage(websocket.TextMessage, payload)
		// Hold the connection until the client goes away.
		_, _, _ = conn.ReadMessage()
	}))
	defer srv.Close()

	r := NewRemote(WithPushURL(wsURL(srv.URL)))
	d := &delivered{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, d.deliver) }()

	require.Eventually(t, func() bool { return d.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, ModePush, r.Mode())
	assert.Equal(t, TransportPush, d.via[0])

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, ModeIdle, r.Mode())
}

func TestRemoteFallsBackToPollAndRetriesPush(t *testing.T) {
	var polls atomic.Int32
	pollSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if polls.Add(1) == 2 {
			_ = json.NewEncoder(w).Encode(Message{Command: TypeDeVitalize, AuthToken: testToken, ID: "p-1"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer pollSrv.Close()

	var dials atomic.Int32
	pushSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		dials.Add(1)
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer pushSrv.Close()

	m := metrics.New(prometheus.NewRegistry())
	r := NewRemote(
		WithPushURL(wsURL(pushSrv.URL)),
		WithPollURL(pollSrv.URL),
		WithPollInterval(10*time.Millisecond),
		WithPushRetryInterval(50*time.Millisecond),
		WithRemoteMetrics(m),
	)
	d := &delivered{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, d.deliver) }()

	require.Eventually(t, func() bool { return d.count() >= 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, ModePoll, r.Mode())
	assert.True(t, r.breaker.IsOpen())

	require.Eventually(t, func() bool { return dials.Load() >= 2 }, 2*time.Second, 10*time.Millisecond,
		"push is retried in the background while polling")

	cancel()
	require.NoError(t, <-done)

	d.mu.Lock()
	assert.Equal(t, TransportPoll, d.via[0])
	assert.Equal(t, "p-1", d.msgs[0].ID)
	d.mu.Unlock()
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.TransportErrors.WithLabelValues("push")), 2.0)
}

func TestRemotePoll(t *testing.T) {
	serve := func(t *testing.T, status int, body string) *Remote {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		}))
		t.Cleanup(srv.Close)
		return NewRemote(WithPollURL(srv.URL))
	}
	ctx := context.Background()

	t.Run("204 means nothing pending", func(t *testing.T) {
		_, ok, err := serve(t, http.StatusNoContent, "").Poll(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("200 with a command", func(t *testing.T) {
		msg, ok, err := serve(t, http.StatusOK, `{"command":"DE_VITALIZE","auth_token":"t"}`).Poll(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, TypeDeVitalize, msg.Command)
	})

	t.Run("server error", func(t *testing.T) {
		_, _, err := serve(t, http.StatusBadGateway, "").Poll(ctx)
		assert.Error(t, err)
	})
}

func TestRemotePollDeliversStandingCommandOnce(t *testing.T) {
	var pending atomic.Bool
	pending.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if !pending.Load() {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_ = json.NewEncoder(w).Encode(Message{Command: TypeDeVitalize, AuthToken: testToken})
	}))
	defer srv.Close()

	r := NewRemote(WithPollURL(srv.URL))
	d := &delivered{}
	ctx := context.Background()

	for range 3 {
		r.pollOnce(ctx, d.deliver)
	}
	assert.Equal(t, 1, d.count(), "a command left on the endpoint is not re-applied every interval")

	pending.Store(false)
	r.pollOnce(ctx, d.deliver)
	pending.Store(true)
	r.pollOnce(ctx, d.deliver)
	assert.Equal(t, 2, d.count(), "a new command after the endpoint drained is delivered")
}

func TestRemoteDisabledBlocksUntilCancel(t *testing.T) {
	r := NewRemote()
	assert.False(t, r.Enabled())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, r.Run(ctx, func(Message, Transport) {}))
}
