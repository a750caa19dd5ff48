package clock

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFake_AdvanceFiresDueTicks(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f := NewFake(start)

	var ticks []time.Time
	cancel := f.Every(500*time.Millisecond, func(now time.Time) {
		ticks = append(ticks, now)
	})
	defer cancel()

	f.Advance(2 * time.Second)

	require.Len(t, ticks, 4)
	assert.Equal(t, start.Add(500*time.Millisecond), ticks[0])
	assert.Equal(t, start.Add(2*time.Second), ticks[3])
	assert.Equal(t, start.Add(2*time.Second), f.Now())
}

func TestFake_CancelStopsTicks(t *testing.T) {
	f := NewFake(time.Unix(0, 0))
	count := 0
	cancel := f.Every(time.Second, func(time.Time) { count++ })

	f.Advance(time.Second)
	cancel()
	f.Advance(5 * time.Second)

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, f.Active())
}

func TestFake_CallbackMayCancelItself(t *testing.T) {
	f := NewFake(time.Unix(0, 0))
	count := 0
	var cancel func()
	cancel = f.Every(time.Second, func(time.Time) {
		count++
		if count == 2 {
			cancel()
		}
	})

	f.Advance(10 * time.Second)
	assert.Equal(t, 2, count)
}

func TestReal_EveryAndCancel(t *testing.T) {
	var n atomic.Int32
	cancel := Real{}.Every(5*time.Millisecond, func(time.Time) { n.Add(1) })
	assert.Eventually(t, func() bool { return n.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	cancel()
	after := n.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, n.Load())
}
