package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// step is one recorded push outcome and what the caller should do next.
type step struct {
	fail      bool
	wantOpen  bool
	wantPrime bool // RecordSuccess: primary usable again
	wantFall  bool // RecordFailure: use fallback
	opened    bool
	closed    bool
}

func run(t *testing.T, b *Breaker, steps []step) {
	t.Helper()
	for i, st := range steps {
		if st.fail {
			useFallback, change := b.RecordFailure()
			assert.Equal(t, st.wantFall, useFallback, "step %d fallback", i)
			assert.Equal(t, st.opened, change.Opened, "step %d opened", i)
		} else {
			usePrimary, change := b.RecordSuccess()
			assert.Equal(t, st.wantPrime, usePrimary, "step %d primary", i)
			assert.Equal(t, st.closed, change.Closed, "step %d closed", i)
		}
		assert.Equal(t, st.wantOpen, b.IsOpen(), "step %d state", i)
	}
}

func TestBreaker(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		steps []step
	}{
		{
			name: "single push failure fails over and one success restores",
			opts: []Option{WithFailureThreshold(1), WithSuccessThreshold(1)},
			steps: []step{
				{fail: true, wantFall: true, opened: true, wantOpen: true},
				{fail: true, wantFall: true, wantOpen: true},
				{wantPrime: true, closed: true},
			},
		},
		{
			name: "opens on the third consecutive failure",
			opts: []Option{WithFailureThreshold(3)},
			steps: []step{
				{fail: true},
				{fail: true},
				{wantPrime: true},
				{fail: true},
				{fail: true},
				{fail: true, wantFall: true, opened: true, wantOpen: true},
			},
		},
		{
			name: "failure while open restarts the success count",
			opts: []Option{WithFailureThreshold(1), WithSuccessThreshold(2)},
			steps: []step{
				{fail: true, wantFall: true, opened: true, wantOpen: true},
				{wantOpen: true},
				{fail: true, wantFall: true, wantOpen: true},
				{wantOpen: true},
				{wantPrime: true, closed: true},
			},
		},
		{
			name: "non-positive thresholds keep defaults",
			opts: []Option{WithFailureThreshold(0), WithSuccessThreshold(-1)},
			steps: []step{
				{fail: true}, {fail: true}, {fail: true}, {fail: true},
				{fail: true, wantFall: true, opened: true, wantOpen: true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run(t, New("push", tt.opts...), tt.steps)
		})
	}
}

func TestBreakerStateAndReset(t *testing.T) {
	b := New("push", WithFailureThreshold(1))
	assert.Equal(t, "push", b.Name())
	assert.Equal(t, "closed", b.State().String())

	b.RecordFailure()
	assert.Equal(t, "open", b.State().String())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
}
