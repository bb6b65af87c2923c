package debounce_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/aretw0/assistant/internal/debounce"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDebouncer(t *testing.T) {
	t.Run("Burst collapses to the last call", func(t *testing.T) {
		d := debounce.New(20 * time.Millisecond)
		var last atomic.Int32
		var calls atomic.Int32
		for i := range 5 {
			d.Trigger(func() {
				calls.Add(1)
				last.Store(int32(i))
			})
		}

		assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, int32(4), last.Load())
		d.Stop()
	})

	t.Run("Stop cancels pending call", func(t *testing.T) {
		d := debounce.New(time.Hour)
		var calls atomic.Int32
		d.Trigger(func() { calls.Add(1) })
		d.Stop()
		d.Trigger(func() { calls.Add(1) })
		assert.Zero(t, calls.Load())
	})
}

func TestKeyed(t *testing.T) {
	k := debounce.NewKeyed(20 * time.Millisecond)
	var a, b atomic.Int32
	for range 3 {
		k.Trigger("a", func() { a.Add(1) })
		k.Trigger("b", func() { b.Add(1) })
	}
	assert.Equal(t, 2, k.Pending())

	assert.Eventually(t, func() bool { return a.Load() == 1 && b.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return k.Pending() == 0 }, time.Second, 5*time.Millisecond)
	k.Stop()
}
