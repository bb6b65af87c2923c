package store_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/assistant/pkg/core"
	"github.com/aretw0/assistant/pkg/store"
)

func TestStore_Dispatch(t *testing.T) {
	s := store.New(store.Erika, store.WithClock(func() time.Time { return at }))
	assert.Zero(t, s.Seq())

	next := s.Dispatch(store.DeleteTopic{ID: "1"})
	assert.Equal(t, []string{"2", "3", "4"}, next.Topics.IDs())
	assert.Equal(t, next.Snapshot(), s.Current().Snapshot())
	assert.Equal(t, uint64(1), s.Seq())

	t.Run("Nil action is not counted", func(t *testing.T) {
		s.Dispatch(nil)
		assert.Equal(t, uint64(1), s.Seq())
	})

	t.Run("DispatchAll applies in order", func(t *testing.T) {
		final := s.DispatchAll(
			store.AddFile{File: core.ProcessedFile{ID: "f1", Status: core.FileProcessing}},
			store.UpdateFile{ID: "f1", Updates: core.FilePatch{Status: core.Ptr(core.FileProcessed)}},
		)
		f, ok := final.Files.Get("f1")
		require.True(t, ok)
		assert.Equal(t, core.FileProcessed, f.Status)
		assert.Equal(t, uint64(3), s.Seq())
	})
}

func TestStore_InitialState(t *testing.T) {
	restored := store.FromSnapshot(core.Snapshot{DataMode: core.DataModeLive})
	s := store.New(store.Marvin, store.WithInitialState(restored))

	assert.Equal(t, core.DataModeLive, s.Current().DataMode)
	assert.Zero(t, s.Current().Topics.Len())
	assert.Equal(t, "marvin", s.Product().Name)
}

func TestStore_Observe(t *testing.T) {
	s := store.New(store.Erika, store.WithClock(func() time.Time { return at }))

	var changes []store.Change
	cancel := s.Observe(func(c store.Change) { changes = append(changes, c) })

	s.Dispatch(store.SetDataMode{Mode: core.DataModeLive})
	require.Len(t, changes, 1)

	c := changes[0]
	assert.Equal(t, uint64(1), c.Seq)
	assert.Equal(t, core.DataModeMock, c.Prev.DataMode)
	assert.Equal(t, core.DataModeLive, c.Next.DataMode)
	assert.Equal(t, at, c.At)
	assert.Equal(t, "#1 SET_DATA_MODE", c.String())

	cancel()
	s.Dispatch(store.SetDataMode{Mode: core.DataModeMock})
	assert.Len(t, changes, 1, "cancelled observer must not run")
}

func TestStore_Subscribe(t *testing.T) {
	t.Run("Receives changes and closes on cancel", func(t *testing.T) {
		s := store.New(store.Erika)
		ctx, cancel := context.WithCancel(context.Background())
		ch := s.Subscribe(ctx)

		s.Dispatch(store.DeleteTopic{ID: "4"})
		select {
		case c := <-ch:
			assert.Equal(t, store.ActionDeleteTopic, c.Action.Type())
		case <-time.After(time.Second):
			t.Fatal("no change received")
		}

		cancel()
		assert.Eventually(t, func() bool {
			select {
			case _, ok := <-ch:
				return !ok
			default:
				return false
			}
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("Full buffer drops changes", func(t *testing.T) {
		s := store.New(store.Erika, store.WithEventBuffer(1))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		_ = s.Subscribe(ctx)

		s.Dispatch(store.SetDataMode{Mode: core.DataModeLive})
		s.Dispatch(store.SetDataMode{Mode: core.DataModeMock})
		s.Dispatch(store.SetDataMode{Mode: core.DataModeLive})

		st := s.State().(store.StoreState)
		assert.Equal(t, uint64(2), st.Dropped)
		assert.Equal(t, uint64(3), st.Seq, "dispatch is never blocked by subscribers")
	})
}

func TestStore_InstancesAreIndependent(t *testing.T) {
	erika := store.New(store.Erika)
	marvin := store.New(store.Marvin)

	erika.Dispatch(store.DeleteTopic{ID: "1"})
	erika.Dispatch(store.SetDataMode{Mode: core.DataModeLive})

	assert.Equal(t, 3, erika.Current().Topics.Len())
	assert.Equal(t, 4, marvin.Current().Topics.Len())
	assert.Equal(t, core.DataModeMock, marvin.Current().DataMode)
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	s := store.New(store.Erika)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch(store.AddFile{File: core.ProcessedFile{ID: string(rune('a' + i%26)) + string(rune('0'+i/26))}})
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(50), s.Seq())
	assert.Equal(t, 50, s.Current().Files.Len())
}

func TestStore_Introspection(t *testing.T) {
	s := store.New(store.Marvin)
	cancel := s.Observe(func(store.Change) {})
	defer cancel()

	st, ok := s.State().(store.StoreState)
	require.True(t, ok)
	assert.Equal(t, "marvin", st.Product)
	assert.Equal(t, "mock", st.DataMode)
	assert.Equal(t, 4, st.Collections["topics"])
	assert.Equal(t, 1, st.Observers)
	assert.Equal(t, 100, st.EventBuffer)
	assert.Equal(t, "store", s.ComponentType())
}

func BenchmarkDispatch(b *testing.B) {
	s := store.New(store.Erika)
	files := make([]core.ProcessedFile, 1000)
	for i := range files {
		files[i] = core.ProcessedFile{ID: fmt.Sprintf("f%d", i), Status: core.FileProcessing}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f := files[i%len(files)]
		s.Dispatch(store.AddFile{File: f})
		s.Dispatch(store.UpdateFile{ID: f.ID, Updates: core.FilePatch{Status: core.Ptr(core.FileProcessed)}})
	}
}
