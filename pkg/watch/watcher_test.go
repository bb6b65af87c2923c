package watch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/assistant/pkg/client"
	"github.com/aretw0/assistant/pkg/core"
	"github.com/aretw0/assistant/pkg/store"
	"github.com/aretw0/assistant/pkg/watch"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
	err   error
}

func (r *recorder) handle(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, filepath.Base(path))
	return r.err
}

func (r *recorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.paths)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func stopAndWait(t *testing.T, cancel context.CancelFunc, w *watch.Watcher) {
	t.Helper()
	cancel()
	assert.Eventually(t, func() bool {
		return !w.State().(watch.WatcherState).Running
	}, time.Second, 10*time.Millisecond)
}

func TestWatcher_New(t *testing.T) {
	t.Run("Invalid pattern", func(t *testing.T) {
		_, err := watch.New(t.TempDir(), nil, watch.WithPattern("[a-"))
		assert.Error(t, err)
	})

	t.Run("Invalid schedule", func(t *testing.T) {
		_, err := watch.New(t.TempDir(), nil, watch.WithSchedule("every minute"))
		assert.Error(t, err)
	})
}

func TestWatcher_Scan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "alpha")
	writeFile(t, filepath.Join(dir, "nested", "b.md"), "beta")
	writeFile(t, filepath.Join(dir, "skip.bin"), "binary")

	rec := &recorder{}
	w, err := watch.New(dir, rec.handle, watch.WithPattern("**/*.md"))
	require.NoError(t, err)

	n, err := w.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []string{"a.md", "b.md"}, rec.seen())

	t.Run("Unchanged files are skipped", func(t *testing.T) {
		n, err := w.Scan(context.Background())
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("Modified file is handled again", func(t *testing.T) {
		path := filepath.Join(dir, "a.md")
		later := time.Now().Add(time.Minute)
		require.NoError(t, os.Chtimes(path, later, later))

		n, err := w.Scan(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestWatcher_Scan_FailedFileIsRetried(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "alpha")

	var reported []error
	rec := &recorder{err: errors.New("backend down")}
	w, err := watch.New(dir, rec.handle, watch.WithErrorHandler(func(err error) {
		reported = append(reported, err)
	}))
	require.NoError(t, err)

	_, err = w.Scan(context.Background())
	require.NoError(t, err)
	_, err = w.Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt", "a.txt"}, rec.seen())
	assert.Len(t, reported, 2)
	assert.Equal(t, uint64(2), w.State().(watch.WatcherState).Failures)
}

func TestWatcher_Start(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "existing.txt"), "old")

	rec := &recorder{}
	w, err := watch.New(dir, rec.handle,
		watch.WithPattern("**/*.txt"),
		watch.WithDebounce(20*time.Millisecond),
		watch.WithInitialScan(true),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer stopAndWait(t, cancel, w)
	require.NoError(t, w.Start(ctx))
	assert.Equal(t, []string{"existing.txt"}, rec.seen())

	assert.ErrorIs(t, w.Start(ctx), watch.ErrAlreadyStarted)

	t.Run("Dropped file is handled", func(t *testing.T) {
		writeFile(t, filepath.Join(dir, "new.txt"), "fresh")
		assert.Eventually(t, func() bool {
			return slices.Contains(rec.seen(), "new.txt")
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("Non-matching file is ignored", func(t *testing.T) {
		writeFile(t, filepath.Join(dir, "image.png"), "png")
		time.Sleep(100 * time.Millisecond)
		assert.NotContains(t, rec.seen(), "image.png")
	})

	t.Run("File in new subdirectory is handled", func(t *testing.T) {
		writeFile(t, filepath.Join(dir, "sub", "deep.txt"), "deep")
		assert.Eventually(t, func() bool {
			return slices.Contains(rec.seen(), "deep.txt")
		}, 2*time.Second, 10*time.Millisecond)
	})
}

func TestWatcher_StartRetry(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "inbox")
	w, err := watch.New(dir, (&recorder{}).handle, watch.WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	err = w.Start(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, watch.ErrAlreadyStarted)
	assert.False(t, w.State().(watch.WatcherState).Running)

	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, w.Start(ctx), "a failed Start must not block the next one")
	defer stopAndWait(t, cancel, w)
	assert.ErrorIs(t, w.Start(ctx), watch.ErrAlreadyStarted)
}

func TestIngestInto(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "invoice.txt"), "Invoice 4411 payment due")

	s := store.New(store.Marvin)
	g := client.New(s)
	w, err := watch.New(dir, watch.IngestInto(g, "inbox"))
	require.NoError(t, err)

	n, err := w.Scan(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)

	files := s.Current().Files.Items()
	require.Len(t, files, 1)
	assert.Equal(t, "invoice.txt", files[0].Name)
	assert.Equal(t, core.FileProcessed, files[0].Status)
	assert.Equal(t, []string{"1"}, files[0].Topics)
}
