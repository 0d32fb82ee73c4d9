package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_HandlesNewTextFile(t *testing.T) {
	dir := t.TempDir()

	var mu sync.Mutex
	var seen []string
	watcher := NewWatcher(dir, func(path string) {
		mu.Lock()
		seen = append(seen, path)
		mu.Unlock()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- watcher.Run(ctx)
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)

	textPath := filepath.Join(dir, "new.txt")
	require.NoError(t, os.WriteFile(textPath, []byte("hello"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.bin"), []byte{1, 2}, 0600))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1 && seen[0] == textPath
	}, 3*time.Second, 50*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcher_BurstOfWritesHandledOnce(t *testing.T) {
	dir := t.TempDir()

	var mu sync.Mutex
	calls := 0
	watcher := NewWatcher(dir, func(string) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- watcher.Run(ctx)
	}()

	time.Sleep(100 * time.Millisecond)

	// Writes in a burst, including some landing around the settle
	// window, must collapse into a single handler invocation.
	textPath := filepath.Join(dir, "burst.txt")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(textPath, []byte("draft"), 0600))
		time.Sleep(20 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 1
	}, 3*time.Second, 50*time.Millisecond)

	// No trailing duplicate after another full settle window.
	time.Sleep(settleDelay + 200*time.Millisecond)
	mu.Lock()
	assert.Equal(t, 1, calls)
	mu.Unlock()

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcher_MissingDirectory(t *testing.T) {
	watcher := NewWatcher(filepath.Join(t.TempDir(), "absent"), func(string) {})

	err := watcher.Run(context.Background())
	assert.Error(t, err)
}
