package bundle

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"wordloop/internal/testutil"

	"github.com/stretchr/testify/assert"
)

func TestWatch_ReloadsOnRewrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.json")
	assert.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	var calls atomic.Int32
	w, err := Watch(path, func() { calls.Add(1) }, testutil.NewTestLogger())
	assert.NoError(t, err)
	defer w.Stop()

	assert.NoError(t, os.WriteFile(path, []byte(`[{"text":"cat","meaning":"a feline"}]`), 0o644))

	assert.Eventually(t, func() bool {
		return calls.Load() == 1
	}, 3*time.Second, 20*time.Millisecond)

	// The write burst collapses into a single reload
	time.Sleep(debounceDelay + 200*time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatch_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.json")
	assert.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	var calls atomic.Int32
	w, err := Watch(path, func() { calls.Add(1) }, testutil.NewTestLogger())
	assert.NoError(t, err)
	defer w.Stop()

	assert.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("unrelated"), 0o644))

	time.Sleep(debounceDelay + 200*time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestWatch_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "words.json")

	_, err := Watch(path, func() {}, testutil.NewTestLogger())
	assert.Error(t, err)
}
