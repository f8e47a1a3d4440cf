package blob

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveImage(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	t.Run("stores the file and returns its serving path", func(t *testing.T) {
		url, err := store.SaveImage("tasks", "task", "photo.PNG", strings.NewReader("img-bytes"), 1024)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(url, "/uploads/tasks/task-"), url)
		assert.True(t, strings.HasSuffix(url, ".png"), "extension is lowercased")

		onDisk := filepath.Join(store.Dir(), "tasks", filepath.Base(url))
		data, err := os.ReadFile(onDisk)
		require.NoError(t, err)
		assert.Equal(t, "img-bytes", string(data))
	})

	t.Run("rejects non-image extensions", func(t *testing.T) {
		_, err := store.SaveImage("tasks", "task", "notes.pdf", strings.NewReader("x"), 1024)
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("rejects oversized files and leaves nothing behind", func(t *testing.T) {
		_, err := store.SaveImage("tasks", "task", "big.jpg", strings.NewReader("0123456789"), 5)
		assert.ErrorIs(t, err, ErrFileTooLarge)

		entries, err := os.ReadDir(filepath.Join(store.Dir(), "tasks"))
		require.NoError(t, err)
		for _, e := range entries {
			assert.False(t, strings.HasSuffix(e.Name(), ".jpg"))
		}
	})

	t.Run("file exactly at the limit is accepted", func(t *testing.T) {
		_, err := store.SaveImage("tasks", "task", "edge.jpg", strings.NewReader("12345"), 5)
		assert.NoError(t, err)
	})
}

func TestSaveMedia(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	t.Run("accepts video content", func(t *testing.T) {
		url, err := store.SaveMedia("chat", "media", "clip.mp4", "video/mp4", strings.NewReader("vid"), 1024)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "/uploads/chat/media-"), url)
	})

	t.Run("rejects other content types", func(t *testing.T) {
		_, err := store.SaveMedia("chat", "media", "malware.exe", "application/octet-stream", strings.NewReader("x"), 1024)
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})
}
