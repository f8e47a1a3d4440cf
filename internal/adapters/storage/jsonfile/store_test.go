package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homeskillhub/core/internal/domain/entities"
)

func TestOpenCreatesInitializedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "db.json")

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc entities.Document
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, 1, doc.Counters[entities.CounterUser])
	assert.Equal(t, 1, doc.Counters[entities.CounterTask])
	assert.Empty(t, doc.Tasks)
}

func TestOpenReconcilesHandEditedCounters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")

	// Simulate a hand-edited file where rows were added without bumping the
	// counter.
	seeded := `{
		"users": [{"id": 7, "email": "ana@example.com", "name": "Ana"}],
		"tasks": [{"id": 3, "title": "Paint the shed", "posterId": 7, "status": "open"}],
		"_counters": {"userId": 2, "taskId": 1}
	}`
	require.NoError(t, os.WriteFile(path, []byte(seeded), 0o644))

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	err = store.Update(context.Background(), func(doc *entities.Document) error {
		assert.Equal(t, 8, doc.NextID(entities.CounterUser))
		assert.Equal(t, 4, doc.NextID(entities.CounterTask))
		return nil
	})
	require.NoError(t, err)
}

func TestIDsSurviveDeleteAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")

	store, err := Open(path)
	require.NoError(t, err)

	ctx := context.Background()
	err = store.Update(ctx, func(doc *entities.Document) error {
		for i := 0; i < 5; i++ {
			doc.Tasks = append(doc.Tasks, entities.Task{ID: doc.NextID(entities.CounterTask), Status: entities.TaskStatusOpen})
		}
		return nil
	})
	require.NoError(t, err)

	err = store.Update(ctx, func(doc *entities.Document) error {
		idx := doc.TaskIndex(3)
		require.NotEqual(t, -1, idx)
		doc.Tasks = append(doc.Tasks[:idx], doc.Tasks[idx+1:]...)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	err = reopened.Update(ctx, func(doc *entities.Document) error {
		assert.Len(t, doc.Tasks, 4)
		assert.Equal(t, 6, doc.NextID(entities.CounterTask), "deleted ids are never reused")
		return nil
	})
	require.NoError(t, err)
}

func TestUpdateRollsBackOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Update(ctx, func(doc *entities.Document) error {
		doc.Users = append(doc.Users, entities.User{ID: doc.NextID(entities.CounterUser), Name: "Ana"})
		return nil
	}))

	boom := errors.New("boom")
	err = store.Update(ctx, func(doc *entities.Document) error {
		doc.Users = append(doc.Users, entities.User{ID: doc.NextID(entities.CounterUser), Name: "Ghost"})
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = store.View(ctx, func(doc *entities.Document) error {
		require.Len(t, doc.Users, 1)
		assert.Equal(t, "Ana", doc.Users[0].Name)
		assert.Equal(t, 2, doc.Counters[entities.CounterUser])
		return nil
	})
	require.NoError(t, err)
}

func TestDocumentRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")

	store, err := Open(path)
	require.NoError(t, err)

	ctx := context.Background()
	deadline := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Update(ctx, func(doc *entities.Document) error {
		doc.Users = append(doc.Users, entities.User{ID: doc.NextID(entities.CounterUser), Email: "ana@example.com", Name: "Ana"})
		doc.Tasks = append(doc.Tasks, entities.Task{
			ID:       doc.NextID(entities.CounterTask),
			Title:    "Assemble wardrobe",
			PosterID: 1,
			Status:   entities.TaskStatusOpen,
			Deadline: &deadline,
			Images:   []string{"/uploads/tasks/a.png"},
		})
		doc.Messages = append(doc.Messages, entities.Message{ID: doc.NextID(entities.CounterMessage), TaskID: 1, FromUserID: 1, Message: "hi"})
		return nil
	}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	err = reopened.View(ctx, func(doc *entities.Document) error {
		require.Len(t, doc.Users, 1)
		require.Len(t, doc.Tasks, 1)
		require.Len(t, doc.Messages, 1)
		assert.Equal(t, "Assemble wardrobe", doc.Tasks[0].Title)
		require.NotNil(t, doc.Tasks[0].Deadline)
		assert.True(t, deadline.Equal(*doc.Tasks[0].Deadline))
		assert.Equal(t, []string{"/uploads/tasks/a.png"}, doc.Tasks[0].Images)
		return nil
	})
	require.NoError(t, err)
}

func TestViewHonorsContextCancellation(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = store.View(ctx, func(doc *entities.Document) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
