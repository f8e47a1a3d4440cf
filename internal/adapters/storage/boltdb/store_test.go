package boltdb

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homeskillhub/core/internal/domain/entities"
)

func TestOpenInitializesDocument(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "data", "db.bolt"))
	require.NoError(t, err)
	defer store.Close()

	err = store.View(context.Background(), func(doc *entities.Document) error {
		assert.Empty(t, doc.Users)
		assert.Equal(t, 1, doc.Counters[entities.CounterTask])
		return nil
	})
	require.NoError(t, err)
}

func TestDocumentSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.bolt")

	store, err := Open(path)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Update(ctx, func(doc *entities.Document) error {
		for i := 0; i < 3; i++ {
			doc.Tasks = append(doc.Tasks, entities.Task{ID: doc.NextID(entities.CounterTask), Status: entities.TaskStatusOpen})
		}
		return nil
	}))
	require.NoError(t, store.Update(ctx, func(doc *entities.Document) error {
		idx := doc.TaskIndex(2)
		require.NotEqual(t, -1, idx)
		doc.Tasks = append(doc.Tasks[:idx], doc.Tasks[idx+1:]...)
		return nil
	}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	err = reopened.Update(ctx, func(doc *entities.Document) error {
		assert.Len(t, doc.Tasks, 2)
		assert.Equal(t, 4, doc.NextID(entities.CounterTask), "deleted ids are never reused")
		return nil
	})
	require.NoError(t, err)
}

func TestUpdateRollsBackOnError(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "db.bolt"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	boom := errors.New("boom")
	err = store.Update(ctx, func(doc *entities.Document) error {
		doc.Users = append(doc.Users, entities.User{ID: doc.NextID(entities.CounterUser), Name: "Ghost"})
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = store.View(ctx, func(doc *entities.Document) error {
		assert.Empty(t, doc.Users)
		assert.Equal(t, 1, doc.Counters[entities.CounterUser])
		return nil
	})
	require.NoError(t, err)
}
