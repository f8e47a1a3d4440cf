package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocumentCounters(t *testing.T) {
	doc := NewDocument()

	for _, key := range []string{CounterUser, CounterTask, CounterProfile, CounterReview, CounterRating, CounterMessage} {
		assert.Equal(t, 1, doc.Counters[key], key)
	}
}

func TestNextID(t *testing.T) {
	doc := NewDocument()

	assert.Equal(t, 1, doc.NextID(CounterTask))
	assert.Equal(t, 2, doc.NextID(CounterTask))
	assert.Equal(t, 3, doc.Counters[CounterTask])

	// other counters are untouched
	assert.Equal(t, 1, doc.Counters[CounterUser])
}

func TestNextIDHealsMissingCounter(t *testing.T) {
	doc := &Document{}

	assert.Equal(t, 1, doc.NextID(CounterUser))
	assert.Equal(t, 2, doc.Counters[CounterUser])
}

func TestReconcile(t *testing.T) {
	t.Run("raises stale counters", func(t *testing.T) {
		doc := NewDocument()
		doc.Users = []User{{ID: 4}, {ID: 9}}
		doc.Tasks = []Task{{ID: 12}}
		doc.Counters[CounterUser] = 2
		doc.Counters[CounterTask] = 1

		doc.Reconcile()

		assert.Equal(t, 10, doc.Counters[CounterUser])
		assert.Equal(t, 13, doc.Counters[CounterTask])
	})

	t.Run("never lowers a counter", func(t *testing.T) {
		doc := NewDocument()
		doc.Tasks = []Task{{ID: 3}}
		doc.Counters[CounterTask] = 50

		doc.Reconcile()

		assert.Equal(t, 50, doc.Counters[CounterTask])
	})

	t.Run("heals nil counters and messages", func(t *testing.T) {
		doc := &Document{Users: []User{{ID: 7}}}

		doc.Reconcile()

		require.NotNil(t, doc.Counters)
		require.NotNil(t, doc.Messages)
		assert.Equal(t, 8, doc.Counters[CounterUser])
	})
}

func TestUserByEmail(t *testing.T) {
	doc := NewDocument()
	doc.Users = []User{{ID: 1, Email: "ana@example.com"}}

	assert.NotNil(t, doc.UserByEmail("ANA@Example.COM"))
	assert.NotNil(t, doc.UserByEmail("  ana@example.com "))
	assert.Nil(t, doc.UserByEmail("bo@example.com"))
}
