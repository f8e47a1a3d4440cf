package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOpenTask(posterID int) *Task {
	return &Task{
		ID:       1,
		Title:    "Fix the fence",
		PosterID: posterID,
		Status:   TaskStatusOpen,
	}
}

func TestTaskAccept(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("first acceptance moves task to pending approval", func(t *testing.T) {
		task := newOpenTask(1)

		require.NoError(t, task.Accept(2, now))

		assert.Equal(t, TaskStatusPendingApproval, task.Status)
		require.Len(t, task.Acceptances, 1)
		assert.Equal(t, 2, task.Acceptances[0].UserID)
		assert.Equal(t, now, task.Acceptances[0].AcceptedAt)
	})

	t.Run("second acceptance keeps status", func(t *testing.T) {
		task := newOpenTask(1)
		require.NoError(t, task.Accept(2, now))

		require.NoError(t, task.Accept(3, now.Add(time.Minute)))

		assert.Equal(t, TaskStatusPendingApproval, task.Status)
		assert.Len(t, task.Acceptances, 2)
	})

	t.Run("poster cannot accept own task", func(t *testing.T) {
		task := newOpenTask(1)

		err := task.Accept(1, now)

		assert.ErrorIs(t, err, ErrSelfAcceptance)
		assert.Empty(t, task.Acceptances)
	})

	t.Run("duplicate acceptance rejected", func(t *testing.T) {
		task := newOpenTask(1)
		require.NoError(t, task.Accept(2, now))

		err := task.Accept(2, now)

		assert.ErrorIs(t, err, ErrAlreadyAccepted)
		assert.Len(t, task.Acceptances, 1)
	})

	t.Run("assigned task rejects new acceptances", func(t *testing.T) {
		task := newOpenTask(1)
		require.NoError(t, task.Accept(2, now))
		require.NoError(t, task.Assign(1, 2))

		err := task.Accept(3, now)

		assert.ErrorIs(t, err, ErrTaskAssigned)
	})
}

func TestTaskAssign(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("poster assigns an accepted helper", func(t *testing.T) {
		task := newOpenTask(1)
		require.NoError(t, task.Accept(2, now))
		require.NoError(t, task.Accept(3, now))

		require.NoError(t, task.Assign(1, 3))

		assert.Equal(t, TaskStatusAssigned, task.Status)
		require.NotNil(t, task.AssignedToUserID)
		assert.Equal(t, 3, *task.AssignedToUserID)
	})

	tests := []struct {
		name     string
		setup    func(task *Task)
		actorID  int
		targetID int
		wantErr  error
	}{
		{
			name:     "only poster can assign",
			setup:    func(task *Task) { _ = task.Accept(2, now) },
			actorID:  2,
			targetID: 2,
			wantErr:  ErrNotPoster,
		},
		{
			name:     "target must have accepted",
			setup:    func(task *Task) { _ = task.Accept(2, now) },
			actorID:  1,
			targetID: 5,
			wantErr:  ErrHelperNotAccepted,
		},
		{
			name: "already assigned task cannot be reassigned",
			setup: func(task *Task) {
				_ = task.Accept(2, now)
				_ = task.Accept(3, now)
				_ = task.Assign(1, 2)
			},
			actorID:  1,
			targetID: 3,
			wantErr:  ErrTaskAssigned,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := newOpenTask(1)
			tt.setup(task)

			err := task.Assign(tt.actorID, tt.targetID)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTaskComplete(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	done := now.Add(48 * time.Hour)

	t.Run("assignee completes", func(t *testing.T) {
		task := newOpenTask(1)
		require.NoError(t, task.Accept(2, now))
		require.NoError(t, task.Assign(1, 2))

		require.NoError(t, task.Complete(2, done))

		assert.Equal(t, TaskStatusCompleted, task.Status)
		require.NotNil(t, task.CompletedAt)
		assert.Equal(t, done, *task.CompletedAt)
	})

	t.Run("poster completes", func(t *testing.T) {
		task := newOpenTask(1)
		require.NoError(t, task.Accept(2, now))
		require.NoError(t, task.Assign(1, 2))

		require.NoError(t, task.Complete(1, done))

		assert.Equal(t, TaskStatusCompleted, task.Status)
	})

	t.Run("bystander cannot complete", func(t *testing.T) {
		task := newOpenTask(1)
		require.NoError(t, task.Accept(2, now))
		require.NoError(t, task.Assign(1, 2))

		err := task.Complete(3, done)

		assert.ErrorIs(t, err, ErrNotParticipant)
		assert.Equal(t, TaskStatusAssigned, task.Status)
	})
}

func TestTaskPatchStatus(t *testing.T) {
	task := newOpenTask(1)

	require.NoError(t, task.PatchStatus(TaskStatusCompleted))
	assert.Equal(t, TaskStatusCompleted, task.Status)

	err := task.PatchStatus(TaskStatus("cancelled"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, TaskStatusCompleted, task.Status)
}

func TestTaskIsExpired(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.False(t, (&Task{}).IsExpired(now), "no deadline never expires")
	assert.True(t, (&Task{Deadline: &past}).IsExpired(now))
	assert.True(t, (&Task{Deadline: &now}).IsExpired(now), "deadline equal to now counts as expired")
	assert.False(t, (&Task{Deadline: &future}).IsExpired(now))
}

func TestTaskClone(t *testing.T) {
	now := time.Now()
	task := newOpenTask(1)
	task.Images = []string{"/uploads/tasks/a.png"}
	require.NoError(t, task.Accept(2, now))

	clone := task.Clone()
	clone.Images[0] = "changed"
	clone.Acceptances[0].UserID = 99

	assert.Equal(t, "/uploads/tasks/a.png", task.Images[0])
	assert.Equal(t, 2, task.Acceptances[0].UserID)
}
