package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtomicTaskValidate(t *testing.T) {
	valid := &AtomicTask{ID: "T1", Title: "Add login button", EstimatedHours: 2}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		task *AtomicTask
	}{
		{"missing id", &AtomicTask{Title: "x", EstimatedHours: 1}},
		{"missing title", &AtomicTask{ID: "T1", EstimatedHours: 1}},
		{"hours too low", &AtomicTask{ID: "T1", Title: "x", EstimatedHours: 0.01}},
		{"hours too high", &AtomicTask{ID: "T1", Title: "x", EstimatedHours: 25}},
		{"bad status", &AtomicTask{ID: "T1", Title: "x", EstimatedHours: 1, Status: "bogus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.task.Validate())
		})
	}
}

func TestIsAtomicByEffort(t *testing.T) {
	assert.True(t, (&AtomicTask{EstimatedHours: 8}).IsAtomicByEffort())
	assert.False(t, (&AtomicTask{EstimatedHours: 8.1}).IsAtomicByEffort())
}

func TestTaskStatusTransitions(t *testing.T) {
	assert.True(t, TaskStatusPending.CanTransition(TaskStatusInProgress))
	assert.False(t, TaskStatusPending.CanTransition(TaskStatusCompleted))
	assert.True(t, TaskStatusInProgress.CanTransition(TaskStatusCompleted))
	assert.True(t, TaskStatusInProgress.CanTransition(TaskStatusBlocked))
	assert.True(t, TaskStatusBlocked.CanTransition(TaskStatusInProgress))
	assert.False(t, TaskStatusCompleted.CanTransition(TaskStatusInProgress))
}

func TestSubTaskID(t *testing.T) {
	assert.Equal(t, "T1.1", SubTaskID("T1", 1))
	assert.Equal(t, "T1.1.2", SubTaskID("T1.1", 2))
}
