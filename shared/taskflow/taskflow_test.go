package taskflow_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"innkeeper/shared/failure"
	"innkeeper/shared/taskflow"
)

func TestIsTerminal(t *testing.T) {
	assert.False(t, taskflow.IsTerminal(taskflow.StatusPending))
	assert.False(t, taskflow.IsTerminal(taskflow.StatusInProgress))
	assert.True(t, taskflow.IsTerminal(taskflow.StatusCompleted))
	assert.True(t, taskflow.IsTerminal(taskflow.StatusCancelled))
}

func TestEnsureAssignable(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		wantErr bool
	}{
		{name: "pending is assignable", status: taskflow.StatusPending, wantErr: false},
		{name: "in progress is reassignable", status: taskflow.StatusInProgress, wantErr: false},
		{name: "completed is not assignable", status: taskflow.StatusCompleted, wantErr: true},
		{name: "cancelled is not assignable", status: taskflow.StatusCancelled, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := taskflow.EnsureAssignable("cleaning task", tt.status)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, http.StatusConflict, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnsureCompletable(t *testing.T) {
	assert.NoError(t, taskflow.EnsureCompletable("service order", taskflow.StatusPending))
	assert.NoError(t, taskflow.EnsureCompletable("service order", taskflow.StatusInProgress))

	err := taskflow.EnsureCompletable("service order", taskflow.StatusCompleted)
	assert.Error(t, err)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))

	err = taskflow.EnsureCompletable("service order", taskflow.StatusCancelled)
	assert.Error(t, err)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
}

func TestEnsureCancellable(t *testing.T) {
	assert.NoError(t, taskflow.EnsureCancellable("maintenance request", taskflow.StatusPending))
	assert.NoError(t, taskflow.EnsureCancellable("maintenance request", taskflow.StatusInProgress))

	err := taskflow.EnsureCancellable("maintenance request", taskflow.StatusCompleted)
	assert.Error(t, err)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))

	err = taskflow.EnsureCancellable("maintenance request", taskflow.StatusCancelled)
	assert.Error(t, err)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
}
