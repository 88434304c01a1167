// Package taskflow holds the status lifecycle shared by the operational work
// items (service orders, cleaning tasks, maintenance requests): a small
// pending -> in_progress -> completed machine with cancellation from any
// non-terminal state.
package taskflow

import (
	"fmt"
	"innkeeper/shared/failure"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// EnsureAssignable rejects assignment on terminal work items.
func EnsureAssignable(entity, status string) error {
	if IsTerminal(status) {
		return failure.Conflict(fmt.Sprintf("%s is already %s", entity, status)) //nolint:wrapcheck
	}

	return nil
}

// EnsureCompletable rejects double completion and completion after cancellation.
func EnsureCompletable(entity, status string) error {
	if IsTerminal(status) {
		return failure.Conflict(fmt.Sprintf("%s is already %s", entity, status)) //nolint:wrapcheck
	}

	return nil
}

// EnsureCancellable blocks cancellation once the work item completed.
func EnsureCancellable(entity, status string) error {
	if status == StatusCompleted {
		return failure.Conflict(fmt.Sprintf("%s is already completed", entity)) //nolint:wrapcheck
	}

	if status == StatusCancelled {
		return failure.Conflict(fmt.Sprintf("%s is already cancelled", entity)) //nolint:wrapcheck
	}

	return nil
}
