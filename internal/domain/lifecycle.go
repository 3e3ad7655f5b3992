package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rezkam/taskmarket/internal/ptr"
)

// transitions is the task state machine. A status missing from the map is terminal.
var transitions = map[TaskStatus][]TaskStatus{
	TaskStatusPending:    {TaskStatusAccepted, TaskStatusRejected, TaskStatusCancelled},
	TaskStatusAccepted:   {TaskStatusInProgress, TaskStatusCancelled},
	TaskStatusInProgress: {TaskStatusCompleted},
}

// HelperSettableStatuses are the targets a helper may request through a status update.
var HelperSettableStatuses = []TaskStatus{TaskStatusInProgress, TaskStatusCompleted}

// CanTransitionTo reports whether the state machine allows s -> next.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	return slices.Contains(transitions[s], next)
}

// IsTerminal reports whether no transition leaves s.
func (s TaskStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// transition is the single place a task's status changes. It appends exactly one history entry.
func (t *Task) transition(to TaskStatus, at time.Time, note *string) error {
	if !t.Status.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, t.Status, to)
	}
	t.Status = to
	t.UpdatedAt = at
	t.StatusHistory = append(t.StatusHistory, StatusChange{
		Status:    to,
		Timestamp: at,
		Note:      note,
	})
	return nil
}

// Accept assigns the task to helperID. Only a pending task can be accepted.
func (t *Task) Accept(helperID string, at time.Time) error {
	if t.Status != TaskStatusPending {
		return fmt.Errorf("%w: status is %s", ErrTaskNotPending, t.Status)
	}
	if err := t.transition(TaskStatusAccepted, at, nil); err != nil {
		return err
	}
	t.HelperID = ptr.To(helperID)
	return nil
}

// Reject marks a pending task rejected without assigning anyone.
func (t *Task) Reject(at time.Time) error {
	return t.transition(TaskStatusRejected, at, nil)
}

// Advance moves the task to in_progress or completed on behalf of its helper.
// Completing sets the final price to the estimate. A blank note is ignored.
func (t *Task) Advance(to TaskStatus, note string, at time.Time) error {
	if !slices.Contains(HelperSettableStatuses, to) {
		return fmt.Errorf("%w: got %q", ErrStatusNotSettable, to)
	}
	if err := t.transition(to, at, ptr.NonEmpty(strings.TrimSpace(note))); err != nil {
		return err
	}
	if to == TaskStatusCompleted {
		t.FinalPrice = ptr.To(t.EstimatedPrice)
	}
	return nil
}

// Cancel cancels a pending or accepted task and records why.
func (t *Task) Cancel(reason string, at time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultCancellationReason
	}
	if err := t.transition(TaskStatusCancelled, at, nil); err != nil {
		return err
	}
	t.CancellationReason = ptr.To(reason)
	return nil
}

// Rate stores the customer's review of a completed task. A task is rated at most once.
// Rating does not change status, so history is untouched.
func (t *Task) Rate(score Score, comment string, at time.Time) error {
	if t.Status != TaskStatusCompleted {
		return fmt.Errorf("%w: status is %s", ErrTaskNotCompleted, t.Status)
	}
	if t.CustomerRating != nil {
		return ErrAlreadyRated
	}
	t.CustomerRating = &Review{
		Rating:  score,
		Comment: ptr.NonEmpty(strings.TrimSpace(comment)),
	}
	t.UpdatedAt = at
	return nil
}
