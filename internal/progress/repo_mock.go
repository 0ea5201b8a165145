package progress

import (
	"context"
	"fmt"
)

type repoMock struct {
	snapshots map[string]*Snapshot
	feedbacks map[string]*Feedback

	// injectable failures
	UpsertSnapshotErr error
	UpsertFeedbackErr error
}

func NewMockProgressRepo() *repoMock {
	return &repoMock{
		snapshots: make(map[string]*Snapshot),
		feedbacks: make(map[string]*Feedback),
	}
}

func weekKey(userID int, weekStart string) string {
	return fmt.Sprintf("%d|%s", userID, weekStart)
}

func (r *repoMock) UpsertSnapshot(_ context.Context, snapshot Snapshot) error {
	if r.UpsertSnapshotErr != nil {
		return r.UpsertSnapshotErr
	}
	r.snapshots[weekKey(snapshot.UserID, snapshot.WeekStart)] = &snapshot
	return nil
}

func (r *repoMock) GetSnapshot(_ context.Context, userID int, weekStart string) (*Snapshot, error) {
	snapshot, ok := r.snapshots[weekKey(userID, weekStart)]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return snapshot, nil
}

func (r *repoMock) UpsertFeedback(_ context.Context, feedback Feedback) error {
	if r.UpsertFeedbackErr != nil {
		return r.UpsertFeedbackErr
	}
	r.feedbacks[weekKey(feedback.UserID, feedback.WeekStart)] = &feedback
	return nil
}

func (r *repoMock) GetFeedback(_ context.Context, userID int, weekStart string) (*Feedback, error) {
	feedback, ok := r.feedbacks[weekKey(userID, weekStart)]
	if !ok {
		return nil, ErrFeedbackNotFound
	}
	return feedback, nil
}

type coachMock struct {
	Response string
	Err      error

	Calls      int
	LastPrompt string
}

func (c *coachMock) GenerateFeedback(_ context.Context, prompt string) (string, error) {
	c.Calls++
	c.LastPrompt = prompt
	if c.Err != nil {
		return "", c.Err
	}
	return c.Response, nil
}
