package test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/anabelic/gymtracker/internal/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestProgress_TrackWholePipeline() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registerUser(ctx, t, "progress@example.com", "Build strength")
	loginResp := doLogin(ctx, t, "progress@example.com")

	// log a workout for today, so it lands in the current week window
	today := time.Now().Format("2006-01-02")
	addBody := fmt.Sprintf(`{"date":"%s","exercise":"Squat","sets":5,"reps":5,"intensity":"High"}`, today)
	req := newAuthedRequest(ctx, t, "POST", "/workouts", loginResp.Token, []byte(addBody))
	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	req = newAuthedRequest(ctx, t, "POST", "/progress/track", loginResp.Token, nil)
	trackResp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer trackResp.Body.Close()
	require.Equal(t, http.StatusOK, trackResp.StatusCode)

	respBytes, err := io.ReadAll(trackResp.Body)
	require.NoError(t, err)

	var feedback progress.Feedback
	require.NoError(t, json.Unmarshal(respBytes, &feedback))
	assert.Equal(t, loginResp.UserID, feedback.UserID)
	assert.Equal(t, testCoachFeedback, feedback.Feedback)

	window := progress.CurrentWeek(time.Now())
	assert.Equal(t, window.StartDate(), feedback.WeekStart)
	assert.Equal(t, window.EndDate(), feedback.WeekEnd)

	s.Run("snapshot persisted and round-trips", func() {
		var workoutLog []byte
		require.NoError(t, s.DB.QueryRow(
			"SELECT workout_log FROM weekly_snapshot WHERE user_id = $1 AND week_start = $2",
			loginResp.UserID, window.StartDate(),
		).Scan(&workoutLog))

		var entries []progress.WorkoutEntry
		require.NoError(t, json.Unmarshal(workoutLog, &entries))
		require.Len(t, entries, 1)
		assert.Equal(t, progress.WorkoutEntry{
			Date: today, Exercise: "Squat", Sets: 5, Reps: 5, Intensity: "High",
		}, entries[0])
	})

	s.Run("feedback persisted and served", func() {
		req := newAuthedRequest(ctx, t, "GET", "/progress/feedback", loginResp.Token, nil)
		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var storedFeedback progress.Feedback
		require.NoError(t, json.Unmarshal(respBytes, &storedFeedback))
		assert.Equal(t, testCoachFeedback, storedFeedback.Feedback)
	})

	s.Run("rerun overwrites instead of duplicating", func() {
		req := newAuthedRequest(ctx, t, "POST", "/progress/track", loginResp.Token, nil)
		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var snapshotCount, feedbackCount int
		require.NoError(t, s.DB.QueryRow(
			"SELECT COUNT(*) FROM weekly_snapshot WHERE user_id = $1", loginResp.UserID,
		).Scan(&snapshotCount))
		require.NoError(t, s.DB.QueryRow(
			"SELECT COUNT(*) FROM weekly_feedback WHERE user_id = $1", loginResp.UserID,
		).Scan(&feedbackCount))
		assert.Equal(t, 1, snapshotCount)
		assert.Equal(t, 1, feedbackCount)
	})
}

func (s *IntegrationTestSuite) TestProgress_NoWorkouts() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registerUser(ctx, t, "progress-empty@example.com", "Build strength")
	loginResp := doLogin(ctx, t, "progress-empty@example.com")

	req := newAuthedRequest(ctx, t, "POST", "/progress/track", loginResp.Token, nil)
	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// nothing tracked, nothing stored
	var snapshotCount int
	require.NoError(t, s.DB.QueryRow(
		"SELECT COUNT(*) FROM weekly_snapshot WHERE user_id = $1", loginResp.UserID,
	).Scan(&snapshotCount))
	assert.Equal(t, 0, snapshotCount)

	s.Run("no feedback to fetch either", func() {
		req := newAuthedRequest(ctx, t, "GET", "/progress/feedback", loginResp.Token, nil)
		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
