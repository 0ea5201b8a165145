package test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/anabelic/gymtracker/internal/workouts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestWorkouts_LogAndList() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registerUser(ctx, t, "workouts@example.com", "Build strength")
	loginResp := doLogin(ctx, t, "workouts@example.com")

	addWorkout := func(body string) workouts.Workout {
		req := newAuthedRequest(ctx, t, "POST", "/workouts", loginResp.Token, []byte(body))
		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var added workouts.Workout
		require.NoError(t, json.Unmarshal(respBytes, &added))
		return added
	}

	first := addWorkout(`{"date":"2024-06-03","exercise":"Squat","sets":5,"reps":5,"intensity":"High"}`)
	assert.Equal(t, loginResp.UserID, first.UserID)
	assert.Equal(t, "Squat", first.Exercise)
	assert.Equal(t, "High", first.Intensity)

	second := addWorkout(`{"date":"2024-06-05","exercise":"Bench Press","sets":3,"reps":8}`)
	assert.Greater(t, second.ID, first.ID)

	s.Run("list newest first", func() {
		req := newAuthedRequest(ctx, t, "GET", "/workouts?page=1&size=10", loginResp.Token, nil)
		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var listResp workouts.ListWorkoutsResponse
		require.NoError(t, json.Unmarshal(respBytes, &listResp))
		assert.Equal(t, 2, listResp.Total)
		require.Len(t, listResp.Workouts, 2)
		assert.Equal(t, "Bench Press", listResp.Workouts[0].Exercise)
		assert.Equal(t, "Squat", listResp.Workouts[1].Exercise)
	})

	s.Run("get and delete", func() {
		req := newAuthedRequest(ctx, t, "GET", fmt.Sprintf("/workouts/%d", first.ID), loginResp.Token, nil)
		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		req = newAuthedRequest(ctx, t, "DELETE", fmt.Sprintf("/workouts/%d", second.ID), loginResp.Token, nil)
		delResp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer delResp.Body.Close()
		require.Equal(t, http.StatusOK, delResp.StatusCode)

		var count int
		require.NoError(t, s.DB.QueryRow(
			"SELECT COUNT(*) FROM workouts WHERE user_id = $1", loginResp.UserID,
		).Scan(&count))
		assert.Equal(t, 1, count)
	})

	s.Run("another user sees nothing", func() {
		registerUser(ctx, t, "workouts-other@example.com", "")
		otherLogin := doLogin(ctx, t, "workouts-other@example.com")

		req := newAuthedRequest(ctx, t, "GET", "/workouts", otherLogin.Token, nil)
		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var listResp workouts.ListWorkoutsResponse
		require.NoError(t, json.Unmarshal(respBytes, &listResp))
		assert.Equal(t, 0, listResp.Total)
		assert.Empty(t, listResp.Workouts)
	})

	s.Run("workout date stored as given", func() {
		var storedDate time.Time
		require.NoError(t, s.DB.QueryRow(
			"SELECT date FROM workouts WHERE id = $1", first.ID,
		).Scan(&storedDate))
		assert.Equal(t, "2024-06-03", storedDate.Format("2006-01-02"))
	})
}
