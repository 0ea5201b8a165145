package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	entries := []WorkoutEntry{
		{Date: "2024-06-03", Exercise: "Squat", Sets: 5, Reps: 5},
		{Date: "2024-06-05", Exercise: "Bench Press", Sets: 3, Reps: 8},
	}

	expected := "Based on the following workout log, provide constructive feedback for the user:\n\n" +
		"Goals: Build strength\n\n" +
		"Weekly Workout Log:\n" +
		"Exercise: Squat, Sets: 5, Reps: 5\n" +
		"Exercise: Bench Press, Sets: 3, Reps: 8\n\n" +
		"Focus on encouragement, areas for improvement, and suggestions for next week."

	assert.Equal(t, expected, BuildPrompt("Build strength", entries))
}

func TestBuildPrompt_Intensity(t *testing.T) {
	entries := []WorkoutEntry{
		{Date: "2024-06-03", Exercise: "Squat", Sets: 5, Reps: 5, Intensity: "High"},
		{Date: "2024-06-04", Exercise: "Plank", Sets: 3, Reps: 1},
	}

	prompt := BuildPrompt("Stay consistent", entries)
	assert.Contains(t, prompt, "Exercise: Squat, Sets: 5, Reps: 5, Intensity: High\n")
	assert.Contains(t, prompt, "Exercise: Plank, Sets: 3, Reps: 1\n")
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	entries := []WorkoutEntry{
		{Date: "2024-06-03", Exercise: "Squat", Sets: 5, Reps: 5, Intensity: "Medium"},
		{Date: "2024-06-06", Exercise: "Deadlift", Sets: 3, Reps: 3},
	}

	first := BuildPrompt("Build strength", entries)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, BuildPrompt("Build strength", entries))
	}
}
