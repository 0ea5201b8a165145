package progress

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the coach prompt for a weekly workout log. It is a
// pure function of its inputs: the same goal and entries always produce
// the exact same string, so prompts are reproducible and cacheable.
func BuildPrompt(goal string, entries []WorkoutEntry) string {
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		line := fmt.Sprintf(
			"Exercise: %s, Sets: %d, Reps: %d",
			entry.Exercise, entry.Sets, entry.Reps,
		)
		if entry.Intensity != "" {
			line += fmt.Sprintf(", Intensity: %s", entry.Intensity)
		}
		lines = append(lines, line)
	}

	return fmt.Sprintf(
		"Based on the following workout log, provide constructive feedback for the user:\n\n"+
			"Goals: %s\n\n"+
			"Weekly Workout Log:\n%s\n\n"+
			"Focus on encouragement, areas for improvement, and suggestions for next week.",
		goal, strings.Join(lines, "\n"),
	)
}
