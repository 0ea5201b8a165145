package workouts

import "time"

// Workout is one logged exercise entry. Date carries the day the workout
// happened, not the moment it was logged - CreatedAt holds that.
type Workout struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Date      time.Time `json:"date"`
	Exercise  string    `json:"exercise"`
	Sets      int       `json:"sets"`
	Reps      int       `json:"reps"`
	Intensity string    `json:"intensity,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
