package workouts

import (
	"context"
	"sort"
	"time"
)

type repoMock struct {
	workouts map[int]*Workout
	nextID   int
}

func NewMockWorkoutsRepo() *repoMock {
	return &repoMock{
		workouts: make(map[int]*Workout),
		nextID:   1,
	}
}

func (r *repoMock) Add(_ context.Context, workout Workout) (*Workout, error) {
	workout.ID = r.nextID
	r.nextID++
	r.workouts[workout.ID] = &workout
	return &workout, nil
}

func (r *repoMock) Get(_ context.Context, userID, id int) (*Workout, error) {
	workout, ok := r.workouts[id]
	if !ok || workout.UserID != userID {
		return nil, ErrWorkoutNotFound
	}
	return workout, nil
}

func (r *repoMock) ListInRange(_ context.Context, userID int, from, to time.Time) ([]Workout, error) {
	var workouts []Workout
	for _, w := range r.workouts {
		if w.UserID != userID {
			continue
		}
		if w.Date.Before(from) || w.Date.After(to) {
			continue
		}
		workouts = append(workouts, *w)
	}
	sort.Slice(workouts, func(i, j int) bool {
		if workouts[i].Date.Equal(workouts[j].Date) {
			return workouts[i].ID < workouts[j].ID
		}
		return workouts[i].Date.Before(workouts[j].Date)
	})
	return workouts, nil
}

func (r *repoMock) List(_ context.Context, params ListParams) ([]Workout, int, error) {
	var workouts []Workout
	for _, w := range r.workouts {
		if w.UserID == params.UserID {
			workouts = append(workouts, *w)
		}
	}
	sort.Slice(workouts, func(i, j int) bool {
		if workouts[i].Date.Equal(workouts[j].Date) {
			return workouts[i].ID > workouts[j].ID
		}
		return workouts[i].Date.After(workouts[j].Date)
	})

	total := len(workouts)
	offset := (params.Page - 1) * params.Size
	if offset >= total {
		return nil, total, nil
	}
	end := offset + params.Size
	if end > total {
		end = total
	}
	return workouts[offset:end], total, nil
}

func (r *repoMock) Count(_ context.Context, userID int) (int, error) {
	count := 0
	for _, w := range r.workouts {
		if w.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *repoMock) Delete(_ context.Context, userID, id int) error {
	workout, ok := r.workouts[id]
	if !ok || workout.UserID != userID {
		return ErrWorkoutNotFound
	}
	delete(r.workouts, id)
	return nil
}
