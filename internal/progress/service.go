package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anabelic/gymtracker/internal/telemetry/tracing"
	"github.com/anabelic/gymtracker/internal/users"
	"github.com/anabelic/gymtracker/internal/workouts"

	"go.opentelemetry.io/otel/attribute"
)

type usersRepo interface {
	Get(ctx context.Context, id int) (*users.User, error)
}

type workoutsRepo interface {
	ListInRange(ctx context.Context, userID int, from, to time.Time) ([]workouts.Workout, error)
	Count(ctx context.Context, userID int) (int, error)
}

type progressRepo interface {
	UpsertSnapshot(ctx context.Context, snapshot Snapshot) error
	GetSnapshot(ctx context.Context, userID int, weekStart string) (*Snapshot, error)
	UpsertFeedback(ctx context.Context, feedback Feedback) error
	GetFeedback(ctx context.Context, userID int, weekStart string) (*Feedback, error)
}

type feedbackGenerator interface {
	GenerateFeedback(ctx context.Context, prompt string) (string, error)
}

// WeekAggregate is the outcome of aggregating one user's current week.
type WeekAggregate struct {
	Window  WeekWindow
	Goal    string
	Entries []WorkoutEntry
}

type Service struct {
	usersRepo    usersRepo
	workoutsRepo workoutsRepo
	repo         progressRepo
	coach        feedbackGenerator
	// ability to inject the clock (for unit and dev testing)
	NowFunc func() time.Time
}

func NewService(
	usersRepo usersRepo,
	workoutsRepo workoutsRepo,
	repo progressRepo,
	coach feedbackGenerator,
) *Service {
	return &Service{
		usersRepo:    usersRepo,
		workoutsRepo: workoutsRepo,
		repo:         repo,
		coach:        coach,
		NowFunc:      time.Now,
	}
}

// AggregateWeek collects the user's workouts for the current week, oldest
// first, and stores them as the week's snapshot. Re-running it within the
// same week simply overwrites the snapshot with the fresh aggregation.
func (s *Service) AggregateWeek(ctx context.Context, userID int) (_ *WeekAggregate, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.aggregateWeek")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	user, err := s.usersRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, newError(KindNotFound, err)
		}
		return nil, newError(KindStore, fmt.Errorf("get user: %w", err))
	}

	window := CurrentWeek(s.NowFunc())
	span.SetAttributes(attribute.String("week.start", window.StartDate()))

	total, err := s.workoutsRepo.Count(ctx, userID)
	if err != nil {
		return nil, newError(KindStore, fmt.Errorf("count workouts: %w", err))
	}
	if total == 0 {
		return nil, newError(KindNoData, errors.New("no workouts logged"))
	}

	weekWorkouts, err := s.workoutsRepo.ListInRange(ctx, userID, window.Start, window.End)
	if err != nil {
		return nil, newError(KindStore, fmt.Errorf("list workouts in range: %w", err))
	}
	if len(weekWorkouts) == 0 {
		return nil, newError(KindNoData, errors.New("no workouts logged for this week"))
	}

	entries := make([]WorkoutEntry, 0, len(weekWorkouts))
	for _, workout := range weekWorkouts {
		entries = append(entries, WorkoutEntry{
			Date:      workout.Date.Format(dateLayout),
			Exercise:  workout.Exercise,
			Sets:      workout.Sets,
			Reps:      workout.Reps,
			Intensity: workout.Intensity,
		})
	}

	if err := s.repo.UpsertSnapshot(ctx, Snapshot{
		UserID:    userID,
		WeekStart: window.StartDate(),
		WeekEnd:   window.EndDate(),
		Workouts:  entries,
		CreatedAt: s.NowFunc(),
	}); err != nil {
		return nil, newError(KindStore, fmt.Errorf("upsert snapshot: %w", err))
	}

	return &WeekAggregate{
		Window:  window,
		Goal:    user.Goal,
		Entries: entries,
	}, nil
}

// TrackProgress runs the weekly pipeline: aggregate the week, build the
// coach prompt, generate feedback and store it. The pipeline halts on the
// first failure. A provider failure leaves the already stored snapshot in
// place, so a later retry only needs to redo the feedback half.
func (s *Service) TrackProgress(ctx context.Context, userID int) (_ *Feedback, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.trackProgress")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	aggregate, err := s.AggregateWeek(ctx, userID)
	if err != nil {
		return nil, err
	}

	prompt := BuildPrompt(aggregate.Goal, aggregate.Entries)

	feedbackText, err := s.coach.GenerateFeedback(ctx, prompt)
	if err != nil {
		return nil, newError(KindProvider, fmt.Errorf("generate feedback: %w", err))
	}

	feedback := Feedback{
		UserID:    userID,
		WeekStart: aggregate.Window.StartDate(),
		WeekEnd:   aggregate.Window.EndDate(),
		Feedback:  feedbackText,
		CreatedAt: s.NowFunc(),
	}
	if err := s.repo.UpsertFeedback(ctx, feedback); err != nil {
		return nil, newError(KindStore, fmt.Errorf("upsert feedback: %w", err))
	}

	return &feedback, nil
}

// WeeklyFeedback returns the stored feedback for the user's current week.
func (s *Service) WeeklyFeedback(ctx context.Context, userID int) (_ *Feedback, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.weeklyFeedback")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	window := CurrentWeek(s.NowFunc())
	feedback, err := s.repo.GetFeedback(ctx, userID, window.StartDate())
	if err != nil {
		if errors.Is(err, ErrFeedbackNotFound) {
			return nil, newError(KindNotFound, err)
		}
		return nil, newError(KindStore, fmt.Errorf("get feedback: %w", err))
	}
	return feedback, nil
}

// WeeklySnapshot returns the stored workout log for the user's current week.
func (s *Service) WeeklySnapshot(ctx context.Context, userID int) (_ *Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.weeklySnapshot")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	window := CurrentWeek(s.NowFunc())
	snapshot, err := s.repo.GetSnapshot(ctx, userID, window.StartDate())
	if err != nil {
		if errors.Is(err, ErrSnapshotNotFound) {
			return nil, newError(KindNotFound, err)
		}
		return nil, newError(KindStore, fmt.Errorf("get snapshot: %w", err))
	}
	return snapshot, nil
}
