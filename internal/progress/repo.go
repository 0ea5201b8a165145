package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/anabelic/gymtracker/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrSnapshotNotFound = errors.New("weekly snapshot not found")
	ErrFeedbackNotFound = errors.New("weekly feedback not found")
)

// WorkoutEntry is one line of the serialized weekly workout log. The date
// is kept as a plain YYYY-MM-DD string so that a stored snapshot
// round-trips byte for byte.
type WorkoutEntry struct {
	Date      string `json:"date"`
	Exercise  string `json:"exercise"`
	Sets      int    `json:"sets"`
	Reps      int    `json:"reps"`
	Intensity string `json:"intensity,omitempty"`
}

type Snapshot struct {
	UserID    int            `json:"userId"`
	WeekStart string         `json:"weekStart"`
	WeekEnd   string         `json:"weekEnd"`
	Workouts  []WorkoutEntry `json:"workouts"`
	CreatedAt time.Time      `json:"createdAt"`
}

type Feedback struct {
	UserID    int       `json:"userId"`
	WeekStart string    `json:"weekStart"`
	WeekEnd   string    `json:"weekEnd"`
	Feedback  string    `json:"feedback"`
	CreatedAt time.Time `json:"createdAt"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// UpsertSnapshot stores the weekly workout log, overwriting any snapshot
// already stored for the same user and week start.
func (r *Repo) UpsertSnapshot(ctx context.Context, snapshot Snapshot) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.upsertSnapshot")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", snapshot.UserID))
	span.SetAttributes(attribute.String("week.start", snapshot.WeekStart))

	workoutLogJson, err := json.Marshal(snapshot.Workouts)
	if err != nil {
		return fmt.Errorf("marshal workout log: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO weekly_snapshot
				(user_id, week_start, week_end, workout_log, created_at)
				VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id, week_start) DO UPDATE SET
				week_end = EXCLUDED.week_end,
				workout_log = EXCLUDED.workout_log,
				created_at = EXCLUDED.created_at;`,
		snapshot.UserID, snapshot.WeekStart, snapshot.WeekEnd,
		workoutLogJson, snapshot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

func (r *Repo) GetSnapshot(ctx context.Context, userID int, weekStart string) (_ *Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.getSnapshot")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))
	span.SetAttributes(attribute.String("week.start", weekStart))

	var (
		snapshot             Snapshot
		weekStartT, weekEndT time.Time
		workoutLogJson       []byte
	)
	err = r.db.
		QueryRow(
			ctx,
			`
			SELECT
				user_id, week_start, week_end, workout_log, created_at
			FROM weekly_snapshot
			WHERE user_id = $1 AND week_start = $2;`,
			userID, weekStart,
		).
		Scan(
			&snapshot.UserID, &weekStartT, &weekEndT,
			&workoutLogJson, &snapshot.CreatedAt,
		)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("query row: %w", err)
	}

	snapshot.WeekStart = weekStartT.Format(dateLayout)
	snapshot.WeekEnd = weekEndT.Format(dateLayout)
	if err := json.Unmarshal(workoutLogJson, &snapshot.Workouts); err != nil {
		return nil, fmt.Errorf("unmarshal workout log: %w", err)
	}
	return &snapshot, nil
}

// UpsertFeedback stores the generated weekly feedback, overwriting any
// feedback already stored for the same user and week start.
func (r *Repo) UpsertFeedback(ctx context.Context, feedback Feedback) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.upsertFeedback")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", feedback.UserID))
	span.SetAttributes(attribute.String("week.start", feedback.WeekStart))

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO weekly_feedback
				(user_id, week_start, week_end, feedback, created_at)
				VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id, week_start) DO UPDATE SET
				week_end = EXCLUDED.week_end,
				feedback = EXCLUDED.feedback,
				created_at = EXCLUDED.created_at;`,
		feedback.UserID, feedback.WeekStart, feedback.WeekEnd,
		feedback.Feedback, feedback.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

func (r *Repo) GetFeedback(ctx context.Context, userID int, weekStart string) (_ *Feedback, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.getFeedback")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))
	span.SetAttributes(attribute.String("week.start", weekStart))

	var (
		feedback             Feedback
		weekStartT, weekEndT time.Time
	)
	err = r.db.
		QueryRow(
			ctx,
			`
			SELECT
				user_id, week_start, week_end, feedback, created_at
			FROM weekly_feedback
			WHERE user_id = $1 AND week_start = $2;`,
			userID, weekStart,
		).
		Scan(
			&feedback.UserID, &weekStartT, &weekEndT,
			&feedback.Feedback, &feedback.CreatedAt,
		)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("query row: %w", err)
	}
	feedback.WeekStart = weekStartT.Format(dateLayout)
	feedback.WeekEnd = weekEndT.Format(dateLayout)
	return &feedback, nil
}
