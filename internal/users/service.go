package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/anabelic/gymtracker/internal/telemetry/tracing"
	"github.com/anabelic/gymtracker/pkg"

	"go.opentelemetry.io/otel/codes"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password too weak: min 8 characters, 1 uppercase, 1 lowercase, 1 special character, 1 number")
)

type usersRepo interface {
	Add(ctx context.Context, user User) (*User, error)
	Get(ctx context.Context, id int) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateGoal(ctx context.Context, id int, goal string) error
}

type Service struct {
	repo usersRepo
}

func NewService(repo usersRepo) *Service {
	return &Service{
		repo: repo,
	}
}

type RegisterParams struct {
	Name     string
	Email    string
	Password string
	Age      int
	HeightFt int
	HeightIn int
	Weight   float64
	Goal     string
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.register")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if params.Name == "" || params.Email == "" {
		return nil, errors.New("name or email empty")
	}
	if !pkg.ValidPassword(params.Password) {
		return nil, ErrWeakPassword
	}

	passwordHash, err := pkg.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Add(ctx, User{
		Name:         params.Name,
		Email:        params.Email,
		Age:          params.Age,
		HeightFt:     params.HeightFt,
		HeightIn:     params.HeightIn,
		Weight:       params.Weight,
		Goal:         params.Goal,
		PasswordHash: passwordHash,
	})
	if err != nil {
		return nil, fmt.Errorf("add user: %w", err)
	}

	return user, nil
}

// Authenticate checks the email and password against the stored hash.
// Unknown email and wrong password are deliberately indistinguishable.
func (s *Service) Authenticate(ctx context.Context, email, password string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.authenticate")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if !pkg.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *Service) Profile(ctx context.Context, userID int) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.profile")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	user, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *Service) UpdateGoal(ctx context.Context, userID int, goal string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.updateGoal")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if goal == "" {
		return errors.New("goal empty")
	}

	if err := s.repo.UpdateGoal(ctx, userID, goal); err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return nil
}
