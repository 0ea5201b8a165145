package users

import (
	"context"
	"time"
)

type repoMock struct {
	users  map[int]*User
	nextID int
}

func NewMockUsersRepo() *repoMock {
	return &repoMock{
		users:  make(map[int]*User),
		nextID: 1,
	}
}

func (r *repoMock) Add(_ context.Context, user User) (*User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, ErrEmailTaken
		}
	}
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	r.nextID++
	r.users[user.ID] = &user
	return &user, nil
}

func (r *repoMock) Get(_ context.Context, id int) (*User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (r *repoMock) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *repoMock) UpdateGoal(_ context.Context, id int, goal string) error {
	user, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	user.Goal = goal
	return nil
}
