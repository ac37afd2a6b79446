package memory

import (
	"context"
	"sync"

	"trainbooking/internal/domain/train"
	"trainbooking/internal/domain/user"
)

type UserRepository struct {
	mu    sync.Mutex
	users []user.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u.ID = int64(len(r.users) + 1)
	r.users = append(r.users, *u)
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]user.User{}, r.users...), nil
}

type TrainRepository struct {
	mu     sync.Mutex
	trains []train.Train
}

func NewTrainRepository() *TrainRepository {
	return &TrainRepository{}
}

func (r *TrainRepository) Create(ctx context.Context, t *train.Train) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t.ID = int64(len(r.trains) + 1)
	r.trains = append(r.trains, *t)
	return nil
}

func (r *TrainRepository) List(ctx context.Context) ([]train.Train, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]train.Train{}, r.trains...), nil
}
