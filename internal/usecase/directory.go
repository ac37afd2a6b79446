package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"trainbooking/internal/domain/train"
	"trainbooking/internal/domain/user"
)

var ErrEmptyName = errors.New("name is required")

// Directory manages the users and trains that tickets refer to.
type Directory struct {
	userRepo  user.Repository
	trainRepo train.Repository
}

func NewDirectory(userRepo user.Repository, trainRepo train.Repository) *Directory {
	return &Directory{
		userRepo:  userRepo,
		trainRepo: trainRepo,
	}
}

func (d *Directory) CreateUser(ctx context.Context, name string) (*user.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	u := &user.User{Name: name}
	if err := d.userRepo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (d *Directory) ListUsers(ctx context.Context) ([]user.User, error) {
	users, err := d.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []user.User{}
	}
	return users, nil
}

func (d *Directory) CreateTrain(ctx context.Context, name string) (*train.Train, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	t := &train.Train{Name: name}
	if err := d.trainRepo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create train: %w", err)
	}
	return t, nil
}

func (d *Directory) ListTrains(ctx context.Context) ([]train.Train, error) {
	trains, err := d.trainRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list trains: %w", err)
	}
	if trains == nil {
		trains = []train.Train{}
	}
	return trains, nil
}
