package postgres

import (
	"context"
	"fmt"

	"trainbooking/internal/domain/train"
	"trainbooking/internal/domain/user"

	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	err := conn(ctx, r.pool).QueryRow(ctx, `INSERT INTO users (name) VALUES ($1) RETURNING id`, u.Name).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT id, name FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []user.User{}
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type TrainRepository struct {
	pool *pgxpool.Pool
}

func NewTrainRepository(pool *pgxpool.Pool) *TrainRepository {
	return &TrainRepository{pool: pool}
}

func (r *TrainRepository) Create(ctx context.Context, t *train.Train) error {
	err := conn(ctx, r.pool).QueryRow(ctx, `INSERT INTO trains (name) VALUES ($1) RETURNING id`, t.Name).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert train: %w", err)
	}
	return nil
}

func (r *TrainRepository) List(ctx context.Context) ([]train.Train, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT id, name FROM trains ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query trains: %w", err)
	}
	defer rows.Close()

	trains := []train.Train{}
	for rows.Next() {
		var t train.Train
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan train: %w", err)
		}
		trains = append(trains, t)
	}
	return trains, rows.Err()
}
