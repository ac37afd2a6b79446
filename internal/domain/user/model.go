package user

import "context"

type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Repository interface {
	Create(ctx context.Context, u *User) error
	List(ctx context.Context) ([]User, error)
}
