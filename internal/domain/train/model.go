package train

import "context"

type Train struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Repository interface {
	Create(ctx context.Context, t *Train) error
	List(ctx context.Context) ([]Train, error)
}
