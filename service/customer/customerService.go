package customersvc

import (
	"context"
	"errors"

	"github.com/sophieemessing/video-store-consumer-api/model"
	customerrepo "github.com/sophieemessing/video-store-consumer-api/repository/customer"
)

var ErrBadSort = errors.New("invalid sort field")

type Row = customerrepo.Row

// sortable whitelists the columns the front end may order by; anything else
// is a 400, not a SQL injection vector.
var sortable = map[string]bool{
	"name":          true,
	"registered_at": true,
	"postal_code":   true,
}

type Repo interface {
	List(ctx context.Context, p customerrepo.ListParams) ([]Row, error)
	ByID(ctx context.Context, id int64) (*model.Customer, error)
}

type Service interface {
	List(ctx context.Context, sort string, limit, page int) ([]Row, error)
	ByID(ctx context.Context, id int64) (*model.Customer, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) List(ctx context.Context, sort string, limit, page int) ([]Row, error) {
	if sort != "" && !sortable[sort] {
		return nil, ErrBadSort
	}
	return s.r.List(ctx, customerrepo.ListParams{Sort: sort, Limit: limit, Page: page})
}

func (s *service) ByID(ctx context.Context, id int64) (*model.Customer, error) {
	return s.r.ByID(ctx, id)
}
