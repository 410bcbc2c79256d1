package customerrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/sophieemessing/video-store-consumer-api/model"
)

var pg = goqu.Dialect("postgres")

// Row is a roster entry plus how many videos the customer currently has out.
type Row struct {
	model.Customer
	VideosCheckedOutCount int64 `json:"videos_checked_out_count"`
}

// ListParams: Sort is a column name already whitelisted by the service; zero
// Limit means everything.
type ListParams struct {
	Sort  string
	Limit int
	Page  int
}

type Repo interface {
	List(ctx context.Context, p ListParams) ([]Row, error)
	ByID(ctx context.Context, id int64) (*model.Customer, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) List(ctx context.Context, p ListParams) ([]Row, error) {
	ds := pg.From(goqu.T("customers").As("c")).
		Select(
			goqu.I("c.id"), goqu.I("c.name"), goqu.I("c.registered_at"),
			goqu.I("c.address"), goqu.I("c.city"), goqu.I("c.state"),
			goqu.I("c.postal_code"), goqu.I("c.phone"), goqu.I("c.account_credit"),
			goqu.L("COALESCE(COUNT(r.*) FILTER (WHERE r.returned = FALSE), 0)::BIGINT").
				As("videos_checked_out_count"),
		).
		LeftJoin(
			goqu.T("rentals").As("r"),
			goqu.On(goqu.I("r.customer_id").Eq(goqu.I("c.id"))),
		).
		GroupBy(goqu.I("c.id"))

	if p.Sort != "" {
		ds = ds.Order(goqu.I("c."+p.Sort).Asc(), goqu.I("c.id").Asc())
	} else {
		ds = ds.Order(goqu.I("c.id").Asc())
	}
	if p.Limit > 0 {
		ds = ds.Limit(uint(p.Limit))
		if p.Page > 1 {
			ds = ds.Offset(uint((p.Page - 1) * p.Limit))
		}
	}

	q, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var c Row
		if err := rows.Scan(
			&c.ID, &c.Name, &c.RegisteredAt, &c.Address, &c.City, &c.State,
			&c.PostalCode, &c.Phone, &c.AccountCredit, &c.VideosCheckedOutCount,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ByID returns nil when the customer does not exist.
func (r *repo) ByID(ctx context.Context, id int64) (*model.Customer, error) {
	const q = `
		SELECT id, name, registered_at, address, city, state, postal_code, phone, account_credit
		FROM customers
		WHERE id = $1`
	var c model.Customer
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.Name, &c.RegisteredAt, &c.Address, &c.City, &c.State,
		&c.PostalCode, &c.Phone, &c.AccountCredit,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
