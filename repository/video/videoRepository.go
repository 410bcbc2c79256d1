package videorepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sophieemessing/video-store-consumer-api/model"
)

// Row is a catalog entry plus its derived availability. The count comes from
// the rentals table on every query; availability is never stored.
type Row struct {
	model.Video
	AvailableInventory int64 `json:"available_inventory"`
}

type Repo interface {
	Create(ctx context.Context, v *model.Video) error
	List(ctx context.Context) ([]Row, error)
	ByTitle(ctx context.Context, title string) (*Row, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, v *model.Video) error {
	const q = `
		INSERT INTO videos (title, overview, release_date, inventory, image_url, external_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		v.Title, v.Overview, v.ReleaseDate, v.Inventory, v.ImageURL, v.ExternalID,
	).Scan(&v.ID, &v.CreatedAt)
}

func (r *repo) List(ctx context.Context) ([]Row, error) {
	const q = `
	SELECT v.id, v.title, v.overview, v.release_date, v.inventory, v.image_url, v.external_id, v.created_at,
		v.inventory - COALESCE(COUNT(r.*) FILTER (WHERE r.returned = FALSE), 0)::BIGINT AS available_inventory
	FROM videos v
	LEFT JOIN rentals r ON r.video_id = v.id
	GROUP BY v.id
	ORDER BY v.title ASC, v.id ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var v Row
		if err := rows.Scan(
			&v.ID, &v.Title, &v.Overview, &v.ReleaseDate, &v.Inventory,
			&v.ImageURL, &v.ExternalID, &v.CreatedAt, &v.AvailableInventory,
		); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ByTitle returns nil when no video carries the title; titles are unique.
func (r *repo) ByTitle(ctx context.Context, title string) (*Row, error) {
	const q = `
	SELECT v.id, v.title, v.overview, v.release_date, v.inventory, v.image_url, v.external_id, v.created_at,
		v.inventory - COALESCE(COUNT(r.*) FILTER (WHERE r.returned = FALSE), 0)::BIGINT AS available_inventory
	FROM videos v
	LEFT JOIN rentals r ON r.video_id = v.id
	WHERE v.title = $1
	GROUP BY v.id`
	var v Row
	err := r.db.QueryRowContext(ctx, q, title).Scan(
		&v.ID, &v.Title, &v.Overview, &v.ReleaseDate, &v.Inventory,
		&v.ImageURL, &v.ExternalID, &v.CreatedAt, &v.AvailableInventory,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}
