// repository/rental/rentalRepository.go
package rentalrepo

import (
	"context"
	"database/sql"

	"github.com/sophieemessing/video-store-consumer-api/model"
)

// OverdueRow joins a late rental with the identity the front desk needs to
// chase it.
type OverdueRow struct {
	Title        string     `json:"title"`
	CustomerID   int64      `json:"customer_id"`
	Name         string     `json:"name"`
	PostalCode   string     `json:"postal_code"`
	CheckoutDate model.Date `json:"checkout_date"`
	DueDate      model.Date `json:"due_date"`
}

type Repo interface {
	// Insert creates an outstanding rental unconditionally.
	Insert(ctx context.Context, videoID, customerID int64, checkoutDate, dueDate model.Date) (int64, error)

	// InsertIfAvailable creates an outstanding rental only while derived
	// availability is positive; sql.ErrNoRows signals no copies left.
	InsertIfAvailable(ctx context.Context, videoID, customerID int64, checkoutDate, dueDate model.Date) (int64, error)

	// ResolveOutstanding flips returned on exactly one outstanding rental for
	// the (video, customer) pair: the one due soonest, lowest id on a tie.
	// sql.ErrNoRows signals the pair has nothing checked out.
	ResolveOutstanding(ctx context.Context, videoID, customerID int64) (int64, error)

	// CountOutstanding counts unreturned rentals of a video.
	CountOutstanding(ctx context.Context, videoID int64) (int64, error)

	// ListOverdue returns unreturned rentals strictly past due as of the given
	// day, ordered by due date then id.
	ListOverdue(ctx context.Context, today model.Date) ([]OverdueRow, error)
}

type repo struct {
	db *sql.DB
}

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Insert(ctx context.Context, videoID, customerID int64, checkoutDate, dueDate model.Date) (int64, error) {
	const q = `
		INSERT INTO rentals (video_id, customer_id, checkout_date, due_date, returned)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, q, videoID, customerID, checkoutDate, dueDate).Scan(&id)
	return id, err
}

func (r *repo) InsertIfAvailable(ctx context.Context, videoID, customerID int64, checkoutDate, dueDate model.Date) (int64, error) {
	// Single statement so the availability read and the insert cannot be split
	// by a concurrent checkout.
	const q = `
		INSERT INTO rentals (video_id, customer_id, checkout_date, due_date, returned)
		SELECT $1, $2, $3, $4, FALSE
		WHERE (SELECT v.inventory FROM videos v WHERE v.id = $1)
		      - (SELECT COUNT(*) FROM rentals o WHERE o.video_id = $1 AND o.returned = FALSE) > 0
		RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, q, videoID, customerID, checkoutDate, dueDate).Scan(&id)
	return id, err
}

func (r *repo) ResolveOutstanding(ctx context.Context, videoID, customerID int64) (resolvedID int64, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Lock the soonest-due outstanding rental so a concurrent check-in of the
	// same row waits here and then finds nothing to resolve.
	const pick = `
		SELECT id
		FROM rentals
		WHERE video_id = $1
		  AND customer_id = $2
		  AND returned = FALSE
		ORDER BY due_date ASC, id ASC
		LIMIT 1
		FOR UPDATE`
	if err = tx.QueryRowContext(ctx, pick, videoID, customerID).Scan(&resolvedID); err != nil {
		return 0, err
	}

	const mark = `
		UPDATE rentals
		SET returned = TRUE,
		    updated_at = NOW()
		WHERE id = $1
		  AND returned = FALSE`
	res, err := tx.ExecContext(ctx, mark, resolvedID)
	if err != nil {
		return 0, err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		err = sql.ErrNoRows
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return resolvedID, nil
}

func (r *repo) CountOutstanding(ctx context.Context, videoID int64) (int64, error) {
	const q = `
		SELECT COUNT(*)
		FROM rentals
		WHERE video_id = $1
		  AND returned = FALSE`
	var n int64
	err := r.db.QueryRowContext(ctx, q, videoID).Scan(&n)
	return n, err
}

func (r *repo) ListOverdue(ctx context.Context, today model.Date) ([]OverdueRow, error) {
	const q = `
		SELECT v.title, r.customer_id, c.name, c.postal_code, r.checkout_date, r.due_date
		FROM rentals r
		JOIN videos v ON v.id = r.video_id
		JOIN customers c ON c.id = r.customer_id
		WHERE r.returned = FALSE
		  AND r.due_date < $1
		ORDER BY r.due_date ASC, r.id ASC`
	rows, err := r.db.QueryContext(ctx, q, today)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OverdueRow
	for rows.Next() {
		var o OverdueRow
		if err := rows.Scan(
			&o.Title, &o.CustomerID, &o.Name,
			&o.PostalCode, &o.CheckoutDate, &o.DueDate,
		); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
