// model/video.go
package model

import "time"

type Video struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Overview    string    `json:"overview"`
	ReleaseDate *Date     `json:"release_date,omitempty"`
	Inventory   int64     `json:"inventory"`
	ImageURL    *string   `json:"image_url,omitempty"`
	ExternalID  *int64    `json:"external_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// AvailableInventory is total owned copies minus outstanding rentals. It is
// always derived from the rentals table, never stored, and it is allowed to
// go negative: a negative value means the data was edited out-of-band and
// hiding that would be worse than showing it.
func (v Video) AvailableInventory(outstanding int64) int64 {
	return v.Inventory - outstanding
}

// CreateVideoReq carries a MovieDB search result the front end picked.
// swagger:model CreateVideoReq
type CreateVideoReq struct {
	Title       string `json:"title" validate:"required"`
	Overview    string `json:"overview"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
	ExternalID  int64  `json:"id"`
}
