package moviedb

import "context"

// Movie is one MovieDB search result, before it becomes a catalog row.
type Movie struct {
	Title       string `json:"title"`
	Overview    string `json:"overview"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
	ExternalID  int64  `json:"external_id"`
}

type Repo interface {
	Search(ctx context.Context, query string) ([]Movie, error)
}
