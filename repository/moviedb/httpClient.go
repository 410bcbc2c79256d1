package moviedb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const (
	BaseURL = "https://api.themoviedb.org/3/"

	BaseImgURL     = "https://image.tmdb.org/t/p/"
	DefaultImgSize = "w185"
	DefaultImgURL  = "http://lorempixel.com/185/278/"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNoKey is returned when the service was started without a MOVIEDB_KEY.
var ErrNoKey = errors.New("moviedb: search requires a MOVIEDB_KEY")

type httpRepo struct {
	key     string
	baseURL string
	client  *http.Client
	sleep   func(time.Duration)
}

func NewHTTP(apiKey string, client *http.Client) Repo {
	return &httpRepo{key: apiKey, baseURL: BaseURL, client: client, sleep: time.Sleep}
}

// NewHTTPWithBase exists for tests that point the client at a local server.
func NewHTTPWithBase(apiKey, baseURL string, client *http.Client) Repo {
	return &httpRepo{key: apiKey, baseURL: baseURL, client: client, sleep: func(time.Duration) {}}
}

func (r *httpRepo) Search(ctx context.Context, query string) ([]Movie, error) {
	if r.key == "" {
		return nil, ErrNoKey
	}
	return r.search(ctx, query, 3)
}

func (r *httpRepo) search(ctx context.Context, query string, retriesLeft int) ([]Movie, error) {
	u := r.baseURL + "search/movie?api_key=" + url.QueryEscape(r.key) + "&query=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if retriesLeft > 0 {
			r.sleep(time.Second / (1 << retriesLeft))
			return r.search(ctx, query, retriesLeft-1)
		}
		return nil, fmt.Errorf("moviedb: request failed: %s", resp.Status)
	}

	var out struct {
		TotalResults int `json:"total_results"`
		Results      []struct {
			Title       string `json:"title"`
			Overview    string `json:"overview"`
			ReleaseDate string `json:"release_date"`
			PosterPath  string `json:"poster_path"`
			ID          int64  `json:"id"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.TotalResults == 0 {
		return []Movie{}, nil
	}

	movies := make([]Movie, 0, len(out.Results))
	for _, res := range out.Results {
		movies = append(movies, Movie{
			Title:       res.Title,
			Overview:    res.Overview,
			ReleaseDate: res.ReleaseDate,
			PosterPath:  res.PosterPath,
			ExternalID:  res.ID,
		})
	}
	return movies, nil
}

// ImageURL builds a poster URL from a raw poster path, falling back to the
// placeholder when the catalog has none.
func ImageURL(posterPath string) string {
	if posterPath == "" {
		return DefaultImgURL
	}
	return BaseImgURL + DefaultImgSize + posterPath
}
