package videosvc

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sophieemessing/video-store-consumer-api/model"
	"github.com/sophieemessing/video-store-consumer-api/repository/moviedb"
	videorepo "github.com/sophieemessing/video-store-consumer-api/repository/video"
)

// Every new title starts with this many copies; inventory is adjusted by
// catalog administration afterwards.
const DefaultInventory = 5

var ErrDuplicateTitle = errors.New("title already in catalog")

type Row = videorepo.Row

// SearchResult is a MovieDB hit shaped like a catalog row for the front end.
type SearchResult struct {
	Title       string `json:"title"`
	Overview    string `json:"overview"`
	ReleaseDate string `json:"release_date"`
	ImageURL    string `json:"image_url"`
	ExternalID  int64  `json:"external_id"`
}

type Repo interface {
	Create(ctx context.Context, v *model.Video) error
	List(ctx context.Context) ([]Row, error)
	ByTitle(ctx context.Context, title string) (*Row, error)
}

type Service interface {
	Create(ctx context.Context, req model.CreateVideoReq) (*model.Video, error)
	List(ctx context.Context) ([]Row, error)
	ByTitle(ctx context.Context, title string) (*Row, error)
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

type service struct {
	r  Repo
	mv moviedb.Repo
}

func New(r Repo, mv moviedb.Repo) Service { return &service{r: r, mv: mv} }

func (s *service) Create(ctx context.Context, req model.CreateVideoReq) (*model.Video, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, errors.New("invalid payload")
	}

	v := &model.Video{
		Title:     req.Title,
		Overview:  req.Overview,
		Inventory: DefaultInventory,
	}
	if req.ReleaseDate != "" {
		if d, err := model.ParseDate(req.ReleaseDate); err == nil {
			v.ReleaseDate = &d
		}
	}
	if req.PosterPath != "" {
		u := moviedb.ImageURL(req.PosterPath)
		v.ImageURL = &u
	}
	if req.ExternalID != 0 {
		id := req.ExternalID
		v.ExternalID = &id
	}

	if err := s.r.Create(ctx, v); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateTitle
		}
		return nil, err
	}
	return v, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (s *service) List(ctx context.Context) ([]Row, error) { return s.r.List(ctx) }

func (s *service) ByTitle(ctx context.Context, title string) (*Row, error) {
	return s.r.ByTitle(ctx, title)
}

func (s *service) Search(ctx context.Context, query string) ([]SearchResult, error) {
	movies, err := s.mv.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]SearchResult, 0, len(movies))
	for _, m := range movies {
		out = append(out, SearchResult{
			Title:       m.Title,
			Overview:    m.Overview,
			ReleaseDate: m.ReleaseDate,
			ImageURL:    moviedb.ImageURL(m.PosterPath),
			ExternalID:  m.ExternalID,
		})
	}
	return out, nil
}
