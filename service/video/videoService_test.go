package videosvc_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/sophieemessing/video-store-consumer-api/model"
	"github.com/sophieemessing/video-store-consumer-api/repository/moviedb"
	videosvc "github.com/sophieemessing/video-store-consumer-api/service/video"
)

type repoMock struct {
	createFn  func(ctx context.Context, v *model.Video) error
	listFn    func(ctx context.Context) ([]videosvc.Row, error)
	byTitleFn func(ctx context.Context, title string) (*videosvc.Row, error)
}

func (m *repoMock) Create(ctx context.Context, v *model.Video) error { return m.createFn(ctx, v) }
func (m *repoMock) List(ctx context.Context) ([]videosvc.Row, error) { return m.listFn(ctx) }
func (m *repoMock) ByTitle(ctx context.Context, title string) (*videosvc.Row, error) {
	return m.byTitleFn(ctx, title)
}

type moviedbMock struct {
	searchFn func(ctx context.Context, query string) ([]moviedb.Movie, error)
}

func (m *moviedbMock) Search(ctx context.Context, query string) ([]moviedb.Movie, error) {
	return m.searchFn(ctx, query)
}

func TestCreate_DefaultsAndImageURL(t *testing.T) {
	var got *model.Video
	m := &repoMock{
		createFn: func(ctx context.Context, v *model.Video) error {
			v.ID = 11
			got = v
			return nil
		},
	}
	s := videosvc.New(m, &moviedbMock{})

	v, err := s.Create(context.Background(), model.CreateVideoReq{
		Title:       "Hidden Figures",
		Overview:    "Some text",
		ReleaseDate: "1960-06-16",
		PosterPath:  "/abc.jpg",
		ExternalID:  550,
	})
	require.NoError(t, err)
	require.Equal(t, got, v)
	require.Equal(t, int64(videosvc.DefaultInventory), v.Inventory)
	require.NotNil(t, v.ImageURL)
	require.Equal(t, "https://image.tmdb.org/t/p/w185/abc.jpg", *v.ImageURL)
	require.NotNil(t, v.ReleaseDate)
	require.Equal(t, "1960-06-16", v.ReleaseDate.String())
	require.NotNil(t, v.ExternalID)
	require.Equal(t, int64(550), *v.ExternalID)
}

func TestCreate_EmptyTitle(t *testing.T) {
	s := videosvc.New(&repoMock{}, &moviedbMock{})
	if _, err := s.Create(context.Background(), model.CreateVideoReq{Title: "  "}); err == nil {
		t.Fatal("expected error for blank title")
	}
}

func TestCreate_DuplicateTitle(t *testing.T) {
	m := &repoMock{
		createFn: func(ctx context.Context, v *model.Video) error {
			return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "videos_title_key"}
		},
	}
	s := videosvc.New(m, &moviedbMock{})

	_, err := s.Create(context.Background(), model.CreateVideoReq{Title: "Dune"})
	require.ErrorIs(t, err, videosvc.ErrDuplicateTitle)
}

func TestCreate_OtherDBErrorPassesThrough(t *testing.T) {
	dbErr := errors.New("db down")
	m := &repoMock{
		createFn: func(ctx context.Context, v *model.Video) error { return dbErr },
	}
	s := videosvc.New(m, &moviedbMock{})

	_, err := s.Create(context.Background(), model.CreateVideoReq{Title: "Dune"})
	require.ErrorIs(t, err, dbErr)
}

func TestSearch_MapsResultsAndPosterFallback(t *testing.T) {
	mv := &moviedbMock{
		searchFn: func(ctx context.Context, query string) ([]moviedb.Movie, error) {
			require.Equal(t, "dune", query)
			return []moviedb.Movie{
				{Title: "Dune", Overview: "Sand", ReleaseDate: "2021-09-15", PosterPath: "/d.jpg", ExternalID: 438631},
				{Title: "Dune (1984)", PosterPath: ""},
			}, nil
		},
	}
	s := videosvc.New(&repoMock{}, mv)

	out, err := s.Search(context.Background(), "dune")
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "https://image.tmdb.org/t/p/w185/d.jpg", out[0].ImageURL)
	require.Equal(t, int64(438631), out[0].ExternalID)
	require.Equal(t, moviedb.DefaultImgURL, out[1].ImageURL, "missing poster falls back to placeholder")
}

func TestPassThroughs(t *testing.T) {
	m := &repoMock{
		listFn:    func(ctx context.Context) ([]videosvc.Row, error) { return nil, nil },
		byTitleFn: func(ctx context.Context, title string) (*videosvc.Row, error) { return &videosvc.Row{}, nil },
	}
	s := videosvc.New(m, &moviedbMock{})

	if _, err := s.List(context.Background()); err != nil {
		t.Fatalf("List error: %v", err)
	}
	if _, err := s.ByTitle(context.Background(), "Dune"); err != nil {
		t.Fatalf("ByTitle error: %v", err)
	}
}
