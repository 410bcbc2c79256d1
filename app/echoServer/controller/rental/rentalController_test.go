package rental

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/sophieemessing/video-store-consumer-api/model"
	customersvc "github.com/sophieemessing/video-store-consumer-api/service/customer"
	rentalsvc "github.com/sophieemessing/video-store-consumer-api/service/rental"
	videosvc "github.com/sophieemessing/video-store-consumer-api/service/video"
)

// notRented mimics the lifecycle's coded state error.
type notRented struct{}

func (notRented) Error() string           { return string(rentalsvc.ErrNotRented) }
func (notRented) Code() rentalsvc.ErrCode { return rentalsvc.ErrNotRented }

type rentalSvcMock struct {
	checkOutFn func(ctx context.Context, v *model.Video, c *model.Customer, due string) (*model.Rental, error)
	checkInFn  func(ctx context.Context, v *model.Video, c *model.Customer) error
	overdueFn  func(ctx context.Context) ([]rentalsvc.OverdueRow, error)
}

func (m *rentalSvcMock) CheckOut(ctx context.Context, v *model.Video, c *model.Customer, due string) (*model.Rental, error) {
	return m.checkOutFn(ctx, v, c, due)
}
func (m *rentalSvcMock) CheckIn(ctx context.Context, v *model.Video, c *model.Customer) error {
	return m.checkInFn(ctx, v, c)
}
func (m *rentalSvcMock) Overdue(ctx context.Context) ([]rentalsvc.OverdueRow, error) {
	return m.overdueFn(ctx)
}
func (m *rentalSvcMock) AvailableInventory(ctx context.Context, v *model.Video) (int64, error) {
	return 0, nil
}

type videoSvcMock struct {
	byTitleFn func(ctx context.Context, title string) (*videosvc.Row, error)
}

func (m *videoSvcMock) Create(ctx context.Context, req model.CreateVideoReq) (*model.Video, error) {
	return nil, nil
}
func (m *videoSvcMock) List(ctx context.Context) ([]videosvc.Row, error) { return nil, nil }
func (m *videoSvcMock) ByTitle(ctx context.Context, title string) (*videosvc.Row, error) {
	return m.byTitleFn(ctx, title)
}
func (m *videoSvcMock) Search(ctx context.Context, query string) ([]videosvc.SearchResult, error) {
	return nil, nil
}

type customerSvcMock struct {
	byIDFn func(ctx context.Context, id int64) (*model.Customer, error)
}

func (m *customerSvcMock) List(ctx context.Context, sort string, limit, page int) ([]customersvc.Row, error) {
	return nil, nil
}
func (m *customerSvcMock) ByID(ctx context.Context, id int64) (*model.Customer, error) {
	return m.byIDFn(ctx, id)
}

func duneInCatalog(ctx context.Context, title string) (*videosvc.Row, error) {
	if title != "Dune" {
		return nil, nil
	}
	return &videosvc.Row{Video: model.Video{ID: 1, Title: "Dune", Inventory: 5}}, nil
}

func customer42Exists(ctx context.Context, id int64) (*model.Customer, error) {
	if id != 42 {
		return nil, nil
	}
	return &model.Customer{ID: 42, Name: "Paul"}, nil
}

func newController(rs rentalsvc.Service, vs videosvc.Service, cs customersvc.Service) *Controller {
	return &Controller{
		Svc:       rs,
		Videos:    vs,
		Customers: cs,
		V:         validator.New(),
		Log:       slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}
}

func doPost(t *testing.T, h echo.HandlerFunc, path, title, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)
	c.SetParamNames("title")
	c.SetParamValues(title)
	require.NoError(t, h(c))
	return rec
}

func TestCheckOut_Success(t *testing.T) {
	rs := &rentalSvcMock{
		checkOutFn: func(ctx context.Context, v *model.Video, c *model.Customer, due string) (*model.Rental, error) {
			require.Equal(t, int64(1), v.ID)
			require.Equal(t, int64(42), c.ID)
			require.Equal(t, "2020-07-13", due)
			return &model.Rental{ID: 1}, nil
		},
	}
	h := newController(rs, &videoSvcMock{byTitleFn: duneInCatalog}, &customerSvcMock{byIDFn: customer42Exists})

	rec := doPost(t, h.CheckOut, "/rentals/:title/check-out", "Dune",
		`{"customer_id": 42, "due_date": "2020-07-13"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{}`, rec.Body.String())
}

func TestCheckOut_UnknownTitle(t *testing.T) {
	h := newController(&rentalSvcMock{}, &videoSvcMock{byTitleFn: duneInCatalog}, &customerSvcMock{byIDFn: customer42Exists})

	rec := doPost(t, h.CheckOut, "/rentals/:title/check-out", "Ghostbusters",
		`{"customer_id": 42, "due_date": "2020-07-13"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t,
		`{"errors": {"title": ["No video with title Ghostbusters"]}}`,
		rec.Body.String())
}

func TestCheckOut_UnknownCustomer(t *testing.T) {
	h := newController(&rentalSvcMock{}, &videoSvcMock{byTitleFn: duneInCatalog}, &customerSvcMock{byIDFn: customer42Exists})

	rec := doPost(t, h.CheckOut, "/rentals/:title/check-out", "Dune",
		`{"customer_id": 13371337, "due_date": "2020-07-13"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t,
		`{"errors": {"customer_id": ["No such customer 13371337"]}}`,
		rec.Body.String())
}

func TestCheckOut_DueDateErrors(t *testing.T) {
	rs := &rentalSvcMock{
		checkOutFn: func(ctx context.Context, v *model.Video, c *model.Customer, due string) (*model.Rental, error) {
			return nil, rentalsvc.FieldErrors{"due_date": {"must be in the future"}}
		},
	}
	h := newController(rs, &videoSvcMock{byTitleFn: duneInCatalog}, &customerSvcMock{byIDFn: customer42Exists})

	rec := doPost(t, h.CheckOut, "/rentals/:title/check-out", "Dune",
		`{"customer_id": 42, "due_date": "2020-07-05"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.JSONEq(t,
		`{"errors": {"due_date": ["must be in the future"]}}`,
		rec.Body.String())
}

func TestCheckIn_Success(t *testing.T) {
	rs := &rentalSvcMock{
		checkInFn: func(ctx context.Context, v *model.Video, c *model.Customer) error { return nil },
	}
	h := newController(rs, &videoSvcMock{byTitleFn: duneInCatalog}, &customerSvcMock{byIDFn: customer42Exists})

	rec := doPost(t, h.CheckIn, "/rentals/:title/check-in", "Dune", `{"customer_id": 42}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{}`, rec.Body.String())
}

func TestCheckIn_NothingOutstanding(t *testing.T) {
	rs := &rentalSvcMock{
		checkInFn: func(ctx context.Context, v *model.Video, c *model.Customer) error {
			return notRented{}
		},
	}
	h := newController(rs, &videoSvcMock{byTitleFn: duneInCatalog}, &customerSvcMock{byIDFn: customer42Exists})

	rec := doPost(t, h.CheckIn, "/rentals/:title/check-in", "Dune", `{"customer_id": 42}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t,
		`{"errors": {"rental": ["Customer 42 does not have Dune checked out"]}}`,
		rec.Body.String())
}

func TestOverdue_EmptyIsAnArray(t *testing.T) {
	rs := &rentalSvcMock{
		overdueFn: func(ctx context.Context) ([]rentalsvc.OverdueRow, error) { return nil, nil },
	}
	h := newController(rs, &videoSvcMock{}, &customerSvcMock{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/rentals/overdue", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Overdue(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())
}

func TestOverdue_RendersRows(t *testing.T) {
	rs := &rentalSvcMock{
		overdueFn: func(ctx context.Context) ([]rentalsvc.OverdueRow, error) {
			return []rentalsvc.OverdueRow{{
				Title:        "Dune",
				CustomerID:   42,
				Name:         "Paul",
				PostalCode:   "98101",
				CheckoutDate: model.NewDate(2020, 7, 1),
				DueDate:      model.NewDate(2020, 7, 3),
			}}, nil
		},
	}
	h := newController(rs, &videoSvcMock{}, &customerSvcMock{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/rentals/overdue", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Overdue(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[{
		"title": "Dune",
		"customer_id": 42,
		"name": "Paul",
		"postal_code": "98101",
		"checkout_date": "2020-07-01",
		"due_date": "2020-07-03"
	}]`, rec.Body.String())
}
