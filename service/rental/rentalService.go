package rentalsvc

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"

	rrepo "github.com/sophieemessing/video-store-consumer-api/repository/rental"
	"github.com/sophieemessing/video-store-consumer-api/util/clock"

	"github.com/sophieemessing/video-store-consumer-api/model"
)

// errors used by controllers

type ErrCode string

const (
	// ErrNotRented: the pair has no outstanding rental — right ids, wrong state.
	ErrNotRented ErrCode = "NOT_RENTED"
	// ErrNoStock: checkout refused because availability hit zero and the
	// overbooking policy is off.
	ErrNoStock ErrCode = "NO_STOCK"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// FieldErrors collects every validation complaint keyed by request field, so
// the caller hears about all of them at once instead of one per round trip.
type FieldErrors map[string][]string

func (e FieldErrors) Add(field, msg string) { e[field] = append(e[field], msg) }

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// OverdueRow = repository shape
type OverdueRow = rrepo.OverdueRow

type Repo interface {
	Insert(ctx context.Context, videoID, customerID int64, checkoutDate, dueDate model.Date) (int64, error)
	InsertIfAvailable(ctx context.Context, videoID, customerID int64, checkoutDate, dueDate model.Date) (int64, error)
	ResolveOutstanding(ctx context.Context, videoID, customerID int64) (int64, error)
	CountOutstanding(ctx context.Context, videoID int64) (int64, error)
	ListOverdue(ctx context.Context, today model.Date) ([]OverdueRow, error)
}

type Service interface {
	// CheckOut creates an outstanding rental dated today. The video and
	// customer are already resolved by the caller; only due_date is validated
	// here, and every problem with it comes back in one FieldErrors.
	CheckOut(ctx context.Context, video *model.Video, customer *model.Customer, dueDate string) (*model.Rental, error)

	// CheckIn resolves the soonest-due outstanding rental for the pair.
	// ErrNotRented when nothing is outstanding.
	CheckIn(ctx context.Context, video *model.Video, customer *model.Customer) error

	// Overdue lists unreturned rentals past due as of today, soonest first.
	Overdue(ctx context.Context) ([]OverdueRow, error)

	// AvailableInventory derives how many copies can go out right now.
	AvailableInventory(ctx context.Context, video *model.Video) (int64, error)
}

// ----- Service implementation -----

type service struct {
	r                Repo
	clk              clock.Clock
	allowOverbooking bool
}

func New(r Repo, clk clock.Clock, allowOverbooking bool) Service {
	return &service{r: r, clk: clk, allowOverbooking: allowOverbooking}
}

func (s *service) CheckOut(ctx context.Context, video *model.Video, customer *model.Customer, dueDate string) (*model.Rental, error) {
	today := model.DateOf(s.clk.Now())

	verrs := FieldErrors{}
	var due model.Date
	if strings.TrimSpace(dueDate) == "" {
		verrs.Add("due_date", "can't be blank")
	} else if parsed, err := model.ParseDate(dueDate); err != nil {
		verrs.Add("due_date", "is not a valid date")
	} else {
		due = parsed
		if !due.After(today) {
			verrs.Add("due_date", "must be in the future")
		}
	}
	if len(verrs) > 0 {
		return nil, verrs
	}

	insert := s.r.Insert
	if !s.allowOverbooking {
		insert = s.r.InsertIfAvailable
	}
	id, err := insert(ctx, video.ID, customer.ID, today, due)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNoStock)
		}
		return nil, err
	}

	return &model.Rental{
		ID:           id,
		VideoID:      video.ID,
		CustomerID:   customer.ID,
		CheckoutDate: today,
		DueDate:      due,
	}, nil
}

func (s *service) CheckIn(ctx context.Context, video *model.Video, customer *model.Customer) error {
	_, err := s.r.ResolveOutstanding(ctx, video.ID, customer.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return makeErr(ErrNotRented)
	}
	return err
}

func (s *service) Overdue(ctx context.Context) ([]OverdueRow, error) {
	return s.r.ListOverdue(ctx, model.DateOf(s.clk.Now()))
}

func (s *service) AvailableInventory(ctx context.Context, video *model.Video) (int64, error) {
	out, err := s.r.CountOutstanding(ctx, video.ID)
	if err != nil {
		return 0, err
	}
	return video.AvailableInventory(out), nil
}
