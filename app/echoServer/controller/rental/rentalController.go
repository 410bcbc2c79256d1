package rental

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/sophieemessing/video-store-consumer-api/model"
	customersvc "github.com/sophieemessing/video-store-consumer-api/service/customer"
	rentalsvc "github.com/sophieemessing/video-store-consumer-api/service/rental"
	videosvc "github.com/sophieemessing/video-store-consumer-api/service/video"
)

type Controller struct {
	Svc       rentalsvc.Service
	Videos    videosvc.Service
	Customers customersvc.Service
	V         *validator.Validate
	Log       *slog.Logger
}

// POST /rentals/:title/check-out
func (h *Controller) CheckOut(c echo.Context) error {
	var req model.CheckOutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}

	video, customer, done := h.resolve(c, req.CustomerID)
	if done {
		return nil
	}

	_, err := h.Svc.CheckOut(c.Request().Context(), video, customer, req.DueDate)
	if err != nil {
		var verrs rentalsvc.FieldErrors
		switch {
		case errors.As(err, &verrs):
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": verrs})
		case rentalsvc.Code(err) == rentalsvc.ErrNoStock:
			return c.JSON(http.StatusConflict, echo.Map{"errors": echo.Map{
				"video": []string{fmt.Sprintf("No available copies of %s", video.Title)},
			}})
		default:
			h.Log.Error("check-out", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{})
}

// POST /rentals/:title/check-in
func (h *Controller) CheckIn(c echo.Context) error {
	var req model.CheckInReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}

	video, customer, done := h.resolve(c, req.CustomerID)
	if done {
		return nil
	}

	if err := h.Svc.CheckIn(c.Request().Context(), video, customer); err != nil {
		if rentalsvc.Code(err) == rentalsvc.ErrNotRented {
			return c.JSON(http.StatusNotFound, echo.Map{"errors": echo.Map{
				"rental": []string{fmt.Sprintf(
					"Customer %d does not have %s checked out", customer.ID, video.Title,
				)},
			}})
		}
		h.Log.Error("check-in", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{})
}

// GET /rentals/overdue
func (h *Controller) Overdue(c echo.Context) error {
	rows, err := h.Svc.Overdue(c.Request().Context())
	if err != nil {
		h.Log.Error("overdue", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if rows == nil {
		rows = []rentalsvc.OverdueRow{}
	}
	return c.JSON(http.StatusOK, rows)
}

// resolve turns the :title param and customer_id into records before the
// lifecycle runs. A miss on either is a resolution error keyed by the
// offending field; when done is true the response has already been written.
func (h *Controller) resolve(c echo.Context, customerID int64) (video *model.Video, customer *model.Customer, done bool) {
	title := c.Param("title")
	row, err := h.Videos.ByTitle(c.Request().Context(), title)
	if err != nil {
		h.Log.Error("resolve video", "err", err)
		_ = c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		return nil, nil, true
	}
	if row == nil {
		_ = c.JSON(http.StatusNotFound, echo.Map{"errors": echo.Map{
			"title": []string{fmt.Sprintf("No video with title %s", title)},
		}})
		return nil, nil, true
	}

	cust, err := h.Customers.ByID(c.Request().Context(), customerID)
	if err != nil {
		h.Log.Error("resolve customer", "err", err)
		_ = c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		return nil, nil, true
	}
	if cust == nil {
		_ = c.JSON(http.StatusNotFound, echo.Map{"errors": echo.Map{
			"customer_id": []string{fmt.Sprintf("No such customer %d", customerID)},
		}})
		return nil, nil, true
	}
	return &row.Video, cust, false
}
