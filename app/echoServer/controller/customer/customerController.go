package customer

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	customersvc "github.com/sophieemessing/video-store-consumer-api/service/customer"
)

type Controller struct {
	Svc customersvc.Service
	Log *slog.Logger
}

// GET /customers?sort=&n=&p=
func (h *Controller) Index(c echo.Context) error {
	sort := c.QueryParam("sort")
	limit, _ := strconv.Atoi(c.QueryParam("n"))
	page, _ := strconv.Atoi(c.QueryParam("p"))

	rows, err := h.Svc.List(c.Request().Context(), sort, limit, page)
	if err != nil {
		if errors.Is(err, customersvc.ErrBadSort) {
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": echo.Map{
				"sort": []string{fmt.Sprintf("Invalid sort field %s", sort)},
			}})
		}
		h.Log.Error("customer list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if rows == nil {
		rows = []customersvc.Row{}
	}
	return c.JSON(http.StatusOK, rows)
}
