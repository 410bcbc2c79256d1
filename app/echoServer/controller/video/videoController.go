package video

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/sophieemessing/video-store-consumer-api/model"
	videosvc "github.com/sophieemessing/video-store-consumer-api/service/video"
)

type Controller struct {
	Svc videosvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// showResp mirrors the catalog detail payload: metadata plus derived
// availability, nothing internal.
type showResp struct {
	Title              string      `json:"title"`
	Overview           string      `json:"overview"`
	ReleaseDate        *model.Date `json:"release_date"`
	Inventory          int64       `json:"inventory"`
	AvailableInventory int64       `json:"available_inventory"`
}

type createResp struct {
	Title              string      `json:"title"`
	Overview           string      `json:"overview"`
	ReleaseDate        *model.Date `json:"release_date"`
	ImageURL           *string     `json:"image_url"`
	ExternalID         *int64      `json:"external_id"`
	Inventory          int64       `json:"inventory"`
	AvailableInventory int64       `json:"available_inventory"`
}

// GET /videos?query=
func (h *Controller) Index(c echo.Context) error {
	if q := c.QueryParam("query"); q != "" {
		results, err := h.Svc.Search(c.Request().Context(), q)
		if err != nil {
			h.Log.Error("video search", "query", q, "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "search failed"})
		}
		return c.JSON(http.StatusOK, results)
	}

	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("video list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if rows == nil {
		rows = []videosvc.Row{}
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /videos/:title
func (h *Controller) Show(c echo.Context) error {
	title := c.Param("title")
	row, err := h.Svc.ByTitle(c.Request().Context(), title)
	if err != nil {
		h.Log.Error("video show", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if row == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"errors": echo.Map{
			"title": []string{fmt.Sprintf("No video with title %s", title)},
		}})
	}
	return c.JSON(http.StatusOK, showResp{
		Title:              row.Title,
		Overview:           row.Overview,
		ReleaseDate:        row.ReleaseDate,
		Inventory:          row.Inventory,
		AvailableInventory: row.AvailableInventory,
	})
}

// POST /videos (staff)
func (h *Controller) Create(c echo.Context) error {
	var req model.CreateVideoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": echo.Map{
			"title": []string{"can't be blank"},
		}})
	}

	v, err := h.Svc.Create(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, videosvc.ErrDuplicateTitle) {
			return c.JSON(http.StatusConflict, echo.Map{"errors": echo.Map{
				"title": []string{"has already been taken"},
			}})
		}
		h.Log.Error("video create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	// A brand-new title has no rentals yet, so availability equals inventory.
	return c.JSON(http.StatusOK, createResp{
		Title:              v.Title,
		Overview:           v.Overview,
		ReleaseDate:        v.ReleaseDate,
		ImageURL:           v.ImageURL,
		ExternalID:         v.ExternalID,
		Inventory:          v.Inventory,
		AvailableInventory: v.Inventory,
	})
}
