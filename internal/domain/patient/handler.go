package patient

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients", h.ListPatients)
	api.POST("/patients", h.CreatePatient)
	api.DELETE("/patients/:id", h.DeletePatient)
}

func (h *Handler) ListPatients(c echo.Context) error {
	items, err := h.svc.ListPatients(c.Request().Context())
	if err != nil {
		return httpError(err, "Failed to fetch patients")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusRequestEntityTooLarge {
			return he
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}
	p, err := h.svc.CreatePatient(c.Request().Context(), req)
	if err != nil {
		return httpError(err, "Failed to add patient")
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	id, err := ParseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid patient ID").SetInternal(err)
	}
	if err := h.svc.DeletePatient(c.Request().Context(), id); err != nil {
		return httpError(err, "Failed to delete patient")
	}
	return c.JSON(http.StatusOK, DeleteResponse{Success: true})
}

// httpError maps the error taxonomy onto HTTP statuses. Store failures are
// reported with serverMsg only; the cause is kept as the internal error for
// the request log.
func httpError(err error, serverMsg string) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, validationMessage(err)).SetInternal(err)
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Patient not found").SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, serverMsg).SetInternal(err)
	}
}

// validationMessage strips the sentinel prefix so clients see only the
// detail, e.g. "name, age, and condition are required".
func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), ErrValidation.Error()+": ")
}
