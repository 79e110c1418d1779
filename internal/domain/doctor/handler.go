package doctor

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/docease/docease/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the public directory endpoints. The directory is
// browsable without signing in.
func (h *Handler) RegisterRoutes(public *echo.Group) {
	public.GET("/doctors", h.ListDoctors)
	public.GET("/doctors/facets", h.GetFacets)
	public.GET("/doctors/:id", h.GetDoctor)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	pg := pagination.FromContext(c)
	filter := Filter{
		Query:           c.QueryParam("q"),
		Specializations: c.QueryParams()["specialization"],
		Cities:          c.QueryParams()["city"],
		Hospitals:       c.QueryParams()["hospital"],
	}

	items, total, err := h.svc.Directory(c.Request().Context(), filter, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	summaries := make([]*DoctorSummary, 0, len(items))
	for _, d := range items {
		summaries = append(summaries, d.Summary())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(summaries, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.Get(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) GetFacets(c echo.Context) error {
	facets, err := h.svc.Facets(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if facets.Specializations == nil {
		facets.Specializations = []string{}
	}
	if facets.Cities == nil {
		facets.Cities = []string{}
	}
	if facets.Hospitals == nil {
		facets.Hospitals = []string{}
	}
	return c.JSON(http.StatusOK, facets)
}
