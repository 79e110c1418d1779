package booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/docease/docease/internal/platform/auth"
	"github.com/docease/docease/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the booking endpoints. Availability is public so the
// booking page can render before sign-in; placing, listing and cancelling
// appointments require a session.
func (h *Handler) RegisterRoutes(public, protected *echo.Group) {
	public.GET("/doctors/:id/availability", h.GetAvailability)
	protected.POST("/appointments", h.CreateAppointment)
	protected.GET("/appointments", h.ListAppointments)
	protected.DELETE("/appointments/:id", h.CancelAppointment)
}

type createAppointmentRequest struct {
	DoctorID string `json:"doctor_id"`
	Date     string `json:"date"`
	Time     string `json:"time"`
}

// errorBody carries the machine-readable error kind alongside the message so
// the client can branch on conflicts without string matching.
type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	var req createAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor_id")
	}
	if req.Date == "" || req.Time == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date and time are required")
	}

	ctx := c.Request().Context()
	accountID, err := uuid.Parse(auth.AccountIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
	}

	appt, err := h.svc.Book(ctx, BookRequest{
		AccountID: accountID,
		Email:     auth.EmailFromContext(ctx),
		DoctorID:  doctorID,
		Date:      req.Date,
		Time:      req.Time,
	})
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, appt)
	case errors.Is(err, ErrSlotTaken):
		return c.JSON(http.StatusConflict, errorBody{
			Kind:    "slot_taken",
			Message: "This slot is no longer available. Please select another time.",
		})
	case errors.Is(err, ErrUnknownSlot):
		return echo.NewHTTPError(http.StatusBadRequest, ErrUnknownSlot.Error())
	case errors.Is(err, ErrInvalidDate):
		return echo.NewHTTPError(http.StatusBadRequest, ErrInvalidDate.Error())
	case errors.Is(err, ErrDoctorNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrDoctorNotFound.Error())
	case errors.Is(err, ErrProfileNotFound):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, ErrProfileNotFound.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) GetAvailability(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	date := c.QueryParam("date")
	if date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date is required")
	}

	avail, err := h.svc.Availability(c.Request().Context(), doctorID, date)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, avail)
	case errors.Is(err, ErrInvalidDate):
		return echo.NewHTTPError(http.StatusBadRequest, ErrInvalidDate.Error())
	case errors.Is(err, ErrDoctorNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrDoctorNotFound.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) ListAppointments(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, err := uuid.Parse(auth.AccountIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
	}

	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListForPatient(ctx, accountID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*Appointment{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) CancelAppointment(c echo.Context) error {
	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	accountID, err := uuid.Parse(auth.AccountIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
	}

	err = h.svc.Cancel(ctx, accountID, appointmentID)
	switch {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	case errors.Is(err, ErrForbidden):
		// Hide other patients' appointments rather than confirming they exist
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
