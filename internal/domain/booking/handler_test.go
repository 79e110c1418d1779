package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/docease/docease/internal/platform/auth"
)

func newHandlerFixture(t *testing.T) (*Handler, *testFixture, *echo.Echo) {
	t.Helper()
	f := newFixture(t)
	return NewHandler(f.svc), f, echo.New()
}

func sessionContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, accountID uuid.UUID) echo.Context {
	c := e.NewContext(req, rec)
	ctx := req.Context()
	ctx = context.WithValue(ctx, auth.AccountIDKey, accountID.String())
	ctx = context.WithValue(ctx, auth.EmailKey, "jane@example.com")
	c.SetRequest(req.WithContext(ctx))
	return c
}

func TestHandler_CreateAppointment(t *testing.T) {
	h, f, e := newHandlerFixture(t)

	body := `{"doctor_id":"` + f.doctorID.String() + `","date":"2026-09-10","time":"9:00 AM"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := sessionContext(e, req, rec, f.patient)

	if err := h.CreateAppointment(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var appt Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &appt); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if appt.PatientName != "jane" {
		t.Errorf("expected profile fields copied, got name %q", appt.PatientName)
	}
	if appt.Status != StatusBooked {
		t.Errorf("expected status Booked, got %s", appt.Status)
	}
}

func TestHandler_CreateAppointment_Conflict(t *testing.T) {
	h, f, e := newHandlerFixture(t)

	body := `{"doctor_id":"` + f.doctorID.String() + `","date":"2026-09-10","time":"9:00 AM"}`
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := sessionContext(e, req, rec, f.patient)

		if err := h.CreateAppointment(c); err != nil {
			t.Fatalf("attempt %d: unexpected error: %v", i+1, err)
		}

		if i == 1 {
			if rec.Code != http.StatusConflict {
				t.Fatalf("expected 409, got %d", rec.Code)
			}
			var eb errorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &eb); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if eb.Kind != "slot_taken" {
				t.Errorf("expected kind slot_taken, got %q", eb.Kind)
			}
			if eb.Message != "This slot is no longer available. Please select another time." {
				t.Errorf("unexpected message: %q", eb.Message)
			}
		}
	}
}

func TestHandler_CreateAppointment_UnknownSlot(t *testing.T) {
	h, f, e := newHandlerFixture(t)

	body := `{"doctor_id":"` + f.doctorID.String() + `","date":"2026-09-10","time":"11:11 PM"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := sessionContext(e, req, rec, f.patient)

	err := h.CreateAppointment(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_CreateAppointment_MissingProfile(t *testing.T) {
	h, f, e := newHandlerFixture(t)

	body := `{"doctor_id":"` + f.doctorID.String() + `","date":"2026-09-10","time":"9:00 AM"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := sessionContext(e, req, rec, uuid.New())

	err := h.CreateAppointment(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %v", err)
	}
}

func TestHandler_CreateAppointment_MissingFields(t *testing.T) {
	h, f, e := newHandlerFixture(t)

	bodies := []string{
		`{"date":"2026-09-10","time":"9:00 AM"}`,
		`{"doctor_id":"` + f.doctorID.String() + `","time":"9:00 AM"}`,
		`{"doctor_id":"` + f.doctorID.String() + `","date":"2026-09-10"}`,
	}
	for _, body := range bodies {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := sessionContext(e, req, rec, f.patient)

		err := h.CreateAppointment(c)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %v", body, err)
		}
	}
}

func TestHandler_GetAvailability(t *testing.T) {
	h, f, e := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/?date=2026-09-10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(f.doctorID.String())

	if err := h.GetAvailability(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var avail Availability
	if err := json.Unmarshal(rec.Body.Bytes(), &avail); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if avail.Date != "2026-09-10" {
		t.Errorf("unexpected date: %s", avail.Date)
	}
	if len(avail.Morning) != 2 {
		t.Errorf("expected 2 morning slots, got %d", len(avail.Morning))
	}
}

func TestHandler_GetAvailability_RequiresDate(t *testing.T) {
	h, f, e := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(f.doctorID.String())

	err := h.GetAvailability(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_GetAvailability_UnknownDoctor(t *testing.T) {
	h, _, e := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/?date=2026-09-10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.GetAvailability(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_ListAppointments(t *testing.T) {
	h, f, e := newHandlerFixture(t)

	if _, err := f.svc.Book(context.Background(), f.bookRequest("9:00 AM")); err != nil {
		t.Fatalf("Book() error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments", nil)
	rec := httptest.NewRecorder()
	c := sessionContext(e, req, rec, f.patient)

	if err := h.ListAppointments(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp struct {
		Data  []Appointment `json:"data"`
		Total int           `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("expected 1 appointment, got %d", resp.Total)
	}
}

func TestHandler_CancelAppointment(t *testing.T) {
	h, f, e := newHandlerFixture(t)

	appt, err := f.svc.Book(context.Background(), f.bookRequest("9:00 AM"))
	if err != nil {
		t.Fatalf("Book() error: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := sessionContext(e, req, rec, f.patient)
	c.SetParamNames("id")
	c.SetParamValues(appt.ID.String())

	if err := h.CancelAppointment(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestHandler_CancelAppointment_NotOwnerLooksLikeNotFound(t *testing.T) {
	h, f, e := newHandlerFixture(t)

	appt, err := f.svc.Book(context.Background(), f.bookRequest("9:00 AM"))
	if err != nil {
		t.Fatalf("Book() error: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := sessionContext(e, req, rec, uuid.New())
	c.SetParamNames("id")
	c.SetParamValues(appt.ID.String())

	err = h.CancelAppointment(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404 for foreign appointment, got %v", err)
	}
}
