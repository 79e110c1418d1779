package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestRequestTimeout_CompletesInTime(t *testing.T) {
	e := echo.New()
	mw := RequestTimeout(1 * time.Second)
	handler := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRequestTimeout_DeadlineExceeded(t *testing.T) {
	e := echo.New()
	mw := RequestTimeout(20 * time.Millisecond)
	handler := mw(func(c echo.Context) error {
		select {
		case <-c.Request().Context().Done():
			return c.Request().Context().Err()
		case <-time.After(500 * time.Millisecond):
			return c.String(http.StatusOK, "too late")
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler(c); err != nil {
		t.Fatalf("expected timeout response, got error %v", err)
	}
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("expected 504, got %d", rec.Code)
	}
}

func TestRequestTimeout_HandlerSeesDeadline(t *testing.T) {
	e := echo.New()
	mw := RequestTimeout(5 * time.Second)

	var hasDeadline bool
	handler := mw(func(c echo.Context) error {
		_, hasDeadline = c.Request().Context().Deadline()
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !hasDeadline {
		t.Error("expected request context to carry a deadline")
	}
}
