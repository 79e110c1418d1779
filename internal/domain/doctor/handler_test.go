package doctor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler(t *testing.T) (*Handler, *mockRepo, *echo.Echo) {
	t.Helper()
	repo := newMockRepo()
	h := NewHandler(NewService(repo))
	e := echo.New()
	return h, repo, e
}

func TestHandler_ListDoctors(t *testing.T) {
	h, repo, e := newTestHandler(t)
	seedDoctor(t, repo, "Dr. Asha Verma", "Cardiology", "Pune")
	seedDoctor(t, repo, "Dr. Brijesh Rao", "Dermatology", "Mumbai")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListDoctors(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data  []DoctorSummary `json:"data"`
		Total int             `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("expected total 2, got %d", resp.Total)
	}
	if len(resp.Data) != 2 {
		t.Errorf("expected 2 doctors, got %d", len(resp.Data))
	}
}

func TestHandler_ListDoctors_ReturnsSummaries(t *testing.T) {
	h, repo, e := newTestHandler(t)
	seedDoctor(t, repo, "Dr. Asha Verma", "Cardiology", "Pune")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListDoctors(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp struct {
		Data []map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("expected 1 doctor, got %d", len(resp.Data))
	}
	card := resp.Data[0]
	for _, field := range []string{"id", "name", "specialization", "hospital", "city", "profile_image"} {
		if _, ok := card[field]; !ok {
			t.Errorf("expected field %q in listing", field)
		}
	}
	for _, field := range []string{"morning_slots", "afternoon_slots", "evening_slots", "bio", "qualification"} {
		if _, ok := card[field]; ok {
			t.Errorf("detail field %q leaked into listing", field)
		}
	}
}

func TestHandler_ListDoctors_Filtered(t *testing.T) {
	h, repo, e := newTestHandler(t)
	seedDoctor(t, repo, "Dr. Asha Verma", "Cardiology", "Pune")
	seedDoctor(t, repo, "Dr. Brijesh Rao", "Dermatology", "Mumbai")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors?q=cardio&city=Pune", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListDoctors(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp struct {
		Data  []DoctorSummary `json:"data"`
		Total int             `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("expected total 1, got %d", resp.Total)
	}
	if resp.Data[0].Name != "Dr. Asha Verma" {
		t.Errorf("unexpected doctor: %s", resp.Data[0].Name)
	}
}

func TestHandler_ListDoctors_EmptyResultIsArray(t *testing.T) {
	h, _, e := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors?q=nomatch", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListDoctors(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp struct {
		Data []DoctorSummary `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data == nil {
		t.Error("expected empty array, got null")
	}
}

func TestHandler_GetDoctor(t *testing.T) {
	h, repo, e := newTestHandler(t)
	d := seedDoctor(t, repo, "Dr. Asha Verma", "Cardiology", "Pune")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(d.ID.String())

	if err := h.GetDoctor(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var got Doctor
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Name != "Dr. Asha Verma" {
		t.Errorf("unexpected doctor name: %s", got.Name)
	}
	if len(got.MorningSlots) != 2 {
		t.Errorf("expected morning slots in response, got %v", got.MorningSlots)
	}
}

func TestHandler_GetDoctor_NotFound(t *testing.T) {
	h, _, e := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.GetDoctor(c)
	if err == nil {
		t.Fatal("expected error for unknown doctor")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_GetDoctor_InvalidID(t *testing.T) {
	h, _, e := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.GetDoctor(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_GetFacets(t *testing.T) {
	h, repo, e := newTestHandler(t)
	seedDoctor(t, repo, "Dr. A", "Cardiology", "Pune")
	seedDoctor(t, repo, "Dr. B", "Dermatology", "Mumbai")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors/facets", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.GetFacets(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var facets Facets
	if err := json.Unmarshal(rec.Body.Bytes(), &facets); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(facets.Specializations) != 2 {
		t.Errorf("expected 2 specializations, got %v", facets.Specializations)
	}
	if len(facets.Cities) != 2 {
		t.Errorf("expected 2 cities, got %v", facets.Cities)
	}
}

func TestHandler_GetFacets_EmptyDirectory(t *testing.T) {
	h, _, e := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors/facets", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.GetFacets(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var facets Facets
	if err := json.Unmarshal(rec.Body.Bytes(), &facets); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if facets.Specializations == nil || facets.Cities == nil {
		t.Error("expected empty arrays, got null")
	}
}
