package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return FromContext(c)
}

func TestFromContext(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", DefaultLimit, 0},
		{"explicit values", "limit=10&offset=30", 10, 30},
		{"limit clamped to max", "limit=500", MaxLimit, 0},
		{"zero limit falls back", "limit=0", DefaultLimit, 0},
		{"negative limit falls back", "limit=-5", DefaultLimit, 0},
		{"negative offset clamped", "offset=-10", DefaultLimit, 0},
		{"non-numeric ignored", "limit=abc&offset=xyz", DefaultLimit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := paramsFor(t, tt.query)
			if p.Limit != tt.wantLimit {
				t.Errorf("limit: expected %d, got %d", tt.wantLimit, p.Limit)
			}
			if p.Offset != tt.wantOffset {
				t.Errorf("offset: expected %d, got %d", tt.wantOffset, p.Offset)
			}
		})
	}
}

func TestNewResponse(t *testing.T) {
	data := []string{"a", "b"}

	resp := NewResponse(data, 50, 20, 0)
	if resp.Total != 50 {
		t.Errorf("expected total 50, got %d", resp.Total)
	}
	if !resp.HasMore {
		t.Error("expected HasMore true for first page of 50")
	}

	last := NewResponse(data, 50, 20, 40)
	if last.HasMore {
		t.Error("expected HasMore false on last page")
	}
}

func TestParamsHasNext(t *testing.T) {
	p := Params{Limit: 20, Offset: 0}
	if !p.HasNext(21) {
		t.Error("expected HasNext true when total exceeds page")
	}
	if p.HasNext(20) {
		t.Error("expected HasNext false when page covers total")
	}
	if p.NextOffset() != 20 {
		t.Errorf("expected next offset 20, got %d", p.NextOffset())
	}
}
