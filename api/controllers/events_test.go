package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/smoralesdev/labtrack-backend/internal/events"
	"github.com/smoralesdev/labtrack-backend/pkg/enums"
	"github.com/smoralesdev/labtrack-backend/pkg/types"
)

type stubEventSvc struct {
	gotFilter events.Filter
	rows      []events.EventDTO
	meta      *types.PageMeta
	err       error
}

func (s *stubEventSvc) Record(ctx context.Context, severity enums.EventSeverity, actor, action, collection, detail string) error {
	return nil
}

func (s *stubEventSvc) List(ctx context.Context, filter events.Filter) ([]events.EventDTO, *types.PageMeta, error) {
	s.gotFilter = filter
	return s.rows, s.meta, s.err
}

func TestEventListParsesFilters(t *testing.T) {
	svc := &stubEventSvc{rows: []events.EventDTO{}, meta: &types.PageMeta{Page: 2, PageSize: 10}}
	handler := EventList(svc, testLogger())

	target := "/v1/events?severity=warning&collection=rooms&from=2026-08-01&to=2026-08-28T12:00:00Z&page=2&page_size=10"
	req := httptest.NewRequest(http.MethodGet, target, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	if svc.gotFilter.Severity != enums.EventSeverityWarning {
		t.Fatalf("expected warning severity got %q", svc.gotFilter.Severity)
	}
	if svc.gotFilter.Collection != "rooms" {
		t.Fatalf("expected rooms collection got %q", svc.gotFilter.Collection)
	}
	if svc.gotFilter.From == nil || !svc.gotFilter.From.Equal(time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected from date parsed got %v", svc.gotFilter.From)
	}
	if svc.gotFilter.Page.Page != 2 || svc.gotFilter.Page.PageSize != 10 {
		t.Fatalf("expected page 2 size 10 got %+v", svc.gotFilter.Page)
	}
}

func TestEventCreateRequiresAction(t *testing.T) {
	handler := EventCreate(&stubEventSvc{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/events", strings.NewReader(`{"severity":"info"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing action got %d", resp.Code)
	}
}

func TestEventCreateSuccess(t *testing.T) {
	handler := EventCreate(&stubEventSvc{}, testLogger())

	body := `{"severity":"warning","action":"manual audit note","collection":"rooms"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestEventListRejectsBadSeverity(t *testing.T) {
	handler := EventList(&stubEventSvc{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/events?severity=loud", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad severity got %d", resp.Code)
	}
}

func TestEventListRejectsOversizedPageSize(t *testing.T) {
	svc := &stubEventSvc{meta: &types.PageMeta{}}
	handler := EventList(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/events?page_size=100000", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized page_size got %d", resp.Code)
	}
}
