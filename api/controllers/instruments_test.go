package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/smoralesdev/labtrack-backend/api/middleware"
	"github.com/smoralesdev/labtrack-backend/internal/instruments"
	pkgerrors "github.com/smoralesdev/labtrack-backend/pkg/errors"
	"github.com/smoralesdev/labtrack-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test-controllers", Output: io.Discard})
}

type stubInstrumentSvc struct {
	list     []instruments.InstrumentDTO
	dto      *instruments.InstrumentDTO
	err      error
	gotActor string
	gotInput instruments.UpsertInstrumentInput
}

func (s *stubInstrumentSvc) List(ctx context.Context) ([]instruments.InstrumentDTO, error) {
	return s.list, s.err
}

func (s *stubInstrumentSvc) GetByID(ctx context.Context, id uuid.UUID) (*instruments.InstrumentDTO, error) {
	return s.dto, s.err
}

func (s *stubInstrumentSvc) Create(ctx context.Context, actor string, input instruments.UpsertInstrumentInput) (*instruments.InstrumentDTO, error) {
	s.gotActor = actor
	s.gotInput = input
	return s.dto, s.err
}

func (s *stubInstrumentSvc) Update(ctx context.Context, actor string, id uuid.UUID, input instruments.UpsertInstrumentInput) (*instruments.InstrumentDTO, error) {
	s.gotActor = actor
	s.gotInput = input
	return s.dto, s.err
}

func (s *stubInstrumentSvc) Delete(ctx context.Context, actor string, id uuid.UUID) error {
	s.gotActor = actor
	return s.err
}

func TestInstrumentCreateSuccess(t *testing.T) {
	svc := &stubInstrumentSvc{dto: &instruments.InstrumentDTO{ID: uuid.NewString(), Name: "Centrifuge A"}}
	handler := InstrumentCreate(svc, testLogger())

	body := `{"name":"Centrifuge A","model":"Eppendorf 5420","serial_number":"SN-100","category":"centrifuge"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/instruments", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	actor := uuid.NewString()
	req = req.WithContext(middleware.WithUserID(req.Context(), actor))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotActor != actor {
		t.Fatalf("expected actor %s got %s", actor, svc.gotActor)
	}
	if svc.gotInput.SerialNumber != "SN-100" {
		t.Fatalf("expected serial passed through got %q", svc.gotInput.SerialNumber)
	}

	var envelope struct {
		Data instruments.InstrumentDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Name != "Centrifuge A" {
		t.Fatalf("expected instrument in payload got %+v", envelope.Data)
	}
}

func TestInstrumentCreateRejectsMissingFields(t *testing.T) {
	svc := &stubInstrumentSvc{}
	handler := InstrumentCreate(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/instruments", bytes.NewReader([]byte(`{"name":"X"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestInstrumentCreateRejectsUnknownField(t *testing.T) {
	svc := &stubInstrumentSvc{}
	handler := InstrumentCreate(svc, testLogger())

	body := `{"name":"X","model":"M","serial_number":"S","category":"C","bogus":true}`
	req := httptest.NewRequest(http.MethodPost, "/v1/instruments", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field got %d", resp.Code)
	}
}

func TestInstrumentCreateRejectsBadStatus(t *testing.T) {
	svc := &stubInstrumentSvc{}
	handler := InstrumentCreate(svc, testLogger())

	body := `{"name":"X","model":"M","serial_number":"S","category":"C","status":"Broken"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/instruments", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad status got %d", resp.Code)
	}
}

func TestInstrumentGetRejectsBadID(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/v1/instruments/{instrumentId}", InstrumentGet(&stubInstrumentSvc{}, testLogger()))

	req := httptest.NewRequest(http.MethodGet, "/v1/instruments/not-a-uuid", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id got %d", resp.Code)
	}
}

func TestInstrumentGetMapsNotFound(t *testing.T) {
	svc := &stubInstrumentSvc{err: pkgerrors.New(pkgerrors.CodeNotFound, "instrument not found")}
	router := chi.NewRouter()
	router.Get("/v1/instruments/{instrumentId}", InstrumentGet(svc, testLogger()))

	req := httptest.NewRequest(http.MethodGet, "/v1/instruments/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestInstrumentListReturnsEnvelope(t *testing.T) {
	svc := &stubInstrumentSvc{list: []instruments.InstrumentDTO{{ID: uuid.NewString()}, {ID: uuid.NewString()}}}
	handler := InstrumentList(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/instruments", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data []instruments.InstrumentDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 2 {
		t.Fatalf("expected 2 instruments got %d", len(envelope.Data))
	}
}
