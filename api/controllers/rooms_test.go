package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/smoralesdev/labtrack-backend/internal/rooms"
	pkgerrors "github.com/smoralesdev/labtrack-backend/pkg/errors"
)

type stubRoomSvc struct {
	room    *rooms.RoomDTO
	patient *rooms.PatientDTO
	err     error
}

func (s *stubRoomSvc) ListRooms(ctx context.Context) ([]rooms.RoomDTO, error) {
	return nil, s.err
}

func (s *stubRoomSvc) GetRoom(ctx context.Context, id uuid.UUID) (*rooms.RoomDTO, error) {
	return s.room, s.err
}

func (s *stubRoomSvc) CreateRoom(ctx context.Context, actor string, input rooms.UpsertRoomInput) (*rooms.RoomDTO, error) {
	return s.room, s.err
}

func (s *stubRoomSvc) UpdateRoom(ctx context.Context, actor string, id uuid.UUID, input rooms.UpsertRoomInput) (*rooms.RoomDTO, error) {
	return s.room, s.err
}

func (s *stubRoomSvc) DeleteRoom(ctx context.Context, actor string, id uuid.UUID) error {
	return s.err
}

func (s *stubRoomSvc) ListPatients(ctx context.Context, roomID uuid.UUID) ([]rooms.PatientDTO, error) {
	return nil, s.err
}

func (s *stubRoomSvc) AdmitPatient(ctx context.Context, actor string, roomID uuid.UUID, input rooms.UpsertPatientInput) (*rooms.PatientDTO, error) {
	return s.patient, s.err
}

func (s *stubRoomSvc) UpdatePatient(ctx context.Context, actor string, id uuid.UUID, input rooms.UpsertPatientInput) (*rooms.PatientDTO, error) {
	return s.patient, s.err
}

func (s *stubRoomSvc) DischargePatient(ctx context.Context, actor string, id uuid.UUID) error {
	return s.err
}

func TestRoomCreateRejectsFullStatus(t *testing.T) {
	handler := RoomCreate(&stubRoomSvc{}, testLogger())

	body := `{"room_number":"101","capacity":2,"status":"full"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/rooms", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when forcing full status got %d", resp.Code)
	}
}

func TestRoomCreateRejectsZeroCapacity(t *testing.T) {
	handler := RoomCreate(&stubRoomSvc{}, testLogger())

	body := `{"room_number":"101","capacity":0}`
	req := httptest.NewRequest(http.MethodPost, "/v1/rooms", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero capacity got %d", resp.Code)
	}
}

func TestRoomDeleteMapsConflict(t *testing.T) {
	svc := &stubRoomSvc{err: pkgerrors.New(pkgerrors.CodeConflict, "room is occupied")}
	router := chi.NewRouter()
	router.Delete("/v1/rooms/{roomId}", RoomDelete(svc, testLogger()))

	req := httptest.NewRequest(http.MethodDelete, "/v1/rooms/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestRoomPatientAdmitRejectsMissingCondition(t *testing.T) {
	router := chi.NewRouter()
	router.Post("/v1/rooms/{roomId}/patients", RoomPatientAdmit(&stubRoomSvc{}, testLogger()))

	body := `{"full_name":"Jane Roe","admitted_at":"2026-08-28T10:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/rooms/"+uuid.NewString()+"/patients", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing condition got %d", resp.Code)
	}
}

func TestRoomPatientAdmitSuccess(t *testing.T) {
	svc := &stubRoomSvc{patient: &rooms.PatientDTO{ID: uuid.NewString(), FullName: "Jane Roe"}}
	router := chi.NewRouter()
	router.Post("/v1/rooms/{roomId}/patients", RoomPatientAdmit(svc, testLogger()))

	admitted := time.Date(2026, time.August, 28, 10, 0, 0, 0, time.UTC).Format(time.RFC3339)
	body := `{"full_name":"Jane Roe","condition":"observation","admitted_at":"` + admitted + `"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/rooms/"+uuid.NewString()+"/patients", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRoomPatientAdmitMapsMaintenanceBlock(t *testing.T) {
	svc := &stubRoomSvc{err: pkgerrors.New(pkgerrors.CodeStateConflict, "room is under maintenance")}
	router := chi.NewRouter()
	router.Post("/v1/rooms/{roomId}/patients", RoomPatientAdmit(svc, testLogger()))

	body := `{"full_name":"Jane Roe","condition":"observation","admitted_at":"2026-08-28T10:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/rooms/"+uuid.NewString()+"/patients", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}
