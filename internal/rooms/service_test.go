package rooms

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/smoralesdev/labtrack-backend/pkg/db/models"
	"github.com/smoralesdev/labtrack-backend/pkg/enums"
	pkgerrors "github.com/smoralesdev/labtrack-backend/pkg/errors"
)

var testNow = time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)

type stubRecorder struct {
	actions []string
}

func (s *stubRecorder) Record(_ context.Context, _ enums.EventSeverity, _, action, _, _ string) error {
	s.actions = append(s.actions, action)
	return nil
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Room{}, &models.Patient{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) (Service, *stubRecorder) {
	t.Helper()
	recorder := &stubRecorder{}
	svc, err := NewService(NewRepository(testDB(t)), recorder)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	svc.(*service).now = func() time.Time { return testNow }
	return svc, recorder
}

func mustCreateRoom(t *testing.T, svc Service, capacity int, status enums.RoomStatus) *RoomDTO {
	t.Helper()
	room, err := svc.CreateRoom(context.Background(), "kim", UpsertRoomInput{
		RoomNumber: "R-" + uuid.NewString()[:8],
		Type:       enums.RoomTypeGeneral,
		Capacity:   capacity,
		Status:     status,
	})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	return room
}

func patientInput(name string) UpsertPatientInput {
	return UpsertPatientInput{
		FullName:   name,
		Condition:  "observation",
		AdmittedAt: testNow.AddDate(0, 0, -1),
	}
}

func TestCreateRoomDefaultsAndValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	room, err := svc.CreateRoom(ctx, "kim", UpsertRoomInput{
		RoomNumber: "101",
		Capacity:   2,
	})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if room.Type != enums.RoomTypeGeneral {
		t.Fatalf("expected general type default, got %s", room.Type)
	}
	if room.Status != enums.RoomStatusAvailable {
		t.Fatalf("expected available status, got %s", room.Status)
	}

	cases := []struct {
		name  string
		input UpsertRoomInput
	}{
		{"missing number", UpsertRoomInput{Capacity: 2}},
		{"zero capacity", UpsertRoomInput{RoomNumber: "102", Capacity: 0}},
		{"bad type", UpsertRoomInput{RoomNumber: "103", Type: "ward", Capacity: 2}},
		{"full not settable", UpsertRoomInput{RoomNumber: "104", Capacity: 2, Status: enums.RoomStatusFull}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateRoom(ctx, "kim", tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestDuplicateRoomNumberConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateRoom(ctx, "kim", UpsertRoomInput{RoomNumber: "201", Capacity: 2}); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	_, err := svc.CreateRoom(ctx, "kim", UpsertRoomInput{RoomNumber: "201", Capacity: 4})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for duplicate room number, got %v", err)
	}
}

func TestAdmissionFillsRoomAndDerivesStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	room := mustCreateRoom(t, svc, 2, enums.RoomStatusAvailable)
	roomID := uuid.MustParse(room.ID)

	if _, err := svc.AdmitPatient(ctx, "kim", roomID, patientInput("Ana Reyes")); err != nil {
		t.Fatalf("AdmitPatient: %v", err)
	}
	if _, err := svc.AdmitPatient(ctx, "kim", roomID, patientInput("Luis Sosa")); err != nil {
		t.Fatalf("AdmitPatient: %v", err)
	}

	got, err := svc.GetRoom(ctx, roomID)
	if err != nil {
		t.Fatalf("GetRoom: %v", err)
	}
	if got.Occupied != 2 {
		t.Fatalf("expected 2 occupied, got %d", got.Occupied)
	}
	if got.Status != enums.RoomStatusFull {
		t.Fatalf("expected derived full status, got %s", got.Status)
	}

	_, err = svc.AdmitPatient(ctx, "kim", roomID, patientInput("Third Patient"))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict at capacity, got %v", err)
	}
}

func TestAdmissionBlockedDuringMaintenance(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	room := mustCreateRoom(t, svc, 2, enums.RoomStatusMaintenance)
	_, err := svc.AdmitPatient(ctx, "kim", uuid.MustParse(room.ID), patientInput("Ana Reyes"))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict for maintenance room, got %v", err)
	}
}

func TestPatientValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	room := mustCreateRoom(t, svc, 4, enums.RoomStatusAvailable)
	roomID := uuid.MustParse(room.ID)
	future := testNow.AddDate(0, 0, 2)
	afterAdmission := testNow

	cases := []struct {
		name string
		mut  func(*UpsertPatientInput)
	}{
		{"missing name", func(in *UpsertPatientInput) { in.FullName = " " }},
		{"missing condition", func(in *UpsertPatientInput) { in.Condition = "" }},
		{"future admission", func(in *UpsertPatientInput) { in.AdmittedAt = future }},
		{"future birth date", func(in *UpsertPatientInput) { in.DateOfBirth = &future }},
		{"born after admission", func(in *UpsertPatientInput) { in.DateOfBirth = &afterAdmission }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := patientInput("Ana Reyes")
			tc.mut(&input)
			_, err := svc.AdmitPatient(ctx, "kim", roomID, input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCapacityCannotDropBelowOccupancy(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	room := mustCreateRoom(t, svc, 3, enums.RoomStatusAvailable)
	roomID := uuid.MustParse(room.ID)
	if _, err := svc.AdmitPatient(ctx, "kim", roomID, patientInput("Ana Reyes")); err != nil {
		t.Fatalf("AdmitPatient: %v", err)
	}
	if _, err := svc.AdmitPatient(ctx, "kim", roomID, patientInput("Luis Sosa")); err != nil {
		t.Fatalf("AdmitPatient: %v", err)
	}

	_, err := svc.UpdateRoom(ctx, "kim", roomID, UpsertRoomInput{
		RoomNumber: room.RoomNumber,
		Type:       room.Type,
		Capacity:   1,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict shrinking below occupancy, got %v", err)
	}

	if _, err := svc.UpdateRoom(ctx, "kim", roomID, UpsertRoomInput{
		RoomNumber: room.RoomNumber,
		Type:       room.Type,
		Capacity:   2,
	}); err != nil {
		t.Fatalf("UpdateRoom to occupancy: %v", err)
	}
}

func TestDeleteRoomBlockedWhileOccupied(t *testing.T) {
	svc, recorder := newTestService(t)
	ctx := context.Background()

	room := mustCreateRoom(t, svc, 2, enums.RoomStatusAvailable)
	roomID := uuid.MustParse(room.ID)
	admitted, err := svc.AdmitPatient(ctx, "kim", roomID, patientInput("Ana Reyes"))
	if err != nil {
		t.Fatalf("AdmitPatient: %v", err)
	}

	err = svc.DeleteRoom(ctx, "kim", roomID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict deleting occupied room, got %v", err)
	}

	if err := svc.DischargePatient(ctx, "kim", uuid.MustParse(admitted.ID)); err != nil {
		t.Fatalf("DischargePatient: %v", err)
	}
	if err := svc.DeleteRoom(ctx, "kim", roomID); err != nil {
		t.Fatalf("DeleteRoom after discharge: %v", err)
	}
	last := recorder.actions[len(recorder.actions)-1]
	if last != "deleted room" {
		t.Fatalf("expected delete event, got %v", recorder.actions)
	}
}

func TestListPatientsCarriesRoomNumber(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	room := mustCreateRoom(t, svc, 2, enums.RoomStatusAvailable)
	roomID := uuid.MustParse(room.ID)
	if _, err := svc.AdmitPatient(ctx, "kim", roomID, patientInput("Ana Reyes")); err != nil {
		t.Fatalf("AdmitPatient: %v", err)
	}

	patients, err := svc.ListPatients(ctx, roomID)
	if err != nil {
		t.Fatalf("ListPatients: %v", err)
	}
	if len(patients) != 1 {
		t.Fatalf("expected one patient, got %d", len(patients))
	}
	if patients[0].RoomNumber != room.RoomNumber {
		t.Fatalf("room number not denormalized: %+v", patients[0])
	}

	_, err = svc.ListPatients(ctx, uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for phantom room, got %v", err)
	}
}
