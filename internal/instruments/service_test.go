package instruments

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/smoralesdev/labtrack-backend/pkg/db/models"
	"github.com/smoralesdev/labtrack-backend/pkg/enums"
	pkgerrors "github.com/smoralesdev/labtrack-backend/pkg/errors"
)

type recordedEvent struct {
	Severity   enums.EventSeverity
	Actor      string
	Action     string
	Collection string
}

type stubRecorder struct {
	events []recordedEvent
}

func (s *stubRecorder) Record(_ context.Context, severity enums.EventSeverity, actor, action, collection, _ string) error {
	s.events = append(s.events, recordedEvent{Severity: severity, Actor: actor, Action: action, Collection: collection})
	return nil
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Instrument{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		conn.Exec("DELETE FROM instruments")
	})
	return conn
}

func newTestService(t *testing.T) (Service, *stubRecorder) {
	t.Helper()
	recorder := &stubRecorder{}
	svc, err := NewService(NewRepository(testDB(t)), recorder)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, recorder
}

func validInput() UpsertInstrumentInput {
	return UpsertInstrumentInput{
		Name:         "Sequencer",
		Model:        "NovaSeq 6000",
		SerialNumber: "SN-" + uuid.NewString(),
		Category:     "sequencing",
		Location:     "Lab 2",
	}
}

func TestCreateDefaultsStatusAndRecordsEvent(t *testing.T) {
	svc, recorder := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "kim", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != enums.InstrumentStatusAvailable {
		t.Fatalf("status must default to Available, got %s", created.Status)
	}
	if len(recorder.events) != 1 || recorder.events[0].Collection != "instruments" {
		t.Fatalf("expected one instrument event, got %+v", recorder.events)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		mut   func(*UpsertInstrumentInput)
		field string
	}{
		{"missing name", func(in *UpsertInstrumentInput) { in.Name = "  " }, "name"},
		{"missing model", func(in *UpsertInstrumentInput) { in.Model = "" }, "model"},
		{"missing serial", func(in *UpsertInstrumentInput) { in.SerialNumber = "" }, "serial"},
		{"missing category", func(in *UpsertInstrumentInput) { in.Category = "" }, "category"},
		{"bad status", func(in *UpsertInstrumentInput) { in.Status = "Broken" }, "status"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mut(&input)
			_, err := svc.Create(ctx, "kim", input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestDuplicateSerialConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	input := validInput()
	if _, err := svc.Create(ctx, "kim", input); err != nil {
		t.Fatalf("Create: %v", err)
	}

	dup := validInput()
	dup.SerialNumber = input.SerialNumber
	_, err := svc.Create(ctx, "kim", dup)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateAndGet(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "kim", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := uuid.MustParse(created.ID)

	input := validInput()
	input.SerialNumber = created.SerialNumber
	input.Status = enums.InstrumentStatusMaintenance
	input.Notes = "quarterly service"

	updated, err := svc.Update(ctx, "kim", id, input)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != enums.InstrumentStatusMaintenance || updated.Notes != "quarterly service" {
		t.Fatalf("update not applied: %+v", updated)
	}

	got, err := svc.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != enums.InstrumentStatusMaintenance {
		t.Fatalf("reload mismatch: %+v", got)
	}
}

func TestDeleteThenNotFound(t *testing.T) {
	svc, recorder := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "kim", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := uuid.MustParse(created.ID)

	if err := svc.Delete(ctx, "kim", id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.GetByID(ctx, id); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	last := recorder.events[len(recorder.events)-1]
	if last.Severity != enums.EventSeverityWarning {
		t.Fatalf("delete must record a warning event, got %+v", last)
	}

	if err := svc.Delete(ctx, "kim", uuid.New()); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown id, got %v", err)
	}
}
