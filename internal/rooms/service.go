package rooms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smoralesdev/labtrack-backend/pkg/db"
	"github.com/smoralesdev/labtrack-backend/pkg/db/models"
	"github.com/smoralesdev/labtrack-backend/pkg/enums"
	pkgerrors "github.com/smoralesdev/labtrack-backend/pkg/errors"
)

type roomRepository interface {
	CreateRoom(ctx context.Context, room *models.Room) error
	FindRoomByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
	UpdateRoom(ctx context.Context, room *models.Room) error
	DeleteRoom(ctx context.Context, id uuid.UUID) error
	OccupancyByRoom(ctx context.Context) (map[uuid.UUID]int, error)
	CountPatientsForRoom(ctx context.Context, roomID uuid.UUID) (int64, error)

	CreatePatient(ctx context.Context, patient *models.Patient) error
	FindPatientByID(ctx context.Context, id uuid.UUID) (*models.Patient, error)
	ListPatientsByRoom(ctx context.Context, roomID uuid.UUID) ([]models.Patient, error)
	UpdatePatient(ctx context.Context, patient *models.Patient) error
	DeletePatient(ctx context.Context, id uuid.UUID) error
}

type eventRecorder interface {
	Record(ctx context.Context, severity enums.EventSeverity, actor, action, collection, detail string) error
}

// Service exposes room management and patient admissions.
type Service interface {
	ListRooms(ctx context.Context) ([]RoomDTO, error)
	GetRoom(ctx context.Context, id uuid.UUID) (*RoomDTO, error)
	CreateRoom(ctx context.Context, actor string, input UpsertRoomInput) (*RoomDTO, error)
	UpdateRoom(ctx context.Context, actor string, id uuid.UUID, input UpsertRoomInput) (*RoomDTO, error)
	DeleteRoom(ctx context.Context, actor string, id uuid.UUID) error

	ListPatients(ctx context.Context, roomID uuid.UUID) ([]PatientDTO, error)
	AdmitPatient(ctx context.Context, actor string, roomID uuid.UUID, input UpsertPatientInput) (*PatientDTO, error)
	UpdatePatient(ctx context.Context, actor string, id uuid.UUID, input UpsertPatientInput) (*PatientDTO, error)
	DischargePatient(ctx context.Context, actor string, id uuid.UUID) error
}

type service struct {
	repo   roomRepository
	events eventRecorder
	now    func() time.Time
}

// NewService builds the room service.
func NewService(repo roomRepository, events eventRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("room repository required")
	}
	if events == nil {
		return nil, fmt.Errorf("event recorder required")
	}
	return &service{repo: repo, events: events, now: time.Now}, nil
}

// --- rooms ---

// UpsertRoomInput captures the mutable room fields. Status only accepts
// available or maintenance; full is derived from occupancy.
type UpsertRoomInput struct {
	RoomNumber string
	Type       enums.RoomType
	Capacity   int
	Status     enums.RoomStatus
	Notes      string
}

func (in *UpsertRoomInput) normalize() error {
	in.RoomNumber = strings.TrimSpace(in.RoomNumber)
	in.Notes = strings.TrimSpace(in.Notes)
	if in.RoomNumber == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "room number is required")
	}
	if in.Type == "" {
		in.Type = enums.RoomTypeGeneral
	}
	if !in.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid room type")
	}
	if in.Capacity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "capacity must be at least 1")
	}
	if in.Status == "" {
		in.Status = enums.RoomStatusAvailable
	}
	if in.Status != enums.RoomStatusAvailable && in.Status != enums.RoomStatusMaintenance {
		return pkgerrors.New(pkgerrors.CodeValidation, "status must be available or maintenance")
	}
	return nil
}

func (s *service) ListRooms(ctx context.Context) ([]RoomDTO, error) {
	rows, err := s.repo.ListRooms(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list rooms")
	}
	occupancy, err := s.repo.OccupancyByRoom(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute occupancy")
	}
	out := make([]RoomDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *roomFromModel(&rows[i], occupancy[rows[i].ID]))
	}
	return out, nil
}

func (s *service) GetRoom(ctx context.Context, id uuid.UUID) (*RoomDTO, error) {
	room, err := s.loadRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountPatientsForRoom(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count patients")
	}
	return roomFromModel(room, int(count)), nil
}

func (s *service) CreateRoom(ctx context.Context, actor string, input UpsertRoomInput) (*RoomDTO, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}
	room := &models.Room{
		ID:         uuid.New(),
		RoomNumber: input.RoomNumber,
		Type:       input.Type,
		Capacity:   input.Capacity,
		Status:     input.Status,
		Notes:      optional(input.Notes),
	}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		if db.IsUniqueViolation(err, "room_number") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "room number already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create room")
	}
	_ = s.events.Record(ctx, enums.EventSeverityInfo, actor, "created room", "rooms", room.RoomNumber)
	return roomFromModel(room, 0), nil
}

func (s *service) UpdateRoom(ctx context.Context, actor string, id uuid.UUID, input UpsertRoomInput) (*RoomDTO, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}
	room, err := s.loadRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountPatientsForRoom(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count patients")
	}
	if input.Capacity < int(count) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("capacity cannot drop below the %d admitted patients", count))
	}

	room.RoomNumber = input.RoomNumber
	room.Type = input.Type
	room.Capacity = input.Capacity
	room.Status = input.Status
	room.Notes = optional(input.Notes)

	if err := s.repo.UpdateRoom(ctx, room); err != nil {
		if db.IsUniqueViolation(err, "room_number") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "room number already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update room")
	}
	_ = s.events.Record(ctx, enums.EventSeverityInfo, actor, "updated room", "rooms", room.RoomNumber)
	return roomFromModel(room, int(count)), nil
}

func (s *service) DeleteRoom(ctx context.Context, actor string, id uuid.UUID) error {
	room, err := s.loadRoom(ctx, id)
	if err != nil {
		return err
	}
	count, err := s.repo.CountPatientsForRoom(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count patients")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "room has admitted patients")
	}
	if err := s.repo.DeleteRoom(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete room")
	}
	_ = s.events.Record(ctx, enums.EventSeverityWarning, actor, "deleted room", "rooms", room.RoomNumber)
	return nil
}

// --- patients ---

// UpsertPatientInput captures the mutable patient fields.
type UpsertPatientInput struct {
	FullName    string
	DateOfBirth *time.Time
	Condition   string
	AdmittedAt  time.Time
}

func (in *UpsertPatientInput) normalize(now time.Time) error {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Condition = strings.TrimSpace(in.Condition)
	if in.FullName == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	}
	if in.Condition == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "condition is required")
	}
	if in.AdmittedAt.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "admission date is required")
	}
	if in.AdmittedAt.After(now) {
		return pkgerrors.New(pkgerrors.CodeValidation, "admission date must not be in the future")
	}
	if in.DateOfBirth != nil {
		if in.DateOfBirth.After(now) {
			return pkgerrors.New(pkgerrors.CodeValidation, "date of birth must not be in the future")
		}
		if in.DateOfBirth.After(in.AdmittedAt) {
			return pkgerrors.New(pkgerrors.CodeValidation, "date of birth must precede the admission date")
		}
	}
	return nil
}

func (s *service) ListPatients(ctx context.Context, roomID uuid.UUID) ([]PatientDTO, error) {
	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListPatientsByRoom(ctx, roomID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list patients")
	}
	out := make([]PatientDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *patientFromModel(&rows[i], room.RoomNumber))
	}
	return out, nil
}

func (s *service) AdmitPatient(ctx context.Context, actor string, roomID uuid.UUID, input UpsertPatientInput) (*PatientDTO, error) {
	if err := input.normalize(s.now()); err != nil {
		return nil, err
	}
	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureRoomAdmits(ctx, room); err != nil {
		return nil, err
	}

	patient := &models.Patient{
		ID:          uuid.New(),
		RoomID:      roomID,
		FullName:    input.FullName,
		DateOfBirth: input.DateOfBirth,
		Condition:   input.Condition,
		AdmittedAt:  input.AdmittedAt,
	}
	if err := s.repo.CreatePatient(ctx, patient); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "admit patient")
	}
	_ = s.events.Record(ctx, enums.EventSeverityInfo, actor, "admitted patient", "patients",
		fmt.Sprintf("%s to room %s", patient.FullName, room.RoomNumber))
	return patientFromModel(patient, room.RoomNumber), nil
}

func (s *service) UpdatePatient(ctx context.Context, actor string, id uuid.UUID, input UpsertPatientInput) (*PatientDTO, error) {
	if err := input.normalize(s.now()); err != nil {
		return nil, err
	}
	patient, err := s.repo.FindPatientByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "patient not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load patient")
	}
	room, err := s.loadRoom(ctx, patient.RoomID)
	if err != nil {
		return nil, err
	}

	patient.FullName = input.FullName
	patient.DateOfBirth = input.DateOfBirth
	patient.Condition = input.Condition
	patient.AdmittedAt = input.AdmittedAt

	if err := s.repo.UpdatePatient(ctx, patient); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update patient")
	}
	_ = s.events.Record(ctx, enums.EventSeverityInfo, actor, "updated patient", "patients", patient.FullName)
	return patientFromModel(patient, room.RoomNumber), nil
}

func (s *service) DischargePatient(ctx context.Context, actor string, id uuid.UUID) error {
	patient, err := s.repo.FindPatientByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "patient not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load patient")
	}
	if err := s.repo.DeletePatient(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "discharge patient")
	}
	_ = s.events.Record(ctx, enums.EventSeverityWarning, actor, "discharged patient", "patients", patient.FullName)
	return nil
}

// --- shared helpers ---

func (s *service) loadRoom(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	room, err := s.repo.FindRoomByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "room not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load room")
	}
	return room, nil
}

// ensureRoomAdmits rejects admissions into rooms under maintenance or at
// capacity.
func (s *service) ensureRoomAdmits(ctx context.Context, room *models.Room) error {
	if room.Status == enums.RoomStatusMaintenance {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "room is under maintenance")
	}
	count, err := s.repo.CountPatientsForRoom(ctx, room.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count patients")
	}
	if int(count) >= room.Capacity {
		return pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("room %s is at capacity", room.RoomNumber))
	}
	return nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
