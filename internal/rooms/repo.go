package rooms

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smoralesdev/labtrack-backend/pkg/db/models"
)

// Repository handles persistence for rooms and their patients.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to room operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// --- rooms ---

func (r *Repository) CreateRoom(ctx context.Context, room *models.Room) error {
	if room == nil {
		return fmt.Errorf("room is required")
	}
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *Repository) FindRoomByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	var room models.Room
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *Repository) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rows []models.Room
	if err := r.db.WithContext(ctx).Order("room_number ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) UpdateRoom(ctx context.Context, room *models.Room) error {
	if room == nil {
		return fmt.Errorf("room is required")
	}
	return r.db.WithContext(ctx).Save(room).Error
}

func (r *Repository) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Room{}, "id = ?", id).Error
}

type occupancyRow struct {
	RoomID uuid.UUID
	Count  int
}

// OccupancyByRoom counts admitted patients per room.
func (r *Repository) OccupancyByRoom(ctx context.Context) (map[uuid.UUID]int, error) {
	var rows []occupancyRow
	if err := r.db.WithContext(ctx).
		Model(&models.Patient{}).
		Select("room_id, COUNT(*) AS count").
		Group("room_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	occupancy := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		occupancy[row.RoomID] = row.Count
	}
	return occupancy, nil
}

// CountPatientsForRoom reports how many patients occupy the room.
func (r *Repository) CountPatientsForRoom(ctx context.Context, roomID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Patient{}).
		Where("room_id = ?", roomID).
		Count(&count).Error
	return count, err
}

// --- patients ---

func (r *Repository) CreatePatient(ctx context.Context, patient *models.Patient) error {
	if patient == nil {
		return fmt.Errorf("patient is required")
	}
	return r.db.WithContext(ctx).Create(patient).Error
}

func (r *Repository) FindPatientByID(ctx context.Context, id uuid.UUID) (*models.Patient, error) {
	var patient models.Patient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&patient).Error; err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *Repository) ListPatientsByRoom(ctx context.Context, roomID uuid.UUID) ([]models.Patient, error) {
	var rows []models.Patient
	if err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("admitted_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) UpdatePatient(ctx context.Context, patient *models.Patient) error {
	if patient == nil {
		return fmt.Errorf("patient is required")
	}
	return r.db.WithContext(ctx).Save(patient).Error
}

func (r *Repository) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Patient{}, "id = ?", id).Error
}
