package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"labreserve/internal/model"
)

// ReservationFilter narrows reservation listings.
type ReservationFilter struct {
	// LabName is matched as a case-insensitive substring when non-empty.
	LabName string
	// StartDate matches the calendar date of start_time when non-nil.
	StartDate *time.Time
}

// HourCount is a per-hour aggregate row.
type HourCount struct {
	Hour  int   `json:"hour"`
	Count int64 `json:"count"`
}

// LabCount is a per-lab aggregate row.
type LabCount struct {
	LabName string `json:"lab_name"`
	Count   int64  `json:"count"`
}

// ReservationRepository defines reservation persistence operations.
// All queries operate on live rows only: the soft-delete marker keeps deleted
// reservations out of every default scope.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	Update(ctx context.Context, reservation *model.Reservation) error
	FindLiveByOwner(ctx context.Context, ownerID, id uint) (*model.Reservation, error)
	ListByOwner(ctx context.Context, ownerID uint, filter ReservationFilter, offset, limit int) ([]model.Reservation, int64, error)
	SoftDelete(ctx context.Context, ownerID, id uint) (int64, error)
	CountByHour(ctx context.Context) ([]HourCount, error)
	CountByLab(ctx context.Context) ([]LabCount, error)
	ListRecent(ctx context.Context, limit int) ([]model.Reservation, error)
}

type reservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository creates a new reservation repository.
func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

// Create inserts a new reservation record.
func (r *reservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

// Update persists all fields of an existing reservation.
func (r *reservationRepository) Update(ctx context.Context, reservation *model.Reservation) error {
	return r.db.WithContext(ctx).Save(reservation).Error
}

// FindLiveByOwner finds a live reservation by id scoped to its owner.
func (r *reservationRepository) FindLiveByOwner(ctx context.Context, ownerID, id uint) (*model.Reservation, error) {
	var reservation model.Reservation
	if err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&reservation).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

// ListByOwner returns a page of the owner's live reservations plus the total
// count of rows matching the filter.
func (r *reservationRepository) ListByOwner(ctx context.Context, ownerID uint, filter ReservationFilter, offset, limit int) ([]model.Reservation, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Reservation{}).Where("owner_id = ?", ownerID)

	if filter.LabName != "" {
		query = query.Where("lab_name ILIKE ?", "%"+filter.LabName+"%")
	}
	if filter.StartDate != nil {
		query = query.Where("DATE(start_time) = ?", filter.StartDate.Format("2006-01-02"))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reservations []model.Reservation
	if err := query.Offset(offset).Limit(limit).Find(&reservations).Error; err != nil {
		return nil, 0, err
	}
	return reservations, total, nil
}

// SoftDelete stamps deleted_at on the owner's live reservation and reports how
// many rows were affected. An already-deleted row affects zero rows.
func (r *reservationRepository) SoftDelete(ctx context.Context, ownerID, id uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.Reservation{})
	return res.RowsAffected, res.Error
}

// CountByHour aggregates live reservations by the hour of start_time,
// ascending by hour.
func (r *reservationRepository) CountByHour(ctx context.Context) ([]HourCount, error) {
	var rows []HourCount
	err := r.db.WithContext(ctx).Model(&model.Reservation{}).
		Select("CAST(EXTRACT(HOUR FROM start_time) AS INTEGER) AS hour, COUNT(id) AS count").
		Group("hour").
		Order("hour ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByLab aggregates live reservations by lab name, descending by count.
func (r *reservationRepository) CountByLab(ctx context.Context) ([]LabCount, error) {
	var rows []LabCount
	err := r.db.WithContext(ctx).Model(&model.Reservation{}).
		Select("lab_name, COUNT(id) AS count").
		Group("lab_name").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListRecent returns the most recently starting live reservations across all
// owners, newest first.
func (r *reservationRepository) ListRecent(ctx context.Context, limit int) ([]model.Reservation, error) {
	var reservations []model.Reservation
	if err := r.db.WithContext(ctx).
		Order("start_time DESC").
		Limit(limit).
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}
