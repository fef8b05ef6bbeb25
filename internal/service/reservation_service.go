package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"labreserve/internal/cache"
	apperrors "labreserve/internal/errors"
	"labreserve/internal/model"
	"labreserve/internal/pagination"
	"labreserve/internal/repository"
)

const (
	popularTimesCacheKey = "analysis:popular-times"
	popularTimesCacheTTL = 5 * time.Minute
)

// ReservationInput carries the fields required to create a reservation.
type ReservationInput struct {
	LabName    string
	ReservedBy string
	Purpose    string
	StartTime  time.Time
	Active     bool
}

// ReservationPatch is a partial update. Nil fields are left untouched; a
// present field may never clear a required value to empty.
type ReservationPatch struct {
	LabName    *string
	ReservedBy *string
	Purpose    *string
	StartTime  *time.Time
	Active     *bool
}

// PopularTimes holds utilization aggregates over live reservations.
type PopularTimes struct {
	PopularHours []repository.HourCount `json:"popular_hours"`
	PopularLabs  []repository.LabCount  `json:"popular_labs"`
}

// ReservationService orchestrates the reservation lifecycle, enforcing
// ownership isolation and soft-delete visibility.
type ReservationService interface {
	Create(ctx context.Context, ownerID uint, input ReservationInput) (*model.Reservation, error)
	List(ctx context.Context, ownerID uint, filter repository.ReservationFilter, page pagination.Params) ([]model.Reservation, int64, error)
	GetByID(ctx context.Context, ownerID, id uint) (*model.Reservation, error)
	Update(ctx context.Context, ownerID, id uint, patch ReservationPatch) (*model.Reservation, error)
	SoftDelete(ctx context.Context, ownerID, id uint) error
	PopularTimes(ctx context.Context) (*PopularTimes, error)
}

type reservationService struct {
	repo  repository.ReservationRepository
	tx    repository.TxManager
	cache *cache.Client
}

// NewReservationService creates a new reservation service.
func NewReservationService(repo repository.ReservationRepository, tx repository.TxManager, cache *cache.Client) ReservationService {
	return &reservationService{
		repo:  repo,
		tx:    tx,
		cache: cache,
	}
}

func (in *ReservationInput) validate() error {
	if strings.TrimSpace(in.LabName) == "" {
		return apperrors.NewValidationError("lab_name is required")
	}
	if strings.TrimSpace(in.ReservedBy) == "" {
		return apperrors.NewValidationError("reserved_by is required")
	}
	if strings.TrimSpace(in.Purpose) == "" {
		return apperrors.NewValidationError("purpose is required")
	}
	if in.StartTime.IsZero() {
		return apperrors.NewValidationError("start_time is required")
	}
	return nil
}

// Create inserts a reservation and its CREATE audit entry in one transaction.
// If the audit insert fails, the reservation rolls back with it.
func (s *reservationService) Create(ctx context.Context, ownerID uint, input ReservationInput) (*model.Reservation, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	reservation := &model.Reservation{
		LabName:    input.LabName,
		ReservedBy: input.ReservedBy,
		Purpose:    input.Purpose,
		StartTime:  input.StartTime,
		Active:     input.Active,
		OwnerID:    ownerID,
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		if err := repos.Reservations.Create(ctx, reservation); err != nil {
			return fmt.Errorf("create reservation: %w", err)
		}

		details := map[string]interface{}{
			"lab_name":    input.LabName,
			"reserved_by": input.ReservedBy,
			"purpose":     input.Purpose,
			"start_time":  input.StartTime.Format(time.RFC3339),
			"active":      input.Active,
		}
		entry, err := NewAuditEntry(ownerID, model.AuditActionCreate, "Reservation", reservation.ID, details)
		if err != nil {
			return err
		}
		if err := repos.Audits.Create(ctx, entry); err != nil {
			return fmt.Errorf("record audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateAnalysis(ctx)
	return reservation, nil
}

// List returns a page of the owner's live reservations and the total match count.
func (s *reservationService) List(ctx context.Context, ownerID uint, filter repository.ReservationFilter, page pagination.Params) ([]model.Reservation, int64, error) {
	reservations, total, err := s.repo.ListByOwner(ctx, ownerID, filter, page.Offset(), page.Size)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations: %w", err)
	}
	return reservations, total, nil
}

// resolve is the single ownership guard: it yields the live reservation for
// id+owner or ErrReservationNotFound. Soft-deleted and foreign rows are
// indistinguishable from missing ones.
func (s *reservationService) resolve(ctx context.Context, ownerID, id uint) (*model.Reservation, error) {
	reservation, err := s.repo.FindLiveByOwner(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrReservationNotFound
		}
		return nil, fmt.Errorf("find reservation: %w", err)
	}
	return reservation, nil
}

// GetByID returns the owner's live reservation with the given id.
func (s *reservationService) GetByID(ctx context.Context, ownerID, id uint) (*model.Reservation, error) {
	return s.resolve(ctx, ownerID, id)
}

// Update applies the provided patch fields to the owner's live reservation.
// Omitted fields stay untouched. Updates are not audited.
func (s *reservationService) Update(ctx context.Context, ownerID, id uint, patch ReservationPatch) (*model.Reservation, error) {
	reservation, err := s.resolve(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if patch.LabName != nil {
		if strings.TrimSpace(*patch.LabName) == "" {
			return nil, apperrors.NewValidationError("lab_name cannot be empty")
		}
		reservation.LabName = *patch.LabName
	}
	if patch.ReservedBy != nil {
		if strings.TrimSpace(*patch.ReservedBy) == "" {
			return nil, apperrors.NewValidationError("reserved_by cannot be empty")
		}
		reservation.ReservedBy = *patch.ReservedBy
	}
	if patch.Purpose != nil {
		if strings.TrimSpace(*patch.Purpose) == "" {
			return nil, apperrors.NewValidationError("purpose cannot be empty")
		}
		reservation.Purpose = *patch.Purpose
	}
	if patch.StartTime != nil {
		if patch.StartTime.IsZero() {
			return nil, apperrors.NewValidationError("start_time cannot be empty")
		}
		reservation.StartTime = *patch.StartTime
	}
	if patch.Active != nil {
		reservation.Active = *patch.Active
	}

	if err := s.repo.Update(ctx, reservation); err != nil {
		return nil, fmt.Errorf("update reservation: %w", err)
	}

	s.invalidateAnalysis(ctx)
	return reservation, nil
}

// SoftDelete stamps the owner's live reservation as deleted. Deleting an
// already-deleted reservation fails with ErrReservationNotFound.
func (s *reservationService) SoftDelete(ctx context.Context, ownerID, id uint) error {
	affected, err := s.repo.SoftDelete(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrReservationNotFound
	}

	s.invalidateAnalysis(ctx)
	return nil
}

// PopularTimes aggregates live reservations across all owners: counts by
// hour-of-day ascending and by lab name descending. Results are cached briefly
// and the cache is dropped on every mutation.
func (s *reservationService) PopularTimes(ctx context.Context) (*PopularTimes, error) {
	var cached PopularTimes
	if ok, _ := s.cache.GetJSON(ctx, popularTimesCacheKey, &cached); ok {
		return &cached, nil
	}

	hours, err := s.repo.CountByHour(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by hour: %w", err)
	}
	labs, err := s.repo.CountByLab(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by lab: %w", err)
	}

	result := &PopularTimes{
		PopularHours: hours,
		PopularLabs:  labs,
	}
	if result.PopularHours == nil {
		result.PopularHours = []repository.HourCount{}
	}
	if result.PopularLabs == nil {
		result.PopularLabs = []repository.LabCount{}
	}

	_ = s.cache.SetJSON(ctx, popularTimesCacheKey, result, popularTimesCacheTTL)
	return result, nil
}

func (s *reservationService) invalidateAnalysis(ctx context.Context) {
	_ = s.cache.Delete(ctx, popularTimesCacheKey)
}
