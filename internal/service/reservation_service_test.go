package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "labreserve/internal/errors"
	"labreserve/internal/model"
	"labreserve/internal/pagination"
	"labreserve/internal/repository"
)

func newReservationServiceForTest(repo *MockReservationRepository, audit *MockAuditRepository) (ReservationService, *MockTxManager) {
	tx := &MockTxManager{
		Repos: repository.TxRepos{
			Reservations: repo,
			Audits:       audit,
		},
	}
	return NewReservationService(repo, tx, nil), tx
}

func validInput() ReservationInput {
	return ReservationInput{
		LabName:    "Lab A",
		ReservedBy: "Alice",
		Purpose:    "Testing",
		StartTime:  time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Active:     true,
	}
}

func TestReservationService_Create(t *testing.T) {
	const ownerID uint = 7

	t.Run("successful creation writes reservation and audit entry", func(t *testing.T) {
		mockRepo := new(MockReservationRepository)
		mockAudit := new(MockAuditRepository)
		svc, tx := newReservationServiceForTest(mockRepo, mockAudit)
		tx.On("WithTransaction", mock.Anything, mock.Anything).Return()

		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Reservation")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*model.Reservation).ID = 42
			}).Return(nil)

		var recorded *model.AuditLog
		mockAudit.On("Create", mock.Anything, mock.AnythingOfType("*model.AuditLog")).
			Run(func(args mock.Arguments) {
				recorded = args.Get(1).(*model.AuditLog)
			}).Return(nil)

		reservation, err := svc.Create(context.Background(), ownerID, validInput())

		assert.NoError(t, err)
		assert.NotNil(t, reservation)
		assert.Equal(t, uint(42), reservation.ID)
		assert.Equal(t, ownerID, reservation.OwnerID)
		assert.False(t, reservation.DeletedAt.Valid)

		assert.NotNil(t, recorded)
		assert.Equal(t, model.AuditActionCreate, recorded.Action)
		assert.Equal(t, "Reservation", recorded.TargetModel)
		assert.Equal(t, uint(42), recorded.TargetID)
		assert.Equal(t, ownerID, recorded.UserID)

		var details map[string]interface{}
		assert.NoError(t, json.Unmarshal([]byte(recorded.Details), &details))
		assert.Equal(t, "Lab A", details["lab_name"])
		assert.Equal(t, "Alice", details["reserved_by"])

		mockRepo.AssertExpectations(t)
		mockAudit.AssertExpectations(t)
	})

	t.Run("missing required fields fail validation before any write", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*ReservationInput)
		}{
			{"empty lab_name", func(in *ReservationInput) { in.LabName = "  " }},
			{"empty reserved_by", func(in *ReservationInput) { in.ReservedBy = "" }},
			{"empty purpose", func(in *ReservationInput) { in.Purpose = "" }},
			{"zero start_time", func(in *ReservationInput) { in.StartTime = time.Time{} }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				mockRepo := new(MockReservationRepository)
				mockAudit := new(MockAuditRepository)
				svc, tx := newReservationServiceForTest(mockRepo, mockAudit)

				input := validInput()
				tt.mutate(&input)

				reservation, err := svc.Create(context.Background(), ownerID, input)

				assert.Nil(t, reservation)
				var validationErr *apperrors.ValidationError
				assert.ErrorAs(t, err, &validationErr)
				tx.AssertNotCalled(t, "WithTransaction", mock.Anything, mock.Anything)
				mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("audit failure aborts the creation", func(t *testing.T) {
		mockRepo := new(MockReservationRepository)
		mockAudit := new(MockAuditRepository)
		svc, tx := newReservationServiceForTest(mockRepo, mockAudit)
		tx.On("WithTransaction", mock.Anything, mock.Anything).Return()

		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Reservation")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*model.Reservation).ID = 43
			}).Return(nil)
		mockAudit.On("Create", mock.Anything, mock.AnythingOfType("*model.AuditLog")).
			Return(gorm.ErrInvalidDB)

		reservation, err := svc.Create(context.Background(), ownerID, validInput())

		assert.Nil(t, reservation)
		assert.Error(t, err)
	})
}

func TestReservationService_GetByID(t *testing.T) {
	const ownerID uint = 7

	tests := []struct {
		name          string
		setupMock     func(*MockReservationRepository)
		expectedError error
	}{
		{
			name: "live reservation owned by caller",
			setupMock: func(m *MockReservationRepository) {
				m.On("FindLiveByOwner", mock.Anything, ownerID, uint(1)).
					Return(&model.Reservation{ID: 1, OwnerID: ownerID, LabName: "Lab A"}, nil)
			},
		},
		{
			name: "soft-deleted or foreign reservation is not found",
			setupMock: func(m *MockReservationRepository) {
				m.On("FindLiveByOwner", mock.Anything, ownerID, uint(1)).
					Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrReservationNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockReservationRepository)
			mockAudit := new(MockAuditRepository)
			svc, _ := newReservationServiceForTest(mockRepo, mockAudit)
			tt.setupMock(mockRepo)

			reservation, err := svc.GetByID(context.Background(), ownerID, 1)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, reservation)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, ownerID, reservation.OwnerID)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestReservationService_Update(t *testing.T) {
	const ownerID uint = 7

	t.Run("partial update leaves omitted fields untouched", func(t *testing.T) {
		mockRepo := new(MockReservationRepository)
		mockAudit := new(MockAuditRepository)
		svc, _ := newReservationServiceForTest(mockRepo, mockAudit)

		existing := &model.Reservation{
			ID:         5,
			OwnerID:    ownerID,
			LabName:    "Lab A",
			ReservedBy: "Alice",
			Purpose:    "Original purpose",
			StartTime:  time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
			Active:     true,
		}
		mockRepo.On("FindLiveByOwner", mock.Anything, ownerID, uint(5)).Return(existing, nil)

		var saved *model.Reservation
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Reservation")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*model.Reservation)
			}).Return(nil)

		newPurpose := "Updated purpose"
		updated, err := svc.Update(context.Background(), ownerID, 5, ReservationPatch{Purpose: &newPurpose})

		assert.NoError(t, err)
		assert.Equal(t, "Updated purpose", updated.Purpose)
		assert.Equal(t, "Lab A", updated.LabName)
		assert.Equal(t, "Alice", updated.ReservedBy)
		assert.True(t, updated.Active)
		assert.Equal(t, saved, updated)
		mockRepo.AssertExpectations(t)
	})

	t.Run("patch may not clear a required field", func(t *testing.T) {
		mockRepo := new(MockReservationRepository)
		mockAudit := new(MockAuditRepository)
		svc, _ := newReservationServiceForTest(mockRepo, mockAudit)

		mockRepo.On("FindLiveByOwner", mock.Anything, ownerID, uint(5)).
			Return(&model.Reservation{ID: 5, OwnerID: ownerID, LabName: "Lab A"}, nil)

		empty := ""
		updated, err := svc.Update(context.Background(), ownerID, 5, ReservationPatch{LabName: &empty})

		assert.Nil(t, updated)
		var validationErr *apperrors.ValidationError
		assert.ErrorAs(t, err, &validationErr)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("updating another user's reservation is not found", func(t *testing.T) {
		mockRepo := new(MockReservationRepository)
		mockAudit := new(MockAuditRepository)
		svc, _ := newReservationServiceForTest(mockRepo, mockAudit)

		mockRepo.On("FindLiveByOwner", mock.Anything, ownerID, uint(9)).
			Return(nil, gorm.ErrRecordNotFound)

		newPurpose := "hijack"
		updated, err := svc.Update(context.Background(), ownerID, 9, ReservationPatch{Purpose: &newPurpose})

		assert.Nil(t, updated)
		assert.ErrorIs(t, err, apperrors.ErrReservationNotFound)
	})
}

func TestReservationService_SoftDelete(t *testing.T) {
	const ownerID uint = 7

	t.Run("second delete of the same reservation is not found", func(t *testing.T) {
		mockRepo := new(MockReservationRepository)
		mockAudit := new(MockAuditRepository)
		svc, _ := newReservationServiceForTest(mockRepo, mockAudit)

		mockRepo.On("SoftDelete", mock.Anything, ownerID, uint(3)).Return(int64(1), nil).Once()
		mockRepo.On("SoftDelete", mock.Anything, ownerID, uint(3)).Return(int64(0), nil).Once()

		assert.NoError(t, svc.SoftDelete(context.Background(), ownerID, 3))
		assert.ErrorIs(t, svc.SoftDelete(context.Background(), ownerID, 3), apperrors.ErrReservationNotFound)
		mockRepo.AssertExpectations(t)
	})

	t.Run("deleting another user's reservation is not found", func(t *testing.T) {
		mockRepo := new(MockReservationRepository)
		mockAudit := new(MockAuditRepository)
		svc, _ := newReservationServiceForTest(mockRepo, mockAudit)

		mockRepo.On("SoftDelete", mock.Anything, ownerID, uint(8)).Return(int64(0), nil)

		assert.ErrorIs(t, svc.SoftDelete(context.Background(), ownerID, 8), apperrors.ErrReservationNotFound)
	})
}

func TestReservationService_List(t *testing.T) {
	const ownerID uint = 7

	mockRepo := new(MockReservationRepository)
	mockAudit := new(MockAuditRepository)
	svc, _ := newReservationServiceForTest(mockRepo, mockAudit)

	startDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	filter := repository.ReservationFilter{LabName: "lab", StartDate: &startDate}
	params := pagination.Normalize(2, 5)

	mockRepo.On("ListByOwner", mock.Anything, ownerID, filter, 5, 5).
		Return([]model.Reservation{{ID: 6, OwnerID: ownerID}}, int64(11), nil)

	reservations, total, err := svc.List(context.Background(), ownerID, filter, params)

	assert.NoError(t, err)
	assert.Len(t, reservations, 1)
	assert.Equal(t, int64(11), total)
	mockRepo.AssertExpectations(t)
}

func TestReservationService_PopularTimes(t *testing.T) {
	t.Run("returns both aggregates", func(t *testing.T) {
		mockRepo := new(MockReservationRepository)
		mockAudit := new(MockAuditRepository)
		svc, _ := newReservationServiceForTest(mockRepo, mockAudit)

		hours := []repository.HourCount{{Hour: 9, Count: 3}, {Hour: 14, Count: 1}}
		labs := []repository.LabCount{{LabName: "Lab A", Count: 4}, {LabName: "Lab B", Count: 2}}
		mockRepo.On("CountByHour", mock.Anything).Return(hours, nil)
		mockRepo.On("CountByLab", mock.Anything).Return(labs, nil)

		result, err := svc.PopularTimes(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, hours, result.PopularHours)
		assert.Equal(t, labs, result.PopularLabs)
	})

	t.Run("empty aggregates come back as empty slices", func(t *testing.T) {
		mockRepo := new(MockReservationRepository)
		mockAudit := new(MockAuditRepository)
		svc, _ := newReservationServiceForTest(mockRepo, mockAudit)

		mockRepo.On("CountByHour", mock.Anything).Return([]repository.HourCount{}, nil)
		mockRepo.On("CountByLab", mock.Anything).Return([]repository.LabCount{}, nil)

		result, err := svc.PopularTimes(context.Background())

		assert.NoError(t, err)
		assert.NotNil(t, result.PopularHours)
		assert.NotNil(t, result.PopularLabs)
		assert.Empty(t, result.PopularHours)
		assert.Empty(t, result.PopularLabs)
	})
}
