package service

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/mock"

	"labreserve/internal/model"
	"labreserve/internal/repository"
)

// MockReservationRepository is a mock implementation of ReservationRepository.
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) Update(ctx context.Context, reservation *model.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) FindLiveByOwner(ctx context.Context, ownerID, id uint) (*model.Reservation, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListByOwner(ctx context.Context, ownerID uint, filter repository.ReservationFilter, offset, limit int) ([]model.Reservation, int64, error) {
	args := m.Called(ctx, ownerID, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Reservation), args.Get(1).(int64), args.Error(2)
}

func (m *MockReservationRepository) SoftDelete(ctx context.Context, ownerID, id uint) (int64, error) {
	args := m.Called(ctx, ownerID, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationRepository) CountByHour(ctx context.Context) ([]repository.HourCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.HourCount), args.Error(1)
}

func (m *MockReservationRepository) CountByLab(ctx context.Context) ([]repository.LabCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.LabCount), args.Error(1)
}

func (m *MockReservationRepository) ListRecent(ctx context.Context, limit int) ([]model.Reservation, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Reservation), args.Error(1)
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) List(ctx context.Context, offset, limit int) ([]model.AuditLog, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditLog), args.Error(1)
}

// MockTxManager runs the transactional function against the configured repos.
// It records the call but performs no real transaction; the rollback guarantee
// belongs to the database layer.
type MockTxManager struct {
	mock.Mock
	Repos repository.TxRepos
}

func (m *MockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error {
	m.Called(ctx, fn)
	return fn(ctx, m.Repos)
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockTokenStore is a mock implementation of auth.TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, username string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, username, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uint), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

// MockCompletionClient is a mock implementation of CompletionClient.
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	args := m.Called(ctx, request)
	return args.Get(0).(openai.ChatCompletionResponse), args.Error(1)
}
