package flights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) Search(ctx context.Context, filter domain.SearchFilter, limit int) ([]domain.Flight, error) {
	args := m.Called(ctx, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetFlights(ctx context.Context, filter domain.SearchFilter) ([]domain.Flight, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockCache) SetFlights(ctx context.Context, filter domain.SearchFilter, flights []domain.Flight) error {
	args := m.Called(ctx, filter, flights)
	return args.Error(0)
}

type MockSurge struct {
	mock.Mock
}

func (m *MockSurge) Quote(ctx context.Context, flightID int64) (domain.Quote, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).(domain.Quote), args.Error(1)
}

var filter = domain.SearchFilter{From: "delhi", To: "mumbai", Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}

func sampleFlights() []domain.Flight {
	dep := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	return []domain.Flight{
		{
			ID:            4,
			Airline:       "IndiGo",
			DepartureCity: "Delhi",
			ArrivalCity:   "Mumbai",
			DepartureTime: dep,
			ArrivalTime:   dep.Add(2 * time.Hour),
			BasePrice:     600,
		},
	}
}

func TestFlightService_Search_CacheMiss(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache, nil, 10, zap.NewNop())
	ctx := context.Background()
	flights := sampleFlights()

	mockCache.On("GetFlights", ctx, filter).Return(([]domain.Flight)(nil), nil).Once()
	mockRepo.On("Search", ctx, filter, 10).Return(flights, nil).Once()
	mockCache.On("SetFlights", ctx, filter, flights).Return(nil).Once()

	result, err := service.Search(ctx, filter)

	assert.NoError(t, err)
	assert.Equal(t, flights, result)
	mockCache.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_Search_CacheHit(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache, nil, 10, zap.NewNop())
	ctx := context.Background()
	flights := sampleFlights()

	mockCache.On("GetFlights", ctx, filter).Return(flights, nil).Once()

	result, err := service.Search(ctx, filter)

	assert.NoError(t, err)
	assert.Equal(t, flights, result)
	mockRepo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
	mockCache.AssertNotCalled(t, "SetFlights", mock.Anything, mock.Anything, mock.Anything)
}

func TestFlightService_Search_CacheErrorFallsThrough(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	core, logs := observer.New(zap.WarnLevel)
	service := NewFlightService(mockRepo, mockCache, nil, 10, zap.New(core))
	ctx := context.Background()
	flights := sampleFlights()

	mockCache.On("GetFlights", ctx, filter).Return(([]domain.Flight)(nil), errors.New("cache error")).Once()
	mockRepo.On("Search", ctx, filter, 10).Return(flights, nil).Once()
	mockCache.On("SetFlights", ctx, filter, flights).Return(errors.New("cache error")).Once()

	result, err := service.Search(ctx, filter)

	assert.NoError(t, err)
	assert.Equal(t, flights, result)
	assert.Equal(t, 1, logs.FilterMessage("flight cache read failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("flight cache write failed").Len())
}

func TestFlightService_Search_RepositoryError(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, nil, nil, 10, zap.NewNop())
	ctx := context.Background()

	expectedErr := errors.New("database error")
	mockRepo.On("Search", ctx, filter, 10).Return(nil, expectedErr).Once()

	result, err := service.Search(ctx, filter)

	assert.Nil(t, result)
	assert.Equal(t, expectedErr, err)
}

func TestFlightService_GetByID(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, nil, nil, 10, zap.NewNop())
	ctx := context.Background()
	flight := &sampleFlights()[0]

	mockRepo.On("GetByID", ctx, int64(4)).Return(flight, nil).Once()
	mockRepo.On("GetByID", ctx, int64(999)).Return(nil, domain.ErrFlightNotFound).Once()

	result, err := service.GetByID(ctx, 4)
	assert.NoError(t, err)
	assert.Equal(t, flight, result)

	result, err = service.GetByID(ctx, 999)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
}

func TestFlightService_Quote(t *testing.T) {
	ctx := context.Background()
	flight := &sampleFlights()[0]

	t.Run("surged", func(t *testing.T) {
		mockRepo := &MockFlightRepository{}
		mockSurge := &MockSurge{}
		service := NewFlightService(mockRepo, nil, mockSurge, 10, zap.NewNop())

		mockRepo.On("GetByID", ctx, int64(4)).Return(flight, nil).Once()
		mockSurge.On("Quote", ctx, int64(4)).Return(domain.Quote{IsSurged: true, RecentCount: 3, PriceMultiplier: 1.1}, nil).Once()

		q, err := service.Quote(ctx, 4)
		require.NoError(t, err)
		assert.True(t, q.IsSurged)
		assert.Equal(t, 600.0, q.BasePrice)
		assert.Equal(t, 660.0, q.QuotedPrice)
	})

	t.Run("surge unavailable quotes base fare", func(t *testing.T) {
		mockRepo := &MockFlightRepository{}
		mockSurge := &MockSurge{}
		service := NewFlightService(mockRepo, nil, mockSurge, 10, zap.NewNop())

		mockRepo.On("GetByID", ctx, int64(4)).Return(flight, nil).Once()
		mockSurge.On("Quote", ctx, int64(4)).Return(domain.Quote{}, errors.New("redis down")).Once()

		q, err := service.Quote(ctx, 4)
		require.NoError(t, err)
		assert.False(t, q.IsSurged)
		assert.Equal(t, 1.0, q.PriceMultiplier)
		assert.Equal(t, 600.0, q.QuotedPrice)
	})

	t.Run("unknown flight is not counted", func(t *testing.T) {
		mockRepo := &MockFlightRepository{}
		mockSurge := &MockSurge{}
		service := NewFlightService(mockRepo, nil, mockSurge, 10, zap.NewNop())

		mockRepo.On("GetByID", ctx, int64(999)).Return(nil, domain.ErrFlightNotFound).Once()

		_, err := service.Quote(ctx, 999)
		assert.ErrorIs(t, err, domain.ErrFlightNotFound)
		mockSurge.AssertNotCalled(t, "Quote", mock.Anything, mock.Anything)
	})
}
