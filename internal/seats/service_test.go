package seats

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"busline/pkg/cache"
	"busline/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

/* ==================== MOCKS ==================== */

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateSeats(ctx context.Context, seats []Seat) error {
	args := m.Called(ctx, seats)
	return args.Error(0)
}

func (m *MockRepository) GetSeatByID(ctx context.Context, id uuid.UUID) (*Seat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Seat), args.Error(1)
}

func (m *MockRepository) GetSeatsBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]Seat, error) {
	args := m.Called(ctx, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Seat), args.Error(1)
}

func (m *MockRepository) GetSeatsByIDs(ctx context.Context, scheduleID uuid.UUID, seatIDs []uuid.UUID) ([]Seat, error) {
	args := m.Called(ctx, scheduleID, seatIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Seat), args.Error(1)
}

func (m *MockRepository) CountAvailable(ctx context.Context, scheduleID uuid.UUID) (int64, error) {
	args := m.Called(ctx, scheduleID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) LockSeats(ctx context.Context, scheduleID uuid.UUID, seatIDs []uuid.UUID, lockedAt time.Time) error {
	args := m.Called(ctx, scheduleID, seatIDs, lockedAt)
	return args.Error(0)
}

func (m *MockRepository) ReleaseSeats(ctx context.Context, scheduleID uuid.UUID, seatIDs []uuid.UUID) (int64, error) {
	args := m.Called(ctx, scheduleID, seatIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) MarkBooked(ctx context.Context, scheduleID uuid.UUID, seatIDs []uuid.UUID) error {
	args := m.Called(ctx, scheduleID, seatIDs)
	return args.Error(0)
}

// passthroughCache satisfies cache.Service without a Redis connection.
type passthroughCache struct{}

func (passthroughCache) Get(ctx context.Context, key string, dest interface{}) error {
	return cache.ErrCacheMiss
}
func (passthroughCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (passthroughCache) Delete(ctx context.Context, key string) error            { return nil }
func (passthroughCache) DeletePattern(ctx context.Context, pattern string) error { return nil }
func (passthroughCache) Exists(ctx context.Context, key string) bool             { return false }
func (passthroughCache) Ping(ctx context.Context) error                          { return nil }

func (passthroughCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	value, err := fetcher()
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func newTestService(repo Repository) Service {
	return NewService(repo, passthroughCache{}, logger.GetDefault())
}

/* ==================== TESTS ==================== */

func TestGenerateForSchedulePricing(t *testing.T) {
	repo := new(MockRepository)
	scheduleID := uuid.New()

	var created []Seat
	repo.On("CreateSeats", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).([]Seat)
	}).Return(nil)

	svc := newTestService(repo)
	require.NoError(t, svc.GenerateForSchedule(context.Background(), scheduleID, 1000, 20))
	require.Len(t, created, 20)

	// Row 1: window seats get +10% +5% front, aisle seats +5% +5% front.
	assert.Equal(t, "01", created[0].SeatNumber)
	assert.Equal(t, TypeWindow, created[0].SeatType)
	assert.Equal(t, 1150.0, created[0].Price)
	assert.Equal(t, TypeAisle, created[1].SeatType)
	assert.Equal(t, 1100.0, created[1].Price)
	assert.Equal(t, TypeAisle, created[2].SeatType)
	assert.Equal(t, TypeWindow, created[3].SeatType)

	// Row 5 (seats 17-20) is past the front-row premium.
	assert.Equal(t, 5, created[16].Row)
	assert.Equal(t, 1100.0, created[16].Price) // window, no front premium
	assert.Equal(t, 1050.0, created[17].Price) // aisle, no front premium

	for _, seat := range created {
		assert.Equal(t, scheduleID, seat.ScheduleID)
		assert.Equal(t, StatusAvailable, seat.Status)
	}
	repo.AssertExpectations(t)
}

func TestGenerateForScheduleRejectsZeroSeats(t *testing.T) {
	svc := newTestService(new(MockRepository))
	err := svc.GenerateForSchedule(context.Background(), uuid.New(), 1000, 0)
	assert.Error(t, err)
}

func TestSelectSeatsAllAvailable(t *testing.T) {
	repo := new(MockRepository)
	scheduleID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	repo.On("GetSeatsByIDs", mock.Anything, scheduleID, ids).Return([]Seat{
		{ID: ids[0], SeatNumber: "01", Status: StatusAvailable, Price: 550.50},
		{ID: ids[1], SeatNumber: "02", Status: StatusAvailable, Price: 525.25},
	}, nil)

	svc := newTestService(repo)
	result, err := svc.SelectSeats(context.Background(), scheduleID.String(), []string{ids[0].String(), ids[1].String()})
	require.NoError(t, err)
	assert.True(t, result.AllAvailable)
	assert.Empty(t, result.UnavailableSeats)
	assert.Equal(t, 1075.75, result.TotalPrice)
}

func TestSelectSeatsReportsUnavailable(t *testing.T) {
	repo := new(MockRepository)
	scheduleID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	repo.On("GetSeatsByIDs", mock.Anything, scheduleID, ids).Return([]Seat{
		{ID: ids[0], SeatNumber: "01", Status: StatusAvailable, Price: 500},
		{ID: ids[1], SeatNumber: "02", Status: StatusReserved, Price: 500},
	}, nil)

	svc := newTestService(repo)
	result, err := svc.SelectSeats(context.Background(), scheduleID.String(), []string{ids[0].String(), ids[1].String()})
	require.NoError(t, err)
	assert.False(t, result.AllAvailable)
	assert.Equal(t, []string{"02"}, result.UnavailableSeats)
	assert.Zero(t, result.TotalPrice)
}

func TestSelectSeatsUnknownSeat(t *testing.T) {
	repo := new(MockRepository)
	scheduleID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	// Only one of the two requested seats exists on this schedule.
	repo.On("GetSeatsByIDs", mock.Anything, scheduleID, ids).Return([]Seat{
		{ID: ids[0], SeatNumber: "01", Status: StatusAvailable, Price: 500},
	}, nil)

	svc := newTestService(repo)
	_, err := svc.SelectSeats(context.Background(), scheduleID.String(), []string{ids[0].String(), ids[1].String()})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLockSeatsPropagatesConflict(t *testing.T) {
	repo := new(MockRepository)
	scheduleID := uuid.New()
	seatID := uuid.New()

	repo.On("LockSeats", mock.Anything, scheduleID, []uuid.UUID{seatID}, mock.Anything).Return(ErrSeatConflict)

	svc := newTestService(repo)
	err := svc.LockSeats(context.Background(), scheduleID.String(), []string{seatID.String()})
	assert.ErrorIs(t, err, ErrSeatConflict)
}

func TestLockSeatsRejectsDuplicateIDs(t *testing.T) {
	svc := newTestService(new(MockRepository))
	seatID := uuid.New().String()
	err := svc.LockSeats(context.Background(), uuid.New().String(), []string{seatID, seatID})
	assert.Error(t, err)
}

func TestLockSeatsRejectsInvalidScheduleID(t *testing.T) {
	svc := newTestService(new(MockRepository))
	err := svc.LockSeats(context.Background(), "not-a-uuid", []string{uuid.New().String()})
	assert.Error(t, err)
}

func TestLockSeatsUsesInjectedClock(t *testing.T) {
	repo := new(MockRepository)
	scheduleID := uuid.New()
	seatID := uuid.New()
	frozen := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	repo.On("LockSeats", mock.Anything, scheduleID, []uuid.UUID{seatID}, frozen).Return(nil)

	svc := newTestService(repo).(*service)
	svc.now = func() time.Time { return frozen }

	require.NoError(t, svc.LockSeats(context.Background(), scheduleID.String(), []string{seatID.String()}))
	repo.AssertExpectations(t)
}
