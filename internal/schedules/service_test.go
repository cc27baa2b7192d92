package schedules

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type MockSeatGenerator struct {
	mock.Mock
}

func (m *MockSeatGenerator) GenerateForSchedule(ctx context.Context, scheduleID uuid.UUID, basePrice float64, totalSeats int) error {
	args := m.Called(ctx, scheduleID, basePrice, totalSeats)
	return args.Error(0)
}

func setupTestService(t *testing.T, gen SeatGenerator) Service {
	t.Helper()
	dsn := fmt.Sprintf("file:schedules_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Schedule{}))
	return NewService(NewRepository(db), gen)
}

func demoSchedule() *Schedule {
	return &Schedule{
		BusName:       "Shivneri Express",
		Source:        "Mumbai",
		Destination:   "Pune",
		ScheduleDate:  time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		DepartureTime: "06:30",
		ArrivalTime:   "10:00",
		BasePrice:     550,
		TotalSeats:    40,
		Active:        true,
	}
}

func TestPublishSchedule(t *testing.T) {
	gen := new(MockSeatGenerator)
	gen.On("GenerateForSchedule", mock.Anything, mock.Anything, 550.0, 40).Return(nil)

	svc := setupTestService(t, gen)
	created, err := svc.PublishSchedule(context.Background(), demoSchedule())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	fetched, err := svc.GetSchedule(context.Background(), created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Shivneri Express", fetched.BusName)
	gen.AssertExpectations(t)
}

func TestPublishScheduleRejectsInvalidInput(t *testing.T) {
	svc := setupTestService(t, new(MockSeatGenerator))

	noSeats := demoSchedule()
	noSeats.TotalSeats = 0
	_, err := svc.PublishSchedule(context.Background(), noSeats)
	assert.ErrorContains(t, err, "at least one seat")

	freeRide := demoSchedule()
	freeRide.BasePrice = 0
	_, err = svc.PublishSchedule(context.Background(), freeRide)
	assert.ErrorContains(t, err, "base price")
}

func TestPublishSchedulePropagatesGeneratorFailure(t *testing.T) {
	gen := new(MockSeatGenerator)
	gen.On("GenerateForSchedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("seat creation failed"))

	svc := setupTestService(t, gen)
	_, err := svc.PublishSchedule(context.Background(), demoSchedule())
	assert.ErrorContains(t, err, "failed to generate seats")
}

func TestGetScheduleNotFound(t *testing.T) {
	svc := setupTestService(t, new(MockSeatGenerator))
	_, err := svc.GetSchedule(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListActiveExcludesInactive(t *testing.T) {
	gen := new(MockSeatGenerator)
	gen.On("GenerateForSchedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := setupTestService(t, gen)
	active := demoSchedule()
	_, err := svc.PublishSchedule(context.Background(), active)
	require.NoError(t, err)

	inactive := demoSchedule()
	inactive.BusName = "Retired Coach"
	inactive.Active = false
	_, err = svc.PublishSchedule(context.Background(), inactive)
	require.NoError(t, err)

	list, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Shivneri Express", list[0].BusName)
}
