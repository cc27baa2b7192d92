package bookings

import (
	"context"
	"testing"
	"time"

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

func (m *MockRepository) Create(ctx context.Context, booking *Booking, lockedAt time.Time) error {
	args := m.Called(ctx, booking, lockedAt)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockRepository) Cancel(ctx context.Context, booking *Booking, seatIDs []uuid.UUID) error {
	args := m.Called(ctx, booking, seatIDs)
	return args.Error(0)
}

func (m *MockRepository) ReleaseBookingSeats(ctx context.Context, booking *Booking, seatIDs []uuid.UUID) (int64, error) {
	args := m.Called(ctx, booking, seatIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ScheduleExists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockSeatService struct {
	mock.Mock
}

func (m *MockSeatService) GetSeatsForBooking(ctx context.Context, scheduleID string, seatIDs []string) ([]SeatInfo, error) {
	args := m.Called(ctx, scheduleID, seatIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]SeatInfo), args.Error(1)
}

func (m *MockSeatService) InvalidateScheduleCache(ctx context.Context, scheduleID string) {
	m.Called(ctx, scheduleID)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishBookingEvent(ctx context.Context, eventType string, booking *Booking) error {
	args := m.Called(ctx, eventType, booking)
	return args.Error(0)
}

func newTestService(repo Repository, seatSvc SeatService) Service {
	return NewService(repo, seatSvc, nil, logger.GetDefault())
}

// allowReferences stubs the user and schedule existence checks to pass.
func allowReferences(repo *MockRepository) {
	repo.On("UserExists", mock.Anything, mock.Anything).Return(true, nil)
	repo.On("ScheduleExists", mock.Anything, mock.Anything).Return(true, nil)
}

func validRequest(scheduleID string, seatIDs []string) CreateBookingRequest {
	passengers := make([]PassengerRequest, len(seatIDs))
	for i := range seatIDs {
		passengers[i] = PassengerRequest{
			Name:   "Asha Rao",
			Age:    30 + i,
			Gender: "female",
			Phone:  "+91 98765 43210",
			Email:  "Asha.Rao@Example.com",
		}
	}
	return CreateBookingRequest{
		ScheduleID: scheduleID,
		SeatIDs:    seatIDs,
		Passengers: passengers,
	}
}

/* ==================== TESTS ==================== */

func TestCreateBooking(t *testing.T) {
	repo := new(MockRepository)
	seatSvc := new(MockSeatService)
	scheduleID := uuid.New()
	seatIDs := []uuid.UUID{uuid.New(), uuid.New()}
	rawIDs := []string{seatIDs[0].String(), seatIDs[1].String()}

	seatSvc.On("GetSeatsForBooking", mock.Anything, scheduleID.String(), rawIDs).Return([]SeatInfo{
		{ID: rawIDs[0], SeatNumber: "01", Price: 575.50, Status: "AVAILABLE"},
		{ID: rawIDs[1], SeatNumber: "02", Price: 550.25, Status: "AVAILABLE"},
	}, nil)
	seatSvc.On("InvalidateScheduleCache", mock.Anything, scheduleID.String()).Return()
	allowReferences(repo)
	repo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	userID := uuid.New()
	svc := newTestService(repo, seatSvc)
	booking, err := svc.CreateBooking(context.Background(), userID, validRequest(scheduleID.String(), rawIDs))
	require.NoError(t, err)

	assert.Equal(t, userID, booking.UserID)
	assert.Equal(t, scheduleID, booking.ScheduleID)
	assert.Equal(t, StatusPending, booking.Status)
	assert.Equal(t, PaymentStatusPending, booking.PaymentStatus)
	assert.Equal(t, 1125.75, booking.TotalAmount)

	require.Len(t, booking.Seats, 2)
	assert.Equal(t, "01", booking.Seats[0].SeatNumber)
	assert.Equal(t, 575.50, booking.Seats[0].Price)

	require.Len(t, booking.Passengers, 2)
	for i, p := range booking.Passengers {
		assert.NotEmpty(t, p.UID)
		assert.Equal(t, "9876543210", p.Phone)
		assert.Equal(t, "FEMALE", p.Gender)
		assert.Equal(t, "asha.rao@example.com", p.Email)
		assert.Equal(t, seatIDs[i], p.SeatID)
	}

	// Each booking seat carries its rider's snapshot: passenger i on seat i.
	for i, bs := range booking.Seats {
		assert.Equal(t, seatIDs[i], bs.SeatID)
		assert.Equal(t, "Asha Rao", bs.PassengerName)
		assert.Equal(t, 30+i, bs.PassengerAge)
		assert.Equal(t, "asha.rao@example.com", bs.PassengerEmail)
	}

	repo.AssertExpectations(t)
	seatSvc.AssertExpectations(t)
}

func TestCreateBookingPassengerCountMismatch(t *testing.T) {
	svc := newTestService(new(MockRepository), new(MockSeatService))
	req := validRequest(uuid.New().String(), []string{uuid.New().String(), uuid.New().String()})
	req.Passengers = req.Passengers[:1]

	_, err := svc.CreateBooking(context.Background(), uuid.New(), req)
	assert.ErrorContains(t, err, "one passenger per seat")
}

func TestCreateBookingValidation(t *testing.T) {
	svc := newTestService(new(MockRepository), new(MockSeatService))
	scheduleID := uuid.New().String()
	seatID := uuid.New().String()

	tests := []struct {
		name   string
		mutate func(*CreateBookingRequest)
		want   string
	}{
		{"empty name", func(r *CreateBookingRequest) { r.Passengers[0].Name = "   " }, "name is required"},
		{"age too low", func(r *CreateBookingRequest) { r.Passengers[0].Age = 0 }, "age must be between"},
		{"age too high", func(r *CreateBookingRequest) { r.Passengers[0].Age = 121 }, "age must be between"},
		{"empty gender", func(r *CreateBookingRequest) { r.Passengers[0].Gender = "" }, "gender is required"},
		{"short phone", func(r *CreateBookingRequest) { r.Passengers[0].Phone = "12345" }, "at least 10 digits"},
		{"empty email", func(r *CreateBookingRequest) { r.Passengers[0].Email = "  " }, "email is required"},
		{"malformed email", func(r *CreateBookingRequest) { r.Passengers[0].Email = "asha.example.com" }, "is not valid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest(scheduleID, []string{seatID})
			tt.mutate(&req)
			_, err := svc.CreateBooking(context.Background(), uuid.New(), req)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestCreateBookingUnknownUser(t *testing.T) {
	repo := new(MockRepository)
	seatSvc := new(MockSeatService)
	repo.On("UserExists", mock.Anything, mock.Anything).Return(false, nil)

	svc := newTestService(repo, seatSvc)
	_, err := svc.CreateBooking(context.Background(), uuid.New(),
		validRequest(uuid.New().String(), []string{uuid.New().String()}))
	assert.ErrorIs(t, err, ErrUserNotFound)
	seatSvc.AssertNotCalled(t, "GetSeatsForBooking", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBookingUnknownSchedule(t *testing.T) {
	repo := new(MockRepository)
	seatSvc := new(MockSeatService)
	repo.On("UserExists", mock.Anything, mock.Anything).Return(true, nil)
	repo.On("ScheduleExists", mock.Anything, mock.Anything).Return(false, nil)

	svc := newTestService(repo, seatSvc)
	_, err := svc.CreateBooking(context.Background(), uuid.New(),
		validRequest(uuid.New().String(), []string{uuid.New().String()}))
	assert.ErrorIs(t, err, ErrScheduleNotFound)
	seatSvc.AssertNotCalled(t, "GetSeatsForBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBookingRejectsBookedSeat(t *testing.T) {
	repo := new(MockRepository)
	seatSvc := new(MockSeatService)
	scheduleID := uuid.New()
	seatID := uuid.New().String()

	allowReferences(repo)
	seatSvc.On("GetSeatsForBooking", mock.Anything, scheduleID.String(), []string{seatID}).Return([]SeatInfo{
		{ID: seatID, SeatNumber: "01", Price: 500, Status: "BOOKED"},
	}, nil)

	svc := newTestService(repo, seatSvc)
	_, err := svc.CreateBooking(context.Background(), uuid.New(), validRequest(scheduleID.String(), []string{seatID}))
	assert.ErrorIs(t, err, ErrSeatConflict)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBookingPropagatesSeatConflict(t *testing.T) {
	repo := new(MockRepository)
	seatSvc := new(MockSeatService)
	scheduleID := uuid.New()
	seatID := uuid.New().String()

	allowReferences(repo)
	seatSvc.On("GetSeatsForBooking", mock.Anything, scheduleID.String(), []string{seatID}).Return([]SeatInfo{
		{ID: seatID, SeatNumber: "01", Price: 500, Status: "AVAILABLE"},
	}, nil)
	repo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(ErrSeatConflict)

	svc := newTestService(repo, seatSvc)
	_, err := svc.CreateBooking(context.Background(), uuid.New(), validRequest(scheduleID.String(), []string{seatID}))
	assert.ErrorIs(t, err, ErrSeatConflict)
}

func TestCreateBookingUnknownSeat(t *testing.T) {
	repo := new(MockRepository)
	seatSvc := new(MockSeatService)
	scheduleID := uuid.New()
	ids := []string{uuid.New().String(), uuid.New().String()}

	// Seat service resolves only one of the two requested seats.
	allowReferences(repo)
	seatSvc.On("GetSeatsForBooking", mock.Anything, scheduleID.String(), ids).Return([]SeatInfo{
		{ID: ids[0], SeatNumber: "01", Price: 500, Status: "AVAILABLE"},
	}, nil)

	svc := newTestService(repo, seatSvc)
	_, err := svc.CreateBooking(context.Background(), uuid.New(), validRequest(scheduleID.String(), ids))
	assert.ErrorContains(t, err, "do not exist")
}

func TestCancelBooking(t *testing.T) {
	repo := new(MockRepository)
	seatSvc := new(MockSeatService)
	userID := uuid.New()
	bookingID := uuid.New()
	seatID := uuid.New()

	booking := &Booking{
		ID:         bookingID,
		UserID:     userID,
		ScheduleID: uuid.New(),
		Status:     StatusPending,
		Seats:      []BookingSeat{{SeatID: seatID, SeatNumber: "01", Price: 500}},
	}

	repo.On("GetByID", mock.Anything, bookingID).Return(booking, nil)
	repo.On("Cancel", mock.Anything, booking, []uuid.UUID{seatID}).Return(nil)
	seatSvc.On("InvalidateScheduleCache", mock.Anything, booking.ScheduleID.String()).Return()

	svc := newTestService(repo, seatSvc)
	require.NoError(t, svc.CancelBooking(context.Background(), bookingID, userID))
	repo.AssertExpectations(t)
}

func TestCancelBookingNotOwner(t *testing.T) {
	repo := new(MockRepository)
	bookingID := uuid.New()

	repo.On("GetByID", mock.Anything, bookingID).Return(&Booking{
		ID:     bookingID,
		UserID: uuid.New(),
		Status: StatusPending,
	}, nil)

	svc := newTestService(repo, new(MockSeatService))
	err := svc.CancelBooking(context.Background(), bookingID, uuid.New())
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestCancelBookingConfirmedNotCancellable(t *testing.T) {
	repo := new(MockRepository)
	userID := uuid.New()
	bookingID := uuid.New()

	repo.On("GetByID", mock.Anything, bookingID).Return(&Booking{
		ID:     bookingID,
		UserID: userID,
		Status: StatusConfirmed,
	}, nil)

	svc := newTestService(repo, new(MockSeatService))
	err := svc.CancelBooking(context.Background(), bookingID, userID)
	assert.ErrorIs(t, err, ErrNotCancellable)
}

func TestCancelBookingPaymentFailedIsCancellable(t *testing.T) {
	repo := new(MockRepository)
	seatSvc := new(MockSeatService)
	userID := uuid.New()
	bookingID := uuid.New()

	booking := &Booking{
		ID:         bookingID,
		UserID:     userID,
		ScheduleID: uuid.New(),
		Status:     StatusPaymentFailed,
	}
	repo.On("GetByID", mock.Anything, bookingID).Return(booking, nil)
	repo.On("Cancel", mock.Anything, booking, mock.Anything).Return(nil)
	seatSvc.On("InvalidateScheduleCache", mock.Anything, mock.Anything).Return()

	svc := newTestService(repo, seatSvc)
	assert.NoError(t, svc.CancelBooking(context.Background(), bookingID, userID))
}

func TestUnlockBookingSeats(t *testing.T) {
	repo := new(MockRepository)
	seatSvc := new(MockSeatService)
	userID := uuid.New()
	bookingID := uuid.New()
	seatID := uuid.New()

	booking := &Booking{
		ID:         bookingID,
		UserID:     userID,
		ScheduleID: uuid.New(),
		Status:     StatusPending,
		Seats:      []BookingSeat{{SeatID: seatID}},
	}
	repo.On("GetByID", mock.Anything, bookingID).Return(booking, nil)
	repo.On("ReleaseBookingSeats", mock.Anything, booking, []uuid.UUID{seatID}).Return(int64(1), nil)
	seatSvc.On("InvalidateScheduleCache", mock.Anything, booking.ScheduleID.String()).Return()

	svc := newTestService(repo, seatSvc)
	released, err := svc.UnlockBookingSeats(context.Background(), bookingID, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), released)
}

func TestUnlockBookingSeatsRequiresPending(t *testing.T) {
	repo := new(MockRepository)
	userID := uuid.New()
	bookingID := uuid.New()

	repo.On("GetByID", mock.Anything, bookingID).Return(&Booking{
		ID:     bookingID,
		UserID: userID,
		Status: StatusPaymentPending,
	}, nil)

	svc := newTestService(repo, new(MockSeatService))
	_, err := svc.UnlockBookingSeats(context.Background(), bookingID, userID)
	assert.ErrorIs(t, err, ErrNotPending)
}
