package reclaimer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"busline/internal/bookings"
	"busline/internal/seats"
	"busline/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:reclaimer_test_%s?mode=memory&cache=shared&_busy_timeout=5000", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&seats.Seat{}, &bookings.Booking{}, &bookings.BookingSeat{}, &bookings.Passenger{}))
	return db
}

func newSweeper(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	return newSweeperWithPublisher(t, db, nil)
}

func newSweeperWithPublisher(t *testing.T, db *gorm.DB, publisher EventPublisher) Service {
	t.Helper()
	svc := NewService(NewRepository(db), nil, publisher, Config{
		SeatLockTTL: 10 * time.Minute,
		BookingTTL:  15 * time.Minute,
	}, logger.GetDefault()).(*service)
	svc.now = func() time.Time { return testNow }
	return svc
}

type capturingPublisher struct {
	bookingIDs []uuid.UUID
}

func (p *capturingPublisher) PublishReclaimEvent(ctx context.Context, bookingID, scheduleID uuid.UUID) error {
	p.bookingIDs = append(p.bookingIDs, bookingID)
	return nil
}

func createSeat(t *testing.T, db *gorm.DB, scheduleID uuid.UUID, number string, status seats.SeatStatus, lockedAgo time.Duration) seats.Seat {
	t.Helper()
	seat := seats.Seat{
		ScheduleID: scheduleID,
		SeatNumber: number,
		Row:        1,
		Column:     1,
		SeatType:   seats.TypeWindow,
		Price:      500,
		Status:     status,
	}
	if status == seats.StatusReserved {
		lockedAt := testNow.Add(-lockedAgo)
		seat.LockedAt = &lockedAt
	}
	require.NoError(t, db.Create(&seat).Error)
	return seat
}

func createBooking(t *testing.T, db *gorm.DB, scheduleID uuid.UUID, status bookings.Status, createdAgo time.Duration, seatIDs ...uuid.UUID) bookings.Booking {
	t.Helper()
	booking := bookings.Booking{
		UserID:        uuid.New(),
		ScheduleID:    scheduleID,
		Status:        status,
		PaymentStatus: bookings.PaymentStatusPending,
		TotalAmount:   500,
		Active:        true,
		BookedAt:      testNow.Add(-createdAgo),
		CreatedAt:     testNow.Add(-createdAgo),
	}
	for i, seatID := range seatIDs {
		booking.Seats = append(booking.Seats, bookings.BookingSeat{
			SeatID:          seatID,
			SeatNumber:      fmt.Sprintf("%02d", i+1),
			Price:           500,
			PassengerName:   "Asha Rao",
			PassengerAge:    30,
			PassengerGender: "FEMALE",
			PassengerPhone:  "9876543210",
			PassengerEmail:  "asha@example.com",
		})
	}
	require.NoError(t, db.Create(&booking).Error)
	return booking
}

func seatStatus(t *testing.T, db *gorm.DB, id uuid.UUID) seats.Seat {
	t.Helper()
	var seat seats.Seat
	require.NoError(t, db.First(&seat, "id = ?", id).Error)
	return seat
}

func TestSweepExpiredBookings(t *testing.T) {
	db := setupTestDB(t)
	scheduleID := uuid.New()

	staleSeat := createSeat(t, db, scheduleID, "01", seats.StatusReserved, 20*time.Minute)
	stale := createBooking(t, db, scheduleID, bookings.StatusPending, 20*time.Minute, staleSeat.ID)

	freshSeat := createSeat(t, db, scheduleID, "02", seats.StatusReserved, 5*time.Minute)
	fresh := createBooking(t, db, scheduleID, bookings.StatusPending, 5*time.Minute, freshSeat.ID)

	svc := newSweeper(t, db)
	reclaimed, err := svc.SweepExpiredBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, reclaimed)

	var staleAfter bookings.Booking
	require.NoError(t, db.First(&staleAfter, "id = ?", stale.ID).Error)
	assert.Equal(t, bookings.StatusCancelled, staleAfter.Status)
	assert.False(t, staleAfter.Active)

	var freshAfter bookings.Booking
	require.NoError(t, db.First(&freshAfter, "id = ?", fresh.ID).Error)
	assert.Equal(t, bookings.StatusPending, freshAfter.Status)

	assert.Equal(t, seats.StatusAvailable, seatStatus(t, db, staleSeat.ID).Status)
	assert.Equal(t, seats.StatusReserved, seatStatus(t, db, freshSeat.ID).Status)
}

func TestSweepExpiredBookingsSkipsOtherStatuses(t *testing.T) {
	db := setupTestDB(t)
	scheduleID := uuid.New()

	confirmed := createBooking(t, db, scheduleID, bookings.StatusConfirmed, 30*time.Minute)
	failed := createBooking(t, db, scheduleID, bookings.StatusPaymentFailed, 30*time.Minute)

	svc := newSweeper(t, db)
	reclaimed, err := svc.SweepExpiredBookings(context.Background())
	require.NoError(t, err)
	assert.Zero(t, reclaimed)

	var after bookings.Booking
	require.NoError(t, db.First(&after, "id = ?", confirmed.ID).Error)
	assert.Equal(t, bookings.StatusConfirmed, after.Status)
	after = bookings.Booking{}
	require.NoError(t, db.First(&after, "id = ?", failed.ID).Error)
	assert.Equal(t, bookings.StatusPaymentFailed, after.Status)
}

func TestSweepExpiredSeatsReleasesOrphanLocks(t *testing.T) {
	db := setupTestDB(t)
	scheduleID := uuid.New()

	// Locked 12 minutes ago with no booking behind it.
	orphan := createSeat(t, db, scheduleID, "01", seats.StatusReserved, 12*time.Minute)
	// Locked 5 minutes ago, still inside the seat TTL.
	recent := createSeat(t, db, scheduleID, "02", seats.StatusReserved, 5*time.Minute)
	booked := createSeat(t, db, scheduleID, "03", seats.StatusBooked, 0)

	svc := newSweeper(t, db)
	reclaimed, err := svc.SweepExpiredSeats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, reclaimed)

	orphanAfter := seatStatus(t, db, orphan.ID)
	assert.Equal(t, seats.StatusAvailable, orphanAfter.Status)
	assert.Nil(t, orphanAfter.LockedAt)
	assert.Equal(t, seats.StatusReserved, seatStatus(t, db, recent.ID).Status)
	assert.Equal(t, seats.StatusBooked, seatStatus(t, db, booked.ID).Status)
}

func TestSweepExpiredSeatsIgnoresBookingAge(t *testing.T) {
	db := setupTestDB(t)
	scheduleID := uuid.New()

	// The seat lock is past the 10-minute seat TTL even though the PENDING
	// booking behind it is only 12 minutes old. The seat is released anyway;
	// the booking stays PENDING until its own 15-minute sweep catches it.
	seat := createSeat(t, db, scheduleID, "01", seats.StatusReserved, 12*time.Minute)
	booking := createBooking(t, db, scheduleID, bookings.StatusPending, 12*time.Minute, seat.ID)

	svc := newSweeper(t, db)
	reclaimed, err := svc.SweepExpiredSeats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, reclaimed)

	assert.Equal(t, seats.StatusAvailable, seatStatus(t, db, seat.ID).Status)

	var after bookings.Booking
	require.NoError(t, db.First(&after, "id = ?", booking.ID).Error)
	assert.Equal(t, bookings.StatusPending, after.Status)
}

func TestSweepExpiredSeatsSkipsSettlingBooking(t *testing.T) {
	db := setupTestDB(t)
	scheduleID := uuid.New()

	// A PAYMENT_PENDING booking has a gateway charge in flight; its seat
	// stays RESERVED no matter how old the lock is.
	settling := createSeat(t, db, scheduleID, "01", seats.StatusReserved, 12*time.Minute)
	createBooking(t, db, scheduleID, bookings.StatusPaymentPending, 12*time.Minute, settling.ID)

	failed := createSeat(t, db, scheduleID, "02", seats.StatusReserved, 12*time.Minute)
	createBooking(t, db, scheduleID, bookings.StatusPaymentFailed, 12*time.Minute, failed.ID)

	svc := newSweeper(t, db)
	reclaimed, err := svc.SweepExpiredSeats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, reclaimed)

	assert.Equal(t, seats.StatusReserved, seatStatus(t, db, settling.ID).Status)
	assert.Equal(t, seats.StatusAvailable, seatStatus(t, db, failed.ID).Status)
}

func TestSweepExpiredBookingsPublishesReclaimEvents(t *testing.T) {
	db := setupTestDB(t)
	scheduleID := uuid.New()

	staleSeat := createSeat(t, db, scheduleID, "01", seats.StatusReserved, 20*time.Minute)
	stale := createBooking(t, db, scheduleID, bookings.StatusPending, 20*time.Minute, staleSeat.ID)
	freshSeat := createSeat(t, db, scheduleID, "02", seats.StatusReserved, 5*time.Minute)
	createBooking(t, db, scheduleID, bookings.StatusPending, 5*time.Minute, freshSeat.ID)

	publisher := &capturingPublisher{}
	svc := newSweeperWithPublisher(t, db, publisher)
	reclaimed, err := svc.SweepExpiredBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, reclaimed)

	require.Len(t, publisher.bookingIDs, 1)
	assert.Equal(t, stale.ID, publisher.bookingIDs[0])
}

func TestRunNow(t *testing.T) {
	db := setupTestDB(t)
	scheduleID := uuid.New()

	staleSeat := createSeat(t, db, scheduleID, "01", seats.StatusReserved, 20*time.Minute)
	createBooking(t, db, scheduleID, bookings.StatusPending, 20*time.Minute, staleSeat.ID)
	orphan := createSeat(t, db, scheduleID, "02", seats.StatusReserved, 12*time.Minute)

	svc := newSweeper(t, db)
	report, err := svc.RunNow(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.BookingsReclaimed)
	assert.Equal(t, 1, report.SeatsReclaimed)
	assert.Equal(t, testNow, report.RanAt)

	assert.Equal(t, seats.StatusAvailable, seatStatus(t, db, staleSeat.ID).Status)
	assert.Equal(t, seats.StatusAvailable, seatStatus(t, db, orphan.ID).Status)
}

func TestRunNowIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	scheduleID := uuid.New()

	staleSeat := createSeat(t, db, scheduleID, "01", seats.StatusReserved, 20*time.Minute)
	createBooking(t, db, scheduleID, bookings.StatusPending, 20*time.Minute, staleSeat.ID)

	svc := newSweeper(t, db)
	first, err := svc.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.BookingsReclaimed)

	second, err := svc.RunNow(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.BookingsReclaimed)
	assert.Zero(t, second.SeatsReclaimed)
}
