package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-booking-backend/config"
	"hotel-booking-backend/models"
	"hotel-booking-backend/utils"
)

func newBookingService(t *testing.T) (*BookingService, sqlmock.Sqlmock, func()) {
	t.Helper()
	gdb, mock, cleanup := newMockDB(t)
	availability := NewAvailabilityService(gdb)
	cfg := &config.Config{DefaultCurrency: "USD", DefaultPaymentMethod: "cash"}
	return NewBookingService(gdb, availability, cfg), mock, cleanup
}

func TestValidateStatusTransition(t *testing.T) {
	allowed := [][2]string{
		{models.BookingStatusPending, models.BookingStatusConfirmed},
		{models.BookingStatusPending, models.BookingStatusCancelled},
		{models.BookingStatusConfirmed, models.BookingStatusCompleted},
		{models.BookingStatusConfirmed, models.BookingStatusCancelled},
		{models.BookingStatusConfirmed, models.BookingStatusNoShow},
		{models.BookingStatusPending, models.BookingStatusPending},
		{models.BookingStatusCompleted, models.BookingStatusCompleted},
	}
	for _, pair := range allowed {
		assert.NoError(t, ValidateStatusTransition(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}

	denied := [][2]string{
		{models.BookingStatusPending, models.BookingStatusCompleted},
		{models.BookingStatusPending, models.BookingStatusNoShow},
		{models.BookingStatusCancelled, models.BookingStatusConfirmed},
		{models.BookingStatusCompleted, models.BookingStatusPending},
		{models.BookingStatusNoShow, models.BookingStatusConfirmed},
	}
	for _, pair := range denied {
		err := ValidateStatusTransition(pair[0], pair[1])
		require.Error(t, err, "%s -> %s", pair[0], pair[1])
		appErr, ok := utils.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "error.invalidTransition", appErr.Code)
	}

	err := ValidateStatusTransition(models.BookingStatusPending, "checked-in")
	require.Error(t, err)
	appErr, ok := utils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "error.invalidInput", appErr.Code)
}

func TestUniqueRoomIDs(t *testing.T) {
	assert.Equal(t, []uint{3, 1, 2}, uniqueRoomIDs([]uint{3, 1, 3, 2, 1}))
	assert.Empty(t, uniqueRoomIDs([]uint{0, 0}))
}

func validCreateInput() CreateBookingInput {
	return CreateBookingInput{
		RoomIDs:  []uint{1},
		Guest:    models.Guest{Name: "John Doe", Email: "john@example.com", Phone: "+1555000111"},
		CheckIn:  "2024-01-10",
		CheckOut: "2024-01-12",
	}
}

func TestCreateBooking_InputValidation(t *testing.T) {
	svc, _, cleanup := newBookingService(t)
	defer cleanup()

	t.Run("empty room list", func(t *testing.T) {
		input := validCreateInput()
		input.RoomIDs = nil
		_, err := svc.Create(input)
		appErr, ok := utils.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "error.invalidInput", appErr.Code)
	})

	t.Run("missing guest email", func(t *testing.T) {
		input := validCreateInput()
		input.Guest.Email = ""
		_, err := svc.Create(input)
		appErr, ok := utils.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "error.invalidInput", appErr.Code)
	})

	t.Run("check-out before check-in", func(t *testing.T) {
		input := validCreateInput()
		input.CheckIn, input.CheckOut = input.CheckOut, input.CheckIn
		_, err := svc.Create(input)
		appErr, ok := utils.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "error.invalidDateRange", appErr.Code)
	})

	t.Run("unknown status", func(t *testing.T) {
		input := validCreateInput()
		input.Status = "checked-in"
		_, err := svc.Create(input)
		appErr, ok := utils.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "error.invalidInput", appErr.Code)
	})

	t.Run("unknown payment method", func(t *testing.T) {
		input := validCreateInput()
		input.Payment = &models.Payment{Method: "crypto"}
		_, err := svc.Create(input)
		appErr, ok := utils.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "error.invalidInput", appErr.Code)
	})
}

func lockedRoomRows(price float64, count int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "is_available", "room_count", "rate_base_price"}).
		AddRow(1, "101", true, count, price)
}

// The capacity re-check runs under the room row lock, so a full room
// rolls the transaction back with a conflict instead of overbooking.
func TestCreateBooking_CapacityConflict(t *testing.T) {
	svc, mock, cleanup := newBookingService(t)
	defer cleanup()

	mock.ExpectQuery("SELECT \\* FROM `rooms`").
		WillReturnRows(lockedRoomRows(100, 1))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `rooms`.+FOR UPDATE").
		WillReturnRows(lockedRoomRows(100, 1))
	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err := svc.Create(validCreateInput())
	require.Error(t, err)
	appErr, ok := utils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "error.conflict", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Unknown rooms are rejected before any transaction is opened, so no
// row locks are taken for a selection that cannot resolve.
func TestCreateBooking_UnknownRoom(t *testing.T) {
	svc, mock, cleanup := newBookingService(t)
	defer cleanup()

	mock.ExpectQuery("SELECT \\* FROM `rooms`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Create(validCreateInput())
	require.Error(t, err)
	appErr, ok := utils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "error.notFound", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_Success(t *testing.T) {
	svc, mock, cleanup := newBookingService(t)
	defer cleanup()

	// pre-transaction room resolution
	mock.ExpectQuery("SELECT \\* FROM `rooms`").
		WillReturnRows(lockedRoomRows(100, 1))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `rooms`.+FOR UPDATE").
		WillReturnRows(lockedRoomRows(100, 1))
	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `bookings`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO `booking_rooms`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	// reload with relations
	mock.ExpectQuery("SELECT \\* FROM `bookings`").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "status", "total_nights", "total_amount",
			"guest_name", "guest_email", "payment_amount", "payment_currency", "payment_method", "payment_status",
		}).AddRow(7, "pending", 2, 200.0, "John Doe", "john@example.com", 200.0, "USD", "cash", "pending"))
	mock.ExpectQuery("SELECT \\* FROM `booking_rooms`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "room_id", "position"}).
			AddRow(1, 7, 1, 0))
	mock.ExpectQuery("SELECT \\* FROM `rooms`").
		WillReturnRows(lockedRoomRows(100, 1))

	view, err := svc.Create(validCreateInput())
	require.NoError(t, err)
	assert.Equal(t, uint(7), view.ID)
	assert.Equal(t, models.BookingStatusPending, view.Status)
	assert.Equal(t, 2, view.TotalNights)
	assert.Equal(t, 200.0, view.TotalAmount)
	assert.Equal(t, "cash", view.Payment.Method)
	assert.False(t, view.IsRegisteredUser)
	require.Len(t, view.Rooms, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func existingBookingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "status", "check_in_date", "check_out_date", "total_nights", "total_amount",
		"guest_name", "guest_email", "guest_phone",
	}).AddRow(5, "pending",
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
		2, 300.0, "Jane Doe", "jane@example.com", "+1555000222")
}

func expectLoadBooking(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT \\* FROM `bookings`").WillReturnRows(existingBookingRows())
	mock.ExpectQuery("SELECT \\* FROM `booking_rooms`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "room_id", "position"}).
			AddRow(1, 5, 2, 0))
	mock.ExpectQuery("SELECT \\* FROM `rooms`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "is_available", "room_count", "rate_base_price"}).
			AddRow(2, "102", true, 3, 150.0))
}

// Changing only the check-out date reprices against the booking's current
// rooms; the room links are left untouched.
func TestUpdateBooking_DatesOnlyReprices(t *testing.T) {
	svc, mock, cleanup := newBookingService(t)
	defer cleanup()

	expectLoadBooking(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `rooms`.+FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "is_available", "room_count", "rate_base_price"}).
			AddRow(2, "102", true, 3, 150.0))
	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("UPDATE `bookings` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// reload
	mock.ExpectQuery("SELECT \\* FROM `bookings`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "total_nights", "total_amount"}).
			AddRow(5, "pending", 3, 450.0))
	mock.ExpectQuery("SELECT \\* FROM `booking_rooms`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "room_id", "position"}).
			AddRow(1, 5, 2, 0))
	mock.ExpectQuery("SELECT \\* FROM `rooms`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(2, "102"))

	view, err := svc.Update(5, UpdateBookingInput{CheckOut: "2024-01-13"})
	require.NoError(t, err)
	assert.Equal(t, 3, view.TotalNights)
	assert.Equal(t, 450.0, view.TotalAmount)
	require.Len(t, view.Rooms, 1)
	assert.Equal(t, uint(2), view.Rooms[0].RoomID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBooking_InvalidTransition(t *testing.T) {
	svc, mock, cleanup := newBookingService(t)
	defer cleanup()

	expectLoadBooking(mock)

	_, err := svc.Update(5, UpdateBookingInput{Status: models.BookingStatusCompleted})
	require.Error(t, err)
	appErr, ok := utils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "error.invalidTransition", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBooking_MergedDatesInconsistent(t *testing.T) {
	svc, mock, cleanup := newBookingService(t)
	defer cleanup()

	expectLoadBooking(mock)

	// new check-in lands after the stored check-out
	_, err := svc.Update(5, UpdateBookingInput{CheckIn: "2024-01-20"})
	require.Error(t, err)
	appErr, ok := utils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "error.invalidDateRange", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBooking_NotFound(t *testing.T) {
	svc, mock, cleanup := newBookingService(t)
	defer cleanup()

	mock.ExpectQuery("SELECT \\* FROM `bookings`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Update(99, UpdateBookingInput{})
	require.Error(t, err)
	appErr, ok := utils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "error.notFound", appErr.Code)
}

func TestDeleteBooking(t *testing.T) {
	t.Run("removes booking and links", func(t *testing.T) {
		svc, mock, cleanup := newBookingService(t)
		defer cleanup()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT \\* FROM `bookings`").
			WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(5, "pending"))
		mock.ExpectExec("DELETE FROM `booking_rooms`").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM `bookings`").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, svc.Delete(5))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing booking", func(t *testing.T) {
		svc, mock, cleanup := newBookingService(t)
		defer cleanup()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT \\* FROM `bookings`").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		err := svc.Delete(99)
		require.Error(t, err)
		appErr, ok := utils.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "error.notFound", appErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListByGuestEmail_RequiresEmail(t *testing.T) {
	svc, _, cleanup := newBookingService(t)
	defer cleanup()

	_, err := svc.ListByGuestEmail("")
	require.Error(t, err)
	appErr, ok := utils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "error.invalidInput", appErr.Code)
}
