package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"hotel-booking-backend/config"
	"hotel-booking-backend/models"
	"hotel-booking-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingService orchestrates create/read/update/delete on bookings,
// re-validating and re-pricing through the availability engine on every
// mutation.
type BookingService struct {
	DB           *gorm.DB
	Availability *AvailabilityService

	defaultCurrency      string
	defaultPaymentMethod string
}

func NewBookingService(db *gorm.DB, availability *AvailabilityService, cfg *config.Config) *BookingService {
	return &BookingService{
		DB:                   db,
		Availability:         availability,
		defaultCurrency:      cfg.DefaultCurrency,
		defaultPaymentMethod: cfg.DefaultPaymentMethod,
	}
}

// BookingView decorates a booking with the derived registered-user flag.
type BookingView struct {
	models.Booking
	IsRegisteredUser bool `json:"isRegisteredUser"`
}

func newBookingView(b models.Booking) BookingView {
	return BookingView{Booking: b, IsRegisteredUser: b.UserID != nil}
}

// CreateBookingInput is the write shape for Create.
type CreateBookingInput struct {
	UserID          *uint
	RoomIDs         []uint
	Guest           models.Guest
	CheckIn         string
	CheckOut        string
	NumberOfGuests  int
	Status          string
	Payment         *models.Payment
	SpecialRequests string
}

// UpdateBookingInput carries a partial patch; nil/empty fields keep the
// stored value.
type UpdateBookingInput struct {
	RoomIDs         []uint
	Guest           *models.Guest
	CheckIn         string
	CheckOut        string
	NumberOfGuests  *int
	Status          string
	Payment         *models.Payment
	SpecialRequests *string
}

var allowedTransitions = map[string][]string{
	models.BookingStatusPending:   {models.BookingStatusConfirmed, models.BookingStatusCancelled},
	models.BookingStatusConfirmed: {models.BookingStatusCompleted, models.BookingStatusCancelled, models.BookingStatusNoShow},
}

// ValidateStatusTransition checks the lifecycle graph. Writing the same
// status back is a no-op and always allowed.
func ValidateStatusTransition(from, to string) error {
	if from == to {
		return nil
	}
	if !isValidBookingStatus(to) {
		return utils.NewInvalidInput(fmt.Sprintf("unknown booking status %q", to))
	}
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return utils.NewInvalidTransition(fmt.Sprintf("cannot transition booking from %q to %q", from, to))
}

func isValidBookingStatus(status string) bool {
	switch status {
	case models.BookingStatusPending, models.BookingStatusConfirmed, models.BookingStatusCancelled,
		models.BookingStatusCompleted, models.BookingStatusNoShow:
		return true
	}
	return false
}

func isValidPaymentMethod(method string) bool {
	switch method {
	case models.PaymentMethodCreditCard, models.PaymentMethodDebitCard, models.PaymentMethodPaypal,
		models.PaymentMethodBankTransfer, models.PaymentMethodCash:
		return true
	}
	return false
}

func isValidPaymentStatus(status string) bool {
	switch status {
	case models.PaymentStatusPending, models.PaymentStatusCompleted,
		models.PaymentStatusFailed, models.PaymentStatusRefunded:
		return true
	}
	return false
}

func validateGuest(g models.Guest) error {
	if g.Name == "" {
		return utils.NewInvalidInput("guest name is required")
	}
	if g.Email == "" {
		return utils.NewInvalidInput("guest email is required")
	}
	if g.Phone == "" {
		return utils.NewInvalidInput("guest phone is required")
	}
	return nil
}

func validatePayment(p *models.Payment) error {
	if p == nil {
		return nil
	}
	if p.Amount < 0 {
		return utils.NewInvalidInput("payment amount cannot be negative")
	}
	if p.Method != "" && !isValidPaymentMethod(p.Method) {
		return utils.NewInvalidInput(fmt.Sprintf("unknown payment method %q", p.Method))
	}
	if p.Status != "" && !isValidPaymentStatus(p.Status) {
		return utils.NewInvalidInput(fmt.Sprintf("unknown payment status %q", p.Status))
	}
	return nil
}

// uniqueRoomIDs drops duplicates while keeping first-occurrence order.
// A booking holds a set of rooms; listing one twice must not double-count
// capacity.
func uniqueRoomIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// lockRooms loads the requested rooms under SELECT ... FOR UPDATE,
// locking in ascending id order so concurrent writers cannot deadlock.
// The returned slice follows the input order.
func (s *BookingService) lockRooms(tx *gorm.DB, roomIDs []uint) ([]models.Room, error) {
	sorted := make([]uint, len(roomIDs))
	copy(sorted, roomIDs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var locked []models.Room
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", sorted).
		Order("id").
		Find(&locked).Error; err != nil {
		return nil, fmt.Errorf("failed to lock rooms: %w", err)
	}
	return orderRoomsByRequest(locked, roomIDs)
}

// ensureCapacity re-checks every room's active overlap count under the
// lock. This closes the check-then-act race: two concurrent creates for
// the last unit of a room serialize on the row lock and the loser sees
// the winner's booking.
func (s *BookingService) ensureCapacity(tx *gorm.DB, rooms []models.Room, checkIn, checkOut time.Time, excludeBookingID uint) error {
	for _, room := range rooms {
		if !room.IsAvailable {
			return utils.NewConflict(fmt.Sprintf("room %q is not available for booking", room.Name))
		}
		count, err := s.Availability.CountOverlapping(tx, room.ID, checkIn, checkOut, excludeBookingID)
		if err != nil {
			return err
		}
		if count >= int64(room.RoomCount) {
			return utils.NewConflict(fmt.Sprintf("room %q is fully booked for the requested dates", room.Name))
		}
	}
	return nil
}

// Create validates rooms, dates and guest, prices the stay, enforces
// capacity inside the transaction and persists the booking with its room
// links.
func (s *BookingService) Create(input CreateBookingInput) (*BookingView, error) {
	roomIDs := uniqueRoomIDs(input.RoomIDs)
	if len(roomIDs) == 0 {
		return nil, utils.NewInvalidInput("at least one room is required")
	}
	if err := validateGuest(input.Guest); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = models.BookingStatusPending
	}
	if !isValidBookingStatus(status) {
		return nil, utils.NewInvalidInput(fmt.Sprintf("unknown booking status %q", status))
	}
	if err := validatePayment(input.Payment); err != nil {
		return nil, err
	}

	checkIn, checkOut, totalNights, err := s.Availability.ComputeStay(input.CheckIn, input.CheckOut)
	if err != nil {
		return nil, err
	}

	// Fail unknown rooms before taking row locks.
	if _, err := s.Availability.ValidateRoomSelection(roomIDs); err != nil {
		return nil, err
	}

	numberOfGuests := input.NumberOfGuests
	if numberOfGuests < 1 {
		numberOfGuests = 1
	}

	var bookingID uint
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		rooms, err := s.lockRooms(tx, roomIDs)
		if err != nil {
			return err
		}
		if err := s.ensureCapacity(tx, rooms, checkIn, checkOut, 0); err != nil {
			return err
		}

		totalAmount := s.Availability.PriceStay(rooms, totalNights)

		payment := models.Payment{
			Amount:   totalAmount,
			Currency: s.defaultCurrency,
			Method:   s.defaultPaymentMethod,
			Status:   models.PaymentStatusPending,
		}
		if input.Payment != nil {
			payment = *input.Payment
			if payment.Currency == "" {
				payment.Currency = s.defaultCurrency
			}
			if payment.Method == "" {
				payment.Method = s.defaultPaymentMethod
			}
			if payment.Status == "" {
				payment.Status = models.PaymentStatusPending
			}
		}

		booking := models.Booking{
			ReferenceCode:   uuid.NewString(),
			UserID:          input.UserID,
			Guest:           input.Guest,
			CheckInDate:     checkIn,
			CheckOutDate:    checkOut,
			NumberOfGuests:  numberOfGuests,
			TotalNights:     totalNights,
			TotalAmount:     totalAmount,
			Status:          status,
			Payment:         payment,
			SpecialRequests: input.SpecialRequests,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		bookingID = booking.ID

		for i, room := range rooms {
			br := models.BookingRoom{
				BookingID: booking.ID,
				RoomID:    room.ID,
				Position:  i,
			}
			if err := tx.Create(&br).Error; err != nil {
				return fmt.Errorf("failed to link room %d: %w", room.ID, err)
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.GetByID(bookingID)
}

func (s *BookingService) loadBooking(id uint) (models.Booking, error) {
	var booking models.Booking
	err := s.DB.
		Preload("Rooms", func(db *gorm.DB) *gorm.DB { return db.Order("booking_rooms.position") }).
		Preload("Rooms.Room").
		Preload("User").
		Preload("User.Role").
		First(&booking, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking, utils.NewNotFound("booking not found")
		}
		return booking, fmt.Errorf("failed to retrieve booking: %w", err)
	}
	if booking.Rooms == nil {
		booking.Rooms = []models.BookingRoom{}
	}
	return booking, nil
}

// GetByID resolves the booking with populated rooms and user.
func (s *BookingService) GetByID(id uint) (*BookingView, error) {
	booking, err := s.loadBooking(id)
	if err != nil {
		return nil, err
	}
	view := newBookingView(booking)
	return &view, nil
}

// bookingQueryColumns are the filter/sort/projection columns accepted on
// the list endpoint.
var bookingQueryColumns = map[string]bool{
	"id":             true,
	"status":         true,
	"reference_code": true,
	"user_id":        true,
	"guest_email":    true,
	"check_in_date":  true,
	"check_out_date": true,
	"total_nights":   true,
	"total_amount":   true,
	"created_at":     true,
}

// List applies the caller-supplied query features and decorates each
// result.
func (s *BookingService) List(query map[string][]string) ([]BookingView, error) {
	tx := utils.ApplyQueryFeatures(s.DB.Model(&models.Booking{}), query, bookingQueryColumns)

	var bookings []models.Booking
	if err := tx.
		Preload("Rooms", func(db *gorm.DB) *gorm.DB { return db.Order("booking_rooms.position") }).
		Preload("Rooms.Room").
		Preload("User").
		Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}

	views := make([]BookingView, 0, len(bookings))
	for i := range bookings {
		if bookings[i].Rooms == nil {
			bookings[i].Rooms = []models.BookingRoom{}
		}
		views = append(views, newBookingView(bookings[i]))
	}
	return views, nil
}

// ListByGuestEmail returns every booking whose embedded guest email
// matches exactly, rooms populated, no pagination.
func (s *BookingService) ListByGuestEmail(email string) ([]BookingView, error) {
	if email == "" {
		return nil, utils.NewInvalidInput("guest email is required")
	}

	var bookings []models.Booking
	if err := s.DB.
		Where("guest_email = ?", email).
		Preload("Rooms", func(db *gorm.DB) *gorm.DB { return db.Order("booking_rooms.position") }).
		Preload("Rooms.Room").
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings for %s: %w", email, err)
	}

	views := make([]BookingView, 0, len(bookings))
	for i := range bookings {
		if bookings[i].Rooms == nil {
			bookings[i].Rooms = []models.BookingRoom{}
		}
		views = append(views, newBookingView(bookings[i]))
	}
	return views, nil
}

// Update merges the patch over the stored booking. Supplying rooms
// re-validates and re-prices exactly as Create does; supplying only dates
// re-prices against the booking's current rooms. Both paths re-check
// capacity under row locks, excluding this booking from its own overlap
// count.
func (s *BookingService) Update(id uint, input UpdateBookingInput) (*BookingView, error) {
	existing, err := s.loadBooking(id)
	if err != nil {
		return nil, err
	}

	checkIn := existing.CheckInDate
	checkOut := existing.CheckOutDate
	datesChanged := false
	if input.CheckIn != "" {
		t, err := ParseDate(input.CheckIn)
		if err != nil {
			return nil, utils.NewInvalidDateRange("invalid check-in date")
		}
		checkIn = t
		datesChanged = true
	}
	if input.CheckOut != "" {
		t, err := ParseDate(input.CheckOut)
		if err != nil {
			return nil, utils.NewInvalidDateRange("invalid check-out date")
		}
		checkOut = t
		datesChanged = true
	}
	if !checkOut.After(checkIn) {
		return nil, utils.NewInvalidDateRange("check-out date must be after check-in date")
	}

	if input.Status != "" {
		if err := ValidateStatusTransition(existing.Status, input.Status); err != nil {
			return nil, err
		}
	}
	if input.Guest != nil {
		if err := validateGuest(*input.Guest); err != nil {
			return nil, err
		}
	}
	if err := validatePayment(input.Payment); err != nil {
		return nil, err
	}

	roomsChanged := input.RoomIDs != nil
	var roomIDs []uint
	if roomsChanged {
		roomIDs = uniqueRoomIDs(input.RoomIDs)
		if len(roomIDs) == 0 {
			return nil, utils.NewInvalidInput("at least one room is required")
		}
	} else {
		for _, br := range existing.Rooms {
			roomIDs = append(roomIDs, br.RoomID)
		}
	}

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}

		if roomsChanged || datesChanged {
			rooms, err := s.lockRooms(tx, roomIDs)
			if err != nil {
				return err
			}
			if err := s.ensureCapacity(tx, rooms, checkIn, checkOut, existing.ID); err != nil {
				return err
			}

			totalNights := NightsBetween(checkIn, checkOut)
			totalAmount := s.Availability.PriceStay(rooms, totalNights)

			updates["check_in_date"] = checkIn
			updates["check_out_date"] = checkOut
			updates["total_nights"] = totalNights
			updates["total_amount"] = totalAmount

			if roomsChanged {
				if err := tx.Unscoped().
					Where("booking_id = ?", existing.ID).
					Delete(&models.BookingRoom{}).Error; err != nil {
					return fmt.Errorf("failed to clear booking rooms: %w", err)
				}
				for i, room := range rooms {
					br := models.BookingRoom{BookingID: existing.ID, RoomID: room.ID, Position: i}
					if err := tx.Create(&br).Error; err != nil {
						return fmt.Errorf("failed to link room %d: %w", room.ID, err)
					}
				}
			}
		}

		if input.Status != "" {
			updates["status"] = input.Status
		}
		if input.Guest != nil {
			updates["guest_name"] = input.Guest.Name
			updates["guest_email"] = input.Guest.Email
			updates["guest_phone"] = input.Guest.Phone
			updates["guest_special_requests"] = input.Guest.SpecialRequests
		}
		if input.NumberOfGuests != nil {
			if *input.NumberOfGuests < 1 {
				return utils.NewInvalidInput("numberOfGuests must be at least 1")
			}
			updates["number_of_guests"] = *input.NumberOfGuests
		}
		if input.Payment != nil {
			updates["payment_amount"] = input.Payment.Amount
			updates["payment_currency"] = input.Payment.Currency
			updates["payment_method"] = input.Payment.Method
			updates["payment_status"] = input.Payment.Status
			updates["payment_transaction_id"] = input.Payment.TransactionID
			updates["payment_payment_date"] = input.Payment.PaymentDate
		}
		if input.SpecialRequests != nil {
			updates["special_requests"] = *input.SpecialRequests
		}

		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&models.Booking{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.GetByID(existing.ID)
}

// Delete removes the booking and its room links for good.
func (s *BookingService) Delete(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.First(&booking, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NewNotFound("booking not found")
			}
			return fmt.Errorf("failed to load booking: %w", err)
		}

		if err := tx.Unscoped().Where("booking_id = ?", id).Delete(&models.BookingRoom{}).Error; err != nil {
			return fmt.Errorf("failed to delete booking rooms: %w", err)
		}
		if err := tx.Unscoped().Delete(&models.Booking{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete booking: %w", err)
		}
		return nil
	})
}
