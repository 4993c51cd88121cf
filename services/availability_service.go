package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"hotel-booking-backend/models"
	"hotel-booking-backend/utils"

	"gorm.io/gorm"
)

// AvailabilityService decides whether rooms can be booked for a date range
// and prices stays. Overlap checks use half-open [checkIn, checkOut)
// intervals, so back-to-back stays on the turnover day never collide.
type AvailabilityService struct {
	DB *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{DB: db}
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// ParseDate accepts either a plain date or an RFC3339 timestamp.
func ParseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// ComputeStay parses both dates and returns the night count, the ceiling
// of whole days between the two instants. A zero or negative duration is
// rejected, never rounded up.
func (s *AvailabilityService) ComputeStay(checkIn, checkOut string) (time.Time, time.Time, int, error) {
	ci, err := ParseDate(checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, 0, utils.NewInvalidDateRange("invalid check-in date")
	}
	co, err := ParseDate(checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, 0, utils.NewInvalidDateRange("invalid check-out date")
	}

	nights := int(math.Ceil(co.Sub(ci).Hours() / 24))
	if nights <= 0 {
		return time.Time{}, time.Time{}, 0, utils.NewInvalidDateRange("check-out date must be after check-in date")
	}
	return ci, co, nights, nil
}

// NightsBetween recomputes the night count for already-parsed dates.
func NightsBetween(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

// PriceStay sums basePrice x nights across the supplied rooms. Seasonal
// overrides and discounts on the room are intentionally not applied.
func (s *AvailabilityService) PriceStay(rooms []models.Room, totalNights int) float64 {
	var total float64
	for _, room := range rooms {
		total += room.Rates.BasePrice * float64(totalNights)
	}
	return total
}

// ValidateRoomSelection resolves every id, preserving input order. An
// empty selection is invalid; the first unresolved id fails the lookup.
func (s *AvailabilityService) ValidateRoomSelection(roomIDs []uint) ([]models.Room, error) {
	if len(roomIDs) == 0 {
		return nil, utils.NewInvalidInput("at least one room is required")
	}

	var found []models.Room
	if err := s.DB.Where("id IN ?", roomIDs).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve rooms: %w", err)
	}
	return orderRoomsByRequest(found, roomIDs)
}

// orderRoomsByRequest reorders found rooms to match roomIDs, failing on
// the first id without a match.
func orderRoomsByRequest(found []models.Room, roomIDs []uint) ([]models.Room, error) {
	byID := make(map[uint]models.Room, len(found))
	for _, room := range found {
		byID[room.ID] = room
	}

	rooms := make([]models.Room, 0, len(roomIDs))
	for _, id := range roomIDs {
		room, ok := byID[id]
		if !ok {
			return nil, utils.NewNotFound(fmt.Sprintf("room %d not found", id))
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

// CountOverlapping counts active bookings holding the given room over the
// half-open interval [checkIn, checkOut). excludeBookingID skips the
// booking being updated; pass 0 on create.
func (s *AvailabilityService) CountOverlapping(tx *gorm.DB, roomID uint, checkIn, checkOut time.Time, excludeBookingID uint) (int64, error) {
	var count int64
	q := tx.Model(&models.Booking{}).
		Joins("JOIN booking_rooms ON booking_rooms.booking_id = bookings.id AND booking_rooms.deleted_at IS NULL").
		Where("booking_rooms.room_id = ?", roomID).
		Where("bookings.status IN ?", models.ActiveBookingStatuses).
		Where("bookings.check_in_date < ? AND bookings.check_out_date > ?", checkOut, checkIn)
	if excludeBookingID != 0 {
		q = q.Where("bookings.id <> ?", excludeBookingID)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count overlapping bookings: %w", err)
	}
	return count, nil
}

// IsRoomAvailable reports whether the room can take one more booking for
// the interval: its availability flag must be on and the active overlap
// count strictly below roomCount.
func (s *AvailabilityService) IsRoomAvailable(roomID uint, checkIn, checkOut time.Time) (bool, error) {
	var room models.Room
	if err := s.DB.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, utils.NewNotFound(fmt.Sprintf("room %d not found", roomID))
		}
		return false, fmt.Errorf("failed to load room %d: %w", roomID, err)
	}

	if !room.IsAvailable {
		return false, nil
	}

	count, err := s.CountOverlapping(s.DB, roomID, checkIn, checkOut, 0)
	if err != nil {
		return false, err
	}
	return count < int64(room.RoomCount), nil
}
