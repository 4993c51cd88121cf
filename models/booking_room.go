package models

import (
	"gorm.io/gorm"
)

// BookingRoom links a booking to one of its rooms. Position preserves the
// order the rooms were supplied in on create/update.
type BookingRoom struct {
	gorm.Model
	BookingID uint `gorm:"index;column:booking_id" json:"booking_id"`
	RoomID    uint `gorm:"index;column:room_id" json:"room_id"`
	Position  int  `gorm:"column:position;default:0" json:"position"`

	Room Room `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
}
