package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Rates is embedded into Room. SeasonalPricing and the discount fields are
// stored but not applied when pricing a stay; BasePrice is always used.
type Rates struct {
	BasePrice          float64        `json:"basePrice" gorm:"column:base_price"`
	Currency           string         `json:"currency" gorm:"column:currency;size:8;default:USD"`
	SeasonalPricing    datatypes.JSON `json:"seasonalPricing,omitempty" gorm:"column:seasonal_pricing"`
	DiscountPercentage *float64       `json:"discountPercentage,omitempty" gorm:"column:discount_percentage"`
	DiscountAmount     *float64       `json:"discountAmount,omitempty" gorm:"column:discount_amount"`
}

// SeasonalPrice is the element shape serialized into Rates.SeasonalPricing.
type SeasonalPrice struct {
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	Price     float64 `json:"price"`
}

type Room struct {
	gorm.Model

	Name         string `json:"name" gorm:"uniqueIndex;size:100"`
	Description  string `json:"description" gorm:"type:text"`
	Type         string `json:"type" gorm:"size:50"`
	MaxOccupancy int    `json:"maxOccupancy" gorm:"column:max_occupancy"`
	Size         string `json:"size,omitempty" gorm:"size:50"`
	BedType      string `json:"bedType,omitempty" gorm:"column:bed_type;size:50"`

	Rates Rates `json:"rates" gorm:"embedded;embeddedPrefix:rate_"`

	Images datatypes.JSON `json:"images,omitempty"`

	// No column defaults here; the room service fills in available=true
	// and a single unit on create, so an explicit false or 0 persists.
	IsAvailable bool `json:"isAvailable" gorm:"column:is_available"`
	RoomCount   int  `json:"roomCount" gorm:"column:room_count"`
}
