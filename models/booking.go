package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking status values. Transitions between them are validated by the
// booking service; the column itself stays a plain string.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
	BookingStatusNoShow    = "no-show"
)

// Payment method values accepted on a booking.
const (
	PaymentMethodCreditCard   = "credit_card"
	PaymentMethodDebitCard    = "debit_card"
	PaymentMethodPaypal       = "paypal"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCash         = "cash"
)

// Payment status values.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Guest is the contact block embedded in a booking. Guest bookings carry
// no User reference, so this is the only identity the hotel has.
type Guest struct {
	Name            string `json:"name" gorm:"column:name;size:255"`
	Email           string `json:"email" gorm:"column:email;size:255;index"`
	Phone           string `json:"phone" gorm:"column:phone;size:50"`
	SpecialRequests string `json:"specialRequests,omitempty" gorm:"column:special_requests;type:text"`
}

// Payment is the embedded payment record. Status is stored, never
// reconciled with a gateway.
type Payment struct {
	Amount        float64    `json:"amount" gorm:"column:amount"`
	Currency      string     `json:"currency" gorm:"column:currency;size:8"`
	Method        string     `json:"method" gorm:"column:method;size:32"`
	Status        string     `json:"status" gorm:"column:status;size:32"`
	TransactionID string     `json:"transactionId,omitempty" gorm:"column:transaction_id;size:64"`
	PaymentDate   *time.Time `json:"paymentDate,omitempty" gorm:"column:payment_date"`
}

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ReferenceCode string `gorm:"column:reference_code;size:64;uniqueIndex" json:"referenceCode,omitempty"`

	// Nullable so guest bookings are allowed.
	UserID *uint `gorm:"column:user_id;index" json:"userId,omitempty"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Guest Guest `gorm:"embedded;embeddedPrefix:guest_" json:"guest"`

	CheckInDate  time.Time `gorm:"column:check_in_date;index" json:"checkInDate"`
	CheckOutDate time.Time `gorm:"column:check_out_date;index" json:"checkOutDate"`

	NumberOfGuests int `gorm:"column:number_of_guests;default:1" json:"numberOfGuests"`

	// Derived on every mutation of rooms or dates, never trusted from input.
	TotalNights int     `gorm:"column:total_nights" json:"totalNights"`
	TotalAmount float64 `gorm:"column:total_amount" json:"totalAmount"`

	Status string `gorm:"column:status;size:32;index" json:"status"`

	Payment Payment `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`

	SpecialRequests string `gorm:"column:special_requests;type:text" json:"specialRequests,omitempty"`

	Rooms []BookingRoom `gorm:"foreignKey:BookingID" json:"rooms"`
}

// IsActive reports whether the booking counts toward room occupancy.
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// ActiveBookingStatuses are the statuses that occupy room capacity.
// Cancelled and no-show bookings never count; completed ones still do.
var ActiveBookingStatuses = []string{BookingStatusPending, BookingStatusConfirmed}
