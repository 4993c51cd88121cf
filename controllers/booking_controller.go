// controllers/booking_controller.go
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"hotel-booking-backend/middleware"
	"hotel-booking-backend/models"
	"hotel-booking-backend/services"
	"hotel-booking-backend/utils"

	"github.com/gin-gonic/gin"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type GuestPayload struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone" binding:"required"`
	SpecialRequests string `json:"specialRequests"`
}

type PaymentPayload struct {
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	Method        string     `json:"method"`
	Status        string     `json:"status"`
	TransactionID string     `json:"transactionId"`
	PaymentDate   *time.Time `json:"paymentDate"`
}

func (p *PaymentPayload) toModel() *models.Payment {
	if p == nil {
		return nil
	}
	return &models.Payment{
		Amount:        p.Amount,
		Currency:      p.Currency,
		Method:        p.Method,
		Status:        p.Status,
		TransactionID: p.TransactionID,
		PaymentDate:   p.PaymentDate,
	}
}

type CreateBookingRequest struct {
	Room            []uint          `json:"room" binding:"required"`
	Guest           GuestPayload    `json:"guest" binding:"required"`
	CheckInDate     string          `json:"checkInDate" binding:"required"`
	CheckOutDate    string          `json:"checkOutDate" binding:"required"`
	NumberOfGuests  int             `json:"numberOfGuests"`
	Status          string          `json:"status"`
	Payment         *PaymentPayload `json:"payment"`
	SpecialRequests string          `json:"specialRequests"`
}

type UpdateBookingRequest struct {
	Room            []uint          `json:"room"`
	Guest           *GuestPayload   `json:"guest"`
	CheckInDate     string          `json:"checkInDate"`
	CheckOutDate    string          `json:"checkOutDate"`
	NumberOfGuests  *int            `json:"numberOfGuests"`
	Status          string          `json:"status"`
	Payment         *PaymentPayload `json:"payment"`
	SpecialRequests *string         `json:"specialRequests"`
}

// ---------------------------
// Controller
// ---------------------------

type BookingController struct {
	BookingSvc *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{BookingSvc: svc}
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, utils.NewInvalidInput("invalid id parameter"))
		return 0, false
	}
	return uint(id), true
}

// CreateBooking handles POST /api/bookings. A valid token attaches the
// booking to the user; without one the booking stays a guest booking.
func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, utils.NewInvalidInput("invalid request payload: "+err.Error()))
		return
	}

	input := services.CreateBookingInput{
		RoomIDs: req.Room,
		Guest: models.Guest{
			Name:            req.Guest.Name,
			Email:           req.Guest.Email,
			Phone:           req.Guest.Phone,
			SpecialRequests: req.Guest.SpecialRequests,
		},
		CheckIn:         req.CheckInDate,
		CheckOut:        req.CheckOutDate,
		NumberOfGuests:  req.NumberOfGuests,
		Status:          req.Status,
		Payment:         req.Payment.toModel(),
		SpecialRequests: req.SpecialRequests,
	}
	if userID, ok := middleware.UserIDFromContext(c); ok {
		input.UserID = &userID
	}

	booking, err := ctrl.BookingSvc.Create(input)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"booking": booking})
}

func (ctrl *BookingController) GetBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	booking, err := ctrl.BookingSvc.GetByID(id)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"booking": booking})
}

func (ctrl *BookingController) GetBookings(c *gin.Context) {
	bookings, err := ctrl.BookingSvc.List(c.Request.URL.Query())
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"results": len(bookings), "bookings": bookings})
}

func (ctrl *BookingController) GetBookingsByGuestEmail(c *gin.Context) {
	bookings, err := ctrl.BookingSvc.ListByGuestEmail(c.Param("email"))
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"results": len(bookings), "bookings": bookings})
}

func (ctrl *BookingController) UpdateBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, utils.NewInvalidInput("invalid request payload: "+err.Error()))
		return
	}

	input := services.UpdateBookingInput{
		RoomIDs:         req.Room,
		CheckIn:         req.CheckInDate,
		CheckOut:        req.CheckOutDate,
		NumberOfGuests:  req.NumberOfGuests,
		Status:          req.Status,
		Payment:         req.Payment.toModel(),
		SpecialRequests: req.SpecialRequests,
	}
	if req.Guest != nil {
		input.Guest = &models.Guest{
			Name:            req.Guest.Name,
			Email:           req.Guest.Email,
			Phone:           req.Guest.Phone,
			SpecialRequests: req.Guest.SpecialRequests,
		}
	}

	booking, err := ctrl.BookingSvc.Update(id, input)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"booking": booking})
}

func (ctrl *BookingController) DeleteBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.BookingSvc.Delete(id); err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}
