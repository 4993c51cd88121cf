package controllers

import (
	"net/http"

	"hotel-booking-backend/models"
	"hotel-booking-backend/services"
	"hotel-booking-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type RatesPayload struct {
	BasePrice          float64        `json:"basePrice" binding:"required"`
	Currency           string         `json:"currency"`
	SeasonalPricing    datatypes.JSON `json:"seasonalPricing"`
	DiscountPercentage *float64       `json:"discountPercentage"`
	DiscountAmount     *float64       `json:"discountAmount"`
}

type CreateRoomRequest struct {
	Name         string         `json:"name" binding:"required"`
	Description  string         `json:"description"`
	Type         string         `json:"type"`
	MaxOccupancy int            `json:"maxOccupancy"`
	Size         string         `json:"size"`
	BedType      string         `json:"bedType"`
	Rates        RatesPayload   `json:"rates" binding:"required"`
	Images       datatypes.JSON `json:"images"`
	IsAvailable  *bool          `json:"isAvailable"`
	RoomCount    *int           `json:"roomCount"`
}

type UpdateRatesPayload struct {
	BasePrice          *float64       `json:"basePrice"`
	Currency           *string        `json:"currency"`
	SeasonalPricing    datatypes.JSON `json:"seasonalPricing"`
	DiscountPercentage *float64       `json:"discountPercentage"`
	DiscountAmount     *float64       `json:"discountAmount"`
}

// UpdateRoomRequest is a partial patch; absent fields keep their stored
// values, and explicit false/0 go through.
type UpdateRoomRequest struct {
	Name         *string             `json:"name"`
	Description  *string             `json:"description"`
	Type         *string             `json:"type"`
	MaxOccupancy *int                `json:"maxOccupancy"`
	Size         *string             `json:"size"`
	BedType      *string             `json:"bedType"`
	Rates        *UpdateRatesPayload `json:"rates"`
	Images       datatypes.JSON      `json:"images"`
	IsAvailable  *bool               `json:"isAvailable"`
	RoomCount    *int                `json:"roomCount"`
}

// ---------------------------
// Controller
// ---------------------------

type RoomController struct {
	RoomSvc         *services.RoomService
	AvailabilitySvc *services.AvailabilityService
}

func NewRoomController(roomSvc *services.RoomService, availabilitySvc *services.AvailabilityService) *RoomController {
	return &RoomController{RoomSvc: roomSvc, AvailabilitySvc: availabilitySvc}
}

func (ctrl *RoomController) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, utils.NewInvalidInput("invalid request payload: "+err.Error()))
		return
	}

	room, err := ctrl.RoomSvc.Create(services.CreateRoomInput{
		Name:         req.Name,
		Description:  req.Description,
		Type:         req.Type,
		MaxOccupancy: req.MaxOccupancy,
		Size:         req.Size,
		BedType:      req.BedType,
		Rates: models.Rates{
			BasePrice:          req.Rates.BasePrice,
			Currency:           req.Rates.Currency,
			SeasonalPricing:    req.Rates.SeasonalPricing,
			DiscountPercentage: req.Rates.DiscountPercentage,
			DiscountAmount:     req.Rates.DiscountAmount,
		},
		Images:      req.Images,
		IsAvailable: req.IsAvailable,
		RoomCount:   req.RoomCount,
	})
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"room": room})
}

func (ctrl *RoomController) GetRoom(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	room, err := ctrl.RoomSvc.GetByID(id)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"room": room})
}

func (ctrl *RoomController) GetRooms(c *gin.Context) {
	rooms, err := ctrl.RoomSvc.List(c.Request.URL.Query())
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"results": len(rooms), "rooms": rooms})
}

func (ctrl *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, utils.NewInvalidInput("invalid request payload: "+err.Error()))
		return
	}

	input := services.UpdateRoomInput{
		Name:         req.Name,
		Description:  req.Description,
		Type:         req.Type,
		MaxOccupancy: req.MaxOccupancy,
		Size:         req.Size,
		BedType:      req.BedType,
		Images:       req.Images,
		IsAvailable:  req.IsAvailable,
		RoomCount:    req.RoomCount,
	}
	if req.Rates != nil {
		input.BasePrice = req.Rates.BasePrice
		input.Currency = req.Rates.Currency
		input.SeasonalPricing = req.Rates.SeasonalPricing
		input.DiscountPercentage = req.Rates.DiscountPercentage
		input.DiscountAmount = req.Rates.DiscountAmount
	}

	room, err := ctrl.RoomSvc.Update(id, input)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"room": room})
}

func (ctrl *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.RoomSvc.Delete(id); err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}

// CheckAvailability handles GET /api/rooms/:id/availability. The date
// pair is validated the same way bookings are, so a reversed range is a
// 400, not a silent false.
func (ctrl *RoomController) CheckAvailability(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	checkIn := c.Query("checkInDate")
	checkOut := c.Query("checkOutDate")
	if checkIn == "" || checkOut == "" {
		utils.JSONError(c, utils.NewInvalidInput("both checkInDate and checkOutDate are required"))
		return
	}

	ci, co, _, err := ctrl.AvailabilitySvc.ComputeStay(checkIn, checkOut)
	if err != nil {
		utils.JSONError(c, err)
		return
	}

	available, err := ctrl.AvailabilitySvc.IsRoomAvailable(id, ci, co)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"isAvailable": available})
}
