package services

import (
	"errors"
	"fmt"
	"strings"

	"hotel-booking-backend/models"
	"hotel-booking-backend/utils"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

const mysqlDuplicateEntry = 1062

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	// sqlite/mock fallbacks used in tests
	lc := strings.ToLower(err.Error())
	return strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique")
}

// CreateRoomInput is the write shape for Create. IsAvailable and
// RoomCount are pointers so an explicit false or 0 is distinguishable
// from "not supplied"; unset falls back to available with a single unit.
type CreateRoomInput struct {
	Name         string
	Description  string
	Type         string
	MaxOccupancy int
	Size         string
	BedType      string
	Rates        models.Rates
	Images       datatypes.JSON
	IsAvailable  *bool
	RoomCount    *int
}

func (s *RoomService) Create(input CreateRoomInput) (*models.Room, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, utils.NewInvalidInput("room name is required")
	}
	if input.Rates.BasePrice <= 0 {
		return nil, utils.NewInvalidInput("basePrice must be greater than zero")
	}

	roomCount := 1
	if input.RoomCount != nil {
		if *input.RoomCount < 0 {
			return nil, utils.NewInvalidInput("roomCount cannot be negative")
		}
		roomCount = *input.RoomCount
	}
	available := true
	if input.IsAvailable != nil {
		available = *input.IsAvailable
	}
	rates := input.Rates
	if rates.Currency == "" {
		rates.Currency = "USD"
	}

	room := models.Room{
		Name:         input.Name,
		Description:  input.Description,
		Type:         input.Type,
		MaxOccupancy: input.MaxOccupancy,
		Size:         input.Size,
		BedType:      input.BedType,
		Rates:        rates,
		Images:       input.Images,
		IsAvailable:  available,
		RoomCount:    roomCount,
	}
	if err := s.DB.Create(&room).Error; err != nil {
		if isDuplicateEntry(err) {
			return nil, utils.NewConflict(fmt.Sprintf("room name %q already exists", room.Name))
		}
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	return &room, nil
}

func (s *RoomService) GetByID(id uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFound(fmt.Sprintf("room %d not found", id))
		}
		return nil, fmt.Errorf("failed to retrieve room %d: %w", id, err)
	}
	return &room, nil
}

var roomQueryColumns = map[string]bool{
	"id":              true,
	"name":            true,
	"type":            true,
	"max_occupancy":   true,
	"is_available":    true,
	"room_count":      true,
	"rate_base_price": true,
	"created_at":      true,
}

func (s *RoomService) List(query map[string][]string) ([]models.Room, error) {
	tx := utils.ApplyQueryFeatures(s.DB.Model(&models.Room{}), query, roomQueryColumns)

	var rooms []models.Room
	if err := tx.Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve rooms: %w", err)
	}
	return rooms, nil
}

// UpdateRoomInput carries a partial patch; nil fields keep the stored
// value. Supplied zero values (false, 0) are written.
type UpdateRoomInput struct {
	Name               *string
	Description        *string
	Type               *string
	MaxOccupancy       *int
	Size               *string
	BedType            *string
	BasePrice          *float64
	Currency           *string
	SeasonalPricing    datatypes.JSON
	DiscountPercentage *float64
	DiscountAmount     *float64
	Images             datatypes.JSON
	IsAvailable        *bool
	RoomCount          *int
}

// Update applies the patch through a column map so that taking a room
// out of service (isAvailable=false) or parking it (roomCount=0) reaches
// the row.
func (s *RoomService) Update(id uint, input UpdateRoomInput) (*models.Room, error) {
	room, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	newName := ""
	if input.Name != nil {
		newName = strings.TrimSpace(*input.Name)
		if newName == "" {
			return nil, utils.NewInvalidInput("room name is required")
		}
		updates["name"] = newName
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Type != nil {
		updates["type"] = *input.Type
	}
	if input.MaxOccupancy != nil {
		updates["max_occupancy"] = *input.MaxOccupancy
	}
	if input.Size != nil {
		updates["size"] = *input.Size
	}
	if input.BedType != nil {
		updates["bed_type"] = *input.BedType
	}
	if input.BasePrice != nil {
		if *input.BasePrice <= 0 {
			return nil, utils.NewInvalidInput("basePrice must be greater than zero")
		}
		updates["rate_base_price"] = *input.BasePrice
	}
	if input.Currency != nil {
		updates["rate_currency"] = *input.Currency
	}
	if input.SeasonalPricing != nil {
		updates["rate_seasonal_pricing"] = input.SeasonalPricing
	}
	if input.DiscountPercentage != nil {
		updates["rate_discount_percentage"] = *input.DiscountPercentage
	}
	if input.DiscountAmount != nil {
		updates["rate_discount_amount"] = *input.DiscountAmount
	}
	if input.Images != nil {
		updates["images"] = input.Images
	}
	if input.IsAvailable != nil {
		updates["is_available"] = *input.IsAvailable
	}
	if input.RoomCount != nil {
		if *input.RoomCount < 0 {
			return nil, utils.NewInvalidInput("roomCount cannot be negative")
		}
		updates["room_count"] = *input.RoomCount
	}

	if len(updates) == 0 {
		return room, nil
	}
	if err := s.DB.Model(&models.Room{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		if isDuplicateEntry(err) {
			return nil, utils.NewConflict(fmt.Sprintf("room name %q already exists", newName))
		}
		return nil, fmt.Errorf("failed to update room %d: %w", id, err)
	}
	return s.GetByID(id)
}

func (s *RoomService) Delete(id uint) error {
	result := s.DB.Delete(&models.Room{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete room %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.NewNotFound(fmt.Sprintf("room %d not found", id))
	}
	return nil
}
