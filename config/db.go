package config

import (
	"log"
	"os"
	"time"

	"hotel-booking-backend/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// SeedDatabase ensures the role set and a default admin account exist.
func SeedDatabase() {
	desiredRoles := []models.Role{
		{Name: models.RoleAdmin, Description: "Full access to rooms, bookings and users"},
		{Name: models.RoleManager, Description: "Manage rooms and bookings"},
		{Name: models.RoleUser, Description: "Registered guest"},
	}

	rolesByName := map[string]models.Role{}
	for i := range desiredRoles {
		role := desiredRoles[i]

		var existing models.Role
		err := DB.Where("name = ?", role.Name).First(&existing).Error
		if err == nil && existing.ID != 0 {
			rolesByName[role.Name] = existing
			continue
		}

		if err := DB.Create(&role).Error; err != nil {
			logrus.WithError(err).Warnf("failed to create role %s", role.Name)
			continue
		}
		rolesByName[role.Name] = role
	}

	var adminCount int64
	DB.Model(&models.User{}).
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ?", models.RoleAdmin).
		Count(&adminCount)
	if adminCount == 0 {
		adminRole, ok := rolesByName[models.RoleAdmin]
		if !ok || adminRole.ID == 0 {
			logrus.Warn("admin role missing, skipping default admin seed")
			return
		}

		password := envOrDefault("ADMIN_PASSWORD", "admin123")
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			logrus.WithError(err).Warn("failed to hash default admin password")
			return
		}
		admin := models.User{
			Username: "admin",
			Email:    envOrDefault("ADMIN_EMAIL", "admin@hotel.local"),
			Password: string(hash),
			Name:     "Admin User",
			RoleID:   adminRole.ID,
		}
		if err := DB.Create(&admin).Error; err != nil {
			logrus.WithError(err).Warn("failed to create default admin")
		} else {
			logrus.Info("default admin seeded")
		}
	}

	logrus.Info("roles ensured")
}

// ConnectDatabase opens the MySQL connection, migrates the schema and
// seeds roles. Sets config.DB on success.
func ConnectDatabase(cfg *Config) error {
	gormLogLevel := logger.Warn
	if cfg.IsDevelopment() {
		gormLogLevel = logger.Info
	}
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      gormLogLevel,
			Colorful:      cfg.IsDevelopment(),
		},
	)

	db, err := gorm.Open(mysql.Open(cfg.DatabaseDSN), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	// parent -> child order
	if err := DB.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Room{},
		&models.Booking{},
		&models.BookingRoom{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
