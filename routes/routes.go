package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hotel-booking-backend/config"
	"hotel-booking-backend/controllers"
	"hotel-booking-backend/middleware"
	"hotel-booking-backend/models"
)

// SetupRouter wires middlewares and the API surface.
func SetupRouter(
	cfg *config.Config,
	ac *controllers.AuthController,
	rc *controllers.RoomController,
	bc *controllers.BookingController,
) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	origins := cfg.CORSOrigins
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	staffOnly := []gin.HandlerFunc{
		middleware.Authenticate(cfg.JWTSecret),
		middleware.AuthorizeRoles(models.RoleAdmin, models.RoleManager),
	}

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", ac.Register)
			auth.POST("/login", ac.Login)
			auth.GET("/users",
				middleware.Authenticate(cfg.JWTSecret),
				middleware.AuthorizeRoles(models.RoleAdmin),
				ac.GetUsers)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", rc.GetRooms)
			rooms.GET("/:id", rc.GetRoom)
			rooms.GET("/:id/availability", rc.CheckAvailability)

			rooms.POST("", append(staffOnly, rc.CreateRoom)...)
			rooms.PATCH("/:id", append(staffOnly, rc.UpdateRoom)...)
			rooms.DELETE("/:id", append(staffOnly, rc.DeleteRoom)...)
		}

		bookings := api.Group("/bookings")
		{
			bookings.POST("", middleware.AuthenticateOptional(cfg.JWTSecret), bc.CreateBooking)
			bookings.GET("/user/:email", bc.GetBookingsByGuestEmail)
			bookings.GET("/:id", bc.GetBooking)

			bookings.GET("", append(staffOnly, bc.GetBookings)...)
			bookings.PATCH("/:id", append(staffOnly, bc.UpdateBooking)...)
			bookings.DELETE("/:id", append(staffOnly, bc.DeleteBooking)...)
		}
	}

	return r
}
