package controllers

import (
	"net/http"

	"hotel-booking-backend/services"
	"hotel-booking-backend/utils"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	AuthSvc *services.AuthService
}

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{AuthSvc: svc}
}

func (ctrl *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, utils.NewInvalidInput("invalid request payload: "+err.Error()))
		return
	}

	user, token, err := ctrl.AuthSvc.Register(services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"user": user, "token": token})
}

func (ctrl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, utils.NewInvalidInput("invalid request payload: "+err.Error()))
		return
	}

	user, token, err := ctrl.AuthSvc.Login(req.Email, req.Password)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"user": user, "token": token})
}

func (ctrl *AuthController) GetUsers(c *gin.Context) {
	users, err := ctrl.AuthSvc.GetUsers()
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"results": len(users), "users": users})
}
