package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"engraced_transport/internal/middleware"
	"engraced_transport/internal/models"
	"engraced_transport/internal/services"
)

type registerInput struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Role      string `json:"role" binding:"omitempty,user_role"`
}

type loginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	auth  *services.AuthService
	users *services.UserService
}

func NewAuthController(auth *services.AuthService, users *services.UserService) *AuthController {
	return &AuthController{auth: auth, users: users}
}

func (ctl *AuthController) Register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalidInput(c, err, "Register")
		return
	}

	result, err := ctl.auth.Register(c.Request.Context(), services.RegisterInput{
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Role:      models.UserRole(input.Role),
	})
	if err != nil {
		respondError(c, err, "Register")
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (ctl *AuthController) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalidInput(c, err, "Login")
		return
	}

	result, err := ctl.auth.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, err, "Login")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (ctl *AuthController) ForgotPassword(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalidInput(c, err, "ForgotPassword")
		return
	}

	message, err := ctl.auth.ForgotPassword(c.Request.Context(), input.Email)
	if err != nil {
		respondError(c, err, "ForgotPassword")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (ctl *AuthController) ResetPassword(c *gin.Context) {
	var input struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalidInput(c, err, "ResetPassword")
		return
	}

	if err := ctl.auth.ResetPassword(c.Request.Context(), input.Token, input.NewPassword); err != nil {
		respondError(c, err, "ResetPassword")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully"})
}

func (ctl *AuthController) ChangePassword(c *gin.Context) {
	var input struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalidInput(c, err, "ChangePassword")
		return
	}

	userID, _ := middleware.CurrentUser(c)
	if err := ctl.auth.ChangePassword(c.Request.Context(), userID, input.CurrentPassword, input.NewPassword); err != nil {
		respondError(c, err, "ChangePassword")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// Profile returns the caller's own account.
func (ctl *AuthController) Profile(c *gin.Context) {
	userID, _ := middleware.CurrentUser(c)
	user, err := ctl.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
