package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"engraced_transport/internal/middleware"
	"engraced_transport/internal/models"
	"engraced_transport/internal/services"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

func (ctl *UserController) List(c *gin.Context) {
	users, err := ctl.users.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, err, "ListUsers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (ctl *UserController) Get(c *gin.Context) {
	user, err := ctl.users.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "GetUser")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (ctl *UserController) ByRole(c *gin.Context) {
	users, err := ctl.users.FindByRole(c.Request.Context(), models.UserRole(c.Param("role")))
	if err != nil {
		respondError(c, err, "UsersByRole")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (ctl *UserController) Stats(c *gin.Context) {
	stats, err := ctl.users.GetStats(c.Request.Context())
	if err != nil {
		respondError(c, err, "UserStats")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (ctl *UserController) Profile(c *gin.Context) {
	userID, _ := middleware.CurrentUser(c)
	user, err := ctl.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (ctl *UserController) UpdateProfile(c *gin.Context) {
	var input struct {
		FirstName *string `json:"firstName" binding:"omitempty,min=1"`
		LastName  *string `json:"lastName" binding:"omitempty,min=1"`
		Phone     *string `json:"phone" binding:"omitempty,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalidInput(c, err, "UpdateProfile")
		return
	}

	userID, _ := middleware.CurrentUser(c)
	user, err := ctl.users.UpdateProfile(c.Request.Context(), userID, services.ProfileInput{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
	})
	if err != nil {
		respondError(c, err, "UpdateProfile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (ctl *UserController) Activate(c *gin.Context) {
	ctl.setStatus(c, models.UserActive)
}

func (ctl *UserController) Deactivate(c *gin.Context) {
	ctl.setStatus(c, models.UserInactive)
}

func (ctl *UserController) Suspend(c *gin.Context) {
	ctl.setStatus(c, models.UserSuspended)
}

func (ctl *UserController) setStatus(c *gin.Context, status models.UserStatus) {
	user, err := ctl.users.UpdateStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		respondError(c, err, "UpdateUserStatus")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
