package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"engraced_transport/internal/models"
	"engraced_transport/internal/services"
)

type driverInput struct {
	FirstName         *string    `json:"firstName" binding:"omitempty,min=1"`
	LastName          *string    `json:"lastName" binding:"omitempty,min=1"`
	Email             *string    `json:"email" binding:"omitempty,email"`
	Phone             *string    `json:"phone" binding:"omitempty,min=1"`
	LicenseNumber     *string    `json:"licenseNumber"`
	LicenseExpiry     *time.Time `json:"licenseExpiry"`
	Status            *string    `json:"status" binding:"omitempty,driver_status"`
	Rating            *float64   `json:"rating" binding:"omitempty,gte=0,lte=5"`
	YearsOfExperience *int       `json:"yearsOfExperience" binding:"omitempty,gte=0"`
	Address           *string    `json:"address"`
	DateOfBirth       *time.Time `json:"dateOfBirth"`
	EmergencyContact  *string    `json:"emergencyContact"`
	Notes             *string    `json:"notes"`
	ProfileImage      *string    `json:"profileImage"`
}

func (in driverInput) toService() services.DriverInput {
	out := services.DriverInput{
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		Email:             in.Email,
		Phone:             in.Phone,
		LicenseNumber:     in.LicenseNumber,
		LicenseExpiry:     in.LicenseExpiry,
		Rating:            in.Rating,
		YearsOfExperience: in.YearsOfExperience,
		Address:           in.Address,
		DateOfBirth:       in.DateOfBirth,
		EmergencyContact:  in.EmergencyContact,
		Notes:             in.Notes,
		ProfileImage:      in.ProfileImage,
	}
	if in.Status != nil {
		s := models.DriverStatus(*in.Status)
		out.Status = &s
	}
	return out
}

func (ctl *FleetController) CreateDriver(c *gin.Context) {
	var input driverInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalidInput(c, err, "CreateDriver")
		return
	}
	driver, err := ctl.fleet.CreateDriver(c.Request.Context(), input.toService())
	if err != nil {
		respondError(c, err, "CreateDriver")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"driver": driver})
}

func (ctl *FleetController) ListDrivers(c *gin.Context) {
	drivers, err := ctl.fleet.FindAllDrivers(c.Request.Context())
	if err != nil {
		respondError(c, err, "ListDrivers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"drivers": drivers})
}

func (ctl *FleetController) GetDriver(c *gin.Context) {
	driver, err := ctl.fleet.FindDriverByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "GetDriver")
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver": driver})
}

func (ctl *FleetController) UpdateDriver(c *gin.Context) {
	var input driverInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalidInput(c, err, "UpdateDriver")
		return
	}
	driver, err := ctl.fleet.UpdateDriver(c.Request.Context(), c.Param("id"), input.toService())
	if err != nil {
		respondError(c, err, "UpdateDriver")
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver": driver})
}

func (ctl *FleetController) DeleteDriver(c *gin.Context) {
	if err := ctl.fleet.DeleteDriver(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "DeleteDriver")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Driver deleted successfully"})
}
