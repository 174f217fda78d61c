package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"engraced_transport/internal/models"
	"engraced_transport/internal/services"
)

// vehicleInput serves create and partial update; required fields are
// enforced by the service on create.
type vehicleInput struct {
	Name           *string  `json:"name" binding:"omitempty,min=1"`
	Description    *string  `json:"description"`
	Type           *string  `json:"type" binding:"omitempty,vehicle_type"`
	Status         *string  `json:"status" binding:"omitempty,vehicle_status"`
	Capacity       *int     `json:"capacity" binding:"omitempty,gte=1,lte=20"`
	PricePerTrip   *float64 `json:"pricePerTrip" binding:"omitempty,gte=0"`
	Features       []string `json:"features"`
	Images         []string `json:"images"`
	PlateNumber    *string  `json:"plateNumber"`
	Year           *int     `json:"year" binding:"omitempty,gte=1900"`
	Color          *string  `json:"color"`
	Specifications *string  `json:"specifications"`
	IsAvailable    *bool    `json:"isAvailable"`
	Rating         *float64 `json:"rating" binding:"omitempty,gte=0,lte=5"`
	DriverID       *string  `json:"driverId"`
}

func (in vehicleInput) toService() services.VehicleInput {
	out := services.VehicleInput{
		Name:           in.Name,
		Description:    in.Description,
		Capacity:       in.Capacity,
		PricePerTrip:   in.PricePerTrip,
		Features:       in.Features,
		Images:         in.Images,
		PlateNumber:    in.PlateNumber,
		Year:           in.Year,
		Color:          in.Color,
		Specifications: in.Specifications,
		IsAvailable:    in.IsAvailable,
		Rating:         in.Rating,
		DriverID:       in.DriverID,
	}
	if in.Type != nil {
		t := models.VehicleType(*in.Type)
		out.Type = &t
	}
	if in.Status != nil {
		s := models.VehicleStatus(*in.Status)
		out.Status = &s
	}
	return out
}

type FleetController struct {
	fleet *services.FleetService
}

func NewFleetController(fleet *services.FleetService) *FleetController {
	return &FleetController{fleet: fleet}
}

func (ctl *FleetController) CreateVehicle(c *gin.Context) {
	var input vehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalidInput(c, err, "CreateVehicle")
		return
	}
	vehicle, err := ctl.fleet.CreateVehicle(c.Request.Context(), input.toService())
	if err != nil {
		respondError(c, err, "CreateVehicle")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"vehicle": vehicle})
}

func (ctl *FleetController) ListVehicles(c *gin.Context) {
	vehicles, err := ctl.fleet.FindAllVehicles(c.Request.Context())
	if err != nil {
		respondError(c, err, "ListVehicles")
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles})
}

func (ctl *FleetController) AvailableVehicles(c *gin.Context) {
	vehicles, err := ctl.fleet.FindAvailableVehicles(c.Request.Context())
	if err != nil {
		respondError(c, err, "AvailableVehicles")
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles})
}

func (ctl *FleetController) GetVehicle(c *gin.Context) {
	vehicle, err := ctl.fleet.FindVehicleByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "GetVehicle")
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

func (ctl *FleetController) UpdateVehicle(c *gin.Context) {
	var input vehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalidInput(c, err, "UpdateVehicle")
		return
	}
	vehicle, err := ctl.fleet.UpdateVehicle(c.Request.Context(), c.Param("id"), input.toService())
	if err != nil {
		respondError(c, err, "UpdateVehicle")
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

func (ctl *FleetController) DeleteVehicle(c *gin.Context) {
	if err := ctl.fleet.DeleteVehicle(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "DeleteVehicle")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted"})
}

func (ctl *FleetController) Stats(c *gin.Context) {
	stats, err := ctl.fleet.GetFleetStats(c.Request.Context())
	if err != nil {
		respondError(c, err, "FleetStats")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
