package controllers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"engraced_transport/internal/models"
	"engraced_transport/internal/services"
)

type TripController struct {
	trips *services.TripService
}

func NewTripController(trips *services.TripService) *TripController {
	return &TripController{trips: trips}
}

func (ctl *TripController) Create(c *gin.Context) {
	var input struct {
		Origin               string    `json:"origin" binding:"required,max=100"`
		Destination          string    `json:"destination" binding:"required,max=100"`
		Type                 string    `json:"type" binding:"omitempty,trip_type"`
		DepartureTime        time.Time `json:"departureTime" binding:"required"`
		EstimatedArrivalTime time.Time `json:"estimatedArrivalTime" binding:"required"`
		Fare                 *float64  `json:"fare" binding:"required,gte=0"`
		Notes                string    `json:"notes"`
		VehicleID            string    `json:"vehicleId" binding:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalidInput(c, err, "CreateTrip")
		return
	}

	trip, err := ctl.trips.CreateTrip(c.Request.Context(), services.CreateTripInput{
		Origin:               input.Origin,
		Destination:          input.Destination,
		Type:                 models.TripType(input.Type),
		DepartureTime:        input.DepartureTime,
		EstimatedArrivalTime: input.EstimatedArrivalTime,
		Fare:                 *input.Fare,
		Notes:                input.Notes,
		VehicleID:            input.VehicleID,
	})
	if err != nil {
		respondError(c, err, "CreateTrip")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"trip": trip})
}

func (ctl *TripController) List(c *gin.Context) {
	trips, err := ctl.trips.FindAllTrips(c.Request.Context())
	if err != nil {
		respondError(c, err, "ListTrips")
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

func (ctl *TripController) Get(c *gin.Context) {
	trip, err := ctl.trips.FindTripByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "GetTrip")
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

func (ctl *TripController) UpdateStatus(c *gin.Context) {
	var input struct {
		Status string `json:"status" binding:"required,trip_status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalidInput(c, err, "UpdateTripStatus")
		return
	}
	trip, err := ctl.trips.UpdateTripStatus(c.Request.Context(), c.Param("id"), models.TripStatus(input.Status))
	if err != nil {
		respondError(c, err, "UpdateTripStatus")
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

// AdjustSeats takes a signed delta: {"delta": 2} books, {"delta": -1} releases.
func (ctl *TripController) AdjustSeats(c *gin.Context) {
	var input struct {
		Delta *int `json:"delta" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalidInput(c, err, "AdjustSeats")
		return
	}
	trip, err := ctl.trips.AdjustBookedSeats(c.Request.Context(), c.Param("id"), *input.Delta)
	if err != nil {
		respondError(c, err, "AdjustSeats")
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

// RecordDeparture defaults to the current time when departedAt is omitted.
func (ctl *TripController) RecordDeparture(c *gin.Context) {
	var input struct {
		DepartedAt *time.Time `json:"departedAt"`
	}
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		respondInvalidInput(c, err, "RecordDeparture")
		return
	}
	at := time.Now()
	if input.DepartedAt != nil {
		at = *input.DepartedAt
	}
	trip, err := ctl.trips.RecordDeparture(c.Request.Context(), c.Param("id"), at)
	if err != nil {
		respondError(c, err, "RecordDeparture")
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": trip})
}
