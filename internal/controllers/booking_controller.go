package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"engraced_transport/internal/middleware"
	"engraced_transport/internal/models"
	"engraced_transport/internal/services"
)

type createBookingInput struct {
	Type     string   `json:"type" binding:"required,booking_type"`
	Amount   *float64 `json:"amount" binding:"required,gte=0"`
	Currency string   `json:"currency"`
	Notes    string   `json:"notes"`

	PickupLocation string     `json:"pickupLocation"`
	Destination    string     `json:"destination"`
	PickupDate     *time.Time `json:"pickupDate"`
	PickupTime     string     `json:"pickupTime" binding:"omitempty,clock"`
	VehicleType    string     `json:"vehicleType"`
	Passengers     *int       `json:"passengers" binding:"omitempty,gte=1"`
	DriverID       string     `json:"driverId"`

	DepartureAirport string     `json:"departureAirport"`
	ArrivalAirport   string     `json:"arrivalAirport"`
	DepartureDate    *time.Time `json:"departureDate"`
	ReturnDate       *time.Time `json:"returnDate"`
	Airline          string     `json:"airline"`
	FlightNumber     string     `json:"flightNumber"`

	ItemType     string     `json:"itemType"`
	Weight       string     `json:"weight"`
	Dimensions   string     `json:"dimensions"`
	DeliveryDate *time.Time `json:"deliveryDate"`
}

// BookingController answers with the bare booking, list or stats object.
type BookingController struct {
	bookings *services.BookingService
}

func NewBookingController(bookings *services.BookingService) *BookingController {
	return &BookingController{bookings: bookings}
}

// Create books on behalf of the caller; the owner always comes from the token.
func (ctl *BookingController) Create(c *gin.Context) {
	var input createBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalidInput(c, err, "CreateBooking")
		return
	}

	userID, _ := middleware.CurrentUser(c)
	booking, err := ctl.bookings.Create(c.Request.Context(), services.CreateBookingInput{
		Type:     models.BookingType(input.Type),
		Amount:   *input.Amount,
		Currency: input.Currency,
		Notes:    input.Notes,

		PickupLocation: input.PickupLocation,
		Destination:    input.Destination,
		PickupDate:     input.PickupDate,
		PickupTime:     input.PickupTime,
		VehicleType:    input.VehicleType,
		Passengers:     input.Passengers,
		DriverID:       input.DriverID,

		DepartureAirport: input.DepartureAirport,
		ArrivalAirport:   input.ArrivalAirport,
		DepartureDate:    input.DepartureDate,
		ReturnDate:       input.ReturnDate,
		Airline:          input.Airline,
		FlightNumber:     input.FlightNumber,

		ItemType:     input.ItemType,
		Weight:       input.Weight,
		Dimensions:   input.Dimensions,
		DeliveryDate: input.DeliveryDate,
	}, userID)
	if err != nil {
		respondError(c, err, "CreateBooking")
		return
	}
	c.JSON(http.StatusCreated, booking)
}

func (ctl *BookingController) List(c *gin.Context) {
	bookings, err := ctl.bookings.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, err, "ListBookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (ctl *BookingController) MyBookings(c *gin.Context) {
	userID, _ := middleware.CurrentUser(c)
	bookings, err := ctl.bookings.FindByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "MyBookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// Get hides other users' bookings from non-staff callers behind a 404.
func (ctl *BookingController) Get(c *gin.Context) {
	booking, err := ctl.bookings.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "GetBooking")
		return
	}

	userID, role := middleware.CurrentUser(c)
	if !models.IsStaffRole(role) && booking.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (ctl *BookingController) UpdateStatus(c *gin.Context) {
	var input struct {
		Status string `json:"status" binding:"required,booking_status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalidInput(c, err, "UpdateBookingStatus")
		return
	}

	booking, err := ctl.bookings.UpdateStatus(c.Request.Context(), c.Param("id"), models.BookingStatus(input.Status))
	if err != nil {
		respondError(c, err, "UpdateBookingStatus")
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (ctl *BookingController) UpdatePaymentStatus(c *gin.Context) {
	var input struct {
		PaymentStatus string `json:"paymentStatus" binding:"required,payment_status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalidInput(c, err, "UpdatePaymentStatus")
		return
	}

	booking, err := ctl.bookings.UpdatePaymentStatus(c.Request.Context(), c.Param("id"), models.PaymentStatus(input.PaymentStatus))
	if err != nil {
		respondError(c, err, "UpdatePaymentStatus")
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (ctl *BookingController) Stats(c *gin.Context) {
	stats, err := ctl.bookings.GetStats(c.Request.Context())
	if err != nil {
		respondError(c, err, "BookingStats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
