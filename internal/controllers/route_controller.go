package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"engraced_transport/internal/models"
	"engraced_transport/internal/services"
)

// RouteResponse mirrors models.Route with the stored WKB path rendered as a
// GeoJSON object.
type RouteResponse struct {
	models.Route
	Geometry *rawJSON `json:"geometry,omitempty"`
}

type rawJSON string

func (r rawJSON) MarshalJSON() ([]byte, error) {
	return []byte(r), nil
}

func toRouteResponse(route models.Route) RouteResponse {
	resp := RouteResponse{Route: route}
	geometry, err := services.DecodeGeometry(route.Geometry)
	if err != nil {
		logrus.WithError(err).WithField("route_id", route.ID).Warn("Stored route geometry is unreadable")
		return resp
	}
	if geometry != "" {
		g := rawJSON(geometry)
		resp.Geometry = &g
	}
	return resp
}

func toRouteResponses(routes []models.Route) []RouteResponse {
	out := make([]RouteResponse, 0, len(routes))
	for _, r := range routes {
		out = append(out, toRouteResponse(r))
	}
	return out
}

type routeInput struct {
	Name              *string  `json:"name" binding:"omitempty,min=1"`
	DepartureCity     *string  `json:"departureCity" binding:"omitempty,min=1"`
	ArrivalCity       *string  `json:"arrivalCity" binding:"omitempty,min=1"`
	Description       *string  `json:"description"`
	Distance          *float64 `json:"distance" binding:"omitempty,gte=0"`
	EstimatedDuration *int     `json:"estimatedDuration" binding:"omitempty,gte=0"`
	DepartureTime     *string  `json:"departureTime" binding:"omitempty,clock"`
	ArrivalTime       *string  `json:"arrivalTime"`
	Price             *float64 `json:"price" binding:"omitempty,gte=0"`
	Status            *string  `json:"status" binding:"omitempty,route_status"`
	Stops             []string `json:"stops"`
	Notes             *string  `json:"notes"`
	IsAvailable       *bool    `json:"isAvailable"`
	VehicleID         *string  `json:"vehicleId"`
	// GeoJSON LineString as a string.
	Geometry *string `json:"geometry"`
}

func (in routeInput) toService() services.RouteInput {
	out := services.RouteInput{
		Name:              in.Name,
		DepartureCity:     in.DepartureCity,
		ArrivalCity:       in.ArrivalCity,
		Description:       in.Description,
		Distance:          in.Distance,
		EstimatedDuration: in.EstimatedDuration,
		DepartureTime:     in.DepartureTime,
		ArrivalTime:       in.ArrivalTime,
		Price:             in.Price,
		Stops:             in.Stops,
		Notes:             in.Notes,
		IsAvailable:       in.IsAvailable,
		VehicleID:         in.VehicleID,
		Geometry:          in.Geometry,
	}
	if in.Status != nil {
		s := models.RouteStatus(*in.Status)
		out.Status = &s
	}
	return out
}

func (ctl *FleetController) CreateRoute(c *gin.Context) {
	var input routeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalidInput(c, err, "CreateRoute")
		return
	}
	route, err := ctl.fleet.CreateRoute(c.Request.Context(), input.toService())
	if err != nil {
		respondError(c, err, "CreateRoute")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"route": toRouteResponse(*route)})
}

func (ctl *FleetController) ListRoutes(c *gin.Context) {
	routes, err := ctl.fleet.FindAllRoutes(c.Request.Context())
	if err != nil {
		respondError(c, err, "ListRoutes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": toRouteResponses(routes)})
}

// SearchRoutes matches ?from= and ?to= exactly against stored city names.
func (ctl *FleetController) SearchRoutes(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both 'from' and 'to' query parameters are required"})
		return
	}
	routes, err := ctl.fleet.FindRoutesByCities(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err, "SearchRoutes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": toRouteResponses(routes)})
}

func (ctl *FleetController) GetRoute(c *gin.Context) {
	route, err := ctl.fleet.FindRouteByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "GetRoute")
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(*route)})
}

func (ctl *FleetController) UpdateRoute(c *gin.Context) {
	var input routeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalidInput(c, err, "UpdateRoute")
		return
	}
	route, err := ctl.fleet.UpdateRoute(c.Request.Context(), c.Param("id"), input.toService())
	if err != nil {
		respondError(c, err, "UpdateRoute")
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(*route)})
}

func (ctl *FleetController) DeleteRoute(c *gin.Context) {
	if err := ctl.fleet.DeleteRoute(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "DeleteRoute")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Route deleted successfully"})
}
