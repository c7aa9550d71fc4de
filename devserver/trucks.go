package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/models"
)

func (s *Server) listTrucksHandler(c *gin.Context) {
	s.data.mu.Lock()
	out := make([]models.Truck, 0, len(s.data.trucks))
	for _, t := range s.data.trucks {
		out = append(out, *t)
	}
	s.data.mu.Unlock()

	c.JSON(http.StatusOK, out)
}

func (s *Server) getTruckHandler(c *gin.Context) {
	truckID := c.Param("truckID")

	s.data.mu.Lock()
	truck, ok := s.data.trucks[truckID]
	var out models.Truck
	if ok {
		out = *truck
	}
	s.data.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Truck not found"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getMenuHandler(c *gin.Context) {
	truckID := c.Param("truckID")

	s.data.mu.Lock()
	menu := make([]models.MenuItem, len(s.data.menus[truckID]))
	copy(menu, s.data.menus[truckID])
	s.data.mu.Unlock()

	c.JSON(http.StatusOK, menu)
}

type truckSettingsRequest struct {
	Online           *bool            `json:"online"`
	SupportsDelivery *bool            `json:"supports_delivery"`
	DeliveryRadiusKm *float64         `json:"delivery_radius_km"`
	DeliveryFee      *decimal.Decimal `json:"delivery_fee"`
	MinimumOrder     *decimal.Decimal `json:"minimum_order"`
	AvgPrepMinutes   *int             `json:"avg_prep_minutes"`
	OperatingHours   *string          `json:"operating_hours"`
}

// updateTruckSettingsHandler applies partial settings updates, including
// the availability toggle.
func (s *Server) updateTruckSettingsHandler(c *gin.Context) {
	truckID := c.Param("truckID")
	if truckID != c.GetString("truck_id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your truck"})
		return
	}

	var req truckSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	s.data.mu.Lock()
	truck, ok := s.data.trucks[truckID]
	if !ok {
		s.data.mu.Unlock()
		c.JSON(http.StatusNotFound, gin.H{"error": "Truck not found"})
		return
	}
	if req.Online != nil {
		truck.Online = *req.Online
	}
	if req.SupportsDelivery != nil {
		truck.SupportsDelivery = *req.SupportsDelivery
	}
	if req.DeliveryRadiusKm != nil {
		truck.DeliveryRadiusKm = *req.DeliveryRadiusKm
	}
	if req.DeliveryFee != nil {
		truck.DeliveryFee = *req.DeliveryFee
	}
	if req.MinimumOrder != nil {
		truck.MinimumOrder = *req.MinimumOrder
	}
	if req.AvgPrepMinutes != nil {
		truck.AvgPrepMinutes = *req.AvgPrepMinutes
	}
	if req.OperatingHours != nil {
		truck.OperatingHours = *req.OperatingHours
	}
	out := *truck
	s.data.mu.Unlock()

	c.JSON(http.StatusOK, out)
}

type truckLocationRequest struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AddressSnippet string  `json:"address_snippet"`
}

func (s *Server) updateTruckLocationHandler(c *gin.Context) {
	truckID := c.Param("truckID")
	if truckID != c.GetString("truck_id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your truck"})
		return
	}

	var req truckLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	s.data.mu.Lock()
	truck, ok := s.data.trucks[truckID]
	if !ok {
		s.data.mu.Unlock()
		c.JSON(http.StatusNotFound, gin.H{"error": "Truck not found"})
		return
	}
	truck.Latitude = req.Latitude
	truck.Longitude = req.Longitude
	if req.AddressSnippet != "" {
		truck.AddressSnippet = req.AddressSnippet
	}
	out := *truck
	s.data.mu.Unlock()

	c.JSON(http.StatusOK, out)
}
