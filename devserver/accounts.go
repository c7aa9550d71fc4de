package devserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/models"
)

func (s *Server) listAddressesHandler(c *gin.Context) {
	userID := c.GetString("user_id")

	s.data.mu.Lock()
	addrs := make([]models.Address, len(s.data.addresses[userID]))
	copy(addrs, s.data.addresses[userID])
	s.data.mu.Unlock()

	c.JSON(http.StatusOK, addrs)
}

func (s *Server) createAddressHandler(c *gin.Context) {
	userID := c.GetString("user_id")

	var addr models.Address
	if err := c.ShouldBindJSON(&addr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if addr.Street == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Street is required"})
		return
	}

	s.data.mu.Lock()
	addr.ID = s.data.nextAddressID()
	s.data.addresses[userID] = append(s.data.addresses[userID], addr)
	s.data.mu.Unlock()

	c.JSON(http.StatusCreated, addr)
}

func (s *Server) deleteAddressHandler(c *gin.Context) {
	userID := c.GetString("user_id")
	addressID := c.Param("addressID")

	s.data.mu.Lock()
	kept := s.data.addresses[userID][:0]
	for _, addr := range s.data.addresses[userID] {
		if addr.ID != addressID {
			kept = append(kept, addr)
		}
	}
	s.data.addresses[userID] = kept
	s.data.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
}

func (s *Server) listPaymentMethodsHandler(c *gin.Context) {
	userID := c.GetString("user_id")

	s.data.mu.Lock()
	methods := make([]models.PaymentMethod, len(s.data.methods[userID]))
	copy(methods, s.data.methods[userID])
	s.data.mu.Unlock()

	c.JSON(http.StatusOK, methods)
}

func (s *Server) deletePaymentMethodHandler(c *gin.Context) {
	userID := c.GetString("user_id")
	methodID := c.Param("methodID")

	s.data.mu.Lock()
	kept := s.data.methods[userID][:0]
	for _, m := range s.data.methods[userID] {
		if m.ID != methodID {
			kept = append(kept, m)
		}
	}
	s.data.methods[userID] = kept
	s.data.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"message": "Payment method deleted"})
}

type cardInput struct {
	Number   string `json:"number" binding:"required"`
	ExpMonth int    `json:"exp_month" binding:"required"`
	ExpYear  int    `json:"exp_year" binding:"required"`
	CVC      string `json:"cvc" binding:"required"`
	Name     string `json:"name"`
}

// tokenizeHandler stands in for the payment processor: it swaps raw card
// details for an opaque token without storing them.
func (s *Server) tokenizeHandler(c *gin.Context) {
	if c.GetHeader("X-Publishable-Key") == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Publishable key is missing"})
		return
	}

	var card cardInput
	if err := c.ShouldBindJSON(&card); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	digits := strings.ReplaceAll(card.Number, " ", "")
	if len(digits) < 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Card number is invalid"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": "tok_" + uuid.NewString(),
		"brand": "visa",
		"last4": digits[len(digits)-4:],
	})
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *Server) updateProfileHandler(c *gin.Context) {
	userID := c.GetString("user_id")

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	s.data.mu.Lock()
	acc, ok := s.data.accounts[userID]
	if !ok {
		s.data.mu.Unlock()
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}
	if req.Name != "" {
		acc.Name = req.Name
	}
	if req.Email != "" {
		acc.Email = req.Email
	}
	user := acc.User
	s.data.mu.Unlock()

	c.JSON(http.StatusOK, user)
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func (s *Server) updatePasswordHandler(c *gin.Context) {
	userID := c.GetString("user_id")

	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	s.data.mu.Lock()
	acc, ok := s.data.accounts[userID]
	if !ok || acc.Password != req.CurrentPassword {
		s.data.mu.Unlock()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
		return
	}
	acc.Password = req.NewPassword
	s.data.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
