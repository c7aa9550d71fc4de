package devserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/models"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) loginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	s.data.mu.Lock()
	acc := s.data.findAccountByEmail(req.Email)
	s.data.mu.Unlock()

	if acc == nil || acc.Password != req.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := s.issueToken(acc.User)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": acc.User})
}

func (s *Server) logoutHandler(c *gin.Context) {
	// Token invalidation is a no-op for the dev backend.
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (s *Server) issueToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"role":     string(user.Role),
		"truck_id": user.TruckID,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// parseToken validates a session token and returns the identity claims.
func (s *Server) parseToken(tokenString string) (userID string, role models.Role, truckID string, err error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return "", "", "", jwt.ErrTokenUnverifiable
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", "", jwt.ErrTokenInvalidClaims
	}
	userID, _ = claims["user_id"].(string)
	roleStr, _ := claims["role"].(string)
	truckID, _ = claims["truck_id"].(string)
	return userID, models.Role(roleStr), truckID, nil
}

// validateToken is the auth middleware for protected routes.
func (s *Server) validateToken(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
		c.Abort()
		return
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	userID, role, truckID, err := s.parseToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		c.Abort()
		return
	}

	c.Set("user_id", userID)
	c.Set("role", string(role))
	c.Set("truck_id", truckID)
	c.Next()
}

// requireOperator gates operator-only routes.
func requireOperator(c *gin.Context) {
	if c.GetString("role") != string(models.RoleOperator) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Operator role required"})
		c.Abort()
		return
	}
	c.Next()
}
