// Package devserver is an in-memory stand-in for the marketplace backend:
// the REST resources and the realtime event channel the client consumes,
// seeded with demo data. It backs local development and the end-to-end
// tests; it is not a production server.
package devserver

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Server struct {
	engine *gin.Engine
	data   *dataStore
	hub    *wsHub
	secret string
	log    zerolog.Logger
}

func New(secret string, logger zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine: gin.New(),
		data:   newDataStore(),
		hub:    newWsHub(),
		secret: secret,
		log:    logger.With().Str("component", "devserver").Logger(),
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Publishable-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.engine

	// Public routes
	r.POST("/auth/login", s.loginHandler)
	r.GET("/trucks", s.listTrucksHandler)
	r.GET("/trucks/:truckID", s.getTruckHandler)
	r.GET("/trucks/:truckID/menu", s.getMenuHandler)
	r.POST("/payments/tokenize", s.tokenizeHandler)
	r.GET("/ws", s.wsHandler)

	// Authenticated routes
	authed := r.Group("/", s.validateToken)
	{
		authed.POST("/auth/logout", s.logoutHandler)

		authed.GET("/addresses", s.listAddressesHandler)
		authed.POST("/addresses", s.createAddressHandler)
		authed.DELETE("/addresses/:addressID", s.deleteAddressHandler)

		authed.GET("/payment-methods", s.listPaymentMethodsHandler)
		authed.DELETE("/payment-methods/:methodID", s.deletePaymentMethodHandler)

		authed.PUT("/account/profile", s.updateProfileHandler)
		authed.PUT("/account/password", s.updatePasswordHandler)

		authed.POST("/orders/place", s.placeOrderHandler)
		authed.GET("/orders/mine", s.customerOrdersHandler)
		authed.GET("/orders/:orderID", s.getOrderHandler)
		authed.POST("/orders/:orderID/cancellation-request", s.requestCancellationHandler)
	}

	// Operator-only routes
	operator := r.Group("/", s.validateToken, requireOperator)
	{
		operator.GET("/orders/operator/pending", s.operatorPendingHandler)
		operator.GET("/orders/operator/active", s.operatorActiveHandler)
		operator.PUT("/orders/:orderID/status", s.updateOrderStatusHandler)

		operator.PUT("/trucks/:truckID/settings", s.updateTruckSettingsHandler)
		operator.PUT("/trucks/:truckID/location", s.updateTruckLocationHandler)
	}
}

// Handler exposes the engine for httptest in end-to-end tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run(addr string) error {
	s.log.Info().Str("addr", addr).Msg("dev backend listening")
	return s.engine.Run(addr)
}
