package devserver

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/models"
)

// Server-to-client event names pushed over the session channel.
const (
	eventNewOrderForOperator          = "new_order_for_operator"
	eventOrderStatusUpdateForCustomer = "order_status_update_for_customer"
	eventCustomerCancellationRequest  = "customer_cancellation_request"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type wsClient struct {
	userID  string
	role    models.Role
	truckID string
}

// wsHub tracks one connection per authenticated session and pushes events
// to the matching customer or truck operator.
type wsHub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]wsClient
}

func newWsHub() *wsHub {
	return &wsHub{conns: make(map[*websocket.Conn]wsClient)}
}

type wsEnvelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

func (h *wsHub) sendToCustomer(userID, event string, data interface{}) {
	h.send(event, data, func(cl wsClient) bool {
		return cl.role == models.RoleCustomer && cl.userID == userID
	})
}

func (h *wsHub) sendToTruck(truckID, event string, data interface{}) {
	h.send(event, data, func(cl wsClient) bool {
		return cl.role == models.RoleOperator && cl.truckID == truckID
	})
}

func (h *wsHub) send(event string, data interface{}, match func(wsClient) bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, cl := range h.conns {
		if match(cl) {
			if err := conn.WriteJSON(wsEnvelope{Event: event, Data: data}); err != nil {
				conn.Close()
				delete(h.conns, conn)
			}
		}
	}
}

// wsHandler authenticates the handshake with the session token and keeps
// the connection registered until it closes.
func (s *Server) wsHandler(c *gin.Context) {
	token := c.Query("token")
	userID, role, truckID, err := s.parseToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	s.hub.mu.Lock()
	s.hub.conns[conn] = wsClient{userID: userID, role: role, truckID: truckID}
	s.hub.mu.Unlock()
	s.log.Info().Str("user_id", userID).Str("role", string(role)).Msg("realtime client connected")

	defer func() {
		s.hub.mu.Lock()
		delete(s.hub.conns, conn)
		s.hub.mu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
