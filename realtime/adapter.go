// Package realtime maintains the per-session event connection and
// translates server pushes into notification-store insertions and order
// list updates in whichever view registered handlers.
package realtime

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/models"
	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/store"
)

// State is the adapter's connection state, published to subscribers on
// every transition so views can render a connectivity indicator.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateError        State = "error"
)

// Server-to-client event names.
const (
	EventNewOrderForOperator          = "new_order_for_operator"
	EventOrderStatusUpdateForCustomer = "order_status_update_for_customer"
	EventCustomerCancellationRequest  = "customer_cancellation_request"
)

// Cancellation requests stay on screen longer than ordinary notifications.
const (
	defaultNotifyDuration  = 6 * time.Second
	extendedNotifyDuration = 15 * time.Second
)

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Handlers are the order-list hooks a consuming view registers. Nil hooks
// are skipped; notifications are enqueued regardless.
type Handlers struct {
	OnNewOrder            func(models.OrderSummary)
	OnStatusUpdate        func(models.OrderSummary)
	OnCancellationRequest func(models.OrderSummary)
}

type Adapter struct {
	url    string
	notifs *store.NotificationStore
	log    zerolog.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	state     State
	handlers  Handlers
	stateSeq  int
	stateSubs map[int]func(State)
}

func NewAdapter(url string, notifs *store.NotificationStore, logger zerolog.Logger) *Adapter {
	return &Adapter{
		url:       url,
		notifs:    notifs,
		log:       logger.With().Str("component", "realtime").Logger(),
		state:     StateDisconnected,
		stateSubs: make(map[int]func(State)),
	}
}

// SetHandlers registers the order-list hooks; passing the zero value
// unregisters them (e.g. when a dashboard unmounts).
func (a *Adapter) SetHandlers(h Handlers) {
	a.mu.Lock()
	a.handlers = h
	a.mu.Unlock()
}

// SubscribeState registers fn for connection-state transitions and returns
// an unsubscribe func.
func (a *Adapter) SubscribeState(fn func(State)) func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stateSeq++
	id := a.stateSeq
	a.stateSubs[id] = fn
	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.stateSubs, id)
	}
}

func (a *Adapter) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Adapter) setState(s State) {
	a.mu.Lock()
	a.state = s
	subs := make([]func(State), 0, len(a.stateSubs))
	for _, fn := range a.stateSubs {
		subs = append(subs, fn)
	}
	a.mu.Unlock()
	for _, fn := range subs {
		fn(s)
	}
}

// Connect dials the event channel, authenticating the handshake with the
// session token. It is called after a successful login; there is no
// automatic reconnect, a failed or dropped connection stays down until the
// next login or manual refresh.
func (a *Adapter) Connect(token string) error {
	a.mu.Lock()
	if a.conn != nil {
		a.mu.Unlock()
		return errors.New("realtime: already connected")
	}
	a.mu.Unlock()

	a.setState(StateConnecting)

	conn, _, err := websocket.DefaultDialer.Dial(a.url+"?token="+token, nil)
	if err != nil {
		a.log.Warn().Err(err).Msg("handshake failed")
		a.setState(StateError)
		return err
	}

	a.mu.Lock()
	a.conn = conn
	a.mu.Unlock()
	a.setState(StateConnected)
	a.log.Info().Msg("connected")

	go a.readLoop(conn)
	return nil
}

// Disconnect closes the channel, e.g. on logout.
func (a *Adapter) Disconnect() {
	a.mu.Lock()
	conn := a.conn
	a.conn = nil
	a.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
	a.setState(StateDisconnected)
}

func (a *Adapter) readLoop(conn *websocket.Conn) {
	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			// Clear the handle so the next login can re-establish.
			a.mu.Lock()
			open := a.conn == conn
			if open {
				a.conn = nil
			}
			a.mu.Unlock()
			if open {
				a.log.Warn().Err(err).Msg("connection lost")
				a.setState(StateDisconnected)
			}
			return
		}
		a.dispatch(env)
	}
}

func (a *Adapter) dispatch(env envelope) {
	var order models.OrderSummary
	if err := json.Unmarshal(env.Data, &order); err != nil {
		a.log.Warn().Err(err).Str("event", env.Event).Msg("undecodable event payload")
		return
	}

	a.mu.Lock()
	h := a.handlers
	a.mu.Unlock()

	switch env.Event {
	case EventNewOrderForOperator:
		a.notifs.Add(models.SeverityInfo, "New order #"+order.OrderNumber+" received", defaultNotifyDuration)
		if h.OnNewOrder != nil {
			h.OnNewOrder(order)
		}
	case EventOrderStatusUpdateForCustomer:
		a.notifs.Add(severityFor(order.Status), statusMessage(order), defaultNotifyDuration)
		if h.OnStatusUpdate != nil {
			h.OnStatusUpdate(order)
		}
	case EventCustomerCancellationRequest:
		a.notifs.Add(models.SeverityWarning,
			"Customer requested cancellation of order #"+order.OrderNumber, extendedNotifyDuration)
		if h.OnCancellationRequest != nil {
			h.OnCancellationRequest(order)
		}
	default:
		a.log.Debug().Str("event", env.Event).Msg("ignoring unknown event")
	}
}

// severityFor maps a new order status to the notification tone shown to
// the customer.
func severityFor(status models.OrderStatus) models.Severity {
	switch status {
	case models.OrderStatusRejected:
		return models.SeverityError
	case models.OrderStatusCancelled:
		return models.SeverityWarning
	case models.OrderStatusReadyForPickup, models.OrderStatusOutForDelivery,
		models.OrderStatusDelivered, models.OrderStatusCompleted:
		return models.SeveritySuccess
	default:
		return models.SeverityInfo
	}
}

func statusMessage(order models.OrderSummary) string {
	switch order.Status {
	case models.OrderStatusAccepted:
		return "Order #" + order.OrderNumber + " was accepted"
	case models.OrderStatusPreparing:
		return "Order #" + order.OrderNumber + " is being prepared"
	case models.OrderStatusReadyForPickup:
		return "Order #" + order.OrderNumber + " is ready for pickup"
	case models.OrderStatusOutForDelivery:
		return "Order #" + order.OrderNumber + " is out for delivery"
	case models.OrderStatusCompleted:
		return "Order #" + order.OrderNumber + " is completed"
	case models.OrderStatusDelivered:
		return "Order #" + order.OrderNumber + " was delivered"
	case models.OrderStatusRejected:
		return "Order #" + order.OrderNumber + " was rejected"
	case models.OrderStatusCancelled:
		return "Order #" + order.OrderNumber + " was cancelled"
	default:
		return "Order #" + order.OrderNumber + " status: " + string(order.Status)
	}
}
