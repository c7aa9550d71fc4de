// Package dashboard drives the operator's order board: a pending list of
// orders awaiting confirmation and an active list of orders in progress,
// reconciled from realtime pushes, a fixed-interval poll and optimistic
// updates after each action.
package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/api"
	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/models"
	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/realtime"
)

var (
	ErrReasonRequired    = errors.New("a non-empty reason is required")
	ErrOrderNotFound     = errors.New("order not found in dashboard")
	ErrIllegalTransition = errors.New("illegal status transition")
)

const DefaultPollInterval = 30 * time.Second

type Controller struct {
	api *api.Client
	log zerolog.Logger

	pollInterval time.Duration

	mu         sync.Mutex
	pending    []models.OrderSummary
	active     []models.OrderSummary
	actionErrs map[string]string // order id → last action failure, surfaced in the detail view
	seq        int
	subs       map[int]func()
}

func New(client *api.Client, pollInterval time.Duration, logger zerolog.Logger) *Controller {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Controller{
		api:          client,
		log:          logger.With().Str("component", "dashboard").Logger(),
		pollInterval: pollInterval,
		actionErrs:   make(map[string]string),
		subs:         make(map[int]func()),
	}
}

// Subscribe registers fn for list changes and returns an unsubscribe func.
func (c *Controller) Subscribe(fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	id := c.seq
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Controller) changed() []func() {
	out := make([]func(), 0, len(c.subs))
	for _, fn := range c.subs {
		out = append(out, fn)
	}
	return out
}

func runAll(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}

// Bind wires the controller into the realtime adapter's order events.
func (c *Controller) Bind(rt *realtime.Adapter) {
	rt.SetHandlers(realtime.Handlers{
		OnNewOrder:            c.handleNewOrder,
		OnCancellationRequest: c.handleCancellationRequest,
	})
}

// Refresh re-fetches both lists wholesale. Incoming rows replace local
// state unless the local copy carries a newer server version, so a slow
// poll response cannot revert a freshly pushed realtime update.
func (c *Controller) Refresh(ctx context.Context) error {
	pending, err := c.api.OperatorPendingOrders(ctx)
	if err != nil {
		return err
	}
	active, err := c.api.OperatorActiveOrders(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	versions := make(map[string]models.OrderSummary, len(c.pending)+len(c.active))
	for _, o := range c.pending {
		versions[o.ID] = o
	}
	for _, o := range c.active {
		versions[o.ID] = o
	}
	keepNewer := func(incoming []models.OrderSummary) []models.OrderSummary {
		out := make([]models.OrderSummary, 0, len(incoming))
		for _, o := range incoming {
			if local, ok := versions[o.ID]; ok && local.Version > o.Version {
				o = local
			}
			out = append(out, o)
		}
		return out
	}
	c.pending = keepNewer(pending)
	c.active = keepNewer(active)
	fns := c.changed()
	c.mu.Unlock()
	runAll(fns)
	return nil
}

// StartPolling refreshes both lists every poll interval until ctx is
// cancelled. Poll failures are logged and skipped; the next tick retries.
func (c *Controller) StartPolling(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(c.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := c.Refresh(ctx); err != nil {
					c.log.Warn().Err(err).Msg("poll refresh failed")
				}
			}
		}
	}()
}

func (c *Controller) handleNewOrder(order models.OrderSummary) {
	c.mu.Lock()
	replaced := false
	for i := range c.pending {
		if c.pending[i].ID == order.ID {
			c.pending[i] = order
			replaced = true
			break
		}
	}
	if !replaced {
		c.pending = append([]models.OrderSummary{order}, c.pending...)
	}
	fns := c.changed()
	c.mu.Unlock()
	runAll(fns)
}

// handleCancellationRequest flags the matching active order and records
// the status it held so a declined request can revert to it. Other orders
// are untouched.
func (c *Controller) handleCancellationRequest(order models.OrderSummary) {
	c.mu.Lock()
	for i := range c.active {
		if c.active[i].ID == order.ID {
			if order.PriorStatus == "" {
				order.PriorStatus = c.active[i].Status
			}
			order.Status = models.OrderStatusCancellationRequested
			c.active[i] = order
			break
		}
	}
	fns := c.changed()
	c.mu.Unlock()
	runAll(fns)
}

// Accept confirms a pending order, optionally overriding the estimated
// preparation time.
func (c *Controller) Accept(ctx context.Context, orderID string, estimatedMinutes int) error {
	return c.transition(ctx, orderID, models.OrderStatusAccepted, "", estimatedMinutes)
}

func (c *Controller) Reject(ctx context.Context, orderID, reason string) error {
	return c.transition(ctx, orderID, models.OrderStatusRejected, reason, 0)
}

func (c *Controller) StartPreparing(ctx context.Context, orderID string) error {
	return c.transition(ctx, orderID, models.OrderStatusPreparing, "", 0)
}

// MarkReady advances a preparing order to ready_for_pickup or
// out_for_delivery according to its fulfillment type.
func (c *Controller) MarkReady(ctx context.Context, orderID string) error {
	order, err := c.find(orderID)
	if err != nil {
		return err
	}
	next := models.OrderStatusReadyForPickup
	if order.FulfillmentType == models.FulfillmentDelivery {
		next = models.OrderStatusOutForDelivery
	}
	return c.transition(ctx, orderID, next, "", 0)
}

func (c *Controller) Complete(ctx context.Context, orderID string) error {
	return c.transition(ctx, orderID, models.OrderStatusCompleted, "", 0)
}

func (c *Controller) MarkDelivered(ctx context.Context, orderID string) error {
	return c.transition(ctx, orderID, models.OrderStatusDelivered, "", 0)
}

func (c *Controller) Cancel(ctx context.Context, orderID, reason string) error {
	return c.transition(ctx, orderID, models.OrderStatusCancelled, reason, 0)
}

// ApproveCancellation grants a customer's cancellation request.
func (c *Controller) ApproveCancellation(ctx context.Context, orderID string) error {
	return c.transition(ctx, orderID, models.OrderStatusCancelled, "cancelled at customer request", 0)
}

// DeclineCancellation refuses the request and reverts the order to the
// status it held before the customer asked.
func (c *Controller) DeclineCancellation(ctx context.Context, orderID string) error {
	order, err := c.find(orderID)
	if err != nil {
		return err
	}
	prior := order.PriorStatus
	if prior == "" {
		prior = models.OrderStatusAccepted
	}
	return c.transition(ctx, orderID, prior, "", 0)
}

// transition validates locally, submits one status-update call and applies
// the result optimistically. On failure the order keeps its prior
// collection membership and the error is recorded for the detail view;
// retry is manual.
func (c *Controller) transition(ctx context.Context, orderID string, to models.OrderStatus, reason string, estimatedMinutes int) error {
	order, err := c.find(orderID)
	if err != nil {
		return err
	}
	if to.ReasonRequired() && reason == "" {
		return ErrReasonRequired
	}
	if !models.CanTransition(order.Status, to, order.PriorStatus) {
		return ErrIllegalTransition
	}

	updated, err := c.api.UpdateOrderStatus(ctx, orderID, api.UpdateOrderStatusRequest{
		Status:           to,
		Reason:           reason,
		EstimatedMinutes: estimatedMinutes,
	})
	if err != nil {
		c.mu.Lock()
		c.actionErrs[orderID] = err.Error()
		fns := c.changed()
		c.mu.Unlock()
		runAll(fns)
		return err
	}

	c.mu.Lock()
	delete(c.actionErrs, orderID)
	c.apply(*updated)
	fns := c.changed()
	c.mu.Unlock()
	runAll(fns)
	return nil
}

// apply moves the order between or out of the pending/active collections
// according to its new status. Caller holds the mutex.
func (c *Controller) apply(order models.OrderSummary) {
	remove := func(list []models.OrderSummary) []models.OrderSummary {
		kept := list[:0]
		for _, o := range list {
			if o.ID != order.ID {
				kept = append(kept, o)
			}
		}
		return kept
	}
	c.pending = remove(c.pending)
	c.active = remove(c.active)

	switch {
	case order.Status == models.OrderStatusPendingConfirmation:
		c.pending = append([]models.OrderSummary{order}, c.pending...)
	case order.Status.IsActive():
		c.active = append([]models.OrderSummary{order}, c.active...)
	}
	// Terminal statuses leave both collections.
}

func (c *Controller) find(orderID string) (models.OrderSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, o := range c.pending {
		if o.ID == orderID {
			return o, nil
		}
	}
	for _, o := range c.active {
		if o.ID == orderID {
			return o, nil
		}
	}
	return models.OrderSummary{}, ErrOrderNotFound
}

func (c *Controller) Pending() []models.OrderSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.OrderSummary, len(c.pending))
	copy(out, c.pending)
	return out
}

func (c *Controller) Active() []models.OrderSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.OrderSummary, len(c.active))
	copy(out, c.active)
	return out
}

// ActionError returns the last action failure for the order, empty when
// the last action succeeded.
func (c *Controller) ActionError(orderID string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.actionErrs[orderID]
}
