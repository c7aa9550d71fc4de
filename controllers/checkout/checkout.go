// Package checkout aggregates cart contents, fulfillment selection,
// delivery-zone validation and payment resolution into a single
// order-submission request.
package checkout

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/api"
	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/models"
	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/store"
)

var (
	ErrCartEmpty            = errors.New("cart is empty")
	ErrNotLoaded            = errors.New("checkout data not loaded")
	ErrNoFulfillment        = errors.New("no fulfillment type selected")
	ErrDeliveryNotSupported = errors.New("this truck does not offer delivery")
	ErrNoAddress            = errors.New("no delivery address selected")
	ErrOutOfZone            = errors.New("address is outside the truck's delivery zone")
	ErrBelowMinimum         = errors.New("subtotal is below the truck's delivery minimum")
	ErrNoPayment            = errors.New("no payment method resolved")
)

type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}

// Confirmation is what the confirmation view renders after a successful
// submission.
type Confirmation struct {
	OrderID     string
	OrderNumber string
	Totals      Totals
}

type Controller struct {
	api    *api.Client
	cart   *store.CartStore
	notifs *store.NotificationStore
	log    zerolog.Logger

	mu          sync.Mutex
	truck       *models.Truck
	addresses   []models.Address
	methods     []models.PaymentMethod
	fulfillment models.FulfillmentType
	address     *models.Address
	payToken    string
	inlineErr   string
}

func New(client *api.Client, cart *store.CartStore, notifs *store.NotificationStore, logger zerolog.Logger) *Controller {
	return &Controller{
		api:    client,
		cart:   cart,
		notifs: notifs,
		log:    logger.With().Str("component", "checkout").Logger(),
	}
}

// Load fetches the truck detail, saved addresses and payment methods with
// three concurrent requests and proceeds only after all three resolve.
func (c *Controller) Load(ctx context.Context) error {
	truckRef := c.cart.Truck()
	if truckRef == nil {
		return ErrCartEmpty
	}

	var (
		wg        sync.WaitGroup
		truck     *models.Truck
		addresses []models.Address
		methods   []models.PaymentMethod
		errs      [3]error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		truck, errs[0] = c.api.GetTruck(ctx, truckRef.ID)
	}()
	go func() {
		defer wg.Done()
		addresses, errs[1] = c.api.ListAddresses(ctx)
	}()
	go func() {
		defer wg.Done()
		methods, errs[2] = c.api.ListPaymentMethods(ctx)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.truck = truck
	c.addresses = addresses
	c.methods = methods
	c.mu.Unlock()
	return nil
}

func (c *Controller) Truck() *models.Truck {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.truck == nil {
		return nil
	}
	t := *c.truck
	return &t
}

func (c *Controller) Addresses() []models.Address {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Address, len(c.addresses))
	copy(out, c.addresses)
	return out
}

func (c *Controller) PaymentMethods() []models.PaymentMethod {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.PaymentMethod, len(c.methods))
	copy(out, c.methods)
	return out
}

// SelectFulfillment picks pickup or delivery; delivery is only offered
// when the truck supports it.
func (c *Controller) SelectFulfillment(t models.FulfillmentType) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.truck == nil {
		return ErrNotLoaded
	}
	if t == models.FulfillmentDelivery && !c.truck.SupportsDelivery {
		return ErrDeliveryNotSupported
	}
	c.fulfillment = t
	if t == models.FulfillmentPickup {
		c.address = nil
	}
	return nil
}

func (c *Controller) Fulfillment() models.FulfillmentType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fulfillment
}

// SelectAddress picks one of the saved addresses and validates it against
// the truck's delivery zone.
func (c *Controller) SelectAddress(addressID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, addr := range c.addresses {
		if addr.ID == addressID {
			return c.useAddressLocked(addr)
		}
	}
	return ErrNoAddress
}

// UseAddress validates an ad-hoc address entry against the delivery zone.
func (c *Controller) UseAddress(addr models.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.useAddressLocked(addr)
}

func (c *Controller) useAddressLocked(addr models.Address) error {
	if c.truck == nil {
		return ErrNotLoaded
	}
	dist := haversineKm(c.truck.Latitude, c.truck.Longitude, addr.Latitude, addr.Longitude)
	if dist > c.truck.DeliveryRadiusKm {
		c.address = nil
		return ErrOutOfZone
	}
	a := addr
	c.address = &a
	return nil
}

func (c *Controller) Address() *models.Address {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.address == nil {
		return nil
	}
	a := *c.address
	return &a
}

// SelectPaymentMethod resolves payment to an existing saved method.
func (c *Controller) SelectPaymentMethod(methodID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.methods {
		if m.ID == methodID {
			c.payToken = m.Token
			return nil
		}
	}
	return ErrNoPayment
}

// TokenizeNewCard resolves payment by tokenizing a freshly entered card.
func (c *Controller) TokenizeNewCard(ctx context.Context, card api.CardInput) error {
	token, err := c.api.TokenizeCard(ctx, card)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.payToken = token.Token
	c.mu.Unlock()
	return nil
}

// Totals computes subtotal + tax + delivery fee for the current selection.
func (c *Controller) Totals() Totals {
	subtotal := c.cart.Subtotal()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalsLocked(subtotal)
}

func (c *Controller) totalsLocked(subtotal decimal.Decimal) Totals {
	t := Totals{Subtotal: subtotal, TaxAmount: decimal.Zero, DeliveryFee: decimal.Zero}
	if c.truck != nil {
		t.TaxAmount = c.truck.TaxRate.Mul(subtotal).Round(2)
		if c.fulfillment == models.FulfillmentDelivery {
			t.DeliveryFee = c.truck.DeliveryFee
		}
	}
	t.Total = t.Subtotal.Add(t.TaxAmount).Add(t.DeliveryFee)
	return t
}

// Validate is the submission gate: it returns nil only when the order can
// be submitted as currently configured.
func (c *Controller) Validate() error {
	if c.cart.Len() == 0 {
		return ErrCartEmpty
	}
	subtotal := c.cart.Subtotal()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.truck == nil {
		return ErrNotLoaded
	}
	if c.fulfillment == "" {
		return ErrNoFulfillment
	}
	if c.fulfillment == models.FulfillmentDelivery {
		if c.address == nil {
			return ErrNoAddress
		}
		if subtotal.LessThan(c.truck.MinimumOrder) {
			return ErrBelowMinimum
		}
	}
	if c.payToken == "" {
		return ErrNoPayment
	}
	return nil
}

// InlineError returns the last submission failure for inline rendering.
func (c *Controller) InlineError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inlineErr
}

// Submit builds one order-creation request from the cart, fulfillment
// details and payment reference. On success the cart is cleared; on
// failure cart and form state are left intact for retry.
func (c *Controller) Submit(ctx context.Context) (*Confirmation, error) {
	if err := c.Validate(); err != nil {
		c.mu.Lock()
		c.inlineErr = err.Error()
		c.mu.Unlock()
		return nil, err
	}

	truckRef := c.cart.Truck()
	items := c.cart.Items()
	subtotal := c.cart.Subtotal()

	c.mu.Lock()
	req := api.PlaceOrderRequest{
		TruckID:         truckRef.ID,
		FulfillmentType: c.fulfillment,
		PaymentToken:    c.payToken,
	}
	if c.fulfillment == models.FulfillmentDelivery && c.address != nil {
		if c.address.ID != "" {
			req.AddressID = c.address.ID
		} else {
			addr := *c.address
			req.Address = &addr
		}
	}
	totals := c.totalsLocked(subtotal)
	c.mu.Unlock()

	for _, item := range items {
		req.Items = append(req.Items, api.OrderItemInput{
			MenuItemID:   item.MenuItemID,
			Quantity:     item.Quantity,
			Options:      item.Options,
			Instructions: item.Instructions,
		})
	}

	order, err := c.api.PlaceOrder(ctx, req)
	if err != nil {
		c.mu.Lock()
		c.inlineErr = err.Error()
		c.mu.Unlock()
		c.notifs.Add(models.SeverityError, "Order could not be placed: "+err.Error(), 0)
		return nil, err
	}

	c.mu.Lock()
	c.inlineErr = ""
	c.mu.Unlock()
	c.cart.Clear()
	c.notifs.Add(models.SeveritySuccess, "Order #"+order.OrderNumber+" placed", 0)
	c.log.Info().Str("order_id", order.ID).Str("order_number", order.OrderNumber).Msg("order placed")

	return &Confirmation{OrderID: order.ID, OrderNumber: order.OrderNumber, Totals: totals}, nil
}
