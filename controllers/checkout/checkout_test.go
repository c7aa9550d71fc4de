package checkout

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/api"
	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/devserver"
	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/models"
	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/store"
)

type fixture struct {
	ts     *httptest.Server
	client *api.Client
	auth   *store.AuthStore
	cart   *store.CartStore
	notifs *store.NotificationStore
	ctrl   *Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	srv := devserver.New("test-secret", zerolog.Nop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	auth := store.NewAuthStore()
	cart := store.NewCartStore()
	notifs := store.NewNotificationStore()
	client := api.New(ts.URL, "pk_test", auth.Token, zerolog.Nop())

	resp, err := client.Login(context.Background(), "customer@example.com", "password")
	require.NoError(t, err)
	auth.LoginSuccess(resp.User, resp.Token)

	return &fixture{
		ts:     ts,
		client: client,
		auth:   auth,
		cart:   cart,
		notifs: notifs,
		ctrl:   New(client, cart, notifs, zerolog.Nop()),
	}
}

// addTaco puts 2 × $5 tacos with a $1 option in the cart (line total $12).
func (f *fixture) addTaco(t *testing.T) {
	t.Helper()
	unit := decimal.NewFromInt(5)
	opts := []models.SelectedOption{
		{OptionID: "opt-1", GroupName: "Extras", Name: "Extra Kimchi", PriceAdjustment: decimal.NewFromInt(1)},
	}
	require.NoError(t, f.cart.AddItem(models.CartItem{
		ID:         "cart-1",
		MenuItemID: "item-1",
		ItemName:   "Bulgogi Taco",
		Truck:      models.TruckRef{ID: "truck-1", Name: "Seoul Street Tacos"},
		Quantity:   2,
		UnitPrice:  unit,
		Options:    opts,
		LineTotal:  models.ComputeLineTotal(unit, opts, 2),
	}))
}

func TestPickupOrderEndToEnd(t *testing.T) {
	f := newFixture(t)
	f.addTaco(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.Load(ctx))
	require.NoError(t, f.ctrl.SelectFulfillment(models.FulfillmentPickup))
	require.NoError(t, f.ctrl.SelectPaymentMethod("pm-1"))

	totals := f.ctrl.Totals()
	assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(12)), "subtotal %s", totals.Subtotal)
	assert.True(t, totals.TaxAmount.Equal(decimal.NewFromFloat(0.96)), "tax %s", totals.TaxAmount)
	assert.True(t, totals.DeliveryFee.IsZero())

	conf, err := f.ctrl.Submit(ctx)
	require.NoError(t, err)
	require.NotNil(t, conf)
	assert.NotEmpty(t, conf.OrderID)
	assert.NotEmpty(t, conf.OrderNumber)

	// The cart is cleared and the order is retrievable.
	assert.Equal(t, 0, f.cart.Len())
	assert.Nil(t, f.cart.Truck())

	order, err := f.client.GetOrder(ctx, conf.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPendingConfirmation, order.Status)
	assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(12)), "server subtotal %s", order.Subtotal)
	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].LineTotal.Equal(decimal.NewFromInt(12)))
}

func TestDeliveryAddressOutsideZoneIsRejected(t *testing.T) {
	f := newFixture(t)
	f.addTaco(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.Load(ctx))
	require.NoError(t, f.ctrl.SelectFulfillment(models.FulfillmentDelivery))

	// Roughly 10 km north of the truck, radius is 5 km.
	err := f.ctrl.UseAddress(models.Address{
		Street:    "1 Far Away Rd",
		City:      "Northgate",
		Latitude:  47.6962,
		Longitude: -122.3321,
	})
	assert.ErrorIs(t, err, ErrOutOfZone)
	assert.Nil(t, f.ctrl.Address())

	// Submission stays blocked until a valid address is chosen.
	require.NoError(t, f.ctrl.SelectPaymentMethod("pm-1"))
	assert.ErrorIs(t, f.ctrl.Validate(), ErrNoAddress)
	_, err = f.ctrl.Submit(ctx)
	assert.ErrorIs(t, err, ErrNoAddress)
	assert.Equal(t, 1, f.cart.Len(), "cart is left intact for retry")
}

func TestDeliveryOrderWithinZone(t *testing.T) {
	f := newFixture(t)
	f.addTaco(t)
	ctx := context.Background()

	// Second line to clear the $15 delivery minimum.
	unit := decimal.NewFromFloat(9.50)
	require.NoError(t, f.cart.AddItem(models.CartItem{
		ID:         "cart-2",
		MenuItemID: "item-2",
		ItemName:   "Gochujang Bowl",
		Truck:      models.TruckRef{ID: "truck-1", Name: "Seoul Street Tacos"},
		Quantity:   1,
		UnitPrice:  unit,
		LineTotal:  models.ComputeLineTotal(unit, nil, 1),
	}))

	require.NoError(t, f.ctrl.Load(ctx))
	require.NoError(t, f.ctrl.SelectFulfillment(models.FulfillmentDelivery))
	require.NoError(t, f.ctrl.UseAddress(models.Address{
		Street:    "700 Pine St",
		City:      "Seattle",
		Latitude:  47.6120,
		Longitude: -122.3300,
	}))
	require.NoError(t, f.ctrl.SelectPaymentMethod("pm-1"))

	totals := f.ctrl.Totals()
	assert.True(t, totals.DeliveryFee.Equal(decimal.NewFromFloat(2.50)))

	conf, err := f.ctrl.Submit(ctx)
	require.NoError(t, err)

	order, err := f.client.GetOrder(ctx, conf.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.FulfillmentDelivery, order.FulfillmentType)
	require.NotNil(t, order.DeliveryAddress)
	assert.Equal(t, "700 Pine St", order.DeliveryAddress.Street)
	assert.True(t, order.DeliveryFee.Equal(decimal.NewFromFloat(2.50)))
}

func TestDeliveryBelowMinimumIsBlocked(t *testing.T) {
	f := newFixture(t)
	f.addTaco(t) // $12 subtotal, minimum is $15
	ctx := context.Background()

	require.NoError(t, f.ctrl.Load(ctx))
	require.NoError(t, f.ctrl.SelectFulfillment(models.FulfillmentDelivery))
	require.NoError(t, f.ctrl.UseAddress(models.Address{
		Street: "700 Pine St", City: "Seattle", Latitude: 47.6120, Longitude: -122.3300,
	}))
	require.NoError(t, f.ctrl.SelectPaymentMethod("pm-1"))

	assert.ErrorIs(t, f.ctrl.Validate(), ErrBelowMinimum)
}

func TestTokenizeNewCardResolvesPayment(t *testing.T) {
	f := newFixture(t)
	f.addTaco(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.Load(ctx))
	require.NoError(t, f.ctrl.SelectFulfillment(models.FulfillmentPickup))

	require.NoError(t, f.ctrl.TokenizeNewCard(ctx, api.CardInput{
		Number:   "4242 4242 4242 4242",
		ExpMonth: 12,
		ExpYear:  2030,
		CVC:      "123",
	}))

	assert.NoError(t, f.ctrl.Validate())
}

func TestValidateGate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.ctrl.Validate(), ErrCartEmpty)

	f.addTaco(t)
	assert.ErrorIs(t, f.ctrl.Validate(), ErrNotLoaded)

	require.NoError(t, f.ctrl.Load(ctx))
	assert.ErrorIs(t, f.ctrl.Validate(), ErrNoFulfillment)

	require.NoError(t, f.ctrl.SelectFulfillment(models.FulfillmentPickup))
	assert.ErrorIs(t, f.ctrl.Validate(), ErrNoPayment)
}

func TestFailedSubmitKeepsCartAndSurfacesInlineError(t *testing.T) {
	f := newFixture(t)
	f.addTaco(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.Load(ctx))
	require.NoError(t, f.ctrl.SelectFulfillment(models.FulfillmentPickup))
	require.NoError(t, f.ctrl.SelectPaymentMethod("pm-1"))

	// Kill the session so the place-order call is rejected.
	f.auth.Logout()

	_, err := f.ctrl.Submit(ctx)
	require.Error(t, err)
	assert.Equal(t, 1, f.cart.Len())
	assert.NotEmpty(t, f.ctrl.InlineError())
}
