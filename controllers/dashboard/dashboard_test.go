package dashboard

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

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
	ts       *httptest.Server
	operator *api.Client
	customer *api.Client
	ctrl     *Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	srv := devserver.New("test-secret", zerolog.Nop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	opAuth := store.NewAuthStore()
	operator := api.New(ts.URL, "pk_test", opAuth.Token, zerolog.Nop())
	resp, err := operator.Login(context.Background(), "operator@example.com", "password")
	require.NoError(t, err)
	opAuth.LoginSuccess(resp.User, resp.Token)

	custAuth := store.NewAuthStore()
	customer := api.New(ts.URL, "pk_test", custAuth.Token, zerolog.Nop())
	resp, err = customer.Login(context.Background(), "customer@example.com", "password")
	require.NoError(t, err)
	custAuth.LoginSuccess(resp.User, resp.Token)

	return &fixture{
		ts:       ts,
		operator: operator,
		customer: customer,
		ctrl:     New(operator, time.Minute, zerolog.Nop()),
	}
}

// placeOrder submits a pickup order as the customer and returns its detail.
func (f *fixture) placeOrder(t *testing.T) *models.OrderDetail {
	t.Helper()
	order, err := f.customer.PlaceOrder(context.Background(), api.PlaceOrderRequest{
		TruckID:         "truck-1",
		FulfillmentType: models.FulfillmentPickup,
		Items: []api.OrderItemInput{
			{MenuItemID: "item-1", Quantity: 2, Options: []models.SelectedOption{{OptionID: "opt-1"}}},
		},
		PaymentToken: "tok_test",
	})
	require.NoError(t, err)
	return order
}

func TestRefreshLoadsPendingOrders(t *testing.T) {
	f := newFixture(t)
	placed := f.placeOrder(t)

	require.NoError(t, f.ctrl.Refresh(context.Background()))

	pending := f.ctrl.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, placed.ID, pending[0].ID)
	assert.Equal(t, models.OrderStatusPendingConfirmation, pending[0].Status)
	assert.Empty(t, f.ctrl.Active())
}

func TestAcceptMovesOrderToActive(t *testing.T) {
	f := newFixture(t)
	placed := f.placeOrder(t)
	ctx := context.Background()
	require.NoError(t, f.ctrl.Refresh(ctx))

	require.NoError(t, f.ctrl.Accept(ctx, placed.ID, 25))

	assert.Empty(t, f.ctrl.Pending())
	active := f.ctrl.Active()
	require.Len(t, active, 1)
	assert.Equal(t, models.OrderStatusAccepted, active[0].Status)

	detail, err := f.operator.GetOrder(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, detail.EstimatedMinutes)
}

func TestRejectRequiresReason(t *testing.T) {
	f := newFixture(t)
	placed := f.placeOrder(t)
	ctx := context.Background()
	require.NoError(t, f.ctrl.Refresh(ctx))

	err := f.ctrl.Reject(ctx, placed.ID, "")
	assert.ErrorIs(t, err, ErrReasonRequired)
	require.Len(t, f.ctrl.Pending(), 1, "order stays pending")

	require.NoError(t, f.ctrl.Reject(ctx, placed.ID, "out of bulgogi"))
	assert.Empty(t, f.ctrl.Pending())
	assert.Empty(t, f.ctrl.Active())

	detail, err := f.operator.GetOrder(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusRejected, detail.Status)
	assert.Equal(t, "out of bulgogi", detail.Reason)
}

func TestPickupLifecycleToCompleted(t *testing.T) {
	f := newFixture(t)
	placed := f.placeOrder(t)
	ctx := context.Background()
	require.NoError(t, f.ctrl.Refresh(ctx))

	require.NoError(t, f.ctrl.Accept(ctx, placed.ID, 0))
	require.NoError(t, f.ctrl.StartPreparing(ctx, placed.ID))
	require.NoError(t, f.ctrl.MarkReady(ctx, placed.ID))

	active := f.ctrl.Active()
	require.Len(t, active, 1)
	assert.Equal(t, models.OrderStatusReadyForPickup, active[0].Status, "pickup order goes to ready_for_pickup")

	require.NoError(t, f.ctrl.Complete(ctx, placed.ID))
	assert.Empty(t, f.ctrl.Active(), "terminal orders leave both lists")
}

func TestIllegalTransitionIsRefusedLocally(t *testing.T) {
	f := newFixture(t)
	placed := f.placeOrder(t)
	ctx := context.Background()
	require.NoError(t, f.ctrl.Refresh(ctx))

	// pending_confirmation can only go to accepted or rejected.
	assert.ErrorIs(t, f.ctrl.Complete(ctx, placed.ID), ErrIllegalTransition)
	assert.ErrorIs(t, f.ctrl.StartPreparing(ctx, placed.ID), ErrIllegalTransition)
	require.Len(t, f.ctrl.Pending(), 1)
}

func TestFailedActionRecordsErrorAndKeepsMembership(t *testing.T) {
	f := newFixture(t)
	placed := f.placeOrder(t)
	ctx := context.Background()
	require.NoError(t, f.ctrl.Refresh(ctx))

	// Another operator action already accepted the order out from under us.
	_, err := f.operator.UpdateOrderStatus(ctx, placed.ID, api.UpdateOrderStatusRequest{
		Status: models.OrderStatusAccepted,
	})
	require.NoError(t, err)

	err = f.ctrl.Accept(ctx, placed.ID, 0)
	require.Error(t, err)
	assert.NotEmpty(t, f.ctrl.ActionError(placed.ID))
	require.Len(t, f.ctrl.Pending(), 1, "membership unchanged on failure; retry is manual")
}

func TestNewOrderEventPrependsToPending(t *testing.T) {
	f := newFixture(t)

	f.ctrl.handleNewOrder(models.OrderSummary{
		ID: "o-1", OrderNumber: "1042", Status: models.OrderStatusPendingConfirmation,
		TotalAmount: decimal.NewFromInt(12), Version: 1,
	})
	f.ctrl.handleNewOrder(models.OrderSummary{
		ID: "o-2", OrderNumber: "1043", Status: models.OrderStatusPendingConfirmation,
		TotalAmount: decimal.NewFromInt(9), Version: 1,
	})

	pending := f.ctrl.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, "1043", pending[0].OrderNumber, "newest first")
	assert.Equal(t, "1042", pending[1].OrderNumber)

	// Redelivery of the same order replaces rather than duplicates.
	f.ctrl.handleNewOrder(models.OrderSummary{ID: "o-1", OrderNumber: "1042", Version: 2})
	assert.Len(t, f.ctrl.Pending(), 2)
}

func TestCancellationRequestFlagsOnlyMatchingOrder(t *testing.T) {
	f := newFixture(t)
	first := f.placeOrder(t)
	second := f.placeOrder(t)
	ctx := context.Background()
	require.NoError(t, f.ctrl.Refresh(ctx))
	require.NoError(t, f.ctrl.Accept(ctx, first.ID, 0))
	require.NoError(t, f.ctrl.Accept(ctx, second.ID, 0))
	require.NoError(t, f.ctrl.StartPreparing(ctx, first.ID))

	f.ctrl.handleCancellationRequest(models.OrderSummary{ID: first.ID, OrderNumber: first.OrderNumber, Version: 99})

	var flagged, other models.OrderSummary
	for _, o := range f.ctrl.Active() {
		switch o.ID {
		case first.ID:
			flagged = o
		case second.ID:
			other = o
		}
	}
	require.Equal(t, first.ID, flagged.ID)
	require.Equal(t, second.ID, other.ID)
	assert.Equal(t, models.OrderStatusCancellationRequested, flagged.Status)
	assert.Equal(t, models.OrderStatusPreparing, flagged.PriorStatus)
	assert.Equal(t, models.OrderStatusAccepted, other.Status, "other orders untouched")
}

func TestDeclineCancellationRevertsToPriorStatus(t *testing.T) {
	f := newFixture(t)
	placed := f.placeOrder(t)
	ctx := context.Background()
	require.NoError(t, f.ctrl.Refresh(ctx))
	require.NoError(t, f.ctrl.Accept(ctx, placed.ID, 0))
	require.NoError(t, f.ctrl.StartPreparing(ctx, placed.ID))

	_, err := f.customer.RequestCancellation(ctx, placed.ID, api.CancellationRequestInput{Reason: "changed my mind"})
	require.NoError(t, err)
	require.NoError(t, f.ctrl.Refresh(ctx))

	require.NoError(t, f.ctrl.DeclineCancellation(ctx, placed.ID))

	active := f.ctrl.Active()
	require.Len(t, active, 1)
	assert.Equal(t, models.OrderStatusPreparing, active[0].Status, "progress is not lost")
}

func TestApproveCancellation(t *testing.T) {
	f := newFixture(t)
	placed := f.placeOrder(t)
	ctx := context.Background()
	require.NoError(t, f.ctrl.Refresh(ctx))
	require.NoError(t, f.ctrl.Accept(ctx, placed.ID, 0))

	_, err := f.customer.RequestCancellation(ctx, placed.ID, api.CancellationRequestInput{})
	require.NoError(t, err)
	require.NoError(t, f.ctrl.Refresh(ctx))

	require.NoError(t, f.ctrl.ApproveCancellation(ctx, placed.ID))
	assert.Empty(t, f.ctrl.Active())

	detail, err := f.operator.GetOrder(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, detail.Status)
}

func TestRefreshKeepsNewerLocalVersion(t *testing.T) {
	f := newFixture(t)
	placed := f.placeOrder(t)
	ctx := context.Background()
	require.NoError(t, f.ctrl.Refresh(ctx))

	// A realtime push carried a newer version than what the server list
	// will report; the poll must not revert it.
	newer := placed.OrderSummary
	newer.Version = 999
	f.ctrl.handleNewOrder(newer)
	require.NoError(t, f.ctrl.Refresh(ctx))

	pending := f.ctrl.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, int64(999), pending[0].Version, "poll must not revert the fresher push")
}

func TestExportOrdersWritesWorkbook(t *testing.T) {
	f := newFixture(t)
	f.placeOrder(t)
	require.NoError(t, f.ctrl.Refresh(context.Background()))

	var buf bytes.Buffer
	require.NoError(t, f.ctrl.ExportOrders(&buf))
	assert.Greater(t, buf.Len(), 0)
	// xlsx files are zip archives.
	assert.Equal(t, []byte{'P', 'K'}, buf.Bytes()[:2])
}
