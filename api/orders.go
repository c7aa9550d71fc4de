package api

import (
	"context"
	"net/http"

	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/models"
)

type OrderItemInput struct {
	MenuItemID   string                  `json:"menu_item_id"`
	Quantity     int                     `json:"quantity"`
	Options      []models.SelectedOption `json:"options,omitempty"`
	Instructions string                  `json:"instructions,omitempty"`
}

type PlaceOrderRequest struct {
	TruckID         string                 `json:"truck_id"`
	FulfillmentType models.FulfillmentType `json:"fulfillment_type"`
	Items           []OrderItemInput       `json:"items"`
	AddressID       string                 `json:"address_id,omitempty"`
	Address         *models.Address        `json:"address,omitempty"` // ad-hoc entry, used when AddressID is empty
	PaymentToken    string                 `json:"payment_token"`
}

func (c *Client) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*models.OrderDetail, error) {
	var out models.OrderDetail
	if err := c.do(ctx, http.MethodPost, "/orders/place", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CustomerOrders(ctx context.Context) ([]models.OrderSummary, error) {
	var out []models.OrderSummary
	if err := c.do(ctx, http.MethodGet, "/orders/mine", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (*models.OrderDetail, error) {
	var out models.OrderDetail
	if err := c.do(ctx, http.MethodGet, "/orders/"+orderID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Operator order lists, split by lifecycle stage.

func (c *Client) OperatorPendingOrders(ctx context.Context) ([]models.OrderSummary, error) {
	var out []models.OrderSummary
	if err := c.do(ctx, http.MethodGet, "/orders/operator/pending", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) OperatorActiveOrders(ctx context.Context) ([]models.OrderSummary, error) {
	var out []models.OrderSummary
	if err := c.do(ctx, http.MethodGet, "/orders/operator/active", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type UpdateOrderStatusRequest struct {
	Status           models.OrderStatus `json:"status"`
	Reason           string             `json:"reason,omitempty"`
	EstimatedMinutes int                `json:"estimated_minutes,omitempty"`
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, req UpdateOrderStatusRequest) (*models.OrderSummary, error) {
	var out models.OrderSummary
	if err := c.do(ctx, http.MethodPut, "/orders/"+orderID+"/status", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type CancellationRequestInput struct {
	Reason string `json:"reason,omitempty"`
}

// RequestCancellation is the customer-side ask; the operator approves or
// declines it from the dashboard.
func (c *Client) RequestCancellation(ctx context.Context, orderID string, req CancellationRequestInput) (*models.OrderSummary, error) {
	var out models.OrderSummary
	if err := c.do(ctx, http.MethodPost, "/orders/"+orderID+"/cancellation-request", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
