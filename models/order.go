package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string
type FulfillmentType string

const (
	// Order lifecycle statuses
	OrderStatusPendingConfirmation   OrderStatus = "pending_confirmation"   // placed, awaiting operator decision
	OrderStatusAccepted              OrderStatus = "accepted"               // operator confirmed
	OrderStatusPreparing             OrderStatus = "preparing"              // food being made
	OrderStatusReadyForPickup        OrderStatus = "ready_for_pickup"       // pickup orders only
	OrderStatusOutForDelivery        OrderStatus = "out_for_delivery"       // delivery orders only
	OrderStatusCompleted             OrderStatus = "completed"              // picked up by customer
	OrderStatusDelivered             OrderStatus = "delivered"              // handed to customer
	OrderStatusCancelled             OrderStatus = "cancelled"              // cancelled by operator
	OrderStatusRejected              OrderStatus = "rejected"               // refused before acceptance
	OrderStatusCancellationRequested OrderStatus = "cancellation_requested" // customer asked to cancel

	FulfillmentPickup   FulfillmentType = "pickup"
	FulfillmentDelivery FulfillmentType = "delivery"
)

// nextStatuses is the operator-driven transition table. A declined
// cancellation request additionally reverts to the status held before the
// request, which CanTransition accepts via the prior-status argument.
var nextStatuses = map[OrderStatus][]OrderStatus{
	OrderStatusPendingConfirmation:   {OrderStatusAccepted, OrderStatusRejected},
	OrderStatusAccepted:              {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing:             {OrderStatusReadyForPickup, OrderStatusOutForDelivery, OrderStatusCancelled},
	OrderStatusReadyForPickup:        {OrderStatusCompleted},
	OrderStatusOutForDelivery:        {OrderStatusDelivered},
	OrderStatusCancellationRequested: {OrderStatusCancelled},
}

// ParseOrderStatus maps a wire string to an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch strings.ToLower(s) {
	case string(OrderStatusPendingConfirmation):
		return OrderStatusPendingConfirmation, nil
	case string(OrderStatusAccepted):
		return OrderStatusAccepted, nil
	case string(OrderStatusPreparing):
		return OrderStatusPreparing, nil
	case string(OrderStatusReadyForPickup):
		return OrderStatusReadyForPickup, nil
	case string(OrderStatusOutForDelivery):
		return OrderStatusOutForDelivery, nil
	case string(OrderStatusCompleted):
		return OrderStatusCompleted, nil
	case string(OrderStatusDelivered):
		return OrderStatusDelivered, nil
	case string(OrderStatusCancelled):
		return OrderStatusCancelled, nil
	case string(OrderStatusRejected):
		return OrderStatusRejected, nil
	case string(OrderStatusCancellationRequested):
		return OrderStatusCancellationRequested, nil
	default:
		return "", errors.New("invalid order status: " + s)
	}
}

// CanTransition reports whether from → to is a legal operator transition.
// prior is the status held before a cancellation request and is only
// consulted when declining one (cancellation_requested → prior).
func CanTransition(from, to, prior OrderStatus) bool {
	if from == OrderStatusCancellationRequested && prior != "" && to == prior {
		return true
	}
	for _, next := range nextStatuses[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the legal operator targets from the given status.
func NextStatuses(from OrderStatus) []OrderStatus {
	out := make([]OrderStatus, len(nextStatuses[from]))
	copy(out, nextStatuses[from])
	return out
}

// IsTerminal reports whether the status ends the order's lifecycle.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusDelivered, OrderStatusCancelled, OrderStatusRejected:
		return true
	}
	return false
}

// IsActive reports whether the order belongs in the operator's active list.
func (s OrderStatus) IsActive() bool {
	switch s {
	case OrderStatusAccepted, OrderStatusPreparing, OrderStatusReadyForPickup,
		OrderStatusOutForDelivery, OrderStatusCancellationRequested:
		return true
	}
	return false
}

// ReasonRequired reports whether moving to the status needs a non-empty
// reason from the operator.
func (s OrderStatus) ReasonRequired() bool {
	return s == OrderStatusRejected || s == OrderStatusCancelled
}

// OrderSummary is the list projection used by the operator dashboard and
// the customer's order history.
type OrderSummary struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"order_number"`
	TruckID         string          `json:"truck_id"`
	CustomerName    string          `json:"customer_name"`
	FulfillmentType FulfillmentType `json:"fulfillment_type"`
	Status          OrderStatus     `json:"status"`
	PriorStatus     OrderStatus     `json:"prior_status,omitempty"` // status before a cancellation request
	TotalAmount     decimal.Decimal `json:"total_amount"`
	AddressSnippet  string          `json:"address_snippet,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	Version         int64           `json:"version"` // bumped by the server on every status change
}

type OrderLine struct {
	MenuItemID   string           `json:"menu_item_id"`
	ItemName     string           `json:"item_name"`
	Quantity     int              `json:"quantity"`
	UnitPrice    decimal.Decimal  `json:"unit_price"`
	Options      []SelectedOption `json:"options,omitempty"`
	Instructions string           `json:"instructions,omitempty"`
	LineTotal    decimal.Decimal  `json:"line_total"`
}

type StatusChange struct {
	Status OrderStatus `json:"status"`
	At     time.Time   `json:"at"`
}

type OrderDetail struct {
	OrderSummary
	CustomerID       string          `json:"customer_id"`
	Items            []OrderLine     `json:"items"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	TaxAmount        decimal.Decimal `json:"tax_amount"`
	DeliveryFee      decimal.Decimal `json:"delivery_fee"`
	DeliveryAddress  *Address        `json:"delivery_address,omitempty"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	EstimatedMinutes int             `json:"estimated_minutes,omitempty"`
	Reason           string          `json:"reason,omitempty"` // rejection/cancellation reason
	History          []StatusChange  `json:"history"`
}
