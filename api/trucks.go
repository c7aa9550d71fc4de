package api

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/models"
)

func (c *Client) ListTrucks(ctx context.Context) ([]models.Truck, error) {
	var out []models.Truck
	if err := c.do(ctx, http.MethodGet, "/trucks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTruck(ctx context.Context, truckID string) (*models.Truck, error) {
	var out models.Truck
	if err := c.do(ctx, http.MethodGet, "/trucks/"+truckID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetMenu(ctx context.Context, truckID string) ([]models.MenuItem, error) {
	var out []models.MenuItem
	if err := c.do(ctx, http.MethodGet, "/trucks/"+truckID+"/menu", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Operator-side truck management.

type TruckSettingsRequest struct {
	Online           *bool            `json:"online,omitempty"`
	SupportsDelivery *bool            `json:"supports_delivery,omitempty"`
	DeliveryRadiusKm *float64         `json:"delivery_radius_km,omitempty"`
	DeliveryFee      *decimal.Decimal `json:"delivery_fee,omitempty"`
	MinimumOrder     *decimal.Decimal `json:"minimum_order,omitempty"`
	AvgPrepMinutes   *int             `json:"avg_prep_minutes,omitempty"`
	OperatingHours   *string          `json:"operating_hours,omitempty"`
}

func (c *Client) UpdateTruckSettings(ctx context.Context, truckID string, req TruckSettingsRequest) (*models.Truck, error) {
	var out models.Truck
	if err := c.do(ctx, http.MethodPut, "/trucks/"+truckID+"/settings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type TruckLocationRequest struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AddressSnippet string  `json:"address_snippet,omitempty"`
}

func (c *Client) UpdateTruckLocation(ctx context.Context, truckID string, req TruckLocationRequest) (*models.Truck, error) {
	var out models.Truck
	if err := c.do(ctx, http.MethodPut, "/trucks/"+truckID+"/location", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
