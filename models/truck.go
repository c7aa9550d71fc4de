package models

import "github.com/shopspring/decimal"

type Truck struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	CuisineType      string          `json:"cuisine_type"`
	Latitude         float64         `json:"latitude"`
	Longitude        float64         `json:"longitude"`
	Online           bool            `json:"online"`
	SupportsDelivery bool            `json:"supports_delivery"`
	DeliveryRadiusKm float64         `json:"delivery_radius_km"`
	DeliveryFee      decimal.Decimal `json:"delivery_fee"`
	MinimumOrder     decimal.Decimal `json:"minimum_order"`
	TaxRate          decimal.Decimal `json:"tax_rate"` // e.g. 0.08 for 8%
	AvgPrepMinutes   int             `json:"avg_prep_minutes"`
	OperatingHours   string          `json:"operating_hours"`
	AddressSnippet   string          `json:"address_snippet"`
}

// TruckRef is the identifier pair carried by cart items; the cart never
// holds the truck entity itself.
type TruckRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type MenuItem struct {
	ID           string          `json:"id"`
	TruckID      string          `json:"truck_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	BasePrice    decimal.Decimal `json:"base_price"`
	Available    bool            `json:"available"`
	OptionGroups []OptionGroup   `json:"option_groups,omitempty"`
}

// OptionGroup is a named customization category (e.g. "Size") with
// selectable choices carrying price adjustments.
type OptionGroup struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Required bool     `json:"required"`
	Options  []Option `json:"options"`
}

type Option struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
}
