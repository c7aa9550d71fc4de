package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SelectedOption is an option choice snapshotted onto a cart or order line
// at add-time, immune to later catalog changes.
type SelectedOption struct {
	OptionID        string          `json:"option_id"`
	GroupName       string          `json:"group_name"`
	Name            string          `json:"name"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
}

type CartItem struct {
	ID           string           `json:"id"`
	MenuItemID   string           `json:"menu_item_id"`
	ItemName     string           `json:"item_name"`
	Truck        TruckRef         `json:"truck"`
	Quantity     int              `json:"quantity"`
	UnitPrice    decimal.Decimal  `json:"unit_price"` // snapshot of base price at add-time
	Options      []SelectedOption `json:"options,omitempty"`
	Instructions string           `json:"instructions,omitempty"`
	LineTotal    decimal.Decimal  `json:"line_total"`
	AddedAt      time.Time        `json:"added_at"`
}

// ComputeLineTotal returns (unit price + sum of option adjustments) × quantity.
func ComputeLineTotal(unitPrice decimal.Decimal, options []SelectedOption, quantity int) decimal.Decimal {
	perUnit := unitPrice
	for _, opt := range options {
		perUnit = perUnit.Add(opt.PriceAdjustment)
	}
	return perUnit.Mul(decimal.NewFromInt(int64(quantity)))
}
