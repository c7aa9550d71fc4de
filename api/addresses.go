package api

import (
	"context"
	"net/http"

	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/models"
)

func (c *Client) ListAddresses(ctx context.Context) ([]models.Address, error) {
	var out []models.Address
	if err := c.do(ctx, http.MethodGet, "/addresses", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateAddress(ctx context.Context, addr models.Address) (*models.Address, error) {
	var out models.Address
	if err := c.do(ctx, http.MethodPost, "/addresses", addr, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAddress(ctx context.Context, addressID string) error {
	return c.do(ctx, http.MethodDelete, "/addresses/"+addressID, nil, nil)
}
