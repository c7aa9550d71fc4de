package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/models"
)

func (c *Client) ListPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	var out []models.PaymentMethod
	if err := c.do(ctx, http.MethodGet, "/payment-methods", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeletePaymentMethod(ctx context.Context, methodID string) error {
	return c.do(ctx, http.MethodDelete, "/payment-methods/"+methodID, nil, nil)
}

type CardInput struct {
	Number   string `json:"number"`
	ExpMonth int    `json:"exp_month"`
	ExpYear  int    `json:"exp_year"`
	CVC      string `json:"cvc"`
	Name     string `json:"name,omitempty"`
}

type PaymentToken struct {
	Token string `json:"token"`
	Brand string `json:"brand"`
	Last4 string `json:"last4"`
}

// TokenizeCard exchanges raw card details for an opaque payment token. The
// call authenticates with the publishable key, not the session token, so
// it bypasses the shared do helper.
func (c *Client) TokenizeCard(ctx context.Context, card CardInput) (*PaymentToken, error) {
	payload, err := json.Marshal(card)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments/tokenize", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Publishable-Key", c.publishableKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := &Error{StatusCode: resp.StatusCode}
		var errBody struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil {
			apiErr.Message = errBody.Error
		}
		return nil, apiErr
	}

	var out PaymentToken
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
