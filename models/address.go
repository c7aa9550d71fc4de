package models

type Address struct {
	ID         string  `json:"id,omitempty"`
	Label      string  `json:"label,omitempty"`
	Street     string  `json:"street"`
	City       string  `json:"city"`
	PostalCode string  `json:"postal_code"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// Snippet is the short form shown on order summaries.
func (a Address) Snippet() string {
	if a.City == "" {
		return a.Street
	}
	return a.Street + ", " + a.City
}

type PaymentMethod struct {
	ID    string `json:"id"`
	Brand string `json:"brand"`
	Last4 string `json:"last4"`
	Token string `json:"token"`
}
