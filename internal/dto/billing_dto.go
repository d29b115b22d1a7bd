package dto

import "encoding/json"

type CreatePaymentMethodRequest struct {
	Provider string          `json:"provider"`
	Config   json.RawMessage `json:"config"`
}

type TogglePaymentMethodRequest struct {
	IsActive bool `json:"is_active"`
}
