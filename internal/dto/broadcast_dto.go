package dto

import "github.com/google/uuid"

type BroadcastRequest struct {
	Message            string     `json:"message"`
	FilterType         string     `json:"filter_type"`
	SubscriptionPlanID *uuid.UUID `json:"subscription_plan_id,omitempty"`
}

type BroadcastResult struct {
	TotalRecipients int `json:"total_recipients"`
	SuccessCount    int `json:"success_count"`
	FailureCount    int `json:"failure_count"`
}
