package dto

import "github.com/google/uuid"

type UpsertMemberRequest struct {
	TelegramUserID   int64  `json:"telegram_user_id"`
	TelegramUsername string `json:"telegram_username"`
}

type ActivateMemberRequest struct {
	TelegramUserID int64     `json:"telegram_user_id"`
	PlanID         uuid.UUID `json:"plan_id"`
}
