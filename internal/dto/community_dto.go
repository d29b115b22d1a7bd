package dto

type CreateCommunityRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	TelegramChatID int64  `json:"telegram_chat_id"`
	CustomLink     string `json:"custom_link"`
}

type UpdateCommunityRequest struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	TelegramChatID *int64  `json:"telegram_chat_id"`
	CustomLink     *string `json:"custom_link"`
	IsActive       *bool   `json:"is_active"`
}
