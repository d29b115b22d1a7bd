package dto

import (
	"time"

	"github.com/google/uuid"
)

type EligiblePlan struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Interval    string    `json:"interval"`
	Features    []string  `json:"features"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type EligibleCommunity struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	CustomLink  string         `json:"custom_link"`
	Plans       []EligiblePlan `json:"plans"`
}

type SearchResult struct {
	Communities   []EligibleCommunity `json:"communities"`
	TotalFound    int                 `json:"total_found"`
	EligibleCount int                 `json:"eligible_count"`
}
