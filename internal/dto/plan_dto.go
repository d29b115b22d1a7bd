package dto

type CreatePlanRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Interval    string   `json:"interval"`
	Features    []string `json:"features"`
	TrialDays   int      `json:"trial_days"`
}

type UpdatePlanRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Interval    *string   `json:"interval"`
	Features    *[]string `json:"features"`
	IsActive    *bool     `json:"is_active"`
	TrialDays   *int      `json:"trial_days"`
}
