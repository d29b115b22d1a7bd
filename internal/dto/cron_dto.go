package dto

import "time"

// Cron status values derived from the most recent subscription check logs.
const (
	CronStatusActive   = "active"
	CronStatusError    = "error"
	CronStatusNotFound = "not_found"
)

type CronJobStatus struct {
	LastCheckTime    *time.Time `json:"last_check_time"`
	CronStatus       string     `json:"cron_status"`
	ProcessedMembers int        `json:"processed_members"`
	LatestRunError   string     `json:"latest_run_error,omitempty"`
}

type ScanResponse struct {
	ProcessedCount int `json:"processed_count"`
}
