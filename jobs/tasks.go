package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskStatsWarmup pre-fetches analytics API responses into the cache.
	TaskStatsWarmup = "statsapi:warmup"
)

// WarmupPayload optionally narrows a warmup to one window. An empty payload
// warms the default range of every auto-fetching page.
type WarmupPayload struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// NewWarmupTask constructs a warmup task.
func NewWarmupTask(payload WarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStatsWarmup, data), nil
}
