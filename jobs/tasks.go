package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskRosterWarmup refreshes the cached customer roster.
	TaskRosterWarmup = "statements:roster_warmup"
	// DefaultRosterWarmupCron is used when no schedule is configured.
	DefaultRosterWarmupCron = "@every 15m"
)

// RosterWarmupPayload describes why a warmup was requested.
type RosterWarmupPayload struct {
	Reason      string    `json:"reason,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewRosterWarmupTask constructs an Asynq task.
func NewRosterWarmupTask(payload RosterWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRosterWarmup, data, asynq.Queue(QueueDefault), asynq.MaxRetry(3), asynq.Timeout(time.Minute)), nil
}
