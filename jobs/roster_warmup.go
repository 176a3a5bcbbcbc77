package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/lamdaser/statements/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// RosterRefresher invalidates and reloads the customer roster.
type RosterRefresher interface {
	Refresh(ctx context.Context) (int, error)
}

// RosterWarmupJob keeps the roster cache warm for the search screen.
type RosterWarmupJob struct {
	Roster  RosterRefresher
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewRosterWarmupJob wires dependencies for the warmup handler.
func NewRosterWarmupJob(roster RosterRefresher, logger *slog.Logger, metrics *jobmetrics.Metrics) *RosterWarmupJob {
	return &RosterWarmupJob{
		Roster:  roster,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes roster warmup tasks.
func (j *RosterWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Roster == nil {
		return errors.New("roster warmup: handler not configured")
	}
	var payload RosterWarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	if payload.Reason == "" {
		payload.Reason = "schedule"
	}

	tracker := j.metrics().Track(TaskRosterWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("reason", payload.Reason))
	start := j.now()

	warmCtx, cancel := context.WithTimeout(ctx, 45*time.Second)
	defer cancel()
	count, err := j.Roster.Refresh(warmCtx)
	if err != nil {
		resultErr = err
		logger.Error("refresh roster", slog.Any("error", err))
		return resultErr
	}

	j.metrics().SetRosterSize(count)
	logger.Info("completed roster warmup", slog.Int("customers", count), slog.Duration("duration", j.now().Sub(start)))
	return resultErr
}

func (j *RosterWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskRosterWarmup))
	}
	return slog.Default().With(slog.String("job", TaskRosterWarmup))
}

func (j *RosterWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *RosterWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
