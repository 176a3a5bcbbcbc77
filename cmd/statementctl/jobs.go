package main

import (
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/lamdaser/statements/jobs"
)

var triggerable = map[string]string{
	"roster-warmup": jobs.TaskRosterWarmup,
}

func newJobsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Manage background jobs",
	}
	cmd.AddCommand(&cobra.Command{
		Use:       "trigger <job>",
		Short:     "Enqueue a job now",
		Example:   "  statementctl jobs trigger roster-warmup",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"roster-warmup"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := triggerable[args[0]]; !ok {
				return fmt.Errorf("unsupported job %q", args[0])
			}
			if e.cfg.RedisAddr == "" {
				return errors.New("REDIS_ADDR is required to enqueue jobs")
			}
			client, err := jobs.NewClient(asynq.RedisClientOpt{Addr: e.cfg.RedisAddr})
			if err != nil {
				return err
			}
			defer client.Close()
			info, err := client.EnqueueRosterWarmup(cmd.Context(), "cli")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "enqueued %s id=%s queue=%s\n", info.Type, info.ID, info.Queue)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show the default queue state",
		RunE: func(cmd *cobra.Command, args []string) error {
			if e.cfg.RedisAddr == "" {
				return errors.New("REDIS_ADDR is required to inspect jobs")
			}
			inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: e.cfg.RedisAddr})
			defer inspector.Close()
			info, err := inspector.GetQueueInfo(jobs.QueueDefault)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "queue=%s pending=%d active=%d scheduled=%d retry=%d failed_today=%d\n",
				info.Queue, info.Pending, info.Active, info.Scheduled, info.Retry, info.Failed)
			return nil
		},
	})
	return cmd
}
