package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/courtvision/courtvision/jobs"
)

// JobsAdmin enqueues jobs and reports queue state.
type JobsAdmin interface {
	Trigger(ctx context.Context, name string, payload jobs.WarmupPayload) (*asynq.TaskInfo, error)
	InspectQueue(ctx context.Context) (QueueStats, error)
}

// JobsCLI wraps manual management helpers for Asynq jobs.
type JobsCLI struct {
	client    *jobs.Client
	inspector *asynq.Inspector
}

// NewJobsCLI initialises the CLI helpers using the provided Redis address.
func NewJobsCLI(redisAddr string) (*JobsCLI, error) {
	opts := asynq.RedisClientOpt{Addr: redisAddr}
	client, err := jobs.NewClient(opts)
	if err != nil {
		return nil, err
	}
	return &JobsCLI{client: client, inspector: asynq.NewInspector(opts)}, nil
}

// Close releases underlying resources.
func (c *JobsCLI) Close() error {
	var err error
	if c.inspector != nil {
		if closeErr := c.inspector.Close(); closeErr != nil {
			err = closeErr
		}
	}
	if c.client != nil {
		if closeErr := c.client.Close(); closeErr != nil {
			err = closeErr
		}
	}
	return err
}

// Trigger enqueues a supported job by name.
func (c *JobsCLI) Trigger(ctx context.Context, name string, payload jobs.WarmupPayload) (*asynq.TaskInfo, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("jobs cli: client not configured")
	}
	switch name {
	case "warmup", jobs.TaskStatsWarmup:
		return c.client.EnqueueWarmup(ctx, payload)
	default:
		return nil, fmt.Errorf("jobs cli: unsupported job %s", name)
	}
}

// QueueStats summarises the current queue state.
type QueueStats struct {
	Queue     string
	Pending   int
	Active    int
	Scheduled int
	Retry     int
	Failed    int
}

// InspectQueue reports the queue metrics for the default queue.
func (c *JobsCLI) InspectQueue(ctx context.Context) (QueueStats, error) {
	if c == nil || c.inspector == nil {
		return QueueStats{}, errors.New("jobs cli: inspector not configured")
	}
	info, err := c.inspector.GetQueueInfo(jobs.QueueDefault)
	if err != nil {
		return QueueStats{}, err
	}
	stats := QueueStats{Queue: jobs.QueueDefault}
	if info != nil {
		stats.Pending = info.Pending
		stats.Active = info.Active
		stats.Scheduled = info.Scheduled
		stats.Retry = info.Retry
		stats.Failed = info.Failed
	}
	return stats, nil
}

func newJobsCommand(env Env) *cobra.Command {
	jobsCmd := &cobra.Command{Use: "jobs", Short: "Background jobs"}

	var payload jobs.WarmupPayload
	trigger := &cobra.Command{
		Use:       "trigger <job>",
		Short:     "Enqueue a job now",
		Example:   "  courtctl jobs trigger warmup --start 2024-03-01 --end 2024-03-31",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"warmup"},
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, release, err := env.OpenJobs(cmd.Context())
			if err != nil {
				return err
			}
			defer release()
			info, err := admin.Trigger(cmd.Context(), args[0], payload)
			if errors.Is(err, asynq.ErrDuplicateTask) {
				cmd.Println("an identical job was enqueued less than a minute ago")
				return nil
			}
			if err != nil {
				return err
			}
			cmd.Printf("enqueued %s as %s on queue %s\n", info.Type, info.ID, info.Queue)
			return nil
		},
	}
	trigger.Flags().StringVar(&payload.StartDate, "start", "", "warmup window start, YYYY-MM-DD")
	trigger.Flags().StringVar(&payload.EndDate, "end", "", "warmup window end, YYYY-MM-DD")
	trigger.MarkFlagsRequiredTogether("start", "end")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show default queue counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, release, err := env.OpenJobs(cmd.Context())
			if err != nil {
				return err
			}
			defer release()
			stats, err := admin.InspectQueue(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("queue=%s pending=%d active=%d scheduled=%d retry=%d failed=%d\n",
				stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry, stats.Failed)
			return nil
		},
	}

	jobsCmd.AddCommand(trigger, status)
	return jobsCmd
}
