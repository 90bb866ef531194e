package main

import (
	"time"

	"github.com/spf13/cobra"

	"content-sync/pkg/logger"
	"content-sync/pkg/scheduler"
)

func scheduleCommand(opts *rootOptions) *cobra.Command {
	var runNow bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run syncs on SYNC_SCHEDULE until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()

			svc, closeSync, err := a.openSync(ctx, 0)
			if err != nil {
				return err
			}
			defer closeSync()

			sched, err := scheduler.New(a.cfg.SyncSchedule, svc, a.log)
			if err != nil {
				return err
			}

			if runNow {
				if _, err := svc.Run(ctx); err != nil {
					a.log.Error("Initial sync failed", logger.Error(err))
				}
			}

			if err := sched.Start(ctx); err != nil {
				return err
			}
			a.log.Info("Waiting for scheduled syncs", logger.String("next_run", sched.Next().Format(time.RFC3339)))

			<-ctx.Done()
			sched.Stop()
			return nil
		},
	}

	cmd.Flags().BoolVar(&runNow, "run-now", false, "run one sync immediately before waiting for the schedule")
	return cmd
}
