package main

import (
	"github.com/spf13/cobra"

	"content-sync/pkg/logger"
	"content-sync/pkg/scheduler"
	"content-sync/pkg/server"
)

func serveCommand(opts *rootOptions) *cobra.Command {
	var (
		noSync       bool
		withSchedule bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve extraction and sync over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()

			var syncer server.SyncRunner
			if !noSync {
				svc, closeSync, err := a.openSync(ctx, 0)
				if err != nil {
					return err
				}
				defer closeSync()
				syncer = svc

				if withSchedule {
					sched, err := scheduler.New(a.cfg.SyncSchedule, svc, a.log)
					if err != nil {
						return err
					}
					if err := sched.Start(ctx); err != nil {
						return err
					}
					defer sched.Stop()
				}
			}

			srv := server.New(server.Config{Address: a.cfg.ServerAddress}, a.source, a.orchestrator, syncer, a.log)
			a.log.Info("Serving", logger.String("address", a.cfg.ServerAddress), logger.Bool("sync", !noSync))
			return srv.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&noSync, "no-sync", false, "serve extraction only, without a store")
	cmd.Flags().BoolVar(&withSchedule, "schedule", false, "also run syncs on SYNC_SCHEDULE")
	return cmd
}
