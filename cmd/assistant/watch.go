package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aretw0/assistant/pkg/watch"
)

var watchInitialScan bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Ingest files dropped into the configured folder",
	Long: `Watch monitors watch.dir and ingests every new or modified file matching
watch.pattern into watch.collection. With watch.schedule set, the folder is
also rescanned on that cron schedule. Runs until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		inst := openInstance(ctx, false)
		defer inst.Close()

		w, err := inst.Watcher(watch.WithInitialScan(watchInitialScan))
		if err != nil {
			fatal("Error configuring watcher", err)
		}
		if err := w.Start(ctx); err != nil {
			fatal("Error starting watcher", err)
		}
		logger.Info("watching",
			zap.String("dir", w.Dir()),
			zap.String("collection", cfg.Watch.Collection),
			zap.String("schedule", cfg.Watch.Schedule),
		)
		<-ctx.Done()
	},
}

func init() {
	flags := watchCmd.Flags()
	flags.String("watch-dir", "", "Folder to watch")
	flags.String("watch-pattern", "", "Doublestar pattern of files to ingest")
	flags.String("watch-collection", "", "Collection to ingest into")
	flags.String("watch-schedule", "", "Cron schedule for rescans")
	flags.BoolVar(&watchInitialScan, "initial-scan", true, "Ingest files already present on start")
	rootCmd.AddCommand(watchCmd)
}
