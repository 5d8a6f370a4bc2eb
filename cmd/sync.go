package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync/atomic"

	"stream-sync/core/config"
	"stream-sync/core/logger"
	syncfeature "stream-sync/feature/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// syncCmd groups the synchronization commands.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize vault documents",
}

// syncFileCmd synchronizes a single document.
var syncFileCmd = &cobra.Command{
	Use:   "file <path>",
	Short: "Synchronize one document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, logg := cliServices()
		defer logg.Sync()

		result, err := env.sync.SyncDocument(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		for _, c := range result.Changes {
			marker := " "
			if c.Enabled {
				marker = "*"
			}
			fmt.Printf("%s %s: %s -> %s\n", marker, c.Field, c.OldValue, c.NewValue)
		}
		fmt.Printf("Applied %d of %d changes to %s\n", result.Applied, len(result.Changes), result.Path)
		return nil
	},
}

// syncAllCmd runs a batch over the whole vault. Ctrl-C requests
// cooperative cancellation: the in-flight document finishes.
var syncAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Synchronize every vault document",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, logg := cliServices()
		defer logg.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		progress := newConsoleProgress(ctx)
		job, err := env.sync.SyncAll(ctx, progress)
		if err != nil {
			return err
		}

		snap := job.Snapshot()
		fmt.Printf("\n%s: %d synced, %d failed (of %d)\n",
			snap.State, snap.SuccessCount, snap.FailureCount, snap.Total)
		for _, group := range snap.ErrorGroups {
			fmt.Printf("  %s (%d files)\n", group.Message, group.Count)
		}
		return nil
	},
}

// cliServices loads config and wires the service graph for one-shot
// commands.
func cliServices() (*services, *zap.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	zap.ReplaceGlobals(logg)

	return buildServices(cfg, logg), logg
}

// consoleProgress prints batch progress and maps context cancellation
// (SIGINT) onto the cooperative cancel check.
type consoleProgress struct {
	ctx       context.Context
	processed atomic.Int64
}

func newConsoleProgress(ctx context.Context) *consoleProgress {
	return &consoleProgress{ctx: ctx}
}

func (p *consoleProgress) UpdateProgress(label string) {
	fmt.Printf("[%d] %s\n", p.processed.Load()+1, label)
}

func (p *consoleProgress) RecordSuccess() {
	p.processed.Add(1)
}

func (p *consoleProgress) RecordFailure(label, message string) {
	p.processed.Add(1)
	fmt.Printf("    failed: %s\n", message)
}

func (p *consoleProgress) Complete() {}

func (p *consoleProgress) IsCancelled() bool {
	return p.ctx.Err() != nil
}

var _ syncfeature.Progress = (*consoleProgress)(nil)

func init() {
	syncCmd.AddCommand(syncFileCmd)
	syncCmd.AddCommand(syncAllCmd)
	RootCmd.AddCommand(syncCmd)
}
