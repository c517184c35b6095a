package main

import (
	"context"
	"fmt"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/persona/internal/seed"
	"github.com/okian/persona/pkg/logger"
	"github.com/spf13/cobra"
)

// Default seed parameters.
const (
	defaultSeedMembers = 200
	defaultSeedGroups  = 8
	defaultSeedRepeats = 20
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultSeedTimeout = 10 * time.Minute
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill a running service with generated members and verify the groups",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

var seedCfg seed.Config

func init() {
	f := seedCmd.Flags()
	f.StringVar(&seedCfg.BaseURL, "url", "http://localhost:9080", "Base URL of the service")
	f.IntVar(&seedCfg.Members, "members", defaultSeedMembers, "Unique members to create")
	f.IntVar(&seedCfg.Groups, "groups", defaultSeedGroups, "Groups to spread members over")
	f.IntVar(&seedCfg.Repeats, "repeats", defaultSeedRepeats, "Resubmissions of existing members")
	f.IntVar(&seedCfg.Workers, "workers", runtime.NumCPU()*defaultWorkers, "Concurrent requests")
	f.DurationVar(&seedCfg.Timeout, "timeout", defaultTimeout, "HTTP request timeout")
	f.StringVar(&seedCfg.OutputFile, "output", "", "Write the generated submissions to this JSON file")
	f.BoolVar(&seedCfg.Verbose, "verbose", false, "Log every failed request")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultSeedTimeout)
	defer cancel()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	stats, err := seed.Run(ctx, &seedCfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d members (%d updates) across %d groups in %s\n",
		stats.Created, stats.Updated, stats.GroupsChecked, stats.Duration.Round(time.Millisecond))
	return nil
}
