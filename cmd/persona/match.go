package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	service "github.com/okian/persona/internal/app"
	"github.com/okian/persona/internal/config"
	"github.com/okian/persona/internal/domain/trait"
	"github.com/okian/persona/pkg/logger"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match O C E A N",
	Short: "Match five raw scores (0-120) to a role",
	Long:  "Matches raw OCEAN scores against the role catalog and prints the best role. Nothing is stored.",
	Args:  cobra.ExactArgs(len(trait.All)),
	RunE:  runMatch,
}

var (
	matchExplain bool
	matchRoles   string
)

func init() {
	matchCmd.Flags().BoolVar(&matchExplain, "explain", false, "Also print every role's score in catalog order")
	matchCmd.Flags().StringVar(&matchRoles, "roles", "", "Path to the roles YAML (default from config)")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	raw, err := parseScores(args)
	if err != nil {
		return err
	}
	rolesPath, err := resolveRolesPath(cmd.Context(), matchRoles)
	if err != nil {
		return err
	}
	return match(cmd.Context(), cmd.OutOrStdout(), rolesPath, raw, matchExplain)
}

// parseScores reads O C E A N from args.
func parseScores(args []string) (trait.Vector, error) {
	var v trait.Vector
	for i, t := range trait.All {
		x, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return trait.Vector{}, fmt.Errorf("score %s: %q is not a number", t.Code(), args[i])
		}
		v = v.With(t, x)
	}
	return v, nil
}

// resolveRolesPath prefers an explicit flag over the configured path.
func resolveRolesPath(ctx context.Context, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	return cfg.RolesPath, nil
}

func match(ctx context.Context, w io.Writer, rolesPath string, raw trait.Vector, explain bool) error {
	svc := service.New(
		service.WithLogger(logger.Nop()),
		service.WithRolesPath(rolesPath),
		service.WithRegistryMetricsInterval(0),
	)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	res, cands, err := svc.Explain(ctx, raw)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Role: %s\nDept: %s\nDesc: %s\nScore: %.3f\n", res.Role, res.Department, res.Description, res.Score)
	if explain {
		fmt.Fprintln(w, "Candidates:")
		for _, c := range cands {
			fmt.Fprintf(w, "  %-20s %+.3f\n", c.Role, c.Score)
		}
	}
	return nil
}
