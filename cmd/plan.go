package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kerhervel/parkplan/core/model"
	"github.com/kerhervel/parkplan/core/planner"
	"github.com/kerhervel/parkplan/core/refdata"
	"github.com/kerhervel/parkplan/infra/logger"
	"github.com/kerhervel/parkplan/infra/snapshots"
	"github.com/kerhervel/parkplan/pkg/export"
)

var (
	planInputPath    string
	planSnapshotPath string
	planFormat       string
	planOutPath      string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build one itinerary from files, without the service",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planInputPath, "input", "", "planning request JSON file (required)")
	planCmd.Flags().StringVar(&planSnapshotPath, "snapshot", "", "snapshot JSON file (required)")
	planCmd.Flags().StringVar(&planFormat, "format", "json", "output format: json or csv")
	planCmd.Flags().StringVar(&planOutPath, "out", "", "output file (default stdout)")
	_ = planCmd.MarkFlagRequired("input")
	_ = planCmd.MarkFlagRequired("snapshot")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := os.ReadFile(planInputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	var input model.PlanInput
	if err := json.Unmarshal(b, &input); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}

	source, err := snapshots.NewFileSource(snapshots.Config{Path: planSnapshotPath})
	if err != nil {
		return err
	}
	snap, err := source.Fetch(ctx)
	if err != nil {
		return err
	}

	cfg := planner.Config{}
	cfg.SetDefaults()
	pl, err := planner.New(cfg, refdata.Defaults(), logger.New("plan-command"))
	if err != nil {
		return err
	}
	tp, err := pl.Plan(ctx, input, snap)
	if err != nil {
		return err
	}

	out := os.Stdout
	if planOutPath != "" {
		f, err := os.Create(planOutPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	switch planFormat {
	case "json":
		return export.WriteJSON(out, tp)
	case "csv":
		return export.WriteCSV(out, tp)
	default:
		return fmt.Errorf("unknown format %q", planFormat)
	}
}
