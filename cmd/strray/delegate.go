package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/strray/strray/pkg/models"
)

var (
	delegateOp      string
	delegateFiles   int
	delegateLines   int
	delegateDeps    int
	delegateRisk    string
	delegateMinutes int
	delegateSession string
	delegateAsync   bool
)

var delegateCmd = &cobra.Command{
	Use:   "delegate <description>",
	Short: "Score a task and delegate it to workers",
	Long: `Score the task for complexity, pick a routing strategy, and execute
it against the worker catalog.

Examples:
  strray delegate "refactor the payment module" --op refactor --files 12 --lines 800 --risk high
  strray delegate "debug flaky startup" --op debug --session ci-triage
  strray delegate "add request logging" --files 3 --lines 120`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelegate,
}

func init() {
	delegateCmd.Flags().StringVar(&delegateOp, "op", "create", "Operation kind (create/modify/refactor/analyze/debug/test)")
	delegateCmd.Flags().IntVar(&delegateFiles, "files", 0, "Number of files touched")
	delegateCmd.Flags().IntVar(&delegateLines, "lines", 0, "Number of lines changed")
	delegateCmd.Flags().IntVar(&delegateDeps, "deps", 0, "Number of dependencies involved")
	delegateCmd.Flags().StringVar(&delegateRisk, "risk", "medium", "Risk tier (low/medium/high/critical)")
	delegateCmd.Flags().IntVar(&delegateMinutes, "minutes", 0, "Estimated duration in minutes")
	delegateCmd.Flags().StringVar(&delegateSession, "session", "", "Session id for coordinated delegations")
	delegateCmd.Flags().BoolVar(&delegateAsync, "async", false, "Run in the background and poll for completion")
}

func runDelegate(cmd *cobra.Command, args []string) error {
	e, err := buildEngine()
	if err != nil {
		return err
	}
	defer e.close()

	task := &models.TaskDescriptor{
		Operation:   models.OperationKind(delegateOp),
		Description: strings.Join(args, " "),
		Context: models.TaskContext{
			FileCount:        delegateFiles,
			LinesChanged:     delegateLines,
			DependencyCount:  delegateDeps,
			Risk:             models.RiskTier(delegateRisk),
			EstimatedMinutes: delegateMinutes,
			SessionID:        delegateSession,
		},
	}

	ctx := context.Background()
	async := delegateAsync || e.cfg.Delegation.Async

	var result *models.DelegationResult
	if async {
		h := e.delegator.DelegateAsync(ctx, task)
		fmt.Println("Delegation running in background...")
		for {
			select {
			case <-h.Done():
			case <-time.After(time.Second):
				fmt.Printf("  status: %s\n", h.State())
				continue
			}
			break
		}
		result, err = h.Wait()
	} else {
		result, err = e.delegator.Delegate(ctx, task)
	}

	if result != nil {
		displayResult(result)
	}
	if err != nil {
		return fmt.Errorf("delegate: %w", err)
	}
	return nil
}

func displayResult(r *models.DelegationResult) {
	cx := r.Record.Complexity
	fmt.Printf("Delegation %s\n", r.Record.ID)
	fmt.Printf("  Score: %.1f (%s)\n", cx.Score, cx.Level)
	fmt.Printf("  Strategy: %s  Policy: %s\n", r.Record.Strategy, r.Record.Policy)
	fmt.Printf("  Workers: %s\n", strings.Join(r.Record.Workers, ", "))
	for _, reason := range cx.Reasoning {
		fmt.Printf("    - %s\n", reason)
	}
	fmt.Println()

	for _, wr := range r.Results {
		if wr.Success {
			fmt.Printf("  %s %s (%s)\n", color.GreenString("✓"), wr.Worker, wr.Duration.Round(time.Millisecond))
		} else {
			fmt.Printf("  %s %s: %s\n", color.RedString("✗"), wr.Worker, wr.Err)
		}
	}

	fmt.Println()
	if r.Resolved {
		fmt.Printf("%s %d/%d workers succeeded\n", color.GreenString("✓"), r.Succeeded, r.Succeeded+r.Failed)
		if r.Output != "" {
			fmt.Printf("\n%s\n", r.Output)
		}
	} else {
		fmt.Printf("%s unresolved conflict across workers; escalation required\n", color.YellowString("⚠"))
	}
}
