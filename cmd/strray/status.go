package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/strray/strray/internal/state"
	"github.com/strray/strray/pkg/models"
)

var statusCmd = &cobra.Command{
	Use:   "status <session-id>",
	Short: "Show a session's persisted coordination state",
	Long: `Display the recorded metrics and shared context for one session.

Shows:
  - Delegation and interaction counts
  - Conflict-resolution rate and coordination efficiency
  - Shared-context keys and their most recent contributors`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	id := args[0]

	db, err := openStateDB()
	if err != nil {
		return err
	}
	if db == nil {
		fmt.Println("No persisted sessions.")
		return nil
	}
	defer db.Close()

	m, ok := persistedMetrics(db, id)
	if !ok {
		fmt.Printf("No persisted state for session %s.\n", id)
		return nil
	}

	fmt.Printf("Session: %s\n", id)
	fmt.Printf("  Delegations: %d\n", m.TotalDelegations)
	fmt.Printf("  Interactions: %d (%s %d / %s %d)\n",
		m.TotalInteractions,
		color.GreenString("✓"), m.SuccessfulInteractions,
		color.RedString("✗"), m.FailedInteractions)
	fmt.Printf("  Conflicts: %d resolved of %d (%.0f%%)\n",
		m.ResolvedConflicts, m.TotalConflicts, m.ConflictResolutionRate()*100)
	fmt.Printf("  Avg response: %s\n", m.AvgResponseTime.Round(time.Millisecond))
	fmt.Printf("  Coordination efficiency: %.0f%%\n", m.CoordinationEfficiency()*100)

	raw, ok, err := db.Get(state.SessionKey(id, "context"))
	if err != nil || !ok {
		return nil
	}
	var shared map[string][]models.ContextEntry
	if err := json.Unmarshal([]byte(raw), &shared); err != nil || len(shared) == 0 {
		return nil
	}

	keys := make([]string, 0, len(shared))
	for k := range shared {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println("\nShared context:")
	for _, k := range keys {
		history := shared[k]
		if len(history) == 0 {
			continue
		}
		latest := history[len(history)-1]
		fmt.Printf("  %s = %s (%s, %d entries)\n",
			color.CyanString(k), latest.Value, latest.Worker, len(history))
	}
	return nil
}
