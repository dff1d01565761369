package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/strray/strray/internal/state"
	"github.com/strray/strray/pkg/models"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List sessions with persisted state",
	Long: `List every session id with state in the persistence store, along
with its recorded coordination metrics.`,
	RunE: runSessions,
}

func runSessions(cmd *cobra.Command, args []string) error {
	db, err := openStateDB()
	if err != nil {
		return err
	}
	if db == nil {
		fmt.Println("No persisted sessions. Run 'strray delegate --session <id> ...' to start one.")
		return nil
	}
	defer db.Close()

	ids, err := persistedSessionIDs(db)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Println("No persisted sessions. Run 'strray delegate --session <id> ...' to start one.")
		return nil
	}

	fmt.Printf("Sessions: %d\n\n", len(ids))
	for _, id := range ids {
		fmt.Printf("  %s", id)
		if m, ok := persistedMetrics(db, id); ok {
			fmt.Printf("  delegations:%d  interactions:%d  conflicts:%d  resolution:%.0f%%",
				m.TotalDelegations, m.TotalInteractions, m.TotalConflicts,
				m.ConflictResolutionRate()*100)
		}
		fmt.Println()
	}
	return nil
}

// openStateDB opens the state database if one exists, returning nil
// when no database has been created yet.
func openStateDB() (*state.DB, error) {
	path := state.DefaultDBPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	db, err := state.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate state store: %w", err)
	}
	return db, nil
}

// persistedSessionIDs extracts distinct session ids from the store's
// session-prefixed keys.
func persistedSessionIDs(db *state.DB) ([]string, error) {
	keys, err := db.Keys("session:")
	if err != nil {
		return nil, fmt.Errorf("list session keys: %w", err)
	}

	seen := make(map[string]bool)
	var ids []string
	for _, k := range keys {
		parts := strings.SplitN(k, ":", 3)
		if len(parts) < 2 || seen[parts[1]] {
			continue
		}
		seen[parts[1]] = true
		ids = append(ids, parts[1])
	}
	sort.Strings(ids)
	return ids, nil
}

// persistedMetrics reads a session's persisted metrics, if any.
func persistedMetrics(db *state.DB, id string) (models.SessionMetrics, bool) {
	var m models.SessionMetrics
	raw, ok, err := db.Get(state.SessionKey(id, "metrics"))
	if err != nil || !ok {
		return m, false
	}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return m, false
	}
	return m, true
}
