package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/strray/strray/internal/state"
)

var cleanupAll bool

var cleanupCmd = &cobra.Command{
	Use:   "cleanup [session-id]",
	Short: "Remove persisted session state",
	Long: `Remove one session's persisted state, or everything with --all.

A running monitor also watches the control directory for marker files
(cleanup-<id>, cleanup-all), so live sessions can be torn down without
stopping the process.`,
	RunE: runCleanup,
}

func init() {
	cleanupCmd.Flags().BoolVar(&cleanupAll, "all", false, "Remove every persisted session")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	if !cleanupAll && len(args) != 1 {
		return fmt.Errorf("specify a session id or --all")
	}

	db, err := openStateDB()
	if err != nil {
		return err
	}
	if db == nil {
		fmt.Println("No persisted sessions.")
		return nil
	}
	defer db.Close()

	if cleanupAll {
		ids, err := persistedSessionIDs(db)
		if err != nil {
			return err
		}
		if err := db.Clear("session:"); err != nil {
			return fmt.Errorf("clear sessions: %w", err)
		}
		fmt.Printf("%s Removed %d sessions\n", color.GreenString("✓"), len(ids))
		return nil
	}

	id := args[0]
	if err := db.Clear(state.SessionPrefix(id)); err != nil {
		return fmt.Errorf("clear session %s: %w", id, err)
	}
	fmt.Printf("%s Removed session %s\n", color.GreenString("✓"), id)
	return nil
}
