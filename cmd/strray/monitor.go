package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/strray/strray/internal/session"
	"github.com/strray/strray/internal/tui"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Watch live delegation and session activity",
	Long: `Run the delegation engine with a live dashboard: session snapshots,
observability events, and the background session reaper. Cleanup
markers dropped in the control directory are handled while the
monitor runs.`,
	RunE: runMonitor,
}

func runMonitor(cmd *cobra.Command, args []string) error {
	e, err := buildEngine()
	if err != nil {
		return err
	}
	defer e.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	e.manager.Start(ctx)

	if watcher, err := session.NewSignalWatcher(controlDir(), e.manager); err != nil {
		log.Printf("[strray] WARNING: control directory unavailable: %v", err)
	} else {
		defer watcher.Close()
	}

	return tui.Run(e.coord, e.emitter.Events(), e.cfg.TUI.RefreshRate)
}
