package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/strray/strray/internal/config"
	"github.com/strray/strray/internal/registry"
)

var workersCmd = &cobra.Command{
	Use:   "workers",
	Short: "List the worker catalog",
	Long: `Display every worker in the catalog with its capability tags,
concurrent-task capacity, and rolling performance score.`,
	RunE: runWorkers,
}

func runWorkers(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	catalog := registry.DefaultCatalog()
	if cfg.Workers.CatalogPath != "" {
		catalog, err = registry.LoadCatalog(cfg.Workers.CatalogPath)
		if err != nil {
			return fmt.Errorf("load worker catalog: %w", err)
		}
	}

	reg := registry.NewWithCatalog(catalog)
	fmt.Printf("Workers: %d\n\n", reg.Count())
	for _, w := range reg.List() {
		tags := append(append([]string{}, w.Expertise...), w.Specialties...)
		fmt.Printf("  %s  perf:%.0f  capacity:%d\n",
			color.CyanString("%-18s", w.Name), w.Performance, w.Capacity)
		if len(tags) > 0 {
			fmt.Printf("    %s\n", strings.Join(tags, ", "))
		}
	}
	return nil
}
