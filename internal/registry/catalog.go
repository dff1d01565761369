package registry

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/strray/strray/pkg/models"
)

// catalogFile is the on-disk shape of a worker catalog.
type catalogFile struct {
	Workers []models.WorkerCapability `yaml:"workers"`
}

// LoadCatalog reads a worker catalog from a YAML file.
func LoadCatalog(path string) ([]models.WorkerCapability, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read worker catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse worker catalog: %w", err)
	}

	for i := range file.Workers {
		w := &file.Workers[i]
		if w.Name == "" {
			return nil, fmt.Errorf("worker catalog entry %d has no name", i)
		}
		if w.Capacity <= 0 {
			w.Capacity = 1
		}
		w.Performance = clampScore(w.Performance)
	}
	return file.Workers, nil
}

// DefaultCatalog returns the built-in worker catalog, used when no
// workers.yaml is available.
func DefaultCatalog() []models.WorkerCapability {
	return []models.WorkerCapability{
		{
			Name:        "orchestrator",
			Expertise:   []string{"task-coordination"},
			Specialties: []string{"analyze"},
			Capacity:    5,
			Performance: 90,
		},
		{
			Name:        "architect",
			Expertise:   []string{"design-review"},
			Specialties: []string{"create", "refactor", "architecture"},
			Capacity:    2,
			Performance: 92,
		},
		{
			Name:        "code-reviewer",
			Expertise:   []string{"code-quality-assessment"},
			Specialties: []string{"modify", "review"},
			Capacity:    3,
			Performance: 88,
		},
		{
			Name:        "security-guardian",
			Expertise:   []string{"vulnerability-detection", "compliance-monitoring"},
			Specialties: []string{"security", "auth"},
			Capacity:    2,
			Performance: 95,
		},
		{
			Name:        "debug-specialist",
			Expertise:   []string{"error-analysis"},
			Specialties: []string{"debug"},
			Capacity:    3,
			Performance: 85,
		},
		{
			Name:        "refactor-specialist",
			Expertise:   []string{"code-modernization"},
			Specialties: []string{"refactor"},
			Capacity:    2,
			Performance: 84,
		},
		{
			Name:        "test-strategist",
			Expertise:   []string{"test-strategy-design"},
			Specialties: []string{"test"},
			Capacity:    3,
			Performance: 86,
		},
	}
}
