package registry

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "workers.yaml")

	content := `workers:
  - name: architect
    expertise: [design-review]
    specialties: [create]
    capacity: 2
    performance: 92
  - name: helper
    expertise: [task-coordination]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	workers, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if len(workers) != 2 {
		t.Fatalf("len(workers) = %d, want 2", len(workers))
	}

	if workers[0].Name != "architect" || workers[0].Capacity != 2 {
		t.Errorf("workers[0] = %+v, want architect with capacity 2", workers[0])
	}
	// Missing capacity defaults to 1.
	if workers[1].Capacity != 1 {
		t.Errorf("workers[1].Capacity = %d, want default 1", workers[1].Capacity)
	}
}

func TestLoadCatalog_RejectsUnnamedWorker(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "workers.yaml")

	content := `workers:
  - expertise: [design-review]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadCatalog(path); err == nil {
		t.Error("LoadCatalog() error = nil, want error for unnamed worker")
	}
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadCatalog() error = nil, want error for missing file")
	}
}

func TestDefaultCatalog(t *testing.T) {
	workers := DefaultCatalog()
	if len(workers) == 0 {
		t.Fatal("DefaultCatalog() is empty")
	}

	seen := make(map[string]bool)
	for _, w := range workers {
		if w.Name == "" {
			t.Error("default catalog contains an unnamed worker")
		}
		if seen[w.Name] {
			t.Errorf("duplicate worker name %q", w.Name)
		}
		seen[w.Name] = true
		if w.Capacity <= 0 {
			t.Errorf("worker %s has capacity %d, want > 0", w.Name, w.Capacity)
		}
		if w.Performance < 0 || w.Performance > 100 {
			t.Errorf("worker %s has performance %v, want within [0,100]", w.Name, w.Performance)
		}
	}
	if !seen["security-guardian"] {
		t.Error("default catalog is missing the security-guardian worker")
	}
}
