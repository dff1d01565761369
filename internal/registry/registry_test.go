package registry

import (
	"sync"
	"testing"

	"github.com/strray/strray/pkg/models"
)

func intPtr(v int) *int          { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := New()
	r.Register(&models.WorkerCapability{Name: "architect", Capacity: 2, Performance: 92})

	got, ok := r.Get("architect")
	if !ok {
		t.Fatal("Get(architect) not found")
	}
	if got.Capacity != 2 || got.Performance != 92 {
		t.Errorf("Get(architect) = %+v, want capacity 2 performance 92", got)
	}

	if _, ok := r.Get("missing"); ok {
		t.Error("Get(missing) found, want not found")
	}
}

func TestRegistry_UpdateCapability_MergeSemantics(t *testing.T) {
	r := New()
	r.Register(&models.WorkerCapability{
		Name:        "code-reviewer",
		Expertise:   []string{"code-quality-assessment"},
		Capacity:    3,
		Performance: 88,
	})

	// Only performance is updated; everything else must survive.
	if err := r.UpdateCapability("code-reviewer", models.CapabilityUpdate{
		Performance: floatPtr(91),
	}); err != nil {
		t.Fatalf("UpdateCapability() error = %v", err)
	}

	got, _ := r.Get("code-reviewer")
	if got.Performance != 91 {
		t.Errorf("Performance = %v, want 91", got.Performance)
	}
	if got.Capacity != 3 {
		t.Errorf("Capacity = %v, want 3 (unchanged)", got.Capacity)
	}
	if len(got.Expertise) != 1 || got.Expertise[0] != "code-quality-assessment" {
		t.Errorf("Expertise = %v, want unchanged", got.Expertise)
	}

	// Capacity-only update.
	if err := r.UpdateCapability("code-reviewer", models.CapabilityUpdate{
		Capacity: intPtr(5),
	}); err != nil {
		t.Fatalf("UpdateCapability() error = %v", err)
	}
	got, _ = r.Get("code-reviewer")
	if got.Capacity != 5 || got.Performance != 91 {
		t.Errorf("got capacity %d performance %v, want 5 and 91", got.Capacity, got.Performance)
	}
}

func TestRegistry_UpdateCapability_UnknownWorker(t *testing.T) {
	r := New()
	if err := r.UpdateCapability("ghost", models.CapabilityUpdate{Capacity: intPtr(1)}); err == nil {
		t.Error("UpdateCapability(ghost) error = nil, want error")
	}
}

func TestRegistry_UpdateCapability_ClampsPerformance(t *testing.T) {
	r := New()
	r.Register(&models.WorkerCapability{Name: "w", Capacity: 1, Performance: 50})

	_ = r.UpdateCapability("w", models.CapabilityUpdate{Performance: floatPtr(150)})
	got, _ := r.Get("w")
	if got.Performance != 100 {
		t.Errorf("Performance = %v, want clamped to 100", got.Performance)
	}
}

func TestRegistry_ListSortedByPerformance(t *testing.T) {
	r := NewWithCatalog([]models.WorkerCapability{
		{Name: "low", Capacity: 1, Performance: 10},
		{Name: "high", Capacity: 1, Performance: 95},
		{Name: "mid", Capacity: 1, Performance: 50},
	})

	got := r.List()
	wantOrder := []string{"high", "mid", "low"}
	for i, name := range wantOrder {
		if got[i].Name != name {
			t.Errorf("List()[%d] = %s, want %s", i, got[i].Name, name)
		}
	}
}

func TestRegistry_GetReturnsCopy(t *testing.T) {
	r := New()
	r.Register(&models.WorkerCapability{Name: "w", Expertise: []string{"a"}, Capacity: 1})

	got, _ := r.Get("w")
	got.Capacity = 99

	again, _ := r.Get("w")
	if again.Capacity != 1 {
		t.Errorf("mutating a returned capability leaked into the registry")
	}
}

func TestActiveTracker_CapacityIsNeverOversubscribed(t *testing.T) {
	tr := NewActiveTracker()

	const capacity = 3
	var acquired int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tr.TryAcquire("builder", capacity) {
				mu.Lock()
				acquired++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if acquired != capacity {
		t.Errorf("acquired %d slots, want exactly %d", acquired, capacity)
	}
	if got := tr.Active("builder"); got != capacity {
		t.Errorf("Active() = %d, want %d", got, capacity)
	}
}

func TestActiveTracker_ReleaseFreesSlot(t *testing.T) {
	tr := NewActiveTracker()

	if !tr.TryAcquire("w", 1) {
		t.Fatal("first TryAcquire failed")
	}
	if tr.TryAcquire("w", 1) {
		t.Fatal("second TryAcquire succeeded at capacity")
	}

	tr.Release("w")
	if !tr.TryAcquire("w", 1) {
		t.Error("TryAcquire after Release failed, want success")
	}
}

func TestActiveTracker_ReleaseNeverGoesNegative(t *testing.T) {
	tr := NewActiveTracker()
	tr.Release("w")
	if got := tr.Active("w"); got != 0 {
		t.Errorf("Active() = %d, want 0", got)
	}
}
