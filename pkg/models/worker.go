package models

import "time"

// WorkerCapability describes one worker in the catalog: what it is good
// at, how many tasks it can run at once, and how well it has performed.
type WorkerCapability struct {
	// Name uniquely identifies the worker.
	Name string `json:"name" yaml:"name"`
	// Expertise lists the worker's primary capability tags.
	Expertise []string `json:"expertise" yaml:"expertise"`
	// Specialties lists narrower specialty tags.
	Specialties []string `json:"specialties,omitempty" yaml:"specialties"`
	// Capacity is the maximum number of concurrent tasks.
	Capacity int `json:"capacity" yaml:"capacity"`
	// Performance is the rolling performance score in [0, 100].
	Performance float64 `json:"performance" yaml:"performance"`
}

// HasTag reports whether the worker carries the tag in either its
// expertise or specialty set. Matching is the caller's concern; this is
// an exact lookup.
func (w *WorkerCapability) HasTag(tag string) bool {
	for _, e := range w.Expertise {
		if e == tag {
			return true
		}
	}
	for _, s := range w.Specialties {
		if s == tag {
			return true
		}
	}
	return false
}

// CapabilityUpdate is a partial update applied to a WorkerCapability
// with merge semantics. Nil fields leave the existing value untouched.
type CapabilityUpdate struct {
	Expertise   []string `json:"expertise,omitempty"`
	Specialties []string `json:"specialties,omitempty"`
	Capacity    *int     `json:"capacity,omitempty"`
	Performance *float64 `json:"performance,omitempty"`
}

// WorkerResult is the outcome of one worker invocation.
type WorkerResult struct {
	// Worker is the name of the worker that produced the result.
	Worker string `json:"worker"`
	// SessionID is the session the invocation ran under, if any.
	SessionID string `json:"session_id,omitempty"`
	// Success indicates whether the invocation completed normally.
	Success bool `json:"success"`
	// Output is the worker's payload.
	Output string `json:"output,omitempty"`
	// Err holds the failure reason when Success is false.
	Err string `json:"error,omitempty"`
	// Duration is how long the invocation took.
	Duration time.Duration `json:"duration"`
	// Timestamp is when the result was produced.
	Timestamp time.Time `json:"timestamp"`
	// Metadata carries worker-specific extras.
	Metadata map[string]string `json:"metadata,omitempty"`
}
