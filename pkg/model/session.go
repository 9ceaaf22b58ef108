package model

import "time"

// DecompositionOptions configures a single decomposition run.
type DecompositionOptions struct {
	MaxDepth int `json:"max_depth"` // ∈ [1,5]
	MinHours float64 `json:"min_hours"`
	MaxHours float64 `json:"max_hours"`
	ForceDecomposition bool `json:"force_decomposition"`
}

// DecompositionResult is one level's worth of split output: a parent task,
// its generated sub-tasks, and the depth at which they were produced.
type DecompositionResult struct {
	Parent AtomicTask `json:"parent"`
	SubTasks []AtomicTask `json:"sub_tasks"`
	Depth int `json:"depth"`
}

// DecompositionSession is the data-record snapshot of a single recursive
// split invocation. It is ephemeral and single-process-scoped;
// the live, mutex-guarded session object that mutates this shape over time
// lives in pkg/decompose and publishes DecompositionSession snapshots via
// its own Snapshot().
type DecompositionSession struct {
	ID string `json:"id"`
	OriginatingTask AtomicTask `json:"originating_task"`
	ProjectContext ProjectContext `json:"project_context"`
	Options DecompositionOptions `json:"options"`
	Status SessionStatus `json:"status"`
	Results []DecompositionResult `json:"results"`
	Error string `json:"error,omitempty"`
	StartedAt time.Time `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Leaves flattens every leaf AtomicTask out of the session's results, in
// pre-order.
func (s *DecompositionSession) Leaves() []AtomicTask {
	var leaves []AtomicTask
	for _, r := range s.Results {
		if len(r.SubTasks) == 1 && r.SubTasks[0].ID == r.Parent.ID {
			leaves = append(leaves, r.Parent)
			continue
		}
		leaves = append(leaves, r.SubTasks...)
	}
	return leaves
}

// MaxDepthObserved returns the deepest DecompositionResult.Depth recorded,
// used to check whether any result exceeded options.MaxDepth.
func (s *DecompositionSession) MaxDepthObserved() int {
	max := 0
	for _, r := range s.Results {
		if r.Depth > max {
			max = r.Depth
		}
	}
	return max
}
