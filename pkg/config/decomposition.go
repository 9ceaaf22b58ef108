package config

import "time"

// DecompositionConfig holds the settings for the Decomposition Engine's
// recursive splitting (Component G): how deep it may recurse, what counts as
// an atomic task's acceptable size, and how wide a single task may fan out.
// Only MaxConcurrentSplits reaches the engine (through decompose.NewManager);
// the decompose_task handler passes its own fixed DecompositionOptions, and
// the other fields are merged and validated but not read by pkg/decompose.
type DecompositionConfig struct {
	// MaxDepth caps recursive decomposition depth; a task still judged
	// non-atomic at this depth is force-accepted as atomic.
	MaxDepth int `yaml:"max_depth" validate:"required,min=1,max=10"`

	// MinTaskHours/MaxTaskHours bound the estimated-effort range a task must
	// fall within to be accepted as atomic.
	MinTaskHours float64 `yaml:"min_task_hours" validate:"required,gt=0"`
	MaxTaskHours float64 `yaml:"max_task_hours" validate:"required,gtfield=MinTaskHours"`

	// AtomicityConfidenceThreshold is the minimum LLM-reported confidence
	// required to accept a task as atomic without a further split.
	AtomicityConfidenceThreshold float64 `yaml:"atomicity_confidence_threshold" validate:"required,min=0,max=1"`

	// MaxFanout caps how many subtasks a single decomposition call may
	// produce in one pass, independent of MaxConcurrentSplits below.
	MaxFanout int `yaml:"max_fanout" validate:"required,min=1,max=50"`

	// MaxConcurrentSplits caps how many sibling sub-tasks of one task are
	// decomposed concurrently; each recursion level applies the cap to its
	// own siblings.
	MaxConcurrentSplits int `yaml:"max_concurrent_splits" validate:"required,min=1"`

	// SplitTimeout bounds a single decomposition LLM call.
	SplitTimeout time.Duration `yaml:"split_timeout,omitempty"`
}

// DefaultDecompositionConfig returns the built-in decomposition defaults.
func DefaultDecompositionConfig() *DecompositionConfig {
	return &DecompositionConfig{
		MaxDepth:                     5,
		MinTaskHours:                 0.5,
		MaxTaskHours:                 4,
		AtomicityConfidenceThreshold: 0.75,
		MaxFanout:                    10,
		MaxConcurrentSplits:          4,
		SplitTimeout:                 60 * time.Second,
	}
}
