package config

import "time"

// QueueConfig contains worker-pool sizing for the Decomposition Engine's
// recursive subtask fan-out and for the curation pipeline's in-flight
// decomposition-session cap.
type QueueConfig struct {
	// WorkerCount is the global cap on concurrently executing subtask splits,
	// shared across all decomposition sessions in this process.
	WorkerCount int `yaml:"worker_count"`

	// MaxConcurrentSessions is the cap on decomposition sessions this process
	// will run at once; a new request beyond the cap blocks until a slot frees.
	MaxConcurrentSessions int `yaml:"max_concurrent_sessions"`

	// SessionTimeout is the maximum wall-clock time a decomposition session
	// may run before it is forcibly cancelled.
	SessionTimeout time.Duration `yaml:"session_timeout"`

	// GracefulShutdownTimeout is the max time to wait for active sessions to
	// finish during shutdown before they are cancelled outright.
	GracefulShutdownTimeout time.Duration `yaml:"graceful_shutdown_timeout"`
}

// DefaultQueueConfig returns the built-in queue defaults.
func DefaultQueueConfig() *QueueConfig {
	return &QueueConfig{
		WorkerCount:             8,
		MaxConcurrentSessions:   5,
		SessionTimeout:          15 * time.Minute,
		GracefulShutdownTimeout: 30 * time.Second,
	}
}
