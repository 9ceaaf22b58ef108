package model

import "time"

// DefaultCodeMapMaxAge is the default staleness threshold: 60 minutes.
const DefaultCodeMapMaxAge = 60 * time.Minute

// MinCodeMapMaxAge and MaxCodeMapMaxAge bound the configurable maxAge,
// in minutes.
const (
	MinCodeMapMaxAge = time.Minute
	MaxCodeMapMaxAge = 1440 * time.Minute
)

// CodeMapInfo describes a generated project code map.
type CodeMapInfo struct {
	FilePath string `json:"file_path"` // output markdown
	GeneratedAt time.Time `json:"generated_at"`
	ProjectPath string `json:"project_path"`
	FileSize int64 `json:"file_size"`
}

// IsStale reports whether the code map is older than maxAge. maxAge <= 0
// is treated as DefaultCodeMapMaxAge, matching its isStale default.
func (c *CodeMapInfo) IsStale(now time.Time, maxAge time.Duration) bool {
	if c == nil {
		return true
	}
	if maxAge <= 0 {
		maxAge = DefaultCodeMapMaxAge
	}
	return now.Sub(c.GeneratedAt) > maxAge
}
