package config

// IntentPatternConfig configures the Intent Pattern Engine (Component D) and
// its LLM fallback (Component E).
type IntentPatternConfig struct {
	// Patterns maps an intent name to the ordered regex/keyword patterns that
	// recognize it. The first pattern to match wins; pattern order therefore
	// encodes specificity (most specific first).
	Patterns map[string][]string `yaml:"patterns" validate:"required,min=1"`

	// ConfidenceThreshold is the minimum confidence the pattern engine must
	// report for its match to be accepted without invoking the LLM fallback.
	ConfidenceThreshold float64 `yaml:"confidence_threshold" validate:"required,min=0,max=1"`

	// FallbackConfidenceThreshold is the minimum confidence the LLM fallback
	// itself must report; below it the request resolves to Defaults.FallbackIntent.
	FallbackConfidenceThreshold float64 `yaml:"fallback_confidence_threshold" validate:"required,min=0,max=1"`

	// FallbackCacheSize bounds the LLM fallback's in-memory result cache
	// (keyed on a normalized form of the input prompt).
	FallbackCacheSize int `yaml:"fallback_cache_size" validate:"required,min=1"`
}
