package types

// StoreConfig holds settings for the SQLite project store.
type StoreConfig struct {
	// Path is the SQLite database file (default "review.db").
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// LogConfig selects the zap logger level and encoding.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "console" for human-readable output or "json".
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// DedupConfig tunes the duplicate detector. The defaults (0.90, 10) are the
// values the review workflow was calibrated with.
type DedupConfig struct {
	// SimilarityThreshold is the fuzzy-title similarity a pair must exceed.
	SimilarityThreshold float64 `json:"similarity_threshold" yaml:"similarity_threshold" mapstructure:"similarity_threshold"`

	// MaxLengthGap is the normalized-length difference at or above which
	// edit distance is not computed.
	MaxLengthGap int `json:"max_length_gap" yaml:"max_length_gap" mapstructure:"max_length_gap"`
}

// AdvisorConfig holds settings for the AI screening advisor.
type AdvisorConfig struct {
	// Model is the Claude model identifier.
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the Anthropic API key. Falls back to the anthropic-api-key secret.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxRetries is the number of retry attempts for failed calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// MaxTokens caps the response length.
	MaxTokens int64 `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`
}

// EngineConfig groups all configuration sections.
type EngineConfig struct {
	Project string        `json:"project" yaml:"project" mapstructure:"project"`
	Store   StoreConfig   `json:"store" yaml:"store" mapstructure:"store"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
	Dedup   DedupConfig   `json:"dedup" yaml:"dedup" mapstructure:"dedup"`
	Advisor AdvisorConfig `json:"advisor" yaml:"advisor" mapstructure:"advisor"`
}
