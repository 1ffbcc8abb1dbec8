// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// WikiConfig holds settings for the wiki session and page repository.
type WikiConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the wiki root, e.g. "https://wiki.example.org/".
	// A trailing slash is appended when missing.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// PageID identifies the publications page.
	PageID string `json:"page_id" yaml:"page_id"`
}

// BackupConfig holds settings for the backup store.
type BackupConfig struct {
	// Dir is the directory that receives page snapshots.
	Dir string `json:"dir" yaml:"dir"`
}

// DiscoveryConfig holds settings for the PubMed discovery pipeline.
type DiscoveryConfig struct {
	HTTPConfig `yaml:",inline"`

	// Tool identifies this client to the E-utilities API.
	Tool string `json:"tool" yaml:"tool"`

	// Email is the contact address NCBI asks clients to send.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// APIKey raises the E-utilities rate limit when set.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxPerQuery caps the results requested per planned query (default 10).
	MaxPerQuery int `json:"max_per_query" yaml:"max_per_query"`

	// MinScore is the relevance threshold for accepting a record (default 60).
	MinScore int `json:"min_score" yaml:"min_score"`

	// QueryDelay is the pause between consecutive search calls (default 1s),
	// per the E-utilities usage policy.
	QueryDelay time.Duration `json:"query_delay" yaml:"query_delay"`
}

// LedgerConfig holds settings for the integrated-publications ledger.
type LedgerConfig struct {
	// Dir is the directory holding the SQLite database.
	Dir string `json:"dir" yaml:"dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Wiki      WikiConfig      `json:"wiki" yaml:"wiki"`
	Backup    BackupConfig    `json:"backup" yaml:"backup"`
	Discovery DiscoveryConfig `json:"discovery" yaml:"discovery"`
	Ledger    LedgerConfig    `json:"ledger" yaml:"ledger"`
}
