// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds settings for the host HTTP transport.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paperlink/0.1 (mailto:someone@example.org)").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries bounds retries on HTTP 429. Zero uses the default (5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// MinInterval is the minimum spacing between requests. arXiv asks
	// clients to stay at or below one request every three seconds.
	// Zero disables pacing.
	MinInterval time.Duration `json:"min_interval" yaml:"min_interval"`
}

// IngestConfig holds settings for the resolve/fetch/normalize/export path.
type IngestConfig struct {
	HTTPConfig `yaml:",inline"`

	// Sources lists the sources to try in order. The first source whose
	// fetch and normalize both succeed wins.
	Sources []Source `json:"sources" yaml:"sources"`

	// ActingUser is recorded as addedBy on exported papers.
	ActingUser string `json:"acting_user" yaml:"acting_user"`
}

// StoreConfig locates the host document store.
type StoreConfig struct {
	// Path is the SQLite database file (e.g. "paperlink.db").
	Path string `json:"path" yaml:"path"`
}

// JoinConfig holds settings for the assignment join.
type JoinConfig struct {
	// ChunkSize is the number of project ids per batched lookup. Values
	// above the store limit (10) are clamped.
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Ingest IngestConfig `json:"ingest" yaml:"ingest"`
	Store  StoreConfig  `json:"store" yaml:"store"`
	Join   JoinConfig   `json:"join" yaml:"join"`
}
