package types

import "time"

// ManifestConfig is the subset of configuration echoed into a run manifest.
type ManifestConfig struct {
	SourceDir           string `json:"source_dir"`
	OutputDir           string `json:"output_dir"`
	FilePattern         string `json:"file_pattern"`
	PrefixLength        int    `json:"prefix_length"`
	VerifyParts         bool   `json:"verify_parts"`
	DropSecondaryHeader bool   `json:"drop_secondary_header"`
	HeaderCheck         string `json:"header_check"`
}

// Manifest is the machine-readable record of one run (wrapper for schema).
type Manifest struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Config     ManifestConfig `json:"config"`
	Groups     []GroupOutcome `json:"groups"`
	Summary    Summary        `json:"summary"`
}
