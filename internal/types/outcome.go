package types

// OutcomeStatus classifies what happened to a group during a run.
type OutcomeStatus string

const (
	// StatusMerged means an output file was written for the group.
	StatusMerged OutcomeStatus = "merged"
	// StatusSkipped means the group was not merged (wrong cardinality, bad part markers, header mismatch).
	StatusSkipped OutcomeStatus = "skipped"
	// StatusFailed means an I/O or encoding error stopped the merge of this group.
	StatusFailed OutcomeStatus = "failed"
)

// MergeResult describes one written output file.
type MergeResult struct {
	Identifier     string `json:"identifier"`
	OutputPath     string `json:"output_path"`
	Primary        string `json:"primary"`
	Secondary      string `json:"secondary"`
	Lines          int    `json:"lines"`
	HeaderMismatch bool   `json:"header_mismatch,omitempty"`
}

// GroupOutcome is the per-group record accumulated by a run.
type GroupOutcome struct {
	Identifier string        `json:"identifier"`
	Status     OutcomeStatus `json:"status"`
	FileCount  int           `json:"file_count"`
	Lines      int           `json:"lines"`
	OutputPath string        `json:"output_path,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	Files      []string      `json:"files"`
}

// Summary holds run-level counters.
type Summary struct {
	Processed  int    `json:"processed"`
	Skipped    int    `json:"skipped"`
	Failed     int    `json:"failed"`
	TotalLines int    `json:"total_lines"`
	OutputDir  string `json:"output_dir"`
}

// Record folds a single outcome into the summary.
func (s *Summary) Record(o GroupOutcome) {
	switch o.Status {
	case StatusMerged:
		s.Processed++
		s.TotalLines += o.Lines
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	}
}
