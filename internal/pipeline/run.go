// Package pipeline drives one merge run: scan, group, merge, report.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nmrenyi/rosenwald-benchmark/internal/config"
	"github.com/nmrenyi/rosenwald-benchmark/internal/grouping"
	"github.com/nmrenyi/rosenwald-benchmark/internal/merging"
	"github.com/nmrenyi/rosenwald-benchmark/internal/observability"
	internalschemas "github.com/nmrenyi/rosenwald-benchmark/internal/schemas"
	"github.com/nmrenyi/rosenwald-benchmark/internal/types"
	"github.com/nmrenyi/rosenwald-benchmark/schemas"
)

// ErrGroupsFailed is returned after a continue-on-error run in which at least one group failed.
var ErrGroupsFailed = errors.New("one or more groups failed to merge")

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	Step       string              `json:"step"`
	Category   string              `json:"category"`
	Message    string              `json:"message"`
	RunID      string              `json:"run_id,omitempty"`
	Identifier string              `json:"identifier,omitempty"`
	Content    *types.GroupOutcome `json:"content,omitempty"`
}

// ProgressCallback is called when run progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for one run
type RunOptions struct {
	// Config must already be merged with config.Default().
	Config     config.Config
	Printer    *observability.Printer
	OnProgress ProgressCallback
}

// RunResult is what a run produced, in identifier order.
type RunResult struct {
	RunID    uuid.UUID
	Outcomes []types.GroupOutcome
	Results  map[string]*types.MergeResult
	Summary  types.Summary
	Manifest *types.Manifest
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, runID uuid.UUID, step, category, message string, outcome *types.GroupOutcome) {
	if opts.OnProgress == nil {
		return
	}
	ev := ProgressEvent{
		Step:     step,
		Category: category,
		Message:  message,
		RunID:    runID.String(),
		Content:  outcome,
	}
	if outcome != nil {
		ev.Identifier = outcome.Identifier
	}
	opts.OnProgress(ev)
}

// Scan groups the source directory without touching the output directory.
func Scan(cfg config.Config) ([]types.Group, error) {
	groups, err := grouping.Group(cfg.SourceDir, cfg.FilePattern, cfg.Prefix())
	if err != nil {
		return nil, fmt.Errorf("failed to group files: %w", err)
	}
	return groups.Sorted(), nil
}

// Run merges every complete group of the source directory into the output directory.
// Groups with the wrong number of files, unusable part markers or (in strict mode)
// mismatched headers are skipped with a warning. An I/O failure stops the run
// unless ContinueOnError is set, in which case the group is recorded as failed
// and ErrGroupsFailed is returned once every group has been attempted.
func Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	printer := opts.Printer
	if printer == nil {
		printer = observability.NewPrinter(os.Stdout)
	}

	runID := uuid.New()
	startedAt := time.Now().UTC()
	printer.Verbosef("Run %s: %s -> %s (prefix %d, pattern %s)", runID, cfg.SourceDir, cfg.OutputDir, cfg.Prefix(), cfg.FilePattern)

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", cfg.OutputDir, err)
	}

	groups, err := Scan(cfg)
	if err != nil {
		return nil, err
	}
	printer.Verbosef("Found %d groups in %s", len(groups), cfg.SourceDir)
	emitProgress(&opts, runID, "scan", "info", fmt.Sprintf("found %d groups", len(groups)), nil)

	merger := merging.New(cfg.Policy())
	outcomes := make([]*types.GroupOutcome, len(groups))
	results := make([]*types.MergeResult, len(groups))

	jobs := cfg.Jobs
	if jobs < 1 {
		jobs = 1
	}
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, grp := range groups {
		if gCtx.Err() != nil {
			break
		}
		if !grp.Complete() {
			outcomes[i] = &types.GroupOutcome{
				Identifier: grp.Identifier,
				Status:     types.StatusSkipped,
				FileCount:  len(grp.Files),
				Files:      grp.Files,
				Reason:     fmt.Sprintf("Expected %d files for %s, found %d", types.PairSize, grp.Identifier, len(grp.Files)),
			}
			continue
		}

		// Each goroutine owns index i of outcomes and results.
		i, grp := i, grp
		g.Go(func() error {
			res, err := merger.Merge(gCtx, grp.Identifier, grp.Files, cfg.OutputDir)
			outcome := &types.GroupOutcome{
				Identifier: grp.Identifier,
				FileCount:  len(grp.Files),
				Files:      grp.Files,
			}
			switch {
			case err == nil:
				outcome.Status = types.StatusMerged
				outcome.Lines = res.Lines
				outcome.OutputPath = res.OutputPath
				results[i] = res
			case merging.IsSkip(err):
				outcome.Status = types.StatusSkipped
				outcome.Reason = err.Error()
			case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
				return err
			case cfg.ContinueOnError:
				outcome.Status = types.StatusFailed
				outcome.Reason = err.Error()
			default:
				return fmt.Errorf("failed to merge %s: %w", grp.Identifier, err)
			}
			outcomes[i] = outcome
			return nil
		})
	}
	waitErr := g.Wait()
	if waitErr == nil {
		waitErr = ctx.Err()
	}

	result := &RunResult{
		RunID:    runID,
		Outcomes: make([]types.GroupOutcome, 0, len(groups)),
		Results:  make(map[string]*types.MergeResult),
		Summary:  types.Summary{OutputDir: cfg.OutputDir},
	}
	for i, o := range outcomes {
		if o == nil {
			continue
		}
		result.Outcomes = append(result.Outcomes, *o)
		result.Summary.Record(*o)
		if results[i] != nil {
			result.Results[o.Identifier] = results[i]
		}
		printer.PrintOutcome(*o, results[i])
		emitProgress(&opts, runID, "merge", string(o.Status), describeOutcome(*o), o)
	}

	if waitErr != nil {
		return result, waitErr
	}

	printer.PrintSummary(result.Summary)
	emitProgress(&opts, runID, "summary", "info",
		fmt.Sprintf("%d processed, %d skipped, %d failed", result.Summary.Processed, result.Summary.Skipped, result.Summary.Failed), nil)

	if cfg.Manifest != "" {
		result.Manifest = buildManifest(runID, startedAt, cfg, result)
		if err := writeManifest(cfg.Manifest, result.Manifest); err != nil {
			return result, err
		}
		printer.Verbosef("Wrote manifest %s", cfg.Manifest)
	}

	if result.Summary.Failed > 0 {
		return result, fmt.Errorf("%w: %d of %d", ErrGroupsFailed, result.Summary.Failed, len(groups))
	}
	return result, nil
}

func describeOutcome(o types.GroupOutcome) string {
	switch o.Status {
	case types.StatusMerged:
		return fmt.Sprintf("created %s (%d lines)", filepath.Base(o.OutputPath), o.Lines)
	default:
		return o.Reason
	}
}

func buildManifest(runID uuid.UUID, startedAt time.Time, cfg config.Config, result *RunResult) *types.Manifest {
	policy := cfg.Policy()
	return &types.Manifest{
		RunID:      runID.String(),
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
		Config: types.ManifestConfig{
			SourceDir:           cfg.SourceDir,
			OutputDir:           cfg.OutputDir,
			FilePattern:         cfg.FilePattern,
			PrefixLength:        policy.PrefixLength,
			VerifyParts:         policy.VerifyParts,
			DropSecondaryHeader: policy.DropSecondaryHeader,
			HeaderCheck:         string(policy.HeaderCheck),
		},
		Groups:  result.Outcomes,
		Summary: result.Summary,
	}
}

// writeManifest validates m against the manifest schema before writing it.
func writeManifest(path string, m *types.Manifest) error {
	if err := internalschemas.ValidateDocument(schemas.Manifest, m); err != nil {
		return fmt.Errorf("manifest does not validate against schema: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create manifest directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}
