// Package checker implements the submission-validation engine: per-submission
// accuracy and performance verdicts, the tree walk that aggregates them, the
// cross-reference checks over good submissions, and the final report.
package checker

import (
	"log/slog"

	"github.com/mlperf-tools/submission-checker/internal/rules"
	"github.com/mlperf-tools/submission-checker/internal/schema"
)

// Options controls one check run.
type Options struct {
	// Root is the submission tree root directory.
	Root string
	// Submitter, when set, restricts the walk to one submitter.
	Submitter string
	// StrictSeeds makes a loadgen seed mismatch invalidate a performance run
	// instead of only logging it.
	StrictSeeds bool
	// SymmetricDiff switches file-set diffs to a true symmetric difference.
	SymmetricDiff bool
}

// Checker validates one submission tree. All rule tables and templates are
// read-only for the lifetime of the run.
type Checker struct {
	rules   *rules.Rules
	systems schema.Template
	impls   schema.Template
	opts    Options
	log     *slog.Logger
}

// New builds a Checker. systems and impls are the system-description and
// measurement-implementation schema templates.
func New(r *rules.Rules, systems, impls schema.Template, opts Options, log *slog.Logger) *Checker {
	return &Checker{
		rules:   r,
		systems: systems,
		impls:   impls,
		opts:    opts,
		log:     log,
	}
}
