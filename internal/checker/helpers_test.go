package checker_test

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mlperf-tools/submission-checker/internal/checker"
	"github.com/mlperf-tools/submission-checker/internal/rules"
	"github.com/mlperf-tools/submission-checker/internal/schema"
	"github.com/mlperf-tools/submission-checker/internal/submission"
)

var testSub = submission.Path{
	Division:  "closed",
	Submitter: "acme",
	System:    "rig1",
	Model:     "resnet",
	Scenario:  "Offline",
}

var (
	systemsTmpl = schema.Template{
		"division":    "required",
		"submitter":   "required",
		"status":      "required",
		"system_name": "",
	}
	implsTmpl = schema.Template{
		"retraining":                "required",
		"starting_weights_filename": "",
	}
)

const goodSystemDesc = `{"division": "closed", "submitter": "acme", "status": "available"}`

const goodDetailLog = `:::MLLOG {"key": "loadgen_version"}
ERROR : Loadgen built with uncommitted changes!
all good here
`

const goodAccuracy = "accuracy=77.50, good=38750, total=50000\n"

// summaryFor renders a loadgen summary with matching seeds and a 1024 sample
// count.
func summaryFor(scenario, resultField, resultValue string) string {
	return fmt.Sprintf(`================================================
MLPerf Results Summary
================================================
SUT name : TestSUT
Scenario : %s
Mode : Performance
%s : %s
Result is : VALID

================================================
Test Parameters Used
================================================
qsl_rng_seed : 3133965575612453542
sample_index_rng_seed : 665484352860916858
schedule_rng_seed : 3622009729038561421
performance_sample_count : 1024
`, scenario, resultField, resultValue)
}

func offlineSummary() string {
	return summaryFor("Offline", "Samples per second", "1234.5")
}

func newChecker(t *testing.T, opts checker.Options) *checker.Checker {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return checker.New(rules.Default(), systemsTmpl, implsTmpl, opts, log)
}

func newCheckerWithRules(t *testing.T, r *rules.Rules, opts checker.Options) *checker.Checker {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return checker.New(r, systemsTmpl, implsTmpl, opts, log)
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// writeAccuracyDir lays out a complete accuracy directory.
func writeAccuracyDir(t *testing.T, dir, accuracy string) {
	t.Helper()
	write(t, filepath.Join(dir, "accuracy.txt"), accuracy)
	write(t, filepath.Join(dir, "mlperf_log_accuracy.json"), "{}")
	write(t, filepath.Join(dir, "mlperf_log_summary.txt"), offlineSummary())
	write(t, filepath.Join(dir, "mlperf_log_detail.txt"), goodDetailLog)
}

// writePerformanceDir lays out a complete performance run directory.
func writePerformanceDir(t *testing.T, dir, summary string) {
	t.Helper()
	write(t, filepath.Join(dir, "mlperf_log_accuracy.json"), "{}")
	write(t, filepath.Join(dir, "mlperf_log_summary.txt"), summary)
	write(t, filepath.Join(dir, "mlperf_log_detail.txt"), goodDetailLog)
}

// writeSubmission lays out a fully valid submission for sub under root,
// including its system-description file.
func writeSubmission(t *testing.T, root string, sub submission.Path) {
	t.Helper()
	dir := filepath.Join(root, sub.ResultsDir())
	writeAccuracyDir(t, filepath.Join(dir, "accuracy"), goodAccuracy)
	writePerformanceDir(t, filepath.Join(dir, "performance", "run_1"), offlineSummary())
	write(t, filepath.Join(root, sub.SystemDescFile()), goodSystemDesc)
}
