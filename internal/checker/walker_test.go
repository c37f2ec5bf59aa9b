package checker_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlperf-tools/submission-checker/internal/checker"
	"github.com/mlperf-tools/submission-checker/internal/submission"
)

func TestCheckResultsDirGoodSubmission(t *testing.T) {
	root := t.TempDir()
	writeSubmission(t, root, testSub)

	chk := newChecker(t, checker.Options{Root: root})
	res, err := chk.CheckResultsDir()
	require.NoError(t, err)

	assert.Equal(t, []submission.Path{testSub}, res.Good)
	assert.Empty(t, res.Bad)
	assert.Equal(t, "1234.5", res.Results[testSub.String()])
}

// A performance run missing a required file is reported with the missing
// filename and yields no result.
func TestCheckResultsDirMissingPerfFile(t *testing.T) {
	root := t.TempDir()
	writeSubmission(t, root, testSub)
	perfDir := filepath.Join(root, testSub.ResultsDir(), "performance", "run_1")
	require.NoError(t, os.Remove(filepath.Join(perfDir, "mlperf_log_detail.txt")))

	chk := newChecker(t, checker.Options{Root: root})
	res, err := chk.CheckResultsDir()
	require.NoError(t, err)

	assert.Empty(t, res.Good)
	msg := res.Bad[testSub.String()]
	assert.Contains(t, msg, "file list mismatch")
	assert.Contains(t, msg, "mlperf_log_detail.txt")
	assert.Equal(t, checker.NoResults, res.Results[testSub.String()])
}

func TestCheckResultsDirMissingAccuracyTxt(t *testing.T) {
	root := t.TempDir()
	writeSubmission(t, root, testSub)
	accDir := filepath.Join(root, testSub.ResultsDir(), "accuracy")
	require.NoError(t, os.Remove(filepath.Join(accDir, "accuracy.txt")))

	chk := newChecker(t, checker.Options{Root: root})
	res, err := chk.CheckResultsDir()
	require.NoError(t, err)

	assert.Empty(t, res.Good)
	assert.Contains(t, res.Bad[testSub.String()], "has no accuracy.txt")
}

func TestCheckResultsDirAccuracyBelowTarget(t *testing.T) {
	root := t.TempDir()
	writeSubmission(t, root, testSub)
	accDir := filepath.Join(root, testSub.ResultsDir(), "accuracy")
	write(t, filepath.Join(accDir, "accuracy.txt"), "accuracy=70.00\n")

	chk := newChecker(t, checker.Options{Root: root})
	res, err := chk.CheckResultsDir()
	require.NoError(t, err)

	assert.Empty(t, res.Good)
	assert.Contains(t, res.Bad[testSub.String()], "has issues")
	// The performance run is still evaluated.
	assert.Equal(t, "1234.5", res.Results[testSub.String()])
}

func TestCheckResultsDirInvalidModelClosed(t *testing.T) {
	root := t.TempDir()
	sub := testSub
	sub.Model = "secretnet"
	writeSubmission(t, root, sub)

	chk := newChecker(t, checker.Options{Root: root})
	res, err := chk.CheckResultsDir()
	require.NoError(t, err)

	assert.Contains(t, res.Bad["rig1/secretnet"], "invalid model name secretnet")
}

// Open division allows arbitrary model names.
func TestCheckResultsDirOpenDivisionModel(t *testing.T) {
	root := t.TempDir()
	sub := testSub
	sub.Division = "open"
	sub.Model = "resnet" // keep tables resolvable, name checks skipped
	writeSubmission(t, root, sub)

	chk := newChecker(t, checker.Options{Root: root})
	res, err := chk.CheckResultsDir()
	require.NoError(t, err)

	assert.Empty(t, res.Bad)
	assert.Equal(t, []submission.Path{sub}, res.Good)
}

func TestCheckResultsDirMissingSystemDesc(t *testing.T) {
	root := t.TempDir()
	writeSubmission(t, root, testSub)
	require.NoError(t, os.Remove(filepath.Join(root, testSub.SystemDescFile())))

	chk := newChecker(t, checker.Options{Root: root})
	res, err := chk.CheckResultsDir()
	require.NoError(t, err)

	assert.Empty(t, res.Good)
	assert.Contains(t, res.Bad[testSub.String()], "no such system id rig1")
}

// Legacy run1 naming is accepted when run_1 is absent.
func TestCheckResultsDirLegacyRunFolder(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, testSub.ResultsDir())
	writeAccuracyDir(t, filepath.Join(dir, "accuracy"), goodAccuracy)
	writePerformanceDir(t, filepath.Join(dir, "performance", "run1"), offlineSummary())
	write(t, filepath.Join(root, testSub.SystemDescFile()), goodSystemDesc)

	chk := newChecker(t, checker.Options{Root: root})
	res, err := chk.CheckResultsDir()
	require.NoError(t, err)

	assert.Empty(t, res.Bad)
	assert.Equal(t, "1234.5", res.Results[testSub.String()])
}

// A bare performance directory with the logs directly inside also counts as a
// single run.
func TestCheckResultsDirUnnamedRunFolder(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, testSub.ResultsDir())
	writeAccuracyDir(t, filepath.Join(dir, "accuracy"), goodAccuracy)
	writePerformanceDir(t, filepath.Join(dir, "performance"), offlineSummary())
	write(t, filepath.Join(root, testSub.SystemDescFile()), goodSystemDesc)

	chk := newChecker(t, checker.Options{Root: root})
	res, err := chk.CheckResultsDir()
	require.NoError(t, err)

	assert.Empty(t, res.Bad)
	assert.Equal(t, "1234.5", res.Results[testSub.String()])
}

// Server scenarios need five runs; a missing one marks the submission bad.
func TestCheckResultsDirServerRuns(t *testing.T) {
	root := t.TempDir()
	sub := testSub
	sub.Scenario = "Server"
	dir := filepath.Join(root, sub.ResultsDir())
	writeAccuracyDir(t, filepath.Join(dir, "accuracy"), goodAccuracy)
	serverSummary := summaryFor("Server", "Scheduled samples per second", "2000")
	for _, run := range []string{"run_1", "run_2", "run_3", "run_4"} {
		writePerformanceDir(t, filepath.Join(dir, "performance", run), serverSummary)
	}
	write(t, filepath.Join(root, sub.SystemDescFile()), goodSystemDesc)

	chk := newChecker(t, checker.Options{Root: root})
	res, err := chk.CheckResultsDir()
	require.NoError(t, err)

	assert.Empty(t, res.Good)
	assert.Contains(t, res.Bad[sub.String()], "run_5")
	assert.Contains(t, res.Bad[sub.String()], "missing")
	// Results still carry the last completed run's value.
	assert.Equal(t, "2000", res.Results[sub.String()])
}

func TestCheckResultsDirSubmitterFilter(t *testing.T) {
	root := t.TempDir()
	writeSubmission(t, root, testSub)
	other := testSub
	other.Submitter = "zorp"
	writeSubmission(t, root, other)

	chk := newChecker(t, checker.Options{Root: root, Submitter: "zorp"})
	res, err := chk.CheckResultsDir()
	require.NoError(t, err)

	assert.Equal(t, []submission.Path{other}, res.Good)
	assert.Len(t, res.Results, 1)
}

// Directories at the root that are not divisions are skipped.
func TestCheckResultsDirIgnoresUnknownDivisions(t *testing.T) {
	root := t.TempDir()
	writeSubmission(t, root, testSub)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "scratch", "stuff"), 0o755))

	chk := newChecker(t, checker.Options{Root: root})
	res, err := chk.CheckResultsDir()
	require.NoError(t, err)
	assert.Len(t, res.Results, 1)
}

func TestCheckResultsDirMissingRoot(t *testing.T) {
	chk := newChecker(t, checker.Options{Root: filepath.Join(t.TempDir(), "nope")})
	_, err := chk.CheckResultsDir()
	require.Error(t, err)
}

func TestSummarize(t *testing.T) {
	chk := newChecker(t, checker.Options{})

	res := &checker.WalkResult{
		Bad: map[string]string{},
		Results: map[string]string{
			"closed/acme/results/rig1/resnet/Offline": "1234.5",
		},
	}
	assert.True(t, chk.Summarize(res, nil, nil))

	res.Results["closed/acme/results/rig1/resnet/Server"] = checker.NoResults
	assert.True(t, chk.Summarize(res, nil, nil), "NoResults alone is not a verdict failure")

	res.Bad["closed/acme/results/rig1/resnet/Server"] = "has issues"
	assert.False(t, chk.Summarize(res, nil, nil))

	res.Bad = map[string]string{}
	assert.False(t, chk.Summarize(res, []string{"bad system json"}, nil))
	assert.False(t, chk.Summarize(res, nil, []string{"bad measurement"}))
}
