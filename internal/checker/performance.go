package checker

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mlperf-tools/submission-checker/internal/logscan"
	"github.com/mlperf-tools/submission-checker/internal/rules"
)

// nanosecond latencies are reported in milliseconds
const toMS = 1000 * 1000

// CheckPerformanceDir decides whether one performance directory represents a
// valid, correctly configured run and extracts its headline result value.
// Structural findings (low sample count, seed mismatch) are logged and
// reflected in the validity flag; a non-nil error means the directory could
// not be evaluated at all and the caller should treat it as having no result.
func (c *Checker) CheckPerformanceDir(model, dir string) (float64, bool, error) {
	summaryFile := filepath.Join(dir, "mlperf_log_summary.txt")
	sum, err := logscan.ParseSummaryFile(summaryFile)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read summary: %w", err)
	}
	isValid := sum.Valid

	if norm, ok := c.rules.NormalizeModel(model); ok {
		want := c.rules.PerformanceSampleCount[norm]
		raw, ok := sum.Fields["performance_sample_count"]
		if !ok {
			return 0, false, fmt.Errorf("%s has no performance_sample_count", summaryFile)
		}
		count, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, false, fmt.Errorf("%s has bad performance_sample_count %q: %w", summaryFile, raw, err)
		}
		if count < want {
			c.log.Error("performance_sample_count too low", "file", summaryFile, "expected", want, "actual", count)
			isValid = false
		}
	} else {
		c.log.Error("performance_sample_count not checked, bad model name", "file", summaryFile, "model", model)
		isValid = false
	}

	// Unlike the accuracy check, a performance run without a readable detail
	// log cannot be evaluated at all.
	detailFile := filepath.Join(dir, "mlperf_log_detail.txt")
	errLines, err := logscan.ScanDetailLog(detailFile, c.rules.LegacyCASQuirk)
	if err != nil {
		return 0, false, fmt.Errorf("failed to scan detail log: %w", err)
	}
	for _, line := range errLines {
		c.log.Warn("detail log contains error", "file", detailFile, "line", line)
	}

	seedsMatch, err := c.checkSeeds(summaryFile, sum.Fields)
	if err != nil {
		return 0, false, err
	}
	if !seedsMatch && c.opts.StrictSeeds {
		isValid = false
	}

	scenario, ok := sum.Fields["Scenario"]
	if !ok {
		return 0, false, fmt.Errorf("%s has no Scenario", summaryFile)
	}
	field, ok := c.rules.ResultField[firstWord(scenario)]
	if !ok {
		return 0, false, fmt.Errorf("%s has unknown scenario %q", summaryFile, scenario)
	}
	raw, ok := sum.Fields[field]
	if !ok {
		return 0, false, fmt.Errorf("%s has no %q", summaryFile, field)
	}
	res, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%s has bad %q value %q: %w", summaryFile, field, raw, err)
	}
	if scenario == "Single Stream" {
		res /= toMS
	}

	return res, isValid, nil
}

// checkSeeds verifies the three loadgen seeds against the rule table. A seed
// that is absent or not an integer makes the run unevaluable; a plain
// mismatch is reported as an error and left to the caller to judge.
func (c *Checker) checkSeeds(summaryFile string, fields map[string]string) (bool, error) {
	match := true
	for _, name := range rules.SeedNames {
		raw, ok := fields[name]
		if !ok {
			return false, fmt.Errorf("%s has no %s", summaryFile, name)
		}
		got, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return false, fmt.Errorf("%s has bad %s %q: %w", summaryFile, name, raw, err)
		}
		if want := c.rules.Seeds[name]; got != want {
			c.log.Error("seed wrong", "file", summaryFile, "seed", name, "actual", got, "expected", want)
			match = false
		}
	}
	return match, nil
}

func firstWord(s string) string {
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[0]
	}
	return s
}
