package checker

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/mlperf-tools/submission-checker/internal/logscan"
)

// CheckAccuracyDir decides whether one accuracy directory meets the accuracy
// target for its model. The detail log is scanned for stray errors as a side
// effect; those are warnings only and never affect the verdict.
func (c *Checker) CheckAccuracyDir(model, dir string) bool {
	report, err := logscan.ParseAccuracyFile(filepath.Join(dir, "accuracy.txt"))
	if err != nil {
		c.log.Error("failed to read accuracy.txt", "dir", dir, "err", err)
		return false
	}

	isValid := report.Valid
	if isValid {
		if norm, ok := c.rules.NormalizeModel(model); ok {
			target := c.rules.AccuracyTarget[norm]
			if report.Value < target {
				c.log.Error("accuracy not met", "dir", dir, "target", target, "actual", report.Value)
				isValid = false
			}
		} else {
			c.log.Error("unknown model, can't find target accuracy", "dir", dir, "model", model)
			isValid = false
		}
	}

	c.warnDetailErrors(filepath.Join(dir, "mlperf_log_detail.txt"))
	return isValid
}

// warnDetailErrors logs every non-ignorable ERROR line in a detail log. A
// missing log is itself only a warning.
func (c *Checker) warnDetailErrors(fname string) {
	lines, err := logscan.ScanDetailLog(fname, c.rules.LegacyCASQuirk)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.log.Warn("detail log missing", "file", fname)
		} else {
			c.log.Warn("failed to scan detail log", "file", fname, "err", err)
		}
		return
	}
	for _, line := range lines {
		c.log.Warn("detail log contains error", "file", fname, "line", line)
	}
}
