package checker

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/mlperf-tools/submission-checker/internal/schema"
	"github.com/mlperf-tools/submission-checker/internal/submission"
)

// CheckSystemDescIDs verifies, for each good submission, that the system
// description JSON matches the schema template and that its declared
// submitter and division agree with the directory path. Each unique file is
// validated once.
func (c *Checker) CheckSystemDescIDs(good []submission.Path) []string {
	var errs []string
	checked := map[string]bool{}

	for _, sub := range good {
		if !slices.Contains(c.rules.ValidDivisions, sub.Division) {
			errs = append(errs, fmt.Sprintf("%s has invalid division %s", sub, sub.Division))
			continue
		}
		fname := filepath.Join(c.opts.Root, sub.SystemDescFile())
		if checked[fname] {
			continue
		}
		checked[fname] = true

		if !schema.Compare(fname, c.systems, &errs) {
			continue
		}
		data, err := os.ReadFile(fname)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s unexpected error %v", fname, err))
			continue
		}
		if got := gjson.GetBytes(data, "submitter").String(); got != sub.Submitter {
			errs = append(errs, fmt.Sprintf("%s has submitter %s, directory has %s", fname, got, sub.Submitter))
			continue
		}
		if got := gjson.GetBytes(data, "division").String(); got != sub.Division {
			errs = append(errs, fmt.Sprintf("%s has division %s, directory has %s", fname, got, sub.Division))
			continue
		}
	}

	for _, e := range errs {
		c.log.Error(e)
	}
	return errs
}

// CheckMeasurementDirs verifies, for each good submission, the measurement
// directory contents, the implementation JSON, and that the implementation's
// code directory exists.
func (c *Checker) CheckMeasurementDirs(good []submission.Path) []string {
	var errs []string

	for _, sub := range good {
		if !exists(c.opts.Root, sub.MeasurementRoot()) {
			errs = append(errs, fmt.Sprintf("%s directory missing", sub.MeasurementRoot()))
			continue
		}
		mdir := filepath.Join(c.opts.Root, sub.MeasurementDir())
		files, err := listFiles(mdir)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s unexpected error %v", mdir, err))
			continue
		}
		for _, want := range c.rules.RequiredMeasureFiles {
			if !slices.Contains(files, want) {
				errs = append(errs, fmt.Sprintf("%s is missing %s", mdir, want))
			}
		}

		implFile, suffix := findImplementationFile(files, sub.System, sub.Scenario)
		if implFile == "" {
			errs = append(errs, fmt.Sprintf("%s is missing %s*.json", mdir, sub.System))
			continue
		}
		schema.Compare(filepath.Join(mdir, implFile), c.impls, &errs)

		impl := implementationToken(implFile, sub.System, suffix)
		codeDir := filepath.Join(c.opts.Root, sub.CodeDir(impl))
		if !exists(codeDir) {
			errs = append(errs, fmt.Sprintf("%s is missing", codeDir))
		}
	}

	for _, e := range errs {
		c.log.Error(e)
	}
	return errs
}

// findImplementationFile picks the implementation JSON out of a measurement
// directory listing: the first file named <system>…_<scenario>.json, or
// failing that within the same entry, plain <system>….json.
func findImplementationFile(files []string, system, scenario string) (name, suffix string) {
	scenarioSuffix := "_" + scenario + ".json"
	for _, f := range files {
		if !strings.HasPrefix(f, system) {
			continue
		}
		if strings.HasSuffix(f, scenarioSuffix) {
			return f, scenarioSuffix
		}
		if strings.HasSuffix(f, ".json") {
			return f, ".json"
		}
	}
	return "", ""
}

// implementationToken extracts the implementation name between the system-id
// prefix (plus separator) and the matched suffix. A file named exactly
// <system>.json yields an empty token.
func implementationToken(implFile, system, suffix string) string {
	start := len(system) + 1
	end := len(implFile) - len(suffix)
	if start >= end {
		return ""
	}
	return implFile[start:end]
}
