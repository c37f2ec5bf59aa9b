package checker

import (
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/mlperf-tools/submission-checker/internal/fileset"
	"github.com/mlperf-tools/submission-checker/internal/submission"
)

// NoResults marks a submission whose performance runs yielded no usable
// headline value.
const NoResults = "NoResults"

// WalkResult is the outcome of the first validation pass over the tree.
type WalkResult struct {
	// Good lists submissions that passed every structural and content check.
	Good []submission.Path
	// Bad maps a submission key to the last failure recorded for it.
	Bad map[string]string
	// Results maps a submission key to its formatted headline value, or
	// NoResults.
	Results map[string]string
}

// CheckResultsDir walks division/submitter/results trees under the root and
// validates every submission it finds. Only an unreadable root is a hard
// error; everything below it degrades into Bad entries and log lines.
func (c *Checker) CheckResultsDir() (*WalkResult, error) {
	res := &WalkResult{
		Bad:     map[string]string{},
		Results: map[string]string{},
	}

	divisions, err := listDirs(c.opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to list submission root: %w", err)
	}
	for _, division := range divisions {
		if !slices.Contains(c.rules.ValidDivisions, division) {
			continue
		}
		submitters, err := listDirs(c.opts.Root, division)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", division, err)
		}
		for _, submitter := range submitters {
			if c.opts.Submitter != "" && submitter != c.opts.Submitter {
				continue
			}
			if !exists(c.opts.Root, division, submitter, "results") {
				c.log.Warn("no submission", "division", division, "submitter", submitter)
				continue
			}
			if err := c.walkSubmitter(division, submitter, res); err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}

func (c *Checker) walkSubmitter(division, submitter string, res *WalkResult) error {
	resultsPath := filepath.Join(c.opts.Root, division, submitter, "results")
	systems, err := listDirs(resultsPath)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", resultsPath, err)
	}
	for _, system := range systems {
		// A missing system description fails every model/scenario under the
		// system id.
		systemBad := !exists(c.opts.Root, division, submitter, "systems", system+".json")

		models, err := listDirs(resultsPath, system)
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", filepath.Join(resultsPath, system), err)
		}
		for _, model := range models {
			if division == "closed" && !slices.Contains(c.rules.ValidModels, model) {
				res.Bad[path.Join(system, model)] = fmt.Sprintf(
					"%s has an invalid model name %s", filepath.Join(resultsPath, system), model)
			}

			scenarios, err := listDirs(resultsPath, system, model)
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", filepath.Join(resultsPath, system, model), err)
			}
			for _, scenario := range scenarios {
				sub := submission.Path{
					Division:  division,
					Submitter: submitter,
					System:    system,
					Model:     model,
					Scenario:  scenario,
				}
				c.checkSubmission(sub, systemBad, res)
			}
		}
	}
	return nil
}

// checkSubmission runs the accuracy and performance checks for one
// division/submitter/system/model/scenario quintuple.
func (c *Checker) checkSubmission(sub submission.Path, systemBad bool, res *WalkResult) {
	name := sub.String()
	dir := filepath.Join(c.opts.Root, sub.ResultsDir())
	res.Results[name] = NoResults

	c.checkAccuracy(sub, name, dir, res)
	c.checkPerformanceRuns(sub, name, dir, res)

	if systemBad {
		res.Bad[name] = fmt.Sprintf("%s: no such system id %s", name, sub.System)
	} else if _, bad := res.Bad[name]; !bad {
		res.Good = append(res.Good, sub)
	}
}

func (c *Checker) checkAccuracy(sub submission.Path, name, dir string, res *WalkResult) {
	accPath := filepath.Join(dir, "accuracy")
	if !exists(accPath, "accuracy.txt") {
		c.log.Error("no accuracy.txt, generate it with the reference accuracy scripts", "dir", accPath)
		res.Bad[name] = fmt.Sprintf("%s has no accuracy.txt", accPath)
		return
	}
	files, err := listFiles(accPath)
	if err != nil {
		res.Bad[name] = fmt.Sprintf("%s unreadable: %v", accPath, err)
		return
	}
	if diff := fileset.Diff(files, c.rules.RequiredAccFiles, c.rules.OptionalFiles, c.opts.SymmetricDiff); len(diff) > 0 {
		res.Bad[name] = fmt.Sprintf("%s has file list mismatch (%v)", accPath, diff)
	}
	if !c.CheckAccuracyDir(sub.Model, accPath) {
		res.Bad[name] = fmt.Sprintf("%s has issues", accPath)
	}
}

func (c *Checker) checkPerformanceRuns(sub submission.Path, name, dir string, res *WalkResult) {
	for _, run := range c.runFolders(dir, sub.Scenario) {
		perfPath := filepath.Join(dir, "performance", run)
		if !exists(perfPath) {
			res.Bad[name] = fmt.Sprintf("%s missing", perfPath)
			continue
		}
		files, err := listFiles(perfPath)
		if err != nil {
			res.Bad[name] = fmt.Sprintf("%s unreadable: %v", perfPath, err)
			continue
		}
		if diff := fileset.Diff(files, c.rules.RequiredPerfFiles, c.rules.OptionalFiles, c.opts.SymmetricDiff); len(diff) > 0 {
			// Keep the mismatch as the reason instead of the secondary
			// failures validating a broken directory would produce.
			res.Bad[name] = fmt.Sprintf("%s has file list mismatch (%v)", perfPath, diff)
			continue
		}

		value, isValid, err := c.CheckPerformanceDir(sub.Model, perfPath)
		if err != nil {
			c.log.Warn("performance run not evaluable", "dir", perfPath, "err", err)
			isValid = false
			res.Results[name] = NoResults
		} else {
			// Only the last run's value is retained under the key.
			res.Results[name] = strconv.FormatFloat(value, 'f', -1, 64)
		}
		if !isValid {
			res.Bad[name] = fmt.Sprintf("%s has issues", perfPath)
		}
	}
}

// runFolders resolves the run-folder naming convention for a scenario, in
// priority order: run_1 style, then legacy run1 style, then a single unnamed
// folder. Server scenarios expect five runs, everything else one.
func (c *Checker) runFolders(dir, scenario string) []string {
	count := 1
	if scenario == "Server" {
		count = 5
	}

	perfDir := filepath.Join(dir, "performance")
	style := "run_%d"
	if !exists(perfDir, "run_1") {
		if exists(perfDir, "run1") {
			style = "run%d"
		} else {
			return []string{"."}
		}
	}

	runs := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		runs = append(runs, fmt.Sprintf(style, i))
	}
	return runs
}
