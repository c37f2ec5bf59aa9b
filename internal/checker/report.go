package checker

import (
	"slices"

	"github.com/fatih/color"
)

// Summarize tallies submissions with and without results, logs each, prints
// the final verdict line, and reports whether the submission passed. The
// verdict fails on any bad submission, system-description error, or
// measurement error; warnings alone never fail a run.
func (c *Checker) Summarize(res *WalkResult, systemErrs, measurementErrs []string) bool {
	withResults := 0
	resultNames := make([]string, 0, len(res.Results))
	for name := range res.Results {
		resultNames = append(resultNames, name)
	}
	slices.Sort(resultNames)
	for _, name := range resultNames {
		if v := res.Results[name]; v == NoResults {
			c.log.Error("NoResults", "submission", name)
		} else {
			c.log.Info("Results", "submission", name, "value", v)
			withResults++
		}
	}
	c.log.Info("result tally",
		"results", withResults,
		"no_results", len(res.Results)-withResults)

	if len(res.Bad) > 0 || len(systemErrs) > 0 || len(measurementErrs) > 0 {
		color.New(color.FgRed, color.Bold).Fprintln(color.Error, "SUMMARY: submission has errors")
		return false
	}
	color.New(color.FgGreen, color.Bold).Fprintln(color.Error, "SUMMARY: submission looks OK")
	return true
}
