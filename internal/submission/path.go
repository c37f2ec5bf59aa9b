// Package submission defines the identity of a single submission and the
// layout of the directory tree it lives in.
package submission

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Path identifies one submission: a division/submitter/system/model/scenario
// combination. Values are directory names, never mutated after construction.
type Path struct {
	Division  string
	Submitter string
	System    string
	Model     string
	Scenario  string
}

// String renders the results-relative path used as the submission's map key,
// e.g. "closed/acme/results/rig1/resnet/Offline".
func (p Path) String() string {
	return strings.Join([]string{p.Division, p.Submitter, "results", p.System, p.Model, p.Scenario}, "/")
}

// ResultsDir is the submission's results directory relative to the tree root.
func (p Path) ResultsDir() string {
	return filepath.Join(p.Division, p.Submitter, "results", p.System, p.Model, p.Scenario)
}

// SystemDescFile is the system-description JSON for the submission's system
// id, relative to the tree root.
func (p Path) SystemDescFile() string {
	return filepath.Join(p.Division, p.Submitter, "systems", p.System+".json")
}

// MeasurementRoot is the per-system measurement directory, relative to the
// tree root.
func (p Path) MeasurementRoot() string {
	return filepath.Join(p.Division, p.Submitter, "measurements", p.System)
}

// MeasurementDir is the per-model, per-scenario measurement directory.
func (p Path) MeasurementDir() string {
	return filepath.Join(p.MeasurementRoot(), p.Model, p.Scenario)
}

// CodeDir is the code directory for the given implementation token.
func (p Path) CodeDir(implementation string) string {
	return filepath.Join(p.Division, p.Submitter, "code", p.Model, implementation)
}

// Parse rebuilds a Path from its String form. Backslashes are tolerated so
// keys recorded on Windows round-trip.
func Parse(s string) (Path, error) {
	parts := strings.Split(strings.ReplaceAll(s, "\\", "/"), "/")
	if len(parts) != 6 || parts[2] != "results" {
		return Path{}, fmt.Errorf("malformed submission path %q", s)
	}
	return Path{
		Division:  parts[0],
		Submitter: parts[1],
		System:    parts[3],
		Model:     parts[4],
		Scenario:  parts[5],
	}, nil
}
