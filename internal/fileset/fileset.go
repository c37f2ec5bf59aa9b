// Package fileset diffs the files actually present in a submission directory
// against a required file set.
package fileset

import (
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// Diff compares an actual directory listing against a required file list,
// after removing the optional file names from the actual listing. An empty
// result means the sets match.
//
// The default mode reproduces the historical behavior: only the difference of
// the larger set minus the smaller is reported, so a rename can show up as
// one entry instead of two. Symmetric mode computes the full symmetric
// difference instead.
func Diff(actual, required, optional []string, symmetric bool) []string {
	if len(actual) == 0 || len(required) == 0 {
		return nil
	}

	// A zstd-compressed log satisfies the requirement for its plain name; the
	// scanners decompress transparently.
	a := mapset.NewThreadUnsafeSet[string]()
	for _, name := range actual {
		a.Add(strings.TrimSuffix(name, ".zst"))
	}
	for _, name := range optional {
		a.Remove(name)
	}
	r := mapset.NewThreadUnsafeSet(required...)

	var d mapset.Set[string]
	switch {
	case symmetric:
		d = a.SymmetricDifference(r)
	case a.Cardinality() > r.Cardinality():
		d = a.Difference(r)
	default:
		d = r.Difference(a)
	}

	diff := d.ToSlice()
	slices.Sort(diff)
	return diff
}
