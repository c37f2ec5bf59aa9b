// Package rules holds the fixed submission contract: which models are
// allowed, what accuracy they must reach, how many performance samples a run
// must load, and which loadgen seeds a run must reproduce. The tables are
// built once at startup and never mutated afterwards.
package rules

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Rules is the complete rule set for one checker run.
type Rules struct {
	ValidModels    []string
	ValidDivisions []string

	RequiredPerfFiles    []string
	RequiredAccFiles     []string
	RequiredMeasureFiles []string

	// OptionalFiles are stripped from a directory listing before the listing
	// is diffed against a required file set.
	OptionalFiles []string

	PerformanceSampleCount map[string]int64
	AccuracyTarget         map[string]float64
	Seeds                  map[string]int64

	// ResultField maps the first word of a summary Scenario value to the
	// summary field holding that scenario's headline metric.
	ResultField map[string]string

	// LegacyCASQuirk restores the historical ignore-predicate behavior where
	// the "CAS failed" branch matched every line. Off by default.
	LegacyCASQuirk bool
}

// SeedNames lists the seeds a performance run must reproduce, in report order.
var SeedNames = []string{"qsl_rng_seed", "sample_index_rng_seed", "schedule_rng_seed"}

// Default returns the v0.5 inference rule set.
func Default() *Rules {
	requiredPerf := []string{
		"mlperf_log_accuracy.json",
		"mlperf_log_summary.txt",
		"mlperf_log_detail.txt",
	}
	return &Rules{
		ValidModels:    []string{"ssd-small", "ssd-large", "mobilenet", "resnet", "gnmt"},
		ValidDivisions: []string{"open", "closed"},

		RequiredPerfFiles:    requiredPerf,
		RequiredAccFiles:     append(append([]string{}, requiredPerf...), "accuracy.txt"),
		RequiredMeasureFiles: []string{"mlperf.conf", "user.conf", "README.md"},
		OptionalFiles:        []string{"mlperf_log_trace.json", "results.json"},

		PerformanceSampleCount: map[string]int64{
			"mobilenet":     1024,
			"resnet50":      1024,
			"resnet":        1024,
			"ssd-mobilenet": 256,
			"ssd-small":     256,
			"ssd-resnet34":  64,
			"ssd-large":     64,
			"gnmt":          3903900,
		},

		// Targets are pre-scaled by the allowed tolerance.
		AccuracyTarget: map[string]float64{
			"mobilenet":     71.68 * 0.98,
			"resnet50":      76.46 * 0.99,
			"resnet":        76.46 * 0.99,
			"ssd-mobilenet": 22 * 0.99,
			"ssd-small":     22 * 0.99,
			"ssd-resnet34":  20 * 0.99,
			"ssd-large":     20 * 0.99,
			"gnmt":          23.9 * 0.99,
		},

		Seeds: map[string]int64{
			"qsl_rng_seed":          3133965575612453542,
			"sample_index_rng_seed": 665484352860916858,
			"schedule_rng_seed":     3622009729038561421,
		},

		ResultField: map[string]string{
			"Offline": "Samples per second",
			"Single":  "90th percentile latency (ns)",
			"Multi":   "Samples per query",
			"Server":  "Scheduled samples per second",
		},
	}
}

// NormalizeModel maps a raw model directory name to the canonical identifier
// used to key the sample-count and accuracy tables. The second return value
// is false when the name does not resolve to a known model. Canonical names
// pass through unchanged, so the mapping is idempotent.
func (r *Rules) NormalizeModel(model string) (string, bool) {
	switch {
	case strings.HasPrefix(model, "mobilenet"):
		model = "mobilenet"
	case strings.HasPrefix(model, "rcnn"):
		model = "ssd-small"
	case strings.HasPrefix(model, "ssdlite"),
		strings.HasPrefix(model, "ssd-inception"),
		strings.HasPrefix(model, "yolo"),
		strings.HasPrefix(model, "ssd-mobilenet"),
		strings.HasPrefix(model, "ssd-resnet50"):
		model = "ssd-small"
	}
	if _, ok := r.PerformanceSampleCount[model]; !ok {
		return "", false
	}
	return model, true
}

// overrideFile is the shape of the optional TOML rules file. Present tables
// replace the built-in ones wholesale.
type overrideFile struct {
	ValidModels            []string           `toml:"valid_models"`
	PerformanceSampleCount map[string]int64   `toml:"performance_sample_count"`
	AccuracyTarget         map[string]float64 `toml:"accuracy_target"`
	Seeds                  map[string]int64   `toml:"seeds"`
	LegacyCASQuirk         *bool              `toml:"legacy_cas_quirk"`
}

// Load returns the default rules with overrides from a TOML file applied.
func Load(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	var over overrideFile
	if err := toml.Unmarshal(data, &over); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	r := Default()
	if len(over.ValidModels) > 0 {
		r.ValidModels = over.ValidModels
	}
	if len(over.PerformanceSampleCount) > 0 {
		r.PerformanceSampleCount = over.PerformanceSampleCount
	}
	if len(over.AccuracyTarget) > 0 {
		r.AccuracyTarget = over.AccuracyTarget
	}
	if len(over.Seeds) > 0 {
		r.Seeds = over.Seeds
	}
	if over.LegacyCASQuirk != nil {
		r.LegacyCASQuirk = *over.LegacyCASQuirk
	}
	return r, nil
}
