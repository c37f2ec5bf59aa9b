// Package schema compares metadata JSON documents against a field template.
// A template maps field names to a requirement tag; "required" fields must be
// present, anything else is optional, and fields outside the template are
// flagged as unknown.
package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/tidwall/gjson"
)

// Template maps a field name to its requirement tag.
type Template map[string]string

const required = "required"

// LoadTemplate reads a template from a JSON file of the form
// {"field": "required", "other_field": ""}.
func LoadTemplate(path string) (Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema template: %w", err)
	}
	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse schema template %s: %w", path, err)
	}
	return t, nil
}

// Compare validates the JSON document at fname against the template,
// appending one error per missing required field and one per field the
// template does not know. Read or parse failures append a single error entry;
// Compare never fails hard. The return value is true when no new error was
// added, letting callers short-circuit follow-up checks.
func Compare(fname string, tmpl Template, errs *[]string) bool {
	before := len(*errs)

	data, err := os.ReadFile(fname)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s unexpected error %v", fname, err))
		return false
	}
	if !gjson.ValidBytes(data) {
		*errs = append(*errs, fmt.Sprintf("%s unexpected error: invalid JSON", fname))
		return false
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		*errs = append(*errs, fmt.Sprintf("%s unexpected error: not a JSON object", fname))
		return false
	}
	fields := doc.Map()

	tmplNames := make([]string, 0, len(tmpl))
	for name := range tmpl {
		tmplNames = append(tmplNames, name)
	}
	slices.Sort(tmplNames)
	for _, name := range tmplNames {
		if _, ok := fields[name]; !ok && tmpl[name] == required {
			*errs = append(*errs, fmt.Sprintf("%s field %s missing", fname, name))
		}
	}
	fieldNames := make([]string, 0, len(fields))
	for name := range fields {
		fieldNames = append(fieldNames, name)
	}
	slices.Sort(fieldNames)
	for _, name := range fieldNames {
		if _, ok := tmpl[name]; !ok {
			*errs = append(*errs, fmt.Sprintf("%s has unknown field %s", fname, name))
		}
	}

	return len(*errs) == before
}
