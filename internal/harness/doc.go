// Package harness runs conformance scenarios against the tag value rules.
//
// # Scenario Format
//
// Scenarios are YAML files listing values that must be accepted and values
// that must be rejected:
//
//	name: tealium_values
//	description: "Values from the module data providers"
//	valid:
//	  - 0
//	  - "0"
//	  - "<tags_in_values>"
//	invalid:
//	  - null
//	  - ''
//	  - false
//
// Values keep their YAML types: 0 is an integer, "0" and '0' are strings,
// null is absent. Each value is classified with tag.IsValid and recorded in
// the result trace.
//
// # Golden Files
//
// AssertGolden compares the canonical JSON of a trace with
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
