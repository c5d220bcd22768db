package harness

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunTealiumValues(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "tealium_values.yaml"))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	assert.Len(t, result.Trace, 13)
}

func TestRunOtherValues(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "other_values.yaml"))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	for _, e := range result.Trace {
		if e.Index > 0 && e.Expect == ExpectValid {
			assert.Equal(t, "other", e.Kind)
		}
	}
}

func TestRunReportsMismatch(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: wrong_expectations
valid:
  - false
invalid:
  - 0
`))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], `valid[0] line 4: bool "false" classified as invalid`)
	assert.Contains(t, result.Errors[1], `invalid[0] line 6: int "0" classified as valid`)
}

func TestRunLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	scenario, err := ParseScenario([]byte("name: logged\nvalid: [1]\n"))
	require.NoError(t, err)

	_, err = New(logger).Run(scenario)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "case classified")
	assert.Contains(t, buf.String(), "scenario complete")
}

func TestParseScenarioErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"missing name", "valid: [1]\n", "name is required"},
		{"no values", "name: empty\n", "at least one"},
		{"unknown field", "name: x\nvalids: [1]\n", "failed to parse YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join("testdata", "scenarios", "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestCaseEventPass(t *testing.T) {
	assert.True(t, CaseEvent{Expect: ExpectValid, Got: true}.Pass())
	assert.True(t, CaseEvent{Expect: ExpectInvalid, Got: false}.Pass())
	assert.False(t, CaseEvent{Expect: ExpectValid, Got: false}.Pass())
	assert.False(t, CaseEvent{Expect: ExpectInvalid, Got: true}.Pass())
}
