package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Valid lists values that must be accepted.
	Valid []yaml.Node `yaml:"valid"`

	// Invalid lists values that must be rejected.
	Invalid []yaml.Node `yaml:"invalid"`
}

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos such as "invalids:" are caught.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scenario, nil
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := scenario.validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return errors.New("scenario name is required")
	}
	if len(s.Valid) == 0 && len(s.Invalid) == 0 {
		return fmt.Errorf("scenario %q: at least one valid or invalid value is required", s.Name)
	}
	return nil
}
