package harness

import (
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tealium/internal/tag"
	"github.com/roach88/tealium/internal/tagset"
)

// Harness executes scenarios.
type Harness struct {
	logger *slog.Logger
}

// New creates a Harness. A nil logger discards output.
func New(logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{logger: logger}
}

// Run executes a scenario with a silent harness.
func Run(scenario *Scenario) (*Result, error) {
	return New(nil).Run(scenario)
}

// Run classifies every scenario value and compares it with its list.
// Returns an error only when a value cannot be decoded.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	result := NewResult()

	if err := h.runList(scenario.Valid, ExpectValid, result); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}
	if err := h.runList(scenario.Invalid, ExpectInvalid, result); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	h.logger.Info("scenario complete",
		"scenario", scenario.Name,
		"cases", len(result.Trace),
		"pass", result.Pass,
	)
	return result, nil
}

func (h *Harness) runList(nodes []yaml.Node, expect string, result *Result) error {
	for i := range nodes {
		node := &nodes[i]
		v, err := tagset.NodeValue(node)
		if err != nil {
			return fmt.Errorf("%s[%d] (line %d): %w", expect, i, node.Line, err)
		}

		event := CaseEvent{
			Index:   i,
			Expect:  expect,
			Kind:    tag.Kind(v),
			Literal: literal(node),
			Got:     tag.IsValid(v),
		}
		result.Trace = append(result.Trace, event)

		h.logger.Debug("case classified",
			"expect", expect,
			"index", i,
			"kind", event.Kind,
			"got", event.Got,
		)

		if !event.Pass() {
			result.AddError(fmt.Sprintf("%s[%d] line %d: %s %q classified as %s",
				expect, i, node.Line, event.Kind, event.Literal, label(event.Got)))
		}
	}
	return nil
}

// literal returns the value as written. Composite nodes are re-encoded
// as YAML.
func literal(node *yaml.Node) string {
	if node.Kind == yaml.ScalarNode {
		return node.Value
	}
	out, err := yaml.Marshal(node)
	if err != nil {
		return node.Tag
	}
	return string(out)
}

func label(valid bool) string {
	if valid {
		return ExpectValid
	}
	return ExpectInvalid
}
