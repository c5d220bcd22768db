package harness

// Expectation labels used in the trace.
const (
	ExpectValid   = "valid"
	ExpectInvalid = "invalid"
)

// CaseEvent records the classification of one scenario value.
type CaseEvent struct {
	Index   int    `json:"index"`   // position within its list
	Expect  string `json:"expect"`  // "valid" or "invalid"
	Kind    string `json:"kind"`    // tag.Kind of the decoded value
	Literal string `json:"literal"` // value as written in the scenario
	Got     bool   `json:"got"`     // tag.IsValid result
}

// Pass reports whether the event matched its expectation.
func (e CaseEvent) Pass() bool {
	return e.Got == (e.Expect == ExpectValid)
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every value matched its expectation.
	Pass bool `json:"pass"`

	// Trace holds one event per value, valid list first.
	Trace []CaseEvent `json:"trace"`

	// Errors holds one message per mismatch.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []CaseEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
