package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tealium/internal/tag"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Strict bool // exit non-zero when any value is invalid
	JSON   bool // parse arguments as JSON documents
}

// CheckItem is the classification of one argument.
type CheckItem struct {
	Input  string `json:"input"`
	Kind   string `json:"kind"`
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// CheckResult holds the classification of every argument.
type CheckResult struct {
	Items   []CheckItem `json:"items"`
	Valid   int         `json:"valid"`
	Invalid int         `json:"invalid"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <value>...",
		Short: "Classify tag values",
		Long: `Classify each argument as a valid or invalid tag value.

Arguments are literals: null, true and false are the null and boolean
values, decimal integers are integers, and anything else is a string.
Quote a value ('0' or "0") to force a string. With --json each argument
is parsed as a JSON document instead.

Exit codes:
  0 - All values valid, or --strict not set
  1 - At least one value invalid (with --strict)
  2 - Command error (malformed JSON)

Examples:
  tealium check 0 "'0'" front null
  tealium check --strict --json '""' '99999999'`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "exit 1 if any value is invalid")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "parse arguments as JSON")

	return cmd
}

func runCheck(opts *CheckOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	result := CheckResult{Items: make([]CheckItem, 0, len(args))}
	for _, arg := range args {
		v, err := parseArg(arg, opts.JSON)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeInvalidArgs, fmt.Sprintf("argument %q: %v", arg, err), err)
		}

		item := CheckItem{
			Input:  arg,
			Kind:   tag.Kind(v),
			Valid:  tag.IsValid(v),
			Reason: tag.Reason(v),
		}
		formatter.VerboseLog("%s -> %s valid=%t", arg, item.Kind, item.Valid)

		if item.Valid {
			result.Valid++
		} else {
			result.Invalid++
		}
		result.Items = append(result.Items, item)
	}

	if err := formatter.Success(result, formatCheckText(result)); err != nil {
		return err
	}

	if opts.Strict && result.Invalid > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d values invalid", result.Invalid, len(result.Items)))
	}
	return nil
}

func parseArg(arg string, asJSON bool) (tag.Value, error) {
	if asJSON {
		return tag.UnmarshalValue([]byte(arg))
	}
	return tag.ParseLiteral(arg), nil
}

func formatCheckText(result CheckResult) string {
	var b strings.Builder
	for _, item := range result.Items {
		if item.Valid {
			fmt.Fprintf(&b, "✓ %q (%s)\n", item.Input, item.Kind)
		} else {
			fmt.Fprintf(&b, "✗ %q (%s): %s\n", item.Input, item.Kind, item.Reason)
		}
	}
	fmt.Fprintf(&b, "%d valid, %d invalid\n", result.Valid, result.Invalid)
	return b.String()
}
