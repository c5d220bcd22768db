// Package tagset reads named sets of tag values from YAML or CUE files.
//
// Both formats keep declaration order and map their native scalar types
// onto tag.Value: null is Absent, booleans are Bool, integers are Int and
// strings are String. Floats and composite values become Other.
package tagset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/tealium/internal/tag"
)

// TagSet is a named, ordered list of tag entries.
type TagSet struct {
	Name   string
	Source string // file or directory it was loaded from
	Values []Entry
}

// Entry is one key/value pair of a TagSet.
type Entry struct {
	Key   string
	Value tag.Value
	Line  int // source line, 0 when unknown
}

// Map returns the entries as a map suitable for datalayer.Builder.SetAll.
// Loaders reject duplicate keys, so no entry is dropped.
func (ts *TagSet) Map() map[string]any {
	m := make(map[string]any, len(ts.Values))
	for _, e := range ts.Values {
		m[e.Key] = e.Value
	}
	return m
}

// Error codes shared by loaders and the CLI.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No tag set files found
	ErrCodeLoadFailed  = "E004" // File could not be read or CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeParseFailed = "E008" // YAML parse error
	ErrCodeInvalid     = "E009" // Structurally invalid tag set
)

// LoadError is a loader failure with an error code and optional position.
type LoadError struct {
	Code    string
	Message string
	File    string
	Line    int
}

func (e *LoadError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %s", e.File, e.Line, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load reads tag sets from path.
//
// A .yaml or .yml file yields one tag set. A .cue file or a directory of CUE
// files yields every tag set declared under the top-level "tagset" field.
func Load(path string) ([]*TagSet, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("path not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing path: %v", err)}
	}

	if info.IsDir() {
		return LoadCUE(path)
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		ts, err := LoadYAML(path)
		if err != nil {
			return nil, err
		}
		return []*TagSet{ts}, nil
	case ".cue":
		return LoadCUE(path)
	default:
		return nil, &LoadError{
			Code:    ErrCodeLoadFailed,
			Message: fmt.Sprintf("unsupported file type %q: want .yaml, .yml or .cue", filepath.Ext(path)),
		}
	}
}
