package tagset

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/tealium/internal/tag"
)

// LoadCUE loads tag sets from a .cue file or a directory of CUE files.
// Tag sets are declared under the top-level "tagset" field:
//
//	tagset: front_page: values: {
//		page_type:  "front"
//		page_index: 0
//		logged_in:  false
//	}
func LoadCUE(path string) ([]*TagSet, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("path not found: %s", path)}
	}

	cfg := &load.Config{Dir: path}
	args := []string{"."}
	if !info.IsDir() {
		cfg.Dir = filepath.Dir(path)
		args = []string{filepath.Base(path)}
	} else {
		files, err := FindCUEFiles(path)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
		}
		if len(files) == 0 {
			return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", path)}
		}
	}

	instances := load.Instances(args, cfg)
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := cuecontext.New().BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, positioned(ErrCodeBuildFailed, err)
	}

	sets, err := CompileCUE(value)
	if err != nil {
		return nil, err
	}
	for _, ts := range sets {
		ts.Source = path
	}
	return sets, nil
}

// FindCUEFiles returns the .cue files directly inside dir.
// CUE packages do not span subdirectories, so the walk is not recursive.
func FindCUEFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".cue" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// CompileCUE extracts every tag set under the "tagset" field of v.
func CompileCUE(v cue.Value) ([]*TagSet, error) {
	root := v.LookupPath(cue.ParsePath("tagset"))
	if !root.Exists() {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: "no tagset field found"}
	}

	iter, err := root.Fields()
	if err != nil {
		return nil, positioned(ErrCodeInvalid, err)
	}

	var sets []*TagSet
	for iter.Next() {
		ts, err := compileTagSet(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		sets = append(sets, ts)
	}
	if len(sets) == 0 {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: "tagset field declares no tag sets"}
	}
	return sets, nil
}

func compileTagSet(name string, v cue.Value) (*TagSet, error) {
	valuesVal := v.LookupPath(cue.ParsePath("values"))
	if !valuesVal.Exists() {
		return nil, atPos(ErrCodeInvalid, fmt.Sprintf("tagset %q: values is required", name), v.Pos())
	}

	iter, err := valuesVal.Fields()
	if err != nil {
		return nil, atPos(ErrCodeInvalid, fmt.Sprintf("tagset %q: values must be a struct", name), valuesVal.Pos())
	}

	ts := &TagSet{Name: name}
	for iter.Next() {
		key := iter.Label()
		val, err := CUEValue(iter.Value())
		if err != nil {
			return nil, atPos(ErrCodeInvalid, fmt.Sprintf("tagset %q key %q: %v", name, key, err), iter.Value().Pos())
		}
		line := 0
		if pos := iter.Value().Pos(); pos.IsValid() {
			line = pos.Line()
		}
		ts.Values = append(ts.Values, Entry{Key: key, Value: val, Line: line})
	}
	return ts, nil
}

// CUEValue converts a concrete CUE value to a tag.Value.
func CUEValue(v cue.Value) (tag.Value, error) {
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("value must be concrete: %w", err)
	}

	switch v.Kind() {
	case cue.NullKind:
		return tag.Absent{}, nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, err
		}
		return tag.Bool(b), nil
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			// Out of int64 range; keep the literal.
			return tag.Other{V: fmt.Sprint(v)}, nil
		}
		return tag.Int(n), nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		return tag.String(s), nil
	case cue.FloatKind:
		f, err := v.Float64()
		if err != nil {
			return nil, err
		}
		return tag.Other{V: f}, nil
	case cue.BytesKind:
		b, err := v.Bytes()
		if err != nil {
			return nil, err
		}
		return tag.Other{V: b}, nil
	default:
		var composite any
		if err := v.Decode(&composite); err != nil {
			return nil, err
		}
		return tag.Other{V: composite}, nil
	}
}

// positioned converts a CUE error to a LoadError, keeping the first position.
func positioned(code string, err error) *LoadError {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}
	first := errs[0]
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		return atPos(code, first.Error(), positions[0])
	}
	return &LoadError{Code: code, Message: first.Error()}
}

func atPos(code, msg string, pos token.Pos) *LoadError {
	le := &LoadError{Code: code, Message: msg}
	if pos.IsValid() {
		le.File = pos.Filename()
		le.Line = pos.Line()
	}
	return le
}
