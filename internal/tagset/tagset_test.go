package tagset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tealium/internal/tag"
)

func TestLoadYAMLFrontPage(t *testing.T) {
	ts, err := LoadYAML(filepath.Join("testdata", "front_page.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "front_page", ts.Name)
	require.Len(t, ts.Values, 11)

	want := []Entry{
		{Key: "page_type", Value: tag.String("front")},
		{Key: "page_index", Value: tag.Int(0)},
		{Key: "page_zero", Value: tag.String("0")},
		{Key: "page_zero_single", Value: tag.String("0")},
		{Key: "page_count", Value: tag.Int(99999999)},
		{Key: "page_title", Value: tag.String("TAG VALUE WITH SPACES")},
		{Key: "page_name", Value: tag.String("<tags_in_values>")},
		{Key: "page_section", Value: tag.Absent{}},
		{Key: "page_search", Value: tag.String("")},
		{Key: "logged_in", Value: tag.Bool(true)},
		{Key: "is_admin", Value: tag.Bool(false)},
	}
	for i, w := range want {
		assert.Equal(t, w.Key, ts.Values[i].Key)
		assert.Equal(t, w.Value, ts.Values[i].Value, "key %s", w.Key)
	}
	assert.Equal(t, 3, ts.Values[0].Line)
}

func TestParseYAMLNameDefaultsToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "checkout.yml")
	require.NoError(t, os.WriteFile(path, []byte("values:\n  step: 2\n"), 0o644))

	ts, err := LoadYAML(path)
	require.NoError(t, err)
	assert.Equal(t, "checkout", ts.Name)
	assert.Equal(t, []Entry{{Key: "step", Value: tag.Int(2), Line: 2}}, ts.Values)
}

func TestParseYAMLOtherValues(t *testing.T) {
	ts, err := ParseYAML([]byte(`
values:
  ratio: 0.5
  tags: [a, b]
  empty_list: []
  huge: 99999999999999999999999
`), "inline")
	require.NoError(t, err)
	require.Len(t, ts.Values, 4)

	assert.Equal(t, tag.Other{V: 0.5}, ts.Values[0].Value)
	assert.Equal(t, tag.Other{V: []any{"a", "b"}}, ts.Values[1].Value)
	assert.False(t, tag.IsValid(ts.Values[2].Value))
	assert.True(t, tag.IsValid(ts.Values[3].Value))
}

func TestParseYAMLAlias(t *testing.T) {
	ts, err := ParseYAML([]byte(`
values:
  first: &shared front
  second: *shared
`), "inline")
	require.NoError(t, err)
	assert.Equal(t, tag.String("front"), ts.Values[1].Value)
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		code    string
		message string
	}{
		{"empty document", "", ErrCodeInvalid, "empty tag set document"},
		{"not a mapping", "- a\n- b\n", ErrCodeInvalid, "must be a mapping"},
		{"missing values", "name: x\n", ErrCodeInvalid, "values is required"},
		{"values not mapping", "values: [1]\n", ErrCodeInvalid, "values must be a mapping"},
		{"unknown field", "valuez: {}\n", ErrCodeInvalid, "unknown field"},
		{"duplicate key", "values:\n  a: 1\n  a: 2\n", ErrCodeInvalid, "duplicate key"},
		{"syntax error", "values: [\n", ErrCodeParseFailed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.input), "inline.yaml")
			require.Error(t, err)

			var le *LoadError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, tt.code, le.Code)
			assert.Contains(t, le.Message, tt.message)
		})
	}
}

func TestCompileCUE(t *testing.T) {
	v := cuecontext.New().CompileString(`
		tagset: front: values: {
			page_type:  "front"
			page_index: 0
			page_zero:  "0"
			ratio:      0.25
			author:     null
			logged_in:  true
			empty:      ""
		}
	`)
	require.NoError(t, v.Err())

	sets, err := CompileCUE(v)
	require.NoError(t, err)
	require.Len(t, sets, 1)

	ts := sets[0]
	assert.Equal(t, "front", ts.Name)

	got := make(map[string]tag.Value, len(ts.Values))
	for _, e := range ts.Values {
		got[e.Key] = e.Value
	}
	assert.Equal(t, map[string]tag.Value{
		"page_type":  tag.String("front"),
		"page_index": tag.Int(0),
		"page_zero":  tag.String("0"),
		"ratio":      tag.Other{V: 0.25},
		"author":     tag.Absent{},
		"logged_in":  tag.Bool(true),
		"empty":      tag.String(""),
	}, got)
}

func TestCompileCUEErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		message string
	}{
		{"no tagset field", `other: 1`, "no tagset field"},
		{"no tag sets", `tagset: {}`, "declares no tag sets"},
		{"missing values", `tagset: a: {}`, "values is required"},
		{"incomplete value", `tagset: a: values: { page_type: string }`, "must be concrete"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := cuecontext.New().CompileString(tt.src)
			require.NoError(t, v.Err())

			_, err := CompileCUE(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestCUEValueKinds(t *testing.T) {
	ctx := cuecontext.New()
	tests := []struct {
		src  string
		want tag.Value
	}{
		{`null`, tag.Absent{}},
		{`false`, tag.Bool(false)},
		{`99999999`, tag.Int(99999999)},
		{`"<tags_in_values>"`, tag.String("<tags_in_values>")},
	}

	for _, tt := range tests {
		got, err := CUEValue(ctx.CompileString(tt.src))
		require.NoError(t, err, tt.src)
		assert.Equal(t, tt.want, got, tt.src)
	}
}

func TestCUEValueList(t *testing.T) {
	v := cuecontext.New().CompileString(`x: []`).LookupPath(cue.ParsePath("x"))

	got, err := CUEValue(v)
	require.NoError(t, err)
	assert.False(t, tag.IsValid(got))
}

func TestLoadCUEDirectory(t *testing.T) {
	sets, err := Load(filepath.Join("testdata", "cue"))
	require.NoError(t, err)
	require.Len(t, sets, 2)

	assert.Equal(t, "article", sets[0].Name)
	assert.Equal(t, "search", sets[1].Name)
	assert.Equal(t, "page_type", sets[0].Values[0].Key)
	assert.Equal(t, tag.Int(3), sets[0].Values[1].Value)
	assert.Equal(t, tag.Absent{}, sets[0].Values[3].Value)
}

func TestLoadDispatch(t *testing.T) {
	sets, err := Load(filepath.Join("testdata", "front_page.yaml"))
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, "front_page", sets[0].Name)

	_, err = Load(filepath.Join("testdata", "missing.yaml"))
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, ErrCodeNotFound, le.Code)

	dir := t.TempDir()
	txt := filepath.Join(dir, "values.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o644))
	_, err = Load(txt)
	require.True(t, errors.As(err, &le))
	assert.Equal(t, ErrCodeLoadFailed, le.Code)

	_, err = Load(dir)
	require.True(t, errors.As(err, &le))
	assert.Equal(t, ErrCodeNoFiles, le.Code)
}

func TestTagSetMap(t *testing.T) {
	ts := &TagSet{Values: []Entry{
		{Key: "a", Value: tag.Int(0)},
		{Key: "b", Value: tag.Bool(true)},
	}}

	assert.Equal(t, map[string]any{"a": tag.Int(0), "b": tag.Bool(true)}, ts.Map())
}
