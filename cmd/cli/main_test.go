package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const fixture = "x,y,label\n1,2,a\n2,4,b\n3,6,a\n4,8,b\nNA,1,a\n"

func TestColumnsCommand(t *testing.T) {
	path := writeFixture(t, "data.csv", fixture)

	out, err := execute(t, "columns", path)
	require.NoError(t, err)
	assert.Contains(t, out, "COLUMN")
	assert.Regexp(t, `x\s+numeric\s+1`, out)
	assert.Regexp(t, `label\s+categorical\s+0`, out)
	assert.Contains(t, out, "5 rows")
}

func TestFitCommandText(t *testing.T) {
	path := writeFixture(t, "data.csv", fixture)

	out, err := execute(t, "fit", path, "--x", "x", "--y", "y")
	require.NoError(t, err)
	assert.Contains(t, out, "regression equation: y = 2.00x + 0.00\n")
	assert.Contains(t, out, "correlation (R): 1.00\n")
	assert.Contains(t, out, "significance: significant (p < 0.05)\n")
	assert.Contains(t, out, "(1 rows with missing values skipped)")
}

func TestFitCommandFormats(t *testing.T) {
	path := writeFixture(t, "data.csv", fixture)

	out, err := execute(t, "fit", path, "--x", "x", "--y", "y", "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "**regression equation:** y = 2.00x + 0.00")

	out, err = execute(t, "fit", path, "--x", "x", "--y", "y", "--format", "json")
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.InDelta(t, 2.0, decoded["result"].(map[string]any)["slope"], 1e-9)
	assert.Equal(t, float64(1), decoded["dropped"])

	out, err = execute(t, "fit", path, "--x", "x", "--y", "y", "--format", "yaml")
	require.NoError(t, err)
	var doc struct {
		Selection struct {
			X string `yaml:"x"`
			Y string `yaml:"y"`
		} `yaml:"selection"`
		Result struct {
			SampleSize int `yaml:"sample_size"`
		} `yaml:"result"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "x", doc.Selection.X)
	assert.Equal(t, "y", doc.Selection.Y)
	assert.Equal(t, 4, doc.Result.SampleSize)
}

func TestFitCommandWritesChart(t *testing.T) {
	path := writeFixture(t, "data.csv", fixture)
	dir := t.TempDir()

	for _, name := range []string{"out.svg", "out.png"} {
		chartPath := filepath.Join(dir, name)
		_, err := execute(t, "fit", path, "--x", "x", "--y", "y", "--group", "label", "--chart", chartPath)
		require.NoError(t, err)

		info, err := os.Stat(chartPath)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestFitCommandErrors(t *testing.T) {
	path := writeFixture(t, "data.csv", fixture)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing y flag", []string{"fit", path, "--x", "x"}, `required flag(s) "y" not set`},
		{"unknown column", []string{"fit", path, "--x", "x", "--y", "nope"}, "nope"},
		{"categorical column", []string{"fit", path, "--x", "label", "--y", "y"}, "label"},
		{"bad format", []string{"fit", path, "--x", "x", "--y", "y", "--format", "xml"}, "unknown format"},
		{"bad chart extension", []string{"fit", path, "--x", "x", "--y", "y", "--chart", "out.gif"}, "unsupported chart format"},
		{"unsupported file", []string{"columns", "data.json"}, "unsupported file"},
		{"missing file", []string{"columns", filepath.Join(t.TempDir(), "none.csv")}, "none.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
