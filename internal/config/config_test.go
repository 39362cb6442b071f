package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/replaycheck/internal/compare"
	"github.com/roach88/replaycheck/internal/inspect"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "output.json", cfg.Reference.Path)
	assert.Equal(t, "zig", cfg.Reference.Label)
	assert.Equal(t, "aoc-mgz/output.txt", cfg.Candidate.Path)
	assert.Equal(t, "python", cfg.Candidate.Label)
	assert.Equal(t, compare.DefaultPolicy(), cfg.Compare.Policy())
	assert.Equal(t, inspect.DefaultOptions(), cfg.Inspect.Options())
	require.NoError(t, cfg.Validate())
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "replaycheck.yaml", `
reference:
  path: build/out.json
compare:
  skip_fields: [timestamp, build_id]
  relative_tolerance: 1e-3
  collect_all: true
  max_divergences: 5
inspect:
  start: 0
  end: 50
  both: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "build/out.json", cfg.Reference.Path)
	assert.Equal(t, "zig", cfg.Reference.Label, "unset fields keep defaults")
	assert.Equal(t, []string{"timestamp", "build_id"}, cfg.Compare.SkipFields)
	assert.Equal(t, 1e-3, cfg.Compare.RelativeTolerance)
	assert.Equal(t, compare.DefaultAbsoluteTolerance, cfg.Compare.AbsoluteTolerance)

	p := cfg.Compare.Policy()
	assert.Equal(t, compare.CollectAll, p.Mode)
	assert.Equal(t, 5, p.MaxDivergences)

	opts := cfg.Inspect.Options()
	assert.Equal(t, 0, opts.Start)
	assert.Equal(t, 50, opts.End)
	assert.True(t, opts.Both)
	assert.Equal(t, "MOVE", opts.Type)
}

func TestLoad_JSONThroughYAML(t *testing.T) {
	path := writeFile(t, "replaycheck.json", `{"candidate": {"label": "py"}, "compare": {"skip_fields": []}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "py", cfg.Candidate.Label)
	assert.Empty(t, cfg.Compare.SkipFields)
}

func TestLoad_CUE(t *testing.T) {
	path := writeFile(t, "replaycheck.cue", `
reference: label: "ref"
compare: {
	strict: true
	context_array: "events"
}
inspect: {
	type: "ATTACK"
	end:  12 + 8
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ref", cfg.Reference.Label)
	assert.Equal(t, "output.json", cfg.Reference.Path)
	assert.Equal(t, "ATTACK", cfg.Inspect.Type)
	assert.Equal(t, 20, cfg.Inspect.End)

	p := cfg.Compare.Policy()
	assert.Empty(t, p.SkipFields, "strict ignores skip fields")
	assert.False(t, p.NumericCrossSubtype)
	assert.Zero(t, p.RelativeTolerance)
	assert.Equal(t, "events", p.ContextArray)
}

func TestLoad_CUEConflict(t *testing.T) {
	path := writeFile(t, "bad.cue", `
inspect: start: 1
inspect: start: 2
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestLoad_UnknownField(t *testing.T) {
	path := writeFile(t, "bad.yaml", "compare:\n  tolerance: 0.1\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "tolerance")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"empty label", func(c *Config) { c.Candidate.Label = "" }, "labels"},
		{"negative tolerance", func(c *Config) { c.Compare.AbsoluteTolerance = -1 }, "tolerances"},
		{"negative max", func(c *Config) { c.Compare.MaxDivergences = -2 }, "max_divergences"},
		{"max without collect_all", func(c *Config) { c.Compare.MaxDivergences = 3 }, "requires collect_all"},
		{"bad side", func(c *Config) { c.Inspect.Side = "middle" }, "unknown side"},
		{"bad range", func(c *Config) { c.Inspect.Start, c.Inspect.End = 5, 1 }, "before start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestComparePolicy_StrictKeepsUnicodeAndMode(t *testing.T) {
	c := Default().Compare
	c.Strict = true
	c.NormalizeUnicode = true
	c.CollectAll = true

	p := c.Policy()
	assert.True(t, p.NormalizeUnicode)
	assert.Equal(t, compare.CollectAll, p.Mode)
	assert.Equal(t, compare.DefaultContextArray, p.ContextArray)
}

func TestCompare_IgnoredByStrict(t *testing.T) {
	c := Default().Compare
	assert.Empty(t, c.IgnoredByStrict(), "not strict")

	c.Strict = true
	assert.Empty(t, c.IgnoredByStrict(), "defaults are not reported")

	c.SkipFields = []string{"version"}
	c.AbsoluteTolerance = 1e-3
	assert.Equal(t, []string{"skip_fields", "absolute_tolerance"}, c.IgnoredByStrict())
}
