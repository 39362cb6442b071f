// Package config loads replaycheck settings from YAML or CUE files.
//
// Files are layered over Default(): any field a file leaves out keeps its
// default value. Command-line flags are applied on top by the cli package.
//
// Example (YAML):
//
//	reference:
//	  path: build/output.json
//	  label: zig
//	candidate:
//	  path: aoc-mgz/output.txt
//	  label: python
//	compare:
//	  skip_fields: [timestamp, version]
//	  relative_tolerance: 1e-6
//	inspect:
//	  start: 0
//	  end: 100
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/replaycheck/internal/compare"
	"github.com/roach88/replaycheck/internal/inspect"
)

// ErrInvalid is returned when a configuration cannot be used.
var ErrInvalid = errors.New("invalid configuration")

// Default input locations and labels.
const (
	DefaultReferencePath  = "output.json"
	DefaultReferenceLabel = "zig"
	DefaultCandidatePath  = "aoc-mgz/output.txt"
	DefaultCandidateLabel = "python"
)

// Config is the complete replaycheck configuration.
type Config struct {
	Reference Input   `yaml:"reference" json:"reference"`
	Candidate Input   `yaml:"candidate" json:"candidate"`
	Compare   Compare `yaml:"compare" json:"compare"`
	Inspect   Inspect `yaml:"inspect" json:"inspect"`
}

// Input locates one document and names it in diagnostics.
type Input struct {
	Path  string `yaml:"path" json:"path"`
	Label string `yaml:"label" json:"label"`
}

// Compare holds comparator settings.
type Compare struct {
	Strict              bool     `yaml:"strict" json:"strict"`
	SkipFields          []string `yaml:"skip_fields" json:"skip_fields"`
	RelativeTolerance   float64  `yaml:"relative_tolerance" json:"relative_tolerance"`
	AbsoluteTolerance   float64  `yaml:"absolute_tolerance" json:"absolute_tolerance"`
	NumericCrossSubtype bool     `yaml:"numeric_cross_subtype" json:"numeric_cross_subtype"`
	NormalizeUnicode    bool     `yaml:"normalize_unicode" json:"normalize_unicode"`
	ContextArray        string   `yaml:"context_array" json:"context_array"`
	CollectAll          bool     `yaml:"collect_all" json:"collect_all"`
	MaxDivergences      int      `yaml:"max_divergences" json:"max_divergences"`
	DiffStrings         bool     `yaml:"diff_strings" json:"diff_strings"`
}

// Inspect holds inspector settings.
type Inspect struct {
	Side  string `yaml:"side" json:"side"`
	Start int    `yaml:"start" json:"start"`
	End   int    `yaml:"end" json:"end"`
	Type  string `yaml:"type" json:"type"`
	Array string `yaml:"array" json:"array"`
	Field string `yaml:"field" json:"field"`
	Both  bool   `yaml:"both" json:"both"`
}

// Default returns the built-in configuration: the fixed input paths and
// labels, the tolerant comparison policy, and the MOVE scan over [12, 30).
func Default() Config {
	policy := compare.DefaultPolicy()
	opts := inspect.DefaultOptions()
	return Config{
		Reference: Input{Path: DefaultReferencePath, Label: DefaultReferenceLabel},
		Candidate: Input{Path: DefaultCandidatePath, Label: DefaultCandidateLabel},
		Compare: Compare{
			SkipFields:          policy.SkipFields,
			RelativeTolerance:   policy.RelativeTolerance,
			AbsoluteTolerance:   policy.AbsoluteTolerance,
			NumericCrossSubtype: policy.NumericCrossSubtype,
			ContextArray:        policy.ContextArray,
		},
		Inspect: Inspect{
			Side:  string(opts.Side),
			Start: opts.Start,
			End:   opts.End,
			Type:  opts.Type,
			Array: opts.Array,
			Field: opts.Field,
		},
	}
}

// Load reads the configuration file at path over the defaults.
// Files ending in .cue are evaluated with CUE; anything else is YAML
// (which also accepts JSON).
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".cue") {
		data, err = exportCUE(data, path)
		if err != nil {
			return Config{}, err
		}
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML (or JSON) data over the defaults and validates it.
// Unknown fields are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// exportCUE evaluates a CUE file and exports the result as JSON.
func exportCUE(data []byte, filename string) ([]byte, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data)
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("%w: compile %s: %v", ErrInvalid, filename, err)
	}
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("%w: validate %s: %v", ErrInvalid, filename, err)
	}
	out, err := v.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("%w: export %s: %v", ErrInvalid, filename, err)
	}
	return out, nil
}

// Validate rejects configurations no command can run with.
func (c Config) Validate() error {
	if c.Reference.Label == "" || c.Candidate.Label == "" {
		return fmt.Errorf("%w: labels must not be empty", ErrInvalid)
	}
	if c.Compare.RelativeTolerance < 0 || c.Compare.AbsoluteTolerance < 0 {
		return fmt.Errorf("%w: tolerances must not be negative", ErrInvalid)
	}
	if c.Compare.MaxDivergences < 0 {
		return fmt.Errorf("%w: max_divergences must not be negative", ErrInvalid)
	}
	if c.Compare.MaxDivergences > 0 && !c.Compare.CollectAll {
		return fmt.Errorf("%w: max_divergences requires collect_all", ErrInvalid)
	}
	if err := c.Inspect.Options().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Policy converts the compare section to a comparison policy.
// Strict selects the exact policy and ignores SkipFields and both
// tolerances; see IgnoredByStrict.
func (c Compare) Policy() compare.Policy {
	var p compare.Policy
	if c.Strict {
		p = compare.StrictPolicy()
		p.ContextArray = c.ContextArray
	} else {
		p = compare.Policy{
			SkipFields:          c.SkipFields,
			RelativeTolerance:   c.RelativeTolerance,
			AbsoluteTolerance:   c.AbsoluteTolerance,
			NumericCrossSubtype: c.NumericCrossSubtype,
			ContextArray:        c.ContextArray,
		}
	}
	p.NormalizeUnicode = c.NormalizeUnicode
	if c.CollectAll {
		p.Mode = compare.CollectAll
		p.MaxDivergences = c.MaxDivergences
	}
	return p
}

// IgnoredByStrict lists the tolerant settings Strict overrides that differ
// from their defaults.
func (c Compare) IgnoredByStrict() []string {
	if !c.Strict {
		return nil
	}
	def := Default().Compare
	var ignored []string
	if !slices.Equal(c.SkipFields, def.SkipFields) {
		ignored = append(ignored, "skip_fields")
	}
	if c.RelativeTolerance != def.RelativeTolerance {
		ignored = append(ignored, "relative_tolerance")
	}
	if c.AbsoluteTolerance != def.AbsoluteTolerance {
		ignored = append(ignored, "absolute_tolerance")
	}
	return ignored
}

// Options converts the inspect section to scan options.
func (i Inspect) Options() inspect.Options {
	return inspect.Options{
		Side:  inspect.Side(i.Side),
		Start: i.Start,
		End:   i.End,
		Type:  i.Type,
		Array: i.Array,
		Field: i.Field,
		Both:  i.Both,
	}
}
