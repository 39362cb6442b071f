package compare

// Mode controls how many divergences a comparison collects.
type Mode int

const (
	// FailFast stops at the first divergence found.
	FailFast Mode = iota
	// CollectAll keeps walking after a divergence, up to MaxDivergences.
	CollectAll
)

func (m Mode) String() string {
	if m == CollectAll {
		return "collect_all"
	}
	return "fail_fast"
}

// Default tolerances for numeric comparison.
const (
	DefaultRelativeTolerance = 1e-6
	DefaultAbsoluteTolerance = 1e-9
)

// DefaultContextArray is the root array consulted for debugging context.
const DefaultContextArray = "actions"

// Policy configures a comparison.
type Policy struct {
	// SkipFields are root-level keys excluded from comparison entirely.
	SkipFields []string `json:"skip_fields,omitempty"`

	// RelativeTolerance bounds |a-b| / max(|a|,|b|) when neither side is zero.
	RelativeTolerance float64 `json:"relative_tolerance"`

	// AbsoluteTolerance bounds |a-b| when one side is zero.
	AbsoluteTolerance float64 `json:"absolute_tolerance"`

	// NumericCrossSubtype compares integers and floats as plain numbers.
	// When false, an integer facing a float is a type mismatch.
	NumericCrossSubtype bool `json:"numeric_cross_subtype"`

	// NormalizeUnicode compares strings after NFC normalization.
	NormalizeUnicode bool `json:"normalize_unicode,omitempty"`

	// ContextArray names the root array whose records are attached to
	// missing-key divergences. Empty disables context.
	ContextArray string `json:"context_array,omitempty"`

	Mode Mode `json:"-"`

	// MaxDivergences caps CollectAll. Zero means no cap.
	MaxDivergences int `json:"max_divergences,omitempty"`
}

// DefaultPolicy is the tolerant comparison: numbers across subtypes with
// relative tolerance, top-level "timestamp" skipped.
func DefaultPolicy() Policy {
	return Policy{
		SkipFields:          []string{"timestamp"},
		RelativeTolerance:   DefaultRelativeTolerance,
		AbsoluteTolerance:   DefaultAbsoluteTolerance,
		NumericCrossSubtype: true,
		ContextArray:        DefaultContextArray,
	}
}

// StrictPolicy compares exactly: no skipped fields, no tolerance, and
// integer versus float is a type mismatch.
func StrictPolicy() Policy {
	return Policy{
		ContextArray: DefaultContextArray,
	}
}

// ExactPolicy is value equality: numbers compare across subtypes but
// without tolerance, nothing is skipped, no context is gathered.
func ExactPolicy() Policy {
	return Policy{NumericCrossSubtype: true}
}

func (p Policy) skipSet() map[string]struct{} {
	if len(p.SkipFields) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(p.SkipFields))
	for _, f := range p.SkipFields {
		set[f] = struct{}{}
	}
	return set
}
