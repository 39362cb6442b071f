package compare

import (
	"fmt"

	"github.com/roach88/replaycheck/internal/value"
)

// Kind categorizes a divergence.
type Kind string

const (
	// KindTypeMismatch indicates the two values have different kinds.
	KindTypeMismatch Kind = "type_mismatch"

	// KindMissingInReference indicates a key only the candidate has.
	KindMissingInReference Kind = "missing_in_reference"

	// KindMissingInCandidate indicates a key only the reference has.
	KindMissingInCandidate Kind = "missing_in_candidate"

	// KindLengthMismatch indicates arrays of different lengths.
	KindLengthMismatch Kind = "length_mismatch"

	// KindValueMismatch indicates unequal scalars.
	KindValueMismatch Kind = "value_mismatch"
)

// Divergence is one point where the documents are not equivalent.
type Divergence struct {
	Kind Kind       `json:"kind"`
	Path value.Path `json:"path"`

	// Reference and Candidate hold the values at Path. For a missing key
	// only the side that has the key is set; for a length mismatch neither.
	Reference value.Value `json:"reference,omitempty"`
	Candidate value.Value `json:"candidate,omitempty"`

	// ReferenceKind and CandidateKind name the kinds of a type mismatch.
	ReferenceKind string `json:"reference_kind,omitempty"`
	CandidateKind string `json:"candidate_kind,omitempty"`

	// Length is set for a length mismatch.
	Length *LengthDetail `json:"length,omitempty"`

	// SiblingKeys lists the sorted keys of the object lacking the key.
	SiblingKeys []string `json:"sibling_keys,omitempty"`

	// Context carries the enclosing action record for missing keys.
	Context *ActionContext `json:"context,omitempty"`
}

// LengthDetail records the two array lengths of a length mismatch.
type LengthDetail struct {
	Reference int `json:"reference"`
	Candidate int `json:"candidate"`
}

// ActionContext describes the record of the context array that encloses a
// divergence, taken from both root documents. Absent fields stay nil.
type ActionContext struct {
	Index            int         `json:"index"`
	ReferenceType    value.Value `json:"reference_type,omitempty"`
	CandidateType    value.Value `json:"candidate_type,omitempty"`
	ReferencePayload value.Value `json:"reference_payload,omitempty"`
	CandidatePayload value.Value `json:"candidate_payload,omitempty"`
}

// Error implements the error interface, so a caller that treats a
// divergence as fatal can return it directly.
func (d *Divergence) Error() string {
	switch d.Kind {
	case KindMissingInReference:
		return fmt.Sprintf("%s: missing in reference", d.Path.Label())
	case KindMissingInCandidate:
		return fmt.Sprintf("%s: missing in candidate", d.Path.Label())
	case KindLengthMismatch:
		return fmt.Sprintf("%s: length mismatch (%d != %d)", d.Path.Label(), d.Length.Reference, d.Length.Candidate)
	case KindTypeMismatch:
		return fmt.Sprintf("%s: type mismatch (%s != %s)", d.Path.Label(), d.ReferenceKind, d.CandidateKind)
	default:
		return fmt.Sprintf("%s: value mismatch", d.Path.Label())
	}
}

// Result is the outcome of a comparison.
type Result struct {
	Mode        Mode         `json:"-"`
	Divergences []Divergence `json:"divergences"`

	// Limited is set when CollectAll stopped at MaxDivergences.
	Limited bool `json:"limited,omitempty"`
}

// Equal reports whether no divergence was found.
func (r Result) Equal() bool {
	return len(r.Divergences) == 0
}

// First returns the first divergence found, or nil.
func (r Result) First() *Divergence {
	if len(r.Divergences) == 0 {
		return nil
	}
	return &r.Divergences[0]
}
