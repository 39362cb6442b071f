// Package inspect scans a slice of a document's action records and flags
// whether a nested field carries forward from the previous matching record.
package inspect

import (
	"errors"
	"fmt"

	"github.com/roach88/replaycheck/internal/compare"
	"github.com/roach88/replaycheck/internal/value"
)

// Side selects which document is inspected.
type Side string

const (
	SideReference Side = "reference"
	SideCandidate Side = "candidate"
)

// Status classifies a record relative to the previous retained record.
type Status string

const (
	StatusSame Status = "SAME"
	StatusNew  Status = "NEW"
)

// ErrInvalidOptions is returned for options that cannot describe a scan.
var ErrInvalidOptions = errors.New("invalid inspect options")

// ErrNoActions is returned when the scanned document lacks the action array.
var ErrNoActions = errors.New("no action array")

// Options configures a scan.
type Options struct {
	Side  Side   `json:"side"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Type  string `json:"type"`
	Array string `json:"array"`
	Field string `json:"field"`

	// Both scans both documents, one section each.
	Both bool `json:"both,omitempty"`
}

// DefaultOptions scans MOVE records 12 through 29 of the candidate.
func DefaultOptions() Options {
	return Options{
		Side:  SideCandidate,
		Start: 12,
		End:   30,
		Type:  "MOVE",
		Array: "actions",
		Field: "payload.object_ids",
	}
}

// Validate checks that the options describe a scan.
func (o Options) Validate() error {
	switch {
	case o.Side != SideReference && o.Side != SideCandidate:
		return fmt.Errorf("%w: unknown side %q", ErrInvalidOptions, o.Side)
	case o.Start < 0:
		return fmt.Errorf("%w: start %d is negative", ErrInvalidOptions, o.Start)
	case o.End < o.Start:
		return fmt.Errorf("%w: end %d before start %d", ErrInvalidOptions, o.End, o.Start)
	case o.Type == "":
		return fmt.Errorf("%w: empty record type", ErrInvalidOptions)
	case o.Array == "":
		return fmt.Errorf("%w: empty array name", ErrInvalidOptions)
	case value.ParseFieldPath(o.Field).IsRoot():
		return fmt.Errorf("%w: empty field", ErrInvalidOptions)
	}
	return nil
}

// Record is one retained record of a scan.
type Record struct {
	Index  int         `json:"index"`
	Value  value.Value `json:"value"`
	Status Status      `json:"status"`
}

// Section holds the records retained from one document.
type Section struct {
	Side    Side     `json:"side"`
	Records []Record `json:"records"`
}

// Report is the result of a scan.
type Report struct {
	Options  Options   `json:"options"`
	Sections []Section `json:"sections"`
}

// Run scans ref or cand (or both) as opts describe.
func Run(ref, cand value.Value, opts Options) (Report, error) {
	if err := opts.Validate(); err != nil {
		return Report{}, err
	}

	sides := []Side{opts.Side}
	if opts.Both {
		sides = []Side{SideReference, SideCandidate}
	}

	report := Report{Options: opts}
	for _, side := range sides {
		doc := cand
		if side == SideReference {
			doc = ref
		}
		records, err := scan(doc, opts)
		if err != nil {
			return Report{}, fmt.Errorf("%s: %w", side, err)
		}
		report.Sections = append(report.Sections, Section{Side: side, Records: records})
	}
	return report, nil
}

// scan walks doc's action array over [Start, End) and classifies each
// record of the requested type.
func scan(doc value.Value, opts Options) ([]Record, error) {
	raw, ok := value.Lookup(doc, value.Path{}.Key(opts.Array))
	if !ok {
		return nil, fmt.Errorf("%w: document has no %q array", ErrNoActions, opts.Array)
	}
	actions, ok := raw.(value.Array)
	if !ok {
		return nil, fmt.Errorf("%w: %q is %s, not array", ErrNoActions, opts.Array, value.KindName(raw, false))
	}

	field := value.ParseFieldPath(opts.Field)
	records := []Record{}
	var prev value.Value

	for i := opts.Start; i < opts.End && i < len(actions); i++ {
		obj, ok := actions[i].(value.Object)
		if !ok {
			continue
		}
		if typ, _ := obj["type"].(value.String); string(typ) != opts.Type {
			continue
		}

		cur, ok := value.Lookup(obj, field)
		if !ok {
			cur = value.Array{}
		}

		status := StatusNew
		if prev != nil && compare.Equal(cur, prev, compare.ExactPolicy()) {
			status = StatusSame
		}
		records = append(records, Record{Index: i, Value: cur, Status: status})
		prev = cur
	}
	return records, nil
}
