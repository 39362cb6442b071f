package compare

import (
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/replaycheck/internal/value"
)

// Comparator compares one pair of root documents.
// The roots are kept so missing-key divergences can pull context from the
// context array of both documents.
type Comparator struct {
	policy Policy
	skip   map[string]struct{}

	refRoot  value.Value
	candRoot value.Value

	result Result
}

// New creates a Comparator for the given policy.
func New(policy Policy) *Comparator {
	return &Comparator{
		policy: policy,
		skip:   policy.skipSet(),
	}
}

// Compare compares the reference document ref with the candidate cand.
func Compare(ref, cand value.Value, policy Policy) Result {
	return New(policy).Compare(ref, cand)
}

// Equal reports whether a and b are equivalent under policy.
func Equal(a, b value.Value, policy Policy) bool {
	policy.Mode = FailFast
	return Compare(a, b, policy).Equal()
}

// Compare walks ref and cand from the root and returns every divergence
// the policy's mode allows.
func (c *Comparator) Compare(ref, cand value.Value) Result {
	c.refRoot = ref
	c.candRoot = cand
	c.result = Result{Mode: c.policy.Mode}

	c.walk(ref, cand, nil)

	return c.result
}

// walk compares a and b at path. Returns false when traversal must stop.
func (c *Comparator) walk(a, b value.Value, path value.Path) bool {
	if !c.sameKind(a, b) {
		split := !c.policy.NumericCrossSubtype
		return c.report(Divergence{
			Kind:          KindTypeMismatch,
			Path:          path,
			Reference:     a,
			Candidate:     b,
			ReferenceKind: value.KindName(a, split),
			CandidateKind: value.KindName(b, split),
		})
	}

	switch av := a.(type) {
	case value.Object:
		return c.walkObject(av, b.(value.Object), path)
	case value.Array:
		return c.walkArray(av, b.(value.Array), path)
	default:
		if !c.scalarsEqual(a, b) {
			return c.report(Divergence{
				Kind:      KindValueMismatch,
				Path:      path,
				Reference: a,
				Candidate: b,
			})
		}
		return true
	}
}

func (c *Comparator) walkObject(a, b value.Object, path value.Path) bool {
	if c.policy.NormalizeUnicode {
		a, b = normalizeKeys(a), normalizeKeys(b)
	}
	for _, key := range unionKeys(a, b) {
		if path.IsRoot() && c.skipped(key) {
			continue
		}
		next := path.Key(key)

		av, inA := a[key]
		bv, inB := b[key]
		switch {
		case !inA:
			if !c.report(Divergence{
				Kind:        KindMissingInReference,
				Path:        next,
				Candidate:   bv,
				SiblingKeys: a.SortedKeys(),
				Context:     c.actionContext(path),
			}) {
				return false
			}
		case !inB:
			if !c.report(Divergence{
				Kind:        KindMissingInCandidate,
				Path:        next,
				Reference:   av,
				SiblingKeys: b.SortedKeys(),
				Context:     c.actionContext(path),
			}) {
				return false
			}
		default:
			if !c.walk(av, bv, next) {
				return false
			}
		}
	}
	return true
}

func (c *Comparator) walkArray(a, b value.Array, path value.Path) bool {
	if len(a) != len(b) {
		return c.report(Divergence{
			Kind:   KindLengthMismatch,
			Path:   path,
			Length: &LengthDetail{Reference: len(a), Candidate: len(b)},
		})
	}
	for i := range a {
		if !c.walk(a[i], b[i], path.Index(i)) {
			return false
		}
	}
	return true
}

// report records d and decides whether traversal continues.
func (c *Comparator) report(d Divergence) bool {
	c.result.Divergences = append(c.result.Divergences, d)
	if c.policy.Mode == FailFast {
		return false
	}
	if c.policy.MaxDivergences > 0 && len(c.result.Divergences) >= c.policy.MaxDivergences {
		c.result.Limited = true
		return false
	}
	return true
}

func (c *Comparator) skipped(key string) bool {
	_, ok := c.skip[key]
	return ok
}

// sameKind reports whether a and b are compared structurally.
func (c *Comparator) sameKind(a, b value.Value) bool {
	ka, kb := value.KindOf(a), value.KindOf(b)
	if ka != kb {
		return false
	}
	if ka == value.KindNumber && !c.policy.NumericCrossSubtype {
		return a.(value.Number).IsInteger() == b.(value.Number).IsInteger()
	}
	return true
}

// scalarsEqual compares two scalars of the same kind.
func (c *Comparator) scalarsEqual(a, b value.Value) bool {
	switch av := a.(type) {
	case value.Number:
		return numbersEqual(av, b.(value.Number), c.policy)
	case value.String:
		bv := b.(value.String)
		if c.policy.NormalizeUnicode {
			return norm.NFC.String(string(av)) == norm.NFC.String(string(bv))
		}
		return av == bv
	default:
		return a == b
	}
}

// actionContext returns the context record for a divergence inside parent,
// or nil when parent is not under the context array.
func (c *Comparator) actionContext(parent value.Path) *ActionContext {
	idx, ok := parent.ActionIndex(c.policy.ContextArray)
	if !ok {
		return nil
	}
	ctx := &ActionContext{Index: idx}
	ctx.ReferenceType, ctx.ReferencePayload = c.recordFields(c.refRoot, idx)
	ctx.CandidateType, ctx.CandidatePayload = c.recordFields(c.candRoot, idx)
	return ctx
}

// recordFields returns the type and payload of record idx of the context
// array in root. Missing pieces are nil.
func (c *Comparator) recordFields(root value.Value, idx int) (typ, payload value.Value) {
	record, ok := value.Lookup(root, value.Path{}.Key(c.policy.ContextArray).Index(idx))
	if !ok {
		return nil, nil
	}
	obj, ok := record.(value.Object)
	if !ok {
		return nil, nil
	}
	return obj["type"], obj["payload"]
}

// normalizeKeys returns obj with every key in NFC form. When two keys
// normalize to the same form, the one later in sorted order wins.
func normalizeKeys(obj value.Object) value.Object {
	changed := false
	for k := range obj {
		if !norm.NFC.IsNormalString(k) {
			changed = true
			break
		}
	}
	if !changed {
		return obj
	}
	out := make(value.Object, len(obj))
	for _, k := range obj.SortedKeys() {
		out[norm.NFC.String(k)] = obj[k]
	}
	return out
}

// unionKeys returns the keys of a and b in sorted order, without duplicates.
func unionKeys(a, b value.Object) []string {
	merged := make(value.Object, len(a)+len(b))
	for k := range a {
		merged[k] = value.Null{}
	}
	for k := range b {
		merged[k] = value.Null{}
	}
	return merged.SortedKeys()
}
