package value

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Segment is one step of a Path: an object key or an array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Path identifies a traversal position, rendered as a.b[3].c.
// The empty Path is the document root.
type Path []Segment

// Key returns a new path extended by an object key.
// The receiver is never modified.
func (p Path) Key(k string) Path {
	next := make(Path, len(p), len(p)+1)
	copy(next, p)
	return append(next, Segment{Key: k})
}

// Index returns a new path extended by an array index.
// The receiver is never modified.
func (p Path) Index(i int) Path {
	next := make(Path, len(p), len(p)+1)
	copy(next, p)
	return append(next, Segment{Index: i, IsIndex: true})
}

// IsRoot reports whether p is the document root.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// String renders the path in dotted/bracketed form. The root is "".
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if seg.IsIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.Key)
	}
	return b.String()
}

// Label is String, with the root shown as "root".
func (p Path) Label() string {
	if p.IsRoot() {
		return "root"
	}
	return p.String()
}

// MarshalJSON encodes the path as its string form.
func (p Path) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// ActionIndex returns N when p starts with array[N], where array is a
// key of the root object.
func (p Path) ActionIndex(array string) (int, bool) {
	if array == "" || len(p) < 2 {
		return 0, false
	}
	if p[0].IsIndex || p[0].Key != array || !p[1].IsIndex {
		return 0, false
	}
	return p[1].Index, true
}

// ParseFieldPath splits a dotted field reference like "payload.object_ids"
// into object keys. Empty segments are dropped.
func ParseFieldPath(s string) Path {
	var p Path
	for _, part := range strings.Split(s, ".") {
		if part == "" {
			continue
		}
		p = append(p, Segment{Key: part})
	}
	return p
}

// Lookup follows the object keys of p starting at v.
// Returns false when any step is missing or not an object.
func Lookup(v Value, p Path) (Value, bool) {
	cur := v
	for _, seg := range p {
		if seg.IsIndex {
			arr, ok := cur.(Array)
			if !ok || seg.Index < 0 || seg.Index >= len(arr) {
				return nil, false
			}
			cur = arr[seg.Index]
			continue
		}
		obj, ok := cur.(Object)
		if !ok {
			return nil, false
		}
		next, ok := obj[seg.Key]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}
