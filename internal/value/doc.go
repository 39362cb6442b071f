// Package value provides the JSON document model shared by the comparator
// and the inspector.
//
// Documents are decoded into a small sealed set of types so that every
// consumer switches over the same closed value space:
//   - Null, Bool, Number, String, Array, Object
//   - Number keeps its literal text; integers and floats stay distinguishable
//   - Object iteration goes through SortedKeys for deterministic order
//
// This package imports nothing internal. All other internal packages import
// value; it is the foundational layer.
package value
