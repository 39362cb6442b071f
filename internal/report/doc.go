// Package report renders comparison and inspection results as console text.
//
// Values are shown as compact JSON truncated to a fixed number of
// characters so that large substructures do not flood the terminal:
//   - TypeValueLimit for the two sides of a type mismatch
//   - ValueLimit for everything else
//
// Output is byte-identical across runs for identical inputs.
package report
