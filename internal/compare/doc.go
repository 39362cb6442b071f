// Package compare walks two JSON documents in lockstep and reports where
// they diverge.
//
// The reference document and the candidate document are compared under a
// Policy that controls numeric tolerance, top-level skipped fields, and
// whether traversal stops at the first divergence or keeps collecting.
//
// Divergences are data, not errors: Compare returns a Result and the caller
// decides whether a divergence aborts the process.
//
// # Traversal
//
// Depth-first, pre-order. Object keys are visited in sorted order so the
// first divergence is reproducible across runs regardless of the key order
// in the input files. Array lengths are checked before any element.
package compare
