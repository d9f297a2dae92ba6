// Package codec implements the wire encoding for a single version delta
// inside a group: the XOR-diff against a group's reference bitmap, and the
// sparse/dense payload shapes that diff can take.
//
// # Design Philosophy
//
// A delta stores its bitmap relative to its group's reference image, and
// only falls back to the full 7,500-byte image when the diff is large:
//
//   - Sparse: an ascending list of bit positions where the submitted
//     bitmap differs from the reference (the count is the slice length).
//     Cheap when few bits flipped.
//   - Dense: the full original bitmap, packed as 3,750 little-endian
//     16-bit words. Used once the diff has SparseThreshold (468) or more
//     differing bits.
//   - Placeholder: no payload yet. A reservation for a CSN whose content
//     has not materialized.
//
// The threshold between sparse and dense is a compile-time constant,
// evaluated once per delta, against the popcount of the diff - never
// revisited later.
package codec
