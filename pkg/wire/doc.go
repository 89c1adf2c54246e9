// Package wire implements the binary transport protocol for patch
// batches: a whole diff's patch sequence serialized into one contiguous
// buffer for a single boundary crossing.
//
// A batch is a fixed-width patch count, fixed-size per-patch entries,
// and a deduplicated string table holding every variable-length value
// (ids, attribute names and values, tag names, text, and encoded insert
// subtrees) exactly once per distinct value, length-prefixed with
// varints. Entries reference the table by index, so a thousand rows
// sharing attribute names cost the names once.
//
// Decoding is strict and total: a truncated buffer, an out-of-range
// table reference, or an unknown discriminant fails the whole batch
// before anything is handed to a sink. The package also carries the
// framing, ack, and control messages the live stream transport uses.
package wire
