// Package archive records and replays patch frame streams.
//
// A Recorder captures the frames a session sends, producing a compact
// byte stream of concatenated frames. Replay walks such a stream and
// hands each sequenced patch batch back to the caller, which is enough
// to reconstruct any intermediate tree state by applying the batches
// in order.
//
// S3Store persists recorded streams to an S3 bucket so sessions can be
// archived off-host and replayed later.
package archive
