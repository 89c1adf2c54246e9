// Package stream delivers encoded patch batches to a remote sink over
// WebSocket.
//
// Each connection gets a Session owning a vtree.Differ, a reused batch
// encoder, and a replay history: Render diffs the next tree against the
// session's retained one, encodes the result as a sequenced patches
// frame, and sends it. The read side handles acknowledgments, pings,
// and resync requests, replaying missed frames from the history ring
// when a sink reports a gap.
//
// Server mounts the WebSocket endpoint on a chi router; Prometheus
// metrics and OpenTelemetry spans cover the render cycle.
package stream
