package stream

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vireo-ui/vireo/pkg/vtree"
	"github.com/vireo-ui/vireo/pkg/wire"
)

// ErrSessionClosed is returned by Render after the session has closed.
var ErrSessionClosed = errors.New("stream: session closed")

// Session is one connected sink. It owns the differ retaining the
// previous tree, the reused batch encoder, and the replay history.
// Render calls are serialized by the session mutex; the caller drives
// render cycles, the session's ReadLoop drives the receive side.
type Session struct {
	conn    *websocket.Conn
	config  *Config
	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer

	differ *vtree.Differ
	batch  *wire.BatchEncoder
	enc    *wire.Encoder

	history *History

	mu     sync.Mutex // guards conn writes, differ, and encoder
	seq    atomic.Uint64
	ackSeq atomic.Uint64
	closed atomic.Bool

	// OnFrame, when set before the first Render, observes every sent
	// patches frame (e.g. an archive recorder). Called under the
	// session mutex with the encoded frame bytes.
	OnFrame func(seq uint64, frame []byte)
}

func newSession(conn *websocket.Conn, config *Config) *Session {
	return &Session{
		conn:    conn,
		config:  config,
		logger:  config.logger(),
		metrics: config.Metrics,
		tracer:  newTracer(config.TracerName),
		differ:  vtree.NewDiffer(),
		batch:   wire.NewBatchEncoder(),
		enc:     wire.NewEncoder(),
		history: NewHistory(config.HistorySize),
	}
}

// Seq returns the sequence number of the last sent patches frame.
func (s *Session) Seq() uint64 {
	return s.seq.Load()
}

// AckSeq returns the last sequence the sink has acknowledged.
func (s *Session) AckSeq() uint64 {
	return s.ackSeq.Load()
}

// Render diffs next against the session's retained tree, encodes the
// patches as one sequenced frame, and sends it. An unchanged tree sends
// nothing. The retained tree advances either way.
func (s *Session) Render(ctx context.Context, next *vtree.Node) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}

	_, span := s.tracer.Start(ctx, "stream.render")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	patches := s.differ.Diff(next)
	if len(patches) == 0 {
		s.metrics.RecordRender(0, 0, time.Since(start))
		span.SetAttributes(attribute.Int("vireo.patches", 0))
		return nil
	}

	// seq advances only once the frame is on the wire: a failed cycle
	// reuses its number, so history never develops a gap that would
	// make later resyncs unrecoverable.
	seq := s.seq.Load() + 1
	s.enc.Reset()
	if err := s.batch.EncodePatchesTo(s.enc, seq, patches); err != nil {
		s.enc.Reset()
		span.RecordError(err)
		span.SetStatus(codes.Error, "encode failed")
		return err
	}

	frame := wire.NewFrame(wire.FramePatches, s.enc.Bytes()).Encode()
	if err := s.writeMessage(frame); err != nil {
		s.metrics.RecordSendError()
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		return err
	}

	s.seq.Store(seq)
	s.history.Add(seq, frame)
	if s.OnFrame != nil {
		s.OnFrame(seq, frame)
	}

	s.metrics.RecordRender(len(patches), len(frame), time.Since(start))
	span.SetAttributes(
		attribute.Int("vireo.patches", len(patches)),
		attribute.Int("vireo.batch_bytes", len(frame)),
		attribute.Int64("vireo.seq", int64(seq)),
	)
	return nil
}

// ReadLoop reads frames from the sink until the connection closes:
// acks advance the acknowledged sequence, pings get pongs, resync
// requests replay missed frames from history. Blocks; run it from the
// connection's handler goroutine.
func (s *Session) ReadLoop() {
	defer s.Close()

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		frame, err := wire.DecodeFrame(msg)
		if err != nil {
			s.logger.Error("frame decode error", "error", err)
			continue
		}

		switch frame.Type {
		case wire.FrameAck:
			s.handleAck(frame.Payload)

		case wire.FrameControl:
			s.handleControl(frame.Payload)

		default:
			s.logger.Warn("unexpected frame type", "type", frame.Type)
		}
	}
}

func (s *Session) handleAck(payload []byte) {
	ack, err := wire.DecodeAck(payload)
	if err != nil {
		s.logger.Error("ack decode error", "error", err)
		return
	}
	s.ackSeq.Store(ack.LastSeq)
	s.logger.Debug("received ack", "seq", ack.LastSeq)
}

func (s *Session) handleControl(payload []byte) {
	ct, data, err := wire.DecodeControl(payload)
	if err != nil {
		s.logger.Error("control decode error", "error", err)
		return
	}

	switch ct {
	case wire.ControlPing:
		if pp, ok := data.(*wire.PingPong); ok {
			s.sendPong(pp.Timestamp)
		}

	case wire.ControlPong:
		s.logger.Debug("received pong")

	case wire.ControlResync:
		if rr, ok := data.(*wire.ResyncRequest); ok {
			s.handleResync(rr.LastSeq)
		}
	}
}

// handleResync replays the frames the sink missed, or reports that the
// range has left history so the sink can request a full reload.
func (s *Session) handleResync(lastSeq uint64) {
	toSeq := s.seq.Load()
	s.logger.Info("resync requested", "last_seq", lastSeq, "to_seq", toSeq)

	frames := s.history.Frames(lastSeq, toSeq)
	if frames == nil && lastSeq < toSeq {
		s.sendError(wire.CodeResyncFailed, "requested range left history", false)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, frame := range frames {
		if err := s.writeMessage(frame); err != nil {
			s.metrics.RecordSendError()
			s.logger.Error("resync replay failed", "error", err)
			return
		}
	}
	s.metrics.RecordResync()
}

func (s *Session) sendPong(timestamp uint64) {
	ct, pp := wire.NewPong(timestamp)
	payload := wire.EncodeControl(ct, pp)
	frame := wire.NewFrame(wire.FrameControl, payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeMessage(frame.Encode()); err != nil {
		s.logger.Error("pong send failed", "error", err)
	}
}

func (s *Session) sendError(code wire.ErrorCode, message string, fatal bool) {
	payload := wire.EncodeErrorMessage(&wire.ErrorMessage{Code: code, Message: message, Fatal: fatal})
	frame := wire.NewFrame(wire.FrameError, payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeMessage(frame.Encode()); err != nil {
		s.logger.Error("error frame send failed", "error", err)
	}
}

// writeMessage writes one frame under the caller-held session mutex.
func (s *Session) writeMessage(data []byte) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	return s.conn.WriteMessage(websocket.BinaryMessage, data)
}

// Close closes the connection. Safe to call more than once.
func (s *Session) Close() {
	if s.closed.Swap(true) {
		return
	}
	s.conn.Close()
}
