package archive

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/vireo-ui/vireo/pkg/vtree"
	"github.com/vireo-ui/vireo/pkg/wire"
)

// Recorder accumulates sent frames into a replayable stream. Frames are
// self-delimiting, so the stream is simply their concatenation. Safe
// for concurrent use; hook it into a session via Session.OnFrame.
type Recorder struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	count int
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends one encoded frame to the stream. The signature matches
// stream.Session's OnFrame hook.
func (r *Recorder) Record(_ uint64, frame []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf.Write(frame)
	r.count++
}

// Bytes returns a copy of the recorded stream.
func (r *Recorder) Bytes() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]byte, r.buf.Len())
	copy(out, r.buf.Bytes())
	return out
}

// Len returns the size of the recorded stream in bytes.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Len()
}

// Count returns the number of recorded frames.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset discards everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf.Reset()
	r.count = 0
}

// WriteTo writes the recorded stream to w.
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, err := w.Write(r.buf.Bytes())
	return int64(n), err
}

// Replay walks a recorded stream and calls fn for every patches frame,
// in recorded order, with the frame's sequence number and decoded
// batch. Non-patch frames in the stream are skipped. Replay stops at
// the first decode error or the first error returned by fn.
func Replay(data []byte, fn func(seq uint64, patches []vtree.Patch) error) error {
	r := bytes.NewReader(data)
	for {
		frame, err := wire.ReadFrame(r)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("archive: read frame: %w", err)
		}

		if frame.Type != wire.FramePatches {
			continue
		}

		seq, patches, err := wire.DecodePatches(frame.Payload)
		if err != nil {
			return fmt.Errorf("archive: decode batch: %w", err)
		}
		if err := fn(seq, patches); err != nil {
			return err
		}
	}
}

// Rebuild replays a recorded stream on top of root, returning the tree
// after every batch has been applied. A nil root replays from an empty
// document.
func Rebuild(root *vtree.Node, data []byte) (*vtree.Node, error) {
	current := root
	err := Replay(data, func(seq uint64, patches []vtree.Patch) error {
		next, err := vtree.Apply(current, patches)
		if err != nil {
			return fmt.Errorf("archive: apply batch seq %d: %w", seq, err)
		}
		current = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return current, nil
}
