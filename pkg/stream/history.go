package stream

import (
	"sync"
	"time"
)

// historyEntry stores a sent patches frame for potential replay.
type historyEntry struct {
	seq    uint64    // Patches frame sequence number
	frame  []byte    // Pre-encoded frame, ready to resend
	sentAt time.Time // When the frame was sent
}

// History is a thread-safe ring buffer of sent patches frames. It keeps
// a sliding window of recent frames so a sink that missed some can
// resync without a full reload. When full, the oldest entry is
// overwritten.
type History struct {
	mu       sync.RWMutex
	entries  []*historyEntry
	head     int    // Next write position (circular)
	count    int    // Current number of entries
	capacity int    // Max entries
	minSeq   uint64 // Lowest sequence in buffer
	maxSeq   uint64 // Highest sequence in buffer
}

// NewHistory creates a history ring with the given capacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultConfig().HistorySize
	}
	return &History{
		entries:  make([]*historyEntry, capacity),
		capacity: capacity,
	}
}

// Add stores a sent frame. Call it only after a successful write to the
// connection. The frame bytes are copied, so send buffers can be reused.
func (h *History) Add(seq uint64, frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	frameCopy := make([]byte, len(frame))
	copy(frameCopy, frame)

	h.entries[h.head] = &historyEntry{seq: seq, frame: frameCopy, sentAt: time.Now()}
	h.head = (h.head + 1) % h.capacity

	if h.count < h.capacity {
		h.count++
	}

	h.maxSeq = seq
	if h.count == 1 {
		h.minSeq = seq
	} else if h.count == h.capacity {
		// Buffer full: the oldest surviving entry is at head.
		if oldest := h.entries[h.head]; oldest != nil {
			h.minSeq = oldest.seq
		}
	}
}

// Frames returns the frames for sequences (afterSeq, toSeq], in order.
// Returns nil if any sequence in the range has left the buffer.
func (h *History) Frames(afterSeq, toSeq uint64) [][]byte {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.count == 0 || afterSeq >= toSeq {
		return nil
	}
	if afterSeq+1 < h.minSeq || toSeq > h.maxSeq {
		return nil // Requested range not fully recoverable
	}

	seqToFrame := make(map[uint64][]byte, h.count)
	for i := 0; i < h.count; i++ {
		idx := (h.head - h.count + i + h.capacity) % h.capacity
		if entry := h.entries[idx]; entry != nil {
			seqToFrame[entry.seq] = entry.frame
		}
	}

	frames := make([][]byte, 0, toSeq-afterSeq)
	for seq := afterSeq + 1; seq <= toSeq; seq++ {
		frame, ok := seqToFrame[seq]
		if !ok {
			return nil
		}
		frames = append(frames, frame)
	}
	return frames
}

// CanRecover reports whether every frame after lastSeq is still in the
// buffer and there is something to send.
func (h *History) CanRecover(lastSeq uint64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.count == 0 {
		return false
	}
	return lastSeq+1 >= h.minSeq && lastSeq < h.maxSeq
}

// MinSeq returns the minimum recoverable sequence.
func (h *History) MinSeq() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.minSeq
}

// MaxSeq returns the maximum sequence in the buffer.
func (h *History) MaxSeq() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.maxSeq
}

// Count returns the number of entries in the buffer.
func (h *History) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Clear removes all entries, for a session starting fresh.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := range h.entries {
		h.entries[i] = nil
	}
	h.head = 0
	h.count = 0
	h.minSeq = 0
	h.maxSeq = 0
}
