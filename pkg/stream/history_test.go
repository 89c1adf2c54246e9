package stream

import (
	"bytes"
	"fmt"
	"testing"
)

func frameBytes(seq uint64) []byte {
	return []byte(fmt.Sprintf("frame-%d", seq))
}

func fillHistory(h *History, from, to uint64) {
	for seq := from; seq <= to; seq++ {
		h.Add(seq, frameBytes(seq))
	}
}

func TestHistoryFramesInOrder(t *testing.T) {
	h := NewHistory(10)
	fillHistory(h, 1, 5)

	frames := h.Frames(2, 5)
	if len(frames) != 3 {
		t.Fatalf("frame count = %d, want 3", len(frames))
	}
	for i, seq := range []uint64{3, 4, 5} {
		if !bytes.Equal(frames[i], frameBytes(seq)) {
			t.Errorf("frames[%d] = %q, want %q", i, frames[i], frameBytes(seq))
		}
	}
}

func TestHistoryEviction(t *testing.T) {
	h := NewHistory(3)
	fillHistory(h, 1, 5) // 1 and 2 evicted

	if h.MinSeq() != 3 || h.MaxSeq() != 5 {
		t.Errorf("range = [%d, %d], want [3, 5]", h.MinSeq(), h.MaxSeq())
	}
	if h.Count() != 3 {
		t.Errorf("count = %d, want 3", h.Count())
	}

	if frames := h.Frames(1, 5); frames != nil {
		t.Error("range reaching evicted frames should be unrecoverable")
	}
	if frames := h.Frames(2, 5); frames == nil {
		t.Error("range starting at the oldest retained frame should recover")
	}
}

func TestHistoryCanRecover(t *testing.T) {
	h := NewHistory(3)

	if h.CanRecover(0) {
		t.Error("empty history should not recover")
	}

	fillHistory(h, 1, 5)

	tests := []struct {
		lastSeq uint64
		want    bool
	}{
		{1, false}, // Needs 2, evicted
		{2, true},  // Needs 3..5, all present
		{4, true},
		{5, false}, // Nothing to send
		{9, false},
	}
	for _, tt := range tests {
		if got := h.CanRecover(tt.lastSeq); got != tt.want {
			t.Errorf("CanRecover(%d) = %v, want %v", tt.lastSeq, got, tt.want)
		}
	}
}

func TestHistoryCopiesFrames(t *testing.T) {
	h := NewHistory(4)
	buf := []byte("mutable")
	h.Add(1, buf)
	buf[0] = 'X'

	frames := h.Frames(0, 1)
	if len(frames) != 1 || !bytes.Equal(frames[0], []byte("mutable")) {
		t.Error("history should copy frames on Add")
	}
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory(4)
	fillHistory(h, 1, 3)
	h.Clear()

	if h.Count() != 0 {
		t.Errorf("count = %d, want 0", h.Count())
	}
	if h.Frames(0, 3) != nil {
		t.Error("cleared history should recover nothing")
	}
}
