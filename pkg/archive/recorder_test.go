package archive

import (
	"testing"

	"github.com/vireo-ui/vireo/pkg/vtree"
	"github.com/vireo-ui/vireo/pkg/wire"
)

// record encodes the diff between prev and next as a sequenced patches
// frame and feeds it to the recorder, the way a session's OnFrame does.
func record(t *testing.T, rec *Recorder, seq uint64, prev, next *vtree.Node) {
	t.Helper()
	be := wire.NewBatchEncoder()
	e := wire.NewEncoder()
	if err := be.EncodePatchesTo(e, seq, vtree.Diff(prev, next)); err != nil {
		t.Fatal(err)
	}
	rec.Record(seq, wire.NewFrame(wire.FramePatches, e.Bytes()).Encode())
}

func counter(n string) *vtree.Node {
	return vtree.Element("root", "div", nil,
		vtree.Element("c", "span", nil, vtree.Text("c-t", n)),
	)
}

func TestRecorderReplayInOrder(t *testing.T) {
	rec := NewRecorder()
	record(t, rec, 1, nil, counter("0"))
	record(t, rec, 2, counter("0"), counter("1"))
	record(t, rec, 3, counter("1"), counter("2"))

	if rec.Count() != 3 {
		t.Fatalf("count = %d, want 3", rec.Count())
	}

	var seqs []uint64
	err := Replay(rec.Bytes(), func(seq uint64, patches []vtree.Patch) error {
		seqs = append(seqs, seq)
		if len(patches) == 0 {
			t.Errorf("seq %d: empty batch", seq)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(seqs) != 3 || seqs[0] != 1 || seqs[1] != 2 || seqs[2] != 3 {
		t.Errorf("seqs = %v, want [1 2 3]", seqs)
	}
}

func TestRebuildReproducesFinalTree(t *testing.T) {
	rec := NewRecorder()
	record(t, rec, 1, nil, counter("0"))
	record(t, rec, 2, counter("0"), counter("1"))
	record(t, rec, 3, counter("1"), counter("2"))

	got, err := Rebuild(nil, rec.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if !vtree.Equal(got, counter("2")) {
		t.Error("rebuilt tree differs from final render")
	}
}

func TestReplaySkipsNonPatchFrames(t *testing.T) {
	rec := NewRecorder()
	record(t, rec, 1, nil, counter("0"))
	rec.Record(0, wire.NewFrame(wire.FrameControl,
		wire.EncodeControl(wire.NewPing(1))).Encode())
	record(t, rec, 2, counter("0"), counter("1"))

	calls := 0
	err := Replay(rec.Bytes(), func(uint64, []vtree.Patch) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("callback ran %d times, want 2", calls)
	}
}

func TestReplayTruncatedStreamFails(t *testing.T) {
	rec := NewRecorder()
	record(t, rec, 1, nil, counter("0"))

	data := rec.Bytes()
	err := Replay(data[:len(data)-2], func(uint64, []vtree.Patch) error { return nil })
	if err == nil {
		t.Fatal("expected error for truncated stream")
	}
}

func TestRecorderReset(t *testing.T) {
	rec := NewRecorder()
	record(t, rec, 1, nil, counter("0"))
	rec.Reset()

	if rec.Count() != 0 || rec.Len() != 0 {
		t.Errorf("after reset: count=%d len=%d, want 0/0", rec.Count(), rec.Len())
	}
}
