package femtologging

import "testing"

func TestNewRecordIsZeroValue(t *testing.T) {
	r := newRecord()
	if r.LoggerName != "" || r.Message != "" || r.Exception != nil {
		t.Fatal("newRecord should return a clean, unpopulated Record")
	}
}

func TestExceptionPayloadWalkFollowsCauseChain(t *testing.T) {
	root := &ExceptionPayload{SchemaVersion: 1, ExcType: "root"}
	mid := &ExceptionPayload{SchemaVersion: 1, ExcType: "mid", Cause: root}
	leaf := &ExceptionPayload{SchemaVersion: 1, ExcType: "leaf", Cause: mid}

	var seen []string
	leaf.Walk(func(p *ExceptionPayload) { seen = append(seen, p.ExcType) })

	want := []string{"leaf", "mid", "root"}
	if len(seen) != len(want) {
		t.Fatalf("Walk visited %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("Walk visited %v, want %v", seen, want)
		}
	}
}

func TestExceptionPayloadWalkBoundsCyclicChain(t *testing.T) {
	a := &ExceptionPayload{ExcType: "a"}
	b := &ExceptionPayload{ExcType: "b", Cause: a}
	a.Cause = b // cycle

	count := 0
	a.Walk(func(*ExceptionPayload) { count++ })

	if count != maxChainDepth {
		t.Fatalf("Walk over a cyclic chain visited %d nodes, want exactly %d", count, maxChainDepth)
	}
}

func TestExceptionPayloadFilterFramesPreservesKeptFrames(t *testing.T) {
	root := &ExceptionPayload{
		SchemaVersion: 1,
		ExcType:       "root",
		Frames: []Frame{
			{Filename: "a.go", Lineno: 1},
			{Filename: "b.go", Lineno: 2},
		},
	}
	leaf := &ExceptionPayload{
		SchemaVersion: 1,
		ExcType:       "leaf",
		Frames: []Frame{
			{Filename: "c.go", Lineno: 3},
			{Filename: "vendor.go", Lineno: 4},
		},
		Cause: root,
	}

	keepNonVendor := func(f Frame) bool { return f.Filename != "vendor.go" }
	filtered := leaf.FilterFrames(keepNonVendor)

	if len(filtered.Frames) != 1 || filtered.Frames[0].Filename != "c.go" {
		t.Fatalf("leaf.Frames after filter = %+v, want only c.go", filtered.Frames)
	}
	if filtered.Cause == nil || len(filtered.Cause.Frames) != 2 {
		t.Fatalf("cause.Frames after filter = %+v, want both a.go and b.go kept", filtered.Cause)
	}

	if len(leaf.Frames) != 2 {
		t.Fatal("FilterFrames must not mutate the original payload")
	}
	if leaf.Frames[1].Filename != "vendor.go" {
		t.Fatal("original leaf.Frames must be untouched")
	}
}

func TestExceptionPayloadFilterFramesNilReceiver(t *testing.T) {
	var p *ExceptionPayload
	if got := p.FilterFrames(func(Frame) bool { return true }); got != nil {
		t.Fatalf("FilterFrames on a nil payload = %+v, want nil", got)
	}
}

func TestExceptionPayloadWalkNilReceiver(t *testing.T) {
	var p *ExceptionPayload
	called := false
	p.Walk(func(*ExceptionPayload) { called = true })
	if called {
		t.Fatal("Walk on a nil payload must not invoke fn")
	}
}
