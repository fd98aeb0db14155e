package runtime

import (
	"testing"
	"time"
)

func TestHeapCollectInvalidatesUnreachable(t *testing.T) {
	heap := NewHeap()
	env := NewEnvironment(nil)
	kept := heap.NewArray([]Value{Int(1)})
	env.Define("kept", kept, true)
	dropped := heap.NewStruct()

	released := heap.Collect(nil, env)
	if released != 1 {
		t.Fatalf("expected 1 released slot, got %d", released)
	}
	if _, err := heap.Array(kept); err != nil {
		t.Fatalf("reachable array was collected: %v", err)
	}
	_, err := heap.Fields(dropped)
	if kind, _ := KindOf(err); kind != InvalidHandle {
		t.Fatalf("expected InvalidHandle for stale struct, got %v", err)
	}

	reused := heap.NewStruct()
	if reused.Handle.Index != dropped.Handle.Index {
		t.Fatalf("expected slot reuse, got %d want %d", reused.Handle.Index, dropped.Handle.Index)
	}
	if SameHandle(reused, dropped) {
		t.Fatalf("reused slot must not alias the stale handle")
	}
}

func TestHeapCollectFollowsClosures(t *testing.T) {
	heap := NewHeap()
	captured := NewEnvironment(nil)
	inner := heap.NewArray(nil)
	captured.Define("inner", inner, true)
	fn := heap.NewClosure(&Closure{Name: "f", Env: captured})
	holder := heap.NewArray([]Value{fn})

	if released := heap.Collect([]Value{holder}); released != 0 {
		t.Fatalf("expected nothing released, got %d", released)
	}
	if _, err := heap.Array(inner); err != nil {
		t.Fatalf("array captured by closure was collected: %v", err)
	}
}

func TestSameHandleIdentity(t *testing.T) {
	heap := NewHeap()
	a := heap.NewStruct()
	b := heap.NewStruct()
	alias := a
	if !SameHandle(a, alias) {
		t.Fatalf("alias must be identical")
	}
	if SameHandle(a, b) {
		t.Fatalf("independent structs must differ")
	}
	if SameHandle(a, Null) {
		t.Fatalf("struct must differ from null")
	}
}

func TestTimerHandles(t *testing.T) {
	res := NewResources()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	res.SetClock(func() time.Time { return now })

	first := res.StartTimer()
	second := res.StartTimer()
	if second.ID <= first.ID {
		t.Fatalf("timer ids must increase: %d then %d", first.ID, second.ID)
	}
	now = start.Add(1500 * time.Millisecond)
	elapsed, err := res.Elapsed(first.ID)
	if err != nil || elapsed != 1500 {
		t.Fatalf("elapsed = %v (%v)", elapsed, err)
	}
	if _, err := res.StopTimer(first.ID); err != nil {
		t.Fatalf("stop: %v", err)
	}
	_, err = res.Elapsed(first.ID)
	if kind, _ := KindOf(err); kind != InvalidHandle {
		t.Fatalf("expected InvalidHandle after stop, got %v", err)
	}
	if res.Timers.Len() != 1 {
		t.Fatalf("expected one open timer, got %d", res.Timers.Len())
	}
	third := res.StartTimer()
	if third.ID <= second.ID {
		t.Fatalf("closed ids must not be reused")
	}
}
