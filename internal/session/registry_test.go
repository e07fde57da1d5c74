package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"medreport/internal/dashboard"
	"medreport/internal/upload"
)

type stubAnalyzer struct{}

func (stubAnalyzer) Analyze(ctx context.Context, kind upload.Kind, file *upload.File) (upload.Envelope, error) {
	return upload.Envelope{}, errors.New("not used")
}

func TestRegistryReturnsSameSession(t *testing.T) {
	reg := NewRegistry(RegistryConfig{Slot: NewMemorySlot(), Analyzer: stubAnalyzer{}})
	defer reg.Close()

	ctx := context.Background()
	a := reg.Get(ctx, "s-1")
	b := reg.Get(ctx, "s-1")
	c := reg.Get(ctx, "s-2")
	if a != b {
		t.Fatalf("expected the same session for one id")
	}
	if a == c {
		t.Fatalf("expected distinct sessions per id")
	}
	if a.Controller == nil || a.Dashboard == nil || a.Assistant == nil {
		t.Fatalf("session not fully wired: %+v", a)
	}
	if reg.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", reg.Len())
	}
}

func TestRegistryRehydratesOnFirstAccess(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	result := fixtureResult(t)
	if err := NewStore("s-1", slot).Set(ctx, result); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reg := NewRegistry(RegistryConfig{Slot: slot, Analyzer: stubAnalyzer{}})
	defer reg.Close()

	got, ok := reg.Get(ctx, "s-1").Store.Get()
	if !ok || got.User.Name != result.User.Name {
		t.Fatalf("expected rehydrated result, got %v", got)
	}
}

func TestRegistryEvictsIdleSessions(t *testing.T) {
	reg := NewRegistry(RegistryConfig{
		Slot:       NewMemorySlot(),
		Analyzer:   stubAnalyzer{},
		IdleTTL:    50 * time.Millisecond,
		ReplyDelay: time.Hour,
	})
	defer reg.Close()

	s := reg.Get(context.Background(), "s-1")
	if _, err := s.Assistant.Send("hi"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.Assistant.Closed() {
			if _, ok := reg.Peek("s-1"); ok {
				t.Fatalf("evicted session still visible")
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("session was never evicted")
}

func TestRegistryEvictionDropsMemorySlotEntry(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	reg := NewRegistry(RegistryConfig{
		Slot:     slot,
		Analyzer: stubAnalyzer{},
		IdleTTL:  50 * time.Millisecond,
	})
	defer reg.Close()

	if err := reg.Get(ctx, "s-1").Store.Set(ctx, fixtureResult(t)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if slot.Len() != 1 {
		t.Fatalf("expected one stored entry, got %d", slot.Len())
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := slot.Load(ctx, "s-1"); errors.Is(err, ErrSlotEmpty) {
			if slot.Len() != 0 {
				t.Fatalf("expected empty slot, got %d entries", slot.Len())
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("slot entry survived eviction")
}

// slowSlot holds every Load until release is closed.
type slowSlot struct {
	*MemorySlot
	release chan struct{}
}

func (s slowSlot) Load(ctx context.Context, sessionID string) ([]byte, error) {
	<-s.release
	return s.MemorySlot.Load(ctx, sessionID)
}

func TestRegistryConcurrentFirstAccessSeesRehydratedResult(t *testing.T) {
	ctx := context.Background()
	slot := slowSlot{MemorySlot: NewMemorySlot(), release: make(chan struct{})}
	result := fixtureResult(t)
	if err := NewStore("s-1", slot.MemorySlot).Set(ctx, result); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reg := NewRegistry(RegistryConfig{Slot: slot, Analyzer: stubAnalyzer{}})
	defer reg.Close()

	const callers = 8
	var wg sync.WaitGroup
	names := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if got, ok := reg.Get(ctx, "s-1").Store.Get(); ok {
				names[i] = got.User.Name
			}
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(slot.release)
	wg.Wait()

	for i, name := range names {
		if name != result.User.Name {
			t.Fatalf("caller %d saw %q before rehydration finished", i, name)
		}
	}
}

func TestRegistryRemoveAndClose(t *testing.T) {
	reg := NewRegistry(RegistryConfig{Analyzer: stubAnalyzer{}})
	ctx := context.Background()

	s := reg.Get(ctx, "s-1")
	reg.Get(ctx, "s-2")
	if !reg.Remove("s-1") {
		t.Fatalf("expected Remove to report true")
	}
	if _, err := s.Assistant.Send("x"); !errors.Is(err, dashboard.ErrAssistantClosed) {
		t.Fatalf("expected removed session to be closed, got %v", err)
	}

	reg.Close()
	if reg.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", reg.Len())
	}
}
