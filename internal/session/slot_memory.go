package session

import (
	"context"
	"sync"
)

// MemorySlot keeps slot data in process memory and is safe for concurrent use.
// Entries live as long as their session stays in the Registry.
type MemorySlot struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemorySlot constructs a MemorySlot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{data: make(map[string][]byte)}
}

func (s *MemorySlot) Load(ctx context.Context, sessionID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.data[sessionID]
	if !ok {
		return nil, ErrSlotEmpty
	}
	return append([]byte(nil), data...), nil
}

func (s *MemorySlot) Save(ctx context.Context, sessionID string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = append([]byte(nil), data...)
	return nil
}

func (s *MemorySlot) Delete(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

func (s *MemorySlot) volatile() bool { return true }

// Len reports how many sessions currently hold data.
func (s *MemorySlot) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
