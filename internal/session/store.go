package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"medreport/internal/report"
	"medreport/internal/shared/metrics"
	"medreport/internal/shared/telemetry"
)

// Rehydration results reported to metrics.
const (
	RehydrateRestored = "restored"
	RehydrateEmpty    = "empty"
	RehydrateCorrupt  = "corrupt"
	RehydrateError    = "error"
)

// Store holds the current analysis result of one session and mirrors it to a Slot.
// It is safe for concurrent use.
type Store struct {
	sessionID string
	slot      Slot

	mu         sync.RWMutex
	result     *report.AnalysisResult
	rehydrated bool
}

// NewStore constructs an empty Store. A nil slot keeps the data in memory only.
func NewStore(sessionID string, slot Slot) *Store {
	return &Store{sessionID: sessionID, slot: slot}
}

// SessionID returns the id the store persists under.
func (s *Store) SessionID() string {
	return s.sessionID
}

// Get returns the current result, if any.
func (s *Store) Get() (*report.AnalysisResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result, s.result != nil
}

// Set replaces the stored result and persists it. On a persist error the
// in-memory value is still replaced and the error is returned.
func (s *Store) Set(ctx context.Context, result *report.AnalysisResult) error {
	if result == nil {
		return errors.New("session: nil result")
	}
	data, err := report.Encode(result)
	if err != nil {
		return fmt.Errorf("session: encode result: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = result
	s.rehydrated = true
	if s.slot == nil {
		return nil
	}
	if err := s.slot.Save(ctx, s.sessionID, data); err != nil {
		telemetry.Error("session.persist_failed", map[string]any{
			"session_id": s.sessionID,
			"error":      err.Error(),
		})
		return fmt.Errorf("session: persist %s: %w", StorageKey, err)
	}
	return nil
}

// Clear drops the stored result in memory and in the slot.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = nil
	s.rehydrated = true
	if s.slot == nil {
		return nil
	}
	if err := s.slot.Delete(ctx, s.sessionID); err != nil {
		return fmt.Errorf("session: delete %s: %w", StorageKey, err)
	}
	return nil
}

// Rehydrate loads a previously persisted result. It only does work on its
// first call and never fails: absent or unreadable data leaves the store empty.
// It reports whether a result was restored.
func (s *Store) Rehydrate(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rehydrated {
		return false
	}
	s.rehydrated = true
	if s.slot == nil {
		return false
	}

	data, err := s.slot.Load(ctx, s.sessionID)
	switch {
	case errors.Is(err, ErrSlotEmpty):
		metrics.RecordRehydration(RehydrateEmpty)
		return false
	case err != nil:
		metrics.RecordRehydration(RehydrateError)
		telemetry.Error("session.rehydrate_failed", map[string]any{
			"session_id": s.sessionID,
			"error":      err.Error(),
		})
		return false
	}

	result, err := report.Load(data)
	if err != nil {
		metrics.RecordRehydration(RehydrateCorrupt)
		telemetry.Info("session.rehydrate_corrupt", map[string]any{
			"session_id": s.sessionID,
			"bytes":      len(data),
		})
		return false
	}
	s.result = result
	metrics.RecordRehydration(RehydrateRestored)
	return true
}
