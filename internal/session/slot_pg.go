package session

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGSlot implements Slot using the session_slots table.
type PGSlot struct {
	DB *sql.DB
	// TTL sets expires_at on every save. Zero keeps rows until they are overwritten or deleted.
	TTL time.Duration
	now func() time.Time
}

func (s *PGSlot) clock() time.Time {
	if s.now != nil {
		return s.now().UTC()
	}
	return time.Now().UTC()
}

func (s *PGSlot) Load(ctx context.Context, sessionID string) ([]byte, error) {
	const query = `
SELECT payload
FROM session_slots
WHERE session_id = $1 AND slot_key = $2 AND (expires_at IS NULL OR expires_at > $3)`
	var payload []byte
	err := s.DB.QueryRowContext(ctx, query, sessionID, StorageKey, s.clock()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *PGSlot) Save(ctx context.Context, sessionID string, data []byte) error {
	const query = `
INSERT INTO session_slots (session_id, slot_key, payload, updated_at, expires_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (session_id, slot_key) DO UPDATE
SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at, expires_at = EXCLUDED.expires_at`
	now := s.clock()
	var expiresAt any
	if s.TTL > 0 {
		expiresAt = now.Add(s.TTL)
	}
	_, err := s.DB.ExecContext(ctx, query, sessionID, StorageKey, data, now, expiresAt)
	return err
}

func (s *PGSlot) Delete(ctx context.Context, sessionID string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM session_slots WHERE session_id = $1 AND slot_key = $2`, sessionID, StorageKey)
	return err
}

// PurgeExpired removes rows whose expiry has passed and returns how many were deleted.
func (s *PGSlot) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM session_slots WHERE expires_at IS NOT NULL AND expires_at <= $1`, s.clock())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
