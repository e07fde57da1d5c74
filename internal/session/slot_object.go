package session

import (
	"bytes"
	"context"
	"errors"
	"io"

	"medreport/internal/shared/storage/object"
	"medreport/internal/shared/util"
)

// ObjectSlot stores each session's data as one JSON object in an object store
// (local filesystem or S3). Session ids are hashed before they reach a key.
type ObjectSlot struct {
	Store object.ObjectStore
}

func (s *ObjectSlot) key(sessionID string) string {
	return util.SessionObjectKey(sessionID, StorageKey)
}

func (s *ObjectSlot) Load(ctx context.Context, sessionID string) ([]byte, error) {
	rc, err := s.Store.Open(ctx, s.key(sessionID))
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return nil, ErrSlotEmpty
		}
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (s *ObjectSlot) Save(ctx context.Context, sessionID string, data []byte) error {
	_, err := s.Store.SaveWithKey(ctx, s.key(sessionID), "application/json", bytes.NewReader(data))
	return err
}

func (s *ObjectSlot) Delete(ctx context.Context, sessionID string) error {
	err := s.Store.Delete(ctx, s.key(sessionID))
	if errors.Is(err, object.ErrNotFound) {
		return nil
	}
	return err
}
