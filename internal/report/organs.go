package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// OrganEntry is one organ keyed by its name in the payload.
type OrganEntry struct {
	Key   string
	Organ Organ
}

// OrganHealth keeps organs in the order the service sent them.
type OrganHealth struct {
	entries []OrganEntry
}

// NewOrganHealth builds an OrganHealth from ordered entries. Later duplicates win.
func NewOrganHealth(entries ...OrganEntry) OrganHealth {
	var oh OrganHealth
	for _, e := range entries {
		oh.set(e.Key, e.Organ)
	}
	return oh
}

func (oh *OrganHealth) set(key string, organ Organ) {
	for i := range oh.entries {
		if oh.entries[i].Key == key {
			oh.entries[i].Organ = organ
			return
		}
	}
	oh.entries = append(oh.entries, OrganEntry{Key: key, Organ: organ})
}

// Entries returns a copy of the organs in payload order.
func (oh OrganHealth) Entries() []OrganEntry {
	out := make([]OrganEntry, len(oh.entries))
	copy(out, oh.entries)
	return out
}

// Get returns the organ stored under key.
func (oh OrganHealth) Get(key string) (Organ, bool) {
	for _, e := range oh.entries {
		if e.Key == key {
			return e.Organ, true
		}
	}
	return Organ{}, false
}

func (oh OrganHealth) Len() int {
	return len(oh.entries)
}

func (oh *OrganHealth) UnmarshalJSON(data []byte) error {
	*oh = OrganHealth{}
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("organHealth: expected object")
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("organHealth: unexpected key %v", keyTok)
		}
		var organ Organ
		if err := dec.Decode(&organ); err != nil {
			return fmt.Errorf("organHealth.%s: %w", key, err)
		}
		oh.set(key, organ)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

func (oh OrganHealth) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range oh.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Organ)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
