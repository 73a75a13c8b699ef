package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// CachedItem is a locally persisted copy of a remote record. The full server
// payload is kept verbatim so display fields survive a round trip through the
// cache; the extracted columns exist only for local filtering.
type CachedItem struct {
	LocalID    string
	Resource   Resource
	RemoteID   int
	Name       string
	Type       string
	Category   string
	Difficulty int
	Payload    []byte
	SyncedAt   time.Time
}

// NewCachedMusic wraps a fetched music item for cache insertion.
func NewCachedMusic(m MusicItem) (CachedItem, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return CachedItem{}, fmt.Errorf("failed to encode music item %d: %w", m.ID, err)
	}

	return CachedItem{
		Resource:   ResourceMusic,
		RemoteID:   m.ID,
		Name:       m.Title,
		Type:       m.Type,
		Category:   m.Category,
		Difficulty: m.Difficulty,
		Payload:    payload,
		SyncedAt:   time.Now().UTC(),
	}, nil
}

// NewCachedScout wraps a fetched scout content item for cache insertion.
func NewCachedScout(s ScoutItem) (CachedItem, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return CachedItem{}, fmt.Errorf("failed to encode scout item %d: %w", s.ID, err)
	}

	return CachedItem{
		Resource:   ResourceScout,
		RemoteID:   s.ID,
		Name:       s.Name,
		Type:       s.Type,
		Category:   s.Category,
		Difficulty: s.Difficulty,
		Payload:    payload,
		SyncedAt:   time.Now().UTC(),
	}, nil
}

// Music decodes the cached payload back into a [MusicItem].
func (c CachedItem) Music() (MusicItem, error) {
	if c.Resource != ResourceMusic {
		return MusicItem{}, fmt.Errorf("cached item %s is %s, not music", c.LocalID, c.Resource)
	}

	var m MusicItem
	if err := json.Unmarshal(c.Payload, &m); err != nil {
		return MusicItem{}, fmt.Errorf("failed to decode cached music item: %w", err)
	}
	return m, nil
}

// Scout decodes the cached payload back into a [ScoutItem].
func (c CachedItem) Scout() (ScoutItem, error) {
	if c.Resource != ResourceScout {
		return ScoutItem{}, fmt.Errorf("cached item %s is %s, not scout content", c.LocalID, c.Resource)
	}

	var s ScoutItem
	if err := json.Unmarshal(c.Payload, &s); err != nil {
		return ScoutItem{}, fmt.Errorf("failed to decode cached scout item: %w", err)
	}
	return s, nil
}
