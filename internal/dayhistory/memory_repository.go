package dayhistory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/paulmach/orb/geojson"
)

// MemoryMetaStore is an in-process MetaStore, used in tests and as the
// fallback system of record when persistent storage is unavailable.
type MemoryMetaStore struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryMetaStore returns an empty in-memory metadata store.
func NewMemoryMetaStore() *MemoryMetaStore {
	return &MemoryMetaStore{}
}

// ReadMeta returns the stored record or ErrMetaNotFound.
func (s *MemoryMetaStore) ReadMeta(_ context.Context) (Meta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return Meta{}, ErrMetaNotFound
	}
	var meta Meta
	if err := json.Unmarshal(s.data, &meta); err != nil {
		return Meta{}, err
	}
	return meta, nil
}

// WriteMeta stores a serialized copy so later mutations of the caller's
// value cannot leak into the store.
func (s *MemoryMetaStore) WriteMeta(_ context.Context, meta Meta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

// MemoryPathStore is an in-process PathStore keyed by day id.
type MemoryPathStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// NewMemoryPathStore returns an empty in-memory path store.
func NewMemoryPathStore() *MemoryPathStore {
	return &MemoryPathStore{blobs: make(map[string][]byte)}
}

// ReadPath returns the stored geometry for a day or ErrPathNotFound.
func (s *MemoryPathStore) ReadPath(_ context.Context, dayID string) (*geojson.FeatureCollection, error) {
	s.mu.Lock()
	data, ok := s.blobs[dayID]
	s.mu.Unlock()

	if !ok {
		return nil, ErrPathNotFound
	}
	return geojson.UnmarshalFeatureCollection(data)
}

// WritePath stores a serialized copy of the geometry.
func (s *MemoryPathStore) WritePath(_ context.Context, dayID string, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[dayID] = data
	return nil
}
