package dayhistory

import (
	"context"
	"errors"

	"github.com/paulmach/orb/geojson"
)

// Store errors.
var (
	ErrMetaNotFound = errors.New("day history meta not found")
	ErrPathNotFound = errors.New("day path not found")
)

// MetaStore persists the single day-history metadata record.
type MetaStore interface {
	ReadMeta(ctx context.Context) (Meta, error)
	WriteMeta(ctx context.Context, meta Meta) error
}

// PathStore persists uploaded path geometry, one FeatureCollection per day
// id. It is addressable only by day id.
type PathStore interface {
	ReadPath(ctx context.Context, dayID string) (*geojson.FeatureCollection, error)
	WritePath(ctx context.Context, dayID string, fc *geojson.FeatureCollection) error
}
