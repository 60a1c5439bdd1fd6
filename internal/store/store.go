package store

import (
	"context"

	"github.com/artfolio/artwork-indexer/internal/store/schema"
)

// ArtworkPatch describes a partial update of an artwork record. Only the
// non-nil fields are written; everything else keeps its stored value
// (merge-on-write). SoldPrice is special: it is appended to the stored
// sold_price_history array rather than replacing it.
type ArtworkPatch struct {
	Owner        *string
	Artist       *string
	CurrentPrice *string
	// SoldPrice, when set, appends one element to sold_price_history.
	SoldPrice    *string
	Name         *string
	Description  *string
	Image        *string
	MetadataHash *string
}

// ArtworkFilter narrows ListArtworks results
type ArtworkFilter struct {
	Owner  *string
	Artist *string
	// ForSale filters on current_price > 0 when true, = 0 when false
	ForSale *bool
	Limit   int
	Offset  int
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// UpsertArtwork creates the artwork if absent, otherwise merges the
	// patch into the existing record. Fields absent from the patch are
	// left untouched; writes never require a prior read.
	UpsertArtwork(ctx context.Context, id string, patch ArtworkPatch) error
	// GetArtwork retrieves an artwork by its canonical ID; nil if absent
	GetArtwork(ctx context.Context, id string) (*schema.Artwork, error)
	// ListArtworks retrieves a page of artworks plus the total count
	ListArtworks(ctx context.Context, filter ArtworkFilter) ([]schema.Artwork, int64, error)
	// GetBlockCursor retrieves the last processed block number for a chain
	GetBlockCursor(ctx context.Context, chain string) (uint64, error)
	// SetBlockCursor stores the last processed block number for a chain
	SetBlockCursor(ctx context.Context, chain string, blockNumber uint64) error
}
