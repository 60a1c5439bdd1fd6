package projector

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/artfolio/artwork-indexer/internal/domain"
	"github.com/artfolio/artwork-indexer/internal/logger"
	"github.com/artfolio/artwork-indexer/internal/metadata"
	"github.com/artfolio/artwork-indexer/internal/store"
)

// zeroPrice marks an artwork as not for sale / just sold
const zeroPrice = "0"

// Projector reduces marketplace events into the projected artwork state.
// Handlers are invoked one at a time in ledger order by the consumer; the
// projector itself holds no synchronization and performs exactly one
// partial upsert per state-changing event.
//
//go:generate mockgen -source=projector.go -destination=../mocks/projector.go -package=mocks -mock_names=Projector=MockProjector
type Projector interface {
	// Dispatch routes an event to the handler for its kind
	Dispatch(ctx context.Context, event *domain.ArtworkEvent) error

	HandleArtworkCreated(ctx context.Context, event *domain.ArtworkEvent) error
	HandleArtworkSold(ctx context.Context, event *domain.ArtworkEvent) error
	HandleArtworkPriceSet(ctx context.Context, event *domain.ArtworkEvent) error
	HandleTransfer(ctx context.Context, event *domain.ArtworkEvent) error
	HandleApproval(ctx context.Context, event *domain.ArtworkEvent) error
	HandleApprovalForAll(ctx context.Context, event *domain.ArtworkEvent) error
}

type projector struct {
	store    store.Store
	resolver metadata.Resolver
}

// New creates a new projector
func New(st store.Store, resolver metadata.Resolver) Projector {
	return &projector{store: st, resolver: resolver}
}

// Dispatch routes an event to the handler for its kind. Unknown event
// types are logged and ignored.
func (p *projector) Dispatch(ctx context.Context, event *domain.ArtworkEvent) error {
	switch event.EventType {
	case domain.EventTypeArtworkCreated:
		return p.HandleArtworkCreated(ctx, event)
	case domain.EventTypeArtworkSold:
		return p.HandleArtworkSold(ctx, event)
	case domain.EventTypeArtworkPriceSet:
		return p.HandleArtworkPriceSet(ctx, event)
	case domain.EventTypeTransfer:
		return p.HandleTransfer(ctx, event)
	case domain.EventTypeApproval:
		return p.HandleApproval(ctx, event)
	case domain.EventTypeApprovalForAll:
		return p.HandleApprovalForAll(ctx, event)
	default:
		logger.WarnCtx(ctx, "Ignoring unknown event type", zap.String("eventType", string(event.EventType)))
		return nil
	}
}

// HandleArtworkCreated creates the artwork projection: owner and artist
// both start as the creator, currentPrice is the initial listing price.
// Metadata enrichment runs synchronously as part of the same invocation
// and fails open: the authoritative fields are committed no matter what.
// Re-creation of an existing id overwrites those fields; this mirrors the
// contract's behavior of treating creation as an assertion, not a guard.
func (p *projector) HandleArtworkCreated(ctx context.Context, event *domain.ArtworkEvent) error {
	id := event.EntityID()

	patch := store.ArtworkPatch{
		Owner:        event.Artist,
		Artist:       event.Artist,
		CurrentPrice: event.Price,
	}

	meta, err := p.resolver.Resolve(ctx, event.ContractAddress, event.ArtworkNumber)
	if err != nil {
		// Enrichment is best effort; the creation write must not depend
		// on the content network being reachable.
		logger.WarnCtx(ctx, "metadata enrichment failed",
			zap.String("artworkID", id),
			zap.Error(err))
	} else if meta != nil {
		patch.Name = &meta.Name
		patch.Description = &meta.Description
		patch.Image = &meta.Image

		if hash, err := p.resolver.Hash(meta); err != nil {
			logger.WarnCtx(ctx, "failed to hash metadata", zap.String("artworkID", id), zap.Error(err))
		} else {
			patch.MetadataHash = &hash
		}
	}

	if err := p.store.UpsertArtwork(ctx, id, patch); err != nil {
		return fmt.Errorf("failed to project artwork creation: %w", err)
	}

	logger.InfoCtx(ctx, "Projected artwork creation",
		zap.String("artworkID", id),
		zap.Bool("enriched", meta != nil))

	return nil
}

// HandleArtworkSold transfers ownership to the buyer, appends the sale
// price to the history, and zeroes the listing price. The write is a pure
// partial update; fields not named here keep their stored values.
func (p *projector) HandleArtworkSold(ctx context.Context, event *domain.ArtworkEvent) error {
	id := event.EntityID()

	zero := zeroPrice
	patch := store.ArtworkPatch{
		Owner:        event.NewOwner,
		SoldPrice:    event.Price,
		CurrentPrice: &zero,
	}

	if err := p.store.UpsertArtwork(ctx, id, patch); err != nil {
		return fmt.Errorf("failed to project artwork sale: %w", err)
	}

	logger.InfoCtx(ctx, "Projected artwork sale", zap.String("artworkID", id))

	return nil
}

// HandleArtworkPriceSet overwrites the listing price; everything else
// keeps its stored value.
func (p *projector) HandleArtworkPriceSet(ctx context.Context, event *domain.ArtworkEvent) error {
	id := event.EntityID()

	patch := store.ArtworkPatch{
		CurrentPrice: event.Price,
	}

	if err := p.store.UpsertArtwork(ctx, id, patch); err != nil {
		return fmt.Errorf("failed to project artwork price: %w", err)
	}

	logger.InfoCtx(ctx, "Projected artwork price", zap.String("artworkID", id))

	return nil
}

// HandleTransfer is a no-op: only the explicit sale event is authoritative
// for ownership changes.
func (p *projector) HandleTransfer(ctx context.Context, event *domain.ArtworkEvent) error {
	return nil
}

// HandleApproval is a no-op
func (p *projector) HandleApproval(ctx context.Context, event *domain.ArtworkEvent) error {
	return nil
}

// HandleApprovalForAll is a no-op
func (p *projector) HandleApprovalForAll(ctx context.Context, event *domain.ArtworkEvent) error {
	return nil
}
