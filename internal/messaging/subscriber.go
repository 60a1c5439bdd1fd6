package messaging

import (
	"context"

	"github.com/artfolio/artwork-indexer/internal/domain"
)

// EventHandler is called when a new marketplace event is received
type EventHandler func(event *domain.ArtworkEvent) error

// Subscriber defines the interface for subscribing to marketplace events
//
//go:generate mockgen -source=subscriber.go -destination=../mocks/subscriber.go -package=mocks -mock_names=Subscriber=MockSubscriber
type Subscriber interface {
	// SubscribeEvents subscribes to marketplace contract events.
	// fromBlock: starting point for subscription (0 for latest)
	// handler: callback invoked for each decoded event
	SubscribeEvents(ctx context.Context, fromBlock uint64, handler EventHandler) error

	// GetLatestBlock returns the latest block number
	GetLatestBlock(ctx context.Context) (uint64, error)

	// Close closes the connection and cleans up resources
	Close()
}
