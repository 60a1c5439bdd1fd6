package metadata

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"

	"github.com/artfolio/artwork-indexer/internal/adapter"
	"github.com/artfolio/artwork-indexer/internal/domain"
	"github.com/artfolio/artwork-indexer/internal/logger"
	"github.com/artfolio/artwork-indexer/internal/providers/ethereum"
	"github.com/artfolio/artwork-indexer/internal/providers/ipfs"
)

// Resolver defines the interface for resolving off-chain artwork metadata.
// Resolution is best effort: an unreachable store, a missing document, or
// a malformed one all yield (nil, nil) after a diagnostic log line. Errors
// are reserved for the contract read and transport-level failures; callers
// treat those the same way and never abort on them.
//
//go:generate mockgen -source=resolver.go -destination=../mocks/metadata_resolver.go -package=mocks -mock_names=Resolver=MockMetadataResolver
type Resolver interface {
	// Resolve resolves the descriptive metadata for an artwork
	Resolve(ctx context.Context, contractAddress string, artworkNumber string) (*domain.ArtworkMetadata, error)

	// Hash returns the hex SHA-256 of the canonicalized metadata document
	Hash(meta *domain.ArtworkMetadata) (string, error)
}

type resolver struct {
	ethClient ethereum.Client
	fetcher   ipfs.Fetcher
	json      adapter.JSON
	jcs       adapter.JCS
}

// NewResolver creates a new metadata resolver
func NewResolver(ethClient ethereum.Client, fetcher ipfs.Fetcher, json adapter.JSON, jcs adapter.JCS) Resolver {
	return &resolver{ethClient: ethClient, fetcher: fetcher, json: json, jcs: jcs}
}

func (r *resolver) Resolve(ctx context.Context, contractAddress string, artworkNumber string) (*domain.ArtworkMetadata, error) {
	tokenURI, err := r.ethClient.TokenURI(ctx, contractAddress, artworkNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch token URI: %w", err)
	}

	logger.InfoCtx(ctx, "Resolved token URI", zap.String("uri", tokenURI), zap.String("artworkNumber", artworkNumber))

	data, err := r.fetcher.Fetch(ctx, tokenURI)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata from URI %s: %w", tokenURI, err)
	}

	if data == nil {
		logger.ErrorCtx(ctx, fmt.Errorf("no data for token URI %s", tokenURI))
		return nil, nil
	}

	var doc map[string]interface{}
	if err := r.json.Unmarshal(data, &doc); err != nil {
		// Malformed documents are treated the same as absent ones.
		logger.WarnCtx(ctx, "malformed metadata document", zap.Error(err), zap.String("uri", tokenURI))
		return nil, nil
	}

	name, nameOK := doc["name"].(string)
	description, descriptionOK := doc["description"].(string)
	image, imageOK := doc["image"].(string)
	if !nameOK || !descriptionOK || !imageOK {
		logger.WarnCtx(ctx, "metadata document missing expected keys", zap.String("uri", tokenURI))
		return nil, nil
	}

	return &domain.ArtworkMetadata{
		Name:        name,
		Description: description,
		Image:       image,
		Raw:         data,
	}, nil
}

// Hash returns the hex SHA-256 of the canonicalized metadata document
func (r *resolver) Hash(meta *domain.ArtworkMetadata) (string, error) {
	canonical, err := r.jcs.Transform(meta.Raw)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize metadata: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
