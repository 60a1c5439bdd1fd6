package ipfs

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/artfolio/artwork-indexer/internal/adapter"
	"github.com/artfolio/artwork-indexer/internal/logger"
)

// Config holds configuration for the content fetcher
type Config struct {
	// Gateways is the list of IPFS gateway base URLs to try
	Gateways []string
}

// Fetcher retrieves documents from the content-addressed store.
//
//go:generate mockgen -source=fetcher.go -destination=../../mocks/fetcher.go -package=mocks -mock_names=Fetcher=MockFetcher
type Fetcher interface {
	// Fetch retrieves the document located by uri. It accepts ipfs://
	// URIs, bare CID paths, gateway URLs containing /ipfs/, plain
	// HTTP(S) URLs, and data: URIs. A nil result with nil error means
	// the document is unavailable; that is an expected condition, not
	// a failure.
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

type fetcher struct {
	httpClient adapter.HTTPClient
	config     Config
}

// NewFetcher creates a new content fetcher
func NewFetcher(httpClient adapter.HTTPClient, config Config) Fetcher {
	return &fetcher{httpClient: httpClient, config: config}
}

func (f *fetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	switch {
	case strings.HasPrefix(uri, "data:"):
		return parseDataURI(uri)
	case strings.HasPrefix(uri, "ipfs://"):
		return f.fetchFromGateways(ctx, strings.TrimPrefix(uri, "ipfs://"))
	case strings.Contains(uri, "/ipfs/"):
		// Gateway URL: extract the CID path and fan out across our own
		// gateways instead of depending on someone's private one.
		parts := strings.SplitN(uri, "/ipfs/", 2)
		return f.fetchFromGateways(ctx, parts[1])
	case strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://"):
		return f.httpClient.Get(ctx, uri)
	default:
		// Bare CID path (e.g. "QmXxx/metadata.json")
		return f.fetchFromGateways(ctx, uri)
	}
}

// fetchFromGateways tries all configured gateways in parallel and returns
// the first document found. All gateways missing the document is absence,
// not an error.
func (f *fetcher) fetchFromGateways(ctx context.Context, cidPath string) ([]byte, error) {
	if len(f.config.Gateways) == 0 {
		return nil, fmt.Errorf("no IPFS gateways configured")
	}

	type result struct {
		data []byte
		err  error
	}

	results := make(chan result, len(f.config.Gateways))

	for _, gateway := range f.config.Gateways {
		go func(gw string) {
			url := fmt.Sprintf("%s/ipfs/%s", strings.TrimSuffix(gw, "/"), cidPath)
			data, err := f.httpClient.Get(ctx, url)
			results <- result{data: data, err: err}
		}(gateway)
	}

	for range f.config.Gateways {
		res := <-results
		if res.err == nil && res.data != nil {
			return res.data, nil
		}
		if res.err != nil {
			logger.DebugCtx(ctx, "IPFS gateway fetch failed", zap.Error(res.err), zap.String("cid", cidPath))
		}
	}

	return nil, nil
}

// parseDataURI decodes an inline data: URI
// (data:application/json;base64,<data> or data:application/json,<data>)
func parseDataURI(uri string) ([]byte, error) {
	parts := strings.SplitN(uri[5:], ",", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid data URI format")
	}

	if strings.Contains(parts[0], "base64") {
		decoded, err := base64.StdEncoding.DecodeString(parts[1])
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 data URI: %w", err)
		}
		return decoded, nil
	}

	return []byte(parts[1]), nil
}
