package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/artfolio/artwork-indexer/internal/domain"
	"github.com/artfolio/artwork-indexer/internal/logger"
	"github.com/artfolio/artwork-indexer/internal/messaging"
)

// Config holds the configuration for the Ethereum event subscription
type Config struct {
	ChainID         domain.Chain // e.g., "eip155:1" for Ethereum mainnet
	ContractAddress string       // marketplace contract address
}

type ethSubscriber struct {
	client   Client
	chainID  domain.Chain
	contract common.Address
}

// NewSubscriber creates a new Ethereum event subscriber for the marketplace contract
func NewSubscriber(cfg Config, client Client) messaging.Subscriber {
	return &ethSubscriber{
		client:   client,
		chainID:  cfg.ChainID,
		contract: common.HexToAddress(cfg.ContractAddress),
	}
}

// SubscribeEvents subscribes to the marketplace contract's events and
// invokes the handler for each decoded event in delivery order
func (s *ethSubscriber) SubscribeEvents(ctx context.Context, fromBlock uint64, handler messaging.EventHandler) error {
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		Addresses: []common.Address{s.contract},
		Topics: [][]common.Hash{
			{
				artworkCreatedEventSignature,
				artworkSoldEventSignature,
				artworkPriceSetEventSignature,
				transferEventSignature,
				approvalEventSignature,
				approvalForAllEventSignature,
			},
		},
	}

	logs := make(chan types.Log)
	sub, err := s.client.SubscribeFilterLogs(ctx, query, logs)
	if err != nil {
		return fmt.Errorf("failed to subscribe to filter logs: %w", err)
	}
	defer func() {
		logger.InfoCtx(ctx, "Unsubscribing from marketplace event logs")
		sub.Unsubscribe()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			return fmt.Errorf("subscription error: %w", err)
		case vLog := <-logs:
			event, err := s.client.ParseEventLog(ctx, vLog)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.ErrorCtx(ctx, err, zap.String("message", "Error parsing log"))
				continue
			}

			if event == nil {
				continue
			}

			if err := handler(event); err != nil {
				logger.ErrorCtx(ctx, err, zap.String("message", "Error handling event"))
			}
		}
	}
}

// GetLatestBlock returns the latest block number
func (s *ethSubscriber) GetLatestBlock(ctx context.Context) (uint64, error) {
	header, err := s.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest block: %w", err)
	}
	return header.Number.Uint64(), nil
}

// Close closes the connection
func (s *ethSubscriber) Close() {
	if s.client == nil {
		return
	}

	s.client.Close()
	logger.Info("Ethereum WebSocket connection closed")
}
