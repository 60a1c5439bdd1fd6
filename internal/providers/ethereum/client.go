package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/artfolio/artwork-indexer/internal/adapter"
	"github.com/artfolio/artwork-indexer/internal/domain"
)

// Event signatures emitted by the artwork marketplace contract
var (
	artworkCreatedEventSignature  = crypto.Keccak256Hash([]byte("ArtworkCreated(uint256,address,uint256)"))
	artworkSoldEventSignature     = crypto.Keccak256Hash([]byte("ArtworkSold(uint256,address,uint256)"))
	artworkPriceSetEventSignature = crypto.Keccak256Hash([]byte("ArtworkPriceSet(uint256,uint256)"))

	// ERC721 Transfer(address indexed from, address indexed to, uint256 indexed tokenId)
	transferEventSignature = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

	// ERC721 Approval(address indexed owner, address indexed approved, uint256 indexed tokenId)
	approvalEventSignature = crypto.Keccak256Hash([]byte("Approval(address,address,uint256)"))

	// ERC721 ApprovalForAll(address indexed owner, address indexed operator, bool approved)
	approvalForAllEventSignature = crypto.Keccak256Hash([]byte("ApprovalForAll(address,address,bool)"))
)

// marketplaceEventsABI covers the non-indexed payloads of the marketplace events
const marketplaceEventsABI = `[
	{"anonymous":false,"inputs":[{"indexed":false,"name":"artworkId","type":"uint256"},{"indexed":false,"name":"artist","type":"address"},{"indexed":false,"name":"price","type":"uint256"}],"name":"ArtworkCreated","type":"event"},
	{"anonymous":false,"inputs":[{"indexed":false,"name":"artworkId","type":"uint256"},{"indexed":false,"name":"newOwner","type":"address"},{"indexed":false,"name":"price","type":"uint256"}],"name":"ArtworkSold","type":"event"},
	{"anonymous":false,"inputs":[{"indexed":false,"name":"artworkId","type":"uint256"},{"indexed":false,"name":"price","type":"uint256"}],"name":"ArtworkPriceSet","type":"event"}
]`

var marketplaceABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(marketplaceEventsABI))
	if err != nil {
		panic(fmt.Sprintf("invalid marketplace events ABI: %v", err))
	}
	return parsed
}()

// Client defines the interface for the Ethereum marketplace provider
//
//go:generate mockgen -source=client.go -destination=../../mocks/ethereum_client.go -package=mocks -mock_names=Client=MockEthereumClient
type Client interface {
	// ParseEventLog parses an Ethereum log into a standardized marketplace event
	ParseEventLog(ctx context.Context, vLog types.Log) (*domain.ArtworkEvent, error)

	// SubscribeFilterLogs subscribes to filter logs
	SubscribeFilterLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error)

	// HeaderByNumber returns a header by number
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)

	// TokenURI fetches the metadata locator for an artwork from the contract
	TokenURI(ctx context.Context, contractAddress string, artworkNumber string) (string, error)

	// Close closes the connection
	Close()
}

type ethereumClient struct {
	chainID domain.Chain
	client  adapter.EthClient
	clock   adapter.Clock
}

// NewClient creates a new Ethereum marketplace client
func NewClient(chainID domain.Chain, client adapter.EthClient, clock adapter.Clock) Client {
	return &ethereumClient{chainID: chainID, client: client, clock: clock}
}

// SubscribeFilterLogs subscribes to filter logs
func (c *ethereumClient) SubscribeFilterLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	return c.client.SubscribeFilterLogs(ctx, query, ch)
}

// HeaderByNumber returns a header by number
func (c *ethereumClient) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return c.client.HeaderByNumber(ctx, number)
}

// ParseEventLog parses an Ethereum log into a standardized marketplace event.
// Logs whose topic is none of the marketplace signatures yield (nil, nil).
func (c *ethereumClient) ParseEventLog(ctx context.Context, vLog types.Log) (*domain.ArtworkEvent, error) {
	if len(vLog.Topics) == 0 {
		return nil, fmt.Errorf("log has no topics")
	}

	header, err := c.client.HeaderByNumber(ctx, new(big.Int).SetUint64(vLog.BlockNumber))
	if err != nil {
		return nil, fmt.Errorf("failed to get block header: %w", err)
	}

	blockHash := vLog.BlockHash.Hex()
	event := &domain.ArtworkEvent{
		Chain:           c.chainID,
		ContractAddress: vLog.Address.Hex(),
		TxHash:          vLog.TxHash.Hex(),
		BlockNumber:     vLog.BlockNumber,
		BlockHash:       &blockHash,
		Timestamp:       c.clock.Unix(int64(header.Time), 0), //nolint:gosec,G115 // header.Time is a uint64 from geth which is safe to cast
		LogIndex:        vLog.Index,
	}

	switch vLog.Topics[0] {
	case artworkCreatedEventSignature:
		values, err := marketplaceABI.Unpack("ArtworkCreated", vLog.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to unpack ArtworkCreated event: %w", err)
		}

		artist := values[1].(common.Address).Hex()
		event.EventType = domain.EventTypeArtworkCreated
		event.ArtworkNumber = values[0].(*big.Int).String()
		event.Artist = &artist
		price := values[2].(*big.Int).String()
		event.Price = &price

	case artworkSoldEventSignature:
		values, err := marketplaceABI.Unpack("ArtworkSold", vLog.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to unpack ArtworkSold event: %w", err)
		}

		newOwner := values[1].(common.Address).Hex()
		event.EventType = domain.EventTypeArtworkSold
		event.ArtworkNumber = values[0].(*big.Int).String()
		event.NewOwner = &newOwner
		price := values[2].(*big.Int).String()
		event.Price = &price

	case artworkPriceSetEventSignature:
		values, err := marketplaceABI.Unpack("ArtworkPriceSet", vLog.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to unpack ArtworkPriceSet event: %w", err)
		}

		event.EventType = domain.EventTypeArtworkPriceSet
		event.ArtworkNumber = values[0].(*big.Int).String()
		price := values[1].(*big.Int).String()
		event.Price = &price

	case transferEventSignature:
		// ERC20 Transfer shares this signature but carries only 3 topics
		if len(vLog.Topics) != 4 {
			return nil, nil
		}

		event.EventType = domain.EventTypeTransfer
		event.ArtworkNumber = new(big.Int).SetBytes(vLog.Topics[3].Bytes()).String()

	case approvalEventSignature:
		if len(vLog.Topics) != 4 {
			return nil, fmt.Errorf("invalid Approval event: expected 4 topics, got %d", len(vLog.Topics))
		}

		event.EventType = domain.EventTypeApproval
		event.ArtworkNumber = new(big.Int).SetBytes(vLog.Topics[3].Bytes()).String()

	case approvalForAllEventSignature:
		event.EventType = domain.EventTypeApprovalForAll
		// ApprovalForAll is not scoped to a single artwork; record no number.
		event.ArtworkNumber = "0"

	default:
		// Not a marketplace event
		return nil, nil
	}

	return event, nil
}

// TokenURI fetches the metadata locator for an artwork from the contract
func (c *ethereumClient) TokenURI(ctx context.Context, contractAddress string, artworkNumber string) (string, error) {
	// ERC721 tokenURI function signature: tokenURI(uint256) returns (string)
	tokenURIABI, err := abi.JSON(strings.NewReader(`[{"constant":true,"inputs":[{"name":"tokenId","type":"uint256"}],"name":"tokenURI","outputs":[{"name":"","type":"string"}],"payable":false,"stateMutability":"view","type":"function"}]`))
	if err != nil {
		return "", fmt.Errorf("failed to parse ABI: %w", err)
	}

	tokenID, ok := new(big.Int).SetString(artworkNumber, 10)
	if !ok {
		return "", fmt.Errorf("invalid artwork number: %s", artworkNumber)
	}

	data, err := tokenURIABI.Pack("tokenURI", tokenID)
	if err != nil {
		return "", fmt.Errorf("failed to pack data: %w", err)
	}

	contractAddr := common.HexToAddress(contractAddress)
	result, err := c.client.CallContract(ctx, ethereum.CallMsg{
		To:   &contractAddr,
		Data: data,
	}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to call contract: %w", err)
	}

	var uri string
	if err := tokenURIABI.UnpackIntoInterface(&uri, "tokenURI", result); err != nil {
		return "", fmt.Errorf("failed to unpack result: %w", err)
	}

	return uri, nil
}

// Close closes the connection
func (c *ethereumClient) Close() {
	c.client.Close()
}
