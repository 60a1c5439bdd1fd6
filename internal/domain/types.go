package domain

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Chain represents the blockchain network identifier using CAIP-2 format
type Chain string

const (
	ChainEthereumMainnet Chain = "eip155:1"
	ChainEthereumSepolia Chain = "eip155:11155111"
)

// IsValidChain checks if a chain is valid
func IsValidChain(chain Chain) bool {
	return chain == ChainEthereumMainnet || chain == ChainEthereumSepolia
}

// Network returns the short network family name used in NATS subjects
func (c Chain) Network() string {
	return "ethereum"
}

// EventType represents the type of marketplace event
type EventType string

const (
	EventTypeArtworkCreated  EventType = "artwork_created"
	EventTypeArtworkSold     EventType = "artwork_sold"
	EventTypeArtworkPriceSet EventType = "artwork_price_set"
	EventTypeTransfer        EventType = "transfer"
	EventTypeApproval        EventType = "approval"
	EventTypeApprovalForAll  EventType = "approval_for_all"
)

// ArtworkEvent represents a normalized marketplace event.
// This is the standard format published to NATS.
type ArtworkEvent struct {
	Chain           Chain     `json:"chain"`                // e.g., "eip155:1"
	ContractAddress string    `json:"contract_address"`     // marketplace contract address
	EventType       EventType `json:"event_type"`           // artwork_created, artwork_sold, ...
	ArtworkNumber   string    `json:"artwork_number"`       // token ID as a decimal string (supports >64-bit values)
	Artist          *string   `json:"artist,omitempty"`     // creator address (artwork_created only)
	NewOwner        *string   `json:"new_owner,omitempty"`  // buyer address (artwork_sold only)
	Price           *string   `json:"price,omitempty"`      // decimal price string (created/sold/price_set)
	TxHash          string    `json:"tx_hash"`              // transaction hash
	BlockNumber     uint64    `json:"block_number"`         // block number
	BlockHash       *string   `json:"block_hash,omitempty"` // block hash
	Timestamp       time.Time `json:"timestamp"`            // block timestamp
	LogIndex        uint      `json:"log_index"`            // log index in the block (for ordering)
}

// EntityID derives the stored artwork identifier from the on-chain token
// number: the minimal 0x-prefixed hex encoding of the integer.
func (e *ArtworkEvent) EntityID() string {
	return ArtworkIDFromNumber(e.ArtworkNumber)
}

// Valid checks that the event carries the fields its type requires
func (e *ArtworkEvent) Valid() bool {
	if !validArtworkNumber(e.ArtworkNumber) {
		return false
	}

	switch e.EventType {
	case EventTypeArtworkCreated:
		if e.Artist == nil || !common.IsHexAddress(*e.Artist) {
			return false
		}
		if e.Price == nil || !validPrice(*e.Price) {
			return false
		}
	case EventTypeArtworkSold:
		if e.NewOwner == nil || !common.IsHexAddress(*e.NewOwner) {
			return false
		}
		if e.Price == nil || !validPrice(*e.Price) {
			return false
		}
	case EventTypeArtworkPriceSet:
		if e.Price == nil || !validPrice(*e.Price) {
			return false
		}
	case EventTypeTransfer, EventTypeApproval, EventTypeApprovalForAll:
		// Observed but never projected; no payload requirements.
	default:
		return false
	}

	return true
}

// ArtworkMetadata holds the descriptive fields extracted from an
// off-chain metadata document.
type ArtworkMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	// Raw is the original document, kept for canonical hashing.
	Raw []byte `json:"-"`
}

// ArtworkIDFromNumber converts a decimal token number into the canonical
// artwork identifier, the minimal hex encoding with a 0x prefix (e.g. "1"
// becomes "0x1", "255" becomes "0xff").
func ArtworkIDFromNumber(number string) string {
	n, ok := new(big.Int).SetString(number, 10)
	if !ok {
		return ""
	}
	return fmt.Sprintf("0x%s", n.Text(16))
}

// NormalizeAddress normalizes an Ethereum address to its EIP-55 checksum form
func NormalizeAddress(address string) string {
	if strings.HasPrefix(address, "0x") {
		return common.HexToAddress(address).Hex()
	}
	return address
}

var artworkNumberPattern = regexp.MustCompile(`^[0-9]+$`)

// validArtworkNumber checks if a token number is a decimal integer
func validArtworkNumber(number string) bool {
	return artworkNumberPattern.MatchString(number)
}

// validPrice checks if a price is a non-negative decimal integer
func validPrice(price string) bool {
	n, ok := new(big.Int).SetString(price, 10)
	return ok && n.Sign() >= 0
}
