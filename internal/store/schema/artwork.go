package schema

import (
	"time"

	"gorm.io/datatypes"
)

// Artwork represents the artworks table, the projected current state of
// each artwork derived from the marketplace event stream.
type Artwork struct {
	// ID is the canonical artwork identifier: the hex-encoded on-chain
	// token number (e.g. "0x1"). Immutable once created.
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Owner is the current holder address. Set at creation, overwritten on every sale.
	Owner *string `gorm:"column:owner;type:text"`
	// Artist is the original creator address. Set once at creation.
	Artist *string `gorm:"column:artist;type:text"`
	// CurrentPrice is the listing price as a decimal string. Zero means
	// "not for sale" / "just sold". NUMERIC(78,0) covers the full uint256 range.
	CurrentPrice *string `gorm:"column:current_price;type:numeric(78,0)"`
	// SoldPriceHistory is the append-only JSONB array of historical sale
	// prices (decimal strings). NULL until the first sale.
	SoldPriceHistory datatypes.JSON `gorm:"column:sold_price_history;type:jsonb"`
	// Name, Description, Image are the descriptive fields populated from
	// off-chain metadata; NULL when enrichment failed or has not run.
	Name        *string `gorm:"column:name;type:text"`
	Description *string `gorm:"column:description;type:text"`
	Image       *string `gorm:"column:image;type:text"`
	// MetadataHash is the hex SHA-256 of the canonicalized (JCS) metadata
	// document, recorded when enrichment succeeds.
	MetadataHash *string `gorm:"column:metadata_hash;type:text"`

	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the Artwork model
func (Artwork) TableName() string {
	return "artworks"
}
