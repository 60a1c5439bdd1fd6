package rest

import (
	"encoding/json"
	"time"

	"github.com/artfolio/artwork-indexer/internal/store/schema"
)

// ArtworkDTO is the wire representation of an artwork projection
type ArtworkDTO struct {
	ID               string    `json:"id"`
	Owner            *string   `json:"owner"`
	Artist           *string   `json:"artist"`
	CurrentPrice     *string   `json:"current_price"`
	SoldPriceHistory []string  `json:"sold_price_history"`
	Name             *string   `json:"name,omitempty"`
	Description      *string   `json:"description,omitempty"`
	Image            *string   `json:"image,omitempty"`
	MetadataHash     *string   `json:"metadata_hash,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ListArtworksResponse is the paginated listing envelope
type ListArtworksResponse struct {
	Artworks []ArtworkDTO `json:"artworks"`
	Total    int64        `json:"total"`
	Limit    int          `json:"limit"`
	Offset   int          `json:"offset"`
}

// toArtworkDTO converts a stored artwork into its wire representation
func toArtworkDTO(artwork *schema.Artwork) ArtworkDTO {
	history := []string{}
	if len(artwork.SoldPriceHistory) > 0 {
		// Stored as a JSONB array of decimal strings; a decode failure
		// leaves the history empty rather than failing the request.
		_ = json.Unmarshal(artwork.SoldPriceHistory, &history)
	}

	return ArtworkDTO{
		ID:               artwork.ID,
		Owner:            artwork.Owner,
		Artist:           artwork.Artist,
		CurrentPrice:     artwork.CurrentPrice,
		SoldPriceHistory: history,
		Name:             artwork.Name,
		Description:      artwork.Description,
		Image:            artwork.Image,
		MetadataHash:     artwork.MetadataHash,
		CreatedAt:        artwork.CreatedAt,
		UpdatedAt:        artwork.UpdatedAt,
	}
}
