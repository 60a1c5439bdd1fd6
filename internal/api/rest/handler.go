package rest

import (
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artfolio/artwork-indexer/internal/domain"
	"github.com/artfolio/artwork-indexer/internal/store"
)

var artworkIDPattern = regexp.MustCompile(`^0x[0-9a-f]+$`)

// Handler defines the interface for REST API handlers
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// GetArtwork retrieves a single artwork by its canonical ID
	// GET /api/v1/artworks/:id
	GetArtwork(c *gin.Context)

	// ListArtworks retrieves artworks with optional filters
	// GET /api/v1/artworks?owner=<address>&artist=<address>&for_sale=<bool>&limit=<limit>&offset=<offset>
	ListArtworks(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	store store.Store
}

// NewHandler creates a new REST API handler
func NewHandler(st store.Store) Handler {
	return &handler{store: st}
}

// GetArtwork retrieves a single artwork by its canonical ID. A decimal
// token number is also accepted and normalized to the hex form.
func (h *handler) GetArtwork(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respondBadRequest(c, "Artwork ID is required")
		return
	}

	if !artworkIDPattern.MatchString(id) {
		// Accept a decimal token number as a convenience
		normalized := domain.ArtworkIDFromNumber(id)
		if normalized == "" {
			respondBadRequest(c, "Invalid artwork ID")
			return
		}
		id = normalized
	}

	artwork, err := h.store.GetArtwork(c.Request.Context(), id)
	if err != nil {
		respondInternalError(c, err, "Failed to retrieve artwork", zap.String("artworkID", id))
		return
	}

	if artwork == nil {
		respondNotFound(c, "Artwork not found")
		return
	}

	c.JSON(200, toArtworkDTO(artwork))
}

// ListArtworks retrieves artworks with optional filters
func (h *handler) ListArtworks(c *gin.Context) {
	filter, err := parseListArtworksQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	artworks, total, err := h.store.ListArtworks(c.Request.Context(), filter)
	if err != nil {
		respondInternalError(c, err, "Failed to list artworks")
		return
	}

	dtos := make([]ArtworkDTO, 0, len(artworks))
	for i := range artworks {
		dtos = append(dtos, toArtworkDTO(&artworks[i]))
	}

	c.JSON(200, ListArtworksResponse{
		Artworks: dtos,
		Total:    total,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	})
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "ok",
		"service": "artwork-indexer-api",
	})
}

// parseListArtworksQuery parses and validates listing query parameters
func parseListArtworksQuery(c *gin.Context) (store.ArtworkFilter, error) {
	var filter store.ArtworkFilter

	if owner := c.Query("owner"); owner != "" {
		normalized := domain.NormalizeAddress(owner)
		filter.Owner = &normalized
	}

	if artist := c.Query("artist"); artist != "" {
		normalized := domain.NormalizeAddress(artist)
		filter.Artist = &normalized
	}

	if forSale := c.Query("for_sale"); forSale != "" {
		v, err := strconv.ParseBool(forSale)
		if err != nil {
			return filter, errInvalidParam("for_sale")
		}
		filter.ForSale = &v
	}

	if limit := c.Query("limit"); limit != "" {
		v, err := strconv.Atoi(limit)
		if err != nil || v < 0 {
			return filter, errInvalidParam("limit")
		}
		filter.Limit = v
	}

	if offset := c.Query("offset"); offset != "" {
		v, err := strconv.Atoi(offset)
		if err != nil || v < 0 {
			return filter, errInvalidParam("offset")
		}
		filter.Offset = v
	}

	return filter, nil
}

type invalidParamError struct {
	param string
}

func (e invalidParamError) Error() string {
	return "invalid query parameter: " + e.param
}

func errInvalidParam(param string) error {
	return invalidParamError{param: param}
}
