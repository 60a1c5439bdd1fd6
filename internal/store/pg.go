package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/artfolio/artwork-indexer/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a
// GORM database connection. Zero values fall back to defaults.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// buildArtworkUpsert builds the insert row and the ON CONFLICT assignment
// set for a partial artwork write. Only columns present in the patch end
// up in the assignment map, which is what preserves unset fields across
// writes. sold_price_history is assigned a JSONB concatenation expression
// so appends never read the existing row.
func buildArtworkUpsert(id string, patch ArtworkPatch) (schema.Artwork, map[string]interface{}, error) {
	row := schema.Artwork{
		ID:           id,
		Owner:        patch.Owner,
		Artist:       patch.Artist,
		CurrentPrice: patch.CurrentPrice,
		Name:         patch.Name,
		Description:  patch.Description,
		Image:        patch.Image,
		MetadataHash: patch.MetadataHash,
	}

	assignments := map[string]interface{}{
		"updated_at": gorm.Expr("now()"),
	}
	if patch.Owner != nil {
		assignments["owner"] = *patch.Owner
	}
	if patch.Artist != nil {
		assignments["artist"] = *patch.Artist
	}
	if patch.CurrentPrice != nil {
		assignments["current_price"] = *patch.CurrentPrice
	}
	if patch.Name != nil {
		assignments["name"] = *patch.Name
	}
	if patch.Description != nil {
		assignments["description"] = *patch.Description
	}
	if patch.Image != nil {
		assignments["image"] = *patch.Image
	}
	if patch.MetadataHash != nil {
		assignments["metadata_hash"] = *patch.MetadataHash
	}
	if patch.SoldPrice != nil {
		history, err := json.Marshal([]string{*patch.SoldPrice})
		if err != nil {
			return schema.Artwork{}, nil, fmt.Errorf("failed to marshal sold price: %w", err)
		}
		row.SoldPriceHistory = datatypes.JSON(history)
		assignments["sold_price_history"] = gorm.Expr("COALESCE(artworks.sold_price_history, '[]'::jsonb) || EXCLUDED.sold_price_history")
	}

	return row, assignments, nil
}

// UpsertArtwork creates the artwork if absent, otherwise merges the patch
// into the existing record
func (s *pgStore) UpsertArtwork(ctx context.Context, id string, patch ArtworkPatch) error {
	row, assignments, err := buildArtworkUpsert(id, patch)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(assignments),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert artwork %s: %w", id, err)
	}

	return nil
}

// GetArtwork retrieves an artwork by its canonical ID
func (s *pgStore) GetArtwork(ctx context.Context, id string) (*schema.Artwork, error) {
	var artwork schema.Artwork
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&artwork).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artwork %s: %w", id, err)
	}

	return &artwork, nil
}

// ListArtworks retrieves a page of artworks plus the total count
func (s *pgStore) ListArtworks(ctx context.Context, filter ArtworkFilter) ([]schema.Artwork, int64, error) {
	query := s.db.WithContext(ctx).Model(&schema.Artwork{})

	if filter.Owner != nil {
		query = query.Where("owner = ?", *filter.Owner)
	}
	if filter.Artist != nil {
		query = query.Where("artist = ?", *filter.Artist)
	}
	if filter.ForSale != nil {
		if *filter.ForSale {
			query = query.Where("current_price > 0")
		} else {
			query = query.Where("current_price = 0")
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count artworks: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var artworks []schema.Artwork
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&artworks).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list artworks: %w", err)
	}

	return artworks, total, nil
}

// GetBlockCursor retrieves the last processed block number for a chain
func (s *pgStore) GetBlockCursor(ctx context.Context, chain string) (uint64, error) {
	key := fmt.Sprintf("block_cursor:%s", chain)

	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get block cursor: %w", err)
	}

	blockNumber, err := strconv.ParseUint(kv.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse block cursor: %w", err)
	}

	return blockNumber, nil
}

// SetBlockCursor stores the last processed block number for a chain
func (s *pgStore) SetBlockCursor(ctx context.Context, chain string, blockNumber uint64) error {
	kv := schema.KeyValueStore{
		Key:   fmt.Sprintf("block_cursor:%s", chain),
		Value: strconv.FormatUint(blockNumber, 10),
	}

	err := s.db.WithContext(ctx).Save(&kv).Error
	if err != nil {
		return fmt.Errorf("failed to set block cursor: %w", err)
	}

	return nil
}
