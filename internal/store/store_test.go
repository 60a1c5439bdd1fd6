package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Data Builders
// =============================================================================

// buildCreationPatch mirrors the write the projector issues for a creation
// event: the minter is both owner and artist, listed at the initial price.
func buildCreationPatch(minter, price string) ArtworkPatch {
	return ArtworkPatch{
		Owner:        &minter,
		Artist:       &minter,
		CurrentPrice: &price,
	}
}

// buildSalePatch mirrors the write for a sale event: ownership moves to the
// buyer, the listing price is zeroed, and the sale price joins the history.
func buildSalePatch(buyer, price string) ArtworkPatch {
	zero := "0"
	return ArtworkPatch{
		Owner:        &buyer,
		CurrentPrice: &zero,
		SoldPrice:    &price,
	}
}

// =============================================================================
// Test: UpsertArtwork
// =============================================================================

func testUpsertArtworkLifecycle(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("creation then sales then relisting merges into one row", func(t *testing.T) {
		id := "0x1"
		artist := "0xaaaa000000000000000000000000000000000001"
		buyer1 := "0xbbbb000000000000000000000000000000000002"
		buyer2 := "0xcccc000000000000000000000000000000000003"

		require.NoError(t, store.UpsertArtwork(ctx, id, buildCreationPatch(artist, "100")))
		require.NoError(t, store.UpsertArtwork(ctx, id, buildSalePatch(buyer1, "150")))
		require.NoError(t, store.UpsertArtwork(ctx, id, buildSalePatch(buyer2, "300")))
		require.NoError(t, store.UpsertArtwork(ctx, id, ArtworkPatch{CurrentPrice: strPtr("200")}))

		artwork, err := store.GetArtwork(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, artwork)

		// The artist from the creation write survives the later patches
		// that never mentioned it.
		assert.Equal(t, artist, *artwork.Artist)
		assert.Equal(t, buyer2, *artwork.Owner)
		assert.Equal(t, "200", *artwork.CurrentPrice)
		// Each sale appended in order; nothing was replaced.
		assert.JSONEq(t, `["150", "300"]`, string(artwork.SoldPriceHistory))
	})

	t.Run("patch leaves unmentioned columns untouched", func(t *testing.T) {
		id := "0x2"
		require.NoError(t, store.UpsertArtwork(ctx, id, ArtworkPatch{
			Owner:        strPtr("0xdddd000000000000000000000000000000000004"),
			Artist:       strPtr("0xdddd000000000000000000000000000000000004"),
			CurrentPrice: strPtr("500"),
			Name:         strPtr("Sunset"),
			Description:  strPtr("oil on canvas"),
			Image:        strPtr("ipfs://QmImage"),
			MetadataHash: strPtr("deadbeef"),
		}))

		require.NoError(t, store.UpsertArtwork(ctx, id, ArtworkPatch{CurrentPrice: strPtr("600")}))

		artwork, err := store.GetArtwork(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, artwork)

		assert.Equal(t, "600", *artwork.CurrentPrice)
		assert.Equal(t, "Sunset", *artwork.Name)
		assert.Equal(t, "oil on canvas", *artwork.Description)
		assert.Equal(t, "ipfs://QmImage", *artwork.Image)
		assert.Equal(t, "deadbeef", *artwork.MetadataHash)
		assert.Empty(t, artwork.SoldPriceHistory)
	})

	t.Run("sale for an unseen artwork creates the row", func(t *testing.T) {
		id := "0x3"
		buyer := "0xeeee000000000000000000000000000000000005"

		require.NoError(t, store.UpsertArtwork(ctx, id, buildSalePatch(buyer, "150")))

		artwork, err := store.GetArtwork(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, artwork)
		assert.Equal(t, buyer, *artwork.Owner)
		assert.Nil(t, artwork.Artist)
		assert.JSONEq(t, `["150"]`, string(artwork.SoldPriceHistory))
	})
}

// =============================================================================
// Test: GetArtwork
// =============================================================================

func testGetArtwork(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("absent artwork returns nil without error", func(t *testing.T) {
		artwork, err := store.GetArtwork(ctx, "0xdead")
		require.NoError(t, err)
		assert.Nil(t, artwork)
	})
}

// =============================================================================
// Test: ListArtworks
// =============================================================================

func testListArtworks(t *testing.T, store Store) {
	ctx := context.Background()

	alice := "0xaaaa000000000000000000000000000000000001"
	bob := "0xbbbb000000000000000000000000000000000002"

	require.NoError(t, store.UpsertArtwork(ctx, "0x10", buildCreationPatch(alice, "100")))
	require.NoError(t, store.UpsertArtwork(ctx, "0x11", buildCreationPatch(alice, "0")))
	require.NoError(t, store.UpsertArtwork(ctx, "0x12", buildCreationPatch(bob, "250")))

	t.Run("no filter returns everything", func(t *testing.T) {
		artworks, total, err := store.ListArtworks(ctx, ArtworkFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, artworks, 3)
	})

	t.Run("owner filter", func(t *testing.T) {
		artworks, total, err := store.ListArtworks(ctx, ArtworkFilter{Owner: &alice})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, a := range artworks {
			assert.Equal(t, alice, *a.Owner)
		}
	})

	t.Run("artist filter", func(t *testing.T) {
		artworks, total, err := store.ListArtworks(ctx, ArtworkFilter{Artist: &bob})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, artworks, 1)
		assert.Equal(t, "0x12", artworks[0].ID)
	})

	t.Run("for_sale filter splits on price", func(t *testing.T) {
		forSale := true
		artworks, total, err := store.ListArtworks(ctx, ArtworkFilter{ForSale: &forSale})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		ids := make([]string, 0, len(artworks))
		for _, a := range artworks {
			ids = append(ids, a.ID)
		}
		assert.ElementsMatch(t, []string{"0x10", "0x12"}, ids)

		notForSale := false
		artworks, total, err = store.ListArtworks(ctx, ArtworkFilter{ForSale: &notForSale})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, artworks, 1)
		assert.Equal(t, "0x11", artworks[0].ID)
	})

	t.Run("limit caps the page but not the total", func(t *testing.T) {
		artworks, total, err := store.ListArtworks(ctx, ArtworkFilter{Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, artworks, 1)
	})
}

// =============================================================================
// Test: BlockCursor
// =============================================================================

func testBlockCursor(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("unset cursor reads as zero", func(t *testing.T) {
		block, err := store.GetBlockCursor(ctx, "ethereum")
		require.NoError(t, err)
		assert.Equal(t, uint64(0), block)
	})

	t.Run("set then get round-trips and overwrites", func(t *testing.T) {
		require.NoError(t, store.SetBlockCursor(ctx, "ethereum", 12345))

		block, err := store.GetBlockCursor(ctx, "ethereum")
		require.NoError(t, err)
		assert.Equal(t, uint64(12345), block)

		require.NoError(t, store.SetBlockCursor(ctx, "ethereum", 12400))

		block, err = store.GetBlockCursor(ctx, "ethereum")
		require.NoError(t, err)
		assert.Equal(t, uint64(12400), block)
	})

	t.Run("cursors are independent per chain", func(t *testing.T) {
		require.NoError(t, store.SetBlockCursor(ctx, "ethereum", 100))

		block, err := store.GetBlockCursor(ctx, "sepolia")
		require.NoError(t, err)
		assert.Equal(t, uint64(0), block)
	})
}

// =============================================================================
// Runner
// =============================================================================

// RunStoreTests runs the store test suite against any Store implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"UpsertArtworkLifecycle", testUpsertArtworkLifecycle},
		{"GetArtwork", testGetArtwork},
		{"ListArtworks", testListArtworks},
		{"BlockCursor", testBlockCursor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
