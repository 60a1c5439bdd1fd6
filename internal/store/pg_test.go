package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var (
	testDB      *gorm.DB
	pgContainer *postgres.PostgresContainer
)

// TestMain sets up the test database before running tests
func TestMain(m *testing.M) {
	ctx := context.Background()

	// Check if we should use an external database (for CI or local development)
	dbHost := os.Getenv("TEST_DB_HOST")
	dbPort := os.Getenv("TEST_DB_PORT")
	dbUser := os.Getenv("TEST_DB_USER")
	dbPassword := os.Getenv("TEST_DB_PASSWORD")
	dbName := os.Getenv("TEST_DB_NAME")

	var dsn string
	var err error

	if dbHost != "" {
		// Use external database
		if dbPort == "" {
			dbPort = "5432"
		}
		if dbUser == "" {
			dbUser = "postgres"
		}
		if dbPassword == "" {
			dbPassword = "postgres"
		}
		if dbName == "" {
			dbName = "test_db"
		}

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			dbHost, dbPort, dbUser, dbPassword, dbName)

		fmt.Printf("Using external database: %s:%s/%s\n", dbHost, dbPort, dbName)
	} else {
		// Start a PostgreSQL container for testing
		pgContainer, err = postgres.Run(ctx,
			"postgres:18-alpine",
			postgres.WithDatabase("test_db"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		if err != nil {
			fmt.Printf("Failed to start PostgreSQL container: %v\n", err)
			os.Exit(1)
		}

		dsn, err = pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			fmt.Printf("Failed to get connection string: %v\n", err)
			if err := pgContainer.Terminate(ctx); err != nil {
				fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
			}
			os.Exit(1)
		}

		fmt.Printf("Started PostgreSQL container\n")
	}

	// Connect to the database
	testDB, err = gorm.Open(pgdriver.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		if pgContainer != nil {
			if err := pgContainer.Terminate(ctx); err != nil {
				fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
			}
		}
		os.Exit(1)
	}

	// Initialize the database schema
	err = initializeTestDatabase(testDB)
	if err != nil {
		fmt.Printf("Failed to initialize database: %v\n", err)
		if pgContainer != nil {
			if err := pgContainer.Terminate(ctx); err != nil {
				fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
			}
		}
		os.Exit(1)
	}

	// Run tests
	code := m.Run()

	// Cleanup
	if pgContainer != nil {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
		}
	}

	os.Exit(code)
}

// initializeTestDatabase runs the schema initialization
func initializeTestDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// Read and execute the schema initialization SQL
	schemaPath := filepath.Join("..", "..", "db", "init_pg_db.sql")
	schemaSQL, err := os.ReadFile(schemaPath) //nolint:gosec,G304
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	_, err = sqlDB.Exec(string(schemaSQL))
	if err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// initPGTestDB initializes a test database for each test
// This function creates a new store instance and ensures clean state
func initPGTestDB(t *testing.T) Store {
	// Start a transaction for test isolation
	tx := testDB.Begin()
	require.NotNil(t, tx)
	require.NoError(t, tx.Error)

	// Store the transaction in test context for cleanup
	t.Cleanup(func() {
		tx.Rollback()
	})

	return NewPGStore(tx)
}

// cleanupPGTestDB is called after each test to clean up
// With transaction-based isolation, this is handled by the t.Cleanup rollback
func cleanupPGTestDB(t *testing.T) {
	// Cleanup is handled by transaction rollback in t.Cleanup
}

// TestPostgreSQLStore runs all store tests against PostgreSQL
func TestPostgreSQLStore(t *testing.T) {
	if testDB == nil {
		t.Fatal("Test database not initialized")
	}

	RunStoreTests(t, initPGTestDB, cleanupPGTestDB)
}

// =============================================================================
// Unit tests for the upsert clause construction
// =============================================================================

func strPtr(s string) *string {
	return &s
}

func TestBuildArtworkUpsert_OnlyPatchedColumnsAssigned(t *testing.T) {
	patch := ArtworkPatch{
		Owner:        strPtr("0xOwner"),
		CurrentPrice: strPtr("100"),
	}

	row, assignments, err := buildArtworkUpsert("0x1", patch)
	require.NoError(t, err)

	assert.Equal(t, "0x1", row.ID)
	assert.Equal(t, "0xOwner", *row.Owner)

	assert.Contains(t, assignments, "owner")
	assert.Contains(t, assignments, "current_price")
	assert.Contains(t, assignments, "updated_at")
	// Columns absent from the patch must not appear: assigning them
	// would clobber stored values on conflict.
	assert.NotContains(t, assignments, "artist")
	assert.NotContains(t, assignments, "name")
	assert.NotContains(t, assignments, "description")
	assert.NotContains(t, assignments, "image")
	assert.NotContains(t, assignments, "metadata_hash")
	assert.NotContains(t, assignments, "sold_price_history")
}

func TestBuildArtworkUpsert_EmptyPatch(t *testing.T) {
	row, assignments, err := buildArtworkUpsert("0x1", ArtworkPatch{})
	require.NoError(t, err)

	assert.Equal(t, "0x1", row.ID)
	// updated_at is always refreshed, nothing else is
	assert.Len(t, assignments, 1)
	assert.Contains(t, assignments, "updated_at")
}

func TestBuildArtworkUpsert_SoldPriceAppends(t *testing.T) {
	patch := ArtworkPatch{
		Owner:     strPtr("0xBuyer"),
		SoldPrice: strPtr("150"),
	}

	row, assignments, err := buildArtworkUpsert("0x1", patch)
	require.NoError(t, err)

	// The insert row carries the single-element array for the initial write
	assert.JSONEq(t, `["150"]`, string(row.SoldPriceHistory))

	// On conflict the history is concatenated in SQL, never replaced
	require.Contains(t, assignments, "sold_price_history")
	expr, ok := assignments["sold_price_history"].(clause.Expr)
	require.True(t, ok)
	assert.Contains(t, expr.SQL, "COALESCE(artworks.sold_price_history, '[]'::jsonb) ||")
}

func TestBuildArtworkUpsert_FullPatch(t *testing.T) {
	patch := ArtworkPatch{
		Owner:        strPtr("0xOwner"),
		Artist:       strPtr("0xArtist"),
		CurrentPrice: strPtr("100"),
		SoldPrice:    strPtr("90"),
		Name:         strPtr("Sunset"),
		Description:  strPtr("desc"),
		Image:        strPtr("ipfs://img"),
		MetadataHash: strPtr("abc"),
	}

	_, assignments, err := buildArtworkUpsert("0xff", patch)
	require.NoError(t, err)

	for _, col := range []string{
		"owner", "artist", "current_price", "sold_price_history",
		"name", "description", "image", "metadata_hash", "updated_at",
	} {
		assert.Contains(t, assignments, col)
	}
	assert.Equal(t, "0xOwner", assignments["owner"])
	assert.Equal(t, "Sunset", assignments["name"])
}
