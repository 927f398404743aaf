package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saksham2694/drone-meds-express/internal/catalog"
)

func setupTestDB(t *testing.T) *catalog.Repository {
	// Use in-memory database for tests
	repo, err := catalog.NewRepository(":memory:")
	require.NoError(t, err)

	require.NoError(t, repo.RunMigrations("./migrations"))

	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestGetAllProducts_ReturnsSeedCatalog(t *testing.T) {
	repo := setupTestDB(t)

	products, err := repo.GetAllProducts(context.Background())
	require.NoError(t, err)

	assert.Len(t, products, 8) // migration seeds 8 medicines
	assert.Equal(t, "Paracetamol", products[0].Name)
	assert.InDelta(t, 5.99, products[0].Price, 0.001)
}

func TestGetAllProducts_CancelledContext(t *testing.T) {
	repo := setupTestDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.GetAllProducts(ctx)
	assert.Error(t, err)
}

func TestGetProduct_ReturnsProduct(t *testing.T) {
	repo := setupTestDB(t)

	product, err := repo.GetProduct(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, "Cetirizine", product.Name)
	assert.Equal(t, "Allergy", product.Category)
	assert.False(t, product.CreatedAt.After(time.Now()))
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetProduct(context.Background(), 999)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestGetProductsByCategory(t *testing.T) {
	repo := setupTestDB(t)

	products, err := repo.GetProductsByCategory(context.Background(), "Pain Relief")
	require.NoError(t, err)

	assert.Len(t, products, 3)
	for _, p := range products {
		assert.Equal(t, "Pain Relief", p.Category)
	}
}

func TestGetProductsByCategory_Unknown(t *testing.T) {
	repo := setupTestDB(t)

	products, err := repo.GetProductsByCategory(context.Background(), "Homeopathy")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestGetCategories(t *testing.T) {
	repo := setupTestDB(t)

	categories, err := repo.GetCategories(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Allergy", "Antibiotics", "Digestive Health", "Pain Relief", "Vitamins"}, categories)
}
