// internal/services/product_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"

	"github.com/danalakshmi/freshtrack-backend/internal/models"
)

func named(names ...string) []models.Product {
	products := make([]models.Product, len(names))
	for i, name := range names {
		products[i] = models.Product{Name: name}
	}
	return products
}

func namesOf(products []models.Product) []string {
	names := make([]string, len(products))
	for i, p := range products {
		names[i] = p.Name
	}
	return names
}

func TestSearchOrderRanksPrefixBeforeLimit(t *testing.T) {
	order := searchOrder("Lait")

	expr, ok := order.Expression.(clause.Expr)
	require.True(t, ok)

	// Ranking happens in the database so the LIMIT cannot drop prefix
	// matches in favor of arbitrary substring hits.
	assert.Contains(t, expr.SQL, "CASE WHEN LOWER(name) LIKE ? THEN 1 ELSE 2 END")
	assert.Contains(t, expr.SQL, "LOWER(name) ASC")
	require.Len(t, expr.Vars, 1)
	assert.Equal(t, "lait%", expr.Vars[0])
}

func TestRankSearchResultsPrefixFirst(t *testing.T) {
	products := named("Crème fraîche", "Lait entier", "Laitue", "Chocolat au lait")

	RankSearchResults(products, "lait")

	// Prefix matches come first, alphabetically, then the rest.
	assert.Equal(t, []string{"Lait entier", "Laitue", "Chocolat au lait", "Crème fraîche"}, namesOf(products))
}

func TestRankSearchResultsCaseInsensitive(t *testing.T) {
	products := named("yaourt nature", "Yaourt grec", "Fromage blanc")

	RankSearchResults(products, "YAOURT")

	assert.Equal(t, []string{"Yaourt grec", "yaourt nature", "Fromage blanc"}, namesOf(products))
}

func TestRankSearchResultsStableWithoutMatches(t *testing.T) {
	products := named("Beurre", "Abricot")

	RankSearchResults(products, "zzz")

	assert.Equal(t, []string{"Abricot", "Beurre"}, namesOf(products))
}
