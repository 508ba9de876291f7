package seeder

import (
	"context"
	"fmt"
)

const minCategories = 5

var defaultCategoryPool = []CategorySeed{
	{Name: "Programming", Description: "Languages and paradigms"},
	{Name: "Data", Description: "SQL, modeling, analytics"},
	{Name: "DevOps", Description: "Infrastructure, CI/CD, cloud"},
	{Name: "Frontend", Description: "UI/UX and frameworks"},
	{Name: "Backend", Description: "APIs and architecture"},
	{Name: "Career", Description: "Soft skills and practices"},
	{Name: "Security", Description: "AppSec and good practices"},
	{Name: "Mobile", Description: "iOS/Android and cross-platform"},
	{Name: "Machine Learning", Description: "Models, training and evaluation"},
	{Name: "Databases", Description: "Storage engines and tuning"},
}

// Categories inserts max(n, 5) categories drawn from the curated pool in
// random order. The pool size caps the result.
func (g *Generator) Categories(ctx context.Context, db DBTX, n int) ([]Category, error) {
	pool := append([]CategorySeed(nil), g.pool...)
	shuffle(g.data, pool)

	want := max(n, minCategories)
	if want > len(pool) {
		g.log.Warn("requested categories exceed the curated pool", "requested", n, "pool", len(pool))
		want = len(pool)
	}

	categories := make([]Category, 0, want)
	for _, seed := range pool[:want] {
		id, err := insertReturningID(ctx, db, qb.Insert("categories").
			Columns("name", "description").
			Values(seed.Name, seed.Description))
		if err != nil {
			return categories, fmt.Errorf("failed to insert category %q: %w", seed.Name, err)
		}
		categories = append(categories, Category{ID: id, Name: seed.Name, Description: seed.Description})
	}
	return categories, nil
}
