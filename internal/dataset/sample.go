package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Sample returns a small bundled demo dataset: 100 days of store activity
// with a date, two numeric measures, two categorical dimensions and a
// revenue column. The generator is seeded so the dataset is identical on
// every call.
func Sample() *Dataset {
	const n = 100
	rng := rand.New(rand.NewSource(42))
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	regions := []string{"North", "South", "East", "West"}
	categories := []string{"Electronics", "Clothing", "Food", "Books"}

	rows := make([][]string, 0, n+1)
	rows = append(rows, []string{"date", "sales", "customers", "region", "product_category", "revenue"})
	sales := 0.0
	for i := 0; i < n; i++ {
		sales += rng.NormFloat64()*200 + 1000
		customers := 50 + int(rng.NormFloat64()*7)
		revenue := rng.ExpFloat64() * 500
		rows = append(rows, []string{
			start.AddDate(0, 0, i).Format("2006-01-02"),
			fmt.Sprintf("%.2f", sales),
			fmt.Sprintf("%d", customers),
			regions[rng.Intn(len(regions))],
			categories[rng.Intn(len(categories))],
			fmt.Sprintf("%.2f", math.Abs(revenue)),
		})
	}
	return fromRows(rows)
}
