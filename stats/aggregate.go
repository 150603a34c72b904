package stats

import (
	"github.com/hupe1980/shelfgo/model"
	"github.com/shopspring/decimal"
)

// Aggregate computes the derived statistics over a full item collection.
//
// The empty collection yields the all-zero result with an empty (non-nil)
// category map; no division by zero. The average price is rounded to two
// decimal places, half away from zero — prices are non-negative, so this is
// round-half-up on the hundredths digit.
func Aggregate(items []model.Item) model.Statistics {
	stats := model.Statistics{
		Categories: make(map[string]int, 8),
	}
	if len(items) == 0 {
		return stats
	}

	stats.Total = len(items)

	sum := decimal.Zero
	minPrice := items[0].Price
	maxPrice := items[0].Price
	for _, it := range items {
		// A missing price decodes as 0, matching insert-time validation
		// which forbids negative prices. Defensive only.
		price := it.Price
		sum = sum.Add(decimal.NewFromFloat(price))
		if price < minPrice {
			minPrice = price
		}
		if price > maxPrice {
			maxPrice = price
		}
		stats.Categories[it.Category]++
	}

	avg, _ := sum.DivRound(decimal.NewFromInt(int64(stats.Total)), 2).Float64()
	stats.AveragePrice = avg
	stats.PriceRange = model.PriceRange{Min: minPrice, Max: maxPrice}
	return stats
}
