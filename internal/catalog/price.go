package catalog

import (
	"math"

	"github.com/guarzo/gamematch/internal/model"
)

// Cheapest scans hits in order and returns the lowest price with its link.
// Only a strictly lower price replaces the current best, so the earliest of
// several equal minimums wins. With no hits the result has Found=false.
func Cheapest(query string, hits []model.CatalogHit) model.BestPrice {
	best := model.BestPrice{Query: query}
	lowest := math.Inf(1)

	for _, hit := range hits {
		if hit.Price < lowest {
			lowest = hit.Price
			best.Price = hit.Price
			best.Permalink = hit.Permalink
			best.Found = true
		}
	}

	return best
}
