package testutil

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/hupe1980/shelfgo/model"
)

// RNG encapsulates a seeded random number generator.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Price returns a pseudo-random price in [0, max) with two decimal places.
func (r *RNG) Price(max float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	cents := r.rand.Int63n(int64(max * 100))
	return float64(cents) / 100
}

// Categories used by generated fixtures.
var Categories = []string{"Electronics", "Furniture", "Books", "Toys", "Garden"}

// Items generates n deterministic items with IDs 1..n.
// Categories cycle through the Categories list; prices are seeded random
// with two decimal places.
func (r *RNG) Items(n int) []model.Item {
	items := make([]model.Item, 0, n)
	for i := range n {
		category := Categories[i%len(Categories)]
		items = append(items, model.Item{
			ID:       int64(i + 1),
			Name:     fmt.Sprintf("%s %03d", category, i+1),
			Category: category,
			Price:    r.Price(1000),
		})
	}
	return items
}
