package model

// Item is a single catalog record.
//
// Items are immutable once created: there is no update or delete operation.
// IDs are assigned at append time and grow monotonically with creation order.
type Item struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// PriceRange is the observed min/max price over a collection.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Statistics is the derived aggregate over the full item collection.
//
// Invariant: if Total == 0, all numeric fields are zero and Categories is
// empty. AveragePrice is rounded to two decimal places (half up), so
// Total*AveragePrice tracks the price sum only within rounding tolerance.
type Statistics struct {
	Total        int            `json:"total"`
	AveragePrice float64        `json:"averagePrice"`
	Categories   map[string]int `json:"categories"`
	PriceRange   PriceRange     `json:"priceRange"`
}

// PageInfo describes the pagination window of a list result.
//
// TotalItems counts items after search filtering, before pagination.
type PageInfo struct {
	Page        int  `json:"page"`
	PageSize    int  `json:"pageSize"`
	TotalItems  int  `json:"totalItems"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}
