package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/shelfgo/model"
)

// ErrNotFound is returned when no item with the requested ID exists.
var ErrNotFound = errors.New("item not found")

// DefaultPageSize is used when the requested page size is absent or invalid.
const DefaultPageSize = 10

// Accessor is the slice of the item store the query layer depends on.
type Accessor interface {
	ReadAll(ctx context.Context) ([]model.Item, error)
}

// ListOptions select and window a listing.
type ListOptions struct {
	// Page is 1-based; values < 1 default to 1.
	Page int
	// PageSize defaults to DefaultPageSize when < 1.
	PageSize int
	// Search keeps an item iff its name or category contains the term as a
	// case-insensitive substring. Empty keeps everything.
	Search string
}

// Querier answers list and point lookups over the collection.
//
// It is stateless: every call re-reads through the accessor, so results are
// a pure function of the current dataset and the query. Listing does not
// cache because the collection is already in memory for the call's duration
// and the statistics cache covers the expensive derived path.
type Querier struct {
	store Accessor
}

// New creates a Querier over the given accessor.
func New(store Accessor) *Querier {
	return &Querier{store: store}
}

// List returns the requested page of (optionally filtered) items.
//
// Out-of-range pages yield an empty slice, not an error.
func (q *Querier) List(ctx context.Context, opts ListOptions) ([]model.Item, model.PageInfo, error) {
	items, err := q.store.ReadAll(ctx)
	if err != nil {
		return nil, model.PageInfo{}, err
	}

	if term := strings.TrimSpace(opts.Search); term != "" {
		items = filter(items, term)
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	pageSize := opts.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	totalItems := len(items)
	totalPages := totalItems / pageSize
	if totalItems%pageSize != 0 {
		totalPages++
	}

	info := model.PageInfo{
		Page:        page,
		PageSize:    pageSize,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1 && totalItems > 0,
	}

	// page and pageSize arrive from untrusted query parameters, and
	// (page-1)*pageSize overflows for attacker-sized pages. Out-of-range
	// pages return the empty window before any offset arithmetic runs.
	if page > totalPages {
		return []model.Item{}, info, nil
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > totalItems {
		end = totalItems
	}
	return items[start:end], info, nil
}

// Get returns the item with the given ID, scanning the collection linearly.
func (q *Querier) Get(ctx context.Context, id int64) (model.Item, error) {
	items, err := q.store.ReadAll(ctx)
	if err != nil {
		return model.Item{}, err
	}
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	return model.Item{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

func filter(items []model.Item, term string) []model.Item {
	term = strings.ToLower(term)
	kept := make([]model.Item, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), term) ||
			strings.Contains(strings.ToLower(it.Category), term) {
			kept = append(kept, it)
		}
	}
	return kept
}
