package services

import (
	"net/url"
	"sort"
	"strconv"

	"github.com/yeremiapane/burger-storefront/models"
)

const (
	AllCategories        = "ALL"
	MenuPageSize         = 12
	MaxVisibleCategories = 12 // including the All button
)

type SortMode string

const (
	SortNone      SortMode = ""
	SortPriceAsc  SortMode = "price-asc"
	SortPriceDesc SortMode = "price-desc"
)

// ParseSortMode maps unknown values to SortNone.
func ParseSortMode(s string) SortMode {
	switch SortMode(s) {
	case SortPriceAsc, SortPriceDesc:
		return SortMode(s)
	default:
		return SortNone
	}
}

// MenuViewState is the filter, sort and page selection of the menu page.
type MenuViewState struct {
	Category string   `json:"category"`
	Sort     SortMode `json:"sort"`
	Page     int      `json:"page"`
}

// ParseMenuViewState reads the state from a query string. Missing or bad
// values fall back to ALL / no sort / page 1.
func ParseMenuViewState(q url.Values) MenuViewState {
	state := MenuViewState{
		Category: q.Get("category"),
		Sort:     ParseSortMode(q.Get("sort")),
		Page:     1,
	}
	if state.Category == "" {
		state.Category = AllCategories
	}
	if p, err := strconv.Atoi(q.Get("page")); err == nil {
		state.Page = p
	}
	return state
}

// Query encodes the state, leaving defaults out.
func (s MenuViewState) Query() url.Values {
	q := url.Values{}
	if s.Category != "" && s.Category != AllCategories {
		q.Set("category", s.Category)
	}
	if s.Sort != SortNone {
		q.Set("sort", string(s.Sort))
	}
	if s.Page > 1 {
		q.Set("page", strconv.Itoa(s.Page))
	}
	return q
}

// MenuPage is one page of the filtered, sorted catalog.
type MenuPage struct {
	Items       []models.MenuProduct `json:"items"`
	CurrentPage int                  `json:"currentPage"`
	TotalPages  int                  `json:"totalPages"`
	TotalItems  int                  `json:"totalItems"`
}

// CategoryOption is one filter button.
type CategoryOption struct {
	Value  string `json:"value"`
	Active bool   `json:"active"`
	Hidden bool   `json:"hidden"`
}

// MenuView applies MenuViewState to a catalog snapshot.
type MenuView struct {
	products []models.MenuProduct
	state    MenuViewState
	filtered []models.MenuProduct
}

func NewMenuView(products []models.MenuProduct) *MenuView {
	return RestoreMenuView(products, MenuViewState{Category: AllCategories, Page: 1})
}

// RestoreMenuView rebuilds a view from a saved state, clamping the page.
func RestoreMenuView(products []models.MenuProduct, state MenuViewState) *MenuView {
	if state.Category == "" {
		state.Category = AllCategories
	}
	v := &MenuView{products: products, state: state}
	v.recompute()
	return v
}

func (v *MenuView) State() MenuViewState { return v.state }

// SetCategory filters by country and goes back to page 1.
func (v *MenuView) SetCategory(category string) {
	if category == "" {
		category = AllCategories
	}
	v.state.Category = category
	v.state.Page = 1
	v.recompute()
}

// SetSort changes the ordering and goes back to page 1.
func (v *MenuView) SetSort(mode SortMode) {
	v.state.Sort = mode
	v.state.Page = 1
	v.recompute()
}

// SetPage moves to page n, clamped into [1, TotalPages].
func (v *MenuView) SetPage(n int) {
	v.state.Page = clamp(n, 1, v.TotalPages())
}

// Navigate applies a first/prev/next/last control.
func (v *MenuView) Navigate(action PageAction) {
	v.state.Page = ResolvePageAction(action, v.state.Page, v.TotalPages())
}

func (v *MenuView) recompute() {
	filtered := make([]models.MenuProduct, 0, len(v.products))
	for _, p := range v.products {
		if v.state.Category == AllCategories || p.Country == v.state.Category {
			filtered = append(filtered, p)
		}
	}

	switch v.state.Sort {
	case SortPriceAsc:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price < filtered[j].Price })
	case SortPriceDesc:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price > filtered[j].Price })
	}

	v.filtered = filtered
	v.state.Page = clamp(v.state.Page, 1, v.TotalPages())
}

// Filtered returns every item matching the category, in sort order.
func (v *MenuView) Filtered() []models.MenuProduct {
	out := make([]models.MenuProduct, len(v.filtered))
	copy(out, v.filtered)
	return out
}

func (v *MenuView) TotalPages() int {
	pages := (len(v.filtered) + MenuPageSize - 1) / MenuPageSize
	if pages < 1 {
		return 1
	}
	return pages
}

func (v *MenuView) CurrentPage() MenuPage {
	start := (v.state.Page - 1) * MenuPageSize
	end := start + MenuPageSize
	if start > len(v.filtered) {
		start = len(v.filtered)
	}
	if end > len(v.filtered) {
		end = len(v.filtered)
	}
	items := make([]models.MenuProduct, end-start)
	copy(items, v.filtered[start:end])

	return MenuPage{
		Items:       items,
		CurrentPage: v.state.Page,
		TotalPages:  v.TotalPages(),
		TotalItems:  len(v.filtered),
	}
}

// CategoryOptions lists ALL followed by the sorted countries. Buttons past
// MaxVisibleCategories are marked hidden for the "Show more" toggle.
func (v *MenuView) CategoryOptions() []CategoryOption {
	values := append([]string{AllCategories}, distinctCountries(v.products)...)
	opts := make([]CategoryOption, 0, len(values))
	for i, val := range values {
		opts = append(opts, CategoryOption{
			Value:  val,
			Active: val == v.state.Category,
			Hidden: i >= MaxVisibleCategories,
		})
	}
	return opts
}
