package services

import (
	"sort"

	"bodyfuel/internal/domain"
	"bodyfuel/internal/repos"
)

// Criteria is the catalog filter set. Criteria AND together; a zero-value
// criterion is a pass-through.
type Criteria struct {
	Category string
	PriceMin float64
	PriceMax float64
	Brands   []string
	Dietary  []string
	Goals    []string
}

type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortRating    SortKey = "rating"
	SortNewest    SortKey = "newest"
)

// Size price multipliers. A fixed table, deliberately not proportional to
// the actual weight.
const (
	sizeSmall  = "1kg"
	sizeMedium = "2kg"
	sizeLarge  = "5kg"

	multiplierMedium = 1.8
	multiplierLarge  = 4.2
)

type CatalogService struct {
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

func (s *CatalogService) List() ([]domain.Product, error) {
	return s.Prods.List()
}

func (s *CatalogService) Get(id int) (domain.Product, error) {
	return s.Prods.Get(id)
}

// Filter applies the criteria over the product list. Pure; input order kept.
func Filter(products []domain.Product, c Criteria) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if c.Category != "" && p.Category != c.Category {
			continue
		}
		if c.PriceMin > 0 && p.Price < c.PriceMin {
			continue
		}
		if c.PriceMax > 0 && p.Price > c.PriceMax {
			continue
		}
		if len(c.Brands) > 0 && !contains(c.Brands, p.Brand) {
			continue
		}
		if len(c.Dietary) > 0 && !intersects(c.Dietary, p.Dietary) {
			continue
		}
		if len(c.Goals) > 0 && !intersects(c.Goals, p.Goals) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SortProducts orders a copy of the list by the given key. Relevance keeps
// the input order.
func SortProducts(products []domain.Product, key SortKey) []domain.Product {
	sorted := make([]domain.Product, len(products))
	copy(sorted, products)

	switch key {
	case SortPriceAsc:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Price < sorted[j].Price })
	case SortPriceDesc:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Price > sorted[j].Price })
	case SortRating:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Rating > sorted[j].Rating })
	case SortNewest:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID > sorted[j].ID })
	}
	return sorted
}

// SizeOptions expands a product into its three purchasable sizes.
func SizeOptions(p domain.Product) []domain.SizeOption {
	return []domain.SizeOption{
		{Weight: sizeSmall, Price: p.Price, Available: true},
		{Weight: sizeMedium, Price: p.Price * multiplierMedium, Available: true},
		{Weight: sizeLarge, Price: p.Price * multiplierLarge, Available: true},
	}
}

// SizePrice returns the unit price for a size; unknown sizes fall back to
// the base price.
func SizePrice(p domain.Product, size string) float64 {
	switch size {
	case sizeMedium:
		return p.Price * multiplierMedium
	case sizeLarge:
		return p.Price * multiplierLarge
	default:
		return p.Price
	}
}

// Recommended returns up to limit in-stock products from the same category,
// excluding the given product.
func (s *CatalogService) Recommended(category string, excludeID, limit int) ([]domain.Product, error) {
	all, err := s.Prods.List()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, limit)
	for _, p := range all {
		if p.ID == excludeID || !p.InStock {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// FilterOptions lists the distinct filterable values present in the catalog.
type FilterOptions struct {
	Categories []string `json:"categories"`
	Brands     []string `json:"brands"`
	Dietary    []string `json:"dietary"`
	Goals      []string `json:"goals"`
}

func (s *CatalogService) Options() (FilterOptions, error) {
	all, err := s.Prods.List()
	if err != nil {
		return FilterOptions{}, err
	}
	var opts FilterOptions
	for _, p := range all {
		opts.Categories = appendUnique(opts.Categories, p.Category)
		opts.Brands = appendUnique(opts.Brands, p.Brand)
		for _, d := range p.Dietary {
			opts.Dietary = appendUnique(opts.Dietary, d)
		}
		for _, g := range p.Goals {
			opts.Goals = appendUnique(opts.Goals, g)
		}
	}
	return opts, nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func intersects(want, have []string) bool {
	for _, w := range want {
		if contains(have, w) {
			return true
		}
	}
	return false
}

func appendUnique(set []string, v string) []string {
	if contains(set, v) {
		return set
	}
	return append(set, v)
}
