// Package query turns storefront filters into store predicates.
//
// A Predicate is built once from a domain.PlantFilter and rendered for
// whichever backend holds the plants: SQL for Postgres, BSON for MongoDB,
// or evaluated directly against in-memory records with Match. Match is the
// reference semantics; the other renderings must select the same plants.
package query

import (
	"strings"

	"plant-store/internal/domain"
)

// Predicate is the combined filter condition over the plant collection.
// The zero value matches every plant.
type Predicate struct {
	search      string
	category    string
	inStockOnly bool
}

// Build translates the optional filter parameters into a Predicate.
func Build(filter domain.PlantFilter) Predicate {
	p := Predicate{inStockOnly: filter.InStockOnly}
	if filter.HasSearch() {
		p.search = filter.Search
	}
	if filter.HasCategory() {
		p.category = filter.Category
	}
	return p
}

// IsEmpty reports whether the predicate imposes no constraint at all.
func (p Predicate) IsEmpty() bool {
	return p.search == "" && p.category == "" && !p.inStockOnly
}

// Match evaluates the predicate against a single plant.
func (p Predicate) Match(plant domain.Plant) bool {
	if p.search != "" && !matchesSearch(plant, p.search) {
		return false
	}
	if p.category != "" && !containsExact(plant.Categories, p.category) {
		return false
	}
	if p.inStockOnly && !plant.InStock {
		return false
	}
	return true
}

func matchesSearch(plant domain.Plant, term string) bool {
	needle := strings.ToLower(term)
	if strings.Contains(strings.ToLower(plant.Name), needle) {
		return true
	}
	for _, c := range plant.Categories {
		if strings.Contains(strings.ToLower(c), needle) {
			return true
		}
	}
	return false
}

func containsExact(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
