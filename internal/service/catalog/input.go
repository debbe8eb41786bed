package catalog

import (
	"strings"

	"github.com/heartmarshall/anikor-backend/internal/domain"
)

// DefaultSort applies to search and recommendations when none is given.
const DefaultSort = domain.MediaSortScoreDesc

// SearchInput holds the parameters of a catalog search.
type SearchInput struct {
	Query         string
	IncludeMovies bool
	Genre         string
	Sort          string

	genre string
	sort  domain.MediaSort
}

// Validate checks all fields, collects all errors and resolves genre and sort.
func (i *SearchInput) Validate() error {
	var errs []domain.FieldError

	i.Query = strings.TrimSpace(i.Query)
	if i.Query == "" && strings.TrimSpace(i.Genre) == "" {
		errs = append(errs, domain.FieldError{Field: "query", Message: "query or genre is required"})
	}
	if len([]rune(i.Query)) > 200 {
		errs = append(errs, domain.FieldError{Field: "query", Message: "max 200 characters"})
	}
	i.genre, i.sort, errs = resolveFilters(i.Genre, i.Sort, errs)

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// RecommendInput holds the optional filters for recommendations.
type RecommendInput struct {
	Genre string
	Sort  string

	genre string
	sort  domain.MediaSort
}

// Validate checks all fields, collects all errors and resolves genre and sort.
func (i *RecommendInput) Validate() error {
	var errs []domain.FieldError
	i.genre, i.sort, errs = resolveFilters(i.Genre, i.Sort, errs)

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// filtered reports whether a genre or a non-default sort narrows the result set.
func (i *RecommendInput) filtered() bool {
	return i.genre != "" || i.sort != DefaultSort
}

func resolveFilters(genre, sort string, errs []domain.FieldError) (string, domain.MediaSort, []domain.FieldError) {
	var resolvedGenre string
	if g := strings.TrimSpace(genre); g != "" {
		tag, ok := domain.CanonicalGenre(g)
		if !ok {
			errs = append(errs, domain.FieldError{Field: "genre", Message: "unsupported genre"})
		}
		resolvedGenre = tag
	}

	resolvedSort := DefaultSort
	if s := strings.ToUpper(strings.TrimSpace(sort)); s != "" {
		resolvedSort = domain.MediaSort(s)
		if !resolvedSort.IsValid() {
			errs = append(errs, domain.FieldError{Field: "sort", Message: "unsupported sort"})
		}
	}
	return resolvedGenre, resolvedSort, errs
}

// sortKeys adds popularity as the tiebreaker unless it is already the key.
func sortKeys(s domain.MediaSort) []domain.MediaSort {
	if s == domain.MediaSortPopularityDesc {
		return []domain.MediaSort{s}
	}
	return []domain.MediaSort{s, domain.MediaSortPopularityDesc}
}
