package domain

import "strings"

// UnknownTitle is shown when the catalog has neither an English nor a romanized title.
const UnknownTitle = "Unknown Title"

// MediaTitle holds the title variants reported by the catalog.
// Empty strings mean the catalog returned null.
type MediaTitle struct {
	Romaji  string
	English string
	Native  string
}

// Preferred returns the English title, falling back to romaji and then UnknownTitle.
func (t MediaTitle) Preferred() string {
	if s := strings.TrimSpace(t.English); s != "" {
		return s
	}
	if s := strings.TrimSpace(t.Romaji); s != "" {
		return s
	}
	return UnknownTitle
}

// Matches reports whether term is a case-insensitive substring of the
// English or romanized title.
func (t MediaTitle) Matches(term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(t.English), term) ||
		strings.Contains(strings.ToLower(t.Romaji), term)
}

// Anime is a catalog item as returned by list queries. Never persisted.
type Anime struct {
	ID           int
	Title        MediaTitle
	Genres       []string
	Episodes     *int
	CoverImage   string
	AverageScore *int
}

// FuzzyDate is a partially known calendar date.
type FuzzyDate struct {
	Year  *int `json:"year"`
	Month *int `json:"month"`
	Day   *int `json:"day"`
}

// StaffCredit pairs a staff member with their role on a title.
type StaffCredit struct {
	Name string
	Role string
}

// AnimeDetail extends Anime with the fields only the detail query returns.
type AnimeDetail struct {
	Anime
	Description string
	StartDate   FuzzyDate
	EndDate     FuzzyDate
	Characters  []string
	Staff       []StaffCredit
	Studios     []string
}

// MediaFilter describes a single catalog page query. Zero values mean
// "argument omitted".
type MediaFilter struct {
	Page                int
	PerPage             int
	Search              string
	Genre               string
	ExcludedGenres      []string
	EpisodesGreater     *int
	AverageScoreGreater *int
	Sort                []MediaSort
}
