package catalog

import "github.com/heartmarshall/anikor-backend/internal/domain"

// Item is a catalog entry with its title translated and genres relabeled.
type Item struct {
	ID           int
	Title        string
	Genres       []string
	Episodes     *int
	CoverImage   string
	AverageScore *int
}

// Detail is a fully localized catalog entry.
type Detail struct {
	Item
	Description string
	StartDate   domain.FuzzyDate
	EndDate     domain.FuzzyDate
	Characters  []string
	Staff       []domain.StaffCredit
	Studios     []string
}
