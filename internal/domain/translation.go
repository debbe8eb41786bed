package domain

import "time"

// Translation is an accepted machine translation, keyed by the exact source text.
type Translation struct {
	ID             int64
	SourceText     string
	TranslatedText string
	UpdatedAt      time.Time
}
