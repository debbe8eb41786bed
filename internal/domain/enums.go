package domain

// MediaSort is a catalog sort key. Only allow-listed values ever reach a query.
type MediaSort string

const (
	MediaSortScoreDesc      MediaSort = "SCORE_DESC"
	MediaSortPopularityDesc MediaSort = "POPULARITY_DESC"
	MediaSortTrendingDesc   MediaSort = "TRENDING_DESC"
	MediaSortStartDateDesc  MediaSort = "START_DATE_DESC"
	MediaSortFavouritesDesc MediaSort = "FAVOURITES_DESC"
)

func (s MediaSort) String() string { return string(s) }

func (s MediaSort) IsValid() bool {
	switch s {
	case MediaSortScoreDesc, MediaSortPopularityDesc, MediaSortTrendingDesc,
		MediaSortStartDateDesc, MediaSortFavouritesDesc:
		return true
	}
	return false
}

// TranslationKind selects the prompt strategy used for a piece of text.
type TranslationKind string

const (
	TranslationKindTitle    TranslationKind = "title"
	TranslationKindFreeText TranslationKind = "free_text"
)

func (k TranslationKind) String() string { return string(k) }

func (k TranslationKind) IsValid() bool {
	switch k {
	case TranslationKindTitle, TranslationKindFreeText:
		return true
	}
	return false
}
