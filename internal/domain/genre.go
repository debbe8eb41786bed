package domain

// genreLabels maps catalog genre tags to their Korean display labels.
var genreLabels = map[string]string{
	"Action":        "액션",
	"Adventure":     "모험",
	"Comedy":        "코미디",
	"Drama":         "드라마",
	"Fantasy":       "판타지",
	"Sci-Fi":        "SF",
	"Romance":       "로맨스",
	"Slice of Life": "일상",
	"Sports":        "스포츠",
	"Thriller":      "스릴러",
	"Horror":        "호러",
	"Supernatural":  "초능력",
	"Mystery":       "미스테리",
	"Psychological": "심리",
	"Mahou Shoujo":  "마법소녀",
	"Mecha":         "메카",
}

// MatureGenres are always excluded from catalog queries.
var MatureGenres = []string{"Ecchi", "Hentai"}

// filterableGenres is the catalog genre vocabulary a caller may filter by.
var filterableGenres = map[string]struct{}{
	"Action": {}, "Adventure": {}, "Comedy": {}, "Drama": {}, "Fantasy": {},
	"Horror": {}, "Mahou Shoujo": {}, "Mecha": {}, "Music": {}, "Mystery": {},
	"Psychological": {}, "Romance": {}, "Sci-Fi": {}, "Slice of Life": {},
	"Sports": {}, "Supernatural": {}, "Thriller": {},
}

// RelabelGenres returns the Korean labels for genres. Unmapped tags pass through.
// A nil input yields an empty, non-nil slice.
func RelabelGenres(genres []string) []string {
	out := make([]string, len(genres))
	for i, g := range genres {
		if label, ok := genreLabels[g]; ok {
			out[i] = label
		} else {
			out[i] = g
		}
	}
	return out
}

// CanonicalGenre resolves a caller-supplied genre (catalog tag or Korean label)
// to the catalog tag. ok is false for anything outside the filterable vocabulary.
func CanonicalGenre(s string) (string, bool) {
	if _, ok := filterableGenres[s]; ok {
		return s, true
	}
	for tag, label := range genreLabels {
		if label == s {
			return tag, true
		}
	}
	return "", false
}
