package domain

import "time"

// AnonymousAuthor is stored when a review is submitted without a name.
const AnonymousAuthor = "익명"

// Review is a user-submitted review of a catalog item. Immutable once stored.
type Review struct {
	ID        int64
	AnimeID   int
	Username  string
	Rating    int
	Text      string
	CreatedAt time.Time
}
