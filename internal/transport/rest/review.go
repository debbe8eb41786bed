package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/heartmarshall/anikor-backend/internal/domain"
	"github.com/heartmarshall/anikor-backend/internal/service/review"
)

// createdAtLayout is the minute-precision timestamp shown next to reviews.
const createdAtLayout = "2006-01-02 15:04"

type reviewService interface {
	Add(ctx context.Context, in review.AddInput) (*domain.Review, error)
	List(ctx context.Context, animeID int) ([]domain.Review, error)
}

// ReviewHandler serves the review endpoints.
type ReviewHandler struct {
	svc reviewService
	log *slog.Logger
}

// NewReviewHandler creates a ReviewHandler.
func NewReviewHandler(svc reviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{svc: svc, log: logger.With("handler", "review")}
}

type reviewResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Rating    int    `json:"rating"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

// Add handles POST /api/review.
func (h *ReviewHandler) Add(w http.ResponseWriter, r *http.Request) {
	var in review.AddInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, msgBadBody)
		return
	}

	created, err := h.svc.Add(r.Context(), in)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeData(w, http.StatusCreated, toReviewResponse(*created))
}

// List handles GET /api/reviews/{animeId}.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	animeID, err := strconv.Atoi(r.PathValue("animeId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidPath)
		return
	}

	reviews, err := h.svc.List(r.Context(), animeID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]reviewResponse, len(reviews))
	for i, rv := range reviews {
		out[i] = toReviewResponse(rv)
	}
	writeData(w, http.StatusOK, out)
}

func toReviewResponse(rv domain.Review) reviewResponse {
	return reviewResponse{
		ID:        rv.ID,
		Username:  rv.Username,
		Rating:    rv.Rating,
		Text:      rv.Text,
		CreatedAt: rv.CreatedAt.Format(createdAtLayout),
	}
}
