package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/heartmarshall/anikor-backend/internal/domain"
	"github.com/heartmarshall/anikor-backend/internal/service/catalog"
)

const popularCacheKey = "popular"

type catalogService interface {
	Search(ctx context.Context, in catalog.SearchInput) ([]catalog.Item, error)
	Popular(ctx context.Context) ([]catalog.Item, error)
	Recommendations(ctx context.Context, in catalog.RecommendInput) ([]catalog.Item, error)
	Detail(ctx context.Context, id int) (*catalog.Detail, error)
}

// AnimeHandler serves the catalog endpoints.
type AnimeHandler struct {
	svc         catalogService
	popular     *expirable.LRU[string, []itemResponse]
	popularFill singleflight.Group
	log         *slog.Logger
}

// NewAnimeHandler creates an AnimeHandler. A zero popularTTL disables the
// popular list cache.
func NewAnimeHandler(svc catalogService, logger *slog.Logger, popularTTL time.Duration) *AnimeHandler {
	h := &AnimeHandler{svc: svc, log: logger.With("handler", "anime")}
	if popularTTL > 0 {
		h.popular = expirable.NewLRU[string, []itemResponse](1, nil, popularTTL)
	}
	return h
}

type itemResponse struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Genres       []string `json:"genres"`
	Episodes     *int     `json:"episodes"`
	CoverImage   string   `json:"coverImage"`
	AverageScore *int     `json:"averageScore"`
}

type staffResponse struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type detailResponse struct {
	itemResponse
	Description string           `json:"description"`
	StartDate   domain.FuzzyDate `json:"startDate"`
	EndDate     domain.FuzzyDate `json:"endDate"`
	Characters  []string         `json:"characters"`
	Staff       []staffResponse  `json:"staff"`
	Studios     []string         `json:"studios"`
}

// Search handles GET /api/search_anime.
func (h *AnimeHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.svc.Search(r.Context(), catalog.SearchInput{
		Query:         q.Get("query"),
		IncludeMovies: queryBool(q.Get("includeMovies")),
		Genre:         q.Get("genre"),
		Sort:          q.Get("sort"),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeData(w, http.StatusOK, toItemResponses(items))
}

// Popular handles GET /api/popular_anime. Concurrent misses share one
// catalog fetch.
func (h *AnimeHandler) Popular(w http.ResponseWriter, r *http.Request) {
	if h.popular != nil {
		if cached, ok := h.popular.Get(popularCacheKey); ok {
			writeData(w, http.StatusOK, cached)
			return
		}
	}

	v, err, _ := h.popularFill.Do(popularCacheKey, func() (any, error) {
		// Callers that join this flight must not fail because the first one left.
		items, err := h.svc.Popular(context.WithoutCancel(r.Context()))
		if err != nil {
			return nil, err
		}
		resp := toItemResponses(items)
		if h.popular != nil {
			h.popular.Add(popularCacheKey, resp)
		}
		return resp, nil
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeData(w, http.StatusOK, v.([]itemResponse))
}

// Recommendations handles GET /api/recommendations.
func (h *AnimeHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.svc.Recommendations(r.Context(), catalog.RecommendInput{
		Genre: q.Get("genre"),
		Sort:  q.Get("sort"),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeData(w, http.StatusOK, toItemResponses(items))
}

// Detail handles GET /api/anime_detail/{id}.
func (h *AnimeHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidPath)
		return
	}

	detail, err := h.svc.Detail(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeData(w, http.StatusOK, toDetailResponse(detail))
}

func queryBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func toItemResponse(it catalog.Item) itemResponse {
	return itemResponse{
		ID:           it.ID,
		Title:        it.Title,
		Genres:       nonNil(it.Genres),
		Episodes:     it.Episodes,
		CoverImage:   it.CoverImage,
		AverageScore: it.AverageScore,
	}
}

func toItemResponses(items []catalog.Item) []itemResponse {
	out := make([]itemResponse, len(items))
	for i, it := range items {
		out[i] = toItemResponse(it)
	}
	return out
}

func toDetailResponse(d *catalog.Detail) detailResponse {
	staff := make([]staffResponse, len(d.Staff))
	for i, s := range d.Staff {
		staff[i] = staffResponse{Name: s.Name, Role: s.Role}
	}
	return detailResponse{
		itemResponse: toItemResponse(d.Item),
		Description:  d.Description,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		Characters:   nonNil(d.Characters),
		Staff:        staff,
		Studios:      nonNil(d.Studios),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
