package app

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/anikor-backend/internal/config"
	"github.com/heartmarshall/anikor-backend/internal/transport/middleware"
	"github.com/heartmarshall/anikor-backend/internal/transport/rest"
)

type routes struct {
	anime  *rest.AnimeHandler
	review *rest.ReviewHandler
	health *rest.HealthHandler
	// memo wraps the catalog routes, which translate; review routes never do.
	memo middleware.Middleware
}

func newRouter(logger *slog.Logger, cors config.CORSConfig, r routes) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", r.health.Live)
	mux.HandleFunc("GET /ready", r.health.Ready)
	mux.HandleFunc("GET /health", r.health.Health)

	catalogRoute := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(r.memo)(h)
	}
	mux.Handle("GET /api/search_anime", catalogRoute(r.anime.Search))
	mux.Handle("GET /api/popular_anime", catalogRoute(r.anime.Popular))
	mux.Handle("GET /api/recommendations", catalogRoute(r.anime.Recommendations))
	mux.Handle("GET /api/anime_detail/{id}", catalogRoute(r.anime.Detail))

	mux.HandleFunc("POST /api/review", r.review.Add)
	mux.HandleFunc("GET /api/reviews/{animeId}", r.review.List)

	return middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.CORS(cors),
	)(mux)
}
