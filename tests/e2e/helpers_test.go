//go:build e2e

package e2e_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/anikor-backend/internal/adapter/postgres"
	reviewrepo "github.com/heartmarshall/anikor-backend/internal/adapter/postgres/review"
	"github.com/heartmarshall/anikor-backend/internal/adapter/postgres/testhelper"
	translationrepo "github.com/heartmarshall/anikor-backend/internal/adapter/postgres/translation"
	"github.com/heartmarshall/anikor-backend/internal/adapter/provider/anilist"
	"github.com/heartmarshall/anikor-backend/internal/adapter/provider/llm"
	"github.com/heartmarshall/anikor-backend/internal/config"
	"github.com/heartmarshall/anikor-backend/internal/service/catalog"
	"github.com/heartmarshall/anikor-backend/internal/service/review"
	"github.com/heartmarshall/anikor-backend/internal/service/translation"
	"github.com/heartmarshall/anikor-backend/internal/transport/dataloader"
	"github.com/heartmarshall/anikor-backend/internal/transport/middleware"
	"github.com/heartmarshall/anikor-backend/internal/transport/rest"
)

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
	Model  *fakeModel
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// ---------------------------------------------------------------------------
// Fake upstreams.
// ---------------------------------------------------------------------------

const catalogPage = `{"data":{"Page":{"media":[
	{"id":16498,"title":{"romaji":"Shingeki no Kyojin","english":"Attack on Titan","native":"進撃の巨人"},
	 "genres":["Action","Drama"],"episodes":25,"coverImage":{"extraLarge":"https://img/aot.jpg"},"averageScore":85},
	{"id":20,"title":{"romaji":"Naruto","english":null,"native":"NARUTO"},
	 "genres":["Action","Adventure"],"episodes":220,"coverImage":{"extraLarge":"https://img/naruto.jpg"},"averageScore":79}
]}}}`

const catalogMedia = `{"data":{"Media":{
	"id":16498,
	"title":{"romaji":"Shingeki no Kyojin","english":"Attack on Titan","native":"進撃の巨人"},
	"genres":["Action"],"episodes":25,"description":"Humans fight titans.",
	"coverImage":{"extraLarge":"https://img/aot.jpg"},"averageScore":85,
	"startDate":{"year":2013,"month":4,"day":7},"endDate":{"year":2013,"month":9,"day":28},
	"characters":{"edges":[{"node":{"name":{"full":"Eren Yeager"}}}]},
	"staff":{"edges":[{"node":{"name":{"full":"Tetsurou Araki"}},"role":"Director"}]},
	"studios":{"nodes":[{"name":"Wit Studio"}]}
}}}`

const catalogMissing = `{"data":{"Media":null},"errors":[{"message":"Not Found.","status":404}]}`

// newFakeCatalog answers Page queries with catalogPage and Media queries
// for id 16498 with catalogMedia; any other id is missing.
func newFakeCatalog(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Variables map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		id, isMedia := req.Variables["id"]
		switch {
		case !isMedia:
			_, _ = io.WriteString(w, catalogPage)
		case id == float64(16498):
			_, _ = io.WriteString(w, catalogMedia)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, catalogMissing)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// fakeModel is a Messages API stand-in. It answers prompts that mention a
// known phrase and fails everything else with a 500.
type fakeModel struct {
	mu     sync.Mutex
	calls  []string
	server *httptest.Server
}

var modelAnswers = []struct{ contains, answer string }{
	{"Search term: 진격", "Attack on Titan"},
	{"Attack on Titan", "진격의 거인"},
	{"Humans fight titans.", "인간이 거인과 싸운다."},
	{"Director", "감독"},
}

func newFakeModel(t *testing.T) *fakeModel {
	t.Helper()
	m := &fakeModel{}
	m.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		prompt := strings.Join(collectStrings(body, nil), "\n")

		m.mu.Lock()
		m.calls = append(m.calls, prompt)
		m.mu.Unlock()

		for _, a := range modelAnswers {
			if strings.Contains(prompt, a.contains) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]any{
					"id":            "msg_e2e",
					"type":          "message",
					"role":          "assistant",
					"model":         "claude-test",
					"content":       []map[string]any{{"type": "text", "text": a.answer}},
					"stop_reason":   "end_turn",
					"stop_sequence": nil,
					"usage":         map[string]any{"input_tokens": 10, "output_tokens": 5},
				})
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"api_error","message":"unknown prompt"}}`)
	}))
	t.Cleanup(m.server.Close)
	return m
}

// Calls returns how many recorded prompts contain substr.
func (m *fakeModel) Calls(substr string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if strings.Contains(c, substr) {
			n++
		}
	}
	return n
}

func collectStrings(v any, out []string) []string {
	switch x := v.(type) {
	case string:
		out = append(out, x)
	case []any:
		for _, e := range x {
			out = collectStrings(e, out)
		}
	case map[string]any:
		for _, e := range x {
			out = collectStrings(e, out)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// setupTestServer bootstraps the full application stack backed by
// a real PostgreSQL container (shared via testhelper).
// ---------------------------------------------------------------------------

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	// 1. Get pool from testcontainers-backed helper.
	pool := testhelper.SetupTestDB(t)

	// 2. Infrastructure.
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	txm := postgres.NewTxManager(pool)

	// 3. Repositories.
	translations := translationrepo.New(pool)
	reviews := reviewrepo.New(pool)

	// 4. Fake upstreams behind the real adapters.
	catalogSrv := newFakeCatalog(t)
	model := newFakeModel(t)

	anilistClient := anilist.NewClient(logger, config.CatalogConfig{
		URL:                    catalogSrv.URL,
		UserAgent:              "anikor-e2e",
		Timeout:                5 * time.Second,
		RecommendMaxPage:       20,
		RecommendFilterMaxPage: 5,
		BreakerFailures:        5,
		BreakerTimeout:         time.Minute,
	})
	models := llm.NewClient(logger, config.TranslatorConfig{
		APIKey:    "e2e-key",
		BaseURL:   model.server.URL,
		Model:     "claude-test",
		MaxTokens: 256,
		Timeout:   5 * time.Second,
	})

	// 5. Services.
	store := translation.NewStore(logger, translations, txm)
	translator := translation.NewTranslator(logger, store, models)
	catalogService := catalog.NewService(logger, anilistClient, translator, config.CatalogConfig{
		RecommendMaxPage:       20,
		RecommendFilterMaxPage: 5,
	})
	reviewService := review.NewService(logger, reviews)

	// 6. Handlers.
	animeHandler := rest.NewAnimeHandler(catalogService, logger, time.Minute)
	reviewHandler := rest.NewReviewHandler(reviewService, logger)
	healthHandler := rest.NewHealthHandler(pool, anilistClient, models, "test-version")

	// 7. Middleware chain.
	memo := middleware.Chain(dataloader.Middleware(translations))

	// 8. Mux.
	mux := http.NewServeMux()
	mux.HandleFunc("GET /live", healthHandler.Live)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.Handle("GET /api/search_anime", memo(http.HandlerFunc(animeHandler.Search)))
	mux.Handle("GET /api/popular_anime", memo(http.HandlerFunc(animeHandler.Popular)))
	mux.Handle("GET /api/recommendations", memo(http.HandlerFunc(animeHandler.Recommendations)))
	mux.Handle("GET /api/anime_detail/{id}", memo(http.HandlerFunc(animeHandler.Detail)))
	mux.HandleFunc("POST /api/review", reviewHandler.Add)
	mux.HandleFunc("GET /api/reviews/{animeId}", reviewHandler.List)

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
	)(mux)

	// 9. httptest server.
	srv := httptest.NewServer(handler)
	t.Cleanup(func() { srv.Close() })

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
		Model:  model,
	}
}

// apiResponse is the decoded /api envelope.
type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *string         `json:"error"`
}

func (ts *testServer) do(t *testing.T, method, path, body string) (int, apiResponse) {
	t.Helper()

	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, ts.URL+path, rdr)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func decodeData(t *testing.T, r apiResponse, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Data, dst))
}

// storedTranslation reads the memo row for source directly.
func storedTranslation(t *testing.T, pool *pgxpool.Pool, source string) (string, bool) {
	t.Helper()
	var translated string
	err := pool.QueryRow(context.Background(),
		`SELECT translated_text FROM translation WHERE source_text = $1`, source,
	).Scan(&translated)
	if err != nil {
		return "", false
	}
	return translated, true
}
