package rest

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/anikor-backend/internal/domain"
	"github.com/heartmarshall/anikor-backend/internal/service/catalog"
	"github.com/heartmarshall/anikor-backend/internal/service/review"
)

type catalogServiceMock struct {
	SearchFunc          func(ctx context.Context, in catalog.SearchInput) ([]catalog.Item, error)
	PopularFunc         func(ctx context.Context) ([]catalog.Item, error)
	RecommendationsFunc func(ctx context.Context, in catalog.RecommendInput) ([]catalog.Item, error)
	DetailFunc          func(ctx context.Context, id int) (*catalog.Detail, error)
}

func (m *catalogServiceMock) Search(ctx context.Context, in catalog.SearchInput) ([]catalog.Item, error) {
	return m.SearchFunc(ctx, in)
}

func (m *catalogServiceMock) Popular(ctx context.Context) ([]catalog.Item, error) {
	return m.PopularFunc(ctx)
}

func (m *catalogServiceMock) Recommendations(ctx context.Context, in catalog.RecommendInput) ([]catalog.Item, error) {
	return m.RecommendationsFunc(ctx, in)
}

func (m *catalogServiceMock) Detail(ctx context.Context, id int) (*catalog.Detail, error) {
	return m.DetailFunc(ctx, id)
}

type reviewServiceMock struct {
	AddFunc  func(ctx context.Context, in review.AddInput) (*domain.Review, error)
	ListFunc func(ctx context.Context, animeID int) ([]domain.Review, error)
}

func (m *reviewServiceMock) Add(ctx context.Context, in review.AddInput) (*domain.Review, error) {
	return m.AddFunc(ctx, in)
}

func (m *reviewServiceMock) List(ctx context.Context, animeID int) ([]domain.Review, error) {
	return m.ListFunc(ctx, animeID)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(n int) *int { return &n }

// envelope mirrors Envelope with raw data for per-test decoding.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *string         `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}
