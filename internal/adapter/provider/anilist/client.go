// Package anilist is the catalog client for the AniList GraphQL API.
package anilist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"

	"github.com/heartmarshall/anikor-backend/internal/config"
	"github.com/heartmarshall/anikor-backend/internal/domain"
	"github.com/heartmarshall/anikor-backend/internal/provider"
)

const serviceName = "anilist"

// maxBodyBytes caps how much of a catalog response is read.
const maxBodyBytes = 4 << 20

type rawResponse struct {
	status int
	body   []byte
}

// Client posts fixed GraphQL documents to the catalog.
type Client struct {
	url        string
	userAgent  string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[rawResponse]
	log        *slog.Logger
}

// NewClient creates a Client. Consecutive upstream failures (network errors
// and 5xx) open the breaker; caller cancellations do not count.
func NewClient(logger *slog.Logger, cfg config.CatalogConfig) *Client {
	log := logger.With("adapter", serviceName)

	cb := gobreaker.NewCircuitBreaker[rawResponse](gobreaker.Settings{
		Name:        serviceName,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("catalog breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return &Client{
		url:        cfg.URL,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cb:         cb,
		log:        log,
	}
}

// Page runs a single Page query for filter.
func (c *Client) Page(ctx context.Context, filter domain.MediaFilter) ([]domain.Anime, error) {
	vars := map[string]any{
		"page":    nonZero(filter.Page),
		"perPage": nonZero(filter.PerPage),
	}
	if filter.Search != "" {
		vars["search"] = filter.Search
	}
	if filter.Genre != "" {
		vars["genre"] = filter.Genre
	}
	if len(filter.ExcludedGenres) > 0 {
		vars["genreNotIn"] = filter.ExcludedGenres
	}
	if filter.EpisodesGreater != nil {
		vars["episodesGreater"] = *filter.EpisodesGreater
	}
	if filter.AverageScoreGreater != nil {
		vars["averageScoreGreater"] = *filter.AverageScoreGreater
	}
	if len(filter.Sort) > 0 {
		sorts := make([]string, len(filter.Sort))
		for i, s := range filter.Sort {
			sorts[i] = s.String()
		}
		vars["sort"] = sorts
	}

	raw, err := c.post(ctx, pageQuery, vars)
	if err != nil {
		return nil, err
	}

	var resp pageResponse
	if err := json.Unmarshal(raw.body, &resp); err != nil {
		return nil, &provider.ExternalError{Service: serviceName, Status: raw.status, Err: fmt.Errorf("decode page: %w", err)}
	}
	if raw.status != http.StatusOK || len(resp.Errors) > 0 {
		return nil, c.upstreamError(raw.status, resp.Errors)
	}

	items := make([]domain.Anime, 0, len(resp.Data.Page.Media))
	for _, m := range resp.Data.Page.Media {
		items = append(items, m.toAnime())
	}

	c.log.DebugContext(ctx, "catalog page",
		slog.Int("page", filter.Page),
		slog.Int("items", len(items)),
	)
	return items, nil
}

// Media fetches one item with its detail fields. A missing item yields
// domain.ErrNotFound.
func (c *Client) Media(ctx context.Context, id int) (*domain.AnimeDetail, error) {
	raw, err := c.post(ctx, mediaQuery, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if raw.status == http.StatusNotFound {
		return nil, fmt.Errorf("media %d: %w", id, domain.ErrNotFound)
	}

	var resp mediaResponse
	if err := json.Unmarshal(raw.body, &resp); err != nil {
		return nil, &provider.ExternalError{Service: serviceName, Status: raw.status, Err: fmt.Errorf("decode media: %w", err)}
	}
	if resp.Data.Media == nil && (len(resp.Errors) == 0 || isNotFound(resp.Errors)) {
		return nil, fmt.Errorf("media %d: %w", id, domain.ErrNotFound)
	}
	if raw.status != http.StatusOK || len(resp.Errors) > 0 {
		return nil, c.upstreamError(raw.status, resp.Errors)
	}

	return resp.Data.Media.toDetail(), nil
}

// post sends the document through the breaker. Only transport failures and
// 5xx responses come back as errors; other statuses are left to the caller.
func (c *Client) post(ctx context.Context, doc document, vars map[string]any) (rawResponse, error) {
	payload, err := json.Marshal(graphQLRequest{Query: doc.text, Variables: doc.variables(vars)})
	if err != nil {
		return rawResponse{}, fmt.Errorf("anilist: encode request: %w", err)
	}

	raw, err := c.cb.Execute(func() (rawResponse, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
		if err != nil {
			return rawResponse{}, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return rawResponse{}, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return rawResponse{}, err
		}
		out := rawResponse{status: resp.StatusCode, body: body}
		if resp.StatusCode >= http.StatusInternalServerError {
			return out, errors.New("server error")
		}
		return out, nil
	})
	if err != nil {
		c.log.WarnContext(ctx, "catalog request failed",
			slog.Int("status", raw.status),
			slog.String("error", err.Error()),
		)
		return rawResponse{}, &provider.ExternalError{Service: serviceName, Status: raw.status, Err: err}
	}
	return raw, nil
}

func (c *Client) upstreamError(status int, errs []graphQLError) error {
	ext := &provider.ExternalError{Service: serviceName, Status: status}
	if len(errs) > 0 {
		ext.Err = errors.New(joinErrors(errs))
	}
	return ext
}

func isNotFound(errs []graphQLError) bool {
	for _, e := range errs {
		if e.Status == http.StatusNotFound {
			return true
		}
	}
	return false
}

func nonZero(n int) any {
	if n == 0 {
		return nil
	}
	return n
}

// BreakerState reports the circuit breaker state ("closed", "half-open" or "open").
func (c *Client) BreakerState() string {
	return c.cb.State().String()
}
