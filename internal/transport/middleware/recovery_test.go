package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecovery_NoPanic(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	Recovery(logger)(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecovery_Panic(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("nil catalog item")
	})

	rec := httptest.NewRecorder()
	Recovery(logger)(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/anime_detail/1", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"data":null,"error":"internal server error"}`, rec.Body.String())
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "nil catalog item")
	assert.Contains(t, buf.String(), "/api/anime_detail/1")
}

func TestRecovery_AbortHandlerPropagates(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	})

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		Recovery(logger)(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
