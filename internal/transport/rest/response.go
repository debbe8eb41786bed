package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/heartmarshall/anikor-backend/internal/domain"
	"github.com/heartmarshall/anikor-backend/pkg/ctxutil"
)

// maxBodyBytes caps request bodies read by decodeJSON.
const maxBodyBytes = 64 << 10

// Envelope is the body of every /api response.
type Envelope struct {
	Success bool    `json:"success"`
	Data    any     `json:"data"`
	Error   *string `json:"error"`
}

const (
	msgBadBody     = "잘못된 요청 본문입니다."
	msgNotFound    = "애니메이션을 찾을 수 없습니다."
	msgUpstream    = "애니메이션 정보를 가져오는 데 실패했습니다."
	msgInternal    = "서버 내부 오류가 발생했습니다."
	msgInvalidPath = "잘못된 ID입니다."
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Envelope{Success: false, Error: &message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return dec.Decode(dst)
}

// handleError maps service errors onto the envelope. Anything unrecognized is
// logged with detail and reported generically.
func handleError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Message())
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, domain.ErrExternal):
		log.WarnContext(r.Context(), "upstream failure",
			ctxutil.RequestIDAttr(r.Context()), slog.String("error", err.Error()))
		writeError(w, http.StatusBadGateway, msgUpstream)
	default:
		log.ErrorContext(r.Context(), "internal error",
			ctxutil.RequestIDAttr(r.Context()), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}
