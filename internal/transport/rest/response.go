package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/heartmarshall/masquerade-backend/internal/domain"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Kind   string            `json:"kind,omitempty"`
	Fields []fieldErrorEntry `json:"fields,omitempty"`
	// RetryAfterSeconds is set for cooldown errors.
	RetryAfterSeconds int `json:"retryAfterSeconds,omitempty"`
}

type fieldErrorEntry struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// handleError maps domain errors onto HTTP statuses. Unknown errors are
// logged and reported as 500 without details.
func handleError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *domain.ValidationError
		ce *domain.CooldownError
	)

	switch {
	case errors.As(err, &ve):
		resp := errorResponse{Error: "validation failed", Kind: "VALIDATION"}
		for _, fe := range ve.Errors {
			resp.Fields = append(resp.Fields, fieldErrorEntry{Field: fe.Field, Message: fe.Message})
		}
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "VALIDATION"})
	case errors.Is(err, domain.ErrSelfRecognition):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "cannot recognize yourself", Kind: "SELF_RECOGNITION"})
	case errors.Is(err, domain.ErrEmptyText):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "text is empty", Kind: "EMPTY_TEXT"})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized", Kind: "UNAUTHORIZED"})
	case errors.Is(err, domain.ErrNoSuchEdge):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no such edge", Kind: "NO_SUCH_EDGE"})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found", Kind: "NOT_FOUND"})
	case errors.Is(err, domain.ErrAlreadyRecognized):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "already recognized", Kind: "ALREADY_RECOGNIZED"})
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "concurrent update, retry", Kind: "CONFLICT"})
	case errors.Is(err, domain.ErrEvidenceMismatch):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "evidence does not match", Kind: "EVIDENCE_MISMATCH"})
	case errors.Is(err, domain.ErrNotChallengeable):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "edge is not challengeable", Kind: "NOT_CHALLENGEABLE"})
	case errors.As(err, &ce):
		secs := retryAfterSeconds(ce)
		w.Header().Set("Retry-After", strconv.Itoa(secs))
		writeJSON(w, http.StatusTooManyRequests, errorResponse{
			Error:             ce.Error(),
			Kind:              "COOLDOWN_ACTIVE",
			RetryAfterSeconds: secs,
		})
	case errors.Is(err, domain.ErrCooldownActive):
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "cooldown active", Kind: "COOLDOWN_ACTIVE"})
	case errors.Is(err, domain.ErrUnavailable):
		log.WarnContext(r.Context(), "dependency unavailable", slog.String("error", err.Error()))
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service unavailable", Kind: "UNAVAILABLE"})
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error", Kind: "INTERNAL"})
	}
}

func retryAfterSeconds(ce *domain.CooldownError) int {
	secs := int(math.Ceil(ce.Remaining.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
