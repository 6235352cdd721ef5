package server

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	perrors "github.com/takeruhukushima/publiccodelooks/pkg/errors"
	"github.com/takeruhukushima/publiccodelooks/pkg/integrations"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after,omitempty"` // seconds
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorBody(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// writeError maps err onto a status code:
//
//	rate limited      429 + Retry-After
//	unauthorized      401
//	upstream failure  502
//	invalid input     400
//	not found         404
//	deadline          504
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := loggerFrom(r.Context(), s.logger)

	switch perrors.KindOf(err) {
	case perrors.KindRateLimited:
		resp := errorResponse{Code: string(perrors.ErrCodeRateLimited), Message: perrors.Explain(err)}
		if d := perrors.RetryAfter(err); d > 0 {
			resp.RetryAfter = int(math.Ceil(d.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(resp.RetryAfter))
		}
		logger.Warn("rate limited", "err", err)
		writeJSON(w, http.StatusTooManyRequests, resp)
		return
	case perrors.KindUnauthorized:
		logger.Warn("unauthorized", "err", err)
		writeErrorBody(w, http.StatusUnauthorized, string(perrors.ErrCodeUnauthorized), perrors.Explain(err))
		return
	case perrors.KindUpstream:
		logger.Warn("upstream failure", "err", err)
		writeErrorBody(w, http.StatusBadGateway, string(perrors.ErrCodeNetwork), perrors.Explain(err))
		return
	}

	switch code := perrors.GetCode(err); {
	case code == perrors.ErrCodeInvalidInput, code == perrors.ErrCodeInvalidQuery,
		code == perrors.ErrCodeInvalidRepo, code == perrors.ErrCodeInvalidPath:
		writeErrorBody(w, http.StatusBadRequest, string(code), perrors.UserMessage(err))
	case integrations.IsNotFound(err), code == perrors.ErrCodeNotFound:
		writeErrorBody(w, http.StatusNotFound, string(perrors.ErrCodeNotFound), "not found")
	case errors.Is(err, context.DeadlineExceeded):
		writeErrorBody(w, http.StatusGatewayTimeout, string(perrors.ErrCodeTimeout), "request timed out")
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to send.
		logger.Debug("request cancelled")
	default:
		logger.Error("internal error", "err", err)
		writeErrorBody(w, http.StatusInternalServerError, string(perrors.ErrCodeInternal), "internal error")
	}
}
