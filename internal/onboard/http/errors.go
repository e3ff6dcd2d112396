package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
	"github.com/aussiebroadwan/onboard/internal/onboard/service"
	"github.com/aussiebroadwan/onboard/pkg/httpx"
	"github.com/aussiebroadwan/onboard/pkg/slogx"
)

func statusFor(k service.Kind) int {
	switch k {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindAuthorization:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindRateLimited:
		return http.StatusTooManyRequests
	case service.KindTransient:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as a flat {code, message, ...details} body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	var se *service.Error
	if !errors.As(err, &se) {
		se = &service.Error{Kind: service.KindInternal, Code: domain.CodeInternal, Message: "Internal error.", Err: err}
	}

	body := make(map[string]any, len(se.Details)+2)
	for k, v := range se.Details {
		body[k] = v
	}
	body["code"] = se.Code
	body["message"] = se.Message

	status := statusFor(se.Kind)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", slog.String("code", string(se.Code)), slog.Any("error", err))
	} else {
		log.Debug("request rejected", slog.String("code", string(se.Code)))
	}
	httpx.WriteJSON(w, status, body)
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	httpx.WriteError(w, http.StatusBadRequest, string(domain.CodeValidationFailed), msg)
}

// callerFrom builds the service caller from the verified token claims.
func callerFrom(r *http.Request) service.Caller {
	id, _ := httpx.UserIDFromContext(r.Context())
	return service.Caller{UserID: id, Email: httpx.EmailFromContext(r.Context())}
}

func overrideFrom(r *http.Request) bool {
	switch r.URL.Query().Get("override") {
	case "1", "true", "yes":
		return true
	}
	return false
}
