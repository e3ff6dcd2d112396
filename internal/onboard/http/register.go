package http

import (
	"net/http"

	"github.com/aussiebroadwan/onboard/internal/onboard/service"
	"github.com/aussiebroadwan/onboard/pkg/httpx"
	"github.com/aussiebroadwan/onboard/pkg/onboardsdk"
)

type RegisterHandler struct {
	RegistrationService *service.RegistrationService

	// ClientIP resolves the address counted by the signup limiter. Nil means
	// the TCP peer.
	ClientIP httpx.KeyExtractor
}

func (h *RegisterHandler) clientIP(r *http.Request) string {
	if h.ClientIP == nil {
		return httpx.ClientIP(r)
	}
	return h.ClientIP(r)
}

// ServeHTTP handles public self-service signup.
//
//	@Summary		Self-service trial signup
//	@Description	Creates a trial account and emails an admin invitation to the applicant.
//	@Description	Repeating the request for the same email while the invitation is pending re-sends it.
//	@Tags			Registration
//	@Accept			json
//	@Produce		json
//	@Param			request	body		onboardsdk.RegisterRequest		true	"Applicant details"
//	@Success		202		{object}	onboardsdk.RegisterResponse		"Signup accepted"
//	@Failure		400		{object}	onboardsdk.ErrorResponse		"Invalid request"
//	@Failure		403		{object}	onboardsdk.ErrorResponse		"Registration disabled"
//	@Failure		409		{object}	onboardsdk.ErrorResponse		"Email already registered"
//	@Failure		429		{object}	onboardsdk.ErrorResponse		"Too many attempts"
//	@Failure		502		{object}	onboardsdk.ErrorResponse		"Identity provider unavailable"
//	@Failure		500		{object}	onboardsdk.ErrorResponse		"Internal server error"
//	@Router			/v1/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req onboardsdk.RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "Invalid JSON in request body.")
		return
	}

	res, err := h.RegistrationService.Register(r.Context(), service.RegisterInput{
		FullName:    req.FullName,
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Honeypot:    req.Website,
		ClientIP:    h.clientIP(r),
		UserAgent:   r.UserAgent(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusAccepted, onboardsdk.RegisterResponse{
		Code:      string(res.Code),
		Message:   res.Message,
		EmailSent: res.EmailSent,
	})
}
