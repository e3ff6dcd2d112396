package http

import (
	"net/http"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
	"github.com/aussiebroadwan/onboard/internal/onboard/service"
	"github.com/aussiebroadwan/onboard/pkg/httpx"
	"github.com/aussiebroadwan/onboard/pkg/onboardsdk"
)

type InvitationsHandler struct {
	InvitationService *service.InvitationService
}

func invitationResponse(res service.InvitationResult) onboardsdk.InvitationResponse {
	return onboardsdk.InvitationResponse{
		Code:         string(res.Code),
		Message:      res.Message,
		Invitation:   toInvitation(res.Invitation),
		ReplacedID:   res.ReplacedID,
		EmailSent:    res.EmailSent,
		Attempts:     res.Attempts,
		DeletedGhost: res.DeletedGhost,
		WarningCode:  string(res.WarningCode),
		ErrorMessage: res.ErrorMessage,
		AuditError:   res.AuditError,
	}
}

// HandleCreate godoc
//
//	@Summary		Invite a user to an account
//	@Description	Creates a PENDING invitation and sends the invite email with bounded retries.
//	@Description	Requires account admin or platform admin. If the email is unreachable the invitation is revoked.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"Account ID"
//	@Param			request	body		onboardsdk.CreateInvitationRequest	true	"Invitee"
//	@Success		201		{object}	onboardsdk.InvitationResponse		"Invitation created"
//	@Failure		400		{object}	onboardsdk.ErrorResponse			"Invalid request"
//	@Failure		401		{object}	onboardsdk.ErrorResponse			"Unauthorized - missing or invalid token"
//	@Failure		403		{object}	onboardsdk.ErrorResponse			"Forbidden"
//	@Failure		404		{object}	onboardsdk.ErrorResponse			"Account not found"
//	@Failure		409		{object}	onboardsdk.ErrorResponse			"Pending invitation exists or user cannot be invited"
//	@Failure		502		{object}	onboardsdk.ErrorResponse			"Identity provider unavailable"
//	@Failure		500		{object}	onboardsdk.ErrorResponse			"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/accounts/{id}/invitations [post].
func (h *InvitationsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req onboardsdk.CreateInvitationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "Invalid JSON in request body.")
		return
	}

	res, err := h.InvitationService.Create(r.Context(), service.CreateInvitationInput{
		Caller:    callerFrom(r),
		AccountID: r.PathValue("id"),
		Email:     req.Email,
		Role:      domain.Role(req.Role),
		FullName:  req.FullName,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, invitationResponse(res))
}

// HandleRevoke godoc
//
//	@Summary		Revoke an invitation
//	@Tags			Invitations
//	@Produce		json
//	@Param			id	path		string							true	"Invitation ID"
//	@Success		200	{object}	onboardsdk.InvitationResponse	"Invitation revoked"
//	@Failure		401	{object}	onboardsdk.ErrorResponse		"Unauthorized - missing or invalid token"
//	@Failure		404	{object}	onboardsdk.ErrorResponse		"Invitation not found"
//	@Failure		409	{object}	onboardsdk.ErrorResponse		"Invitation is no longer pending"
//	@Failure		500	{object}	onboardsdk.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/invitations/{id}/revoke [post].
func (h *InvitationsHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	res, err := h.InvitationService.Revoke(r.Context(), service.RevokeInvitationInput{
		Caller:       callerFrom(r),
		InvitationID: r.PathValue("id"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, invitationResponse(res))
}

// HandleResend godoc
//
//	@Summary		Resend an invitation
//	@Description	Revokes the pending invitation and sends a fresh one with a new expiry.
//	@Tags			Invitations
//	@Produce		json
//	@Param			id	path		string							true	"Invitation ID"
//	@Success		201	{object}	onboardsdk.InvitationResponse	"Replacement invitation"
//	@Failure		401	{object}	onboardsdk.ErrorResponse		"Unauthorized - missing or invalid token"
//	@Failure		404	{object}	onboardsdk.ErrorResponse		"Invitation not found"
//	@Failure		409	{object}	onboardsdk.ErrorResponse		"Invitation is no longer pending or user cannot be invited"
//	@Failure		502	{object}	onboardsdk.ErrorResponse		"Identity provider unavailable"
//	@Failure		500	{object}	onboardsdk.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/invitations/{id}/resend [post].
func (h *InvitationsHandler) HandleResend(w http.ResponseWriter, r *http.Request) {
	res, err := h.InvitationService.Resend(r.Context(), service.ResendInvitationInput{
		Caller:       callerFrom(r),
		InvitationID: r.PathValue("id"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, invitationResponse(res))
}
