package http

import (
	"net/http"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
	"github.com/aussiebroadwan/onboard/internal/onboard/service"
	"github.com/aussiebroadwan/onboard/pkg/httpx"
	"github.com/aussiebroadwan/onboard/pkg/onboardsdk"
)

type MembershipsHandler struct {
	MembershipService *service.MembershipService
}

func membershipResponse(res service.MembershipResult) onboardsdk.MembershipResponse {
	return onboardsdk.MembershipResponse{
		Code:         string(res.Code),
		Message:      res.Message,
		Membership:   toMembership(res.Membership),
		PreviousRole: string(res.PrevRole),
		Overridden:   res.Overridden,
		AuditError:   res.AuditError,
	}
}

// HandleChangeRole godoc
//
//	@Summary		Change a member's role
//	@Description	An account must keep one active admin; only a platform admin may override that.
//	@Tags			Memberships
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Membership ID"
//	@Param			request	body		onboardsdk.ChangeRoleRequest	true	"New role"
//	@Success		200		{object}	onboardsdk.MembershipResponse	"Role changed"
//	@Failure		400		{object}	onboardsdk.ErrorResponse		"Invalid request"
//	@Failure		401		{object}	onboardsdk.ErrorResponse		"Unauthorized - missing or invalid token"
//	@Failure		403		{object}	onboardsdk.ErrorResponse		"Forbidden"
//	@Failure		404		{object}	onboardsdk.ErrorResponse		"Membership not found"
//	@Failure		409		{object}	onboardsdk.ErrorResponse		"Last account admin"
//	@Failure		500		{object}	onboardsdk.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/memberships/{id} [patch].
func (h *MembershipsHandler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
	var req onboardsdk.ChangeRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "Invalid JSON in request body.")
		return
	}

	res, err := h.MembershipService.ChangeRole(r.Context(), service.ChangeRoleInput{
		Caller:       callerFrom(r),
		MembershipID: r.PathValue("id"),
		Role:         domain.Role(req.Role),
		Override:     req.Override,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, membershipResponse(res))
}

// HandleRemove godoc
//
//	@Summary		Remove a member from an account
//	@Tags			Memberships
//	@Produce		json
//	@Param			id			path		string							true	"Membership ID"
//	@Param			override	query		bool							false	"Platform admin override of the last-admin rule"
//	@Success		200			{object}	onboardsdk.MembershipResponse	"Membership removed"
//	@Failure		401			{object}	onboardsdk.ErrorResponse		"Unauthorized - missing or invalid token"
//	@Failure		403			{object}	onboardsdk.ErrorResponse		"Forbidden"
//	@Failure		404			{object}	onboardsdk.ErrorResponse		"Membership not found"
//	@Failure		409			{object}	onboardsdk.ErrorResponse		"Last account admin"
//	@Failure		500			{object}	onboardsdk.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/memberships/{id} [delete].
func (h *MembershipsHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	res, err := h.MembershipService.Remove(r.Context(), service.RemoveMembershipInput{
		Caller:       callerFrom(r),
		MembershipID: r.PathValue("id"),
		Override:     overrideFrom(r),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, membershipResponse(res))
}
