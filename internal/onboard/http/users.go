package http

import (
	"net/http"

	"github.com/aussiebroadwan/onboard/internal/onboard/service"
	"github.com/aussiebroadwan/onboard/pkg/httpx"
	"github.com/aussiebroadwan/onboard/pkg/onboardsdk"
)

type UsersHandler struct {
	UserService *service.UserService
}

func userResponse(res service.UserResult) onboardsdk.UserResponse {
	return onboardsdk.UserResponse{
		Code:        string(res.Code),
		Message:     res.Message,
		UserID:      res.UserID,
		Email:       res.Email,
		WarningCode: string(res.WarningCode),
		AuditError:  res.AuditError,
	}
}

// HandleDelete godoc
//
//	@Summary		Delete a user
//	@Description	Removes the user from the identity provider, every account and the profile table.
//	@Description	Platform administrators only. The last platform admin cannot be deleted.
//	@Tags			Users
//	@Produce		json
//	@Param			id			path		string						true	"User ID"
//	@Param			override	query		bool						false	"Override the last-account-admin rule"
//	@Success		200			{object}	onboardsdk.UserResponse		"User deleted"
//	@Failure		401			{object}	onboardsdk.ErrorResponse	"Unauthorized - missing or invalid token"
//	@Failure		403			{object}	onboardsdk.ErrorResponse	"Forbidden"
//	@Failure		404			{object}	onboardsdk.ErrorResponse	"User not found"
//	@Failure		409			{object}	onboardsdk.ErrorResponse	"Last admin"
//	@Failure		502			{object}	onboardsdk.ErrorResponse	"Identity provider unavailable"
//	@Failure		500			{object}	onboardsdk.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/users/{id} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	res, err := h.UserService.Delete(r.Context(), service.DeleteUserInput{
		Caller:   callerFrom(r),
		UserID:   r.PathValue("id"),
		Override: overrideFrom(r),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, userResponse(res))
}

// HandleResetPassword godoc
//
//	@Summary		Send a password reset email
//	@Description	Allowed for the user themself, a platform admin, or an admin of an account the user belongs to.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		onboardsdk.PasswordResetRequest	true	"Target email"
//	@Success		202		{object}	onboardsdk.UserResponse			"Reset email sent"
//	@Failure		400		{object}	onboardsdk.ErrorResponse		"Invalid request"
//	@Failure		401		{object}	onboardsdk.ErrorResponse		"Unauthorized - missing or invalid token"
//	@Failure		403		{object}	onboardsdk.ErrorResponse		"Forbidden"
//	@Failure		404		{object}	onboardsdk.ErrorResponse		"User not found"
//	@Failure		502		{object}	onboardsdk.ErrorResponse		"Identity provider unavailable"
//	@Security		BearerAuth
//	@Router			/v1/users/password-reset [post].
func (h *UsersHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req onboardsdk.PasswordResetRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "Invalid JSON in request body.")
		return
	}

	res, err := h.UserService.ResetPassword(r.Context(), service.ResetPasswordInput{
		Caller: callerFrom(r),
		Email:  req.Email,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusAccepted, userResponse(res))
}

// HandleUpdateCredentials godoc
//
//	@Summary		Change a user's email or password
//	@Description	Allowed for the user themself or a platform admin. The profile email follows an email change.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"User ID"
//	@Param			request	body		onboardsdk.UpdateCredentialsRequest	true	"New credentials"
//	@Success		200		{object}	onboardsdk.UserResponse				"Credentials updated"
//	@Failure		400		{object}	onboardsdk.ErrorResponse			"Invalid request"
//	@Failure		401		{object}	onboardsdk.ErrorResponse			"Unauthorized - missing or invalid token"
//	@Failure		403		{object}	onboardsdk.ErrorResponse			"Forbidden"
//	@Failure		404		{object}	onboardsdk.ErrorResponse			"User not found"
//	@Failure		409		{object}	onboardsdk.ErrorResponse			"Email already registered"
//	@Failure		502		{object}	onboardsdk.ErrorResponse			"Identity provider unavailable"
//	@Security		BearerAuth
//	@Router			/v1/users/{id}/credentials [patch].
func (h *UsersHandler) HandleUpdateCredentials(w http.ResponseWriter, r *http.Request) {
	var req onboardsdk.UpdateCredentialsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "Invalid JSON in request body.")
		return
	}

	res, err := h.UserService.UpdateCredentials(r.Context(), service.UpdateCredentialsInput{
		Caller:   callerFrom(r),
		UserID:   r.PathValue("id"),
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, userResponse(res))
}
