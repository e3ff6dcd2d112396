package http

import (
	"net/http"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
	"github.com/aussiebroadwan/onboard/internal/onboard/service"
	"github.com/aussiebroadwan/onboard/pkg/httpx"
	"github.com/aussiebroadwan/onboard/pkg/onboardsdk"
)

type AccountsHandler struct {
	AccountService *service.AccountService
}

// HandleProvision godoc
//
//	@Summary		Provision an account
//	@Description	Creates an account and invites its first administrator. Platform administrators only.
//	@Description	A blocked invitation keeps the account and reports blocker_code.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		onboardsdk.ProvisionAccountRequest	true	"Account and first admin"
//	@Success		201		{object}	onboardsdk.ProvisionAccountResponse	"Account provisioned"
//	@Failure		400		{object}	onboardsdk.ErrorResponse			"Invalid request"
//	@Failure		401		{object}	onboardsdk.ErrorResponse			"Unauthorized - missing or invalid token"
//	@Failure		403		{object}	onboardsdk.ErrorResponse			"Forbidden"
//	@Failure		409		{object}	onboardsdk.ErrorResponse			"Admin email cannot be invited"
//	@Failure		502		{object}	onboardsdk.ErrorResponse			"Identity provider unavailable"
//	@Failure		500		{object}	onboardsdk.ErrorResponse			"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/accounts [post].
func (h *AccountsHandler) HandleProvision(w http.ResponseWriter, r *http.Request) {
	var req onboardsdk.ProvisionAccountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "Invalid JSON in request body.")
		return
	}

	res, err := h.AccountService.Provision(r.Context(), service.ProvisionAccountInput{
		Caller:        callerFrom(r),
		Name:          req.Name,
		AdminEmail:    req.AdminEmail,
		AdminFullName: req.AdminFullName,
		Trial:         req.Trial,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, onboardsdk.ProvisionAccountResponse{
		Code:         string(res.Code),
		Message:      res.Message,
		Account:      toAccount(res.Account),
		Invitation:   toInvitation(res.Invitation),
		EmailSent:    res.EmailSent,
		Attempts:     res.Attempts,
		DeletedGhost: res.DeletedGhost,
		BlockerCode:  string(res.BlockerCode),
		WarningCode:  string(res.WarningCode),
		ErrorMessage: res.ErrorMessage,
		AuditError:   res.AuditError,
	})
}

// HandleSetStatus godoc
//
//	@Summary		Change account status
//	@Description	Moves an account between ACTIVE, SUSPENDED and ARCHIVED. Platform administrators only.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"Account ID"
//	@Param			request	body		onboardsdk.SetAccountStatusRequest	true	"New status"
//	@Success		200		{object}	onboardsdk.AccountStatusResponse	"Status changed"
//	@Failure		400		{object}	onboardsdk.ErrorResponse			"Invalid request"
//	@Failure		401		{object}	onboardsdk.ErrorResponse			"Unauthorized - missing or invalid token"
//	@Failure		403		{object}	onboardsdk.ErrorResponse			"Forbidden"
//	@Failure		404		{object}	onboardsdk.ErrorResponse			"Account not found"
//	@Failure		500		{object}	onboardsdk.ErrorResponse			"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/accounts/{id}/status [patch].
func (h *AccountsHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req onboardsdk.SetAccountStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "Invalid JSON in request body.")
		return
	}

	res, err := h.AccountService.SetStatus(r.Context(), service.SetAccountStatusInput{
		Caller:    callerFrom(r),
		AccountID: r.PathValue("id"),
		Status:    domain.AccountStatus(req.Status),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, onboardsdk.AccountStatusResponse{
		Code:           string(res.Code),
		Message:        res.Message,
		Account:        toAccount(res.Account),
		PreviousStatus: string(res.PrevStatus),
		AuditError:     res.AuditError,
	})
}
