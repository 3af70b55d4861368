package handlers

import (
	"net/http"

	"github.com/SscSPs/finn_ledger/internal/core/ports/services"
	"github.com/SscSPs/finn_ledger/internal/dto"
	"github.com/SscSPs/finn_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler holds dependencies for account handlers.
type accountHandler struct {
	accountService services.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(accountService services.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: accountService,
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Creates a cash or debt account with a zero balance.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 503 {object} dto.ErrorResponse "Storage unavailable"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	acc, err := h.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Account created", "account_id", acc.AccountID, "type", acc.Type)
	c.JSON(http.StatusCreated, dto.ToAccountResponse(acc))
}

// getAccount godoc
// @Summary Get an account by ID
// @Description Retrieves a single account, including soft-deleted ones.
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	acc, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(acc))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists accounts that are not deleted, oldest first.
// @Tags accounts
// @Produce  json
// @Param   limit query int false "Page size, negative for all" default(20)
// @Param   offset query int false "Records to skip" default(0)
// @Param   nextToken query string false "Token from a previous page"
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid pagination"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	params, err := bindListParams(c)
	if err != nil {
		writeError(c, err)
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListAccountsResponse{
		Data:      dto.ToListAccountResponse(accounts),
		Limit:     params.Limit,
		Offset:    params.Offset,
		NextToken: nextToken(params, len(accounts)),
	})
}

// updateAccount godoc
// @Summary Update an account
// @Description Changes the name or description. Balance, type and identity cannot be changed.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent modification"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /accounts/{accountID} [patch]
func (h *accountHandler) updateAccount(c *gin.Context) {
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	acc, err := h.accountService.UpdateAccount(c.Request.Context(), c.Param("accountID"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(acc))
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Soft-deletes an account. Deleting an already deleted account succeeds.
// @Tags accounts
// @Param   accountID path string true "Account ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent modification"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /accounts/{accountID} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	accountID := c.Param("accountID")
	if err := h.accountService.DeleteAccount(c.Request.Context(), accountID); err != nil {
		writeError(c, err)
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Account deleted", "account_id", accountID)
	c.Status(http.StatusNoContent)
}

// RegisterAccountRoutes registers routes related to accounts.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService services.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
		accounts.PATCH("/:accountID", h.updateAccount)
		accounts.DELETE("/:accountID", h.deleteAccount)
	}
}
