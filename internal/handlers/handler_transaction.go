package handlers

import (
	"net/http"

	"github.com/SscSPs/finn_ledger/internal/core/ports/services"
	"github.com/SscSPs/finn_ledger/internal/dto"
	"github.com/SscSPs/finn_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type transactionHandler struct {
	transactionService services.TransactionSvcFacade
}

func newTransactionHandler(transactionService services.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{transactionService: transactionService}
}

// createTransaction godoc
// @Summary Record a transaction
// @Description Applies an income, expense or transfer to its accounts and records it, all or nothing.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 409 {object} dto.ErrorResponse "Insufficient funds, missing account or concurrent modification"
// @Failure 503 {object} dto.ErrorResponse "Storage unavailable"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Transaction applied",
		"transaction_id", txn.TransactionID, "type", txn.Type)
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} dto.ErrorResponse "Transaction not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /transactions/{transactionID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	txn, err := h.transactionService.GetTransactionByID(c.Request.Context(), c.Param("transactionID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Tags transactions
// @Produce  json
// @Param   limit query int false "Page size, negative for all" default(20)
// @Param   offset query int false "Records to skip" default(0)
// @Param   nextToken query string false "Token from a previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid pagination"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	params, err := bindListParams(c)
	if err != nil {
		writeError(c, err)
		return
	}

	txns, err := h.transactionService.ListTransactions(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Data:      dto.ToListTransactionResponse(txns),
		Limit:     params.Limit,
		Offset:    params.Offset,
		NextToken: nextToken(params, len(txns)),
	})
}

// RegisterTransactionRoutes registers routes related to transactions.
func RegisterTransactionRoutes(rg *gin.RouterGroup, transactionService services.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	txns := rg.Group("/transactions")
	{
		txns.POST("", h.createTransaction)
		txns.GET("", h.listTransactions)
		txns.GET("/:transactionID", h.getTransaction)
	}
}
