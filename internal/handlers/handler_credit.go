package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/creditleaf/credit_ledger_app/internal/apperrors"
	portssvc "github.com/creditleaf/credit_ledger_app/internal/core/ports/services"
	"github.com/creditleaf/credit_ledger_app/internal/dto"
	"github.com/creditleaf/credit_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// creditHandler handles HTTP requests against the credit ledger engine.
type creditHandler struct {
	creditService portssvc.CreditSvcFacade
}

// newCreditHandler creates a new creditHandler.
func newCreditHandler(creditService portssvc.CreditSvcFacade) *creditHandler {
	return &creditHandler{
		creditService: creditService,
	}
}

// getBalance godoc
// @Summary Get a user's spendable credit balance
// @Description Sums remaining credits across the user's active, unexpired grants
// @Tags credits
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} dto.BalanceResponse
// @Failure 500 {object} map[string]string "Failed to compute balance"
// @Router /users/{userID}/credits/balance [get]
func (h *creditHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	balance, err := h.creditService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to compute balance", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balance"})
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{UserID: userID, Balance: balance})
}

// listEntries godoc
// @Summary List a user's ledger entries
// @Description Retrieves a token-paginated list of the user's credit ledger entries, newest first
// @Tags credits
// @Produce json
// @Param userID path string true "User ID"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param nextToken query string false "Continuation token from a previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid pagination token"
// @Failure 500 {object} map[string]string "Failed to list entries"
// @Router /users/{userID}/credits/entries [get]
func (h *creditHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.creditService.ListEntries(c.Request.Context(), userID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination token"})
			return
		}
		logger.Error("Failed to list ledger entries", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list entries"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getEntryByTransactionNo godoc
// @Summary Look up a ledger entry by transaction number
// @Description Retrieves a single ledger entry by its globally unique transaction number
// @Tags credits
// @Produce json
// @Param transactionNo path string true "Transaction number"
// @Success 200 {object} dto.CreditEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to look up entry"
// @Router /credits/transactions/{transactionNo} [get]
func (h *creditHandler) getEntryByTransactionNo(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionNo := c.Param("transactionNo")

	entry, err := h.creditService.GetEntryByTransactionNo(c.Request.Context(), transactionNo)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
			return
		}
		logger.Error("Failed to look up entry by transaction number", slog.String("error", err.Error()), slog.String("transaction_no", transactionNo))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up entry"})
		return
	}

	c.JSON(http.StatusOK, dto.ToCreditEntryResponse(entry))
}

// grantCredits godoc
// @Summary Grant credits to a user
// @Description Issues new spendable credits with an optional expiration
// @Tags credits
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param grant body dto.GrantRequest true "Grant details"
// @Success 201 {object} dto.CreditEntryResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 500 {object} map[string]string "Failed to grant credits"
// @Router /users/{userID}/credits/grants [post]
func (h *creditHandler) grantCredits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	var req dto.GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for grant", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetCallerIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.creditService.Grant(c.Request.Context(), userID, req, actorID)
	if err != nil {
		h.respondWithCreditError(c, logger, err, "Failed to grant credits")
		return
	}

	c.JSON(http.StatusCreated, dto.ToCreditEntryResponse(entry))
}

// consumeCredits godoc
// @Summary Consume credits from a user's balance
// @Description Atomically debits the requested amount from eligible grants, soonest to expire first
// @Tags credits
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param consumption body dto.ConsumeRequest true "Consumption details"
// @Success 201 {object} dto.CreditEntryResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 402 {object} map[string]any "Insufficient credits"
// @Failure 500 {object} map[string]string "Failed to consume credits"
// @Router /users/{userID}/credits/consumptions [post]
func (h *creditHandler) consumeCredits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	var req dto.ConsumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for consume", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetCallerIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.creditService.Consume(c.Request.Context(), userID, req, actorID)
	if err != nil {
		h.respondWithCreditError(c, logger, err, "Failed to consume credits")
		return
	}

	c.JSON(http.StatusCreated, dto.ToCreditEntryResponse(entry))
}

// refundExact godoc
// @Summary Reverse a prior consumption exactly
// @Description Restores the exact grants a consumption drew from and soft-deletes the consumption
// @Tags credits
// @Produce json
// @Param entryID path string true "CONSUME entry ID"
// @Success 204 "Consumption reversed"
// @Failure 404 {object} map[string]string "Consumption not found"
// @Failure 409 {object} map[string]string "Consumption already reversed"
// @Failure 500 {object} map[string]string "Failed to reverse consumption"
// @Router /credits/consumptions/{entryID}/refund [post]
func (h *creditHandler) refundExact(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	actorID, ok := middleware.GetCallerIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.creditService.RefundExact(c.Request.Context(), entryID, actorID); err != nil {
		h.respondWithCreditError(c, logger, err, "Failed to reverse consumption")
		return
	}

	c.Status(http.StatusNoContent)
}

// refundSimple godoc
// @Summary Issue a simple compensating refund
// @Description Issues a fresh grant of the given amount with scene refund
// @Tags credits
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param refund body dto.SimpleRefundRequest true "Refund details"
// @Success 201 {object} dto.CreditEntryResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 500 {object} map[string]string "Failed to refund credits"
// @Router /users/{userID}/credits/refunds [post]
func (h *creditHandler) refundSimple(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	var req dto.SimpleRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for simple refund", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetCallerIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.creditService.RefundSimple(c.Request.Context(), userID, req, actorID)
	if err != nil {
		h.respondWithCreditError(c, logger, err, "Failed to refund credits")
		return
	}

	c.JSON(http.StatusCreated, dto.ToCreditEntryResponse(entry))
}

// respondWithCreditError maps engine failures onto HTTP statuses. Insufficient
// credits carries the numeric shortfall so collaborators can surface it.
func (h *creditHandler) respondWithCreditError(c *gin.Context, logger *slog.Logger, err error, fallbackMsg string) {
	var insufficient *apperrors.InsufficientCreditsError
	switch {
	case errors.As(err, &insufficient):
		logger.Warn("Consumption rejected: insufficient credits",
			slog.Int64("required", insufficient.Required),
			slog.Int64("available", insufficient.Available),
		)
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error":     "Insufficient credits",
			"required":  insufficient.Required,
			"available": insufficient.Available,
		})
	case errors.Is(err, apperrors.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
	case errors.Is(err, apperrors.ErrAlreadyReversed):
		c.JSON(http.StatusConflict, gin.H{"error": "Consumption already reversed"})
	case errors.Is(err, apperrors.ErrTooManyFragments):
		// Operational anomaly, not a user error; needs investigation.
		logger.Error("Consumption aborted by fragment safety valve", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Consumption could not be serviced"})
	default:
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMsg})
	}
}
