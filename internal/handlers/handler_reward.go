package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/creditleaf/credit_ledger_app/internal/core/ports/services"
	"github.com/creditleaf/credit_ledger_app/internal/dto"
	"github.com/creditleaf/credit_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// rewardHandler handles HTTP requests for the referral reward distributor.
type rewardHandler struct {
	rewardService portssvc.RewardSvcFacade
}

// newRewardHandler creates a new rewardHandler.
func newRewardHandler(rewardService portssvc.RewardSvcFacade) *rewardHandler {
	return &rewardHandler{
		rewardService: rewardService,
	}
}

// acceptReferral godoc
// @Summary Distribute rewards for a referral acceptance
// @Description Issues the paired inviter/invitee reward grants, subject to idempotency and the inviter's monthly cap
// @Tags referrals
// @Accept json
// @Produce json
// @Param referral body dto.AcceptReferralRequest true "Referral pairing"
// @Success 200 {object} dto.ReferralRewardResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 500 {object} map[string]string "Failed to distribute reward"
// @Router /referrals/accept [post]
func (h *rewardHandler) acceptReferral(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.AcceptReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for referral acceptance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetCallerIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.rewardService.AcceptReferral(c.Request.Context(), req, actorID)
	if err != nil {
		logger.Error("Failed to distribute referral reward", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to distribute reward"})
		return
	}

	c.JSON(http.StatusOK, dto.ToReferralRewardResponse(result))
}
