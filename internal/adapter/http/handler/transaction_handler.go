package handler

import (
	"strconv"

	"stablecoin-wallet-backend/internal/adapter/http/dto"
	"stablecoin-wallet-backend/internal/core/ports"
	"stablecoin-wallet-backend/pkg/apperror"
	"stablecoin-wallet-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// TransactionHandler handles transfer endpoints.
type TransactionHandler struct {
	settlementSvc ports.SettlementService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(settlementSvc ports.SettlementService) *TransactionHandler {
	return &TransactionHandler{settlementSvc: settlementSvc}
}

// Send handles POST /api/v1/transactions/send.
func (h *TransactionHandler) Send(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.settlementSvc.Send(c.Request.Context(), userID, ports.SendRequest{
		RecipientAddress: req.RecipientAddress,
		RecipientName:    req.RecipientName,
		AmountFiat:       req.AmountFiat,
		Description:      req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.SendResponse{
		Message:           "Transfer completed successfully",
		TransactionID:     result.TransactionID.String(),
		TransferReference: result.TransferReference,
		AmountFiat:        result.AmountFiat,
		AmountStable:      result.AmountStable,
		ExchangeRate:      result.ExchangeRate,
		Status:            string(result.Status),
	})
}

// History handles GET /api/v1/transactions/history?page=&size=.
func (h *TransactionHandler) History(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	result, err := h.settlementSvc.History(c.Request.Context(), userID, page, size)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.FromHistoryPage(result, "Transaction history retrieved successfully"))
}
