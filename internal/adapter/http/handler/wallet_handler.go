package handler

import (
	"stablecoin-wallet-backend/internal/adapter/http/dto"
	"stablecoin-wallet-backend/internal/adapter/http/middleware"
	"stablecoin-wallet-backend/internal/core/ports"
	"stablecoin-wallet-backend/pkg/apperror"
	"stablecoin-wallet-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WalletHandler handles wallet endpoints.
type WalletHandler struct {
	walletSvc     ports.WalletService
	settlementSvc ports.SettlementService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService, settlementSvc ports.SettlementService) *WalletHandler {
	return &WalletHandler{
		walletSvc:     walletSvc,
		settlementSvc: settlementSvc,
	}
}

// Create handles POST /api/v1/wallets. Repeated calls for the same user
// return the existing wallet with a distinguishing message.
func (h *WalletHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	wallet, created, err := h.walletSvc.Create(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	view, err := h.settlementSvc.Balance(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	body := dto.BalanceResponse{
		Message:       "Wallet already exists",
		BalanceFiat:   view.BalanceFiat,
		BalanceStable: view.BalanceStable,
		WalletAddress: wallet.Address,
		ExchangeRate:  view.ExchangeRate,
	}
	if created {
		body.Message = "Wallet created successfully"
		response.Created(c, body)
		return
	}
	response.OK(c, body)
}

// GetBalance handles GET /api/v1/wallets/balance.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	view, err := h.settlementSvc.Balance(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{
		Message:       "Balance retrieved successfully",
		BalanceFiat:   view.BalanceFiat,
		BalanceStable: view.BalanceStable,
		WalletAddress: view.WalletAddress,
		ExchangeRate:  view.ExchangeRate,
	})
}

// currentUserID pulls the authenticated user id set by the JWT middleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.CtxUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
