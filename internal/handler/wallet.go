package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"mandado/internal/domain"
	"mandado/internal/service"
)

// WalletHandler handles HTTP requests for wallets.
type WalletHandler struct {
	walletService *service.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletService *service.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// AmountBody is the HTTP request body carrying a monetary amount.
type AmountBody struct {
	Amount float64 `json:"amount"`
}

// WithdrawBody is the HTTP request body for a PIX withdrawal.
type WithdrawBody struct {
	Amount     float64 `json:"amount"`
	PixKeyType string  `json:"pix_key_type"`
	PixKey     string  `json:"pix_key"`
}

// WebhookBody is the HTTP request body sent by the payment gateway.
type WebhookBody struct {
	ChargeID string `json:"charge_id"`
	Event    string `json:"event"`
}

// WalletResponse is the HTTP response for wallet state.
type WalletResponse struct {
	ID      string  `json:"id"`
	UserID  string  `json:"user_id"`
	Balance float64 `json:"balance"`
	Version int64   `json:"version"`
}

// ChargeResponse is the HTTP response for a PIX recharge charge.
type ChargeResponse struct {
	ID        string  `json:"id"`
	Amount    float64 `json:"amount"`
	Code      string  `json:"code"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

// TransactionResponse is the HTTP response for a ledger entry.
type TransactionResponse struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"created_at"`
}

func toWalletResponse(wallet *domain.Wallet) WalletResponse {
	return WalletResponse{
		ID:      wallet.ID,
		UserID:  wallet.UserID,
		Balance: wallet.Balance.InexactFloat64(),
		Version: wallet.Version,
	}
}

// Get handles GET /v1/wallet
func (h *WalletHandler) Get(c *gin.Context) {
	wallet, err := h.walletService.EnsureWallet(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toWalletResponse(wallet))
}

// Recharge handles POST /v1/wallet/recharge
func (h *WalletHandler) Recharge(c *gin.Context) {
	var body AmountBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	charge, err := h.walletService.Recharge(c.Request.Context(), c.GetString("user_id"), decimal.NewFromFloat(body.Amount))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ChargeResponse{
		ID:        charge.ID,
		Amount:    charge.Amount.InexactFloat64(),
		Code:      charge.Code,
		Status:    string(charge.Status),
		CreatedAt: charge.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// Webhook handles POST /v1/payments/webhook
//
// The gateway confirms a PIX charge here. Replays of the same event
// return the current wallet without crediting again.
func (h *WalletHandler) Webhook(c *gin.Context) {
	var body WebhookBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if body.ChargeID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "charge_id is required"})
		return
	}

	if body.Event != "" && body.Event != "pix.paid" {
		c.JSON(http.StatusOK, gin.H{"message": "Event ignored"})
		return
	}

	wallet, err := h.walletService.ConfirmRecharge(c.Request.Context(), body.ChargeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toWalletResponse(wallet))
}

// Withdraw handles POST /v1/wallet/withdraw
func (h *WalletHandler) Withdraw(c *gin.Context) {
	var body WithdrawBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	wallet, err := h.walletService.Withdraw(c.Request.Context(), service.WithdrawInput{
		UserID:     c.GetString("user_id"),
		Amount:     decimal.NewFromFloat(body.Amount),
		PixKeyType: domain.PixKeyType(body.PixKeyType),
		PixKey:     body.PixKey,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toWalletResponse(wallet))
}

// Pay handles POST /v1/wallet/pay/:request_id
func (h *WalletHandler) Pay(c *gin.Context) {
	wallet, err := h.walletService.PayRequest(c.Request.Context(), c.GetString("user_id"), c.Param("request_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toWalletResponse(wallet))
}

// Transactions handles GET /v1/wallet/transactions
func (h *WalletHandler) Transactions(c *gin.Context) {
	transactions, err := h.walletService.Transactions(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		response = append(response, TransactionResponse{
			ID:          tx.ID,
			Type:        string(tx.Type),
			Amount:      tx.Amount.InexactFloat64(),
			Description: tx.Description,
			CreatedAt:   tx.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	c.JSON(http.StatusOK, response)
}
