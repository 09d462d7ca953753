// Package http 借贷模拟引擎 HTTP 接口
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"

	"github.com/wyfcoding/defilending/internal/lending/application"
	"github.com/wyfcoding/defilending/internal/lending/domain"
)

type LendingHandler struct {
	engine *application.SimulationEngine
}

func NewLendingHandler(engine *application.SimulationEngine) *LendingHandler {
	return &LendingHandler{engine: engine}
}

func (h *LendingHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/lending")
	{
		api.POST("/users", h.CreateUser)
		api.GET("/users/:address", h.GetUser)

		api.GET("/accounts", h.ListAccounts)
		api.GET("/accounts/:id", h.GetAccount)
		api.POST("/accounts", h.Borrow)
		api.POST("/accounts/:id/collateral", h.AddCollateral)
		api.POST("/accounts/:id/borrow", h.AddBorrow)
		api.POST("/accounts/:id/deploy", h.DeployToStrategy)
		api.POST("/accounts/:id/withdraw", h.WithdrawFromStrategy)
		api.POST("/accounts/:id/repay", h.RepayDebt)
		api.POST("/accounts/:id/liquidate", h.LiquidateAccount)

		api.GET("/pool", h.GetPoolState)
		api.GET("/clock", h.GetClock)
		api.POST("/clock/advance", h.AdvanceTime)

		api.POST("/prices/drop", h.SimulatePriceDrop)
		api.POST("/prices/revert", h.RevertPrice)
	}
}

type CreateUserReq struct {
	Address        string            `json:"address" binding:"required"`
	InitialBalance map[string]string `json:"initial_balance"`
}

func (h *LendingHandler) CreateUser(c *gin.Context) {
	var req CreateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	balance := make(map[string]decimal.Decimal, len(req.InitialBalance))
	for asset, amount := range req.InitialBalance {
		value, err := decimal.NewFromString(amount)
		if err != nil {
			response.ErrorWithStatus(c, http.StatusBadRequest, "invalid balance amount", "")
			return
		}
		balance[asset] = value
	}

	user := h.engine.CreateUser(c.Request.Context(), req.Address, balance)
	response.Success(c, user)
}

func (h *LendingHandler) GetUser(c *gin.Context) {
	user, err := h.engine.GetUser(c.Request.Context(), c.Param("address"))
	if err != nil {
		response.ErrorWithStatus(c, statusOf(err), err.Error(), "")
		return
	}
	response.Success(c, user)
}

type BorrowReq struct {
	UserAddress      string `json:"user_address" binding:"required"`
	CollateralAsset  string `json:"collateral_asset" binding:"required"`
	CollateralAmount string `json:"collateral_amount" binding:"required"`
	BorrowAmount     string `json:"borrow_amount" binding:"required"`
}

func (h *LendingHandler) Borrow(c *gin.Context) {
	var req BorrowReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	collateralAmount, err := decimal.NewFromString(req.CollateralAmount)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid collateral_amount", "")
		return
	}
	borrowAmount, err := decimal.NewFromString(req.BorrowAmount)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid borrow_amount", "")
		return
	}

	result, err := h.engine.Borrow(c.Request.Context(), application.BorrowCmd{
		UserAddress:      req.UserAddress,
		CollateralAsset:  req.CollateralAsset,
		CollateralAmount: collateralAmount,
		BorrowAmount:     borrowAmount,
	})
	if err != nil {
		logging.Error(c.Request.Context(), "borrow failed", "user", req.UserAddress, "error", err)
		response.ErrorWithStatus(c, statusOf(err), err.Error(), "")
		return
	}
	response.Success(c, result)
}

type AddCollateralReq struct {
	UserAddress string `json:"user_address" binding:"required"`
	Asset       string `json:"asset" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
}

func (h *LendingHandler) AddCollateral(c *gin.Context) {
	var req AddCollateralReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid amount", "")
		return
	}

	result, err := h.engine.AddCollateral(c.Request.Context(), application.AddCollateralCmd{
		UserAddress: req.UserAddress,
		AccountID:   c.Param("id"),
		Asset:       req.Asset,
		Amount:      amount,
	})
	if err != nil {
		logging.Error(c.Request.Context(), "add collateral failed", "account_id", c.Param("id"), "error", err)
		response.ErrorWithStatus(c, statusOf(err), err.Error(), "")
		return
	}
	response.Success(c, result)
}

type AddBorrowReq struct {
	UserAddress string `json:"user_address" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
}

func (h *LendingHandler) AddBorrow(c *gin.Context) {
	var req AddBorrowReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid amount", "")
		return
	}

	result, err := h.engine.AddBorrow(c.Request.Context(), application.AddBorrowCmd{
		UserAddress: req.UserAddress,
		AccountID:   c.Param("id"),
		Amount:      amount,
	})
	if err != nil {
		logging.Error(c.Request.Context(), "add borrow failed", "account_id", c.Param("id"), "error", err)
		response.ErrorWithStatus(c, statusOf(err), err.Error(), "")
		return
	}
	response.Success(c, result)
}

type AccountActionReq struct {
	UserAddress string `json:"user_address" binding:"required"`
}

func (h *LendingHandler) DeployToStrategy(c *gin.Context) {
	var req AccountActionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	result, err := h.engine.DeployToStrategy(c.Request.Context(), req.UserAddress, c.Param("id"))
	if err != nil {
		response.ErrorWithStatus(c, statusOf(err), err.Error(), "")
		return
	}
	response.Success(c, result)
}

func (h *LendingHandler) WithdrawFromStrategy(c *gin.Context) {
	var req AccountActionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	result, err := h.engine.WithdrawFromStrategy(c.Request.Context(), req.UserAddress, c.Param("id"))
	if err != nil {
		response.ErrorWithStatus(c, statusOf(err), err.Error(), "")
		return
	}
	response.Success(c, result)
}

func (h *LendingHandler) RepayDebt(c *gin.Context) {
	var req AccountActionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	result, err := h.engine.RepayDebt(c.Request.Context(), req.UserAddress, c.Param("id"))
	if err != nil {
		logging.Error(c.Request.Context(), "repay failed", "account_id", c.Param("id"), "error", err)
		response.ErrorWithStatus(c, statusOf(err), err.Error(), "")
		return
	}
	response.Success(c, result)
}

func (h *LendingHandler) LiquidateAccount(c *gin.Context) {
	result, err := h.engine.LiquidateAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		logging.Error(c.Request.Context(), "liquidation failed", "account_id", c.Param("id"), "error", err)
		response.ErrorWithStatus(c, statusOf(err), err.Error(), "")
		return
	}
	response.Success(c, result)
}

func (h *LendingHandler) ListAccounts(c *gin.Context) {
	response.Success(c, h.engine.GetAllAccounts())
}

func (h *LendingHandler) GetAccount(c *gin.Context) {
	account, err := h.engine.GetAccount(c.Param("id"))
	if err != nil {
		response.ErrorWithStatus(c, statusOf(err), err.Error(), "")
		return
	}
	response.Success(c, account)
}

func (h *LendingHandler) GetPoolState(c *gin.Context) {
	response.Success(c, h.engine.GetPoolState())
}

func (h *LendingHandler) GetClock(c *gin.Context) {
	response.Success(c, gin.H{"elapsed_days": h.engine.GetElapsedDays()})
}

type AdvanceTimeReq struct {
	Days int `json:"days" binding:"required"`
}

func (h *LendingHandler) AdvanceTime(c *gin.Context) {
	var req AdvanceTimeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	if err := h.engine.AdvanceTime(c.Request.Context(), req.Days); err != nil {
		response.ErrorWithStatus(c, statusOf(err), err.Error(), "")
		return
	}
	response.Success(c, gin.H{"elapsed_days": h.engine.GetElapsedDays()})
}

type PriceDropReq struct {
	Percent string `json:"percent" binding:"required"`
	Asset   string `json:"asset"`
}

func (h *LendingHandler) SimulatePriceDrop(c *gin.Context) {
	var req PriceDropReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	percent, err := decimal.NewFromString(req.Percent)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid percent", "")
		return
	}

	asset, price := h.engine.SimulatePriceDrop(c.Request.Context(), percent, req.Asset)
	response.Success(c, gin.H{"asset": asset, "price": price})
}

type RevertPriceReq struct {
	Asset string `json:"asset" binding:"required"`
}

func (h *LendingHandler) RevertPrice(c *gin.Context) {
	var req RevertPriceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	h.engine.RevertPrice(c.Request.Context(), req.Asset)
	response.Success(c, gin.H{"asset": req.Asset, "price": h.engine.GetPrice(req.Asset)})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrAccountAlreadyLiquidated), errors.Is(err, domain.ErrAccountNotLiquidatable):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInsufficientWalletBalance),
		errors.Is(err, domain.ErrInsufficientPoolLiquidity),
		errors.Is(err, domain.ErrLeverageTooHigh),
		errors.Is(err, domain.ErrHealthFactorTooLow),
		errors.Is(err, domain.ErrNoFundsAvailable),
		errors.Is(err, domain.ErrInsufficientFundsToRepay):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
