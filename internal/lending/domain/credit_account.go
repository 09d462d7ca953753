package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrUserNotFound              = errors.New("user not found")
	ErrAccountNotFound           = errors.New("credit account not found")
	ErrNotOwner                  = errors.New("user does not own this credit account")
	ErrInvalidAmount             = errors.New("amount must be positive")
	ErrInsufficientWalletBalance = errors.New("insufficient wallet balance")
	ErrInsufficientPoolLiquidity = errors.New("insufficient pool liquidity")
	ErrLeverageTooHigh           = errors.New("leverage too high")
	ErrHealthFactorTooLow        = errors.New("health factor too low")
	ErrAccountAlreadyLiquidated  = errors.New("account already liquidated")
	ErrAccountNotLiquidatable    = errors.New("account is not liquidatable")
	ErrNoFundsAvailable          = errors.New("no funds available")
	ErrInsufficientFundsToRepay  = errors.New("insufficient funds to repay debt")
)

type AccountStatus string

const (
	AccountStatusHealthy      AccountStatus = "healthy"
	AccountStatusAtRisk       AccountStatus = "at_risk"
	AccountStatusLiquidatable AccountStatus = "liquidatable"
)

var (
	// DefaultLiquidationThreshold 健康因子计算中抵押物价值的折扣系数。
	DefaultLiquidationThreshold = decimal.NewFromFloat(0.95)
	// MinOpenHealthFactor 开仓或加杠杆所需的最低健康因子。
	MinOpenHealthFactor = decimal.NewFromFloat(1.2)
	// LiquidationHFBound 健康因子低于此值即可被清算。
	LiquidationHFBound = decimal.NewFromInt(1)
	// LiquidationPenaltyRate 清算罚金比例，按总债务计。
	LiquidationPenaltyRate = decimal.NewFromFloat(0.05)
	// MaxHealthFactor 零负债账户的健康因子哨兵值。
	MaxHealthFactor = decimal.NewFromInt(999)
)

// User 系统内用户，钱包余额仅由账户动作借记/贷记。
type User struct {
	Address       string                     `json:"address"`
	WalletBalance map[string]decimal.Decimal `json:"wallet_balance"`
}

func NewUser(address string, initialBalance map[string]decimal.Decimal) *User {
	balance := make(map[string]decimal.Decimal, len(initialBalance))
	for asset, amount := range initialBalance {
		balance[asset] = amount
	}
	return &User{Address: address, WalletBalance: balance}
}

// CreditAccount 杠杆头寸：抵押物、债务、应计利息、可选收益策略与未部署现金。
// IsLiquidated 为真后账户进入终态，永远不可再变更。
type CreditAccount struct {
	AccountID            string                     `json:"account_id"`
	Owner                string                     `json:"owner"`
	Collateral           map[string]decimal.Decimal `json:"collateral"`
	BorrowedAmount       decimal.Decimal            `json:"borrowed_amount"`
	BorrowedAsset        string                     `json:"borrowed_asset"`
	AccruedInterest      decimal.Decimal            `json:"accrued_interest"`
	LiquidationThreshold decimal.Decimal            `json:"liquidation_threshold"`
	AvailableCash        decimal.Decimal            `json:"available_cash"`
	Strategy             *YieldStrategy             `json:"strategy,omitempty"`
	IsLiquidated         bool                       `json:"is_liquidated"`
	OpenedAtBlock        uint64                     `json:"opened_at_block"`
	LastUpdate           time.Time                  `json:"last_update"`
}

func NewCreditAccount(accountID, owner string, collateral map[string]decimal.Decimal, borrowedAmount decimal.Decimal, borrowedAsset string, openedAtBlock uint64) *CreditAccount {
	copied := make(map[string]decimal.Decimal, len(collateral))
	for asset, amount := range collateral {
		copied[asset] = amount
	}
	return &CreditAccount{
		AccountID:            accountID,
		Owner:                owner,
		Collateral:           copied,
		BorrowedAmount:       borrowedAmount,
		BorrowedAsset:        borrowedAsset,
		AccruedInterest:      decimal.Zero,
		LiquidationThreshold: DefaultLiquidationThreshold,
		AvailableCash:        decimal.Zero,
		OpenedAtBlock:        openedAtBlock,
		LastUpdate:           time.Now(),
	}
}

// TotalDebt 返回本金加应计利息。
func (a *CreditAccount) TotalDebt() decimal.Decimal {
	return a.BorrowedAmount.Add(a.AccruedInterest)
}

// CollateralValueUSD 按当前预言机价格估值全部抵押物。
func (a *CreditAccount) CollateralValueUSD(oracle *PriceOracle) decimal.Decimal {
	total := decimal.Zero
	for asset, amount := range a.Collateral {
		total = total.Add(amount.Mul(oracle.GetPrice(asset)))
	}
	return total
}

// DebtValueUSD 按借款资产价格估值总债务。
func (a *CreditAccount) DebtValueUSD(oracle *PriceOracle) decimal.Decimal {
	return a.TotalDebt().Mul(oracle.GetPrice(a.BorrowedAsset))
}

// StrategyValueUSD 按借款资产价格估值策略本金；无策略时为零。
func (a *CreditAccount) StrategyValueUSD(oracle *PriceOracle) decimal.Decimal {
	if a.Strategy == nil {
		return decimal.Zero
	}
	return a.Strategy.Value().Mul(oracle.GetPrice(a.BorrowedAsset))
}

// AvailableCashUSD 按借款资产价格估值未部署现金。
func (a *CreditAccount) AvailableCashUSD(oracle *PriceOracle) decimal.Decimal {
	return a.AvailableCash.Mul(oracle.GetPrice(a.BorrowedAsset))
}

// TotalPositionValue 头寸净值：抵押物 + 策略 + 现金 - 债务，全部按美元。
func (a *CreditAccount) TotalPositionValue(oracle *PriceOracle) decimal.Decimal {
	return a.CollateralValueUSD(oracle).
		Add(a.StrategyValueUSD(oracle)).
		Add(a.AvailableCashUSD(oracle)).
		Sub(a.DebtValueUSD(oracle))
}

// HealthFactor 健康因子：(抵押物 + 策略 + 现金) * 清算阈值 / 债务。
// 零负债返回 MaxHealthFactor 哨兵值。估值永不缓存。
func (a *CreditAccount) HealthFactor(oracle *PriceOracle) decimal.Decimal {
	debt := a.DebtValueUSD(oracle)
	if debt.IsZero() {
		return MaxHealthFactor
	}
	totalCollateral := a.CollateralValueUSD(oracle).
		Add(a.StrategyValueUSD(oracle)).
		Add(a.AvailableCashUSD(oracle))
	return totalCollateral.Mul(a.LiquidationThreshold).Div(debt)
}

// Status 由健康因子即时推导，绝不落盘存储。
func (a *CreditAccount) Status(oracle *PriceOracle) AccountStatus {
	hf := a.HealthFactor(oracle)
	switch {
	case hf.LessThan(LiquidationHFBound):
		return AccountStatusLiquidatable
	case hf.LessThan(MinOpenHealthFactor):
		return AccountStatusAtRisk
	default:
		return AccountStatusHealthy
	}
}
