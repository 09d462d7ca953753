package application

import "github.com/shopspring/decimal"

// BorrowCmd 开仓命令：抵押 + 借款。
type BorrowCmd struct {
	UserAddress      string          `json:"user_address"`
	CollateralAsset  string          `json:"collateral_asset"`
	CollateralAmount decimal.Decimal `json:"collateral_amount"`
	BorrowAmount     decimal.Decimal `json:"borrow_amount"`
}

type AddCollateralCmd struct {
	UserAddress string          `json:"user_address"`
	AccountID   string          `json:"account_id"`
	Asset       string          `json:"asset"`
	Amount      decimal.Decimal `json:"amount"`
}

type AddBorrowCmd struct {
	UserAddress string          `json:"user_address"`
	AccountID   string          `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
}

type BorrowResult struct {
	AccountID        string          `json:"account_id"`
	CollateralAsset  string          `json:"collateral_asset"`
	CollateralAmount decimal.Decimal `json:"collateral_amount"`
	BorrowedAmount   decimal.Decimal `json:"borrowed_amount"`
	Leverage         decimal.Decimal `json:"leverage"`
	HealthFactor     decimal.Decimal `json:"health_factor"`
}

type AddCollateralResult struct {
	AccountID       string          `json:"account_id"`
	Asset           string          `json:"asset"`
	Amount          decimal.Decimal `json:"amount"`
	NewHealthFactor decimal.Decimal `json:"new_health_factor"`
}

type AddBorrowResult struct {
	AccountID       string          `json:"account_id"`
	Amount          decimal.Decimal `json:"amount"`
	NewHealthFactor decimal.Decimal `json:"new_health_factor"`
	NewLeverage     decimal.Decimal `json:"new_leverage"`
}

type DeployResult struct {
	AccountID      string          `json:"account_id"`
	AmountDeployed decimal.Decimal `json:"amount_deployed"`
	StrategyValue  decimal.Decimal `json:"strategy_value"`
}

type WithdrawResult struct {
	AccountID       string          `json:"account_id"`
	AmountWithdrawn decimal.Decimal `json:"amount_withdrawn"`
	StrategyValue   decimal.Decimal `json:"strategy_value"`
}

type RepayResult struct {
	AccountID          string          `json:"account_id"`
	DebtRepaid         decimal.Decimal `json:"debt_repaid"`
	AvailableRemaining decimal.Decimal `json:"available_remaining"`
}

type LiquidationResult struct {
	AccountID      string          `json:"account_id"`
	Owner          string          `json:"owner"`
	DebtRepaid     decimal.Decimal `json:"debt_repaid"`
	PenaltyAmount  decimal.Decimal `json:"liquidation_penalty"`
	CollateralLost decimal.Decimal `json:"collateral_lost"`
}

// PoolState 池子快照，含派生指标。
type PoolState struct {
	Asset          string          `json:"asset"`
	TotalLiquidity decimal.Decimal `json:"total_liquidity"`
	TotalBorrowed  decimal.Decimal `json:"total_borrowed"`
	Available      decimal.Decimal `json:"available"`
	Utilization    decimal.Decimal `json:"utilization"`
	BaseRateAPY    decimal.Decimal `json:"base_rate_apy"`
	BorrowRateAPY  decimal.Decimal `json:"borrow_rate_apy"`
	CurrentBlock   uint64          `json:"current_block"`
	ElapsedDays    float64         `json:"elapsed_days"`
}

// AccountSummary 账户视图，估值字段全部即时计算。
type AccountSummary struct {
	AccountID          string          `json:"account_id"`
	Owner              string          `json:"owner"`
	CollateralValueUSD decimal.Decimal `json:"collateral_value_usd"`
	BorrowedPrincipal  decimal.Decimal `json:"borrowed_principal"`
	AccruedInterest    decimal.Decimal `json:"accrued_interest"`
	TotalDebt          decimal.Decimal `json:"total_debt"`
	DepositedAmount    decimal.Decimal `json:"deposited_amount"`
	StrategyValueUSD   decimal.Decimal `json:"strategy_value_usd"`
	Rewards            decimal.Decimal `json:"rewards"`
	AvailableCash      decimal.Decimal `json:"available_cash"`
	HealthFactor       decimal.Decimal `json:"health_factor"`
	Status             string          `json:"status"`
	IsLiquidated       bool            `json:"is_liquidated"`
}

type UserDTO struct {
	Address       string                     `json:"address"`
	WalletBalance map[string]decimal.Decimal `json:"wallet_balance"`
}
