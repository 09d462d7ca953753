package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	DefaultStrategyAPY = decimal.NewFromFloat(0.08)

	daysPerYear = decimal.NewFromInt(365)
)

// YieldStrategy 模拟收益金库的账户级子账本。
// Rewards 只是可领取的历史计数，收益本身复投进 DepositedAmount；
// 估值只读 DepositedAmount，绝不把 Rewards 再计一遍。
type YieldStrategy struct {
	DepositedAmount decimal.Decimal `json:"deposited_amount"`
	YieldAPY        decimal.Decimal `json:"yield_apy"`
	Rewards         decimal.Decimal `json:"rewards"`
	LastUpdate      time.Time       `json:"last_update"`
}

func NewYieldStrategy() *YieldStrategy {
	return &YieldStrategy{
		DepositedAmount: decimal.Zero,
		YieldAPY:        DefaultStrategyAPY,
		Rewards:         decimal.Zero,
		LastUpdate:      time.Now(),
	}
}

// Value 返回当前本金（含已复投收益）。
func (s *YieldStrategy) Value() decimal.Decimal {
	return s.DepositedAmount
}

// Deposit 追加本金。正数校验由账户层动作负责。
func (s *YieldStrategy) Deposit(amount decimal.Decimal) {
	s.DepositedAmount = s.DepositedAmount.Add(amount)
}

// AccrueYield 按天计提收益：本金复投增长，同时累加可领取计数。
func (s *YieldStrategy) AccrueYield(days int) {
	dailyRate := s.YieldAPY.Div(daysPerYear)
	yieldAmount := s.DepositedAmount.Mul(dailyRate).Mul(decimal.NewFromInt(int64(days)))
	s.DepositedAmount = s.DepositedAmount.Add(yieldAmount)
	s.Rewards = s.Rewards.Add(yieldAmount)
	s.LastUpdate = time.Now()
}

// Withdraw 全额赎回并清空子账本。未领取的 Rewards 一并作废，这是既定策略。
func (s *YieldStrategy) Withdraw() decimal.Decimal {
	value := s.DepositedAmount
	s.DepositedAmount = decimal.Zero
	s.Rewards = decimal.Zero
	return value
}

// ClaimRewards 领取并清零奖励计数，本金不动。
func (s *YieldStrategy) ClaimRewards() decimal.Decimal {
	claimed := s.Rewards
	s.Rewards = decimal.Zero
	return claimed
}
