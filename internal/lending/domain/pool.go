package domain

import "github.com/shopspring/decimal"

// 双拐点分段线性利率模型默认参数。
var (
	DefaultBaseRate  = decimal.NewFromFloat(0.02)
	DefaultKink1     = decimal.NewFromFloat(0.60)
	DefaultKink2     = decimal.NewFromFloat(0.85)
	DefaultSlope1    = decimal.NewFromFloat(0.08)
	DefaultSlope2    = decimal.NewFromFloat(0.10)
	DefaultSlope3    = decimal.NewFromFloat(0.30)
	DefaultSpreadFee = decimal.NewFromFloat(0.05)
)

// LiquidityPool 单资产借贷池。
// 不变式：每次完整操作结束后 0 <= TotalBorrowed <= TotalLiquidity，
// 由操作前的前置检查保证，而非事后截断。
type LiquidityPool struct {
	Asset          string          `json:"asset"`
	TotalLiquidity decimal.Decimal `json:"total_liquidity"`
	TotalBorrowed  decimal.Decimal `json:"total_borrowed"`

	BaseRate  decimal.Decimal `json:"base_rate"`
	Kink1     decimal.Decimal `json:"utilization_kink1"`
	Kink2     decimal.Decimal `json:"utilization_kink2"`
	Slope1    decimal.Decimal `json:"slope1"`
	Slope2    decimal.Decimal `json:"slope2"`
	Slope3    decimal.Decimal `json:"slope3"`
	SpreadFee decimal.Decimal `json:"spread_fee"`
}

func NewLiquidityPool(asset string, totalLiquidity, totalBorrowed decimal.Decimal) *LiquidityPool {
	return &LiquidityPool{
		Asset:          asset,
		TotalLiquidity: totalLiquidity,
		TotalBorrowed:  totalBorrowed,
		BaseRate:       DefaultBaseRate,
		Kink1:          DefaultKink1,
		Kink2:          DefaultKink2,
		Slope1:         DefaultSlope1,
		Slope2:         DefaultSlope2,
		Slope3:         DefaultSlope3,
		SpreadFee:      DefaultSpreadFee,
	}
}

// Available 返回池中尚可借出的流动性。
func (p *LiquidityPool) Available() decimal.Decimal {
	return p.TotalLiquidity.Sub(p.TotalBorrowed)
}

// Utilization 返回资金利用率，区间 [0,1]；流动性为零时返回 0。
func (p *LiquidityPool) Utilization() decimal.Decimal {
	if p.TotalLiquidity.IsZero() {
		return decimal.Zero
	}
	return decimal.Min(p.TotalBorrowed.Div(p.TotalLiquidity), decimal.NewFromInt(1))
}

// BorrowRate 按双拐点分段线性模型计算名义年化借款利率。
// 分段下边界取闭区间，保证两个拐点处曲线连续。
func (p *LiquidityPool) BorrowRate() decimal.Decimal {
	util := p.Utilization()

	if util.LessThanOrEqual(p.Kink1) {
		return p.BaseRate.Add(util.Div(p.Kink1).Mul(p.Slope1))
	}
	if util.LessThanOrEqual(p.Kink2) {
		return p.BaseRate.Add(p.Slope1).
			Add(util.Sub(p.Kink1).Div(p.Kink2.Sub(p.Kink1)).Mul(p.Slope2))
	}
	return p.BaseRate.Add(p.Slope1).Add(p.Slope2).
		Add(util.Sub(p.Kink2).Div(decimal.NewFromInt(1).Sub(p.Kink2)).Mul(p.Slope3))
}

// EffectiveBorrowRate 返回借款人实际承担的利率：名义利率加点差。
// 点差是协议收入，不会回流到池子的 TotalLiquidity。
func (p *LiquidityPool) EffectiveBorrowRate() decimal.Decimal {
	return p.BorrowRate().Mul(decimal.NewFromInt(1).Add(p.SpreadFee))
}

// Lend 从池中借出资金；流动性不足时返回 ErrInsufficientPoolLiquidity。
func (p *LiquidityPool) Lend(amount decimal.Decimal) error {
	if amount.GreaterThan(p.Available()) {
		return ErrInsufficientPoolLiquidity
	}
	p.TotalBorrowed = p.TotalBorrowed.Add(amount)
	return nil
}

// Repay 归还借款本金。只减少本金，利息不回流借贷台账。
func (p *LiquidityPool) Repay(principal decimal.Decimal) {
	p.TotalBorrowed = p.TotalBorrowed.Sub(principal)
}
