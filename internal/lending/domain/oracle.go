package domain

import "github.com/shopspring/decimal"

var defaultPrices = map[string]decimal.Decimal{
	"USDC": decimal.NewFromFloat(1.0),
	"ETH":  decimal.NewFromFloat(3000.0),
}

// DefaultPrices 返回预设的参考价格表（USDC=1.0, ETH=3000.0）。
func DefaultPrices() map[string]decimal.Decimal {
	prices := make(map[string]decimal.Decimal, len(defaultPrices))
	for asset, price := range defaultPrices {
		prices[asset] = price
	}
	return prices
}

// PriceOracle 简单价格预言机，维护资产符号到美元价格的映射。
type PriceOracle struct {
	prices map[string]decimal.Decimal
}

func NewPriceOracle(prices map[string]decimal.Decimal) *PriceOracle {
	copied := make(map[string]decimal.Decimal, len(prices))
	for asset, price := range prices {
		copied[asset] = price
	}
	return &PriceOracle{prices: copied}
}

// GetPrice 返回资产价格；未知资产返回 0（估值时静默贡献零，不报错）。
func (o *PriceOracle) GetPrice(asset string) decimal.Decimal {
	price, ok := o.prices[asset]
	if !ok {
		return decimal.Zero
	}
	return price
}

// DropPrices 将所有资产价格按百分比下调（压力测试用，不可自行恢复）。
func (o *PriceOracle) DropPrices(percent decimal.Decimal) {
	factor := decimal.NewFromInt(1).Sub(percent.Div(decimal.NewFromInt(100)))
	for asset := range o.prices {
		o.prices[asset] = o.prices[asset].Mul(factor)
	}
}

// DropPrice 将单个资产价格按百分比下调。
func (o *PriceOracle) DropPrice(asset string, percent decimal.Decimal) {
	factor := decimal.NewFromInt(1).Sub(percent.Div(decimal.NewFromInt(100)))
	o.prices[asset] = o.GetPrice(asset).Mul(factor)
}

// RevertPrice 将资产价格恢复为预设参考价；不在参考价表中的资产为空操作。
func (o *PriceOracle) RevertPrice(asset string) {
	if original, ok := defaultPrices[asset]; ok {
		o.prices[asset] = original
	}
}
