package domain

import (
	"context"
	"time"
)

const (
	CreditAccountOpenedEventType     = "lending.account.opened"
	CreditAccountLiquidatedEventType = "lending.account.liquidated"
	PriceShockAppliedEventType       = "lending.price.shock"
)

// CreditAccountOpenedEvent 信贷账户开仓事件
type CreditAccountOpenedEvent struct {
	AccountID        string    `json:"account_id"`
	Owner            string    `json:"owner"`
	CollateralAsset  string    `json:"collateral_asset"`
	CollateralAmount float64   `json:"collateral_amount"`
	BorrowedAmount   float64   `json:"borrowed_amount"`
	Leverage         float64   `json:"leverage"`
	HealthFactor     float64   `json:"health_factor"`
	OpenedAtBlock    uint64    `json:"opened_at_block"`
	OccurredOn       time.Time `json:"occurred_on"`
}

// CreditAccountLiquidatedEvent 信贷账户清算事件
type CreditAccountLiquidatedEvent struct {
	AccountID      string    `json:"account_id"`
	Owner          string    `json:"owner"`
	DebtRepaid     float64   `json:"debt_repaid"`
	PenaltyAmount  float64   `json:"penalty_amount"`
	CollateralLost float64   `json:"collateral_lost"`
	OccurredOn     time.Time `json:"occurred_on"`
}

// PriceShockAppliedEvent 价格冲击事件
type PriceShockAppliedEvent struct {
	Asset       string    `json:"asset"`
	DropPercent float64   `json:"drop_percent"`
	NewPrice    float64   `json:"new_price"`
	OccurredOn  time.Time `json:"occurred_on"`
}

// EventPublisher 领域事件发布接口。发布失败只记录日志，不影响动作本身。
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, key string, payload any) error
}
