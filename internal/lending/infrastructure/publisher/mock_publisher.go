package publisher

import (
	"context"
	"fmt"

	"github.com/wyfcoding/defilending/internal/lending/domain"
)

// MockEventPublisher 本地调试用发布器，事件直接打印。
type MockEventPublisher struct{}

func NewMockEventPublisher() domain.EventPublisher {
	return &MockEventPublisher{}
}

func (p *MockEventPublisher) Publish(ctx context.Context, eventType string, key string, payload any) error {
	fmt.Printf("[MockEventPublisher] %s key=%s payload=%+v\n", eventType, key, payload)
	return nil
}
