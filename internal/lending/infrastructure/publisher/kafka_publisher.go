package publisher

import (
	"context"
	"encoding/json"

	"github.com/wyfcoding/pkg/messagequeue/kafka"

	"github.com/wyfcoding/defilending/internal/lending/domain"
)

// KafkaEventPublisher 基于 Kafka 的领域事件发布器，事件类型即主题名。
type KafkaEventPublisher struct {
	producer *kafka.Producer
}

func NewKafkaEventPublisher(producer *kafka.Producer) domain.EventPublisher {
	return &KafkaEventPublisher{producer: producer}
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, eventType string, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.producer.PublishToTopic(ctx, eventType, []byte(key), data)
}
