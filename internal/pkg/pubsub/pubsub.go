package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelPaymentEvents = "payment_events"
)

// 事件类型
const (
	EventSubscriptionPurchased = "subscription.purchased"
	EventSubscriptionExpired   = "subscription.expired"
	EventVendorOnboarded       = "vendor.onboarded"
	EventVendorSynced          = "vendor.synced"
	EventSplitPaymentCreated   = "payment.split_created"
)

// Event 支付事件消息
type Event struct {
	Type       string            `json:"type"`
	UserID     string            `json:"user_id,omitempty"`
	AccountID  string            `json:"account_id,omitempty"`
	IntentID   string            `json:"intent_id,omitempty"`
	Amount     int64             `json:"amount,omitempty"`
	Fee        int64             `json:"fee,omitempty"`
	Currency   string            `json:"currency,omitempty"`
	Count      int64             `json:"count,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Publisher Redis 发布者，client 为 nil 时不发布
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish 发布事件
func (p *Publisher) Publish(ctx context.Context, evt *Event) error {
	if p == nil || p.client == nil {
		return nil
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal payment event: %w", err)
	}

	return p.client.Publish(ctx, ChannelPaymentEvents, data).Err()
}
