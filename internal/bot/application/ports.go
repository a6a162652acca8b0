package application

import (
	"context"

	botdomain "github.com/paybot-id/paybot/internal/bot/domain"
	paydomain "github.com/paybot-id/paybot/internal/payment/domain"
)

type Messenger interface {
	SendText(ctx context.Context, target, message string) (botdomain.DeliveryResult, error)
	SendImage(ctx context.Context, target, fileURL, caption string) (botdomain.DeliveryResult, error)
}

type PaymentGateway interface {
	CreateOrder(ctx context.Context, refID string, amount int64, channel string) (paydomain.Order, error)
	CheckStatus(ctx context.Context, refID string) (string, error)
}
