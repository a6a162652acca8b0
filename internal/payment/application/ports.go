package application

import "context"

type MessageSender interface {
	SendText(ctx context.Context, target, message string) error
}

type DedupStore interface {
	Key(referenceID, status string) string
	Seen(ctx context.Context, key string) (bool, error)
}
