package memory

import (
	"context"

	"github.com/iusta/account-service/internal/application/account"
)

// NoopPublisher stands in for the broker when RabbitMQ is unavailable in dev.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (NoopPublisher) PublishRegistered(ctx context.Context, evt account.RegisteredEvent) error {
	return nil
}

func (NoopPublisher) PublishEmailConfirmed(ctx context.Context, evt account.EmailConfirmedEvent) error {
	return nil
}

func (NoopPublisher) PublishPasswordReset(ctx context.Context, evt account.PasswordResetEvent) error {
	return nil
}
