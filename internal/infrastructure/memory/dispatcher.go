package memory

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/application/auth"
)

// LogDispatcher stands in for the broker when RabbitMQ is not configured:
// email events are logged instead of published. Codes still show up in
// the log, which is what local development needs.
type LogDispatcher struct{}

func NewLogDispatcher() *LogDispatcher { return &LogDispatcher{} }

func (d *LogDispatcher) PublishVerificationCode(ctx context.Context, evt auth.VerificationCodeEvent) error {
	log.Info().
		Int64("user_id", evt.UserID).
		Str("email", evt.Email).
		Str("code", evt.Code).
		Time("expires_at", evt.ExpiresAt).
		Msg("[log-dispatch] verification code")
	return nil
}

func (d *LogDispatcher) PublishWelcome(ctx context.Context, evt auth.WelcomeEvent) error {
	log.Info().
		Str("email", evt.Email).
		Msg("[log-dispatch] welcome email")
	return nil
}
