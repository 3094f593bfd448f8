// Package confirmation dispatches email-confirmation messages to the mail
// queue. Delivery is fire-and-forget: a publish failure is logged and never
// surfaced, so signup does not fail because notification did.
package confirmation

import (
	"context"
	"fmt"
	"log/slog"

	sl "contacts_service/internal/lib/logger"
	"contacts_service/internal/models"
)

type Publisher interface {
	SendMessage(ctx context.Context, msg models.Message) error
}

type TokenMinter interface {
	NewEmailToken(email string) (string, error)
}

// Send mints a confirmation token and queues the confirmation mail.
// Returns an error only when the token itself cannot be minted.
func Send(
	ctx context.Context,
	log *slog.Logger,
	pub Publisher,
	tokens TokenMinter,
	baseURL, email string,
) error {
	const op = "confirmation.Send"

	token, err := tokens.NewEmailToken(email)
	if err != nil {
		log.Error("failed to generate confirmation token", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	msg := models.Message{
		Email:   email,
		Link:    fmt.Sprintf("%s/auth/confirmed_email/%s", baseURL, token),
		Subject: "Confirm your email",
	}

	if err := pub.SendMessage(ctx, msg); err != nil {
		log.Error("failed to queue confirmation email", sl.Err(err))
	}

	return nil
}
