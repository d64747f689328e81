package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"eventrsvp/internal/domain"
)

type inviteNotifier struct {
	directory domain.UserDirectory
	mailer    domain.Mailer
	logger    *slog.Logger
}

// NewInviteNotifier returns an InviteNotifier that resolves invitee emails
// through the user directory and sends one message per invitee. Delivery
// is best effort: every failure is logged and swallowed.
func NewInviteNotifier(directory domain.UserDirectory, mailer domain.Mailer, logger *slog.Logger) domain.InviteNotifier {
	return &inviteNotifier{directory: directory, mailer: mailer, logger: logger}
}

func (n *inviteNotifier) NotifyInvited(ctx context.Context, event *domain.Event, inviteeIDs []string) {
	for _, userID := range inviteeIDs {
		email, err := n.directory.EmailByID(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				n.logger.DebugContext(ctx, "invitee has no directory entry, skipping notification", "user_id", userID)
				continue
			}
			n.logger.WarnContext(ctx, "invite notification lookup failed", "user_id", userID, "err", err)
			continue
		}

		subject := fmt.Sprintf("You're invited: %s", event.Name)
		text := fmt.Sprintf(
			"You have been invited to %s at %s on %s. Open the app to respond.",
			event.Name, event.Location, event.Time.Format("Mon, 02 Jan 2006 15:04 MST"),
		)
		html := fmt.Sprintf(
			"<p>You have been invited to <b>%s</b> at %s on %s.</p><p>Open the app to respond.</p>",
			event.Name, event.Location, event.Time.Format("Mon, 02 Jan 2006 15:04 MST"),
		)
		if err := n.mailer.Send(email, subject, html, text); err != nil {
			n.logger.WarnContext(ctx, "invite notification send failed", "user_id", userID, "err", err)
		}
	}
}

// NoopNotifier returns an InviteNotifier that does nothing. Used when no
// mailer is configured and in tests.
func NoopNotifier() domain.InviteNotifier {
	return noopNotifier{}
}

type noopNotifier struct{}

func (noopNotifier) NotifyInvited(context.Context, *domain.Event, []string) {}
