package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/TenureBot_Go/internal/domain"
)

// Notifier delivers subscription notifications to the configured guild
// channel, and directly to the subscriber for warnings and expiry. It
// implements subscription.Notifier.
type Notifier struct {
	session   *discordgo.Session
	channelID string
}

// NewNotifier creates a notifier. channelID may be empty, in which case
// channel announcements are skipped and only DMs are sent.
func NewNotifier(session *discordgo.Session, channelID string) *Notifier {
	return &Notifier{session: session, channelID: channelID}
}

// Notify sends the notification. The channel announcement and the DM are
// independent; a DM failure (e.g. the member blocks DMs) does not fail the
// channel send that already went out.
func (n *Notifier) Notify(ctx context.Context, kind domain.NotificationKind, record domain.SubscriptionRecord) error {
	if n.channelID != "" {
		embed := notificationEmbed(kind, record)
		if _, err := n.session.ChannelMessageSendEmbed(n.channelID, embed); err != nil {
			return fmt.Errorf("failed to send %s notification: %w", kind, err)
		}
	}

	if text := dmText(kind, record); text != "" {
		if err := n.sendDM(record.SubscriberID, text); err != nil {
			// Members can disable DMs; the channel message already carries
			// the warning, so log and move on.
			slog.Warn("Failed to DM subscriber", "subscriber_id", record.SubscriberID, "kind", kind, "error", err)
		}
	}

	return nil
}

func (n *Notifier) sendDM(userID, text string) error {
	channel, err := n.session.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("failed to open DM channel: %w", err)
	}
	if _, err := n.session.ChannelMessageSend(channel.ID, text); err != nil {
		return fmt.Errorf("failed to send DM: %w", err)
	}
	return nil
}
