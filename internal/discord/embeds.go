package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osse101/TenureBot_Go/internal/domain"
)

// discordTimestamp renders a time as Discord's inline timestamp markup,
// shown in each viewer's local timezone.
func discordTimestamp(t time.Time) string {
	return fmt.Sprintf("<t:%d:f> (<t:%d:R>)", t.Unix(), t.Unix())
}

func statusEmbed(subscriberID string, record *domain.SubscriptionRecord) *discordgo.MessageEmbed {
	state := "Active"
	color := ColorGreen
	if !record.Active(time.Now()) {
		state = "Expired"
		color = ColorRed
	}

	return &discordgo.MessageEmbed{
		Title: "Subscription Status",
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Member", Value: fmt.Sprintf("<@%s>", subscriberID), Inline: true},
			{Name: "State", Value: state, Inline: true},
			{Name: "Months", Value: fmt.Sprintf("%d", record.Months), Inline: true},
			{Name: "Started", Value: discordTimestamp(record.StartAt)},
			{Name: "Expires", Value: discordTimestamp(record.ExpiresAt)},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: FooterTenureBot},
	}
}

// notificationEmbed builds the channel embed for a lifecycle notification
func notificationEmbed(kind domain.NotificationKind, record domain.SubscriptionRecord) *discordgo.MessageEmbed {
	title := cases.Title(language.English).String(notificationTitle(kind))

	var description string
	var color int
	switch kind {
	case domain.NotifyGranted:
		description = fmt.Sprintf("<@%s> is now subscribed for **%d month(s)**, until %s.",
			record.SubscriberID, record.Months, discordTimestamp(record.ExpiresAt))
		color = ColorGreen
	case domain.NotifyExtended:
		description = fmt.Sprintf("<@%s>'s subscription now runs until %s (**%d month(s)** total).",
			record.SubscriberID, discordTimestamp(record.ExpiresAt), record.Months)
		color = ColorBlue
	case domain.NotifyRevoked:
		description = fmt.Sprintf("<@%s>'s subscription has been revoked.", record.SubscriberID)
		color = ColorRed
	case domain.NotifyExpired:
		description = fmt.Sprintf("<@%s>'s subscription expired and the role was removed.", record.SubscriberID)
		color = ColorRed
	case domain.NotifyWarn1Day:
		description = fmt.Sprintf("<@%s>'s subscription expires %s.", record.SubscriberID, discordTimestamp(record.ExpiresAt))
		color = ColorOrange
	case domain.NotifyWarn30Min:
		description = fmt.Sprintf("<@%s>'s subscription expires %s!", record.SubscriberID, discordTimestamp(record.ExpiresAt))
		color = ColorOrange
	}

	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Footer:      &discordgo.MessageEmbedFooter{Text: FooterTenureBot},
	}
}

func notificationTitle(kind domain.NotificationKind) string {
	switch kind {
	case domain.NotifyGranted:
		return "subscription granted"
	case domain.NotifyExtended:
		return "subscription extended"
	case domain.NotifyRevoked:
		return "subscription revoked"
	case domain.NotifyExpired:
		return "subscription expired"
	case domain.NotifyWarn1Day:
		return "subscription expires in one day"
	case domain.NotifyWarn30Min:
		return "subscription expires in 30 minutes"
	default:
		return strings.ReplaceAll(string(kind), "_", " ")
	}
}

// dmText is the plain-text direct message sent to the subscriber for
// warnings and expiry. DMs stay plain so they read well in notification
// previews.
func dmText(kind domain.NotificationKind, record domain.SubscriptionRecord) string {
	switch kind {
	case domain.NotifyWarn1Day:
		return fmt.Sprintf("⏰ Your subscription expires %s. Renew to keep your role.", discordTimestamp(record.ExpiresAt))
	case domain.NotifyWarn30Min:
		return fmt.Sprintf("⏰ Your subscription expires %s!", discordTimestamp(record.ExpiresAt))
	case domain.NotifyExpired:
		return "Your subscription has expired and the role was removed. Thanks for your support!"
	default:
		return ""
	}
}
