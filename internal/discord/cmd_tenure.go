package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/TenureBot_Go/internal/domain"
	"github.com/osse101/TenureBot_Go/internal/subscription"
	"github.com/osse101/TenureBot_Go/internal/validation"
)

// tenureAddInput carries the validated arguments of /tenure add
type tenureAddInput struct {
	SubscriberID string `validate:"required"`
	Months       int    `validate:"min=1,max=10"`
}

// TenureCommand returns the tenure command definition and handler.
// Subcommands map directly onto the lifecycle operations: add grants or
// extends, remove revokes, status reports the current window.
func TenureCommand(svc subscription.Service) (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "tenure",
		Description: "Manage time-bound role subscriptions",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Grant a subscription or extend an existing one",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "member",
						Description: "Member to subscribe",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "months",
						Description: "Number of 30-day months to add (1-10)",
						Required:    true,
						MinValue:    &[]float64{domain.MinMonthsPerOperation}[0],
						MaxValue:    domain.MaxMonthsPerOperation,
					},
					{
						Type:        discordgo.ApplicationCommandOptionRole,
						Name:        "role",
						Description: "Role to grant (defaults to the configured subscriber role)",
						Required:    false,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remove",
				Description: "Revoke a member's subscription",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "member",
						Description: "Member to unsubscribe",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "status",
				Description: "Show a member's subscription status",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "member",
						Description: "Member to look up",
						Required:    true,
					},
				},
			},
		},
		DefaultMemberPermissions: &[]int64{discordgo.PermissionManageRoles}[0],
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if !deferResponse(s, i) {
			return
		}

		sub := i.ApplicationCommandData().Options[0]
		switch sub.Name {
		case "add":
			handleTenureAdd(s, i, svc, sub.Options)
		case "remove":
			handleTenureRemove(s, i, svc, sub.Options)
		case "status":
			handleTenureStatus(s, i, svc, sub.Options)
		}
	}

	return cmd, handler
}

func handleTenureAdd(s *discordgo.Session, i *discordgo.InteractionCreate, svc subscription.Service, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	member := opts[0].UserValue(s)
	months := int(opts[1].IntValue())

	roleID := ""
	if len(opts) > 2 {
		roleID = opts[2].RoleValue(s, i.GuildID).ID
	}

	input := tenureAddInput{SubscriberID: member.ID, Months: months}
	if err := validation.Struct(input); err != nil {
		slog.Warn("Rejected tenure add", "subscriber_id", member.ID, "months", months, "error", err)
		respondError(s, i, MsgInvalidMonths)
		return
	}

	result, err := svc.AddOrExtend(context.Background(), member.ID, months, roleID)
	if err != nil {
		slog.Error("Failed to add subscription", "subscriber_id", member.ID, "months", months, "error", err)
		respondError(s, i, friendlyError(err))
		return
	}

	if result.WasCreated {
		embed := createEmbed(
			"Subscription Granted",
			fmt.Sprintf("<@%s> is subscribed for **%d month(s)**.\nExpires %s.",
				member.ID, result.Record.Months, discordTimestamp(result.Record.ExpiresAt)),
			ColorGreen,
			FooterTenureBotAdmin,
		)
		sendEmbed(s, i, embed)
		return
	}

	embed := createEmbed(
		"Subscription Extended",
		fmt.Sprintf("<@%s> gained **%d month(s)**, for a total of **%d**.\nPreviously expired %s, now expires %s.",
			member.ID, months, result.Record.Months,
			discordTimestamp(*result.PreviousExpiry), discordTimestamp(result.Record.ExpiresAt)),
		ColorBlue,
		FooterTenureBotAdmin,
	)
	sendEmbed(s, i, embed)
}

func handleTenureRemove(s *discordgo.Session, i *discordgo.InteractionCreate, svc subscription.Service, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	member := opts[0].UserValue(s)

	removed, err := svc.Remove(context.Background(), member.ID)
	if err != nil {
		slog.Error("Failed to remove subscription", "subscriber_id", member.ID, "error", err)
		respondError(s, i, friendlyError(err))
		return
	}
	if !removed {
		respondError(s, i, MsgSubscriptionNotFound)
		return
	}

	embed := createEmbed(
		"Subscription Revoked",
		fmt.Sprintf("<@%s>'s subscription has been revoked.", member.ID),
		ColorRed,
		FooterTenureBotAdmin,
	)
	sendEmbed(s, i, embed)
}

func handleTenureStatus(s *discordgo.Session, i *discordgo.InteractionCreate, svc subscription.Service, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	member := opts[0].UserValue(s)

	record, err := svc.Status(context.Background(), member.ID)
	if err != nil {
		if errors.Is(err, domain.ErrSubscriptionNotFound) {
			respondError(s, i, MsgSubscriptionNotFound)
			return
		}
		slog.Error("Failed to get subscription status", "subscriber_id", member.ID, "error", err)
		respondError(s, i, friendlyError(err))
		return
	}

	sendEmbed(s, i, statusEmbed(member.ID, record))
}

func friendlyError(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidMonths):
		return MsgInvalidMonths
	case errors.Is(err, domain.ErrSubscriptionNotFound):
		return MsgSubscriptionNotFound
	default:
		return MsgGenericError
	}
}
