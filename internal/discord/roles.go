package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// RoleManager grants and revokes guild roles. It implements
// subscription.RoleActuator.
type RoleManager struct {
	session *discordgo.Session
	guildID string
}

// NewRoleManager creates a role manager for the given guild
func NewRoleManager(session *discordgo.Session, guildID string) *RoleManager {
	return &RoleManager{session: session, guildID: guildID}
}

// GrantRole adds the role to the guild member. Adding a role the member
// already holds is a no-op on Discord's side.
func (m *RoleManager) GrantRole(ctx context.Context, subscriberID, roleID string) error {
	if err := m.session.GuildMemberRoleAdd(m.guildID, subscriberID, roleID); err != nil {
		return fmt.Errorf("failed to grant role %s to %s: %w", roleID, subscriberID, err)
	}
	return nil
}

// RevokeRole removes the role from the guild member
func (m *RoleManager) RevokeRole(ctx context.Context, subscriberID, roleID string) error {
	if err := m.session.GuildMemberRoleRemove(m.guildID, subscriberID, roleID); err != nil {
		return fmt.Errorf("failed to revoke role %s from %s: %w", roleID, subscriberID, err)
	}
	return nil
}
