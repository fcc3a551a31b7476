// Package discord integrates the site with its Discord guild: the relay bot,
// the OAuth login flow and the role capability tables.
package discord

import (
	"context"
	"errors"
	"time"
)

type Capability string

const (
	CapabilityAdminPanel  Capability = "admin_panel"
	CapabilityBotMentions Capability = "bot_mentions"
)

var ErrUnknownCapability = errors.New("unknown capability")

// Permissions answers whether a Discord user currently holds a role granted
// a given capability.
type Permissions struct {
	repository PermissionsRepository
}

func NewPermissions(repository PermissionsRepository) Permissions {
	return Permissions{repository: repository}
}

func (p Permissions) Roles(ctx context.Context, capability Capability) ([]RolePermission, error) {
	return p.repository.Roles(ctx, capability)
}

func (p Permissions) Grant(ctx context.Context, capability Capability, roleID string, roleName string, grantedBy string) (RolePermission, error) {
	role := RolePermission{
		RoleID:    roleID,
		RoleName:  roleName,
		GrantedBy: grantedBy,
		CreatedOn: time.Now(),
	}

	if errGrant := p.repository.Grant(ctx, capability, role); errGrant != nil {
		return RolePermission{}, errGrant
	}

	return role, nil
}

func (p Permissions) Revoke(ctx context.Context, capability Capability, roleID string) error {
	return p.repository.Revoke(ctx, capability, roleID)
}

func (p Permissions) CacheMemberRoles(ctx context.Context, discordID string, roleIDs []string) error {
	return p.repository.SetMemberRoles(ctx, discordID, roleIDs)
}

// HasCapability tests the member's role ids against the capability table.
// liveRoles, when non-nil, is used instead of the cache so a first login can
// be checked before the cache exists. An empty role list never grants.
func (p Permissions) HasCapability(ctx context.Context, discordID string, capability Capability, liveRoles []string) (bool, error) {
	memberRoles := liveRoles

	if memberRoles == nil {
		cached, errCached := p.repository.MemberRoles(ctx, discordID)
		if errCached != nil {
			return false, errCached
		}

		memberRoles = cached
	}

	if len(memberRoles) == 0 {
		return false, nil
	}

	grantedIDs, errGranted := p.repository.RoleIDs(ctx, capability)
	if errGranted != nil {
		if errors.Is(errGranted, ErrUnknownCapability) {
			return false, nil
		}

		return false, errGranted
	}

	return Intersects(memberRoles, grantedIDs), nil
}

// Intersects reports whether the two id sets share any element.
func Intersects(memberRoles []string, grantedRoles []string) bool {
	granted := make(map[string]struct{}, len(grantedRoles))
	for _, roleID := range grantedRoles {
		granted[roleID] = struct{}{}
	}

	for _, roleID := range memberRoles {
		if _, ok := granted[roleID]; ok {
			return true
		}
	}

	return false
}
