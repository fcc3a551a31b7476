package tests_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/uksimracing/website/internal/auth"
	"github.com/uksimracing/website/internal/discord"
	"github.com/uksimracing/website/internal/tests"
)

func permissionsRouter(t *testing.T) (*gin.Engine, discord.Permissions) {
	t.Helper()

	permissions := discord.NewPermissions(discord.NewPermissionsRepository(fixture.Database))
	router := fixture.CreateRouter()
	discord.NewPermissionsHandler(router, permissions, auth.NewAuthentication(false), tests.WebhookSecret)

	return router, permissions
}

func TestRoleGrantsAreMasterOnly(t *testing.T) {
	fixture.Reset(t.Context())
	router, _ := permissionsRouter(t)

	body := map[string]string{"role_id": "role-100", "role_name": "Staff"}

	tests.Endpoint(t, router, http.MethodPost, "/api/discord/auth-roles", body, http.StatusUnauthorized, nil)
	tests.Endpoint(t, router, http.MethodPost, "/api/discord/auth-roles", body, http.StatusForbidden,
		&tests.Tokens{Bearer: "moderator-authenticated-1"})

	var granted discord.RolePermission
	tests.EndpointReceiver(t, router, http.MethodPost, "/api/discord/auth-roles", body,
		http.StatusCreated, tests.MasterTokens(), &granted)
	require.Equal(t, "role-100", granted.RoleID)

	tests.Endpoint(t, router, http.MethodPost, "/api/discord/auth-roles", body,
		http.StatusConflict, tests.MasterTokens())

	var roles []discord.RolePermission
	tests.EndpointReceiver(t, router, http.MethodGet, "/api/discord/auth-roles", nil,
		http.StatusOK, tests.MasterTokens(), &roles)
	require.Len(t, roles, 1)

	tests.Endpoint(t, router, http.MethodDelete, "/api/discord/auth-roles/role-100",
		nil, http.StatusOK, tests.MasterTokens())

	tests.EndpointReceiver(t, router, http.MethodGet, "/api/discord/auth-roles", nil,
		http.StatusOK, tests.MasterTokens(), &roles)
	require.Empty(t, roles)
}

func TestBotMentionPermissionsAcceptSecret(t *testing.T) {
	fixture.Reset(t.Context())
	router, _ := permissionsRouter(t)

	tests.Endpoint(t, router, http.MethodPost, "/api/discord/bot-mention-permissions",
		map[string]string{"role_id": "role-200", "role_name": "Publisher"},
		http.StatusCreated, tests.MasterTokens())

	// The bot reads with the shared secret instead of an admin credential.
	var roles []discord.RolePermission
	tests.EndpointReceiver(t, router, http.MethodGet, "/api/discord/bot-mention-permissions", nil,
		http.StatusOK, &tests.Tokens{WebhookSecret: tests.WebhookSecret}, &roles)
	require.Len(t, roles, 1)

	tests.Endpoint(t, router, http.MethodGet, "/api/discord/bot-mention-permissions",
		nil, http.StatusUnauthorized, nil)
	tests.EndpointReceiver(t, router, http.MethodGet, "/api/discord/bot-mention-permissions", nil,
		http.StatusOK, tests.MasterTokens(), &roles)
}

func TestHasCapability(t *testing.T) {
	ctx := t.Context()
	fixture.Reset(ctx)
	_, permissions := permissionsRouter(t)

	_, errGrant := permissions.Grant(ctx, discord.CapabilityAdminPanel, "role-300", "Admins", "owner")
	require.NoError(t, errGrant)

	// Live roles bypass the membership cache so a first login works before
	// any roles were stored.
	allowed, errLive := permissions.HasCapability(ctx, "user-1", discord.CapabilityAdminPanel, []string{"role-300"})
	require.NoError(t, errLive)
	require.True(t, allowed)

	denied, errDenied := permissions.HasCapability(ctx, "user-1", discord.CapabilityAdminPanel, []string{"role-999"})
	require.NoError(t, errDenied)
	require.False(t, denied)

	// With no live roles the cached membership is consulted.
	cached, errCachedEmpty := permissions.HasCapability(ctx, "user-1", discord.CapabilityAdminPanel, nil)
	require.NoError(t, errCachedEmpty)
	require.False(t, cached)

	require.NoError(t, permissions.CacheMemberRoles(ctx, "user-1", []string{"role-300"}))

	cached, errCached := permissions.HasCapability(ctx, "user-1", discord.CapabilityAdminPanel, nil)
	require.NoError(t, errCached)
	require.True(t, cached)

	// Unknown capabilities never grant access.
	unknown, errUnknown := permissions.HasCapability(ctx, "user-1", discord.Capability("made-up"), []string{"role-300"})
	require.NoError(t, errUnknown)
	require.False(t, unknown)
}
