package tests_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/uksimracing/website/internal/auth"
	"github.com/uksimracing/website/internal/config"
	"github.com/uksimracing/website/internal/tests"
)

const ownerPassword = "owner-secret-1"

func authRouter(t *testing.T) (*gin.Engine, auth.Users) {
	t.Helper()

	users := auth.NewUsers(auth.NewRepository(fixture.Database), config.OwnerConfig{
		Username: "owner",
		Password: ownerPassword,
	})
	require.NoError(t, users.EnsureMaster(t.Context()))

	router := fixture.CreateRouter()
	auth.NewAuthHandler(router, users, auth.NewAuthentication(false))

	return router, users
}

func login(t *testing.T, router *gin.Engine, username string, password string) auth.LoginResult {
	t.Helper()

	var result auth.LoginResult

	tests.EndpointReceiver(t, router, http.MethodPost, "/api/admin/login", map[string]string{
		"username": username,
		"password": password,
	}, http.StatusOK, nil, &result)

	return result
}

func TestLoginMaster(t *testing.T) {
	fixture.Reset(t.Context())
	router, _ := authRouter(t)

	// An empty username falls back to the configured owner account.
	result := login(t, router, "", ownerPassword)
	require.Equal(t, "master-authenticated", result.Token)
	require.Equal(t, "master", result.Role)
	require.Equal(t, "owner", result.Username)

	tests.Endpoint(t, router, http.MethodPost, "/api/admin/login", map[string]string{
		"username": "owner",
		"password": "wrong-password",
	}, http.StatusUnauthorized, nil)

	tests.Endpoint(t, router, http.MethodPost, "/api/admin/login", map[string]string{
		"username": "nobody",
		"password": "whatever-pass",
	}, http.StatusUnauthorized, nil)
}

func TestUserManagementIsMasterOnly(t *testing.T) {
	fixture.Reset(t.Context())
	router, _ := authRouter(t)

	var created auth.AdminUser

	tests.EndpointReceiver(t, router, http.MethodPost, "/api/admin/create-user", map[string]string{
		"username": "mod1",
		"password": "mod1-password",
		"role":     "moderator",
	}, http.StatusCreated, tests.MasterTokens(), &created)

	require.Equal(t, "moderator", created.Role)
	require.Empty(t, created.PasswordHash)

	// Duplicate usernames are rejected.
	tests.Endpoint(t, router, http.MethodPost, "/api/admin/create-user", map[string]string{
		"username": "mod1",
		"password": "mod1-password",
		"role":     "moderator",
	}, http.StatusConflict, tests.MasterTokens())

	// Only admin and moderator roles can be handed out.
	tests.Endpoint(t, router, http.MethodPost, "/api/admin/create-user", map[string]string{
		"username": "mod2",
		"password": "mod2-password",
		"role":     "master",
	}, http.StatusBadRequest, tests.MasterTokens())

	result := login(t, router, "mod1", "mod1-password")
	require.Equal(t, fmt.Sprintf("moderator-authenticated-%d", created.AdminID), result.Token)

	// Moderators cannot reach the user management endpoints.
	moderator := &tests.Tokens{Bearer: result.Token}
	tests.Endpoint(t, router, http.MethodGet, "/api/admin/users", nil, http.StatusForbidden, moderator)
	tests.Endpoint(t, router, http.MethodPost, "/api/admin/create-user", map[string]string{
		"username": "mod3", "password": "mod3-password", "role": "moderator",
	}, http.StatusForbidden, moderator)

	var users []auth.AdminUser
	tests.EndpointReceiver(t, router, http.MethodGet, "/api/admin/users", nil, http.StatusOK, tests.MasterTokens(), &users)
	require.Len(t, users, 2)
}

func TestDeleteUserProtectsMaster(t *testing.T) {
	fixture.Reset(t.Context())
	router, users := authRouter(t)

	master, errMaster := users.Users(t.Context())
	require.NoError(t, errMaster)
	require.Len(t, master, 1)

	tests.Endpoint(t, router, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", master[0].AdminID),
		nil, http.StatusForbidden, tests.MasterTokens())

	var created auth.AdminUser
	tests.EndpointReceiver(t, router, http.MethodPost, "/api/admin/create-user", map[string]string{
		"username": "temp", "password": "temp-password", "role": "admin",
	}, http.StatusCreated, tests.MasterTokens(), &created)

	tests.Endpoint(t, router, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", created.AdminID),
		nil, http.StatusOK, tests.MasterTokens())
	tests.Endpoint(t, router, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", created.AdminID),
		nil, http.StatusNotFound, tests.MasterTokens())
}

func TestChangePassword(t *testing.T) {
	fixture.Reset(t.Context())
	router, _ := authRouter(t)

	tests.Endpoint(t, router, http.MethodPost, "/api/admin/change-password", map[string]string{
		"username": "owner", "new_password": "short",
	}, http.StatusBadRequest, tests.MasterTokens())

	tests.Endpoint(t, router, http.MethodPost, "/api/admin/change-password", map[string]string{
		"username": "owner", "new_password": "a-new-password",
	}, http.StatusOK, tests.MasterTokens())

	login(t, router, "owner", "a-new-password")

	tests.Endpoint(t, router, http.MethodPost, "/api/admin/login", map[string]string{
		"username": "owner", "password": ownerPassword,
	}, http.StatusUnauthorized, nil)
}
