package auth_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uksimracing/website/internal/auth"
	"github.com/uksimracing/website/internal/auth/permission"
	"github.com/uksimracing/website/internal/auth/session"
)

func TestParseTokenLegacy(t *testing.T) {
	for _, token := range []string{"master-authenticated", "admin-authenticated"} {
		caller, errParse := auth.ParseToken(token)
		require.NoError(t, errParse)
		require.Equal(t, session.SourceLegacy, caller.Source)
		require.Equal(t, permission.Master, caller.Role)
		require.Empty(t, caller.AdminID)
	}
}

func TestParseTokenUser(t *testing.T) {
	caller, errParse := auth.ParseToken("admin-authenticated-7")
	require.NoError(t, errParse)
	require.Equal(t, session.SourceUser, caller.Source)
	require.Equal(t, permission.Admin, caller.Role)
	require.Equal(t, "7", caller.AdminID)

	moderator, errModerator := auth.ParseToken("moderator-authenticated-12")
	require.NoError(t, errModerator)
	require.Equal(t, permission.Moderator, moderator.Role)
	require.Equal(t, "12", moderator.AdminID)
}

func TestParseTokenDiscord(t *testing.T) {
	token, errToken := auth.NewDiscordToken("admin", "racer", "123456789")
	require.NoError(t, errToken)

	caller, errParse := auth.ParseToken(token)
	require.NoError(t, errParse)
	require.Equal(t, session.SourceDiscord, caller.Source)
	require.Equal(t, permission.Admin, caller.Role)
	require.Equal(t, "racer", caller.Username)
	require.Equal(t, "123456789", caller.DiscordID)
}

func TestParseTokenDiscordMalformed(t *testing.T) {
	_, errParse := auth.ParseToken("discord-not!base64!!")
	require.ErrorIs(t, errParse, auth.ErrTokenPayload)

	// Valid encoding, but not a JSON object.
	_, errPayload := auth.ParseToken("discord-bm90LWpzb24")
	require.ErrorIs(t, errPayload, auth.ErrTokenPayload)
}

func TestParseTokenInvalid(t *testing.T) {
	for _, token := range []string{"", "garbage", "a-b"} {
		_, errParse := auth.ParseToken(token)
		require.Error(t, errParse)
	}
}
