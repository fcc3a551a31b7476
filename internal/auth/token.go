package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"github.com/uksimracing/website/internal/auth/permission"
	"github.com/uksimracing/website/internal/auth/session"
)

const discordTokenPrefix = "discord-"

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenPayload  = errors.New("malformed token payload")
	ErrTokenSegments = errors.New("token requires at least 3 segments")
)

// legacy literals predate per-user accounts and grant full access.
var legacyTokens = map[string]bool{ //nolint:gochecknoglobals
	"master-authenticated": true,
	"admin-authenticated":  true,
}

type discordTokenPayload struct {
	Role      string `json:"role"`
	Username  string `json:"username"`
	DiscordID string `json:"discord_id"`
}

// NewDiscordToken encodes a Discord identity into the discord- prefixed
// bearer token shape issued by the OAuth callback.
func NewDiscordToken(role string, username string, discordID string) (string, error) {
	payload, errMarshal := json.Marshal(discordTokenPayload{
		Role:      role,
		Username:  username,
		DiscordID: discordID,
	})
	if errMarshal != nil {
		return "", errors.Join(errMarshal, ErrTokenPayload)
	}

	return discordTokenPrefix + base64.RawURLEncoding.EncodeToString(payload), nil
}

// NewUserToken encodes an admin_user credential into the role-authenticated-id
// bearer token shape returned by the login endpoint.
func NewUserToken(role string, adminID string) string {
	return role + "-authenticated-" + adminID
}

// ParseToken decodes a bearer token into a typed caller. Shapes are tried in
// priority order: legacy literal, discord prefixed payload, hyphen delimited
// role-authenticated-id. Anything else is invalid.
func ParseToken(token string) (session.Caller, error) {
	if token == "" {
		return session.Guest(), ErrInvalidToken
	}

	if legacyTokens[token] {
		return session.Caller{
			Source:   session.SourceLegacy,
			Role:     permission.Master,
			Username: "master",
		}, nil
	}

	if encoded, found := strings.CutPrefix(token, discordTokenPrefix); found {
		raw, errDecode := base64.RawURLEncoding.DecodeString(encoded)
		if errDecode != nil {
			return session.Guest(), errors.Join(errDecode, ErrTokenPayload)
		}

		var payload discordTokenPayload
		if errUnmarshal := json.Unmarshal(raw, &payload); errUnmarshal != nil {
			return session.Guest(), errors.Join(errUnmarshal, ErrTokenPayload)
		}

		return session.Caller{
			Source:    session.SourceDiscord,
			Role:      permission.FromString(payload.Role),
			DiscordID: payload.DiscordID,
			Username:  payload.Username,
		}, nil
	}

	segments := strings.Split(token, "-")
	if len(segments) < 3 {
		return session.Guest(), ErrTokenSegments
	}

	return session.Caller{
		Source:  session.SourceUser,
		Role:    permission.FromString(segments[0]),
		AdminID: segments[len(segments)-1],
	}, nil
}
