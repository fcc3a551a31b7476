package discord

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/uksimracing/website/internal/auth"
	"github.com/uksimracing/website/internal/config"
	"github.com/uksimracing/website/internal/httphelper"
	"github.com/uksimracing/website/pkg/log"
	"github.com/uksimracing/website/pkg/oauth"
	"golang.org/x/oauth2"
)

const (
	discordAPIURL       = "https://discord.com/api"
	discordAuthorizeURL = "https://discord.com/oauth2/authorize"
	discordTokenURL     = "https://discord.com/api/oauth2/token" //nolint:gosec
)

type discordUser struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
}

type guildMember struct {
	Roles []string `json:"roles"`
}

type oauthHandler struct {
	conf        config.DiscordConfig
	oauthConf   *oauth2.Config
	permissions Permissions
	state       *oauth.LoginStateTracker
	externalURL string
}

func NewOAuthHandler(engine *gin.Engine, conf config.DiscordConfig, permissions Permissions, externalURL string) {
	handler := oauthHandler{
		conf: conf,
		oauthConf: &oauth2.Config{
			ClientID:     conf.AppID,
			ClientSecret: conf.AppSecret,
			Scopes:       []string{"identify", "guilds.members.read"},
			RedirectURL:  externalURL + "/auth/discord/callback",
			Endpoint: oauth2.Endpoint{
				AuthURL:   discordAuthorizeURL,
				TokenURL:  discordTokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		permissions: permissions,
		state:       oauth.NewLoginStateTracker(),
		externalURL: externalURL,
	}

	engine.GET("/auth/discord", handler.onLogin())
	engine.GET("/auth/discord/callback", handler.onCallback())
	engine.GET("/auth/logout", handler.onLogout())
}

func (h oauthHandler) onLogin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Redirect(http.StatusTemporaryRedirect, h.oauthConf.AuthCodeURL(h.state.Create()))
	}
}

func (h oauthHandler) onCallback() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !h.state.Valid(ctx.Query("state")) {
			h.failLogin(ctx, "invalid_state", nil)

			return
		}

		code := ctx.Query("code")
		if code == "" {
			h.failLogin(ctx, "missing_code", nil)

			return
		}

		accessToken, errExchange := h.oauthConf.Exchange(ctx, code)
		if errExchange != nil {
			h.failLogin(ctx, "exchange_failed", errExchange)

			return
		}

		client := h.oauthConf.Client(ctx, accessToken)

		var user discordUser
		if err := fetchDiscord(client, discordAPIURL+"/users/@me", &user); err != nil {
			h.failLogin(ctx, "profile_failed", err)

			return
		}

		var member guildMember
		if err := fetchDiscord(client, fmt.Sprintf("%s/users/@me/guilds/%s/member", discordAPIURL, h.conf.GuildID), &member); err != nil {
			h.failLogin(ctx, "member_failed", err)

			return
		}

		if errCache := h.permissions.CacheMemberRoles(ctx, user.ID, member.Roles); errCache != nil {
			slog.Error("Failed to cache discord member roles", log.ErrAttr(errCache))
		}

		// The freshly fetched roles are passed through so a first time
		// login does not depend on the cache write above.
		allowed, errCheck := h.permissions.HasCapability(ctx, user.ID, CapabilityAdminPanel, member.Roles)
		if errCheck != nil {
			h.failLogin(ctx, "permission_check_failed", errCheck)

			return
		}

		if !allowed {
			h.failLogin(ctx, "not_authorized", nil)

			return
		}

		username := user.GlobalName
		if username == "" {
			username = user.Username
		}

		token, errToken := auth.NewDiscordToken("admin", username, user.ID)
		if errToken != nil {
			h.failLogin(ctx, "token_failed", errToken)

			return
		}

		ctx.Redirect(http.StatusTemporaryRedirect, h.externalURL+"/admin#token="+url.QueryEscape(token))
	}
}

func (h oauthHandler) onLogout() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.SetCookie("auth", "", -1, "/", "", false, true)
		ctx.Redirect(http.StatusTemporaryRedirect, "/")
	}
}

func (h oauthHandler) failLogin(ctx *gin.Context, reason string, err error) {
	if err != nil {
		slog.Error("Discord login failed", slog.String("reason", reason), log.ErrAttr(err))
	} else {
		slog.Warn("Discord login rejected", slog.String("reason", reason))
	}

	ctx.Redirect(http.StatusTemporaryRedirect, h.externalURL+"/admin#error="+reason)
}

func fetchDiscord(client *http.Client, endpoint string, target any) error {
	resp, errGet := client.Get(endpoint) //nolint:noctx
	if errGet != nil {
		return errors.Join(errGet, httphelper.ErrRequestPerform)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s", httphelper.ErrRequestInvalidCode, resp.Status)
	}

	if errDecode := json.NewDecoder(resp.Body).Decode(target); errDecode != nil {
		return errors.Join(errDecode, httphelper.ErrRequestDecode)
	}

	return nil
}
