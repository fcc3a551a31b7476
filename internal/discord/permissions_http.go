package discord

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uksimracing/website/internal/auth"
	"github.com/uksimracing/website/internal/auth/permission"
	"github.com/uksimracing/website/internal/auth/session"
	"github.com/uksimracing/website/internal/database"
	"github.com/uksimracing/website/internal/httphelper"
	"github.com/uksimracing/website/internal/webhook"
)

type permissionsHandler struct {
	permissions   Permissions
	webhookSecret string
}

func NewPermissionsHandler(engine *gin.Engine, permissions Permissions, authenticator *auth.Authentication, webhookSecret string) {
	handler := permissionsHandler{permissions: permissions, webhookSecret: webhookSecret}

	// The bot reads mention permissions with the shared secret, before any
	// admin has logged in.
	engine.GET("/api/discord/bot-mention-permissions",
		handler.onGetRolesWithSecretFallback(authenticator, CapabilityBotMentions))

	adminGrp := engine.Group("/")
	{
		admin := adminGrp.Use(authenticator.Middleware(permission.Moderator))
		admin.GET("/api/discord/role-permissions", handler.onGetCombined())
	}

	masterGrp := engine.Group("/")
	{
		master := masterGrp.Use(authenticator.Middleware(permission.Master))
		master.GET("/api/discord/auth-roles", handler.onGetRoles(CapabilityAdminPanel))
		master.POST("/api/discord/auth-roles", handler.onGrantRole(CapabilityAdminPanel))
		master.DELETE("/api/discord/auth-roles/:role_id", handler.onRevokeRole(CapabilityAdminPanel))
		master.POST("/api/discord/bot-mention-permissions", handler.onGrantRole(CapabilityBotMentions))
		master.DELETE("/api/discord/bot-mention-permissions/:role_id", handler.onRevokeRole(CapabilityBotMentions))
	}
}

func (h permissionsHandler) writeRoles(ctx *gin.Context, capability Capability) {
	roles, errRoles := h.permissions.Roles(ctx, capability)
	if errRoles != nil {
		httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errRoles, httphelper.ErrInternal)))

		return
	}

	ctx.JSON(http.StatusOK, roles)
}

func (h permissionsHandler) onGetRoles(capability Capability) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		h.writeRoles(ctx, capability)
	}
}

// onGetRolesWithSecretFallback accepts either the shared webhook secret or a
// master bearer token.
func (h permissionsHandler) onGetRolesWithSecretFallback(authenticator *auth.Authentication, capability Capability) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		provided := ctx.GetHeader(webhook.SecretHeader)
		if h.webhookSecret != "" && subtle.ConstantTimeCompare([]byte(provided), []byte(h.webhookSecret)) == 1 {
			h.writeRoles(ctx, capability)

			return
		}

		token, errToken := authenticator.TokenFromHeader(ctx, false)
		if errToken != nil {
			ctx.AbortWithStatus(http.StatusUnauthorized)

			return
		}

		caller, errParse := auth.ParseToken(token)
		if errParse != nil || !caller.HasPermission(permission.Master) {
			ctx.AbortWithStatus(http.StatusForbidden)

			return
		}

		h.writeRoles(ctx, capability)
	}
}

func (h permissionsHandler) onGetCombined() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authRoles, errAuth := h.permissions.Roles(ctx, CapabilityAdminPanel)
		if errAuth != nil {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errAuth, httphelper.ErrInternal)))

			return
		}

		mentionRoles, errMention := h.permissions.Roles(ctx, CapabilityBotMentions)
		if errMention != nil {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errMention, httphelper.ErrInternal)))

			return
		}

		ctx.JSON(http.StatusOK, gin.H{
			"admin_panel":  authRoles,
			"bot_mentions": mentionRoles,
		})
	}
}

func (h permissionsHandler) onGrantRole(capability Capability) gin.HandlerFunc {
	type grantRequest struct {
		RoleID   string `json:"role_id" binding:"required"`
		RoleName string `json:"role_name"`
	}

	return func(ctx *gin.Context) {
		var req grantRequest
		if !httphelper.Bind(ctx, &req) {
			return
		}

		caller, _ := session.CurrentCaller(ctx)

		role, errGrant := h.permissions.Grant(ctx, capability, req.RoleID, req.RoleName, caller.Username)
		if errGrant != nil {
			if errors.Is(errGrant, database.ErrDuplicate) {
				httphelper.SetError(ctx, httphelper.NewAPIErrorf(http.StatusConflict, database.ErrDuplicate,
					"Role already granted: %s", req.RoleID))
			} else {
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errGrant, httphelper.ErrInternal)))
			}

			return
		}

		ctx.JSON(http.StatusCreated, role)
	}
}

func (h permissionsHandler) onRevokeRole(capability Capability) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		roleID, found := httphelper.GetStringParam(ctx, "role_id")
		if !found {
			return
		}

		if errRevoke := h.permissions.Revoke(ctx, capability, roleID); errRevoke != nil {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errRevoke, httphelper.ErrInternal)))

			return
		}

		ctx.JSON(http.StatusOK, gin.H{"success": true})
	}
}
