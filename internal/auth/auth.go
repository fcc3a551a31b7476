// Package auth resolves bearer tokens of the three supported wire shapes into
// a typed caller and gates requests on privilege level.
package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/uksimracing/website/internal/auth/permission"
	"github.com/uksimracing/website/internal/auth/session"
	"github.com/uksimracing/website/internal/httphelper"
	"github.com/uksimracing/website/pkg/log"
)

var (
	ErrAuthHeader          = errors.New("failed to bind auth header")
	ErrMalformedAuthHeader = errors.New("invalid auth header format")
)

type authHeader struct {
	Authorization string `header:"Authorization"`
}

type Authentication struct {
	sentryEnabled bool
}

func NewAuthentication(sentryEnabled bool) *Authentication {
	return &Authentication{sentryEnabled: sentryEnabled}
}

func (a *Authentication) TokenFromHeader(ctx *gin.Context, emptyOK bool) (string, error) {
	hdr := authHeader{}
	if errBind := ctx.ShouldBindHeader(&hdr); errBind != nil {
		return "", errors.Join(errBind, ErrAuthHeader)
	}

	pcs := strings.Split(hdr.Authorization, " ")
	if len(pcs) != 2 || pcs[1] == "" {
		if emptyOK {
			return "", nil
		}

		return "", ErrMalformedAuthHeader
	}

	return pcs[1], nil
}

// Middleware resolves the bearer token once and attaches the typed caller to
// the request context. Requests below the required privilege level never
// reach the handler.
func (a *Authentication) Middleware(level permission.Privilege) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, errToken := a.TokenFromHeader(ctx, level == permission.Guest)
		if errToken != nil {
			ctx.AbortWithStatus(http.StatusUnauthorized)

			return
		}

		if token == "" {
			session.SetCaller(ctx, session.Guest())
			ctx.Next()

			return
		}

		caller, errParse := ParseToken(token)
		if errParse != nil {
			slog.Debug("Rejected invalid bearer token", log.ErrAttr(errParse))
			ctx.AbortWithStatus(http.StatusUnauthorized)

			return
		}

		if !caller.HasPermission(level) {
			ctx.AbortWithStatus(http.StatusForbidden)

			return
		}

		session.SetCaller(ctx, caller)
		ctx.Set(httphelper.CallerNameKey, caller.Username)

		if a.sentryEnabled {
			if hub := sentrygin.GetHubFromContext(ctx); hub != nil {
				hub.WithScope(func(scope *sentry.Scope) {
					scope.SetUser(sentry.User{
						ID:        caller.AdminID,
						IPAddress: ctx.ClientIP(),
						Username:  caller.Username,
					})
				})
			}
		}

		ctx.Next()
	}
}
