// Package session exposes the resolved caller identity attached to a request
// by the auth middleware, without the handlers needing the auth package itself.
package session

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/uksimracing/website/internal/auth/permission"
)

const ctxKeyCaller = "caller"

var ErrNotLoggedIn = errors.New("not logged in")

// TokenSource identifies which wire shape a bearer token arrived in.
type TokenSource int

const (
	SourceNone    TokenSource = iota
	SourceLegacy              // fixed legacy literal
	SourceUser                // role-authenticated-id shape backed by an admin_user row
	SourceDiscord             // discord- prefixed encoded identity
)

// Caller is the typed identity decoded once from a bearer token at the
// request boundary.
type Caller struct {
	Source    TokenSource
	Role      permission.Privilege
	AdminID   string
	DiscordID string
	Username  string
}

func (c Caller) HasPermission(level permission.Privilege) bool {
	return c.Role >= level
}

func Guest() Caller {
	return Caller{Source: SourceNone, Role: permission.Guest, Username: "guest"}
}

func SetCaller(ctx *gin.Context, caller Caller) {
	ctx.Set(ctxKeyCaller, caller)
}

func CurrentCaller(ctx *gin.Context) (Caller, error) {
	maybeCaller, found := ctx.Get(ctxKeyCaller)
	if !found {
		return Guest(), ErrNotLoggedIn
	}

	caller, ok := maybeCaller.(Caller)
	if !ok {
		return Guest(), ErrNotLoggedIn
	}

	return caller, nil
}
