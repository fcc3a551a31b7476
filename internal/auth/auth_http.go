package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uksimracing/website/internal/auth/permission"
	"github.com/uksimracing/website/internal/auth/session"
	"github.com/uksimracing/website/internal/database"
	"github.com/uksimracing/website/internal/httphelper"
)

type authHandler struct {
	users Users
}

func NewAuthHandler(engine *gin.Engine, users Users, auth httphelper.Authenticator) {
	handler := authHandler{users: users}

	engine.POST("/api/admin/login", handler.onLogin())

	// master
	masterGrp := engine.Group("/")
	{
		master := masterGrp.Use(auth.Middleware(permission.Master))
		master.POST("/api/admin/change-password", handler.onChangePassword())
		master.POST("/api/admin/create-user", handler.onCreateUser())
		master.GET("/api/admin/users", handler.onUsers())
		master.DELETE("/api/admin/users/:admin_id", handler.onDeleteUser())
	}
}

func (h authHandler) onLogin() gin.HandlerFunc {
	type loginRequest struct {
		Username string `json:"username"`
		Password string `json:"password" binding:"required"`
	}

	return func(ctx *gin.Context) {
		var req loginRequest
		if !httphelper.Bind(ctx, &req) {
			return
		}

		result, errLogin := h.users.Login(ctx, req.Username, req.Password)
		if errLogin != nil {
			if errors.Is(errLogin, ErrInvalidCredentials) {
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusUnauthorized, ErrInvalidCredentials))

				return
			}

			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errLogin, httphelper.ErrInternal)))

			return
		}

		ctx.JSON(http.StatusOK, result)
	}
}

func (h authHandler) onChangePassword() gin.HandlerFunc {
	type changePasswordRequest struct {
		Username    string `json:"username"`
		NewPassword string `json:"new_password" binding:"required"`
	}

	return func(ctx *gin.Context) {
		var req changePasswordRequest
		if !httphelper.Bind(ctx, &req) {
			return
		}

		if req.Username == "" {
			caller, errCaller := session.CurrentCaller(ctx)
			if errCaller != nil {
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusUnauthorized, errCaller))

				return
			}

			req.Username = caller.Username
		}

		if errChange := h.users.ChangePassword(ctx, req.Username, req.NewPassword); errChange != nil {
			if errors.Is(errChange, database.ErrNoResult) {
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusNotFound, httphelper.ErrNotFound))

				return
			}

			if errors.Is(errChange, ErrPasswordTooShort) {
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusBadRequest, ErrPasswordTooShort))

				return
			}

			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errChange, httphelper.ErrInternal)))

			return
		}

		ctx.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func (h authHandler) onCreateUser() gin.HandlerFunc {
	type createUserRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role" binding:"required"`
	}

	return func(ctx *gin.Context) {
		var req createUserRequest
		if !httphelper.Bind(ctx, &req) {
			return
		}

		caller, _ := session.CurrentCaller(ctx)

		user, errCreate := h.users.Create(ctx, caller.Username, req.Username, req.Password, req.Role)
		if errCreate != nil {
			switch {
			case errors.Is(errCreate, database.ErrDuplicate):
				httphelper.SetError(ctx, httphelper.NewAPIErrorf(http.StatusConflict, database.ErrDuplicate,
					"Username already taken: %s", req.Username))
			case errors.Is(errCreate, ErrRoleNotAssignable), errors.Is(errCreate, ErrPasswordTooShort):
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusBadRequest, errCreate))
			default:
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errCreate, httphelper.ErrInternal)))
			}

			return
		}

		ctx.JSON(http.StatusCreated, user)
	}
}

func (h authHandler) onUsers() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		users, errUsers := h.users.Users(ctx)
		if errUsers != nil {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errUsers, httphelper.ErrInternal)))

			return
		}

		ctx.JSON(http.StatusOK, users)
	}
}

func (h authHandler) onDeleteUser() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		adminID, idFound := httphelper.GetIntParam(ctx, "admin_id")
		if !idFound {
			return
		}

		if errDelete := h.users.Delete(ctx, adminID); errDelete != nil {
			switch {
			case errors.Is(errDelete, database.ErrNoResult):
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusNotFound, httphelper.ErrNotFound))
			case errors.Is(errDelete, ErrMasterImmutable):
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusForbidden, ErrMasterImmutable))
			default:
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errDelete, httphelper.ErrInternal)))
			}

			return
		}

		ctx.JSON(http.StatusOK, gin.H{"success": true})
	}
}
