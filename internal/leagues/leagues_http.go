package leagues

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uksimracing/website/internal/auth/permission"
	"github.com/uksimracing/website/internal/database"
	"github.com/uksimracing/website/internal/httphelper"
)

type leaguesHandler struct {
	leagues Leagues
}

func NewLeaguesHandler(engine *gin.Engine, leagues Leagues, auth httphelper.Authenticator) {
	handler := leaguesHandler{leagues: leagues}

	engine.GET("/api/leagues", handler.onGetLeagues())

	// editors
	editorGrp := engine.Group("/")
	{
		editor := editorGrp.Use(auth.Middleware(permission.Moderator))
		editor.POST("/api/leagues", handler.onCreateLeague())
		editor.PUT("/api/leagues/:league_id", handler.onUpdateLeague())
		editor.DELETE("/api/leagues/:league_id", handler.onDeleteLeague())
		editor.PUT("/api/leagues/:league_id/archive", handler.onArchiveLeague())
		editor.POST("/api/leagues/reorder", handler.onReorderLeagues())
	}
}

func (h leaguesHandler) onGetLeagues() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		collection, errLeagues := h.leagues.Leagues(ctx, false)
		if errLeagues != nil {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errLeagues, httphelper.ErrInternal)))

			return
		}

		ctx.JSON(http.StatusOK, collection)
	}
}

type leagueRequest struct {
	Name               string `json:"name" binding:"required"`
	ImagePath          string `json:"image_path"`
	Info               string `json:"info"`
	HandbookURL        string `json:"handbook_url"`
	StandingsURL       string `json:"standings_url"`
	RegistrationURL    string `json:"registration_url"`
	RegistrationStatus string `json:"registration_status"`
	IsActive           bool   `json:"is_active"`
}

func (h leaguesHandler) onCreateLeague() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req leagueRequest
		if !httphelper.Bind(ctx, &req) {
			return
		}

		league := League{
			Name:               req.Name,
			ImagePath:          req.ImagePath,
			Info:               req.Info,
			HandbookURL:        req.HandbookURL,
			StandingsURL:       req.StandingsURL,
			RegistrationURL:    req.RegistrationURL,
			RegistrationStatus: req.RegistrationStatus,
		}

		if errCreate := h.leagues.Create(ctx, &league); errCreate != nil {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errCreate, httphelper.ErrInternal)))

			return
		}

		ctx.JSON(http.StatusCreated, league)
	}
}

func (h leaguesHandler) onUpdateLeague() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		leagueID, idFound := httphelper.GetIntParam(ctx, "league_id")
		if !idFound {
			return
		}

		league, errGet := h.leagues.GetByID(ctx, leagueID)
		if errGet != nil {
			if errors.Is(errGet, database.ErrNoResult) {
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusNotFound, httphelper.ErrNotFound))
			} else {
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errGet, httphelper.ErrInternal)))
			}

			return
		}

		var req leagueRequest
		if !httphelper.Bind(ctx, &req) {
			return
		}

		league.Name = req.Name
		league.ImagePath = req.ImagePath
		league.Info = req.Info
		league.HandbookURL = req.HandbookURL
		league.StandingsURL = req.StandingsURL
		league.RegistrationURL = req.RegistrationURL
		league.RegistrationStatus = req.RegistrationStatus
		league.IsActive = req.IsActive

		if errUpdate := h.leagues.Update(ctx, &league); errUpdate != nil {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errUpdate, httphelper.ErrInternal)))

			return
		}

		ctx.JSON(http.StatusOK, league)
	}
}

func (h leaguesHandler) onDeleteLeague() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		leagueID, idFound := httphelper.GetIntParam(ctx, "league_id")
		if !idFound {
			return
		}

		if _, errGet := h.leagues.GetByID(ctx, leagueID); errGet != nil {
			if errors.Is(errGet, database.ErrNoResult) {
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusNotFound, httphelper.ErrNotFound))
			} else {
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errGet, httphelper.ErrInternal)))
			}

			return
		}

		if errDelete := h.leagues.Delete(ctx, leagueID); errDelete != nil {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errDelete, httphelper.ErrInternal)))

			return
		}

		ctx.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func (h leaguesHandler) onArchiveLeague() gin.HandlerFunc {
	type archiveRequest struct {
		Archived *bool `json:"archived" binding:"required"`
	}

	return func(ctx *gin.Context) {
		leagueID, idFound := httphelper.GetIntParam(ctx, "league_id")
		if !idFound {
			return
		}

		var req archiveRequest
		if !httphelper.Bind(ctx, &req) {
			return
		}

		league, errSet := h.leagues.SetArchived(ctx, leagueID, *req.Archived)
		if errSet != nil {
			if errors.Is(errSet, database.ErrNoResult) {
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusNotFound, httphelper.ErrNotFound))
			} else {
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errSet, httphelper.ErrInternal)))
			}

			return
		}

		ctx.JSON(http.StatusOK, league)
	}
}

func (h leaguesHandler) onReorderLeagues() gin.HandlerFunc {
	type reorderRequest struct {
		LeagueIDs []int `json:"league_ids" binding:"required"`
	}

	return func(ctx *gin.Context) {
		var req reorderRequest
		if !httphelper.Bind(ctx, &req) {
			return
		}

		if errReorder := h.leagues.Reorder(ctx, req.LeagueIDs); errReorder != nil {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errReorder, httphelper.ErrInternal)))

			return
		}

		ctx.JSON(http.StatusOK, gin.H{"success": true})
	}
}
