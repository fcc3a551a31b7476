package partners

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uksimracing/website/internal/auth/permission"
	"github.com/uksimracing/website/internal/database"
	"github.com/uksimracing/website/internal/httphelper"
)

type partnersHandler struct {
	partners Partners
}

func NewPartnersHandler(engine *gin.Engine, partners Partners, auth httphelper.Authenticator) {
	handler := partnersHandler{partners: partners}

	engine.GET("/api/partners", handler.onGetPartners())

	// editors
	editorGrp := engine.Group("/")
	{
		editor := editorGrp.Use(auth.Middleware(permission.Moderator))
		editor.POST("/api/partners", handler.onCreatePartner())
		editor.PUT("/api/partners/:partner_id", handler.onUpdatePartner())
		editor.DELETE("/api/partners/:partner_id", handler.onDeletePartner())
		editor.POST("/api/partners/reorder", handler.onReorderPartners())
	}
}

func (h partnersHandler) onGetPartners() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		collection, errPartners := h.partners.Partners(ctx)
		if errPartners != nil {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errPartners, httphelper.ErrInternal)))

			return
		}

		ctx.JSON(http.StatusOK, collection)
	}
}

type partnerRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	URL         string `json:"url"`
	LogoPath    string `json:"logo_path"`
	PartnerType string `json:"partner_type"`
	Benefits    string `json:"benefits"`
	IsActive    bool   `json:"is_active"`
	IsFeatured  bool   `json:"is_featured"`
}

func (h partnersHandler) onCreatePartner() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req partnerRequest
		if !httphelper.Bind(ctx, &req) {
			return
		}

		partner := Partner{
			Name:        req.Name,
			Description: req.Description,
			URL:         req.URL,
			LogoPath:    req.LogoPath,
			PartnerType: req.PartnerType,
			Benefits:    req.Benefits,
			IsActive:    req.IsActive,
			IsFeatured:  req.IsFeatured,
		}

		if errCreate := h.partners.Create(ctx, &partner); errCreate != nil {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errCreate, httphelper.ErrInternal)))

			return
		}

		ctx.JSON(http.StatusCreated, partner)
	}
}

func (h partnersHandler) onUpdatePartner() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		partnerID, idFound := httphelper.GetIntParam(ctx, "partner_id")
		if !idFound {
			return
		}

		partner, errGet := h.partners.GetByID(ctx, partnerID)
		if errGet != nil {
			if errors.Is(errGet, database.ErrNoResult) {
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusNotFound, httphelper.ErrNotFound))
			} else {
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errGet, httphelper.ErrInternal)))
			}

			return
		}

		var req partnerRequest
		if !httphelper.Bind(ctx, &req) {
			return
		}

		partner.Name = req.Name
		partner.Description = req.Description
		partner.URL = req.URL
		partner.LogoPath = req.LogoPath
		partner.PartnerType = req.PartnerType
		partner.Benefits = req.Benefits
		partner.IsActive = req.IsActive
		partner.IsFeatured = req.IsFeatured

		if errUpdate := h.partners.Update(ctx, &partner); errUpdate != nil {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errUpdate, httphelper.ErrInternal)))

			return
		}

		ctx.JSON(http.StatusOK, partner)
	}
}

func (h partnersHandler) onDeletePartner() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		partnerID, idFound := httphelper.GetIntParam(ctx, "partner_id")
		if !idFound {
			return
		}

		if _, errGet := h.partners.GetByID(ctx, partnerID); errGet != nil {
			if errors.Is(errGet, database.ErrNoResult) {
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusNotFound, httphelper.ErrNotFound))
			} else {
				httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errGet, httphelper.ErrInternal)))
			}

			return
		}

		if errDelete := h.partners.Delete(ctx, partnerID); errDelete != nil {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errDelete, httphelper.ErrInternal)))

			return
		}

		ctx.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func (h partnersHandler) onReorderPartners() gin.HandlerFunc {
	type reorderRequest struct {
		PartnerIDs []int `json:"partner_ids" binding:"required"`
	}

	return func(ctx *gin.Context) {
		var req reorderRequest
		if !httphelper.Bind(ctx, &req) {
			return
		}

		if errReorder := h.partners.Reorder(ctx, req.PartnerIDs); errReorder != nil {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(errReorder, httphelper.ErrInternal)))

			return
		}

		ctx.JSON(http.StatusOK, gin.H{"success": true})
	}
}
