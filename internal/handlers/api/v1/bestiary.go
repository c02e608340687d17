package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d20tracker/d20-api/internal/entities"
	"github.com/d20tracker/d20-api/internal/errors"
	"github.com/d20tracker/d20-api/internal/orchestrators/bestiary"
)

type createTemplateRequest struct {
	Name          string            `json:"name"`
	MaxHP         int               `json:"max_hp"`
	AC            int               `json:"ac"`
	InitiativeMod int               `json:"initiative_mod"`
	Attacks       []entities.Attack `json:"attacks"`
}

type importTemplateRequest struct {
	URL string `json:"url"`
}

// CreateTemplate handles POST /campaigns/:id/templates
func (h *Handler) CreateTemplate(c *gin.Context) {
	campaignID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req createTemplateRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.bestiaryService.CreateTemplate(c.Request.Context(), &bestiary.CreateTemplateInput{
		CampaignID:         campaignID,
		UserID:             userID(c),
		Name:               req.Name,
		MaxHP:              req.MaxHP,
		AC:                 req.AC,
		InitiativeModifier: req.InitiativeMod,
		Attacks:            req.Attacks,
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, out.Template)
}

// ListTemplates handles GET /campaigns/:id/templates
func (h *Handler) ListTemplates(c *gin.Context) {
	campaignID, ok := pathID(c, "id")
	if !ok {
		return
	}

	out, err := h.bestiaryService.ListTemplates(c.Request.Context(), &bestiary.ListTemplatesInput{
		CampaignID: campaignID,
		UserID:     userID(c),
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, nonNil(out.Templates))
}

// DeleteTemplate handles DELETE /campaigns/:id/templates/:template_id
func (h *Handler) DeleteTemplate(c *gin.Context) {
	campaignID, ok := pathID(c, "id")
	if !ok {
		return
	}
	templateID, ok := pathID(c, "template_id")
	if !ok {
		return
	}

	_, err := h.bestiaryService.DeleteTemplate(c.Request.Context(), &bestiary.DeleteTemplateInput{
		CampaignID: campaignID,
		TemplateID: templateID,
		UserID:     userID(c),
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ImportTemplate handles POST /campaigns/:id/templates/import
func (h *Handler) ImportTemplate(c *gin.Context) {
	campaignID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req importTemplateRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.bestiaryService.ImportTemplate(c.Request.Context(), &bestiary.ImportTemplateInput{
		CampaignID: campaignID,
		UserID:     userID(c),
		URL:        req.URL,
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, out.Template)
}

// SearchReference handles GET /reference/monsters?q=&limit=
func (h *Handler) SearchReference(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			renderError(c, errors.InvalidArgumentf("invalid limit %q", raw))
			return
		}
		limit = n
	}

	out, err := h.bestiaryService.SearchReference(c.Request.Context(), &bestiary.SearchReferenceInput{
		Query: c.Query("q"),
		Limit: limit,
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, nonNil(out.Monsters))
}
