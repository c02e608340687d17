// Package v1 serves the Mini App HTTP API on gin.
package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d20tracker/d20-api/internal/auth/telegram"
	"github.com/d20tracker/d20-api/internal/errors"
	"github.com/d20tracker/d20-api/internal/orchestrators/bestiary"
	"github.com/d20tracker/d20-api/internal/orchestrators/campaign"
	"github.com/d20tracker/d20-api/internal/orchestrators/encounter"
	"github.com/d20tracker/d20-api/internal/pkg/idgen"
)

const defaultBotUsername = "d20_bot"

// HandlerConfig holds dependencies for the handler
type HandlerConfig struct {
	EncounterService encounter.Service
	CampaignService  campaign.Service
	BestiaryService  bestiary.Service
	Verifier         telegram.Verifier
	// RequestIDs is optional; defaults to prefixed UUIDs
	RequestIDs idgen.Generator
	// BotUsername builds invite deep links. Defaults to d20_bot.
	BotUsername string
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.EncounterService == nil {
		vb.RequiredField("EncounterService")
	}
	if c.CampaignService == nil {
		vb.RequiredField("CampaignService")
	}
	if c.BestiaryService == nil {
		vb.RequiredField("BestiaryService")
	}
	if c.Verifier == nil {
		vb.RequiredField("Verifier")
	}

	return vb.Build()
}

// Handler implements the HTTP API
type Handler struct {
	encounterService encounter.Service
	campaignService  campaign.Service
	bestiaryService  bestiary.Service
	verifier         telegram.Verifier
	requestIDs       idgen.Generator
	botUsername      string
}

// NewHandler creates a new handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	requestIDs := cfg.RequestIDs
	if requestIDs == nil {
		requestIDs = idgen.NewUUID("req")
	}
	botUsername := cfg.BotUsername
	if botUsername == "" {
		botUsername = defaultBotUsername
	}

	return &Handler{
		encounterService: cfg.EncounterService,
		campaignService:  cfg.CampaignService,
		bestiaryService:  cfg.BestiaryService,
		verifier:         cfg.Verifier,
		requestIDs:       requestIDs,
		botUsername:      botUsername,
	}, nil
}

// Router builds the gin engine with every route registered
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(h.requestID(), requestLogger(), gin.Recovery())
	h.Register(r)
	return r
}

// Register mounts the API routes on r
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", health)
	r.GET("/campaigns/invite/:token", h.CheckInvite)

	api := r.Group("/")
	api.Use(h.authenticate())

	api.POST("/campaigns", h.CreateCampaign)
	api.GET("/campaigns", h.ListCampaigns)
	api.GET("/campaigns/observer/my", h.ListObservedCampaigns)
	api.GET("/campaigns/:id", h.GetCampaign)
	api.GET("/campaigns/:id/members", h.ListMembers)
	api.DELETE("/campaigns/:id/members/:user_id", h.RemoveMember)
	api.POST("/campaigns/:id/invite", h.CreateInvite)
	api.DELETE("/campaigns/:id/invite/:token", h.DeactivateInvite)
	api.POST("/campaigns/join", h.JoinCampaign)
	api.GET("/me/stats", h.GetUserStats)

	api.POST("/characters", h.CreateCharacter)
	api.GET("/campaigns/:id/characters", h.ListCharacters)
	api.PUT("/characters/:id", h.UpdateCharacter)
	api.DELETE("/characters/:id", h.DeleteCharacter)

	api.POST("/campaigns/:id/templates", h.CreateTemplate)
	api.GET("/campaigns/:id/templates", h.ListTemplates)
	api.DELETE("/campaigns/:id/templates/:template_id", h.DeleteTemplate)
	api.POST("/campaigns/:id/templates/import", h.ImportTemplate)
	api.GET("/reference/monsters", h.SearchReference)

	api.POST("/encounters", h.CreateEncounter)
	api.GET("/encounters/my", h.ListMyEncounters)
	api.POST("/encounters/:id/participants", h.AddParticipants)
	api.POST("/encounters/:id/add_participants", h.AddParticipantsToActive)
	api.POST("/encounters/:id/start", h.StartEncounter)
	api.POST("/encounters/:id/next_turn", h.NextTurn)
	api.GET("/encounters/:id/state", h.GetState)
	api.POST("/encounters/:id/finish", h.FinishEncounter)
	api.DELETE("/encounters/:id", h.DeleteEncounter)
	api.GET("/campaigns/:id/encounters/active", h.ListActiveEncounters)
	api.POST("/participants/:display_id/hp_change", h.ChangeHP)
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
