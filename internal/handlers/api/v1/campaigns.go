package v1

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d20tracker/d20-api/internal/entities"
	"github.com/d20tracker/d20-api/internal/orchestrators/campaign"
)

type createCampaignRequest struct {
	Name string `json:"name"`
}

type createInviteRequest struct {
	ExpiresInDays int `json:"expires_in_days"`
	MaxUses       int `json:"max_uses"`
}

type inviteResponse struct {
	InviteToken string     `json:"invite_token"`
	InviteURL   string     `json:"invite_url"`
	ExpiresAt   *time.Time `json:"expires_at"`
	MaxUses     *int       `json:"max_uses"`
}

type checkInviteResponse struct {
	CampaignID   int64  `json:"campaign_id"`
	CampaignName string `json:"campaign_name"`
	Valid        bool   `json:"valid"`
}

type joinCampaignRequest struct {
	InviteToken string `json:"invite_token"`
}

type joinCampaignResponse struct {
	Status       string              `json:"status"`
	CampaignID   int64               `json:"campaign_id"`
	CampaignName string              `json:"campaign_name"`
	Role         entities.MemberRole `json:"role"`
}

type userStatsResponse struct {
	GMCampaignsCount       int `json:"gm_campaigns_count"`
	ObserverCampaignsCount int `json:"observer_campaigns_count"`
}

type createCharacterRequest struct {
	CampaignID     int64  `json:"campaign_id"`
	Name           string `json:"name"`
	AC             int    `json:"ac"`
	BaseInitiative int    `json:"base_initiative"`
}

type updateCharacterRequest struct {
	Name           *string `json:"name"`
	AC             *int    `json:"ac"`
	BaseInitiative *int    `json:"base_initiative"`
}

type campaignResponse struct {
	*entities.Campaign
	Role entities.MemberRole `json:"role,omitempty"`
}

// CreateCampaign handles POST /campaigns
func (h *Handler) CreateCampaign(c *gin.Context) {
	var req createCampaignRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.campaignService.CreateCampaign(c.Request.Context(), &campaign.CreateCampaignInput{
		Name:   req.Name,
		UserID: userID(c),
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, campaignResponse{Campaign: out.Campaign, Role: entities.MemberRoleGM})
}

// ListCampaigns handles GET /campaigns
func (h *Handler) ListCampaigns(c *gin.Context) {
	out, err := h.campaignService.ListCampaigns(c.Request.Context(), &campaign.ListCampaignsInput{
		UserID: userID(c),
	})
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(out.Campaigns))
}

// ListObservedCampaigns handles GET /campaigns/observer/my
func (h *Handler) ListObservedCampaigns(c *gin.Context) {
	out, err := h.campaignService.ListObservedCampaigns(c.Request.Context(), &campaign.ListCampaignsInput{
		UserID: userID(c),
	})
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(out.Campaigns))
}

// GetCampaign handles GET /campaigns/:id
func (h *Handler) GetCampaign(c *gin.Context) {
	campaignID, ok := pathID(c, "id")
	if !ok {
		return
	}

	out, err := h.campaignService.GetCampaign(c.Request.Context(), &campaign.GetCampaignInput{
		CampaignID: campaignID,
		UserID:     userID(c),
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, campaignResponse{Campaign: out.Campaign, Role: out.Role})
}

// CreateInvite handles POST /campaigns/:id/invite. The body is optional;
// without one the invite never expires and has no use limit.
func (h *Handler) CreateInvite(c *gin.Context) {
	campaignID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req createInviteRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	out, err := h.campaignService.CreateInvite(c.Request.Context(), &campaign.CreateInviteInput{
		CampaignID: campaignID,
		UserID:     userID(c),
		ExpiresIn:  time.Duration(req.ExpiresInDays) * 24 * time.Hour,
		MaxUses:    req.MaxUses,
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, inviteResponse{
		InviteToken: out.Invite.Token,
		InviteURL:   h.inviteURL(out.Invite.Token),
		ExpiresAt:   out.Invite.ExpiresAt,
		MaxUses:     out.Invite.MaxUses,
	})
}

// CheckInvite handles GET /campaigns/invite/:token without authentication,
// so the join page can show the campaign before the user signs in
func (h *Handler) CheckInvite(c *gin.Context) {
	out, err := h.campaignService.CheckInvite(c.Request.Context(), &campaign.CheckInviteInput{
		Token: c.Param("token"),
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, checkInviteResponse{
		CampaignID:   out.Campaign.ID,
		CampaignName: out.Campaign.Name,
		Valid:        true,
	})
}

// JoinCampaign handles POST /campaigns/join
func (h *Handler) JoinCampaign(c *gin.Context) {
	var req joinCampaignRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.campaignService.JoinByInvite(c.Request.Context(), &campaign.JoinByInviteInput{
		Token:  req.InviteToken,
		UserID: userID(c),
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, joinCampaignResponse{
		Status:       "success",
		CampaignID:   out.Campaign.ID,
		CampaignName: out.Campaign.Name,
		Role:         out.Role,
	})
}

// DeactivateInvite handles DELETE /campaigns/:id/invite/:token
func (h *Handler) DeactivateInvite(c *gin.Context) {
	campaignID, ok := pathID(c, "id")
	if !ok {
		return
	}

	_, err := h.campaignService.DeactivateInvite(c.Request.Context(), &campaign.DeactivateInviteInput{
		CampaignID: campaignID,
		UserID:     userID(c),
		Token:      c.Param("token"),
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deactivated"})
}

// ListMembers handles GET /campaigns/:id/members
func (h *Handler) ListMembers(c *gin.Context) {
	campaignID, ok := pathID(c, "id")
	if !ok {
		return
	}

	out, err := h.campaignService.ListMembers(c.Request.Context(), &campaign.ListMembersInput{
		CampaignID: campaignID,
		UserID:     userID(c),
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, nonNil(out.Members))
}

// GetUserStats handles GET /me/stats
func (h *Handler) GetUserStats(c *gin.Context) {
	out, err := h.campaignService.GetUserStats(c.Request.Context(), &campaign.GetUserStatsInput{
		UserID: userID(c),
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, userStatsResponse{
		GMCampaignsCount:       out.OwnedCampaigns,
		ObserverCampaignsCount: out.ObservedCampaigns,
	})
}

// inviteURL is the bot deep link that opens the join page
func (h *Handler) inviteURL(token string) string {
	return "https://t.me/" + h.botUsername + "?start=invite_" + url.QueryEscape(token)
}

// RemoveMember handles DELETE /campaigns/:id/members/:user_id
func (h *Handler) RemoveMember(c *gin.Context) {
	campaignID, ok := pathID(c, "id")
	if !ok {
		return
	}
	memberID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	_, err := h.campaignService.RemoveMember(c.Request.Context(), &campaign.RemoveMemberInput{
		CampaignID: campaignID,
		UserID:     userID(c),
		MemberID:   memberID,
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// CreateCharacter handles POST /characters
func (h *Handler) CreateCharacter(c *gin.Context) {
	var req createCharacterRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.campaignService.CreateCharacter(c.Request.Context(), &campaign.CreateCharacterInput{
		CampaignID:     req.CampaignID,
		UserID:         userID(c),
		Name:           req.Name,
		AC:             req.AC,
		BaseInitiative: req.BaseInitiative,
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, out.Character)
}

// ListCharacters handles GET /campaigns/:id/characters
func (h *Handler) ListCharacters(c *gin.Context) {
	campaignID, ok := pathID(c, "id")
	if !ok {
		return
	}

	out, err := h.campaignService.ListCharacters(c.Request.Context(), &campaign.ListCharactersInput{
		CampaignID: campaignID,
		UserID:     userID(c),
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, nonNil(out.Characters))
}

// UpdateCharacter handles PUT /characters/:id. Omitted fields are unchanged.
func (h *Handler) UpdateCharacter(c *gin.Context) {
	characterID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateCharacterRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.campaignService.UpdateCharacter(c.Request.Context(), &campaign.UpdateCharacterInput{
		CharacterID:    characterID,
		UserID:         userID(c),
		Name:           req.Name,
		AC:             req.AC,
		BaseInitiative: req.BaseInitiative,
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, out.Character)
}

// DeleteCharacter handles DELETE /characters/:id
func (h *Handler) DeleteCharacter(c *gin.Context) {
	characterID, ok := pathID(c, "id")
	if !ok {
		return
	}

	_, err := h.campaignService.DeleteCharacter(c.Request.Context(), &campaign.DeleteCharacterInput{
		CharacterID: characterID,
		UserID:      userID(c),
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// nonNil keeps empty lists encoding as [] rather than null
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
