package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d20tracker/d20-api/internal/engine"
	"github.com/d20tracker/d20-api/internal/entities"
	"github.com/d20tracker/d20-api/internal/orchestrators/encounter"
)

type createEncounterRequest struct {
	CampaignID int64  `json:"campaign_id"`
	Name       string `json:"name"`
}

type playerRequest struct {
	CharacterID     int64 `json:"character_id"`
	InitiativeTotal int   `json:"initiative_total"`
}

type monsterRequest struct {
	Name          string            `json:"name"`
	MaxHP         int               `json:"max_hp"`
	AC            int               `json:"ac"`
	InitiativeMod int               `json:"initiative_mod"`
	IsEnemy       *bool             `json:"is_enemy"`
	Attacks       []entities.Attack `json:"attacks"`
}

type groupRequest struct {
	monsterRequest
	Count int `json:"count"`
}

type libraryRequest struct {
	EnemyID int64 `json:"enemy_id"`
	Count   int   `json:"count"`
}

type addParticipantsRequest struct {
	Players        []playerRequest  `json:"players"`
	UniqueMonsters []monsterRequest `json:"unique_monsters"`
	GroupMonsters  []groupRequest   `json:"group_monsters"`
	FromLibrary    []libraryRequest `json:"from_library"`
}

type hpChangeRequest struct {
	Delta int `json:"delta"`
}

type encounterItem struct {
	ID           int64                    `json:"id"`
	Name         string                   `json:"name"`
	Status       entities.EncounterStatus `json:"status"`
	CampaignID   int64                    `json:"campaign_id"`
	CampaignName *string                  `json:"campaign_name,omitempty"`
}

// creature maps a monster entry to a creature. Enemies unless told otherwise.
func (m monsterRequest) creature() engine.CreatureSpec {
	isEnemy := true
	if m.IsEnemy != nil {
		isEnemy = *m.IsEnemy
	}
	return engine.CreatureSpec{
		Name:               m.Name,
		MaxHP:              m.MaxHP,
		AC:                 m.AC,
		InitiativeModifier: m.InitiativeMod,
		IsEnemy:            isEnemy,
		Attacks:            m.Attacks,
	}
}

func (r *addParticipantsRequest) creatures() ([]engine.CreatureSpec, []engine.GroupSpec) {
	uniques := make([]engine.CreatureSpec, 0, len(r.UniqueMonsters))
	for _, m := range r.UniqueMonsters {
		uniques = append(uniques, m.creature())
	}
	groups := make([]engine.GroupSpec, 0, len(r.GroupMonsters))
	for _, g := range r.GroupMonsters {
		groups = append(groups, engine.GroupSpec{CreatureSpec: g.creature(), Count: g.Count})
	}
	return uniques, groups
}

// CreateEncounter handles POST /encounters
func (h *Handler) CreateEncounter(c *gin.Context) {
	var req createEncounterRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.encounterService.CreateEncounter(c.Request.Context(), &encounter.CreateEncounterInput{
		CampaignID: req.CampaignID,
		Name:       req.Name,
		UserID:     userID(c),
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, out.Encounter)
}

// AddParticipants handles POST /encounters/:id/participants
func (h *Handler) AddParticipants(c *gin.Context) {
	encounterID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req addParticipantsRequest
	if !bindJSON(c, &req) {
		return
	}

	uniques, groups := req.creatures()
	players := make([]encounter.PlayerInput, 0, len(req.Players))
	for _, p := range req.Players {
		players = append(players, encounter.PlayerInput{CharacterID: p.CharacterID, Initiative: p.InitiativeTotal})
	}

	out, err := h.encounterService.AddRoster(c.Request.Context(), &encounter.AddRosterInput{
		EncounterID: encounterID,
		Players:     players,
		Uniques:     uniques,
		Groups:      groups,
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "participants": out.Participants})
}

// AddParticipantsToActive handles POST /encounters/:id/add_participants
func (h *Handler) AddParticipantsToActive(c *gin.Context) {
	encounterID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req addParticipantsRequest
	if !bindJSON(c, &req) {
		return
	}

	uniques, groups := req.creatures()
	templates := make([]encounter.TemplateInput, 0, len(req.FromLibrary))
	for _, l := range req.FromLibrary {
		templates = append(templates, encounter.TemplateInput{TemplateID: l.EnemyID, Count: l.Count})
	}

	out, err := h.encounterService.AddRosterToActive(c.Request.Context(), &encounter.AddRosterToActiveInput{
		EncounterID: encounterID,
		Templates:   templates,
		Uniques:     uniques,
		Groups:      groups,
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":               "ok",
		"participants":         out.Participants,
		"skipped_template_ids": out.SkippedTemplateIDs,
	})
}

// StartEncounter handles POST /encounters/:id/start
func (h *Handler) StartEncounter(c *gin.Context) {
	encounterID, ok := pathID(c, "id")
	if !ok {
		return
	}

	out, err := h.encounterService.StartEncounter(c.Request.Context(), &encounter.StartEncounterInput{
		EncounterID: encounterID,
	})
	if err != nil {
		renderError(c, err)
		return
	}

	status := "started"
	if !out.Started {
		status = "empty"
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "encounter_id": encounterID, "round": out.Cursor.Round})
}

// NextTurn handles POST /encounters/:id/next_turn
func (h *Handler) NextTurn(c *gin.Context) {
	encounterID, ok := pathID(c, "id")
	if !ok {
		return
	}

	out, err := h.encounterService.NextTurn(c.Request.Context(), &encounter.NextTurnInput{
		EncounterID: encounterID,
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"encounter_id":  encounterID,
		"round":         out.Cursor.Round,
		"current_index": out.Cursor.Index,
	})
}

// GetState handles GET /encounters/:id/state?role=
func (h *Handler) GetState(c *gin.Context) {
	encounterID, ok := pathID(c, "id")
	if !ok {
		return
	}
	role, err := engine.ParseRole(c.Query("role"))
	if err != nil {
		renderError(c, err)
		return
	}

	out, err := h.encounterService.GetState(c.Request.Context(), &encounter.GetStateInput{
		EncounterID: encounterID,
		Role:        role,
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, out.View)
}

// FinishEncounter handles POST /encounters/:id/finish
func (h *Handler) FinishEncounter(c *gin.Context) {
	encounterID, ok := pathID(c, "id")
	if !ok {
		return
	}

	_, err := h.encounterService.FinishEncounter(c.Request.Context(), &encounter.FinishEncounterInput{
		EncounterID: encounterID,
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "finished", "encounter_id": encounterID})
}

// DeleteEncounter handles DELETE /encounters/:id
func (h *Handler) DeleteEncounter(c *gin.Context) {
	encounterID, ok := pathID(c, "id")
	if !ok {
		return
	}

	_, err := h.encounterService.DeleteEncounter(c.Request.Context(), &encounter.DeleteEncounterInput{
		EncounterID: encounterID,
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ListMyEncounters handles GET /encounters/my
func (h *Handler) ListMyEncounters(c *gin.Context) {
	out, err := h.encounterService.ListMyEncounters(c.Request.Context(), &encounter.ListMyEncountersInput{
		GMID: userID(c),
	})
	if err != nil {
		renderError(c, err)
		return
	}

	items := make([]encounterItem, 0, len(out.Encounters))
	for _, e := range out.Encounters {
		name := out.CampaignNames[e.CampaignID]
		items = append(items, encounterItem{
			ID:           e.ID,
			Name:         e.Name,
			Status:       e.Status,
			CampaignID:   e.CampaignID,
			CampaignName: &name,
		})
	}
	c.JSON(http.StatusOK, items)
}

// ListActiveEncounters handles GET /campaigns/:id/encounters/active
func (h *Handler) ListActiveEncounters(c *gin.Context) {
	campaignID, ok := pathID(c, "id")
	if !ok {
		return
	}

	out, err := h.encounterService.ListActiveEncounters(c.Request.Context(), &encounter.ListActiveEncountersInput{
		CampaignID: campaignID,
		UserID:     userID(c),
	})
	if err != nil {
		renderError(c, err)
		return
	}

	items := make([]encounterItem, 0, len(out.Encounters))
	for _, e := range out.Encounters {
		items = append(items, encounterItem{ID: e.ID, Name: e.Name, Status: e.Status, CampaignID: e.CampaignID})
	}
	c.JSON(http.StatusOK, items)
}

// ChangeHP handles POST /participants/:display_id/hp_change. The path takes
// a view row id, so "12:3" targets member 3 of group 12.
func (h *Handler) ChangeHP(c *gin.Context) {
	displayID := c.Param("display_id")
	participantID, memberIndex, err := engine.ParseDisplayID(displayID)
	if err != nil {
		renderError(c, err)
		return
	}
	var req hpChangeRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.encounterService.ApplyHPDelta(c.Request.Context(), &encounter.ApplyHPDeltaInput{
		ParticipantID: participantID,
		MemberIndex:   memberIndex,
		Delta:         req.Delta,
	})
	if err != nil {
		renderError(c, err)
		return
	}

	status := "ok"
	if !out.Applied {
		status = "ignored"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         status,
		"participant_id": displayID,
		"current_hp":     currentHP(out.Participant, memberIndex),
	})
}

// currentHP reads the pool a delta landed on, nil when there is none
func currentHP(p *entities.Participant, memberIndex *int) *int {
	if p == nil {
		return nil
	}
	if p.IsGroup() {
		idx := 0
		switch {
		case memberIndex != nil:
			idx = *memberIndex
		case p.Group.Count() != 1:
			return nil
		}
		if idx < 0 || idx >= p.Group.Count() {
			return nil
		}
		hp := p.Group.MemberHP[idx]
		return &hp
	}
	if hp := p.HitPoints(); hp != nil {
		current := hp.Current
		return &current
	}
	return nil
}
