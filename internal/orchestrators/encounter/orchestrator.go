// Package encounter implements the encounter orchestrator: roster
// assembly, turn order, hit point changes and role-filtered views on top of
// the encounter store.
package encounter

//go:generate mockgen -destination=mock/mock_service.go -package=encountermock github.com/d20tracker/d20-api/internal/orchestrators/encounter Service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/d20tracker/d20-api/internal/engine"
	"github.com/d20tracker/d20-api/internal/entities"
	"github.com/d20tracker/d20-api/internal/errors"
	"github.com/d20tracker/d20-api/internal/repositories/campaigns"
	"github.com/d20tracker/d20-api/internal/repositories/character"
	"github.com/d20tracker/d20-api/internal/repositories/encounters"
	"github.com/d20tracker/d20-api/internal/repositories/templates"
)

const unknownCharacterName = "Unknown"

// Service defines the interface for encounter operations
type Service interface {
	// CreateEncounter creates a draft encounter in a campaign the caller owns
	CreateEncounter(ctx context.Context, input *CreateEncounterInput) (*CreateEncounterOutput, error)

	// AddRoster adds players and creatures to an encounter
	AddRoster(ctx context.Context, input *AddRosterInput) (*AddRosterOutput, error)

	// AddRosterToActive adds library templates and creatures, typically to a
	// running encounter. Missing templates are skipped.
	AddRosterToActive(ctx context.Context, input *AddRosterToActiveInput) (*AddRosterToActiveOutput, error)

	// StartEncounter activates the encounter at round 1, first seat
	StartEncounter(ctx context.Context, input *StartEncounterInput) (*StartEncounterOutput, error)

	// NextTurn advances to the next turn in the encounter
	NextTurn(ctx context.Context, input *NextTurnInput) (*NextTurnOutput, error)

	// FinishEncounter marks the encounter finished
	FinishEncounter(ctx context.Context, input *FinishEncounterInput) (*FinishEncounterOutput, error)

	// DeleteEncounter removes the encounter and everything in it
	DeleteEncounter(ctx context.Context, input *DeleteEncounterInput) (*DeleteEncounterOutput, error)

	// ApplyHPDelta damages or heals one participant or group member
	ApplyHPDelta(ctx context.Context, input *ApplyHPDeltaInput) (*ApplyHPDeltaOutput, error)

	// GetState renders the encounter for a viewer role
	GetState(ctx context.Context, input *GetStateInput) (*GetStateOutput, error)

	// ListMyEncounters returns a game master's draft and active encounters
	ListMyEncounters(ctx context.Context, input *ListMyEncountersInput) (*ListEncountersOutput, error)

	// ListActiveEncounters returns a campaign's running encounters to its members
	ListActiveEncounters(ctx context.Context, input *ListActiveEncountersInput) (*ListEncountersOutput, error)
}

// Config holds the dependencies for the encounter orchestrator
type Config struct {
	EncounterRepo encounters.Repository
	CampaignRepo  campaigns.Repository
	CharacterRepo character.Repository
	TemplateRepo  templates.Repository
	RosterBuilder engine.RosterBuilder
	// EventBus is optional; nil disables event publishing
	EventBus events.EventBus
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.EncounterRepo == nil {
		vb.RequiredField("EncounterRepo")
	}
	if c.CampaignRepo == nil {
		vb.RequiredField("CampaignRepo")
	}
	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.TemplateRepo == nil {
		vb.RequiredField("TemplateRepo")
	}
	if c.RosterBuilder == nil {
		vb.RequiredField("RosterBuilder")
	}

	return vb.Build()
}

type orchestrator struct {
	encounterRepo encounters.Repository
	campaignRepo  campaigns.Repository
	characterRepo character.Repository
	templateRepo  templates.Repository
	rosterBuilder engine.RosterBuilder
	eventBus      events.EventBus
}

// NewOrchestrator creates a new encounter orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		encounterRepo: cfg.EncounterRepo,
		campaignRepo:  cfg.CampaignRepo,
		characterRepo: cfg.CharacterRepo,
		templateRepo:  cfg.TemplateRepo,
		rosterBuilder: cfg.RosterBuilder,
		eventBus:      cfg.EventBus,
	}, nil
}

func (o *orchestrator) CreateEncounter(
	ctx context.Context,
	input *CreateEncounterInput,
) (*CreateEncounterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	if input.CampaignID <= 0 {
		return nil, errors.NewValidationBuilder().RequiredField("campaign_id").Build()
	}

	campaign, err := o.campaignRepo.Get(ctx, campaigns.GetInput{ID: input.CampaignID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get campaign %d", input.CampaignID)
	}
	if campaign.Campaign.OwnerID != input.UserID {
		return nil, errors.PermissionDenied("only the game master can create encounters")
	}

	created, err := o.encounterRepo.Create(ctx, encounters.CreateInput{
		Encounter: &entities.Encounter{
			CampaignID: input.CampaignID,
			Name:       strings.TrimSpace(input.Name),
			Status:     entities.EncounterStatusDraft,
			GMID:       input.UserID,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create encounter")
	}

	slog.InfoContext(ctx, "Created encounter",
		"encounter_id", created.Encounter.ID,
		"campaign_id", input.CampaignID,
		"gm_id", input.UserID,
	)

	return &CreateEncounterOutput{Encounter: created.Encounter, Cursor: created.Cursor}, nil
}

func (o *orchestrator) AddRoster(ctx context.Context, input *AddRosterInput) (*AddRosterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	build := &engine.BuildRosterInput{
		EncounterID: input.EncounterID,
		Uniques:     input.Uniques,
		Groups:      input.Groups,
	}
	for _, p := range input.Players {
		name, err := o.characterName(ctx, p.CharacterID)
		if err != nil {
			return nil, err
		}
		build.Players = append(build.Players, engine.PlayerEntry{
			CharacterID:     p.CharacterID,
			Name:            name,
			InitiativeTotal: p.Initiative,
		})
	}

	added, err := o.addParticipants(ctx, build)
	if err != nil {
		return nil, err
	}
	return &AddRosterOutput{Participants: added}, nil
}

func (o *orchestrator) AddRosterToActive(
	ctx context.Context,
	input *AddRosterToActiveInput,
) (*AddRosterToActiveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	for i, t := range input.Templates {
		vb.Min(fmt.Sprintf("templates[%d].count", i), t.Count, 1)
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	build := &engine.BuildRosterInput{
		EncounterID: input.EncounterID,
		Uniques:     input.Uniques,
		Groups:      input.Groups,
	}
	var skipped []int64
	for _, t := range input.Templates {
		tpl, err := o.templateRepo.Get(ctx, templates.GetInput{ID: t.TemplateID})
		if err != nil {
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "Skipping missing template",
					"encounter_id", input.EncounterID,
					"template_id", t.TemplateID,
				)
				skipped = append(skipped, t.TemplateID)
				continue
			}
			return nil, errors.Wrapf(err, "failed to get template %d", t.TemplateID)
		}
		build.AddTemplate(tpl.Template, t.Count)
	}

	added, err := o.addParticipants(ctx, build)
	if err != nil {
		return nil, err
	}
	return &AddRosterToActiveOutput{Participants: added, SkippedTemplateIDs: skipped}, nil
}

// addParticipants builds the batch and appends it in one transaction. The
// cursor index is left alone, so the acting seat may shift.
func (o *orchestrator) addParticipants(
	ctx context.Context,
	build *engine.BuildRosterInput,
) ([]*entities.Participant, error) {
	if build.EncounterID <= 0 {
		return nil, errors.InvalidArgument("encounter_id is required")
	}

	built, err := o.rosterBuilder.Build(build)
	if err != nil {
		return nil, err
	}

	var added []*entities.Participant
	_, err = o.encounterRepo.Update(ctx, encounters.UpdateInput{
		ID: build.EncounterID,
		Mutate: func(snap *encounters.Snapshot) (encounters.Changes, error) {
			added = make([]*entities.Participant, 0, len(built.Participants))
			for _, p := range built.Participants {
				c := p.Clone()
				added = append(added, c)
				snap.Participants = append(snap.Participants, c)
			}
			return encounters.Changes{}, nil
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to add participants to encounter %d", build.EncounterID)
	}

	slog.InfoContext(ctx, "Added participants",
		"encounter_id", build.EncounterID,
		"players", len(build.Players),
		"uniques", len(build.Uniques),
		"groups", len(build.Groups),
	)

	return added, nil
}

func (o *orchestrator) characterName(ctx context.Context, id int64) (string, error) {
	out, err := o.characterRepo.Get(ctx, character.GetInput{ID: id})
	if err != nil {
		if errors.IsNotFound(err) {
			return unknownCharacterName, nil
		}
		if errors.IsInvalidArgument(err) {
			return "", err
		}
		return "", errors.Wrapf(err, "failed to get character %d", id)
	}
	return out.Character.Name, nil
}

func (o *orchestrator) StartEncounter(
	ctx context.Context,
	input *StartEncounterInput,
) (*StartEncounterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out, err := o.encounterRepo.Update(ctx, encounters.UpdateInput{
		ID: input.EncounterID,
		Mutate: func(snap *encounters.Snapshot) (encounters.Changes, error) {
			started := engine.Start(snap.Encounter, &snap.Cursor, len(snap.Participants))
			return encounters.Changes{Encounter: started, Cursor: started}, nil
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to start encounter %d", input.EncounterID)
	}

	if out.Changed {
		slog.InfoContext(ctx, "Started encounter",
			"encounter_id", input.EncounterID,
			"participants", len(out.Snapshot.Participants),
		)
		o.publish(ctx, EventEncounterStarted, encounterEntity(input.EncounterID), nil)
	}

	return &StartEncounterOutput{
		Encounter: out.Snapshot.Encounter,
		Cursor:    out.Snapshot.Cursor,
		Started:   out.Changed,
	}, nil
}

func (o *orchestrator) NextTurn(ctx context.Context, input *NextTurnInput) (*NextTurnOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out, err := o.encounterRepo.Update(ctx, encounters.UpdateInput{
		ID: input.EncounterID,
		Mutate: func(snap *encounters.Snapshot) (encounters.Changes, error) {
			return encounters.Changes{Cursor: engine.AdvanceTurn(&snap.Cursor, len(snap.Participants))}, nil
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to advance encounter %d", input.EncounterID)
	}

	result := &NextTurnOutput{
		Encounter: out.Snapshot.Encounter,
		Cursor:    out.Snapshot.Cursor,
		Advanced:  out.Changed,
		Current:   engine.CurrentSeat(engine.SeatingOrder(out.Snapshot.Participants), out.Snapshot.Cursor),
	}

	if out.Changed {
		slog.InfoContext(ctx, "Advanced turn",
			"encounter_id", input.EncounterID,
			"round", result.Cursor.Round,
			"index", result.Cursor.Index,
		)
		var target core.Entity
		if result.Current != nil {
			target = participantEntity(result.Current.ID)
		}
		o.publish(ctx, EventEncounterTurnAdvance, encounterEntity(input.EncounterID), target)
	}

	return result, nil
}

func (o *orchestrator) FinishEncounter(
	ctx context.Context,
	input *FinishEncounterInput,
) (*FinishEncounterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out, err := o.encounterRepo.Update(ctx, encounters.UpdateInput{
		ID: input.EncounterID,
		Mutate: func(snap *encounters.Snapshot) (encounters.Changes, error) {
			engine.Finish(snap.Encounter)
			return encounters.Changes{Encounter: true}, nil
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to finish encounter %d", input.EncounterID)
	}

	slog.InfoContext(ctx, "Finished encounter", "encounter_id", input.EncounterID)
	o.publish(ctx, EventEncounterFinished, encounterEntity(input.EncounterID), nil)

	return &FinishEncounterOutput{Encounter: out.Snapshot.Encounter}, nil
}

func (o *orchestrator) DeleteEncounter(
	ctx context.Context,
	input *DeleteEncounterInput,
) (*DeleteEncounterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	if _, err := o.encounterRepo.Delete(ctx, encounters.DeleteInput{ID: input.EncounterID}); err != nil {
		return nil, errors.Wrapf(err, "failed to delete encounter %d", input.EncounterID)
	}

	slog.InfoContext(ctx, "Deleted encounter", "encounter_id", input.EncounterID)
	return &DeleteEncounterOutput{}, nil
}

func (o *orchestrator) ApplyHPDelta(ctx context.Context, input *ApplyHPDeltaInput) (*ApplyHPDeltaOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out, err := o.encounterRepo.UpdateParticipant(ctx, encounters.UpdateParticipantInput{
		ID: input.ParticipantID,
		Mutate: func(p *entities.Participant) (bool, error) {
			return engine.ApplyDelta(p, input.Delta, input.MemberIndex), nil
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to change hit points of participant %d", input.ParticipantID)
	}

	if out.Changed {
		slog.DebugContext(ctx, "Applied hit point delta",
			"participant_id", input.ParticipantID,
			"encounter_id", out.Participant.EncounterID,
			"delta", input.Delta,
		)
		o.publish(ctx, EventParticipantHPChanged,
			participantEntity(input.ParticipantID), encounterEntity(out.Participant.EncounterID))
	}

	return &ApplyHPDeltaOutput{Participant: out.Participant, Applied: out.Changed}, nil
}

func (o *orchestrator) GetState(ctx context.Context, input *GetStateInput) (*GetStateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	loaded, err := o.encounterRepo.Get(ctx, encounters.GetInput{ID: input.EncounterID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get encounter %d", input.EncounterID)
	}
	snap := loaded.Snapshot

	var campaignName string
	campaign, err := o.campaignRepo.Get(ctx, campaigns.GetInput{ID: snap.Encounter.CampaignID})
	switch {
	case err == nil:
		campaignName = campaign.Campaign.Name
	case !errors.IsNotFound(err):
		return nil, errors.Wrapf(err, "failed to get campaign %d", snap.Encounter.CampaignID)
	}

	role := input.Role
	if role == "" {
		role = engine.RolePlayer
	}

	return &GetStateOutput{
		View: engine.Project(&engine.ProjectInput{
			Encounter:    snap.Encounter,
			Cursor:       snap.Cursor,
			Participants: snap.Participants,
			CampaignName: campaignName,
			Role:         role,
		}),
	}, nil
}

func (o *orchestrator) ListMyEncounters(
	ctx context.Context,
	input *ListMyEncountersInput,
) (*ListEncountersOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out, err := o.encounterRepo.ListByGM(ctx, encounters.ListByGMInput{
		GMID:     input.GMID,
		Statuses: []entities.EncounterStatus{entities.EncounterStatusDraft, entities.EncounterStatusActive},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list encounters")
	}

	names := make(map[int64]string)
	for _, enc := range out.Encounters {
		if _, seen := names[enc.CampaignID]; seen {
			continue
		}
		campaign, err := o.campaignRepo.Get(ctx, campaigns.GetInput{ID: enc.CampaignID})
		switch {
		case err == nil:
			names[enc.CampaignID] = campaign.Campaign.Name
		case errors.IsNotFound(err):
			names[enc.CampaignID] = ""
		default:
			return nil, errors.Wrapf(err, "failed to get campaign %d", enc.CampaignID)
		}
	}

	return &ListEncountersOutput{Encounters: out.Encounters, CampaignNames: names}, nil
}

func (o *orchestrator) ListActiveEncounters(
	ctx context.Context,
	input *ListActiveEncountersInput,
) (*ListEncountersOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	member, err := o.campaignRepo.GetMemberRole(ctx, campaigns.GetMemberRoleInput{
		CampaignID: input.CampaignID,
		UserID:     input.UserID,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check access to campaign %d", input.CampaignID)
	}
	if member.Role == "" {
		return nil, errors.PermissionDenied("no access to this campaign")
	}

	out, err := o.encounterRepo.ListByCampaign(ctx, encounters.ListByCampaignInput{
		CampaignID: input.CampaignID,
		Statuses:   []entities.EncounterStatus{entities.EncounterStatusActive},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list encounters")
	}
	return &ListEncountersOutput{Encounters: out.Encounters}, nil
}
