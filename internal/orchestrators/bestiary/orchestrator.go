// Package bestiary manages a campaign's enemy templates and the reference
// sources they can be imported from.
package bestiary

//go:generate mockgen -destination=mock/mock_service.go -package=bestiarymock github.com/d20tracker/d20-api/internal/orchestrators/bestiary Service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/d20tracker/d20-api/internal/clients/dndsu"
	"github.com/d20tracker/d20-api/internal/clients/srd"
	"github.com/d20tracker/d20-api/internal/entities"
	"github.com/d20tracker/d20-api/internal/errors"
	"github.com/d20tracker/d20-api/internal/repositories/campaigns"
	"github.com/d20tracker/d20-api/internal/repositories/templates"
)

// Service defines the interface for enemy template operations
type Service interface {
	CreateTemplate(ctx context.Context, input *CreateTemplateInput) (*CreateTemplateOutput, error)
	ListTemplates(ctx context.Context, input *ListTemplatesInput) (*ListTemplatesOutput, error)
	DeleteTemplate(ctx context.Context, input *DeleteTemplateInput) (*DeleteTemplateOutput, error)

	// ImportTemplate turns a dnd.su bestiary page into a template
	ImportTemplate(ctx context.Context, input *ImportTemplateInput) (*ImportTemplateOutput, error)

	// SearchReference searches the SRD monster index by name
	SearchReference(ctx context.Context, input *SearchReferenceInput) (*SearchReferenceOutput, error)
}

// Config holds the dependencies for the bestiary orchestrator
type Config struct {
	CampaignRepo campaigns.Repository
	TemplateRepo templates.Repository
	Bestiary     dndsu.Client
	SRD          srd.Client
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.CampaignRepo == nil {
		vb.RequiredField("CampaignRepo")
	}
	if c.TemplateRepo == nil {
		vb.RequiredField("TemplateRepo")
	}
	if c.Bestiary == nil {
		vb.RequiredField("Bestiary")
	}
	if c.SRD == nil {
		vb.RequiredField("SRD")
	}

	return vb.Build()
}

type orchestrator struct {
	campaignRepo campaigns.Repository
	templateRepo templates.Repository
	bestiary     dndsu.Client
	srd          srd.Client
}

// NewOrchestrator creates a new bestiary orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		campaignRepo: cfg.CampaignRepo,
		templateRepo: cfg.TemplateRepo,
		bestiary:     cfg.Bestiary,
		srd:          cfg.SRD,
	}, nil
}

func (o *orchestrator) CreateTemplate(ctx context.Context, input *CreateTemplateInput) (*CreateTemplateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	tpl := &entities.Template{
		CampaignID:         input.CampaignID,
		Name:               strings.TrimSpace(input.Name),
		MaxHP:              input.MaxHP,
		AC:                 input.AC,
		InitiativeModifier: input.InitiativeModifier,
		Attacks:            input.Attacks,
	}
	if err := validateTemplate(tpl); err != nil {
		return nil, err
	}
	if err := o.requireGM(ctx, input.CampaignID, input.UserID); err != nil {
		return nil, err
	}

	return o.create(ctx, tpl)
}

func (o *orchestrator) ListTemplates(ctx context.Context, input *ListTemplatesInput) (*ListTemplatesOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := o.requireGM(ctx, input.CampaignID, input.UserID); err != nil {
		return nil, err
	}

	out, err := o.templateRepo.ListByCampaign(ctx, templates.ListByCampaignInput{CampaignID: input.CampaignID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list templates")
	}
	return &ListTemplatesOutput{Templates: out.Templates}, nil
}

func (o *orchestrator) DeleteTemplate(ctx context.Context, input *DeleteTemplateInput) (*DeleteTemplateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := o.requireGM(ctx, input.CampaignID, input.UserID); err != nil {
		return nil, err
	}

	existing, err := o.templateRepo.Get(ctx, templates.GetInput{ID: input.TemplateID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get template %d", input.TemplateID)
	}
	if existing.Template.CampaignID != input.CampaignID {
		return nil, errors.NotFoundf("template %d not found", input.TemplateID)
	}

	if _, err := o.templateRepo.Delete(ctx, templates.DeleteInput{ID: input.TemplateID}); err != nil {
		return nil, errors.Wrapf(err, "failed to delete template %d", input.TemplateID)
	}

	slog.InfoContext(ctx, "Deleted template", "template_id", input.TemplateID, "campaign_id", input.CampaignID)
	return &DeleteTemplateOutput{}, nil
}

func (o *orchestrator) ImportTemplate(ctx context.Context, input *ImportTemplateInput) (*ImportTemplateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := errors.NewValidationBuilder().NotBlank("url", input.URL).Build(); err != nil {
		return nil, err
	}
	if err := o.requireGM(ctx, input.CampaignID, input.UserID); err != nil {
		return nil, err
	}

	creature, err := o.bestiary.FetchCreature(ctx, input.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to import creature")
	}

	tpl := &entities.Template{
		CampaignID:         input.CampaignID,
		Name:               creature.Name,
		MaxHP:              creature.HP,
		AC:                 creature.AC,
		InitiativeModifier: creature.InitiativeModifier,
		SourceURL:          creature.SourceURL,
	}
	if err := validateTemplate(tpl); err != nil {
		return nil, errors.Wrap(err, "imported stat block is incomplete")
	}

	out, err := o.create(ctx, tpl)
	if err != nil {
		return nil, err
	}
	return &ImportTemplateOutput{Template: out.Template}, nil
}

func (o *orchestrator) SearchReference(
	ctx context.Context,
	input *SearchReferenceInput,
) (*SearchReferenceOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	monsters, err := o.srd.SearchMonsters(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search reference monsters")
	}
	return &SearchReferenceOutput{Monsters: monsters}, nil
}

func (o *orchestrator) create(ctx context.Context, tpl *entities.Template) (*CreateTemplateOutput, error) {
	out, err := o.templateRepo.Create(ctx, templates.CreateInput{Template: tpl})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create template")
	}

	slog.InfoContext(ctx, "Created template",
		"template_id", out.Template.ID,
		"campaign_id", out.Template.CampaignID,
		"name", out.Template.Name,
	)
	return &CreateTemplateOutput{Template: out.Template}, nil
}

func (o *orchestrator) requireGM(ctx context.Context, campaignID, userID int64) error {
	out, err := o.campaignRepo.Get(ctx, campaigns.GetInput{ID: campaignID})
	if err != nil {
		return errors.Wrapf(err, "failed to get campaign %d", campaignID)
	}
	if out.Campaign.OwnerID != userID {
		return errors.PermissionDenied("only the game master can manage templates")
	}
	return nil
}

func validateTemplate(t *entities.Template) error {
	vb := errors.NewValidationBuilder()
	vb.NotBlank("name", t.Name)
	vb.Min("max_hp", t.MaxHP, 1)
	vb.Min("ac", t.AC, 0)
	for i, a := range t.Attacks {
		vb.NotBlank(fmt.Sprintf("attacks[%d].name", i), a.Name)
	}
	return vb.Build()
}
