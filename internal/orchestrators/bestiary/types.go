package bestiary

import (
	"github.com/d20tracker/d20-api/internal/clients/srd"
	"github.com/d20tracker/d20-api/internal/entities"
)

// CreateTemplateInput contains the stat block for a new template
type CreateTemplateInput struct {
	CampaignID         int64
	UserID             int64
	Name               string
	MaxHP              int
	AC                 int
	InitiativeModifier int
	Attacks            []entities.Attack
}

// CreateTemplateOutput contains the created template
type CreateTemplateOutput struct {
	Template *entities.Template
}

// ListTemplatesInput contains the request data for listing templates
type ListTemplatesInput struct {
	CampaignID int64
	UserID     int64
}

// ListTemplatesOutput contains a campaign's templates sorted by name
type ListTemplatesOutput struct {
	Templates []*entities.Template
}

// DeleteTemplateInput contains the request data for deleting a template
type DeleteTemplateInput struct {
	CampaignID int64
	TemplateID int64
	UserID     int64
}

// DeleteTemplateOutput is empty on success
type DeleteTemplateOutput struct{}

// ImportTemplateInput points at a dnd.su bestiary page
type ImportTemplateInput struct {
	CampaignID int64
	UserID     int64
	URL        string
}

// ImportTemplateOutput contains the template built from the page
type ImportTemplateOutput struct {
	Template *entities.Template
}

// SearchReferenceInput contains a monster name query
type SearchReferenceInput struct {
	Query string
	Limit int
}

// SearchReferenceOutput contains matching SRD monsters
type SearchReferenceOutput struct {
	Monsters []*srd.Monster
}
