// Package templates persists the per-campaign enemy library
package templates

import (
	"context"

	"github.com/d20tracker/d20-api/internal/entities"
)

// Repository defines the storage interface for creature templates
type Repository interface {
	// Create stores a template; the ID is assigned by the store
	// Returns errors.InvalidArgument for validation failures
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a template by ID
	// Returns errors.NotFound if the template doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Delete removes a template
	// Returns errors.NotFound if the template doesn't exist
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// ListByCampaign returns a campaign's templates ordered by name
	ListByCampaign(ctx context.Context, input ListByCampaignInput) (*ListByCampaignOutput, error)
}

// CreateInput defines the input for creating a template
type CreateInput struct {
	Template *entities.Template
}

// CreateOutput defines the output for creating a template
type CreateOutput struct {
	Template *entities.Template
}

// GetInput defines the input for getting a template
type GetInput struct {
	ID int64
}

// GetOutput defines the output for getting a template
type GetOutput struct {
	Template *entities.Template
}

// DeleteInput defines the input for deleting a template
type DeleteInput struct {
	ID int64
}

// DeleteOutput defines the output for deleting a template
type DeleteOutput struct{}

// ListByCampaignInput defines the input for listing a campaign's templates
type ListByCampaignInput struct {
	CampaignID int64
}

// ListByCampaignOutput defines the output for listing a campaign's templates
type ListByCampaignOutput struct {
	Templates []*entities.Template
}
