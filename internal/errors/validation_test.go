package errors_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/d20tracker/d20-api/internal/errors"
)

type ValidationTestSuite struct {
	suite.Suite
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationTestSuite))
}

func (s *ValidationTestSuite) TestBuilderCollectsInOrder() {
	vb := errors.NewValidationBuilder()
	vb.NotBlank("name", "  ").
		Min("max_hp", 0, 1).
		Min("count", 3, 1).
		RequiredField("campaign_id").
		Fieldf("name", "must be shorter than %d characters", 64)

	err := vb.Build()
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Equal(
		"validation failed: name: is required, must be shorter than 64 characters; "+
			"max_hp: must be at least 1; campaign_id: is required",
		errors.GetMessage(err),
	)

	fields, ok := errors.GetMeta(err)["validation_errors"].(map[string][]string)
	s.Require().True(ok)
	s.Len(fields, 3)
}

func (s *ValidationTestSuite) TestBuilderNoErrors() {
	vb := errors.NewValidationBuilder()
	vb.NotBlank("name", "Goblin").Min("count", 2, 1)

	s.NoError(vb.Build())
}

func (s *ValidationTestSuite) TestEmptyValidationError() {
	ve := errors.NewValidationError()

	s.False(ve.HasErrors())
	s.Nil(ve.ToError())
	s.Equal("validation failed", ve.Error())
}
