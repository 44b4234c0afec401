package validation_test

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lshigami/examhub/internal/dto"
	"github.com/lshigami/examhub/internal/model"
	"github.com/lshigami/examhub/internal/validation"
)

func newValidator(t *testing.T) *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, validation.RegisterOn(v))
	return v
}

func TestEnumTag(t *testing.T) {
	v := newValidator(t)

	ok := dto.CreateRegistrationRequest{UserID: 1, ExamID: 2, Status: model.RegistrationConfirmed}
	assert.NoError(t, v.Struct(ok))

	empty := dto.CreateRegistrationRequest{UserID: 1, ExamID: 2}
	assert.NoError(t, v.Struct(empty), "omitempty skips zero enum")

	bad := dto.CreateRegistrationRequest{UserID: 1, ExamID: 2, Status: "waitlisted"}
	err := v.Struct(bad)
	require.Error(t, err)
	assert.Equal(t, "invalid Status: waitlisted", validation.Describe(err))
}

func TestEnumTagOnPointer(t *testing.T) {
	v := newValidator(t)

	grade := model.Grade("E")
	err := v.Struct(dto.UpdateResultRequest{Grade: &grade})
	require.Error(t, err)

	valid := model.GradeB
	assert.NoError(t, v.Struct(dto.UpdateResultRequest{Grade: &valid}))
	assert.NoError(t, v.Struct(dto.UpdateResultRequest{}))
}

func TestDescribeRequired(t *testing.T) {
	v := newValidator(t)
	err := v.Struct(dto.CreateNotificationRequest{Type: model.NotificationReminder, Message: "soon"})
	require.Error(t, err)
	assert.Equal(t, "UserID is required", validation.Describe(err))
}
