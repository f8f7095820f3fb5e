package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStruct(t *testing.T) {
	type createPhoneInput struct {
		Number string `validate:"required,min=5"`
		Title  string `validate:"required"`
	}

	errs := ValidateStruct(createPhoneInput{Number: "09120000001", Title: "Primary"})
	assert.Empty(t, errs)

	errs = ValidateStruct(createPhoneInput{Number: "091"})
	require.Len(t, errs, 2)
	assert.Equal(t, "Number", errs[0].Field)
	assert.Contains(t, errs[0].Message, "at least 5")
	assert.Contains(t, errs[1].Message, "required")
}
