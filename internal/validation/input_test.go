package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
)

func TestValidateLength(t *testing.T) {
	assert.NoError(t, ValidateLength("title", "Studio", 3, 10))

	err := ValidateLength("title", "ab", 3, 10)
	assert.True(t, apperror.IsValidation(err))

	err = ValidateLength("title", strings.Repeat("я", 11), 3, 10)
	var appErr *apperror.AppError
	if assert.ErrorAs(t, err, &appErr) {
		assert.Equal(t, []string{"title"}, appErr.Details["fields"])
	}

	// длина считается в символах, не в байтах
	assert.NoError(t, ValidateLength("title", strings.Repeat("я", 10), 3, 10))
}

func TestValidateOptionalLength(t *testing.T) {
	assert.NoError(t, ValidateOptionalLength("comment", nil, 5))
	long := "abcdef"
	assert.Error(t, ValidateOptionalLength("comment", &long, 5))
}

func TestValidateReasonCode(t *testing.T) {
	for _, code := range []string{"documents", "income-too-low", "OTHER_1"} {
		assert.NoError(t, ValidateReasonCode(code), code)
	}
	for _, code := range []string{"", "с пробелом", "has space", strings.Repeat("a", MaxReasonCodeLength+1)} {
		assert.Error(t, ValidateReasonCode(code), code)
	}
}

func TestValidateBudget(t *testing.T) {
	ok := 150000.0
	negative := -1.0
	assert.NoError(t, ValidateBudget(nil))
	assert.NoError(t, ValidateBudget(&ok))
	assert.Error(t, ValidateBudget(&negative))
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "Bonjour\nmerci", SanitizeText("  Bon\x00jour\nmerci\x07  "))

	blank := "  \x00 "
	assert.Nil(t, SanitizeOptional(&blank))
	assert.Nil(t, SanitizeOptional(nil))

	value := " ok "
	assert.Equal(t, "ok", *SanitizeOptional(&value))
}
