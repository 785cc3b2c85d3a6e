package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
)

// Ограничения текстовых полей.
const (
	MaxApplicationMessageLength = 2000
	MaxRejectionReasonLength    = 500
	MaxReasonCodeLength         = 64
	MaxRatingCommentLength      = 1000
	MinPropertyTitleLength      = 3
	MaxPropertyTitleLength      = 200
	MaxCityLength               = 100
	MaxAddressLength            = 300
	MaxLocationLength           = 100
	MaxBudget                   = 1_000_000_000.0
)

// ValidateLength проверяет длину строки в символах. Ошибка называет поле.
func ValidateLength(field, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return apperror.Newf(apperror.ErrCodeValidation, "%s должен быть не менее %d символов", field, min).
			WithDetail("fields", []string{field})
	}
	if max > 0 && length > max {
		return apperror.Newf(apperror.ErrCodeValidation, "%s должен быть не более %d символов", field, max).
			WithDetail("fields", []string{field})
	}
	return nil
}

// ValidateOptionalLength — то же для необязательного поля.
func ValidateOptionalLength(field string, value *string, max int) error {
	if value == nil {
		return nil
	}
	return ValidateLength(field, *value, 0, max)
}

// ValidateReasonCode разрешает латиницу, цифры, '_' и '-'.
func ValidateReasonCode(code string) error {
	if err := ValidateLength("reason_code", code, 1, MaxReasonCodeLength); err != nil {
		return err
	}
	for _, r := range code {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-') {
			return apperror.New(apperror.ErrCodeValidation, "reason_code может содержать только латиницу, цифры, _ и -").
				WithDetail("fields", []string{"reason_code"})
		}
	}
	return nil
}

// ValidateBudget проверяет бюджет арендатора.
func ValidateBudget(budget *float64) error {
	if budget == nil {
		return nil
	}
	if *budget < 0 || *budget > MaxBudget {
		return apperror.New(apperror.ErrCodeValidation, "бюджет должен быть в допустимом диапазоне").
			WithDetail("fields", []string{"budget"})
	}
	return nil
}

// SanitizeText убирает управляющие символы, кроме переводов строки и табуляции, и обрезает пробелы.
func SanitizeText(value string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
	return strings.TrimSpace(cleaned)
}

// SanitizeOptional применяет SanitizeText; пустой результат превращается в nil.
func SanitizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	cleaned := SanitizeText(*value)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}
