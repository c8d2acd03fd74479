package usecase

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shazamohamed705/layatofk-master88-sub001/internal/entity"
)

// ValidateTitle checks a listing title and returns an empty string when
// it is valid, or the message to show next to the field. Rules are
// applied in order and the first failure wins: required, no digits,
// at least one Latin or Arabic letter, trimmed length exactly 30.
func ValidateTitle(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "title is required"
	}
	if containsDigit(value) {
		return "title must not contain numbers"
	}
	if !containsLetter(value) {
		return "title must contain letters"
	}
	n := utf8.RuneCountInString(trimmed)
	switch {
	case n < entity.TitleRuneCount:
		return fmt.Sprintf("title must be exactly %d characters, add %d more", entity.TitleRuneCount, entity.TitleRuneCount-n)
	case n > entity.TitleRuneCount:
		return fmt.Sprintf("title must be exactly %d characters, remove %d", entity.TitleRuneCount, n-entity.TitleRuneCount)
	}
	return ""
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func containsLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
		if unicode.Is(unicode.Arabic, r) && unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
