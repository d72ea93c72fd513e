// =============================
// File: internal/token/validator.go
// =============================
package token

import (
	"fmt"
	"net/url"
	"unicode/utf8"
)

// Validate checks metadata against protocol constraints, accumulating every
// violation instead of failing fast so the caller can report all problems in
// one response. Pure function of its input, no network calls.
func Validate(md *Metadata) *ValidationResult {
	result := NewValidationResult()

	validateLength(result, "name", md.Name, MaxNameLength)
	validateLength(result, "symbol", md.Symbol, MaxSymbolLength)
	validateLength(result, "description", md.Description, MaxDescriptionLength)

	if md.ImageURL == "" {
		result.AddError("image URL cannot be empty")
	} else if !isWellFormedURL(md.ImageURL) {
		result.AddError(fmt.Sprintf("image URL %q is not a valid URL", md.ImageURL))
	}

	if md.TelegramLink == "" {
		result.AddError("telegram link cannot be empty")
	}
	if md.TwitterLink == "" {
		result.AddError("twitter link cannot be empty")
	}

	return result
}

// validateLength records at most one error per field: empty and too-long are
// mutually exclusive.
func validateLength(result *ValidationResult, field, value string, limit int) {
	switch {
	case value == "":
		result.AddError(fmt.Sprintf("token %s cannot be empty", field))
	case utf8.RuneCountInString(value) > limit:
		result.AddError(fmt.Sprintf("token %s must be %d characters or less", field, limit))
	}
}

func isWellFormedURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
