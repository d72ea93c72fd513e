// =============================
// File: internal/token/metadata.go
// =============================
package token

// Protocol limits for token metadata fields.
const (
	MaxNameLength        = 32
	MaxSymbolLength      = 8
	MaxDescriptionLength = 200
)

// Metadata is the immutable descriptor of a token to be created. It is built
// from a creation request, validated once and consumed by the assembler.
type Metadata struct {
	Name         string `json:"name"`
	Symbol       string `json:"symbol"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url"`
	TelegramLink string `json:"telegram_link"`
	TwitterLink  string `json:"twitter_link"`
}

// ValidationResult accumulates the outcome of one validation pass. Valid is
// true exactly when Errors is empty.
type ValidationResult struct {
	Valid    bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// NewValidationResult returns an empty, valid result.
func NewValidationResult() *ValidationResult {
	return &ValidationResult{Valid: true}
}

// AddError records a violation and marks the result invalid.
func (r *ValidationResult) AddError(msg string) {
	r.Valid = false
	r.Errors = append(r.Errors, msg)
}

// AddWarning records a non-fatal issue.
func (r *ValidationResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
